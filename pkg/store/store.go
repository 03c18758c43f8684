package store

import (
	"tripsplit/pkg/domain"
)

// Store defines persistence operations for users, groups, expenses, receipt
// uploads, itinerary items, and chat history.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)

	// groups and members
	SaveGroup(domain.Group) error
	GetGroup(id string) (domain.Group, bool, error)
	ListGroupsByUser(userID string) ([]domain.Group, error)
	SaveMember(domain.Member) error
	GetMember(id string) (domain.Member, bool, error)
	ListGroupMembers(groupID string) ([]domain.Member, error)

	// expenses
	SaveExpense(domain.Expense) error
	GetExpense(id string) (domain.Expense, bool, error)
	ListGroupExpenses(groupID string) ([]domain.Expense, error)
	DeleteExpense(id string) error

	// expense payments
	SavePayment(domain.ExpensePayment) error
	GetPayment(id string) (domain.ExpensePayment, bool, error)
	ListExpensePayments(expenseID string) ([]domain.ExpensePayment, error)
	DeletePayment(id string) error

	// receipt uploads
	SaveUploadedExpense(domain.UploadedExpense) error
	GetUploadedExpense(id string) (domain.UploadedExpense, bool, error)
	ListExpenseUploads(expenseID string) ([]domain.UploadedExpense, error)
	SetUploadStatus(id string, status domain.UploadStatus, lastError string) error
	DeleteUploadedExpense(id string) error

	// itinerary
	SaveItineraryItem(domain.ItineraryItem) error
	GetItineraryItem(id string) (domain.ItineraryItem, bool, error)
	ListGroupItineraryItems(groupID string) ([]domain.ItineraryItem, error)
	ListMemberTransportItems(memberID string) ([]domain.ItineraryItem, error)

	// chat turns; rows are immutable once appended, ListChatTurns returns
	// the newest limit rows in creation order
	AppendChatTurn(domain.ChatTurn) error
	ListChatTurns(userID, model string, limit int) ([]domain.ChatTurn, error)
}
