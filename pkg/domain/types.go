package domain

import "time"

type GroupType string

const (
	GroupTrip    GroupType = "TRIP"
	GroupProject GroupType = "PROJECT"
)

type SplitType string

const (
	SplitEven    SplitType = "EVEN"
	SplitPercent SplitType = "PERCENT"
	SplitShares  SplitType = "SHARES"
)

type ExpenseStatus string

const (
	ExpenseDraft     ExpenseStatus = "DRAFT"
	ExpenseConfirmed ExpenseStatus = "CONFIRMED"
	ExpenseSettled   ExpenseStatus = "SETTLED"
)

type UploadStatus string

const (
	UploadPending   UploadStatus = "PENDING"
	UploadRunning   UploadStatus = "RUNNING"
	UploadCompleted UploadStatus = "COMPLETED"
	UploadFailed    UploadStatus = "FAILED"
)

type ItineraryItemType string

const (
	ItineraryFlight    ItineraryItemType = "FLIGHT"
	ItineraryTransport ItineraryItemType = "TRANSPORT"
)

type ItineraryItemStatus string

const (
	ItineraryConfirmed ItineraryItemStatus = "CONFIRMED"
	ItineraryTentative ItineraryItemStatus = "TENTATIVE"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Group struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      GroupType  `json:"type"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	Members   []Member   `json:"members,omitempty"`
}

// Member is one participant slot in a group. UserID is nil for placeholder
// members that were added by display name only and have no account yet.
type Member struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId"`
	UserID      *string   `json:"userId"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ExpenseParticipant struct {
	MemberID    string  `json:"memberId"`
	ShareAmount *string `json:"shareAmount,omitempty"`
}

type ExpenseLineItem struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Quantity    string `json:"quantity"`
	UnitAmount  string `json:"unitAmount"`
	TotalAmount string `json:"totalAmount"`
}

type Expense struct {
	ID            string               `json:"id"`
	GroupID       string               `json:"groupId"`
	PayerMemberID *string              `json:"payerMemberId,omitempty"`
	Name          string               `json:"name"`
	Description   string               `json:"description,omitempty"`
	Amount        string               `json:"amount"`
	Currency      string               `json:"currency"`
	Date          time.Time            `json:"date"`
	Category      string               `json:"category,omitempty"`
	Status        ExpenseStatus        `json:"status"`
	SplitType     SplitType            `json:"splitType"`
	Participants  []ExpenseParticipant `json:"participants"`
	PercentMap    map[string]string    `json:"percentMap,omitempty"`
	ShareMap      map[string]string    `json:"shareMap,omitempty"`
	LineItems     []ExpenseLineItem    `json:"lineItems,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type ExpensePayment struct {
	ID            string    `json:"id"`
	ExpenseID     string    `json:"expenseId"`
	PayerMemberID string    `json:"payerMemberId"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	PaidAt        time.Time `json:"paidAt"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UploadedExpense tracks one receipt file attached to an expense and the
// progress of its asynchronous LLM parse.
type UploadedExpense struct {
	ID               string       `json:"id"`
	ExpenseID        string       `json:"expenseId"`
	UploadedByID     string       `json:"uploadedById"`
	OriginalFileName string       `json:"originalFileName"`
	FileType         string       `json:"fileType"`
	StorageKey       string       `json:"-"`
	ProcessingStatus UploadStatus `json:"processingStatus"`
	Attempts         int          `json:"attempts"`
	RawText          string       `json:"rawText,omitempty"`
	ParsedJSON       []byte       `json:"parsedJson,omitempty"`
	LastError        string       `json:"lastError,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// ItineraryItem is a scheduled trip entry. Flight items carry the airline
// fields and the raw upstream schedule record for audit.
type ItineraryItem struct {
	ID                      string              `json:"id"`
	GroupID                 string              `json:"groupId"`
	Type                    ItineraryItemType   `json:"type"`
	Status                  ItineraryItemStatus `json:"status"`
	Title                   string              `json:"title"`
	StartDateTime           time.Time           `json:"startDateTime"`
	EndDateTime             *time.Time          `json:"endDateTime,omitempty"`
	OriginLocationCode      string              `json:"originLocationCode,omitempty"`
	OriginName              string              `json:"originName,omitempty"`
	OriginAddress           string              `json:"originAddress,omitempty"`
	DestinationLocationCode string              `json:"destinationLocationCode,omitempty"`
	DestinationName         string              `json:"destinationName,omitempty"`
	DestinationAddress      string              `json:"destinationAddress,omitempty"`
	TransportNumber         string              `json:"transportNumber,omitempty"`
	AirlineCode             string              `json:"airlineCode,omitempty"`
	AirlineName             string              `json:"airlineName,omitempty"`
	FlightNumber            string              `json:"flightNumber,omitempty"`
	RawTransportPayload     []byte              `json:"rawTransportPayload,omitempty"`
	MemberIDs               []string            `json:"memberIds"`
	CreatedAt               time.Time           `json:"createdAt"`
}

// ChatTurn is one immutable row of the transport-chat history. Model doubles
// as the conversation key ("flight-chat:{groupId}"); Response holds the
// serialized assistant payload from that turn.
type ChatTurn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
}
