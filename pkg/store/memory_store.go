package store

import (
	"sort"
	"sync"

	"tripsplit/pkg/domain"
)

// MemoryStore implements Store in-process. It backs unit tests and local
// development without Postgres.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	email       map[string]string // email -> user ID
	groups      map[string]domain.Group
	groupOrder  []string
	members     map[string]domain.Member
	memberOrder []string
	expenses    map[string]domain.Expense
	payments    map[string]domain.ExpensePayment
	uploads     map[string]domain.UploadedExpense
	uploadOrder []string
	items       map[string]domain.ItineraryItem
	turns       []domain.ChatTurn
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		email:    make(map[string]string),
		groups:   make(map[string]domain.Group),
		members:  make(map[string]domain.Member),
		expenses: make(map[string]domain.Expense),
		payments: make(map[string]domain.ExpensePayment),
		uploads:  make(map[string]domain.UploadedExpense),
		items:    make(map[string]domain.ItineraryItem),
	}
}

// users

func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// groups and members

func (m *MemoryStore) SaveGroup(g domain.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.groups[g.ID]; !exists {
		m.groupOrder = append(m.groupOrder, g.ID)
	}
	g.Members = nil
	m.groups[g.ID] = g
	return nil
}

func (m *MemoryStore) GetGroup(id string) (domain.Group, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	return g, ok, nil
}

func (m *MemoryStore) ListGroupsByUser(userID string) ([]domain.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	memberOf := make(map[string]bool)
	for _, mem := range m.members {
		if mem.UserID != nil && *mem.UserID == userID {
			memberOf[mem.GroupID] = true
		}
	}
	res := make([]domain.Group, 0, len(memberOf))
	for _, id := range m.groupOrder {
		if memberOf[id] {
			res = append(res, m.groups[id])
		}
	}
	return res, nil
}

func (m *MemoryStore) SaveMember(mem domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.members[mem.ID]; !exists {
		m.memberOrder = append(m.memberOrder, mem.ID)
	}
	m.members[mem.ID] = mem
	return nil
}

func (m *MemoryStore) GetMember(id string) (domain.Member, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mem, ok := m.members[id]
	return mem, ok, nil
}

func (m *MemoryStore) ListGroupMembers(groupID string) ([]domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Member, 0, 4)
	for _, id := range m.memberOrder {
		if mem, ok := m.members[id]; ok && mem.GroupID == groupID {
			res = append(res, mem)
		}
	}
	return res, nil
}

// expenses

func (m *MemoryStore) SaveExpense(e domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[e.ID] = e
	return nil
}

func (m *MemoryStore) GetExpense(id string) (domain.Expense, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.expenses[id]
	return e, ok, nil
}

func (m *MemoryStore) ListGroupExpenses(groupID string) ([]domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Expense, 0, 8)
	for _, e := range m.expenses {
		if e.GroupID == groupID {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].Date.Equal(res[j].Date) {
			return res[i].Date.After(res[j].Date)
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) DeleteExpense(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expenses, id)
	for pid, p := range m.payments {
		if p.ExpenseID == id {
			delete(m.payments, pid)
		}
	}
	for uid, u := range m.uploads {
		if u.ExpenseID == id {
			delete(m.uploads, uid)
		}
	}
	return nil
}

// payments

func (m *MemoryStore) SavePayment(p domain.ExpensePayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
	return nil
}

func (m *MemoryStore) GetPayment(id string) (domain.ExpensePayment, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	return p, ok, nil
}

func (m *MemoryStore) ListExpensePayments(expenseID string) ([]domain.ExpensePayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ExpensePayment, 0, 4)
	for _, p := range m.payments {
		if p.ExpenseID == expenseID {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].PaidAt.Before(res[j].PaidAt) })
	return res, nil
}

func (m *MemoryStore) DeletePayment(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payments, id)
	return nil
}

// receipt uploads

func (m *MemoryStore) SaveUploadedExpense(u domain.UploadedExpense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.uploads[u.ID]; !exists {
		m.uploadOrder = append(m.uploadOrder, u.ID)
	}
	m.uploads[u.ID] = u
	return nil
}

func (m *MemoryStore) GetUploadedExpense(id string) (domain.UploadedExpense, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.uploads[id]
	return u, ok, nil
}

func (m *MemoryStore) ListExpenseUploads(expenseID string) ([]domain.UploadedExpense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.UploadedExpense, 0, 4)
	for i := len(m.uploadOrder) - 1; i >= 0; i-- {
		if u, ok := m.uploads[m.uploadOrder[i]]; ok && u.ExpenseID == expenseID {
			res = append(res, u)
		}
	}
	return res, nil
}

func (m *MemoryStore) SetUploadStatus(id string, status domain.UploadStatus, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.uploads[id]
	if !ok {
		return nil
	}
	u.ProcessingStatus = status
	u.LastError = lastError
	m.uploads[id] = u
	return nil
}

func (m *MemoryStore) DeleteUploadedExpense(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.uploads, id)
	return nil
}

// itinerary

func (m *MemoryStore) SaveItineraryItem(item domain.ItineraryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *MemoryStore) GetItineraryItem(id string) (domain.ItineraryItem, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	return item, ok, nil
}

func (m *MemoryStore) ListGroupItineraryItems(groupID string) ([]domain.ItineraryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ItineraryItem, 0, 8)
	for _, item := range m.items {
		if item.GroupID == groupID {
			res = append(res, item)
		}
	}
	sortItemsByStart(res)
	return res, nil
}

func (m *MemoryStore) ListMemberTransportItems(memberID string) ([]domain.ItineraryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ItineraryItem, 0, 8)
	for _, item := range m.items {
		for _, id := range item.MemberIDs {
			if id == memberID {
				res = append(res, item)
				break
			}
		}
	}
	sortItemsByStart(res)
	return res, nil
}

func sortItemsByStart(items []domain.ItineraryItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartDateTime.Before(items[j].StartDateTime)
	})
}

// chat turns

func (m *MemoryStore) AppendChatTurn(turn domain.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, turn)
	return nil
}

func (m *MemoryStore) ListChatTurns(userID, model string, limit int) ([]domain.ChatTurn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ChatTurn, 0, limit)
	for _, t := range m.turns {
		if t.UserID == userID && t.Model == model {
			res = append(res, t)
		}
	}
	if limit > 0 && len(res) > limit {
		res = res[len(res)-limit:]
	}
	return res, nil
}
