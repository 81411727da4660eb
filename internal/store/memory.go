package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/icz3us/medical-inv-v2/domain"
)

// NewMemoryStores wires the in-memory gateways. They back the degraded mode
// when no database is reachable and double as the test fixture; semantics
// match the Postgres gateways.
func NewMemoryStores() Stores {
	return Stores{
		Items:    NewMemoryItemStore(),
		Requests: NewMemoryRequestStore(),
		Users:    NewMemoryUserStore(domain.DefaultStaff()),
	}
}

// MemoryItemStore provides in-memory inventory storage.
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[string]domain.InventoryItem
}

var _ ItemStore = (*MemoryItemStore)(nil)

func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{items: make(map[string]domain.InventoryItem)}
}

func (s *MemoryItemStore) List(ctx context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.InventoryItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *MemoryItemStore) Get(ctx context.Context, id string) (domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return domain.InventoryItem{}, ErrNotFound
	}
	return item, nil
}

func (s *MemoryItemStore) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = item
	return item, nil
}

func (s *MemoryItemStore) Update(ctx context.Context, id string, update ItemUpdate) (domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return domain.InventoryItem{}, ErrNotFound
	}
	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Category != nil {
		item.Category = domain.NormalizeCategory(*update.Category)
	}
	if update.Quantity != nil {
		item.Quantity = *update.Quantity
	}
	if update.Unit != nil {
		item.Unit = *update.Unit
	}
	if update.CostPerUnit != nil {
		item.CostPerUnit = *update.CostPerUnit
	}
	if update.MinThreshold != nil {
		item.MinThreshold = *update.MinThreshold
	}
	if update.ExpiryDate != nil {
		item.ExpiryDate = update.ExpiryDate
	}
	if update.Supplier != nil {
		item.Supplier = *update.Supplier
	}
	s.items[id] = item
	return item, nil
}

func (s *MemoryItemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

// MemoryRequestStore provides in-memory request storage with the same
// terminal-state guarantees as the Postgres gateway.
type MemoryRequestStore struct {
	mu       sync.RWMutex
	requests map[string]domain.Request
}

var _ RequestStore = (*MemoryRequestStore)(nil)

func NewMemoryRequestStore() *MemoryRequestStore {
	return &MemoryRequestStore{requests: make(map[string]domain.Request)}
}

func (s *MemoryRequestStore) List(ctx context.Context) ([]domain.Request, error) {
	return s.listWhere(func(domain.Request) bool { return true })
}

func (s *MemoryRequestStore) ListByRequester(ctx context.Context, requesterID string) ([]domain.Request, error) {
	return s.listWhere(func(r domain.Request) bool { return r.RequesterID == requesterID })
}

func (s *MemoryRequestStore) listWhere(keep func(domain.Request) bool) ([]domain.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := []domain.Request{}
	for _, request := range s.requests {
		if keep(request) {
			requests = append(requests, request)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestDate.After(requests[j].RequestDate)
	})
	return requests, nil
}

func (s *MemoryRequestStore) Create(ctx context.Context, request domain.Request) (domain.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests[request.ID] = request
	return request, nil
}

func (s *MemoryRequestStore) SetStatus(ctx context.Context, id, status string) (domain.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[id]
	if !ok {
		return domain.Request{}, ErrNotFound
	}
	if request.Terminal() {
		return request, ErrAlreadyDecided
	}
	request.Status = status
	if status == domain.StatusApproved {
		now := time.Now().UTC()
		request.ApprovedDate = &now
	}
	s.requests[id] = request
	return request, nil
}

// MemoryUserStore serves the staff roster from memory.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

var _ UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore(staff []domain.User) *MemoryUserStore {
	users := make(map[string]domain.User, len(staff))
	for _, user := range staff {
		users[user.ID] = user
	}
	return &MemoryUserStore{users: users}
}

func (s *MemoryUserStore) List(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryUserStore) Get(ctx context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}
