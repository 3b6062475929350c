package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Add seeds a user and returns it.
func (s *UserRepositoryStub) Add(user *model.User) *model.User {
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	s.Users[user.Login] = user
	s.ByID[user.ID] = user
	if user.ID >= s.Next {
		s.Next = user.ID + 1
	}
	return user
}

// ProductRepositoryStub serves a fixed catalog for tests.
type ProductRepositoryStub struct {
	Products []model.Product
	Err      error
}

// GetBySKU returns the matching product or not found.
func (s *ProductRepositoryStub) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.SKU == sku {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID returns the matching product or not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListActive returns active products, optionally filtered by game.
func (s *ProductRepositoryStub) ListActive(ctx context.Context, game string) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Product
	for _, p := range s.Products {
		if p.Active && (game == "" || p.Game == game) {
			result = append(result, p)
		}
	}
	return result, nil
}

// OrderRepositoryStub keeps orders in-memory and enforces the same guarded
// transitions as the real storage so lifecycle tests exercise transition
// conflicts.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]*model.Order

	CreateFn  func(context.Context, *model.Order) error
	GetByIDFn func(context.Context, string) (*model.Order, error)
	BatchFn   func(context.Context, time.Duration, int) ([]model.Order, error)

	Failures   []string
	Completed  []string
	Processing []string
}

// NewOrderRepositoryStub constructs stub repository with initialized map.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// Create stores a new order.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	s.Orders[order.ID] = &stored
	return nil
}

// GetByID fetches a copy of the stored order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.Orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns the user's orders.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.Orders {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

// SetPaymentURL records the payment URL on a pending order.
func (s *OrderRepositoryStub) SetPaymentURL(ctx context.Context, id, paymentURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status != model.OrderStatusPending {
		return s.conflict(order)
	}
	order.PaymentURL = &paymentURL
	order.UpdatedAt = time.Now()
	return nil
}

// MarkProcessing moves pending to processing and records the UTR once.
func (s *OrderRepositoryStub) MarkProcessing(ctx context.Context, id, utr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status != model.OrderStatusPending {
		return s.conflict(order)
	}
	order.Status = model.OrderStatusProcessing
	if order.UTR == nil && utr != "" {
		order.UTR = &utr
	}
	order.UpdatedAt = time.Now()
	s.Processing = append(s.Processing, id)
	return nil
}

// MarkCompleted finalizes a non-terminal order.
func (s *OrderRepositoryStub) MarkCompleted(ctx context.Context, id, externalOrderID string, fulfilledAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status.Terminal() {
		return domainErrors.ErrOrderTerminal
	}
	order.Status = model.OrderStatusCompleted
	order.Fulfilled = true
	order.FulfilledAt = &fulfilledAt
	if externalOrderID != "" {
		order.ExternalOrderID = &externalOrderID
	}
	order.UpdatedAt = time.Now()
	s.Completed = append(s.Completed, id)
	return nil
}

// MarkFailed finalizes a non-terminal order with a reason.
func (s *OrderRepositoryStub) MarkFailed(ctx context.Context, id, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status.Terminal() {
		return domainErrors.ErrOrderTerminal
	}
	order.Status = model.OrderStatusFailed
	order.FailureReason = &reason
	order.UpdatedAt = time.Now()
	s.Failures = append(s.Failures, id)
	return nil
}

// SelectBatchForReconciliation returns non-terminal orders older than minAge.
func (s *OrderRepositoryStub) SelectBatchForReconciliation(ctx context.Context, minAge time.Duration, limit int) ([]model.Order, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, minAge, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-minAge)
	var result []model.Order
	for _, order := range s.Orders {
		if order.Status.Terminal() || order.UpdatedAt.After(cutoff) {
			continue
		}
		result = append(result, *order)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *OrderRepositoryStub) conflict(order *model.Order) error {
	if order.Status.Terminal() {
		return domainErrors.ErrOrderTerminal
	}
	return domainErrors.ErrAlreadyExists
}

// Seed stores an order directly, bypassing transition guards.
func (s *OrderRepositoryStub) Seed(order *model.Order) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	stored := *order
	s.Orders[order.ID] = &stored
	return &stored
}

// BalanceRepositoryStub mirrors the conditional debit and once-per-order
// refund semantics of the real storage.
type BalanceRepositoryStub struct {
	mu       sync.Mutex
	Balances map[int64]decimal.Decimal
	Entries  []model.LedgerEntry
	Err      error
}

// NewBalanceRepositoryStub constructs stub repository with initialized map.
func NewBalanceRepositoryStub() *BalanceRepositoryStub {
	return &BalanceRepositoryStub{Balances: make(map[int64]decimal.Decimal)}
}

// DebitForOrder subtracts amount when balance covers it, at most once per order.
func (s *BalanceRepositoryStub) DebitForOrder(ctx context.Context, userID int64, orderID string, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	if s.Err != nil {
		return decimal.Decimal{}, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasEntry(orderID, model.LedgerDeduction) {
		return decimal.Decimal{}, domainErrors.ErrAlreadyExists
	}
	balance, ok := s.Balances[userID]
	if !ok {
		return decimal.Decimal{}, domainErrors.ErrNotFound
	}
	if balance.LessThan(amount) {
		return decimal.Decimal{}, domainErrors.ErrInsufficientBalance
	}
	balance = balance.Sub(amount)
	s.Balances[userID] = balance
	s.append(userID, orderID, model.LedgerDeduction, amount, reason, balance)
	return balance, nil
}

// RefundForOrder credits amount back, at most once per order.
func (s *BalanceRepositoryStub) RefundForOrder(ctx context.Context, userID int64, orderID string, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	return s.credit(userID, orderID, model.LedgerRefund, amount, reason)
}

// CreditTopup credits gateway-confirmed funds, at most once per order.
func (s *BalanceRepositoryStub) CreditTopup(ctx context.Context, userID int64, orderID string, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	return s.credit(userID, orderID, model.LedgerTopup, amount, reason)
}

func (s *BalanceRepositoryStub) credit(userID int64, orderID string, entryType model.LedgerEntryType, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	if s.Err != nil {
		return decimal.Decimal{}, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasEntry(orderID, entryType) {
		return decimal.Decimal{}, domainErrors.ErrAlreadyExists
	}
	if s.Balances == nil {
		s.Balances = make(map[int64]decimal.Decimal)
	}
	balance := s.Balances[userID].Add(amount)
	s.Balances[userID] = balance
	s.append(userID, orderID, entryType, amount, reason, balance)
	return balance, nil
}

// GetBalance returns the current balance.
func (s *BalanceRepositoryStub) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	if s.Err != nil {
		return decimal.Decimal{}, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.Balances[userID]
	if !ok {
		return decimal.Decimal{}, domainErrors.ErrNotFound
	}
	return balance, nil
}

// LedgerByUser returns the user's ledger entries.
func (s *BalanceRepositoryStub) LedgerByUser(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.LedgerEntry
	for _, e := range s.Entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

// LedgerByOrder returns the entries attached to one order.
func (s *BalanceRepositoryStub) LedgerByOrder(ctx context.Context, orderID string) ([]model.LedgerEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.LedgerEntry
	for _, e := range s.Entries {
		if e.OrderID != nil && *e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *BalanceRepositoryStub) hasEntry(orderID string, entryType model.LedgerEntryType) bool {
	for _, e := range s.Entries {
		if e.OrderID != nil && *e.OrderID == orderID && e.Type == entryType {
			return true
		}
	}
	return false
}

func (s *BalanceRepositoryStub) append(userID int64, orderID string, entryType model.LedgerEntryType, amount decimal.Decimal, reason string, balanceAfter decimal.Decimal) {
	id := orderID
	s.Entries = append(s.Entries, model.LedgerEntry{
		ID:           int64(len(s.Entries) + 1),
		UserID:       userID,
		OrderID:      &id,
		Type:         entryType,
		Amount:       amount,
		Reason:       reason,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now(),
	})
}
