package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
)

// MemoryWalletRepository is an in-memory implementation of WalletRepository.
type MemoryWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
	order   []string

	GetByIDFunc func(ctx context.Context, id string) (*domain.Wallet, error)
	ListAllFunc func(ctx context.Context) ([]*domain.Wallet, error)
}

func NewMemoryWalletRepository() *MemoryWalletRepository {
	return &MemoryWalletRepository{wallets: make(map[string]*domain.Wallet)}
}

func (m *MemoryWalletRepository) Add(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[wallet.ID]; !ok {
		m.order = append(m.order, wallet.ID)
	}
	m.wallets[wallet.ID] = wallet
}

func (m *MemoryWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	wallet, ok := m.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return wallet, nil
}

func (m *MemoryWalletRepository) ListAll(ctx context.Context) ([]*domain.Wallet, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	wallets := make([]*domain.Wallet, 0, len(m.order))
	for _, id := range m.order {
		wallets = append(wallets, m.wallets[id])
	}
	return wallets, nil
}

// MemoryLedgerRepository is an in-memory implementation of LedgerRepository.
type MemoryLedgerRepository struct {
	mu      sync.RWMutex
	entries map[string][]*domain.Transaction

	GetWalletTransactionsFunc func(ctx context.Context, walletID string) ([]*domain.Transaction, error)
}

func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{entries: make(map[string][]*domain.Transaction)}
}

func (m *MemoryLedgerRepository) Append(walletID string, entries ...*domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[walletID] = append(m.entries[walletID], entries...)
}

func (m *MemoryLedgerRepository) GetWalletTransactions(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	if m.GetWalletTransactionsFunc != nil {
		return m.GetWalletTransactionsFunc(ctx, walletID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[walletID], nil
}

// MemoryProjectionRepository is an in-memory implementation of
// ProjectionRepository with compare-and-swap semantics matching the
// postgres adapter.
type MemoryProjectionRepository struct {
	mu       sync.RWMutex
	balances map[string]*domain.BalanceProjection
	writes   int

	GetBalanceFunc    func(ctx context.Context, walletID string) (*domain.BalanceProjection, error)
	UpdateBalanceFunc func(ctx context.Context, walletID string, balance, expected decimal.Decimal, currency string, updatedAt time.Time) error
}

func NewMemoryProjectionRepository() *MemoryProjectionRepository {
	return &MemoryProjectionRepository{balances: make(map[string]*domain.BalanceProjection)}
}

func (m *MemoryProjectionRepository) Set(projection *domain.BalanceProjection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[projection.WalletID] = projection
}

// Writes returns how many update calls reached the store.
func (m *MemoryProjectionRepository) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func (m *MemoryProjectionRepository) GetBalance(ctx context.Context, walletID string) (*domain.BalanceProjection, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, walletID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	projection, ok := m.balances[walletID]
	if !ok {
		return nil, nil
	}
	copied := *projection
	return &copied, nil
}

func (m *MemoryProjectionRepository) UpdateBalance(ctx context.Context, walletID string, balance, expected decimal.Decimal, currency string, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, walletID, balance, expected, currency, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++

	current, ok := m.balances[walletID]
	switch {
	case !ok:
		if !expected.IsZero() {
			return domain.ErrProjectionConflict
		}
	case !current.Balance.Equal(expected):
		return domain.ErrProjectionConflict
	}

	m.balances[walletID] = &domain.BalanceProjection{
		WalletID:  walletID,
		Balance:   balance,
		Currency:  currency,
		UpdatedAt: updatedAt,
	}

	return nil
}

// RecordingAlertSink captures emitted events for assertions.
type RecordingAlertSink struct {
	mu     sync.Mutex
	events []*domain.AlertEvent

	EmitFunc func(ctx context.Context, event *domain.AlertEvent) error
}

func NewRecordingAlertSink() *RecordingAlertSink {
	return &RecordingAlertSink{}
}

func (s *RecordingAlertSink) Emit(ctx context.Context, event *domain.AlertEvent) error {
	if s.EmitFunc != nil {
		return s.EmitFunc(ctx, event)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of everything emitted so far.
func (s *RecordingAlertSink) Events() []*domain.AlertEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.AlertEvent(nil), s.events...)
}

// ByType returns emitted events of one type.
func (s *RecordingAlertSink) ByType(eventType string) []*domain.AlertEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*domain.AlertEvent
	for _, e := range s.events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

// SequenceIDGenerator generates deterministic IDs for tests.
type SequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "id-" + strconv.Itoa(g.next)
}
