package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/infra/cache"
	"github.com/boddenberg/expense-control-go/internal/infra/observability"
	"github.com/boddenberg/expense-control-go/internal/service"
)

// --- Mocks ---

// memStore implements every store port in memory, keeping insertion order.
type memStore struct {
	mu           sync.Mutex
	people       []domain.Person
	categories   []domain.Category
	transactions []domain.Transaction
	err          error // returned by every call when set
	reportCalls  int
}

func (m *memStore) CreatePerson(_ context.Context, p *domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.people = append(m.people, *p)
	return nil
}

func (m *memStore) UpdatePerson(_ context.Context, p *domain.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.people {
		if m.people[i].ID == p.ID {
			m.people[i] = *p
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "person", ID: p.ID.String()}
}

func (m *memStore) DeletePerson(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.people {
		if m.people[i].ID == id {
			m.people = append(m.people[:i], m.people[i+1:]...)
			kept := m.transactions[:0]
			for _, t := range m.transactions {
				if t.PersonID != id {
					kept = append(kept, t)
				}
			}
			m.transactions = kept
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "person", ID: id.String()}
}

func (m *memStore) GetPerson(_ context.Context, id uuid.UUID) (*domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.people {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "person", ID: id.String()}
}

func (m *memStore) ListPeople(_ context.Context) ([]domain.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Person(nil), m.people...), nil
}

func (m *memStore) CreateCategory(_ context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, *c)
	return nil
}

func (m *memStore) UpdateCategory(_ context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.categories {
		if m.categories[i].ID == c.ID {
			m.categories[i] = *c
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "category", ID: c.ID.String()}
}

func (m *memStore) DeleteCategory(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.CategoryID == id {
			return &domain.ErrBusinessRule{Reason: "category is in use by transactions"}
		}
	}
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "category", ID: id.String()}
}

func (m *memStore) GetCategory(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "category", ID: id.String()}
}

func (m *memStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Category(nil), m.categories...), nil
}

func (m *memStore) CreateTransaction(_ context.Context, t *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, *t)
	return nil
}

func (m *memStore) UpdateTransaction(_ context.Context, t *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == t.ID {
			m.transactions[i].Description = t.Description
			m.transactions[i].Amount = t.Amount
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "transaction", ID: t.ID.String()}
}

func (m *memStore) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "transaction", ID: id.String()}
}

func (m *memStore) GetTransaction(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "transaction", ID: id.String()}
}

func (m *memStore) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Transaction(nil), m.transactions...), nil
}

func (m *memStore) sums(match func(domain.Transaction) bool) domain.Totals {
	totals := domain.Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range m.transactions {
		if !match(t) {
			continue
		}
		if t.Type == domain.TransactionIncome {
			totals.Income = totals.Income.Add(t.Amount)
		} else {
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	return totals
}

func (m *memStore) TotalsByPerson(_ context.Context) ([]domain.PersonTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.reportCalls++
	out := make([]domain.PersonTotals, 0, len(m.people))
	for _, p := range m.people {
		id := p.ID
		out = append(out, domain.PersonTotals{PersonID: id, Name: p.Name, Totals: m.sums(func(t domain.Transaction) bool { return t.PersonID == id })})
	}
	return out, nil
}

func (m *memStore) TotalsByCategory(_ context.Context) ([]domain.CategoryTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.reportCalls++
	out := make([]domain.CategoryTotals, 0, len(m.categories))
	for _, c := range m.categories {
		id := c.ID
		out = append(out, domain.CategoryTotals{CategoryID: id, Description: c.Description, Totals: m.sums(func(t domain.Transaction) bool { return t.CategoryID == id })})
	}
	return out, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, evt domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, evt)
	return nil
}

func (m *mockPublisher) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Name)
	}
	return out
}

var errDatabaseDown = errors.New("database is down")

// fixture wires every service over one memStore.
type fixture struct {
	store        *memStore
	publisher    *mockPublisher
	metrics      *observability.Metrics
	reportCache  *cache.TTL[any]
	people       *service.PersonService
	categories   *service.CategoryService
	transactions *service.TransactionService
	reports      *service.ReportService
}

func newFixture() *fixture {
	store := &memStore{}
	pub := &mockPublisher{}
	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	reportCache := cache.New[any](5 * time.Minute)
	notifier := service.NewChangeNotifier(reportCache, pub, metrics, logger)

	return &fixture{
		store:        store,
		publisher:    pub,
		metrics:      metrics,
		reportCache:  reportCache,
		people:       service.NewPersonService(store, notifier, metrics, logger),
		categories:   service.NewCategoryService(store, notifier, metrics, logger),
		transactions: service.NewTransactionService(store, store, store, notifier, metrics, logger),
		reports:      service.NewReportService(store, reportCache, metrics, logger),
	}
}
