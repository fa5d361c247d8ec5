// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/boddenberg/expense-control-go/internal/domain"
)

// PersonStore persists people. Getters, updates and deletes return
// *domain.ErrNotFound when the id does not exist.
type PersonStore interface {
	CreatePerson(ctx context.Context, p *domain.Person) error
	UpdatePerson(ctx context.Context, p *domain.Person) error
	DeletePerson(ctx context.Context, id uuid.UUID) error
	GetPerson(ctx context.Context, id uuid.UUID) (*domain.Person, error)
	ListPeople(ctx context.Context) ([]domain.Person, error)
}

// CategoryStore persists categories. DeleteCategory returns
// *domain.ErrBusinessRule while transactions still reference the category.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// TransactionStore persists transactions.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *domain.Transaction) error
	UpdateTransaction(ctx context.Context, t *domain.Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// ReportQuery computes per-group totals. Every person or category is
// present in the result, with zero totals when it has no transactions.
type ReportQuery interface {
	TotalsByPerson(ctx context.Context) ([]domain.PersonTotals, error)
	TotalsByCategory(ctx context.Context) ([]domain.CategoryTotals, error)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// EventPublisher announces entity changes to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}

// Cache provides generic caching with TTL. Deletions advance a generation;
// SetIfGeneration lets a reader that started before a deletion skip storing
// what it computed.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	SetIfGeneration(key string, value T, gen uint64) bool
	Generation() uint64
	Delete(key string)
	DeletePrefix(prefix string) int
}
