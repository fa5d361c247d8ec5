package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/infra/observability"
	"github.com/boddenberg/expense-control-go/internal/port"
)

var txTracer = otel.Tracer("service/transaction")

// TransactionService records transactions against existing people and
// categories.
type TransactionService struct {
	store      port.TransactionStore
	people     port.PersonStore
	categories port.CategoryStore
	notifier   *ChangeNotifier
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func NewTransactionService(
	store port.TransactionStore,
	people port.PersonStore,
	categories port.CategoryStore,
	notifier *ChangeNotifier,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		store:      store,
		people:     people,
		categories: categories,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger,
	}
}

// Create resolves the category and the person, builds the transaction under
// the domain rules and stores it. A missing category is reported before a
// missing person.
func (s *TransactionService) Create(ctx context.Context, req domain.TransactionRequest) (*domain.CreatedResponse, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Create")
	defer span.End()
	defer observe(s.metrics, "transaction.create", time.Now())

	personID, categoryID, err := validateTransaction(req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("person.id", personID.String()),
		attribute.String("category.id", categoryID.String()),
	)

	// Both lookups always run to completion so the error order stays fixed.
	var (
		category          *domain.Category
		person            *domain.Person
		catErr, personErr error
		g                 errgroup.Group
	)
	g.Go(func() error {
		category, catErr = s.categories.GetCategory(ctx, categoryID)
		return catErr
	})
	g.Go(func() error {
		person, personErr = s.people.GetPerson(ctx, personID)
		return personErr
	})
	_ = g.Wait()
	if catErr != nil {
		return nil, catErr
	}
	if personErr != nil {
		return nil, personErr
	}

	tx, err := domain.NewTransaction(req.Description, req.Amount, req.Type, category, person)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("transaction.id", tx.ID.String()))
	s.logger.Info("transaction created",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("person_id", personID.String()),
		zap.String("category_id", categoryID.String()),
		zap.Stringer("type", tx.Type),
		zap.String("amount", tx.Amount.StringFixed(2)),
	)
	s.notifier.Changed(ctx, "transaction", "created", tx.ID)

	return &domain.CreatedResponse{ID: tx.ID, Message: "transaction created successfully"}, nil
}

// Update applies description and amount only. The whole request is still
// schema-validated.
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, req domain.TransactionRequest) (*domain.TransactionResponse, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id.String()))
	defer observe(s.metrics, "transaction.update", time.Now())

	if _, _, err := validateTransaction(req); err != nil {
		return nil, err
	}
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Update(req.Description, req.Amount); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("transaction updated", zap.String("transaction_id", id.String()))
	s.notifier.Changed(ctx, "transaction", "updated", id)

	resp := domain.NewTransactionResponse(tx)
	return &resp, nil
}

func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := txTracer.Start(ctx, "TransactionService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id.String()))
	defer observe(s.metrics, "transaction.delete", time.Now())

	if _, err := s.store.GetTransaction(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.logger.Info("transaction deleted", zap.String("transaction_id", id.String()))
	s.notifier.Changed(ctx, "transaction", "deleted", id)
	return nil
}

func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*domain.TransactionResponse, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", id.String()))

	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := domain.NewTransactionResponse(tx)
	return &resp, nil
}

func (s *TransactionService) List(ctx context.Context) ([]domain.TransactionResponse, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.List")
	defer span.End()

	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, domain.NewTransactionResponse(&txs[i]))
	}
	return out, nil
}
