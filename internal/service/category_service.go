package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/infra/observability"
	"github.com/boddenberg/expense-control-go/internal/port"
)

var categoryTracer = otel.Tracer("service/category")

// CategoryService manages categories.
type CategoryService struct {
	store    port.CategoryStore
	notifier *ChangeNotifier
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewCategoryService(store port.CategoryStore, notifier *ChangeNotifier, metrics *observability.Metrics, logger *zap.Logger) *CategoryService {
	return &CategoryService{store: store, notifier: notifier, metrics: metrics, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, req domain.CategoryRequest) (*domain.CreatedResponse, error) {
	ctx, span := categoryTracer.Start(ctx, "CategoryService.Create")
	defer span.End()
	defer observe(s.metrics, "category.create", time.Now())

	if err := validateCategory(req); err != nil {
		return nil, err
	}
	c, err := domain.NewCategory(req.Description, req.Purpose)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("category.id", c.ID.String()))
	s.logger.Info("category created",
		zap.String("category_id", c.ID.String()),
		zap.Stringer("purpose", c.Purpose),
	)
	s.notifier.Changed(ctx, "category", "created", c.ID)

	return &domain.CreatedResponse{ID: c.ID, Message: "category created successfully"}, nil
}

// Update changes description and purpose. Existing transactions are not
// re-checked against the new purpose.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req domain.CategoryRequest) (*domain.CategoryResponse, error) {
	ctx, span := categoryTracer.Start(ctx, "CategoryService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id.String()))
	defer observe(s.metrics, "category.update", time.Now())

	if err := validateCategory(req); err != nil {
		return nil, err
	}
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Description, req.Purpose); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("category updated", zap.String("category_id", id.String()))
	s.notifier.Changed(ctx, "category", "updated", id)

	resp := domain.NewCategoryResponse(c)
	return &resp, nil
}

// Delete fails with *domain.ErrBusinessRule while transactions use the
// category.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := categoryTracer.Start(ctx, "CategoryService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id.String()))
	defer observe(s.metrics, "category.delete", time.Now())

	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	s.notifier.Changed(ctx, "category", "deleted", id)
	return nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*domain.CategoryResponse, error) {
	ctx, span := categoryTracer.Start(ctx, "CategoryService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id.String()))

	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := domain.NewCategoryResponse(c)
	return &resp, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.CategoryResponse, error) {
	ctx, span := categoryTracer.Start(ctx, "CategoryService.List")
	defer span.End()

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, domain.NewCategoryResponse(&categories[i]))
	}
	return out, nil
}
