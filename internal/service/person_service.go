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

var personTracer = otel.Tracer("service/person")

// PersonService manages people.
type PersonService struct {
	store    port.PersonStore
	notifier *ChangeNotifier
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewPersonService creates a new person service.
func NewPersonService(store port.PersonStore, notifier *ChangeNotifier, metrics *observability.Metrics, logger *zap.Logger) *PersonService {
	return &PersonService{store: store, notifier: notifier, metrics: metrics, logger: logger}
}

func (s *PersonService) Create(ctx context.Context, req domain.PersonRequest) (*domain.CreatedResponse, error) {
	ctx, span := personTracer.Start(ctx, "PersonService.Create")
	defer span.End()
	defer observe(s.metrics, "person.create", time.Now())

	if err := validatePerson(req); err != nil {
		return nil, err
	}
	p, err := domain.NewPerson(req.Name, req.Age)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreatePerson(ctx, p); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("person.id", p.ID.String()))
	s.logger.Info("person created", zap.String("person_id", p.ID.String()))
	s.notifier.Changed(ctx, "person", "created", p.ID)

	return &domain.CreatedResponse{ID: p.ID, Message: "person created successfully"}, nil
}

func (s *PersonService) Update(ctx context.Context, id uuid.UUID, req domain.PersonRequest) (*domain.PersonResponse, error) {
	ctx, span := personTracer.Start(ctx, "PersonService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("person.id", id.String()))
	defer observe(s.metrics, "person.update", time.Now())

	if err := validatePerson(req); err != nil {
		return nil, err
	}
	p, err := s.store.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.Name, req.Age); err != nil {
		return nil, err
	}
	if err := s.store.UpdatePerson(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("person updated", zap.String("person_id", id.String()))
	s.notifier.Changed(ctx, "person", "updated", id)

	resp := domain.NewPersonResponse(p)
	return &resp, nil
}

// Delete removes the person together with their transactions.
func (s *PersonService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := personTracer.Start(ctx, "PersonService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("person.id", id.String()))
	defer observe(s.metrics, "person.delete", time.Now())

	if _, err := s.store.GetPerson(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeletePerson(ctx, id); err != nil {
		return err
	}

	s.logger.Info("person deleted", zap.String("person_id", id.String()))
	s.notifier.Changed(ctx, "person", "deleted", id)
	return nil
}

func (s *PersonService) Get(ctx context.Context, id uuid.UUID) (*domain.PersonResponse, error) {
	ctx, span := personTracer.Start(ctx, "PersonService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("person.id", id.String()))

	p, err := s.store.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := domain.NewPersonResponse(p)
	return &resp, nil
}

func (s *PersonService) List(ctx context.Context) ([]domain.PersonResponse, error) {
	ctx, span := personTracer.Start(ctx, "PersonService.List")
	defer span.End()

	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PersonResponse, 0, len(people))
	for i := range people {
		out = append(out, domain.NewPersonResponse(&people[i]))
	}
	return out, nil
}
