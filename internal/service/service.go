// Package service provides the business logic layer (use cases).
// Each service schema-validates the request, applies the domain rules,
// persists through a port and maps the entity to its response shape.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/infra/observability"
	"github.com/boddenberg/expense-control-go/internal/port"
)

// Report cache keys. Every write drops all keys under reportKeyPrefix.
const (
	reportKeyPrefix     = "report:"
	reportByPersonKey   = reportKeyPrefix + "person"
	reportByCategoryKey = reportKeyPrefix + "category"
)

// ChangeNotifier reacts to successful writes: it counts them, drops the
// cached reports and publishes a domain event when a publisher is set.
// A nil *ChangeNotifier does nothing.
type ChangeNotifier struct {
	cache     port.Cache[any]
	publisher port.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewChangeNotifier creates a notifier. cache and publisher may be nil.
func NewChangeNotifier(cache port.Cache[any], publisher port.EventPublisher, metrics *observability.Metrics, logger *zap.Logger) *ChangeNotifier {
	return &ChangeNotifier{cache: cache, publisher: publisher, metrics: metrics, logger: logger}
}

// Changed records a write of op ("created", "updated", "deleted") on entity.
// Publishing failures are logged and never returned.
func (n *ChangeNotifier) Changed(ctx context.Context, entity, op string, id uuid.UUID) {
	if n == nil {
		return
	}
	if n.metrics != nil {
		n.metrics.CountWrite(entity, op)
	}
	if n.cache != nil {
		n.cache.DeletePrefix(reportKeyPrefix)
	}
	if n.publisher == nil {
		return
	}
	evt := domain.NewEvent(entity+"."+op, id)
	if err := n.publisher.Publish(ctx, evt); err != nil {
		n.logger.Warn("failed to publish event",
			zap.String("event", evt.Name),
			zap.String("id", id.String()),
			zap.Error(err),
		)
	}
}

func observe(m *observability.Metrics, operation string, start time.Time) {
	m.ObserveOperation(operation, time.Since(start))
}
