// Package usecase holds the marketplace flows: auth, listings, dashboard,
// favorites and profile. Handlers call into it; it talks to the stores only
// through the interfaces in package domain.
package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("marketplace-service/usecase")

// Metrics receives business counters. *metrics.MetricsManager implements it.
type Metrics interface {
	Signup()
	Login(ok bool)
	ListingCreated(category string)
	FavoriteToggled(isFavorite bool)
}

type nopMetrics struct{}

func (nopMetrics) Signup()               {}
func (nopMetrics) Login(bool)            {}
func (nopMetrics) ListingCreated(string) {}
func (nopMetrics) FavoriteToggled(bool)  {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

// publish sends an event and only logs a failure; the write it describes
// has already happened.
func publish(ctx context.Context, pub domain.EventPublisher, log *logger.Logger, subject string, event interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, subject, event); err != nil {
		log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func recordErr(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// discardImages deletes blobs that were stored for a write that failed.
func discardImages(storage domain.ImageStorage, log *logger.Logger, refs []string) {
	if len(refs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, ref := range refs {
		if err := storage.Delete(ctx, ref); err != nil {
			log.Warn("Failed to discard uploaded image", zap.String("ref", ref), zap.Error(err))
		}
	}
}
