package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	imageJanitorQueue  = "image-janitor"
	imageDeleteTimeout = 30 * time.Second
)

// ImageJanitor deletes replaced images asynchronously. Enqueue publishes
// a request on SubjectImageDelete; Start subscribes a queue worker that
// removes the blob from storage.
type ImageJanitor struct {
	publisher *Publisher
	storage   domain.ImageStorage
	logger    *logger.Logger
	sub       *nats.Subscription
}

func NewImageJanitor(publisher *Publisher, storage domain.ImageStorage, log *logger.Logger) *ImageJanitor {
	return &ImageJanitor{
		publisher: publisher,
		storage:   storage,
		logger:    log.Named("ImageJanitor"),
	}
}

func (j *ImageJanitor) Enqueue(ctx context.Context, ref string) error {
	return j.publisher.Publish(ctx, domain.SubjectImageDelete, domain.ImageDeleteRequest{
		Ref:         ref,
		RequestedAt: time.Now().UTC(),
	})
}

func (j *ImageJanitor) Start() error {
	sub, err := j.publisher.conn.QueueSubscribe(domain.SubjectImageDelete, imageJanitorQueue, j.handle)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", domain.SubjectImageDelete, err)
	}
	j.sub = sub
	j.logger.Info("Image janitor subscribed", zap.String("subject", domain.SubjectImageDelete), zap.String("queue", imageJanitorQueue))
	return nil
}

func (j *ImageJanitor) Stop() {
	if j.sub == nil {
		return
	}
	if err := j.sub.Drain(); err != nil {
		j.logger.Warn("Failed to drain image janitor subscription", zap.Error(err))
	}
}

func (j *ImageJanitor) handle(msg *nats.Msg) {
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), HeaderCarrier(msg.Header))
	ctx, span := tracer.Start(ctx, "NATS.Consume."+msg.Subject)
	defer span.End()

	var req domain.ImageDeleteRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		j.logger.Error("Malformed image delete request", zap.ByteString("payload", msg.Data), zap.Error(err))
		return
	}
	if req.Ref == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, imageDeleteTimeout)
	defer cancel()
	if err := j.storage.Delete(ctx, req.Ref); err != nil {
		span.RecordError(err)
		j.logger.Error("Failed to delete image", zap.String("ref", req.Ref), zap.Error(err))
		return
	}
	j.logger.Debug("Image deleted", zap.String("ref", req.Ref), zap.Time("requested_at", req.RequestedAt))
}
