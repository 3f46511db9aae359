package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

const inlineDeleteTimeout = 30 * time.Second

// InlineJanitor deletes images on a background goroutine. It stands in for
// the NATS janitor when no broker is configured.
type InlineJanitor struct {
	storage domain.ImageStorage
	logger  *logger.Logger
	wg      sync.WaitGroup
}

func NewInlineJanitor(storage domain.ImageStorage, log *logger.Logger) *InlineJanitor {
	return &InlineJanitor{storage: storage, logger: log.Named("InlineJanitor")}
}

// Enqueue never fails; the delete outlives the caller's context.
func (j *InlineJanitor) Enqueue(_ context.Context, ref string) error {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), inlineDeleteTimeout)
		defer cancel()
		if err := j.storage.Delete(ctx, ref); err != nil {
			j.logger.Error("Failed to delete image", zap.String("ref", ref), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until all pending deletes finish.
func (j *InlineJanitor) Wait() {
	j.wg.Wait()
}
