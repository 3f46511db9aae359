package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "session:"

// RedisStore keeps session id -> user id with a TTL.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *logger.Logger
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration, log *logger.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: log.Named("SessionStore")}
}

func (s *RedisStore) Create(ctx context.Context, userID string) (*domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.client.Set(ctx, keyPrefix+sess.ID, userID, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to store session", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: store session: %v", domain.ErrRepository, err)
	}
	s.logger.Debug("Session created", zap.String("user_id", userID))
	return sess, nil
}

// Get resolves the session id with a single GET. ExpiresAt is left zero.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	userID, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		s.logger.Error("Failed to load session", zap.Error(err))
		return nil, fmt.Errorf("%w: load session: %v", domain.ErrRepository, err)
	}

	return &domain.Session{ID: sessionID, UserID: userID}, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		s.logger.Error("Failed to delete session", zap.Error(err))
		return fmt.Errorf("%w: delete session: %v", domain.ErrRepository, err)
	}
	return nil
}
