package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/redis/go-redis/v9"
)

const (
	carKeyPrefix      = "car:"
	propertyKeyPrefix = "property:"
)

// ListingCache keeps single listings in redis. Listings are immutable, so
// entries only expire; nothing invalidates them.
type ListingCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewListingCache(client redis.Cmdable, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

func (c *ListingCache) GetCar(ctx context.Context, id string) (*domain.Car, error) {
	var car domain.Car
	ok, err := c.get(ctx, carKeyPrefix+id, &car)
	if err != nil || !ok {
		return nil, err
	}
	return &car, nil
}

func (c *ListingCache) SetCar(ctx context.Context, car *domain.Car) error {
	return c.set(ctx, carKeyPrefix+car.ID, car)
}

func (c *ListingCache) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	var property domain.Property
	ok, err := c.get(ctx, propertyKeyPrefix+id, &property)
	if err != nil || !ok {
		return nil, err
	}
	return &property, nil
}

func (c *ListingCache) SetProperty(ctx context.Context, property *domain.Property) error {
	return c.set(ctx, propertyKeyPrefix+property.ID, property)
}

func (c *ListingCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *ListingCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
