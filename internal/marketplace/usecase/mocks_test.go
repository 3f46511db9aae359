package usecase

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) FindByMobile(ctx context.Context, mobileNo int64) (*domain.User, error) {
	args := m.Called(ctx, mobileNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}
func (m *MockUserRepository) UpdateProfile(ctx context.Context, id, username, profilePic string) error {
	args := m.Called(ctx, id, username, profilePic)
	return args.Error(0)
}
func (m *MockUserRepository) AddFavorite(ctx context.Context, userID string, ref domain.FavoriteRef) error {
	args := m.Called(ctx, userID, ref)
	return args.Error(0)
}
func (m *MockUserRepository) RemoveFavorite(ctx context.Context, userID string, ref domain.FavoriteRef) error {
	args := m.Called(ctx, userID, ref)
	return args.Error(0)
}

type MockCarRepository struct{ mock.Mock }

func (m *MockCarRepository) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepository) FindByID(ctx context.Context, id string) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Car, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Car), args.Error(1)
}
func (m *MockCarRepository) FindAll(ctx context.Context, sellerID string) ([]*domain.Car, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Car), args.Error(1)
}

type MockPropertyRepository struct{ mock.Mock }

func (m *MockPropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}
func (m *MockPropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Property, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) FindAll(ctx context.Context, sellerID string) ([]*domain.Property, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}

type MockListingCache struct{ mock.Mock }

func (m *MockListingCache) GetCar(ctx context.Context, id string) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockListingCache) SetCar(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockListingCache) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockListingCache) SetProperty(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

type MockImageStorage struct{ mock.Mock }

func (m *MockImageStorage) Save(ctx context.Context, folder string, upload domain.Upload) (string, error) {
	args := m.Called(ctx, folder, upload)
	return args.String(0), args.Error(1)
}
func (m *MockImageStorage) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
func (m *MockImageStorage) Owns(ref string) bool {
	args := m.Called(ref)
	return args.Bool(0)
}

type MockImageJanitor struct{ mock.Mock }

func (m *MockImageJanitor) Enqueue(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type countingMetrics struct {
	mu       sync.Mutex
	signups  int
	logins   map[bool]int
	listings map[string]int
	toggles  map[bool]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{logins: map[bool]int{}, listings: map[string]int{}, toggles: map[bool]int{}}
}

func (c *countingMetrics) Signup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signups++
}
func (c *countingMetrics) Login(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logins[ok]++
}
func (c *countingMetrics) ListingCreated(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings[category]++
}
func (c *countingMetrics) FavoriteToggled(isFavorite bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toggles[isFavorite]++
}
