package domain

import (
	"context"
	"io"
	"time"
)

type UserRepository interface {
	// Create inserts the user and sets its ID. Returns ErrMobileTaken on a
	// duplicate mobile number.
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByMobile(ctx context.Context, mobileNo int64) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*User, error)
	UpdateProfile(ctx context.Context, id, username, profilePic string) error
	AddFavorite(ctx context.Context, userID string, ref FavoriteRef) error
	RemoveFavorite(ctx context.Context, userID string, ref FavoriteRef) error
}

type CarRepository interface {
	Create(ctx context.Context, car *Car) error
	FindByID(ctx context.Context, id string) (*Car, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Car, error)
	// FindAll returns cars newest first; sellerID filters when non-empty.
	FindAll(ctx context.Context, sellerID string) ([]*Car, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, property *Property) error
	FindByID(ctx context.Context, id string) (*Property, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Property, error)
	// FindAll returns properties newest first; sellerID filters when non-empty.
	FindAll(ctx context.Context, sellerID string) ([]*Property, error)
}

// ListingCache is a read-through cache for single listings.
// Get returns (nil, nil) on a miss.
type ListingCache interface {
	GetCar(ctx context.Context, id string) (*Car, error)
	SetCar(ctx context.Context, car *Car) error
	GetProperty(ctx context.Context, id string) (*Property, error)
	SetProperty(ctx context.Context, property *Property) error
}

// Session is the server-side login state. It carries only the user id.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

type SessionStore interface {
	Create(ctx context.Context, userID string) (*Session, error)
	// Get returns ErrUnauthenticated when the session is unknown or expired.
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// Upload is one incoming image file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ImageStorage stores image blobs and returns a path or URL for them.
type ImageStorage interface {
	Save(ctx context.Context, folder string, upload Upload) (string, error)
	Delete(ctx context.Context, ref string) error
	// Owns reports whether ref points into this storage.
	Owns(ref string) bool
}

// ImageJanitor schedules deletion of images that are no longer referenced.
type ImageJanitor interface {
	Enqueue(ctx context.Context, ref string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
