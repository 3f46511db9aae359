// Package handler turns HTTP requests into usecase calls and renders the
// results as JSON view models or redirects.
package handler

import (
	"context"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
)

type AuthService interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*domain.User, error)
	Login(ctx context.Context, in usecase.LoginInput) (*domain.User, error)
}

// Sessions starts and ends login sessions. *session.Manager implements it.
type Sessions interface {
	Start(ctx context.Context, w http.ResponseWriter, userID string) error
	End(w http.ResponseWriter, r *http.Request) error
}

type ListingService interface {
	CreateCar(ctx context.Context, sellerID string, form usecase.CarForm, photos []domain.Upload) (*domain.Car, error)
	CreateProperty(ctx context.Context, sellerID string, form usecase.PropertyForm, photos []domain.Upload) (*domain.Property, error)
	BrowseCars(ctx context.Context) ([]*domain.CarWithSeller, error)
	BrowseProperties(ctx context.Context) ([]*domain.PropertyWithSeller, error)
	CarDetail(ctx context.Context, id string) (*domain.CarWithSeller, error)
	PropertyDetail(ctx context.Context, id string) (*domain.PropertyWithSeller, error)
}

type DashboardService interface {
	Dashboard(ctx context.Context, user *domain.User) (*usecase.DashboardView, error)
	MyAds(ctx context.Context, user *domain.User) ([]*domain.ListingSummary, error)
}

type FavoriteService interface {
	Toggle(ctx context.Context, user *domain.User, itemID string, itemType domain.ItemType) (bool, error)
	Favorites(ctx context.Context, user *domain.User) ([]domain.FavoriteGroup, error)
}

type ProfileService interface {
	EditProfile(ctx context.Context, user *domain.User, in usecase.ProfileInput, image *domain.Upload) (*domain.User, error)
}
