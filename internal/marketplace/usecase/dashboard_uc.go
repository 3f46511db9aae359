package usecase

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

// DashboardView is every listing on the site, split by category.
type DashboardView struct {
	Cars       []*domain.ListingSummary `json:"cars"`
	Properties []*domain.ListingSummary `json:"properties"`
}

type DashboardUsecase struct {
	cars       domain.CarRepository
	properties domain.PropertyRepository
	logger     *logger.Logger
}

func NewDashboardUsecase(cars domain.CarRepository, properties domain.PropertyRepository, log *logger.Logger) *DashboardUsecase {
	return &DashboardUsecase{
		cars:       cars,
		properties: properties,
		logger:     log.Named("DashboardUsecase"),
	}
}

// Dashboard returns all listings regardless of seller, marked with the
// user's favorites.
func (uc *DashboardUsecase) Dashboard(ctx context.Context, user *domain.User) (*DashboardView, error) {
	ctx, span := tracer.Start(ctx, "DashboardUsecase.Dashboard")
	defer span.End()

	cars, properties, err := uc.summaries(ctx, user, "")
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	return &DashboardView{Cars: cars, Properties: properties}, nil
}

// MyAds returns only the user's own listings, cars first.
func (uc *DashboardUsecase) MyAds(ctx context.Context, user *domain.User) ([]*domain.ListingSummary, error) {
	ctx, span := tracer.Start(ctx, "DashboardUsecase.MyAds")
	defer span.End()

	cars, properties, err := uc.summaries(ctx, user, user.ID)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	return append(cars, properties...), nil
}

func (uc *DashboardUsecase) summaries(ctx context.Context, user *domain.User, sellerID string) ([]*domain.ListingSummary, []*domain.ListingSummary, error) {
	cars, err := uc.cars.FindAll(ctx, sellerID)
	if err != nil {
		uc.logger.Error("Failed to load cars", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, nil, err
	}
	properties, err := uc.properties.FindAll(ctx, sellerID)
	if err != nil {
		uc.logger.Error("Failed to load properties", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, nil, err
	}

	carSummaries := make([]*domain.ListingSummary, 0, len(cars))
	for _, c := range cars {
		s := c.Summary()
		s.IsFavorite = user.HasFavorite(c.ID, domain.ItemTypeCar)
		carSummaries = append(carSummaries, s)
	}
	propertySummaries := make([]*domain.ListingSummary, 0, len(properties))
	for _, p := range properties {
		s := p.Summary()
		s.IsFavorite = user.HasFavorite(p.ID, domain.ItemTypeProperty)
		propertySummaries = append(propertySummaries, s)
	}
	return carSummaries, propertySummaries, nil
}
