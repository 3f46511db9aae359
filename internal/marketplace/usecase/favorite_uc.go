package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

type FavoriteUsecase struct {
	users      domain.UserRepository
	cars       domain.CarRepository
	properties domain.PropertyRepository
	publisher  domain.EventPublisher
	metrics    Metrics
	logger     *logger.Logger
}

func NewFavoriteUsecase(
	users domain.UserRepository,
	cars domain.CarRepository,
	properties domain.PropertyRepository,
	publisher domain.EventPublisher,
	metrics Metrics,
	log *logger.Logger,
) *FavoriteUsecase {
	return &FavoriteUsecase{
		users:      users,
		cars:       cars,
		properties: properties,
		publisher:  publisher,
		metrics:    metricsOrNop(metrics),
		logger:     log.Named("FavoriteUsecase"),
	}
}

// Toggle adds the item to the user's favorites, or removes it if present,
// and returns the new membership. user.Favorites is updated in place.
// The listing itself is not looked up.
func (uc *FavoriteUsecase) Toggle(ctx context.Context, user *domain.User, itemID string, itemType domain.ItemType) (bool, error) {
	ctx, span := tracer.Start(ctx, "FavoriteUsecase.Toggle")
	defer span.End()

	itemID = strings.TrimSpace(itemID)
	verr := &domain.ValidationError{}
	if itemID == "" {
		verr.Add("id is required")
	}
	if !itemType.IsValid() {
		verr.Add(fmt.Sprintf("`%s` is not a valid item type", itemType))
	}
	if err := verr.OrNil(); err != nil {
		return false, err
	}

	ref := domain.FavoriteRef{ItemID: itemID, ItemType: itemType}
	isFavorite := !user.HasFavorite(itemID, itemType)

	var err error
	if isFavorite {
		err = uc.users.AddFavorite(ctx, user.ID, ref)
	} else {
		err = uc.users.RemoveFavorite(ctx, user.ID, ref)
	}
	if err != nil {
		recordErr(span, err)
		uc.logger.Error("Failed to toggle favorite", zap.String("user_id", user.ID), zap.String("item_id", itemID), zap.Error(err))
		return false, err
	}

	if isFavorite {
		user.Favorites = append(user.Favorites, ref)
	} else {
		kept := user.Favorites[:0]
		for _, f := range user.Favorites {
			if f != ref {
				kept = append(kept, f)
			}
		}
		user.Favorites = kept
	}

	uc.metrics.FavoriteToggled(isFavorite)
	publish(ctx, uc.publisher, uc.logger, domain.SubjectFavoriteToggled, domain.FavoriteToggledEvent{
		UserID:     user.ID,
		ItemID:     itemID,
		ItemType:   itemType,
		IsFavorite: isFavorite,
	})
	return isFavorite, nil
}

// Favorites resolves the user's favorites in order. References to listings
// that no longer exist are skipped.
func (uc *FavoriteUsecase) Favorites(ctx context.Context, user *domain.User) ([]domain.FavoriteGroup, error) {
	ctx, span := tracer.Start(ctx, "FavoriteUsecase.Favorites")
	defer span.End()

	var carIDs, propertyIDs []string
	for _, f := range user.Favorites {
		switch f.ItemType {
		case domain.ItemTypeCar:
			carIDs = append(carIDs, f.ItemID)
		case domain.ItemTypeProperty:
			propertyIDs = append(propertyIDs, f.ItemID)
		}
	}

	cars := map[string]*domain.Car{}
	if len(carIDs) > 0 {
		found, err := uc.cars.FindByIDs(ctx, carIDs)
		if err != nil {
			recordErr(span, err)
			return nil, err
		}
		for _, c := range found {
			cars[c.ID] = c
		}
	}
	properties := map[string]*domain.Property{}
	if len(propertyIDs) > 0 {
		found, err := uc.properties.FindByIDs(ctx, propertyIDs)
		if err != nil {
			recordErr(span, err)
			return nil, err
		}
		for _, p := range found {
			properties[p.ID] = p
		}
	}

	out := make([]domain.FavoriteGroup, 0, len(user.Favorites))
	for _, f := range user.Favorites {
		var summary *domain.ListingSummary
		switch f.ItemType {
		case domain.ItemTypeCar:
			if c, ok := cars[f.ItemID]; ok {
				summary = c.Summary()
			}
		case domain.ItemTypeProperty:
			if p, ok := properties[f.ItemID]; ok {
				summary = p.Summary()
			}
		}
		if summary == nil {
			uc.logger.Debug("Skipping dangling favorite", zap.String("item_id", f.ItemID), zap.String("item_type", string(f.ItemType)))
			continue
		}
		summary.IsFavorite = true
		out = append(out, domain.FavoriteGroup{Type: f.ItemType, Data: summary})
	}
	return out, nil
}
