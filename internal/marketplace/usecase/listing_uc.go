package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/validation"
	"go.uber.org/zap"
)

const photoFolder = "photos"

// CarForm is the car ad form as submitted. Numbers arrive as text.
type CarForm struct {
	Brand        string `form:"brand" validate:"required"`
	Model        string `form:"model"`
	Year         string `form:"year" validate:"required"`
	Fuel         string `form:"fuel" validate:"required"`
	Transmission string `form:"transmission" validate:"required"`
	KmDriven     string `form:"kmDriven" validate:"required"`
	AdTitle      string `form:"adTitle" validate:"required"`
	Price        string `form:"price" validate:"required"`
	State        string `form:"state" validate:"required"`
	City         string `form:"city" validate:"required"`
}

func (f *CarForm) trim() {
	for _, p := range []*string{&f.Brand, &f.Model, &f.Year, &f.Fuel, &f.Transmission, &f.KmDriven, &f.AdTitle, &f.Price, &f.State, &f.City} {
		*p = strings.TrimSpace(*p)
	}
}

// PropertyForm is the property ad form as submitted.
type PropertyForm struct {
	HouseType     string `form:"houseType" validate:"required"`
	BHK           string `form:"bhk" validate:"required"`
	Bathrooms     string `form:"bathrooms"`
	Furnishing    string `form:"furnishing"`
	ProjectStatus string `form:"projectStatus"`
	ListedBy      string `form:"listedBy"`
	TotalFloors   string `form:"totalFloors"`
	AdTitle       string `form:"adTitle" validate:"required"`
	Price         string `form:"price" validate:"required"`
	State         string `form:"state" validate:"required"`
	City          string `form:"city" validate:"required"`
}

func (f *PropertyForm) trim() {
	for _, p := range []*string{&f.HouseType, &f.BHK, &f.Bathrooms, &f.Furnishing, &f.ProjectStatus, &f.ListedBy, &f.TotalFloors, &f.AdTitle, &f.Price, &f.State, &f.City} {
		*p = strings.TrimSpace(*p)
	}
}

// ListingUsecase creates and reads car and property ads.
type ListingUsecase struct {
	cars       domain.CarRepository
	properties domain.PropertyRepository
	users      domain.UserRepository
	cache      domain.ListingCache
	storage    domain.ImageStorage
	publisher  domain.EventPublisher
	metrics    Metrics
	validator  *validation.Validator
	logger     *logger.Logger
	now        func() time.Time
}

func NewListingUsecase(
	cars domain.CarRepository,
	properties domain.PropertyRepository,
	users domain.UserRepository,
	cache domain.ListingCache,
	storage domain.ImageStorage,
	publisher domain.EventPublisher,
	metrics Metrics,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		cars:       cars,
		properties: properties,
		users:      users,
		cache:      cache,
		storage:    storage,
		publisher:  publisher,
		metrics:    metricsOrNop(metrics),
		validator:  validation.New(),
		logger:     log.Named("ListingUsecase"),
		now:        time.Now,
	}
}

// CreateCar validates the form, stores the photos and persists the ad.
// Photos are removed again if the ad cannot be saved.
func (uc *ListingUsecase) CreateCar(ctx context.Context, sellerID string, form CarForm, photos []domain.Upload) (*domain.Car, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.CreateCar")
	defer span.End()

	form.trim()
	if err := uc.requirePresent(form); err != nil {
		return nil, err
	}

	now := uc.now()
	verr := &domain.ValidationError{}
	car := &domain.Car{
		SellerID:     sellerID,
		Category:     domain.CategoryCar,
		Brand:        form.Brand,
		Model:        form.Model,
		Year:         parseInt(verr, "year", form.Year),
		Fuel:         domain.FuelType(form.Fuel),
		Transmission: domain.Transmission(form.Transmission),
		KmDriven:     int64(parseInt(verr, "kmDriven", form.KmDriven)),
		AdTitle:      form.AdTitle,
		Price:        parseFloat(verr, "price", form.Price),
		State:        form.State,
		City:         form.City,
		CreatedAt:    now.UTC(),
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := car.Validate(now); err != nil {
		return nil, err
	}

	refs, err := uc.storePhotos(ctx, photos)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	car.Photos = refs

	if err := uc.cars.Create(ctx, car); err != nil {
		recordErr(span, err)
		uc.logger.Error("Failed to save car", zap.String("seller_id", sellerID), zap.Error(err))
		discardImages(uc.storage, uc.logger, refs)
		return nil, err
	}

	uc.metrics.ListingCreated(domain.CategoryCar)
	publish(ctx, uc.publisher, uc.logger, domain.SubjectListingCreated, domain.ListingCreatedEvent{
		ListingID:  car.ID,
		Category:   car.Category,
		SellerID:   car.SellerID,
		AdTitle:    car.AdTitle,
		Price:      car.Price,
		PhotoCount: len(car.Photos),
		CreatedAt:  car.CreatedAt,
	})
	uc.logger.Info("Car listed", zap.String("car_id", car.ID), zap.String("seller_id", sellerID), zap.Int("photos", len(refs)))
	return car, nil
}

// CreateProperty is CreateCar for property ads.
func (uc *ListingUsecase) CreateProperty(ctx context.Context, sellerID string, form PropertyForm, photos []domain.Upload) (*domain.Property, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.CreateProperty")
	defer span.End()

	form.trim()
	if err := uc.requirePresent(form); err != nil {
		return nil, err
	}

	now := uc.now()
	verr := &domain.ValidationError{}
	property := &domain.Property{
		SellerID:      sellerID,
		Category:      domain.CategoryProperty,
		HouseType:     form.HouseType,
		BHK:           parseInt(verr, "bhk", form.BHK),
		Bathrooms:     parseOptionalInt(verr, "bathrooms", form.Bathrooms),
		Furnishing:    domain.Furnishing(form.Furnishing),
		ProjectStatus: domain.ProjectStatus(form.ProjectStatus),
		ListedBy:      domain.ListedBy(form.ListedBy),
		TotalFloors:   parseOptionalInt(verr, "totalFloors", form.TotalFloors),
		AdTitle:       form.AdTitle,
		Price:         parseFloat(verr, "price", form.Price),
		State:         form.State,
		City:          form.City,
		CreatedAt:     now.UTC(),
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := property.Validate(); err != nil {
		return nil, err
	}

	refs, err := uc.storePhotos(ctx, photos)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	property.Photos = refs

	if err := uc.properties.Create(ctx, property); err != nil {
		recordErr(span, err)
		uc.logger.Error("Failed to save property", zap.String("seller_id", sellerID), zap.Error(err))
		discardImages(uc.storage, uc.logger, refs)
		return nil, err
	}

	uc.metrics.ListingCreated(domain.CategoryProperty)
	publish(ctx, uc.publisher, uc.logger, domain.SubjectListingCreated, domain.ListingCreatedEvent{
		ListingID:  property.ID,
		Category:   property.Category,
		SellerID:   property.SellerID,
		AdTitle:    property.AdTitle,
		Price:      property.Price,
		PhotoCount: len(property.Photos),
		CreatedAt:  property.CreatedAt,
	})
	uc.logger.Info("Property listed", zap.String("property_id", property.ID), zap.String("seller_id", sellerID), zap.Int("photos", len(refs)))
	return property, nil
}

// BrowseCars lists every car, newest first, with the seller's contact card.
func (uc *ListingUsecase) BrowseCars(ctx context.Context) ([]*domain.CarWithSeller, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.BrowseCars")
	defer span.End()

	cars, err := uc.cars.FindAll(ctx, "")
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	sellerIDs := make([]string, 0, len(cars))
	for _, c := range cars {
		sellerIDs = append(sellerIDs, c.SellerID)
	}
	sellers, err := uc.contactCards(ctx, sellerIDs)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}

	out := make([]*domain.CarWithSeller, 0, len(cars))
	for _, c := range cars {
		out = append(out, &domain.CarWithSeller{Car: c, Seller: sellers[c.SellerID]})
	}
	return out, nil
}

// BrowseProperties lists every property, newest first, with the seller's contact card.
func (uc *ListingUsecase) BrowseProperties(ctx context.Context) ([]*domain.PropertyWithSeller, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.BrowseProperties")
	defer span.End()

	properties, err := uc.properties.FindAll(ctx, "")
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	sellerIDs := make([]string, 0, len(properties))
	for _, p := range properties {
		sellerIDs = append(sellerIDs, p.SellerID)
	}
	sellers, err := uc.contactCards(ctx, sellerIDs)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}

	out := make([]*domain.PropertyWithSeller, 0, len(properties))
	for _, p := range properties {
		out = append(out, &domain.PropertyWithSeller{Property: p, Seller: sellers[p.SellerID]})
	}
	return out, nil
}

// CarDetail returns one car with the seller's public profile.
// The car is read through the cache, the seller never is.
func (uc *ListingUsecase) CarDetail(ctx context.Context, id string) (*domain.CarWithSeller, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.CarDetail")
	defer span.End()

	car, err := uc.cachedCar(ctx, id)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	seller, err := uc.publicProfile(ctx, car.SellerID)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	return &domain.CarWithSeller{Car: car, Seller: seller}, nil
}

// PropertyDetail returns one property with the seller's public profile.
func (uc *ListingUsecase) PropertyDetail(ctx context.Context, id string) (*domain.PropertyWithSeller, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.PropertyDetail")
	defer span.End()

	property, err := uc.cachedProperty(ctx, id)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	seller, err := uc.publicProfile(ctx, property.SellerID)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	return &domain.PropertyWithSeller{Property: property, Seller: seller}, nil
}

func (uc *ListingUsecase) cachedCar(ctx context.Context, id string) (*domain.Car, error) {
	if uc.cache != nil {
		car, err := uc.cache.GetCar(ctx, id)
		if err != nil {
			uc.logger.Warn("Listing cache read failed", zap.String("car_id", id), zap.Error(err))
		} else if car != nil {
			return car, nil
		}
	}

	car, err := uc.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.SetCar(ctx, car); err != nil {
			uc.logger.Warn("Listing cache write failed", zap.String("car_id", id), zap.Error(err))
		}
	}
	return car, nil
}

func (uc *ListingUsecase) cachedProperty(ctx context.Context, id string) (*domain.Property, error) {
	if uc.cache != nil {
		property, err := uc.cache.GetProperty(ctx, id)
		if err != nil {
			uc.logger.Warn("Listing cache read failed", zap.String("property_id", id), zap.Error(err))
		} else if property != nil {
			return property, nil
		}
	}

	property, err := uc.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.SetProperty(ctx, property); err != nil {
			uc.logger.Warn("Listing cache write failed", zap.String("property_id", id), zap.Error(err))
		}
	}
	return property, nil
}

// publicProfile returns nil for a seller that no longer exists.
func (uc *ListingUsecase) publicProfile(ctx context.Context, sellerID string) (*domain.Seller, error) {
	user, err := uc.users.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.PublicProfile(), nil
}

func (uc *ListingUsecase) contactCards(ctx context.Context, ids []string) (map[string]*domain.Seller, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return map[string]*domain.Seller{}, nil
	}

	users, err := uc.users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*domain.Seller, len(users))
	for _, u := range users {
		out[u.ID] = u.ContactCard()
	}
	return out, nil
}

// storePhotos saves every upload or none of them.
func (uc *ListingUsecase) storePhotos(ctx context.Context, photos []domain.Upload) ([]string, error) {
	refs := make([]string, 0, len(photos))
	for _, p := range photos {
		ref, err := uc.storage.Save(ctx, photoFolder, p)
		if err != nil {
			uc.logger.Error("Failed to store photo", zap.String("filename", p.Filename), zap.Error(err))
			discardImages(uc.storage, uc.logger, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (uc *ListingUsecase) requirePresent(form any) error {
	errs, err := uc.validator.Struct(form, nil)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return domain.ErrMissingFields
	}
	return nil
}

func parseInt(verr *domain.ValidationError, field, value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		verr.Add(fmt.Sprintf("%s must be a whole number", field))
	}
	return n
}

func parseOptionalInt(verr *domain.ValidationError, field, value string) *int {
	if value == "" {
		return nil
	}
	n := parseInt(verr, field, value)
	return &n
}

func parseFloat(verr *domain.ValidationError, field, value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		verr.Add(fmt.Sprintf("%s must be a number", field))
	}
	return f
}
