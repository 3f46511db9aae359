package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type listingMocks struct {
	cars       *MockCarRepository
	properties *MockPropertyRepository
	users      *MockUserRepository
	cache      *MockListingCache
	storage    *MockImageStorage
	pub        *MockEventPublisher
	metrics    *countingMetrics
}

func newListingUsecase(t *testing.T) (*ListingUsecase, *listingMocks) {
	t.Helper()
	m := &listingMocks{
		cars:       new(MockCarRepository),
		properties: new(MockPropertyRepository),
		users:      new(MockUserRepository),
		cache:      new(MockListingCache),
		storage:    new(MockImageStorage),
		pub:        new(MockEventPublisher),
		metrics:    newCountingMetrics(),
	}
	uc := NewListingUsecase(m.cars, m.properties, m.users, m.cache, m.storage, m.pub, m.metrics, logger.NewNop())
	uc.now = func() time.Time { return fixedNow }
	return uc, m
}

func validCarForm() CarForm {
	return CarForm{
		Brand:        "Maruti",
		Model:        "Swift",
		Year:         "2019",
		Fuel:         "Petrol",
		Transmission: "Manual",
		KmDriven:     "42000",
		AdTitle:      "Well kept Swift",
		Price:        "450000",
		State:        "Maharashtra",
		City:         "Pune",
	}
}

func validPropertyForm() PropertyForm {
	return PropertyForm{
		HouseType: "Apartment",
		BHK:       "2",
		Bathrooms: "2",
		ListedBy:  "Owner",
		AdTitle:   "2BHK near station",
		Price:     "6500000",
		State:     "Karnataka",
		City:      "Bengaluru",
	}
}

func photoUploads(n int) []domain.Upload {
	out := make([]domain.Upload, n)
	for i := range out {
		out[i] = domain.Upload{Filename: "p" + strconv.Itoa(i) + ".jpg", Content: strings.NewReader("img")}
	}
	return out
}

func TestListingUsecase_CreateCar(t *testing.T) {
	uc, m := newListingUsecase(t)
	ctx := context.Background()

	m.storage.On("Save", mock.Anything, photoFolder, mock.Anything).Return("/uploads/photos/a.jpg", nil).Once()
	m.storage.On("Save", mock.Anything, photoFolder, mock.Anything).Return("/uploads/photos/b.jpg", nil).Once()
	m.cars.On("Create", mock.Anything, mock.AnythingOfType("*domain.Car")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Car).ID = "car1"
	}).Return(nil)
	m.pub.On("Publish", mock.Anything, domain.SubjectListingCreated, mock.MatchedBy(func(e domain.ListingCreatedEvent) bool {
		return e.ListingID == "car1" && e.Category == domain.CategoryCar && e.PhotoCount == 2
	})).Return(nil)

	car, err := uc.CreateCar(ctx, "seller1", validCarForm(), photoUploads(2))
	require.NoError(t, err)
	assert.Equal(t, "seller1", car.SellerID)
	assert.Equal(t, domain.CategoryCar, car.Category)
	assert.Equal(t, 2019, car.Year)
	assert.Equal(t, int64(42000), car.KmDriven)
	assert.Equal(t, 450000.0, car.Price)
	assert.Equal(t, []string{"/uploads/photos/a.jpg", "/uploads/photos/b.jpg"}, car.Photos)
	assert.Equal(t, 1, m.metrics.listings[domain.CategoryCar])
	m.pub.AssertExpectations(t)
}

func TestListingUsecase_CreateCarYearBoundary(t *testing.T) {
	tests := []struct {
		year    int
		wantErr bool
	}{
		{domain.MinCarYear - 1, true},
		{domain.MinCarYear, false},
		{fixedNow.Year() + 1, false},
		{fixedNow.Year() + 2, true},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.year), func(t *testing.T) {
			uc, m := newListingUsecase(t)
			m.cars.On("Create", mock.Anything, mock.Anything).Return(nil)
			m.pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

			form := validCarForm()
			form.Year = strconv.Itoa(tt.year)
			_, err := uc.CreateCar(context.Background(), "seller1", form, nil)
			if tt.wantErr {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Error(), "year must be between 1886 and 2027")
				m.cars.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestListingUsecase_CreateCarMissingFields(t *testing.T) {
	uc, m := newListingUsecase(t)
	form := validCarForm()
	form.City = "   "

	_, err := uc.CreateCar(context.Background(), "seller1", form, photoUploads(1))
	assert.ErrorIs(t, err, domain.ErrMissingFields)
	assert.Equal(t, "Please fill all required fields", err.Error())
	m.storage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestListingUsecase_CreateCarInvalidValues(t *testing.T) {
	uc, m := newListingUsecase(t)
	form := validCarForm()
	form.KmDriven = "lots"
	form.Price = "NaN"

	_, err := uc.CreateCar(context.Background(), "seller1", form, nil)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"kmDriven must be a whole number", "price must be a number"}, verr.Messages)

	form = validCarForm()
	form.Fuel = "Steam"
	form.KmDriven = "-5"
	_, err = uc.CreateCar(context.Background(), "seller1", form, nil)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "`Steam` is not a valid fuel type")
	assert.Contains(t, verr.Messages, "kmDriven must not be negative")
	m.cars.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListingUsecase_CreateCarCleansUpOnFailure(t *testing.T) {
	uc, m := newListingUsecase(t)
	dbErr := errors.New("write failed")

	m.storage.On("Save", mock.Anything, photoFolder, mock.Anything).Return("/uploads/photos/a.jpg", nil)
	m.storage.On("Delete", mock.Anything, "/uploads/photos/a.jpg").Return(nil)
	m.cars.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	_, err := uc.CreateCar(context.Background(), "seller1", validCarForm(), photoUploads(1))
	assert.ErrorIs(t, err, dbErr)
	m.storage.AssertCalled(t, "Delete", mock.Anything, "/uploads/photos/a.jpg")
	m.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, m.metrics.listings[domain.CategoryCar])
}

func TestListingUsecase_CreateCarPartialUploadFailure(t *testing.T) {
	uc, m := newListingUsecase(t)
	storageErr := errors.New("disk full")

	m.storage.On("Save", mock.Anything, photoFolder, mock.Anything).Return("/uploads/photos/a.jpg", nil).Once()
	m.storage.On("Save", mock.Anything, photoFolder, mock.Anything).Return("", storageErr).Once()
	m.storage.On("Delete", mock.Anything, "/uploads/photos/a.jpg").Return(nil)

	_, err := uc.CreateCar(context.Background(), "seller1", validCarForm(), photoUploads(2))
	assert.ErrorIs(t, err, storageErr)
	m.storage.AssertCalled(t, "Delete", mock.Anything, "/uploads/photos/a.jpg")
	m.cars.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListingUsecase_CreateProperty(t *testing.T) {
	uc, m := newListingUsecase(t)
	m.properties.On("Create", mock.Anything, mock.AnythingOfType("*domain.Property")).Return(nil)
	m.pub.On("Publish", mock.Anything, domain.SubjectListingCreated, mock.Anything).Return(nil)

	form := validPropertyForm()
	form.TotalFloors = "12"
	property, err := uc.CreateProperty(context.Background(), "seller1", form, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, property.BHK)
	require.NotNil(t, property.Bathrooms)
	assert.Equal(t, 2, *property.Bathrooms)
	require.NotNil(t, property.TotalFloors)
	assert.Equal(t, 12, *property.TotalFloors)
	assert.Empty(t, property.Furnishing)
	assert.Equal(t, 1, m.metrics.listings[domain.CategoryProperty])
}

func TestListingUsecase_CreatePropertyRules(t *testing.T) {
	uc, m := newListingUsecase(t)

	form := validPropertyForm()
	form.HouseType = ""
	_, err := uc.CreateProperty(context.Background(), "seller1", form, nil)
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	form = validPropertyForm()
	form.Bathrooms = ""
	form.ListedBy = ""
	form.Furnishing = "Half"
	_, err = uc.CreateProperty(context.Background(), "seller1", form, nil)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"bathrooms is required",
		"`Half` is not a valid furnishing",
		"listedBy is required",
	}, verr.Messages)
	m.properties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListingUsecase_BrowseCarsJoinsSellers(t *testing.T) {
	uc, m := newListingUsecase(t)
	cars := []*domain.Car{
		{ID: "c2", SellerID: "s1"},
		{ID: "c1", SellerID: "s2"},
		{ID: "c0", SellerID: "s1"},
	}
	m.cars.On("FindAll", mock.Anything, "").Return(cars, nil)
	m.users.On("FindByIDs", mock.Anything, []string{"s1", "s2"}).Return([]*domain.User{
		{ID: "s1", Username: "Asha", MobileNo: 9000000001, ProfilePic: "/uploads/a.png"},
	}, nil)

	out, err := uc.BrowseCars(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "c2", out[0].ID)
	assert.Equal(t, &domain.Seller{ID: "s1", Username: "Asha", MobileNo: 9000000001}, out[0].Seller)
	assert.Nil(t, out[1].Seller, "missing seller stays empty")
}

func TestListingUsecase_BrowsePropertiesEmpty(t *testing.T) {
	uc, m := newListingUsecase(t)
	m.properties.On("FindAll", mock.Anything, "").Return([]*domain.Property{}, nil)

	out, err := uc.BrowseProperties(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
	m.users.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestListingUsecase_CarDetailReadsThroughCache(t *testing.T) {
	uc, m := newListingUsecase(t)
	created := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	car := &domain.Car{ID: "c1", SellerID: "s1", AdTitle: "Swift"}

	m.cache.On("GetCar", mock.Anything, "c1").Return(nil, nil).Once()
	m.cars.On("FindByID", mock.Anything, "c1").Return(car, nil).Once()
	m.cache.On("SetCar", mock.Anything, car).Return(nil).Once()
	m.users.On("FindByID", mock.Anything, "s1").Return(&domain.User{ID: "s1", Username: "Asha", ProfilePic: "/uploads/a.png", CreatedAt: created}, nil)

	detail, err := uc.CarDetail(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Swift", detail.AdTitle)
	assert.Equal(t, "/uploads/a.png", detail.Seller.ProfilePic)
	assert.Equal(t, created, detail.Seller.CreatedAt)

	m.cache.On("GetCar", mock.Anything, "c1").Return(car, nil).Once()
	_, err = uc.CarDetail(context.Background(), "c1")
	require.NoError(t, err)

	m.cars.AssertNumberOfCalls(t, "FindByID", 1)
	m.users.AssertNumberOfCalls(t, "FindByID", 2)
}

func TestListingUsecase_DetailNotFound(t *testing.T) {
	uc, m := newListingUsecase(t)
	m.cache.On("GetCar", mock.Anything, "missing").Return(nil, nil)
	m.cars.On("FindByID", mock.Anything, "missing").Return(nil, domain.ErrCarNotFound)
	m.cache.On("GetProperty", mock.Anything, "missing").Return(nil, errors.New("redis down"))
	m.properties.On("FindByID", mock.Anything, "missing").Return(nil, domain.ErrPropertyNotFound)

	_, err := uc.CarDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Car not found", err.Error())

	_, err = uc.PropertyDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Property not found", err.Error())
	m.cache.AssertNotCalled(t, "SetCar", mock.Anything, mock.Anything)
}
