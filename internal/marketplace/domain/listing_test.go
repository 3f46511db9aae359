package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCar(now time.Time) *Car {
	return &Car{
		SellerID:     "64b000000000000000000001",
		Category:     CategoryCar,
		Brand:        "Maruti",
		Year:         now.Year(),
		Fuel:         FuelPetrol,
		Transmission: TransmissionManual,
		KmDriven:     0,
		AdTitle:      "Swift VXI, single owner",
		Price:        450000,
		State:        "Delhi",
		City:         "New Delhi",
	}
}

func TestCarValidate_YearBoundary(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		year    int
		wantErr bool
	}{
		{"first car ever", MinCarYear, false},
		{"before first car", MinCarYear - 1, true},
		{"current year", now.Year(), false},
		{"next model year", now.Year() + 1, false},
		{"two years ahead", now.Year() + 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			car := validCar(now)
			car.Year = tt.year
			err := car.Validate(now)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Messages, "year must be between 1886 and 2027")
		})
	}
}

func TestCarValidate_CollectsEveryViolation(t *testing.T) {
	now := time.Now()
	car := validCar(now)
	car.Fuel = "Steam"
	car.Transmission = "CVT"
	car.KmDriven = -1
	car.Price = -5

	err := car.Validate(now)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Messages, 4)
	assert.Equal(t, "Validation error: "+verr.Messages[0]+", "+verr.Messages[1]+", "+verr.Messages[2]+", "+verr.Messages[3], err.Error())
}

func TestCarValidate_AdTitleLength(t *testing.T) {
	now := time.Now()
	car := validCar(now)

	title := make([]rune, MaxAdTitleLen)
	for i := range title {
		title[i] = 'é'
	}
	car.AdTitle = string(title)
	assert.NoError(t, car.Validate(now))

	car.AdTitle += "x"
	assert.Error(t, car.Validate(now))
}

func TestPropertyValidate(t *testing.T) {
	two := 2
	base := func() *Property {
		return &Property{
			SellerID:  "64b000000000000000000001",
			Category:  CategoryProperty,
			HouseType: "Apartment",
			BHK:       3,
			Bathrooms: &two,
			ListedBy:  ListedByOwner,
			AdTitle:   "3 BHK near metro",
			Price:     7500000,
			State:     "Karnataka",
			City:      "Bengaluru",
		}
	}

	t.Run("valid with optional fields absent", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("valid enums", func(t *testing.T) {
		p := base()
		p.Furnishing = SemiFurnished
		p.ProjectStatus = ReadyToMove
		assert.NoError(t, p.Validate())
	})

	t.Run("missing bathrooms and listedBy", func(t *testing.T) {
		p := base()
		p.Bathrooms = nil
		p.ListedBy = ""
		err := p.Validate()
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.ElementsMatch(t, []string{"bathrooms is required", "listedBy is required"}, verr.Messages)
	})

	t.Run("bad enums", func(t *testing.T) {
		p := base()
		p.Furnishing = "Half"
		p.ProjectStatus = "Soon"
		p.ListedBy = "Cousin"
		err := p.Validate()
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Messages, 3)
	})
}

func TestNotFoundError(t *testing.T) {
	assert.True(t, errors.Is(ErrCarNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrPropertyNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrCarNotFound, ErrPropertyNotFound))
	assert.Equal(t, "Car not found", ErrCarNotFound.Error())
}

func TestUser_HasFavoriteAndAccountYear(t *testing.T) {
	u := &User{
		CreatedAt: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		Favorites: []FavoriteRef{{ItemID: "a", ItemType: ItemTypeCar}},
	}
	assert.Equal(t, 2023, u.AccountYear())
	assert.True(t, u.HasFavorite("a", ItemTypeCar))
	assert.False(t, u.HasFavorite("a", ItemTypeProperty))
	assert.False(t, ItemType("Boat").IsValid())
}

func TestSummaryKeepsZeroValues(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	car := validCar(now)
	car.KmDriven = 0

	raw, err := json.Marshal(car.Summary())
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, float64(0), got["kmDriven"])
	assert.Contains(t, got, "year")
	assert.NotContains(t, got, "bhk")
	assert.NotContains(t, got, "houseType")

	bathrooms := 1
	studio := &Property{ID: "p1", HouseType: "Apartment", BHK: 0, Bathrooms: &bathrooms}
	raw, err = json.Marshal(studio.Summary())
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, float64(0), got["bhk"])
	assert.NotContains(t, got, "kmDriven")
	assert.NotContains(t, got, "year")
}
