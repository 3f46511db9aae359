package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	CategoryCar      = "Car"
	CategoryProperty = "Property"

	MinCarYear     = 1886
	MaxAdTitleLen  = 100
	MinUsernameLen = 4
)

// MaxCarYear is the newest model year accepted at time now.
func MaxCarYear(now time.Time) int {
	return now.Year() + 1
}

type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelElectric FuelType = "Electric"
	FuelHybrid   FuelType = "Hybrid"
)

func (f FuelType) IsValid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

func (t Transmission) IsValid() bool {
	return t == TransmissionManual || t == TransmissionAutomatic
}

type Furnishing string

const (
	Furnished     Furnishing = "Furnished"
	SemiFurnished Furnishing = "Semi-Furnished"
	Unfurnished   Furnishing = "Unfurnished"
)

func (f Furnishing) IsValid() bool {
	switch f {
	case Furnished, SemiFurnished, Unfurnished:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ReadyToMove       ProjectStatus = "Ready to move"
	UnderConstruction ProjectStatus = "Under construction"
)

func (s ProjectStatus) IsValid() bool {
	return s == ReadyToMove || s == UnderConstruction
}

type ListedBy string

const (
	ListedByOwner   ListedBy = "Owner"
	ListedByBuilder ListedBy = "Builder"
	ListedByAgent   ListedBy = "Agent"
)

func (l ListedBy) IsValid() bool {
	switch l {
	case ListedByOwner, ListedByBuilder, ListedByAgent:
		return true
	}
	return false
}

// Car is a vehicle ad. Immutable once created.
type Car struct {
	ID           string       `json:"_id"`
	SellerID     string       `json:"sellerId"`
	Category     string       `json:"category"`
	Brand        string       `json:"brand"`
	Model        string       `json:"model,omitempty"`
	Year         int          `json:"year"`
	Fuel         FuelType     `json:"fuel"`
	Transmission Transmission `json:"transmission"`
	KmDriven     int64        `json:"kmDriven"`
	AdTitle      string       `json:"adTitle"`
	Price        float64      `json:"price"`
	State        string       `json:"state"`
	City         string       `json:"city"`
	Photos       []string     `json:"photos"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Validate checks the invariants of a new car ad, collecting every violation.
func (c *Car) Validate(now time.Time) error {
	verr := &ValidationError{}
	if c.SellerID == "" {
		verr.Add("seller is required")
	}
	if c.Category != CategoryCar {
		verr.Add(fmt.Sprintf("category must be %q", CategoryCar))
	}
	if strings.TrimSpace(c.Brand) == "" {
		verr.Add("brand is required")
	}
	if maxYear := MaxCarYear(now); c.Year < MinCarYear || c.Year > maxYear {
		verr.Add(fmt.Sprintf("year must be between %d and %d", MinCarYear, maxYear))
	}
	if !c.Fuel.IsValid() {
		verr.Add(fmt.Sprintf("`%s` is not a valid fuel type", c.Fuel))
	}
	if !c.Transmission.IsValid() {
		verr.Add(fmt.Sprintf("`%s` is not a valid transmission", c.Transmission))
	}
	if c.KmDriven < 0 {
		verr.Add("kmDriven must not be negative")
	}
	validateAdCommon(verr, c.AdTitle, c.Price, c.State, c.City)
	return verr.OrNil()
}

// Property is a real-estate ad. Immutable once created. Optional fields are
// nil or empty when absent.
type Property struct {
	ID            string        `json:"_id"`
	SellerID      string        `json:"sellerId"`
	Category      string        `json:"category"`
	HouseType     string        `json:"houseType"`
	BHK           int           `json:"bhk"`
	Bathrooms     *int          `json:"bathrooms,omitempty"`
	Furnishing    Furnishing    `json:"furnishing,omitempty"`
	ProjectStatus ProjectStatus `json:"projectStatus,omitempty"`
	ListedBy      ListedBy      `json:"listedBy,omitempty"`
	TotalFloors   *int          `json:"totalFloors,omitempty"`
	AdTitle       string        `json:"adTitle"`
	Price         float64       `json:"price"`
	State         string        `json:"state"`
	City          string        `json:"city"`
	Photos        []string      `json:"photos"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Validate checks the invariants of a new property ad, collecting every violation.
func (p *Property) Validate() error {
	verr := &ValidationError{}
	if p.SellerID == "" {
		verr.Add("seller is required")
	}
	if p.Category != CategoryProperty {
		verr.Add(fmt.Sprintf("category must be %q", CategoryProperty))
	}
	if strings.TrimSpace(p.HouseType) == "" {
		verr.Add("houseType is required")
	}
	if p.BHK < 0 {
		verr.Add("bhk must not be negative")
	}
	if p.Bathrooms == nil {
		verr.Add("bathrooms is required")
	} else if *p.Bathrooms < 0 {
		verr.Add("bathrooms must not be negative")
	}
	if p.Furnishing != "" && !p.Furnishing.IsValid() {
		verr.Add(fmt.Sprintf("`%s` is not a valid furnishing", p.Furnishing))
	}
	if p.ProjectStatus != "" && !p.ProjectStatus.IsValid() {
		verr.Add(fmt.Sprintf("`%s` is not a valid project status", p.ProjectStatus))
	}
	if p.ListedBy == "" {
		verr.Add("listedBy is required")
	} else if !p.ListedBy.IsValid() {
		verr.Add(fmt.Sprintf("`%s` is not a valid listedBy value", p.ListedBy))
	}
	if p.TotalFloors != nil && *p.TotalFloors < 0 {
		verr.Add("totalFloors must not be negative")
	}
	validateAdCommon(verr, p.AdTitle, p.Price, p.State, p.City)
	return verr.OrNil()
}

func validateAdCommon(verr *ValidationError, title string, price float64, state, city string) {
	switch {
	case strings.TrimSpace(title) == "":
		verr.Add("adTitle is required")
	case utf8.RuneCountInString(title) > MaxAdTitleLen:
		verr.Add(fmt.Sprintf("adTitle must be at most %d characters", MaxAdTitleLen))
	}
	if price < 0 {
		verr.Add("price must not be negative")
	}
	if strings.TrimSpace(state) == "" {
		verr.Add("state is required")
	}
	if strings.TrimSpace(city) == "" {
		verr.Add("city is required")
	}
}

// CarWithSeller is a car joined with its seller's public fields.
type CarWithSeller struct {
	*Car
	Seller *Seller `json:"seller"`
}

// PropertyWithSeller is a property joined with its seller's public fields.
type PropertyWithSeller struct {
	*Property
	Seller *Seller `json:"seller"`
}

// ListingSummary is the projection shown on the dashboard and My Ads.
// Car-only and property-only fields are nil for the other category so a
// real zero still reaches the JSON.
type ListingSummary struct {
	ID         string    `json:"_id"`
	Type       ItemType  `json:"type"`
	AdTitle    string    `json:"adTitle"`
	Price      float64   `json:"price"`
	Photos     []string  `json:"photos"`
	State      string    `json:"state"`
	City       string    `json:"city"`
	CreatedAt  time.Time `json:"createdAt"`
	IsFavorite bool      `json:"isFavorite"`

	Year     *int   `json:"year,omitempty"`
	KmDriven *int64 `json:"kmDriven,omitempty"`

	BHK       *int   `json:"bhk,omitempty"`
	Bathrooms *int   `json:"bathrooms,omitempty"`
	HouseType string `json:"houseType,omitempty"`
}

// Summary projects the car onto the dashboard fields.
func (c *Car) Summary() *ListingSummary {
	year, km := c.Year, c.KmDriven
	return &ListingSummary{
		ID:        c.ID,
		Type:      ItemTypeCar,
		AdTitle:   c.AdTitle,
		Price:     c.Price,
		Photos:    c.Photos,
		State:     c.State,
		City:      c.City,
		CreatedAt: c.CreatedAt,
		Year:      &year,
		KmDriven:  &km,
	}
}

// Summary projects the property onto the dashboard fields.
func (p *Property) Summary() *ListingSummary {
	bhk := p.BHK
	return &ListingSummary{
		ID:        p.ID,
		Type:      ItemTypeProperty,
		AdTitle:   p.AdTitle,
		Price:     p.Price,
		Photos:    p.Photos,
		State:     p.State,
		City:      p.City,
		CreatedAt: p.CreatedAt,
		BHK:       &bhk,
		Bathrooms: p.Bathrooms,
		HouseType: p.HouseType,
	}
}

// FavoriteGroup is one resolved favorite reference.
type FavoriteGroup struct {
	Type ItemType `json:"type"`
	Data any      `json:"data"`
}
