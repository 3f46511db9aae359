package mongodb

import (
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names follow the collections' existing camelCase layout.

type favoriteRefDocument struct {
	ItemID   primitive.ObjectID `bson:"itemId"`
	ItemType string             `bson:"itemType"`
}

type userDocument struct {
	ID         primitive.ObjectID    `bson:"_id,omitempty"`
	Username   string                `bson:"username"`
	MobileNo   int64                 `bson:"mobileno"`
	Password   string                `bson:"password"`
	ProfilePic string                `bson:"profilePic"`
	Favorites  []favoriteRefDocument `bson:"favorites"`
	CreatedAt  time.Time             `bson:"createdAt"`
}

type carDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Seller       primitive.ObjectID `bson:"seller"`
	Category     string             `bson:"category"`
	Brand        string             `bson:"brand"`
	Model        string             `bson:"model,omitempty"`
	Year         int                `bson:"year"`
	Fuel         string             `bson:"fuel"`
	Transmission string             `bson:"transmission"`
	KmDriven     int64              `bson:"kmDriven"`
	AdTitle      string             `bson:"adTitle"`
	Price        float64            `bson:"price"`
	State        string             `bson:"state"`
	City         string             `bson:"city"`
	Photos       []string           `bson:"photos"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type propertyDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Seller        primitive.ObjectID `bson:"seller"`
	Category      string             `bson:"category"`
	HouseType     string             `bson:"houseType"`
	BHK           int                `bson:"bhk"`
	Bathrooms     *int               `bson:"bathrooms,omitempty"`
	Furnishing    string             `bson:"furnishing,omitempty"`
	ProjectStatus string             `bson:"projectStatus,omitempty"`
	ListedBy      string             `bson:"listedBy,omitempty"`
	TotalFloors   *int               `bson:"totalFloors,omitempty"`
	AdTitle       string             `bson:"adTitle"`
	Price         float64            `bson:"price"`
	State         string             `bson:"state"`
	City          string             `bson:"city"`
	Photos        []string           `bson:"photos"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

// objectIDFromHex returns NilObjectID for an empty id.
func objectIDFromHex(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return oid, nil
}

func objectIDsFromHex(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func fromDomainFavorite(ref domain.FavoriteRef) (favoriteRefDocument, error) {
	oid, err := primitive.ObjectIDFromHex(ref.ItemID)
	if err != nil {
		return favoriteRefDocument{}, domain.NewValidationError("invalid item id")
	}
	return favoriteRefDocument{ItemID: oid, ItemType: string(ref.ItemType)}, nil
}

func fromDomainUser(u *domain.User) (*userDocument, error) {
	oid, err := objectIDFromHex(u.ID)
	if err != nil {
		return nil, err
	}
	favs := make([]favoriteRefDocument, 0, len(u.Favorites))
	for _, f := range u.Favorites {
		doc, err := fromDomainFavorite(f)
		if err != nil {
			return nil, err
		}
		favs = append(favs, doc)
	}
	return &userDocument{
		ID:         oid,
		Username:   u.Username,
		MobileNo:   u.MobileNo,
		Password:   u.PasswordHash,
		ProfilePic: u.ProfilePic,
		Favorites:  favs,
		CreatedAt:  u.CreatedAt,
	}, nil
}

func (d *userDocument) toDomain() *domain.User {
	favs := make([]domain.FavoriteRef, 0, len(d.Favorites))
	for _, f := range d.Favorites {
		favs = append(favs, domain.FavoriteRef{ItemID: f.ItemID.Hex(), ItemType: domain.ItemType(f.ItemType)})
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		MobileNo:     d.MobileNo,
		PasswordHash: d.Password,
		ProfilePic:   d.ProfilePic,
		Favorites:    favs,
		CreatedAt:    d.CreatedAt,
	}
}

func fromDomainCar(c *domain.Car) (*carDocument, error) {
	oid, err := objectIDFromHex(c.ID)
	if err != nil {
		return nil, err
	}
	seller, err := primitive.ObjectIDFromHex(c.SellerID)
	if err != nil {
		return nil, fmt.Errorf("invalid seller id %q: %w", c.SellerID, err)
	}
	return &carDocument{
		ID:           oid,
		Seller:       seller,
		Category:     domain.CategoryCar,
		Brand:        c.Brand,
		Model:        c.Model,
		Year:         c.Year,
		Fuel:         string(c.Fuel),
		Transmission: string(c.Transmission),
		KmDriven:     c.KmDriven,
		AdTitle:      c.AdTitle,
		Price:        c.Price,
		State:        c.State,
		City:         c.City,
		Photos:       nonNil(c.Photos),
		CreatedAt:    c.CreatedAt,
	}, nil
}

func (d *carDocument) toDomain() *domain.Car {
	return &domain.Car{
		ID:           d.ID.Hex(),
		SellerID:     d.Seller.Hex(),
		Category:     d.Category,
		Brand:        d.Brand,
		Model:        d.Model,
		Year:         d.Year,
		Fuel:         domain.FuelType(d.Fuel),
		Transmission: domain.Transmission(d.Transmission),
		KmDriven:     d.KmDriven,
		AdTitle:      d.AdTitle,
		Price:        d.Price,
		State:        d.State,
		City:         d.City,
		Photos:       nonNil(d.Photos),
		CreatedAt:    d.CreatedAt,
	}
}

func fromDomainProperty(p *domain.Property) (*propertyDocument, error) {
	oid, err := objectIDFromHex(p.ID)
	if err != nil {
		return nil, err
	}
	seller, err := primitive.ObjectIDFromHex(p.SellerID)
	if err != nil {
		return nil, fmt.Errorf("invalid seller id %q: %w", p.SellerID, err)
	}
	return &propertyDocument{
		ID:            oid,
		Seller:        seller,
		Category:      domain.CategoryProperty,
		HouseType:     p.HouseType,
		BHK:           p.BHK,
		Bathrooms:     p.Bathrooms,
		Furnishing:    string(p.Furnishing),
		ProjectStatus: string(p.ProjectStatus),
		ListedBy:      string(p.ListedBy),
		TotalFloors:   p.TotalFloors,
		AdTitle:       p.AdTitle,
		Price:         p.Price,
		State:         p.State,
		City:          p.City,
		Photos:        nonNil(p.Photos),
		CreatedAt:     p.CreatedAt,
	}, nil
}

func (d *propertyDocument) toDomain() *domain.Property {
	return &domain.Property{
		ID:            d.ID.Hex(),
		SellerID:      d.Seller.Hex(),
		Category:      d.Category,
		HouseType:     d.HouseType,
		BHK:           d.BHK,
		Bathrooms:     d.Bathrooms,
		Furnishing:    domain.Furnishing(d.Furnishing),
		ProjectStatus: domain.ProjectStatus(d.ProjectStatus),
		ListedBy:      domain.ListedBy(d.ListedBy),
		TotalFloors:   d.TotalFloors,
		AdTitle:       d.AdTitle,
		Price:         d.Price,
		State:         d.State,
		City:          d.City,
		Photos:        nonNil(d.Photos),
		CreatedAt:     d.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
