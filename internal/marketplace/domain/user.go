package domain

import "time"

// DefaultProfilePic is assigned at signup and never deleted from storage.
const DefaultProfilePic = "/uploads/default.png"

// ItemType tags a favorite reference with the collection it points into.
type ItemType string

const (
	ItemTypeCar      ItemType = "Car"
	ItemTypeProperty ItemType = "Property"
	// ItemTypeMobile is accepted for compatibility; no mobile listings exist yet.
	ItemTypeMobile ItemType = "Mobile"
)

// IsValid checks if the ItemType is one of the defined constants.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeCar, ItemTypeProperty, ItemTypeMobile:
		return true
	}
	return false
}

// FavoriteRef is a weak pointer to a listing. It is resolved by lookup and
// silently skipped when the listing no longer exists.
type FavoriteRef struct {
	ItemID   string
	ItemType ItemType
}

type User struct {
	ID           string
	Username     string
	MobileNo     int64
	PasswordHash string
	ProfilePic   string
	Favorites    []FavoriteRef
	CreatedAt    time.Time
}

// AccountYear is the year the account was created.
func (u *User) AccountYear() int {
	return u.CreatedAt.Year()
}

// HasFavorite reports whether (itemID, itemType) is in the user's favorites.
func (u *User) HasFavorite(itemID string, itemType ItemType) bool {
	for _, f := range u.Favorites {
		if f.ItemID == itemID && f.ItemType == itemType {
			return true
		}
	}
	return false
}

// Seller is the public part of a User joined into listing views.
type Seller struct {
	ID         string    `json:"_id"`
	Username   string    `json:"username"`
	MobileNo   int64     `json:"mobileno"`
	ProfilePic string    `json:"profilePic,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ContactCard holds the seller fields shown on browse pages.
func (u *User) ContactCard() *Seller {
	return &Seller{ID: u.ID, Username: u.Username, MobileNo: u.MobileNo}
}

// PublicProfile holds the seller fields shown on detail pages.
func (u *User) PublicProfile() *Seller {
	return &Seller{
		ID:         u.ID,
		Username:   u.Username,
		MobileNo:   u.MobileNo,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}
