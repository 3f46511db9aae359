package domain

import "time"

// NATS subjects published by the marketplace.
const (
	SubjectUserSignedUp    = "user.signed_up"
	SubjectListingCreated  = "listing.created"
	SubjectFavoriteToggled = "favorite.toggled"
	SubjectImageDelete     = "storage.image.delete"
)

type UserSignedUpEvent struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type ListingCreatedEvent struct {
	ListingID  string    `json:"listing_id"`
	Category   string    `json:"category"`
	SellerID   string    `json:"seller_id"`
	AdTitle    string    `json:"ad_title"`
	Price      float64   `json:"price"`
	PhotoCount int       `json:"photo_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type FavoriteToggledEvent struct {
	UserID     string   `json:"user_id"`
	ItemID     string   `json:"item_id"`
	ItemType   ItemType `json:"item_type"`
	IsFavorite bool     `json:"is_favorite"`
}

type ImageDeleteRequest struct {
	Ref         string    `json:"ref"`
	RequestedAt time.Time `json:"requested_at"`
}
