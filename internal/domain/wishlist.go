package domain

import "time"

type WishlistItem struct {
	UserID    string     `json:"-"`
	HotelID   string     `json:"hotelId"`
	CreatedAt time.Time  `json:"createdAt"`
	Hotel     *HotelCard `json:"hotel,omitempty"`
}

type Wishlist struct {
	Items []WishlistItem `json:"items"`
}
