// Package portal provides typed service clients for the Osam Tourism Portal
// API. Every call goes through the resilient request layer in internal/api.
package portal

import "time"

// Place is a full place record.
type Place struct {
	PlaceID            int     `json:"place_id"`
	Name               string  `json:"name"`
	Description        string  `json:"description,omitempty"`
	Location           string  `json:"location"`
	Category           string  `json:"category"` // place, landmark, viewpoint, parking
	Latitude           float64 `json:"latitude,omitempty"`
	Longitude          float64 `json:"longitude,omitempty"`
	ElevationMeters    int     `json:"elevation_meters,omitempty"`
	EntryFee           float64 `json:"entry_fee,omitempty"`
	AccessibilityLevel string  `json:"accessibility_level,omitempty"`
	HasParking         bool    `json:"has_parking"`
	HasRestrooms       bool    `json:"has_restrooms"`
	HasFood            bool    `json:"has_food"`
	BestTimeToVisit    string  `json:"best_time_to_visit,omitempty"`
}

// PlaceSummary is the reduced shape list endpoints return.
type PlaceSummary struct {
	PlaceID  int    `json:"place_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Category string `json:"category"`
}

// Event is a full event record.
type Event struct {
	EventID        int     `json:"event_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	EventType      string  `json:"event_type"` // festival, fair, ceremony, cultural
	Location       string  `json:"location"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	StartTime      string  `json:"start_time,omitempty"`
	EndTime        string  `json:"end_time,omitempty"`
	IsAnnual       bool    `json:"is_annual"`
	IsFree         bool    `json:"is_free"`
	EntryFee       float64 `json:"entry_fee,omitempty"`
	OrganizingBody string  `json:"organizing_body,omitempty"`
	HasParking     bool    `json:"has_parking"`
	IsFeatured     bool    `json:"is_featured"`
	Status         string  `json:"status,omitempty"` // upcoming, ongoing, completed
}

// EventSummary is the reduced shape list endpoints return.
type EventSummary struct {
	EventID   int    `json:"event_id"`
	Name      string `json:"name"`
	EventType string `json:"event_type"`
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status,omitempty"`
}

// Gallery is a full gallery record.
type Gallery struct {
	GalleryID   int            `json:"gallery_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	GalleryType string         `json:"gallery_type"` // photos, videos, 360photos
	PlaceID     int            `json:"place_id,omitempty"`
	EventID     int            `json:"event_id,omitempty"`
	IsFeatured  bool           `json:"is_featured"`
	Images      []GalleryImage `json:"images,omitempty"`
}

// GallerySummary is the reduced shape list endpoints return.
type GallerySummary struct {
	GalleryID   int    `json:"gallery_id"`
	Name        string `json:"name"`
	GalleryType string `json:"gallery_type"`
	IsFeatured  bool   `json:"is_featured"`
}

// GalleryImage is one image of a gallery.
type GalleryImage struct {
	ImageID      int    `json:"image_id"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Title        string `json:"title,omitempty"`
	Caption      string `json:"caption,omitempty"`
	Photographer string `json:"photographer,omitempty"`
	ImageOrder   int    `json:"image_order"`
	IsFeatured   bool   `json:"is_featured"`
	ViewCount    int    `json:"view_count"`
}

// User is the authenticated account record.
type User struct {
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // admin or editor
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenResponse is the login result.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	User        *User  `json:"user,omitempty"`
}
