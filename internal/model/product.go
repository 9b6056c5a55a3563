// Package model holds the canonical shapes shared by the provider client
// and the stores. Provider-specific wire formats never leave the provider
// package; everything downstream sees these types only.
package model

// Artist is one contributor on a product.
type Artist struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profileUrl"`
}

// Track is one entry of a product's track list, present only after a
// detail fetch.
type Track struct {
	TrackID         string `json:"trackId"`
	TrackName       string `json:"trackName"`
	TrackDuration   int64  `json:"trackDuration"`
	TrackPreviewURL string `json:"trackPreviewUrl"`
}

// Product is a catalog entry. ID is the sole identity key: two values with
// equal IDs are the same logical product even if other fields differ (a
// list summary vs. an enriched detail record).
//
// Cart quantity and favorite membership are deliberately not part of the
// product record; they live in their own stores and are composed into
// views on read.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	CreatedDate string   `json:"createdDate"`
	Style       string   `json:"style,omitempty"`
	Price       int64    `json:"price"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Artists     []Artist `json:"artists,omitempty"`
	Tracks      []Track  `json:"tracks,omitempty"`
}
