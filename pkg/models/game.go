package models

import "fmt"

// coverImageTemplate is the Steam CDN header image location. The URL is
// derived from the app id on demand and is never written to the store.
const coverImageTemplate = "https://cdn.cloudflare.steamstatic.com/steam/apps/%s/header.jpg"

// Game is the normalized, canonical form of a catalog entry.
//
// Every Steam payload is mapped into this structure exactly once (by the
// scraper's normalizer) before it reaches any store; raw payloads never
// get persisted directly.
type Game struct {
	ID          string   `json:"id"`           // Steam app id, canonical string form, sole dedup key
	Title       string   `json:"title"`        // display name
	Description string   `json:"description"`  // short description, may be empty
	Platforms   []string `json:"platforms"`    // supported platforms, order-insignificant
	Genres      []string `json:"genres"`       // genre labels
	ReleaseDate string   `json:"release_date"` // raw storefront date text, treated opaquely
	Price       float64  `json:"price"`        // major currency units, 0 = free
	Rating      float64  `json:"rating"`       // 0..5, critic score / 20 or the default
	Features    []string `json:"features"`     // category descriptions, may be empty
	Tags        []string `json:"tags"`         // currently mirrors Genres

	// IsNew marks entries added during the current sync run. It is
	// process-local and never persisted.
	IsNew bool `json:"-"`
}

// CoverImageURL returns the CDN header image for the game.
func (g Game) CoverImageURL() string {
	return fmt.Sprintf(coverImageTemplate, g.ID)
}
