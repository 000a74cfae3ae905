package scraper

import (
	"sort"

	"tycoonhub/internal/steam"
	"tycoonhub/pkg/models"
)

// defaultRating is used when the payload carries no usable critic score.
const defaultRating = 4.0

// Normalize maps an appdetails payload into the canonical catalog entry.
// It reports false for anything that is not a playable game listing
// (bundles, demos, software); this is the only check keeping non-game
// listings out of the catalog.
//
// Pure function: deterministic, no I/O. Every persisted entry passes
// through here exactly once.
func Normalize(p steam.DetailPayload) (models.Game, bool) {
	if p.Type != "game" {
		return models.Game{}, false
	}
	id := p.SteamAppID.String()
	if id == "" {
		return models.Game{}, false
	}

	price := 0.0
	if !p.IsFree && p.PriceOverview != nil {
		price = float64(p.PriceOverview.Final) / 100
	}

	rating := defaultRating
	if p.Metacritic != nil && p.Metacritic.Score > 0 {
		rating = float64(p.Metacritic.Score) / 20
	}

	platforms := make([]string, 0, len(p.Platforms))
	for name, supported := range p.Platforms {
		if supported {
			platforms = append(platforms, name)
		}
	}
	sort.Strings(platforms)

	genres := make([]string, 0, len(p.Genres))
	for _, g := range p.Genres {
		genres = append(genres, g.Description)
	}

	features := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		features = append(features, c.Description)
	}

	releaseDate := ""
	if p.ReleaseDate != nil {
		releaseDate = p.ReleaseDate.Date
	}

	// tags currently mirrors genres; the slots are semantically distinct
	// and kept separate so they can diverge later.
	tags := make([]string, len(genres))
	copy(tags, genres)

	return models.Game{
		ID:          id,
		Title:       p.Name,
		Description: p.ShortDescription,
		Platforms:   platforms,
		Genres:      genres,
		ReleaseDate: releaseDate,
		Price:       price,
		Rating:      rating,
		Features:    features,
		Tags:        tags,
	}, true
}
