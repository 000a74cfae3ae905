package catalog

import (
	"context"

	"tycoonhub/pkg/models"
)

// Store holds the full catalog as an ordered collection. The scraper reads
// it once at the start of a run and writes it back wholesale; it never
// deletes individual entries.
type Store interface {
	// Get returns the current catalog. A store that has never been
	// written returns an empty catalog, not an error; an unreadable or
	// malformed store returns an error so the caller can halt before
	// clobbering it.
	Get(ctx context.Context) ([]models.Game, error)

	// Put replaces the catalog wholesale.
	Put(ctx context.Context, games []models.Game) error
}
