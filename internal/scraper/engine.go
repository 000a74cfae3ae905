package scraper

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"tycoonhub/internal/catalog"
	"tycoonhub/internal/steam"
	"tycoonhub/pkg/models"
)

// Lookup is the read-only remote boundary the engine drives. The Steam
// client satisfies it; tests substitute fakes.
type Lookup interface {
	Search(ctx context.Context, term string) ([]steam.Candidate, error)
	AppDetails(ctx context.Context, id string) (*steam.DetailPayload, error)
}

// Engine runs one incremental catalog synchronization: walk the configured
// tags in order, screen candidates against the persisted id set, enrich the
// genuinely new ones, and persist the merged catalog.
//
// Candidates are enriched strictly sequentially so the detail-call rate
// limit holds. A single writer per store is assumed; callers serialize runs
// (see catalog.RunGate).
type Engine struct {
	Lookup Lookup
	Store  catalog.Store
	Tags   []string

	// SortByReleaseDate orders the catalog newest-first on every persist.
	// Off, insertion order is preserved.
	SortByReleaseDate bool

	// IncrementalWrites persists after every accepted entry so readers of
	// the store see progress mid-run; off, the catalog is written once at
	// the end of the run.
	IncrementalWrites bool

	// OnNew, when set, receives each accepted entry as it is found. The
	// engine knows nothing about who listens.
	OnNew func(models.Game)

	Logger *log.Logger
}

func NewEngine(lookup Lookup, store catalog.Store, tags []string) *Engine {
	return &Engine{Lookup: lookup, Store: store, Tags: tags}
}

// Result summarizes a completed run.
type Result struct {
	Added int
	Total int
	Games []models.Game
}

// Run executes one synchronization pass.
//
// A store that cannot be read is fatal before any write: proceeding with an
// empty catalog would overwrite a possibly-valid one. Remote failures are
// never fatal: the affected tag or candidate is skipped and, because the id
// stays absent from the persisted set, retried naturally on the next run.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}

	current, err := e.Store.Get(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load catalog: %w", err)
	}

	known := make(map[string]struct{}, len(current))
	for _, g := range current {
		known[g.ID] = struct{}{}
	}

	games := current
	added := 0

	for _, tag := range e.Tags {
		logger.Printf("[scraper] searching for games with tag %q", tag)

		candidates, err := e.Lookup.Search(ctx, tag)
		if err != nil {
			// one broken search should not kill the whole run
			logger.Printf("[scraper] search %q: %v", tag, err)
			continue
		}

		for _, c := range candidates {
			// cancellation is honored between candidates, never
			// mid-enrichment
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}

			id := c.ID.String()
			if _, seen := known[id]; seen {
				continue
			}

			detail, err := e.Lookup.AppDetails(ctx, id)
			if err != nil {
				logger.Printf("[scraper] details for %s: %v", id, err)
				continue
			}
			if detail == nil {
				// missing or transient, indistinguishable on
				// purpose; stays eligible for the next run
				continue
			}

			game, ok := Normalize(*detail)
			if !ok {
				// not a playable game listing; discard silently
				continue
			}

			game.IsNew = true
			games = append(games, game)
			known[game.ID] = struct{}{}
			added++

			logger.Printf("[scraper] added %s (%s)", game.Title, game.ID)
			if e.OnNew != nil {
				e.OnNew(game)
			}

			if e.IncrementalWrites {
				if err := e.persist(ctx, games); err != nil {
					return Result{}, err
				}
			}
		}
	}

	if added == 0 {
		logger.Printf("[scraper] no new games found")
	} else if !e.IncrementalWrites {
		if err := e.persist(ctx, games); err != nil {
			return Result{}, err
		}
	}

	return Result{Added: added, Total: len(games), Games: games}, nil
}

func (e *Engine) persist(ctx context.Context, games []models.Game) error {
	if e.SortByReleaseDate {
		sortByReleaseDate(games)
	}
	if err := e.Store.Put(ctx, games); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

// releaseDateLayouts covers the date texts the storefront actually emits.
// Anything unparseable sorts as the zero time, i.e. last.
var releaseDateLayouts = []string{
	"2 Jan, 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"Jan 2006",
	"2006",
}

func parseReleaseDate(s string) time.Time {
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func sortByReleaseDate(games []models.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		return parseReleaseDate(games[i].ReleaseDate).After(parseReleaseDate(games[j].ReleaseDate))
	})
}
