package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tycoonhub/internal/steam"
	"tycoonhub/pkg/models"
)

type fakeLookup struct {
	searchResults map[string][]steam.Candidate
	searchErr     map[string]error
	details       map[string]*steam.DetailPayload
	detailErr     map[string]error

	searchCalls []string
	detailCalls []string
}

func (f *fakeLookup) Search(_ context.Context, term string) ([]steam.Candidate, error) {
	f.searchCalls = append(f.searchCalls, term)
	if err := f.searchErr[term]; err != nil {
		return nil, err
	}
	return f.searchResults[term], nil
}

func (f *fakeLookup) AppDetails(_ context.Context, id string) (*steam.DetailPayload, error) {
	f.detailCalls = append(f.detailCalls, id)
	if err := f.detailErr[id]; err != nil {
		return nil, err
	}
	return f.details[id], nil
}

type memStore struct {
	games  []models.Game
	getErr error
	puts   int
}

func (m *memStore) Get(_ context.Context) ([]models.Game, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]models.Game, len(m.games))
	copy(out, m.games)
	return out, nil
}

func (m *memStore) Put(_ context.Context, games []models.Game) error {
	m.games = make([]models.Game, len(games))
	copy(m.games, games)
	m.puts++
	return nil
}

func gamePayload(id, name string) *steam.DetailPayload {
	return &steam.DetailPayload{
		Type:       "game",
		Name:       name,
		SteamAppID: steam.AppID(id),
		IsFree:     true,
		Platforms:  map[string]bool{"windows": true},
	}
}

func TestEngineRun_AddsNewGame(t *testing.T) {
	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {{ID: "10", Name: "Mall Magnate"}},
		},
		details: map[string]*steam.DetailPayload{
			"10": gamePayload("10", "Mall Magnate"),
		},
	}
	store := &memStore{}

	result, err := NewEngine(lookup, store, []string{"Tycoon"}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Total)
	require.Len(t, store.games, 1)

	got := store.games[0]
	assert.Equal(t, "10", got.ID)
	assert.Equal(t, "Mall Magnate", got.Title)
	assert.Equal(t, 0.0, got.Price)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, []string{"windows"}, got.Platforms)
}

func TestEngineRun_SecondRunIsIdempotent(t *testing.T) {
	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {{ID: "10", Name: "Mall Magnate"}},
		},
		details: map[string]*steam.DetailPayload{
			"10": gamePayload("10", "Mall Magnate"),
		},
	}
	store := &memStore{}
	engine := NewEngine(lookup, store, []string{"Tycoon"})

	first, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Added)

	second, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, second.Added)
	assert.Equal(t, 1, second.Total)
	assert.Len(t, store.games, 1)
	// known id never reaches the detail endpoint again
	assert.Equal(t, []string{"10"}, lookup.detailCalls)
	// nothing new, nothing written
	assert.Equal(t, 1, store.puts)
}

func TestEngineRun_NumericIDMatchesPersistedStringID(t *testing.T) {
	var candidate steam.Candidate
	require.NoError(t, candidate.ID.UnmarshalJSON([]byte(`440`)))
	candidate.Name = "Factory Frenzy"

	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {candidate},
		},
	}
	store := &memStore{games: []models.Game{{ID: "440", Title: "Factory Frenzy"}}}

	result, err := NewEngine(lookup, store, []string{"Tycoon"}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Added)
	assert.Empty(t, lookup.detailCalls)
}

func TestEngineRun_SkipsNonGameListings(t *testing.T) {
	dlc := gamePayload("21", "Mall Magnate Soundtrack")
	dlc.Type = "dlc"

	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {{ID: "20", Name: "Rail Empire"}, {ID: "21", Name: "Mall Magnate Soundtrack"}},
		},
		details: map[string]*steam.DetailPayload{
			"20": gamePayload("20", "Rail Empire"),
			"21": dlc,
		},
	}
	store := &memStore{}

	result, err := NewEngine(lookup, store, []string{"Tycoon"}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added)
	require.Len(t, store.games, 1)
	assert.Equal(t, "20", store.games[0].ID)
}

func TestEngineRun_SearchFailureSkipsTagOnly(t *testing.T) {
	lookup := &fakeLookup{
		searchErr: map[string]error{"Tycoon": errors.New("storefront down")},
		searchResults: map[string][]steam.Candidate{
			"Management": {{ID: "30", Name: "Hotel Mogul"}},
		},
		details: map[string]*steam.DetailPayload{
			"30": gamePayload("30", "Hotel Mogul"),
		},
	}
	store := &memStore{}

	result, err := NewEngine(lookup, store, []string{"Tycoon", "Management"}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, []string{"Tycoon", "Management"}, lookup.searchCalls)
}

func TestEngineRun_DetailFailureSkipsCandidateOnly(t *testing.T) {
	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {{ID: "40", Name: "Broken"}, {ID: "41", Name: "Zoo Boss"}},
		},
		detailErr: map[string]error{"40": errors.New("status 429")},
		details: map[string]*steam.DetailPayload{
			"41": gamePayload("41", "Zoo Boss"),
		},
	}
	store := &memStore{}

	result, err := NewEngine(lookup, store, []string{"Tycoon"}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added)
	require.Len(t, store.games, 1)
	assert.Equal(t, "41", store.games[0].ID)
}

func TestEngineRun_NilDetailIsSkippedNotFatal(t *testing.T) {
	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {{ID: "50", Name: "Ghost Listing"}},
		},
	}
	store := &memStore{}

	result, err := NewEngine(lookup, store, []string{"Tycoon"}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, store.puts)
}

func TestEngineRun_CorruptStoreIsFatalBeforeAnyWrite(t *testing.T) {
	store := &memStore{getErr: errors.New("parse catalog: unexpected end of JSON input")}
	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {{ID: "60", Name: "Farm Baron"}},
		},
		details: map[string]*steam.DetailPayload{
			"60": gamePayload("60", "Farm Baron"),
		},
	}

	_, err := NewEngine(lookup, store, []string{"Tycoon"}).Run(context.Background())
	require.Error(t, err)

	assert.Empty(t, lookup.searchCalls)
	assert.Equal(t, 0, store.puts)
}

func TestEngineRun_CancellationStopsBetweenCandidates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {{ID: "70", Name: "Port Tycoon"}},
		},
		details: map[string]*steam.DetailPayload{
			"70": gamePayload("70", "Port Tycoon"),
		},
	}
	store := &memStore{}

	_, err := NewEngine(lookup, store, []string{"Tycoon"}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, lookup.detailCalls)
}

func TestEngineRun_OnNewAndIncrementalWrites(t *testing.T) {
	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {{ID: "80", Name: "Airline CEO"}, {ID: "81", Name: "Mining Co"}},
		},
		details: map[string]*steam.DetailPayload{
			"80": gamePayload("80", "Airline CEO"),
			"81": gamePayload("81", "Mining Co"),
		},
	}
	store := &memStore{}
	engine := NewEngine(lookup, store, []string{"Tycoon"})
	engine.IncrementalWrites = true

	var seen []string
	engine.OnNew = func(g models.Game) {
		assert.True(t, g.IsNew)
		seen = append(seen, g.ID)
	}

	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Added)
	assert.Equal(t, []string{"80", "81"}, seen)
	assert.Equal(t, 2, store.puts)
}

func TestEngineRun_SortByReleaseDate(t *testing.T) {
	old := gamePayload("90", "Old Classic")
	old.ReleaseDate = &steam.ReleaseDate{Date: "5 Mar, 2015"}
	fresh := gamePayload("91", "New Hit")
	fresh.ReleaseDate = &steam.ReleaseDate{Date: "12 Jun, 2024"}

	lookup := &fakeLookup{
		searchResults: map[string][]steam.Candidate{
			"Tycoon": {{ID: "90", Name: "Old Classic"}, {ID: "91", Name: "New Hit"}},
		},
		details: map[string]*steam.DetailPayload{"90": old, "91": fresh},
	}
	store := &memStore{}
	engine := NewEngine(lookup, store, []string{"Tycoon"})
	engine.SortByReleaseDate = true

	_, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.games, 2)
	assert.Equal(t, "91", store.games[0].ID)
	assert.Equal(t, "90", store.games[1].ID)
}

func TestParseReleaseDate(t *testing.T) {
	cases := []struct {
		in   string
		year int
	}{
		{"2 Jan, 2006", 2006},
		{"15 Aug 2019", 2019},
		{"Sep 2021", 2021},
		{"2023", 2023},
	}
	for _, tc := range cases {
		got := parseReleaseDate(tc.in)
		assert.Equal(t, tc.year, got.Year(), "input %q", tc.in)
	}
	assert.True(t, parseReleaseDate("Coming soon").IsZero())
	assert.True(t, parseReleaseDate("").IsZero())
}
