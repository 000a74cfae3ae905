package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTags are the overlapping Steam search terms the scraper walks,
// in this exact order. A game discovered under an earlier tag is already
// known by the time a later tag returns it.
var DefaultTags = []string{"Tycoon", "Management", "Economy", "Business Simulation"}

type ScraperConfig struct {
	SteamBaseURL   string
	Tags           []string
	DetailInterval time.Duration // minimum delay between appdetails calls
	RunInterval    time.Duration // run gate: skip if the last run is fresher than this
	CatalogPath    string        // published JSON catalog
	GatePath       string        // last-run timestamp file

	// SortByReleaseDate sorts the catalog newest-first on persist;
	// otherwise insertion order is preserved.
	SortByReleaseDate bool

	// IncrementalWrites persists the catalog after every accepted entry
	// instead of once at the end of the run.
	IncrementalWrites bool
}

func LoadScraperConfig() ScraperConfig {
	cfg := ScraperConfig{
		SteamBaseURL:      "https://store.steampowered.com/api",
		Tags:              DefaultTags,
		DetailInterval:    time.Second,
		RunInterval:       12 * time.Hour,
		CatalogPath:       "tycoon-games-database.json",
		GatePath:          dataPath("last-run"),
		SortByReleaseDate: false,
		IncrementalWrites: false,
	}

	if v := os.Getenv("TYCOONHUB_STEAM_BASE_URL"); v != "" {
		cfg.SteamBaseURL = v
	}
	if v := os.Getenv("TYCOONHUB_TAGS"); v != "" {
		var tags []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		if len(tags) > 0 {
			cfg.Tags = tags
		}
	}
	if d := envDuration("TYCOONHUB_DETAIL_INTERVAL"); d > 0 {
		cfg.DetailInterval = d
	}
	if d := envDuration("TYCOONHUB_RUN_INTERVAL"); d > 0 {
		cfg.RunInterval = d
	}
	if v := os.Getenv("TYCOONHUB_CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("TYCOONHUB_GATE_PATH"); v != "" {
		cfg.GatePath = v
	}
	cfg.SortByReleaseDate = envBool("TYCOONHUB_SORT_BY_RELEASE_DATE", cfg.SortByReleaseDate)
	cfg.IncrementalWrites = envBool("TYCOONHUB_INCREMENTAL_WRITES", cfg.IncrementalWrites)

	return cfg
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("TYCOONHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("TYCOONHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "tycoonhub"
	}

	dur := 24 * time.Hour
	if d := envDuration("TYCOONHUB_JWT_TTL"); d > 0 {
		dur = d
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: dur,
	}
}

type ServerConfig struct {
	HTTPAddr string
	TCPAddr  string
}

func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		HTTPAddr: ":8080",
		TCPAddr:  ":7070",
	}
	if v := os.Getenv("TYCOONHUB_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("TYCOONHUB_TCP_ADDR"); v != "" {
		cfg.TCPAddr = v
	}
	return cfg
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func dataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".tycoonhub", name)
}
