package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tycoonhub/internal/catalog"
	"tycoonhub/pkg/database"
	"tycoonhub/pkg/models"
	"tycoonhub/pkg/utils"
)

// Out-of-band catalog editing: the scraper itself never removes or mutates
// entries, so bulk corrections happen by exporting to CSV, editing, and
// importing back. Rows replace entries with the same id; the rest of the
// catalog is preserved, and -replace drops it instead.
func main() {
	var (
		inPath  = flag.String("in", "games.csv", "input CSV path")
		toDB    = flag.Bool("to-db", false, "write to the SQLite store instead of the JSON catalog")
		replace = flag.Bool("replace", false, "discard the existing catalog instead of merging")
	)
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	imported, err := readCSV(*inPath)
	if err != nil {
		log.Fatalf("read %s: %v", *inPath, err)
	}

	store := openStore(*toDB)

	current := []models.Game{}
	if !*replace {
		current, err = store.Get(ctx)
		if err != nil {
			log.Fatalf("load catalog: %v", err)
		}
	}

	merged, updated, added := merge(current, imported)
	if err := store.Put(ctx, merged); err != nil {
		log.Fatalf("write catalog: %v", err)
	}

	log.Printf("imported %d rows: %d updated, %d added, %d total", len(imported), updated, added, len(merged))
}

func openStore(toDB bool) catalog.Store {
	if toDB {
		db := database.MustOpen(database.DefaultConfig())
		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		return catalog.NewSQLiteStore(db)
	}
	cfg := utils.LoadScraperConfig()
	return catalog.NewFileStore(cfg.CatalogPath)
}

func readCSV(path string) ([]models.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["id"]; !ok {
		return nil, fmt.Errorf("missing id column")
	}

	var out []models.Game
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		g := models.Game{
			ID:          get("id"),
			Title:       get("title"),
			Description: get("description"),
			Platforms:   splitList(get("platforms")),
			Genres:      splitList(get("genres")),
			ReleaseDate: get("release_date"),
			Price:       parseFloat(get("price")),
			Rating:      parseFloat(get("rating")),
			Features:    splitList(get("features")),
			Tags:        splitList(get("tags")),
		}
		if g.ID == "" || g.Title == "" {
			log.Printf("line %d: missing id or title, skipped", line)
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func merge(current, imported []models.Game) (merged []models.Game, updated, added int) {
	index := make(map[string]int, len(current))
	merged = make([]models.Game, len(current))
	copy(merged, current)
	for i, g := range merged {
		index[g.ID] = i
	}

	for _, g := range imported {
		if i, ok := index[g.ID]; ok {
			merged[i] = g
			updated++
			continue
		}
		index[g.ID] = len(merged)
		merged = append(merged, g)
		added++
	}
	return merged, updated, added
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
