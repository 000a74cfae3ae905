package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tycoonhub/internal/catalog"
	"tycoonhub/pkg/database"
	"tycoonhub/pkg/models"
	"tycoonhub/pkg/utils"
)

var csvHeader = []string{
	"id", "title", "description", "platforms", "genres",
	"release_date", "price", "rating", "features", "tags",
}

func main() {
	var (
		outPath = flag.String("out", "games.csv", "output CSV path")
		fromDB  = flag.Bool("from-db", false, "read from the SQLite store instead of the JSON catalog")
	)
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := openStore(*fromDB)
	games, err := store.Get(ctx)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("create %s: %v", *outPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		log.Fatalf("write header: %v", err)
	}
	for _, g := range games {
		if err := w.Write(toRecord(g)); err != nil {
			log.Fatalf("write row %s: %v", g.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush csv: %v", err)
	}

	log.Printf("exported %d games to %s", len(games), *outPath)
}

func openStore(fromDB bool) catalog.Store {
	if fromDB {
		db := database.MustOpen(database.DefaultConfig())
		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		return catalog.NewSQLiteStore(db)
	}
	cfg := utils.LoadScraperConfig()
	return catalog.NewFileStore(cfg.CatalogPath)
}

func toRecord(g models.Game) []string {
	return []string{
		g.ID,
		g.Title,
		g.Description,
		strings.Join(g.Platforms, ";"),
		strings.Join(g.Genres, ";"),
		g.ReleaseDate,
		fmt.Sprintf("%.2f", g.Price),
		fmt.Sprintf("%.1f", g.Rating),
		strings.Join(g.Features, ";"),
		strings.Join(g.Tags, ";"),
	}
}
