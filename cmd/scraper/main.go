package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"tycoonhub/internal/catalog"
	"tycoonhub/internal/scraper"
	"tycoonhub/internal/steam"
	"tycoonhub/pkg/database"
	"tycoonhub/pkg/utils"
)

func main() {
	var (
		force = flag.Bool("force", false, "run even if the last run is recent")
		toDB  = flag.Bool("to-db", false, "sync into the SQLite store instead of the JSON catalog")
		out   = flag.String("out", "", "override catalog JSON path")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := utils.LoadScraperConfig()
	if *out != "" {
		cfg.CatalogPath = *out
	}

	gate := catalog.NewFileGate(cfg.GatePath)
	if !*force {
		ok, err := catalog.ShouldRun(gate, cfg.RunInterval)
		if err != nil {
			log.Fatalf("run gate: %v", err)
		}
		if !ok {
			log.Printf("last run is fresher than %s, skipping (use -force to override)", cfg.RunInterval)
			return
		}
	}

	var store catalog.Store = catalog.NewFileStore(cfg.CatalogPath)
	if *toDB {
		db := database.MustOpen(database.DefaultConfig())
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		store = catalog.NewSQLiteStore(db)
	}

	engine := scraper.NewEngine(
		steam.NewClient(cfg.SteamBaseURL, cfg.DetailInterval),
		store,
		cfg.Tags,
	)
	engine.SortByReleaseDate = cfg.SortByReleaseDate
	engine.IncrementalWrites = cfg.IncrementalWrites

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	log.Println("starting Steam games scraper...")
	res, err := engine.Run(ctx)
	if err != nil {
		log.Fatalf("scrape failed: %v", err)
	}

	if err := gate.MarkRan(time.Now()); err != nil {
		log.Printf("mark run: %v", err)
	}

	log.Printf("done: %d new games, %d total", res.Added, res.Total)
}
