package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"tycoonhub/internal/catalog"
	"tycoonhub/internal/scraper"
	"tycoonhub/internal/steam"
	"tycoonhub/pkg/utils"
)

// staticFiles are copied verbatim from the web dir into the dist dir.
var staticFiles = []string{
	"index.html",
	"games.html",
	"about.html",
	"submit.html",
	"styles.css",
	"app.js",
	"submit.js",
	"default-game-image.svg",
}

func main() {
	var (
		distDir    = flag.String("dist", "dist", "output directory")
		webDir     = flag.String("web", "web", "static assets directory")
		skipScrape = flag.Bool("skip-scrape", false, "publish the current catalog without scraping")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := utils.LoadScraperConfig()

	store := catalog.NewFileStore(cfg.CatalogPath)

	if !*skipScrape {
		engine := scraper.NewEngine(
			steam.NewClient(cfg.SteamBaseURL, cfg.DetailInterval),
			store,
			cfg.Tags,
		)
		engine.SortByReleaseDate = cfg.SortByReleaseDate

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		log.Println("scraping games...")
		res, err := engine.Run(ctx)
		if err != nil {
			log.Fatalf("scrape failed: %v", err)
		}
		log.Printf("scrape done: %d new games, %d total", res.Added, res.Total)
	}

	if err := os.MkdirAll(*distDir, 0o755); err != nil {
		log.Fatalf("create dist dir: %v", err)
	}

	// publish the catalog
	games, err := store.Get(context.Background())
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	dist := catalog.NewFileStore(filepath.Join(*distDir, "tycoon-games-database.json"))
	if err := dist.Put(context.Background(), games); err != nil {
		log.Fatalf("publish catalog: %v", err)
	}
	log.Printf("published %d games to %s", len(games), dist.Path)

	// copy static assets
	for _, name := range staticFiles {
		src := filepath.Join(*webDir, name)
		dst := filepath.Join(*distDir, name)
		if err := copyFile(src, dst); err != nil {
			log.Fatalf("copy %s: %v", name, err)
		}
		log.Printf("copied %s", name)
	}

	log.Println("build completed")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
