package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tycoonhub/internal/auth"
	"tycoonhub/internal/catalog"
	"tycoonhub/internal/live"
	"tycoonhub/internal/scraper"
	"tycoonhub/internal/steam"
	"tycoonhub/internal/submissions"
	"tycoonhub/pkg/database"
	"tycoonhub/pkg/models"
	"tycoonhub/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()
	scrCfg := utils.LoadScraperConfig()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := live.NewHub()
	router.GET("/ws", live.WSHandler(hub))
	tcpSrv := live.NewServer(srvCfg.TCPAddr, hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Catalog (public)
	store := catalog.NewSQLiteStore(db)
	catalogHandler := catalog.NewHandler(store)
	catalogHandler.RegisterRoutes(router.Group("/games"))

	// Manual sync trigger. One run at a time per process; the run gate
	// keeps scheduled triggers apart.
	gate := catalog.NewFileGate(scrCfg.GatePath)
	var syncRunning atomic.Bool
	router.POST("/sync", func(c *gin.Context) {
		force := c.Query("force") == "1"
		if !force {
			ok, err := catalog.ShouldRun(gate, scrCfg.RunInterval)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "run gate check failed"})
				return
			}
			if !ok {
				c.JSON(http.StatusOK, gin.H{"status": "skipped", "reason": "last run too recent"})
				return
			}
		}
		if !syncRunning.CompareAndSwap(false, true) {
			c.JSON(http.StatusConflict, gin.H{"error": "sync already running"})
			return
		}

		go func() {
			defer syncRunning.Store(false)

			engine := scraper.NewEngine(
				steam.NewClient(scrCfg.SteamBaseURL, scrCfg.DetailInterval),
				store,
				scrCfg.Tags,
			)
			engine.SortByReleaseDate = scrCfg.SortByReleaseDate
			engine.IncrementalWrites = scrCfg.IncrementalWrites
			engine.OnNew = func(g models.Game) {
				hub.BroadcastJSON(live.NewGame(g))
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			res, err := engine.Run(ctx)
			if err != nil {
				log.Printf("[sync] run failed: %v", err)
				return
			}
			if err := gate.MarkRan(time.Now()); err != nil {
				log.Printf("[sync] mark run: %v", err)
			}
			hub.BroadcastJSON(live.SyncDone(res.Added, res.Total))
		}()

		c.JSON(http.StatusAccepted, gin.H{"status": "started"})
	})

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Protected routes
	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	protected.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
		})
	})

	// Submissions (protected)
	subRepo := submissions.NewRepo(db)
	subHandler := submissions.NewHandler(subRepo)
	subHandler.RegisterRoutes(protected)

	httpSrv := &http.Server{
		Addr:    srvCfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
