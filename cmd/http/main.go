package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"ticketsafi/web/internal/cache"
	"ticketsafi/web/internal/config"
	"ticketsafi/web/internal/forms"
	"ticketsafi/web/internal/handler"
	"ticketsafi/web/internal/repository"
	"ticketsafi/web/internal/search"
	"ticketsafi/web/internal/service"
	"ticketsafi/web/internal/service/ticketsafi"
	"ticketsafi/web/internal/view"
)

const draftTTL = 24 * time.Hour

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()

	// 2. Setup storage
	var checkoutRepo service.CheckoutRepository
	if cfg.DatabaseURL != "" {
		dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := dbPool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		repo := repository.NewCheckoutRepository(dbPool)
		if err := repo.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		checkoutRepo = repo
		logger.Info("connected to database")
	} else {
		checkoutRepo = repository.NewMemoryCheckoutRepository()
		logger.Warn("DATABASE_URL not set, checkout attempts are kept in memory")
	}

	var store cache.Store
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		store = cache.NewRedis(rdb, "tsweb:")
		logger.Info("connected to redis")
	} else {
		store = cache.NewMemory()
	}

	// 3. Setup Logic
	client := ticketsafi.NewClient(ticketsafi.Config{
		APIURL:  cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
	})
	checkoutService := service.NewCheckoutService(checkoutRepo, client, service.CheckoutConfig{
		PollInterval: cfg.Checkout.PollInterval,
		PollTimeout:  cfg.Checkout.PollTimeout,
	}, logger)

	var oauth *oauth2.Config
	if cfg.GoogleEnabled() {
		oauth = &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	h := handler.NewHandler(handler.Options{
		API:           client,
		Checkout:      checkoutService,
		Events:        cache.NewGroup(store, cfg.EventsCacheTTL),
		Drafts:        forms.NewDraftStore(store, draftTTL),
		Search:        search.NewCoalescer(cfg.SearchDebounce),
		Mapper:        view.NewMapper(cfg.API.URL, cfg.Location),
		Location:      cfg.Location,
		OAuth:         oauth,
		SecureCookies: cfg.Production(),
		Logger:        logger,
	})

	// 4. Setup Server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 5. Run Server with Graceful Shutdown
	go func() {
		logger.Info("starting server", "port", cfg.ServerPort, "api_url", cfg.API.URL, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Create a deadline to wait for.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	checkoutService.Close()

	logger.Info("server exiting")
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.Production() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
