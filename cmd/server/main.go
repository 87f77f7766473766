package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/sujalbistaa/proposal/internal/catalog"
	"github.com/sujalbistaa/proposal/internal/config"
	"github.com/sujalbistaa/proposal/internal/db"
	routes "github.com/sujalbistaa/proposal/internal/http"
	"github.com/sujalbistaa/proposal/internal/notify"
	"github.com/sujalbistaa/proposal/internal/proposal"
	"github.com/sujalbistaa/proposal/internal/store"
	"github.com/sujalbistaa/proposal/internal/ws"
)

func main() {
	// .env is optional; production sets the environment directly.
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	if envErr != nil {
		logger.Debug().Msg("no .env file found, reading from environment")
	}

	st, err := openStore(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(logger.With().Str("component", "ws").Logger())
	go hub.Run(ctx)

	notifyLog := logger.With().Str("component", "notify").Logger()
	var sender notify.Sender = notify.Disabled{Log: notifyLog}
	if cfg.EmailJS.Enabled() {
		sender = notify.NewEmailJS(cfg.EmailJS, notifyLog)
	} else {
		logger.Info().Msg("EmailJS not configured, response emails disabled")
	}
	dispatcher := notify.NewDispatcher(sender, cfg.NotifyTimeout, notifyLog)

	svc := proposal.New(st, proposal.WithLogger(logger.With().Str("component", "proposal").Logger()))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	routes.SetupRoutes(ctx, router, &routes.Env{
		Proposals: svc,
		Catalog:   catalog.Default(),
		Notifier:  dispatcher,
		Hub:       hub,
		BaseURL:   cfg.PublicBaseURL,
		Log:       logger.With().Str("component", "http").Logger(),
	}, routes.RouteOptions{
		CORSOrigin: cfg.CORSOrigin,
		AdminToken: cfg.AdminToken,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("base_url", cfg.PublicBaseURL).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	dispatcher.Wait()
	if err := st.Close(); err != nil {
		logger.Error().Err(err).Msg("close store")
	}

	logger.Info().Msg("server exiting")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// openStore picks the in-memory store for memory:// and a migrated SQL store otherwise.
func openStore(dbURL string, logger zerolog.Logger) (store.Store, error) {
	if store.IsMemoryURL(dbURL) {
		logger.Warn().Msg("using in-memory store, proposals are lost on restart")
		return store.NewMemoryStore(), nil
	}

	database, err := db.Init(dbURL, logger.With().Str("component", "db").Logger())
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("running database migrations")
	if err := db.Migrate(database); err != nil {
		return nil, err
	}
	return store.NewGormStore(database), nil
}
