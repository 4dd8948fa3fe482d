package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/PoliTwit1984/playlistai/internal/adapters/openai"
	"github.com/PoliTwit1984/playlistai/internal/adapters/rest"
	"github.com/PoliTwit1984/playlistai/internal/adapters/spotify"
	"github.com/PoliTwit1984/playlistai/internal/adapters/sqlite"
	"github.com/PoliTwit1984/playlistai/internal/config"
	"github.com/PoliTwit1984/playlistai/internal/core/services"
	"github.com/PoliTwit1984/playlistai/internal/logging"
	"github.com/PoliTwit1984/playlistai/internal/preview"
)

func main() {
	// 1. Configuration. Crash early if required config is missing.
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New(logging.Config{})
		bootLog.Fatal().Err(err).Msg("configuration")
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// 2. Initialize "Driven" Adapters (The Tools)
	store, err := sqlite.NewStore(cfg.SessionDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session store")
	}
	defer store.Close()

	llm := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	}, log)

	oauthConf := spotify.OAuthConfig(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURL)
	probe := preview.NewProber()

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go purgeLoop(purgeCtx, store, log)

	// 3. Core Logic. The catalog client carries the listener's token, so the
	// orchestrator is built per request.
	factory := func(ctx context.Context, token *oauth2.Token) *services.Orchestrator {
		httpClient := spotify.AuthenticatedHTTPClient(ctx, oauthConf, token)
		catalog := spotify.NewClient(httpClient, spotify.Config{
			BaseURL:     cfg.Spotify.BaseURL,
			MaxRetries:  cfg.Spotify.MaxRetries,
			BaseBackoff: cfg.Spotify.BaseBackoff,
		}, log)
		return services.NewOrchestrator(catalog, llm, store, probe, cfg.SessionTTL, log)
	}

	// 4. Initialize "Driving" Adapter (The Interface)
	handler := rest.NewHandler(factory, oauthConf, store, cfg.SessionTTL, log)

	// 5. Start the Server
	log.Info().Str("addr", cfg.ListenAddr).Msg("🎶 playlistai API is running")

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}

// purgeLoop evicts expired session rows every few minutes.
func purgeLoop(ctx context.Context, store *sqlite.Store, log zerolog.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.PurgeExpired(ctx); err != nil {
				log.Warn().Err(err).Msg("session purge failed")
			}
		}
	}
}
