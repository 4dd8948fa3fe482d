// Package config loads service configuration from the environment via koanf.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces every variable this service reads.
const envPrefix = "PLAYLISTAI_"

// SpotifyConfig configures the catalog adapter and its OAuth flow.
type SpotifyConfig struct {
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	RedirectURL  string        `koanf:"redirect_url"`
	BaseURL      string        `koanf:"base_url"`
	MaxRetries   int           `koanf:"max_retries"`
	BaseBackoff  time.Duration `koanf:"base_backoff"`
}

// OpenAIConfig configures the text-generation adapter.
type OpenAIConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
}

// Config is the full service configuration.
type Config struct {
	ListenAddr string        `koanf:"listen_addr"`
	LogLevel   string        `koanf:"log_level"`
	LogFormat  string        `koanf:"log_format"`
	SessionDB  string        `koanf:"session_db"`
	SessionTTL time.Duration `koanf:"session_ttl"`
	Spotify    SpotifyConfig `koanf:"spotify"`
	OpenAI     OpenAIConfig  `koanf:"openai"`
}

func defaults() Config {
	return Config{
		ListenAddr: ":8888",
		LogLevel:   "info",
		LogFormat:  "json",
		SessionDB:  "playlistai.db",
		SessionTTL: time.Hour,
		Spotify: SpotifyConfig{
			BaseURL:     "https://api.spotify.com/v1",
			RedirectURL: "http://localhost:8888/callback",
			MaxRetries:  5,
			BaseBackoff: 500 * time.Millisecond,
		},
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4",
		},
	}
}

// Load reads configuration from the environment. Variables map to fields by
// replacing dots with underscores, e.g. PLAYLISTAI_SPOTIFY_CLIENT_ID →
// spotify.client_id. Missing credentials fail fast.
func Load() (Config, error) {
	k := koanf.New(".")

	provider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		// Only the first segment is a nesting level; the rest of the
		// variable name keeps its underscores.
		for _, section := range []string{"spotify", "openai"} {
			if strings.HasPrefix(s, section+"_") {
				return section + "." + strings.TrimPrefix(s, section+"_")
			}
		}
		return s
	})
	if err := k.Load(provider, nil); err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		return Config{}, fmt.Errorf("config: PLAYLISTAI_SPOTIFY_CLIENT_ID and PLAYLISTAI_SPOTIFY_CLIENT_SECRET are required")
	}
	if cfg.OpenAI.APIKey == "" {
		return Config{}, fmt.Errorf("config: PLAYLISTAI_OPENAI_API_KEY is required")
	}

	return cfg, nil
}
