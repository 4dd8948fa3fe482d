package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/PoliTwit1984/playlistai/internal/core/ports"
	"github.com/PoliTwit1984/playlistai/internal/core/services"
)

// OrchestratorFactory builds a service instance bound to one listener's
// catalog credentials. Called once per authenticated request.
type OrchestratorFactory func(ctx context.Context, token *oauth2.Token) *services.Orchestrator

// Handler manages the HTTP interface for our application.
type Handler struct {
	newService OrchestratorFactory
	oauth      *oauth2.Config
	sessions   ports.SessionStore
	sessionTTL time.Duration
	router     *http.ServeMux
	log        zerolog.Logger
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(factory OrchestratorFactory, oauth *oauth2.Config, sessions ports.SessionStore, sessionTTL time.Duration, log zerolog.Logger) *Handler {
	h := &Handler{
		newService: factory,
		oauth:      oauth,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		router:     http.NewServeMux(),
		log:        log.With().Str("component", "rest").Logger(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Authentication
	h.router.HandleFunc("GET /login", h.Login)
	h.router.HandleFunc("GET /callback", h.Callback)
	h.router.HandleFunc("POST /logout", h.Logout)
	// Playlist Pipeline
	h.router.HandleFunc("POST /preferences", h.SavePreferences)
	h.router.HandleFunc("POST /tracks/find", h.FindTracks)
	h.router.HandleFunc("POST /playlist/generate", h.GeneratePlaylist)
	h.router.HandleFunc("POST /playlist/save", h.SavePlaylist)
	// Listener Profile
	h.router.HandleFunc("GET /profile", h.Profile)
	h.router.HandleFunc("GET /autocomplete/artists", h.AutocompleteArtists)
	h.router.HandleFunc("GET /autocomplete/genres", h.AutocompleteGenres)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "playlistai is live 🎶"})
}
