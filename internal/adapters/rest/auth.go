package rest

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/PoliTwit1984/playlistai/internal/core/ports"
	"github.com/PoliTwit1984/playlistai/internal/core/services"
)

const (
	sessionCookie = "playlistai_session"
	stateCookie   = "playlistai_oauth_state"
	keyToken      = "oauth_token"
)

// Login handles GET /login: starts the authorization-code flow.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /callback: exchanges the authorization code for a
// token, opens a session and stores the token in it.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	stored, err := r.Cookie(stateCookie)
	if err != nil || stored.Value == "" || stored.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "state mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "authorization code is required")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Msg("token exchange failed")
		writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	sessionID := uuid.NewString()
	if err := h.sessions.Put(r.Context(), sessionID, keyToken, token, h.sessionTTL); err != nil {
		h.log.Error().Err(err).Msg("session write failed")
		writeError(w, http.StatusInternalServerError, "failed to open session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	writeJSON(w, http.StatusOK, map[string]string{"status": "authenticated"})
}

// Logout handles POST /logout: drops the session and its cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Clear(r.Context(), cookie.Value); err != nil {
			h.log.Warn().Err(err).Msg("session clear failed")
		}
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// sessionID extracts the session cookie, or "" when absent.
func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// service builds the per-request orchestrator from the session's stored
// token. A missing cookie or token means the listener is not authenticated.
func (h *Handler) service(r *http.Request) (*services.Orchestrator, string, bool) {
	id := sessionID(r)
	if id == "" {
		return nil, "", false
	}

	var token oauth2.Token
	if err := h.sessions.Get(r.Context(), id, keyToken, &token); err != nil {
		if !errors.Is(err, ports.ErrNoValue) {
			h.log.Warn().Err(err).Msg("token load failed")
		}
		return nil, "", false
	}

	return h.newService(r.Context(), &token), id, true
}
