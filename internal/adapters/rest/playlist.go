package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/PoliTwit1984/playlistai/internal/core/domain"
	"github.com/PoliTwit1984/playlistai/internal/core/ports"
)

const errCodeNotAuthenticated = "NOT_AUTHENTICATED"

// SavePreferences handles POST /preferences
func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	svc, id, ok := h.service(r)
	if !ok {
		writeErrorWithCode(w, http.StatusUnauthorized, "login required", errCodeNotAuthenticated)
		return
	}

	var prefs domain.UserPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := svc.SavePreferences(r.Context(), id, prefs); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// FindTracks handles POST /tracks/find
func (h *Handler) FindTracks(w http.ResponseWriter, r *http.Request) {
	svc, id, ok := h.service(r)
	if !ok {
		writeErrorWithCode(w, http.StatusUnauthorized, "login required", errCodeNotAuthenticated)
		return
	}

	summary, err := svc.FindTracks(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNoValue) {
			writeError(w, http.StatusConflict, "no preferences saved for this session")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// GeneratePlaylist handles POST /playlist/generate
func (h *Handler) GeneratePlaylist(w http.ResponseWriter, r *http.Request) {
	svc, id, ok := h.service(r)
	if !ok {
		writeErrorWithCode(w, http.StatusUnauthorized, "login required", errCodeNotAuthenticated)
		return
	}

	playlist, err := svc.GeneratePlaylist(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNoValue) {
			writeError(w, http.StatusConflict, "find tracks before generating")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

// SavePlaylist handles POST /playlist/save
func (h *Handler) SavePlaylist(w http.ResponseWriter, r *http.Request) {
	svc, id, ok := h.service(r)
	if !ok {
		writeErrorWithCode(w, http.StatusUnauthorized, "login required", errCodeNotAuthenticated)
		return
	}

	saved, err := svc.SavePlaylist(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNoValue) {
			writeError(w, http.StatusConflict, "generate a playlist before saving")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}
