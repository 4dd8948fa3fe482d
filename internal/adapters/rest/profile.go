package rest

import "net/http"

// Profile handles GET /profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	svc, _, ok := h.service(r)
	if !ok {
		writeErrorWithCode(w, http.StatusUnauthorized, "login required", errCodeNotAuthenticated)
		return
	}

	overview, err := svc.Overview(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

// AutocompleteArtists handles GET /autocomplete/artists?q=
func (h *Handler) AutocompleteArtists(w http.ResponseWriter, r *http.Request) {
	svc, _, ok := h.service(r)
	if !ok {
		writeErrorWithCode(w, http.StatusUnauthorized, "login required", errCodeNotAuthenticated)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusOK, []string{})
		return
	}

	names, err := svc.AutocompleteArtists(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, names)
}

// AutocompleteGenres handles GET /autocomplete/genres?q=
func (h *Handler) AutocompleteGenres(w http.ResponseWriter, r *http.Request) {
	svc, _, ok := h.service(r)
	if !ok {
		writeErrorWithCode(w, http.StatusUnauthorized, "login required", errCodeNotAuthenticated)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusOK, []string{})
		return
	}

	genres, err := svc.AutocompleteGenres(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if genres == nil {
		genres = []string{}
	}

	writeJSON(w, http.StatusOK, genres)
}
