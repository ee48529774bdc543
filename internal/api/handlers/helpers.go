package handlers

import (
	"net/http"

	"github.com/goccy/go-json"

	"sighting-intake-service/internal/api/dto"
	"sighting-intake-service/internal/logging"
)

// Stored text already carries &#NN; entities; HTML escaping is left off so
// they reach the client verbatim.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.MessageResponse{Message: msg})
}

// WriteError is writeError for middleware outside this package.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeError(w, r, status, msg)
}
