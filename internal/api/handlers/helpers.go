package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pratik-mahalle/ytgate/internal/pkg/errors"
	"github.com/pratik-mahalle/ytgate/internal/pkg/utils"
)

const maxRequestBody = 64 << 10

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	return json.NewDecoder(r.Body).Decode(dst)
}

// NotFound answers unmatched routes and unsupported methods
func NotFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, errors.NotFound("Route"))
}

// Preflight answers OPTIONS requests. CORS headers are set by middleware.
func Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
