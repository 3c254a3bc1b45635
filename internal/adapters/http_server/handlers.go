package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"abroads_reviews/internal/app"
)

type Handlers struct{ S *app.ReviewService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews", h.getReviews)
	s.mux.Post("/v1/reviews/cache/clear", h.clearCache)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// pageParam parses a positive integer query value, distinguishing "absent"
// (use the default) from "present but invalid" (caller contract violation).
func pageParam(r *http.Request, name string, def, max int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || (max > 0 && n > max) {
		return 0, false
	}
	return n, true
}

func (h *Handlers) getReviews(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r, "page", app.DefaultPage, 0)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
		return
	}
	perPage, ok := pageParam(r, "per_page", app.DefaultPerPage, 100)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid per_page", "per_page must be an integer between 1 and 100")
		return
	}

	resp, err := h.S.GetReviews(r.Context(), page, perPage)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to assemble reviews page")
		return
	}

	etag, body := calcETagAndBody(resp)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getReviews body")
	}
}

func (h *Handlers) clearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.S.ClearCache(r.Context()); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "cache clear failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
