package leaderboard

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
)

// maxBody bounds the size of a submission request.
const maxBody = 4 << 10

// Handler serves the leaderboard API backed by store:
//
//	GET  /leaderboard?limit=N   list, best first
//	POST /leaderboard           submit {"name","score","mode"}
//	GET  /healthz               liveness
func Handler(store Store, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	h := &handler{store: store, log: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/leaderboard", h.leaderboard)
	mux.HandleFunc("/healthz", h.healthz)
	return cors(mux)
}

type handler struct {
	store Store
	log   *log.Logger
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Origin", "*")
		hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.top(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *handler) top(w http.ResponseWriter, r *http.Request) {
	limit := MaxEntries
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.store.Top(r.Context(), limit)
	if err != nil {
		h.log.Printf("list leaderboard: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	var s Submission
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	entry, err := h.store.Submit(r.Context(), s)
	switch {
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidScore):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Printf("submit score: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.log.Printf("new score %d by %q (%s)", entry.Score, entry.Name, entry.Mode)
	writeJSON(w, http.StatusCreated, entry)
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
