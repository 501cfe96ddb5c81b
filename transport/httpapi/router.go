// Package httpapi exposes room commands and queries over HTTP. Every
// handler runs its work on the simulation goroutine through Game.Submit.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pthm-cable/petroom/game"
	"github.com/pthm-cable/petroom/room"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

// NewRouter builds the HTTP API for g. ws, when non-nil, is mounted at /ws.
func NewRouter(g *game.Game, ws http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	RegisterPetRoutes(r, g)
	RegisterOwnerRoutes(r, g)

	if ws != nil {
		r.Method(http.MethodGet, "/ws", ws)
	}
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps room and game errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrPetNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrInvalidSpecies),
		errors.Is(err, room.ErrInvalidFoodTier),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, room.ErrPetLimit):
		return http.StatusConflict
	case errors.Is(err, game.ErrStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched
// unless required is set.
func decodeBody(r *http.Request, v any, required bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && !required:
		return nil
	default:
		return fmt.Errorf("%w: invalid json", errBadRequest)
	}
}
