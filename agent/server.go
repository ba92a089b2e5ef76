package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"halma/game"
	"halma/searcher"
)

const shutdownGrace = 5 * time.Second

// NewRouter exposes the agent to the match runner and the decision feed to observers.
func NewRouter(a *Agent, hub *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Post("/move", func(w http.ResponseWriter, r *http.Request) {
		handleMove(a, hub, w, r)
	})

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, w, r)
	})

	return r
}

func handleMove(a *Agent, hub *Hub, w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	d, err := a.Decide(r.Context(), req)
	switch {
	case err == nil:
		hub.Publish(d)
		writeJSON(w, http.StatusOK, d.Move)
	case errors.Is(err, searcher.ErrNoLegalMove):
		// The runner expects a move; stand still on the first peg when there is one.
		state, _ := game.FromPosition(req.Position)
		pegs := state.Pegs(game.A)
		if len(pegs) == 0 {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		log.Warn().Err(err).Msg("answering with a non-move")
		writeJSON(w, http.StatusOK, game.Move{From: pegs[0], To: pegs[0]})
	case errors.Is(err, game.ErrUnknownEnv), errors.Is(err, ErrNoRunSegment):
		log.Error().Err(err).Msg("cannot resolve board shape")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, game.ErrInvalidPosition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("decision failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// Serve answers the match runner on addr until ctx is cancelled. In-flight decisions get
// shutdownGrace to finish before the server closes.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("agent listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("agent server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("addr", addr).Dur("grace", shutdownGrace).Msg("agent draining")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("agent shutdown timed out, closing connections")
			return server.Close()
		}
		return nil
	})
	return g.Wait()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
