// Package server exposes the prerequisite graph of the selected curriculum to
// the presentation layer, over a JSON HTTP API and a socket.io channel that
// pushes cascade highlights.
//
// The graph in use is held behind an atomic pointer. Switching curricula
// builds a fresh graph and swaps it in, so queries never observe a half-built
// graph and the last build to complete wins.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/vk/coursegrid/internal/ctxlog"
	"github.com/vk/coursegrid/internal/curriculum"
	"github.com/vk/coursegrid/internal/prereqgraph"
	"github.com/zishang520/socket.io/v2/socket"
)

// ErrUnknownCurriculum is returned by Load for a code with no file.
var ErrUnknownCurriculum = errors.New("unknown curriculum")

const shutdownTimeout = 5 * time.Second

// Snapshot is an immutable, fully built curriculum graph.
type Snapshot struct {
	Code  string
	Title string
	Graph *prereqgraph.Graph
}

// Server serves one curriculum at a time out of a directory of curriculum
// files.
type Server struct {
	dir     string
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
	io      *socket.Server
	mux     *http.ServeMux
}

// New creates a server for the curriculum files in dir. No curriculum is
// loaded until Load is called; until then every query answers empty.
func New(ctx context.Context, dir string) *Server {
	s := &Server{
		dir:    dir,
		logger: ctxlog.FromContext(ctx).With("component", "server"),
		io:     socket.NewServer(nil, nil),
	}
	s.current.Store(&Snapshot{Graph: prereqgraph.New()})
	s.routes()
	s.bindSocket()
	return s
}

// Current returns the snapshot in use.
func (s *Server) Current() *Snapshot {
	return s.current.Load()
}

// Load reads the curriculum with the given code, builds its graph and makes
// it current.
func (s *Server) Load(ctx context.Context, code string) (*Snapshot, error) {
	logger := s.logger.With("code", code)

	found, err := curriculum.Discover(s.dir)
	if err != nil {
		return nil, err
	}
	path, ok := found[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurriculum, code)
	}

	cur, err := curriculum.Open(ctxlog.WithLogger(ctx, logger), path)
	if err != nil {
		return nil, fmt.Errorf("failed to load curriculum %s: %w", code, err)
	}

	g := prereqgraph.New()
	g.Build(cur.Courses)
	if dangling := g.Dangling(); len(dangling) > 0 {
		logger.Warn("Curriculum references prerequisites it does not define.", "ids", dangling)
	}
	if err := g.DetectCycles(); err != nil {
		logger.Warn("Curriculum has a prerequisite cycle.", "error", err)
	}

	snap := &Snapshot{Code: cur.Code, Title: cur.Title, Graph: g}
	s.current.Store(snap)
	logger.Info("Curriculum loaded.", "courses", g.Len(), "semesters", len(g.SemesterNumbers()))
	return snap, nil
}

// Handler returns the HTTP handler serving the API and the socket.io endpoint.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("📚 Curriculum server starting", "address", fmt.Sprintf("http://%s", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.io.Close(nil)
		return fmt.Errorf("curriculum server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down curriculum server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.io.Close(nil)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Curriculum server shutdown failed", "error", err)
		return err
	}
	s.logger.Debug("Curriculum server shut down gracefully.")
	return nil
}

// Close releases the socket.io server.
func (s *Server) Close() {
	s.io.Close(nil)
}
