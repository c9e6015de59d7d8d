package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/resetctl/internal/observability"
	"github.com/danmuck/resetctl/internal/sequencer"
)

var ErrInvalidListenAddr = errors.New("admin: invalid listen address")

// Server hosts the admin routes for one sequencer instance.
type Server struct {
	seq    *sequencer.Sequencer
	addr   string
	router *gin.Engine
	start  time.Time
}

func NewServer(seq *sequencer.Sequencer, addr string) (*Server, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, ErrInvalidListenAddr
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(log.Logger))
	router.Use(observability.RequestMetricsMiddleware())

	s := &Server{seq: seq, addr: addr, router: router, start: time.Now()}
	s.registerRoutes()
	return s, nil
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler { return s.router }

// Serve runs the HTTP listener until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", s.addr).Msg("admin_listen")
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errc:
		return err
	}
}
