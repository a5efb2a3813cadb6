package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"ETFAdvisor/internal/recorder"
	"ETFAdvisor/internal/session"
	"ETFAdvisor/internal/tier"
)

// Server is the reactive web form plus its JSON API.
type Server struct {
	Router    *gin.Engine
	Sessions  *session.Manager
	Picker    session.Picker
	Registry  *tier.Registry
	Recorder  recorder.Recorder
	Listeners []session.PickListener

	// RequestTimeout bounds a single pick; zero means no limit.
	RequestTimeout time.Duration
}

// NewServer wires the routes. A nil rec serves an empty history.
func NewServer(sessions *session.Manager, picker session.Picker, registry *tier.Registry, rec recorder.Recorder, listeners ...session.PickListener) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger())
	r.SetHTMLTemplate(template.Must(template.New("index").Funcs(templateFuncs).Parse(indexHTML)))

	s := &Server{
		Router:         r,
		Sessions:       sessions,
		Picker:         picker,
		Registry:       registry,
		Recorder:       rec,
		Listeners:      listeners,
		RequestTimeout: 60 * time.Second,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.GET("/health", s.health)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.Router.GET("/", s.index)
	s.Router.POST("/pick", s.pick)
	s.Router.POST("/next", s.next)
	s.Router.POST("/reset", s.reset)

	api := s.Router.Group("/api")
	{
		api.GET("/tiers", s.apiTiers)
		api.GET("/pick", s.apiPick)
		api.GET("/history", s.apiHistory)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("web server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("web server stopped")
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.Sessions.Len()})
}

func (s *Server) pickContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.RequestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.RequestTimeout)
}
