// Package api exposes the shop economy over HTTP
// Reads are public; purchases and reset require a bearer token when a secret is configured
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lixenwraith/bunny-coffee/engine"
	"github.com/lixenwraith/bunny-coffee/status"
)

// Shop is the world surface the handlers drive
type Shop interface {
	Offers() engine.Offers
	Snapshot() engine.Snapshot
	HireEmployee() error
	BuyAppliance() error
	LevelUpNextAppliance() error
	LevelUpAppliance(index int) error
	BuyDecoration() error
}

// Options configures the server
type Options struct {
	Addr      string
	JWTSecret string
	// Reset is invoked by POST /v1/reset; nil disables the route
	Reset func()
}

// Server is the echo application plus its lifecycle
type Server struct {
	opts     Options
	shop     Shop
	registry *status.Registry
	echo     *echo.Echo

	mu      sync.Mutex
	running bool
	done    chan error
}

// NewServer registers every route on a fresh echo instance
func NewServer(opts Options, shop Shop, reg *status.Registry) *Server {
	if reg == nil {
		reg = status.NewRegistry()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{opts: opts, shop: shop, registry: reg, echo: e}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/healthz", health)

	v1 := e.Group("/v1")
	v1.GET("/economy", s.economy)
	v1.GET("/world", s.world)
	v1.GET("/status", s.status)

	var guard []echo.MiddlewareFunc
	if s.opts.JWTSecret != "" {
		guard = append(guard, JWTAuth(s.opts.JWTSecret))
	} else {
		log.Printf("api: no jwt secret configured, purchase routes are unauthenticated")
	}
	v1.POST("/employees", s.hire, guard...)
	v1.POST("/appliances", s.buyAppliance, guard...)
	v1.POST("/appliances/upgrade", s.upgradeNext, guard...)
	v1.POST("/appliances/:index/upgrade", s.upgrade, guard...)
	v1.POST("/decorations", s.buyDecoration, guard...)
	if s.opts.Reset != nil {
		v1.POST("/reset", s.reset, guard...)
	}
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Name implements service.Service
func (s *Server) Name() string { return "api" }

// Dependencies implements service.Service
func (s *Server) Dependencies() []string { return []string{"scheduler"} }

// Start listens in the background; listen errors other than a clean shutdown are logged
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.running = true
	s.done = make(chan error, 1)

	go func() {
		err := s.echo.Start(s.opts.Addr)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			log.Printf("api: listen %s: %v", s.opts.Addr, err)
		}
		s.done <- err
	}()
	log.Printf("api: listening on %s", s.opts.Addr)
	return nil
}

// Stop shuts the listener down, waiting briefly for in-flight requests
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	return <-s.done
}
