package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
)

// Server binds the hub to a TCP address
type Server struct {
	hub      *Hub
	config   *Config
	http     *http.Server
	listener net.Listener

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewServer creates a server for hub, nothing is bound until Start
func NewServer(hub *Hub) *Server {
	return &Server{
		hub:    hub,
		config: hub.config,
		http: &http.Server{
			Handler:      hub.Handler(),
			ReadTimeout:  hub.config.ReadDeadline,
			WriteTimeout: hub.config.WriteTimeout,
		},
	}
}

// Start binds and serves in the background
func (s *Server) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("listen %s: %w", s.config.Address, err)
	}
	s.listener = ln
	log.Printf("[NET] serving viewers on http://%s/", ln.Addr())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[NET] serve: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address, empty before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the HTTP server down and disconnects viewers
// Upgraded connections are hijacked, so the hub closes them itself
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.hub.Close()
	err := s.http.Shutdown(ctx)
	s.wg.Wait()
	return err
}
