// Package server exposes the SnapBoard API over HTTP: account management,
// the post collection with comments and likes, image uploads, and live
// snapshot streams over SSE.
package server

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/JeongUpGi/SnapBoard/internal/auth"
	"github.com/JeongUpGi/SnapBoard/internal/config"
	"github.com/JeongUpGi/SnapBoard/internal/database"
	"github.com/JeongUpGi/SnapBoard/internal/gateway"
	"github.com/JeongUpGi/SnapBoard/internal/session"
	"github.com/JeongUpGi/SnapBoard/internal/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	cfg *config.Config

	db       database.Service
	gateway  gateway.Service
	accounts auth.Service
	sessions session.Manager
	storage  storage.Service
}

// New wires the HTTP surface. storage may be nil; upload endpoints then
// answer 503 instead of failing startup.
func New(cfg *config.Config, db database.Service, gw gateway.Service,
	accounts auth.Service, sessions session.Manager, store storage.Service) *Server {
	return &Server{
		cfg:      cfg,
		db:       db,
		gateway:  gw,
		accounts: accounts,
		sessions: sessions,
		storage:  store,
	}
}

// HTTPServer configures the net/http server around the registered routes.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
