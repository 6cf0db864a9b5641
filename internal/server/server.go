// Package server exposes the chat command webhook and the admin API over HTTP.
package server

import (
	"net/http"

	"github.com/woozymasta/dstone/internal/bot"
	"github.com/woozymasta/dstone/internal/config"
	"github.com/woozymasta/dstone/internal/poller"
	"github.com/woozymasta/dstone/internal/storage"
)

// New creates a Server from its collaborators and configuration.
func New(store *storage.Repository, dispatcher *bot.Dispatcher, syncer *poller.Syncer, cfg *config.Config) *Server {
	return &Server{
		storage:    store,
		bot:        dispatcher,
		syncer:     syncer,
		authToken:  cfg.Server.AuthToken,
		maxBody:    cfg.Server.MaxBody,
		trustProxy: cfg.Server.TrustProxy,
		rateCount:  cfg.RateLimit.Count,
		rateWindow: cfg.RateLimit.Window,
		shutdown:   make(chan struct{}),
	}
}

// Close stops background housekeeping goroutines. It is safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.shutdown) })
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/command", s.RateLimitMiddleware(http.HandlerFunc(s.handleCommand)))
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.authToken != "" {
		mux.Handle("GET /api/rooms", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleRooms)))
		mux.Handle("GET /api/room", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleRoomDetail)))
		mux.Handle("PATCH /api/room", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleUpdateRoom)))
		mux.Handle("DELETE /api/room", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleDeleteRoom)))
		mux.Handle("POST /api/refresh", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleRefresh)))
	}

	return s.LoggingMiddleware(mux)
}
