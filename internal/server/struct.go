package server

import (
	"sync"
	"time"

	"github.com/woozymasta/dstone/internal/bot"
	"github.com/woozymasta/dstone/internal/poller"
	"github.com/woozymasta/dstone/internal/storage"
)

// Server holds the dependencies and settings of the HTTP surface.
type Server struct {
	// storage is the snapshot table behind the admin endpoints.
	storage *storage.Repository

	// bot answers chat commands posted to /api/command.
	bot *bot.Dispatcher

	// syncer runs an on-demand lobby poll for /api/refresh.
	syncer *poller.Syncer

	// shutdown stops background housekeeping such as the limiter cleanup.
	shutdown  chan struct{}
	closeOnce sync.Once

	// authToken protects the admin endpoints, which are not registered when empty.
	authToken string

	// maxBody caps request bodies in bytes.
	maxBody int64

	// rateCount commands are allowed per client IP within rateWindow.
	rateCount  int
	rateWindow time.Duration

	// trustProxy enables CF-Connecting-IP and X-Forwarded-For for client IPs.
	trustProxy bool
}

// commandRequest is the payload a chat framework posts for one message.
type commandRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}
