// Package poller keeps the snapshot table in sync with the lobby on a fixed interval.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/dstone/internal/models"
)

// SnapshotSource fetches the current lobby summary rows.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context, regions, platforms []string) []models.SimpleInfo
}

// SnapshotWriter persists a batch of snapshot rows keyed by room.
type SnapshotWriter interface {
	UpsertSimpleInfo(ctx context.Context, rows []models.SimpleInfo) error
}

// Syncer runs one fetch and upsert cycle.
type Syncer struct {
	source    SnapshotSource
	store     SnapshotWriter
	regions   []string
	platforms []string
}

// NewSyncer creates a Syncer polling every region and platform pair.
func NewSyncer(source SnapshotSource, store SnapshotWriter, regions, platforms []string) *Syncer {
	return &Syncer{
		source:    source,
		store:     store,
		regions:   regions,
		platforms: platforms,
	}
}

// Sync fetches all pairs and upserts the combined batch once.
// Failed pairs never fail the sync, only the upsert can.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	cycle := uuid.NewString()
	start := time.Now()

	batch := s.source.FetchSnapshot(ctx, s.regions, s.platforms)
	if len(batch) == 0 {
		log.Info().Str("cycle", cycle).Msg("Lobby poll returned no rooms")
		return 0, nil
	}

	if err := s.store.UpsertSimpleInfo(ctx, batch); err != nil {
		return len(batch), fmt.Errorf("store snapshot: %w", err)
	}

	log.Info().
		Str("cycle", cycle).
		Int("rooms", len(batch)).
		Dur("duration", time.Since(start)).
		Msg("Lobby snapshot stored")

	return len(batch), nil
}

// Poller owns the periodic sync loop.
type Poller struct {
	syncer   *Syncer
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
	interval time.Duration
	onStart  bool
}

// New creates a Poller syncing every interval. With onStart the first sync
// runs right after Start instead of one interval later.
func New(syncer *Syncer, interval time.Duration, onStart bool) *Poller {
	return &Poller{
		syncer:   syncer,
		interval: interval,
		onStart:  onStart,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop in its own goroutine. It must be called once.
func (p *Poller) Start() {
	go p.loop()

	log.Info().Dur("interval", p.interval).Msg("Lobby poller started")
}

// Stop cancels future syncs and returns immediately. A sync already running
// is left to finish; use Wait to block until it has.
func (p *Poller) Stop() {
	p.once.Do(func() { close(p.stop) })
}

// Wait blocks until the loop has exited after Stop or ctx is done.
// A sync stuck on a lobby call without deadline keeps the loop alive, so
// callers shutting down should pass a bounded ctx.
func (p *Poller) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) loop() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if p.onStart {
		p.run()
	}

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			// a tick may race with Stop, stop wins
			select {
			case <-p.stop:
				return
			default:
			}
			p.run()
		}
	}
}

// run syncs on a background context so Stop does not cut a request short.
func (p *Poller) run() {
	if _, err := p.syncer.Sync(context.Background()); err != nil {
		log.Error().Err(err).Msg("Lobby poll failed")
	}
}
