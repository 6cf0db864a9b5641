// Package maintenance provides one-shot database tasks run from the command line.
package maintenance

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/dstone/internal/config"
	"github.com/woozymasta/dstone/internal/models"
	"github.com/woozymasta/dstone/internal/storage"
)

// Remover deletes snapshot rows matching a filter.
type Remover interface {
	RemoveSimpleInfo(ctx context.Context, filter storage.Filter) (int64, error)
}

// Refresher runs one lobby poll.
type Refresher interface {
	Sync(ctx context.Context) (int, error)
}

// Run checks if any maintenance flags are set and executes the corresponding task.
// Returns true if a maintenance task was executed (indicating the program should exit).
func Run(ctx context.Context, cfg config.Storage, store Remover, syncer Refresher) bool {
	switch {
	case cfg.Refresh:
		log.Info().Msg("Refreshing snapshot...")

		n, err := syncer.Sync(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Refresh failed")
		} else {
			log.Info().Int("rooms", n).Msg("Refresh finished")
		}

	case cfg.Remove != "":
		remove(ctx, store, storage.Filter{"rowId": cfg.Remove}, "Room removed")

	case cfg.PruneNA:
		log.Info().Msg("Pruning unnamed rooms...")
		remove(ctx, store, storage.Filter{"name": models.NotAvailable}, "Prune finished")

	default:
		return false
	}

	return true
}

func remove(ctx context.Context, store Remover, filter storage.Filter, msg string) {
	n, err := store.RemoveSimpleInfo(ctx, filter)
	if err != nil {
		log.Error().Err(err).Interface("filter", filter).Msg("Failed to remove rooms")
		return
	}

	log.Info().Int64("deleted", n).Interface("filter", filter).Msg(msg)
}
