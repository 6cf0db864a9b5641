// Package fake provides utilities for generating random lobby snapshot rows for testing and development purposes.
package fake

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/dstone/internal/models"
)

// Writer stores a batch of snapshot rows.
type Writer interface {
	UpsertSimpleInfo(ctx context.Context, rows []models.SimpleInfo) error
}

// Rooms builds count randomized snapshot rows.
// It simulates room names, game modes, seasons, platforms and player counts,
// and leaves some fields N/A the way the lobby does for falsy values.
func Rooms(count int) []models.SimpleInfo {
	modes := []string{"survival", "endless", "wilderness", "lavaarena", "quagmire", "relaxed"}
	seasons := []string{"autumn", "winter", "spring", "summer"}
	platforms := []string{"1", "4", "19", "32"}
	tags := []string{"萌新", "永不回档", "PvP", "Friendly", "老玩家", "Modded"}
	maxConns := []int{6, 8, 12, 16, 32, 64}

	rows := make([]models.SimpleInfo, 0, count)
	for i := 0; i < count; i++ {
		maxConn := maxConns[rand.Intn(len(maxConns))]

		row := models.SimpleInfo{
			Name:           fmt.Sprintf("DST Room #%d [%s]", rand.Intn(10000), tags[rand.Intn(len(tags))]),
			Mode:           modes[rand.Intn(len(modes))],
			RowID:          "KU_" + uuid.NewString()[:8],
			Season:         seasons[rand.Intn(len(seasons))],
			MaxConnections: strconv.Itoa(maxConn),
			Connected:      strconv.Itoa(rand.Intn(maxConn + 1)),
			Version:        strconv.Itoa(600000 + rand.Intn(2000)),
			Platform:       platforms[rand.Intn(len(platforms))],
		}

		// empty rooms report connected=0, which the lobby mapping turns into N/A
		if row.Connected == "0" {
			row.Connected = models.NotAvailable
		}
		if rand.Float32() < 0.05 { // 5% chance unnamed
			row.Name = models.NotAvailable
		}

		rows = append(rows, row)
	}

	return rows
}

// GenerateData populates the storage with count randomized snapshot rows.
func GenerateData(ctx context.Context, store Writer, count int) {
	if err := store.UpsertSimpleInfo(ctx, Rooms(count)); err != nil {
		log.Warn().Err(err).Msg("Failed to generate fake rooms")
		return
	}

	log.Info().Int("count", count).Msg("Fake rooms generated")
}
