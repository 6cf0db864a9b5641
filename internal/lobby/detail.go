package lobby

import (
	"bytes"
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/dstone/internal/models"
)

type readQuery struct {
	RowID string `json:"__rowId"`
}

type readRequest struct {
	Token  string    `json:"__token"`
	GameID string    `json:"__gameId"`
	Query  readQuery `json:"Query"`
}

// ReadRoom looks rowID up region by region, in the given order.
//
// The first region answering 200 ends the search even when its body holds no
// room, so the result may be empty with a nil error. Non-200 answers move on to
// the next region and ErrNotFound is returned once all are exhausted. A request
// that fails below HTTP aborts the whole lookup with ErrRetrieval.
func (c *Client) ReadRoom(ctx context.Context, regions []string, rowID string) ([]models.DetailRecord, error) {
	body, err := json.Marshal(readRequest{
		Token:  c.token,
		GameID: GameID,
		Query:  readQuery{RowID: rowID},
	})
	if err != nil {
		return nil, err
	}

	for _, region := range regions {
		url := c.roomURL(region)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			log.Error().Err(err).Str("region", region).Str("room", rowID).Msg("Lobby read failed")
			return nil, ErrRetrieval
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			log.Debug().
				Int("status", resp.StatusCode).
				Str("region", region).
				Str("room", rowID).
				Msg("Lobby read not OK, trying next region")
			continue
		}

		data, err := decodeResponse(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			log.Error().Err(err).Str("region", region).Str("room", rowID).Msg("Lobby read undecodable")
			return nil, ErrRetrieval
		}

		records := make([]models.DetailRecord, 0, len(data.GET))
		for _, e := range data.GET {
			records = append(records, newDetailRecord(e))
		}

		return records, nil
	}

	return nil, ErrNotFound
}

func newDetailRecord(e models.RawServerEntry) models.DetailRecord {
	var players []models.PlayerRecord
	if raw, ok := e["players"].(string); ok {
		parsed, err := ParsePlayers(raw)
		if err != nil {
			log.Warn().Err(err).Str("room", e.Raw("__rowId")).Msg("Failed to parse players")
		} else {
			players = parsed
		}
	}

	return models.DetailRecord{
		RowID:          e.Raw("__rowId"),
		Name:           e.Raw("name"),
		Address:        e.Raw("__addr"),
		Mode:           e.Raw("mode"),
		Season:         e.Raw("season"),
		Connected:      e.Raw("connected"),
		MaxConnections: e.Raw("maxconnections"),
		Platform:       e.Raw("platform"),
		Dedicated:      e.Bool("dedicated"),
		Players:        players,
		Mods:           e.List("mods_info"),
	}
}
