package lobby

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/dstone/internal/models"
)

// FetchSnapshot requests the summary list of every region and platform pair,
// one request at a time, and maps all entries into snapshot rows.
// A pair that fails for any reason is logged and contributes nothing.
func (c *Client) FetchSnapshot(ctx context.Context, regions, platforms []string) []models.SimpleInfo {
	var batch []models.SimpleInfo

	for _, region := range regions {
		for _, platform := range platforms {
			entries, err := c.fetchSummary(ctx, region, platform)
			if err != nil {
				log.Warn().
					Err(err).
					Str("region", region).
					Str("platform", platform).
					Msg("Lobby summary skipped")
				continue
			}

			for _, e := range entries {
				batch = append(batch, models.NewSimpleInfo(e))
			}

			log.Debug().
				Str("region", region).
				Str("platform", platform).
				Int("rooms", len(entries)).
				Msg("Lobby summary fetched")
		}
	}

	return batch
}

func (c *Client) fetchSummary(ctx context.Context, region, platform string) ([]models.RawServerEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.summaryURL(region, platform), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	data, err := decodeResponse(resp.Body)
	if err != nil {
		return nil, err
	}

	return data.GET, nil
}

// StatusError reports a non-200 lobby answer.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.Code)
}
