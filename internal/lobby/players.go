package lobby

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/woozymasta/dstone/internal/models"
)

// playerRe matches one entry of the Lua-table-like players string, e.g.
// {colour="FF0000", eventlevel=0, name="Wes", netid="KU_x", prefab="wes"}.
var playerRe = regexp.MustCompile(
	`\{\s*colour="([^"]+)",\s*eventlevel=(\d+),\s*name="([^"]+)",\s*netid="([^"]+)",\s*prefab="([^"]+)"\s*\}`,
)

// ParsePlayers extracts players in order of appearance. Text between entries
// is ignored and a string without entries yields an empty slice.
// On failure it returns nil and an error, callers treat it as an empty list.
func ParsePlayers(s string) ([]models.PlayerRecord, error) {
	matches := playerRe.FindAllStringSubmatch(s, -1)

	players := make([]models.PlayerRecord, 0, len(matches))
	for _, m := range matches {
		level, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("player %q eventlevel: %w", m[3], err)
		}

		players = append(players, models.PlayerRecord{
			Colour:     m[1],
			EventLevel: level,
			Name:       m[3],
			NetID:      m[4],
			Prefab:     m[5],
		})
	}

	return players, nil
}
