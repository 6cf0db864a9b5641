// Package report renders snapshot rows and room details as chat text.
package report

import (
	"strconv"
	"strings"

	"github.com/woozymasta/dstone/internal/models"
	"github.com/woozymasta/dstone/internal/translate"
)

// CountryLookup resolves an IP address to an ISO country code, "" when unknown.
type CountryLookup interface {
	GetCountryCode(ip string) string
}

// Renderer formats lobby data. The zero value renders without country codes.
type Renderer struct {
	geo CountryLookup
}

// New returns a Renderer, geo may be nil.
func New(geo CountryLookup) *Renderer {
	return &Renderer{geo: geo}
}

// Detail renders every record and separates them with a blank line.
// No records render as an empty string.
func (r *Renderer) Detail(records []models.DetailRecord) string {
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		parts = append(parts, r.detail(rec))
	}

	return strings.Join(parts, "\n\n")
}

func (r *Renderer) detail(d models.DetailRecord) string {
	var b strings.Builder

	b.WriteString("房间名: " + d.Name + "\n")
	b.WriteString("服务器地址: " + r.address(d.Address) + "\n")
	b.WriteString("模式: " + translate.Mode(d.Mode) + "\n")
	b.WriteString("季节: " + translate.Season(d.Season) + "\n")
	b.WriteString("当前在线玩家数: " + d.Connected + "/" + d.MaxConnections + "\n")
	b.WriteString("平台: " + translate.Platform(d.Platform) + "\n")
	b.WriteString("是否专用服务器: " + strconv.FormatBool(d.Dedicated) + "\n")
	b.WriteString("玩家信息: \n" + strings.Join(FormatPlayers(d.Players), "\n") + "\n")
	b.WriteString("MOD信息: \n" + strings.Join(FormatMods(d.Mods), "\n"))

	return b.String()
}

func (r *Renderer) address(addr string) string {
	label := translate.Address(addr)
	if r.geo == nil || label != addr || addr == "" {
		return label
	}

	if cc := r.geo.GetCountryCode(addr); cc != "" {
		return label + " (" + cc + ")"
	}

	return label
}

// FormatPlayers renders one numbered line per player with the translated character.
func FormatPlayers(players []models.PlayerRecord) []string {
	lines := make([]string, 0, len(players))
	for i, p := range players {
		lines = append(lines, strconv.Itoa(i+1)+". "+p.Name+" ("+translate.Prefab(p.Prefab)+")")
	}

	return lines
}

// Summary renders search results, one block of four lines per room.
func Summary(rows []models.SimpleInfo) string {
	blocks := make([]string, 0, len(rows))
	for _, s := range rows {
		blocks = append(blocks,
			"服务器名称: "+s.Name+",\n"+
				"模式: "+translate.Mode(s.Mode)+",\n"+
				"连接数: "+strconv.Itoa(countOrZero(s.Connected))+"/"+s.MaxConnections+",\n"+
				"服务器ID: "+s.RowID)
	}

	return strings.Join(blocks, "\n")
}

// countOrZero reads a stored count, treating N/A and other non-numbers as 0.
func countOrZero(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
