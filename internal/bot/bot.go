// Package bot binds the chat commands and their aliases to snapshot search and
// room detail lookups. Every outcome, failures included, is a plain text reply.
package bot

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/dstone/internal/config"
	"github.com/woozymasta/dstone/internal/lobby"
	"github.com/woozymasta/dstone/internal/models"
	"github.com/woozymasta/dstone/internal/report"
	"github.com/woozymasta/dstone/internal/storage"
)

// Command names, always accepted besides the configured aliases.
const (
	SearchCommand = "s-simple"
	DetailCommand = "s-detail"
)

// Replies sent instead of results.
const (
	NoMatch          = "未找到匹配的结果"
	RetrievalFailed  = "获取详细信息失败"
	QueryFirst       = "请先查询再选择！"
	PermissionDenied = "权限不足。"
)

// SnapshotQuerier searches the snapshot table.
type SnapshotQuerier interface {
	QuerySimpleInfo(ctx context.Context, filter storage.Filter, limit int) ([]models.SimpleInfo, error)
}

// RoomReader fetches live room details from the lobby.
type RoomReader interface {
	ReadRoom(ctx context.Context, regions []string, rowID string) ([]models.DetailRecord, error)
}

// Session is one incoming chat message.
type Session struct {
	UserID    string
	Text      string
	Authority int
}

type command struct {
	action    func(ctx context.Context, arg string) string
	name      string
	aliases   []string
	authority int
}

// Dispatcher routes chat messages to commands.
type Dispatcher struct {
	store      SnapshotQuerier
	rooms      RoomReader
	renderer   *report.Renderer
	operators  *Operators
	regions    []string
	commands   []command
	maxResults int
	userLevel  int
}

// New creates a Dispatcher with the search and detail commands registered.
func New(cfg config.Bot, regions []string, store SnapshotQuerier, rooms RoomReader, renderer *report.Renderer) *Dispatcher {
	d := &Dispatcher{
		store:      store,
		rooms:      rooms,
		renderer:   renderer,
		operators:  NewOperators(cfg.Operators),
		regions:    regions,
		maxResults: cfg.MaxResults,
		userLevel:  cfg.UserAuthority,
	}

	d.commands = []command{
		{name: SearchCommand, aliases: sortAliases(cfg.SearchAliases), authority: cfg.Authority, action: d.Search},
		{name: DetailCommand, aliases: sortAliases(cfg.DetailAliases), authority: cfg.Authority, action: d.Detail},
	}

	return d
}

// AuthorityOf returns the authority level of a chat user.
func (d *Dispatcher) AuthorityOf(userID string) int {
	if d.operators.Contains(userID) {
		return OperatorAuthority
	}
	return d.userLevel
}

// Handle runs the command addressed by s.Text. The second result is false when
// the message is not a command and should be ignored.
func (d *Dispatcher) Handle(ctx context.Context, s Session) (string, bool) {
	text := strings.TrimSpace(s.Text)

	for _, cmd := range d.commands {
		arg, ok := cmd.match(text)
		if !ok {
			continue
		}

		if s.Authority < cmd.authority {
			log.Debug().
				Str("user", s.UserID).
				Str("command", cmd.name).
				Int("authority", s.Authority).
				Msg("Command denied")
			return PermissionDenied, true
		}

		log.Debug().
			Str("user", s.UserID).
			Str("command", cmd.name).
			Str("arg", arg).
			Msg("Command received")

		return cmd.action(ctx, arg), true
	}

	return "", false
}

// Search lists the rooms whose name contains name. An empty name lists every room.
func (d *Dispatcher) Search(ctx context.Context, name string) string {
	rows, err := d.store.QuerySimpleInfo(ctx, storage.Filter{"name": name}, d.maxResults)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to query snapshot")
		rows = nil
	}

	if len(rows) == 0 {
		return NoMatch
	}

	return report.Summary(rows)
}

// Detail renders the live report of one room.
func (d *Dispatcher) Detail(ctx context.Context, rowID string) string {
	if rowID == "" {
		return QueryFirst
	}

	records, err := d.rooms.ReadRoom(ctx, d.regions, rowID)
	switch {
	case errors.Is(err, lobby.ErrNotFound):
		return NoMatch
	case err != nil:
		return RetrievalFailed
	}

	return d.renderer.Detail(records)
}

// match reports whether text invokes the command and returns its argument.
func (c command) match(text string) (string, bool) {
	if arg, ok := cutPrefix(text, c.name, true); ok {
		return arg, true
	}

	for _, alias := range c.aliases {
		if arg, ok := cutPrefix(text, alias, !endsWithPunct(alias)); ok {
			return arg, true
		}
	}

	return "", false
}

// cutPrefix strips prefix from text. With boundary the prefix must be followed
// by whitespace or the end of text, so "s-simplex" is not "s-simple".
func cutPrefix(text, prefix string, boundary bool) (string, bool) {
	if prefix == "" {
		return "", false
	}

	rest, ok := strings.CutPrefix(text, prefix)
	if !ok {
		return "", false
	}

	if boundary && rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(r) {
			return "", false
		}
	}

	return strings.TrimSpace(rest), true
}

func endsWithPunct(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// sortAliases orders aliases longest first so ".." wins over ".".
func sortAliases(aliases []string) []string {
	out := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })

	return out
}
