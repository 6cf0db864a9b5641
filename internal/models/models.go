// Package models defines the lobby payloads and the records persisted or rendered from them.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// NotAvailable replaces any missing or falsy summary value.
const NotAvailable = "N/A"

// LobbyResponse is the envelope returned by both lobby endpoints.
type LobbyResponse struct {
	GET []RawServerEntry `json:"GET"`
}

// RawServerEntry is one room object as sent by the lobby.
// Numbers are kept as json.Number so their literal text survives mapping.
type RawServerEntry map[string]any

// Text returns the value of key as text, or NotAvailable when the value is
// missing, null, an empty string, zero or false.
func (e RawServerEntry) Text(key string) string {
	if s, ok := e.textValue(key); ok {
		return s
	}

	return NotAvailable
}

// Raw returns the value of key as text without the N/A substitution.
// Missing values render as an empty string.
func (e RawServerEntry) Raw(key string) string {
	switch v := e[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// Bool reports whether key holds a true boolean.
func (e RawServerEntry) Bool(key string) bool {
	b, _ := e[key].(bool)
	return b
}

// List returns key as a slice, nil when it is absent or not an array.
func (e RawServerEntry) List(key string) []any {
	l, _ := e[key].([]any)
	return l
}

func (e RawServerEntry) textValue(key string) (string, bool) {
	switch v := e[key].(type) {
	case string:
		return v, v != ""
	case json.Number:
		f, err := v.Float64()
		if err == nil && f == 0 {
			return "", false
		}
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), v != 0
	case bool:
		return "true", v
	case fmt.Stringer:
		n := json.Number(v.String())
		if f, err := n.Float64(); err == nil && f == 0 {
			return "", false
		}
		return n.String(), true
	default:
		return "", false
	}
}

// SimpleInfo is one snapshot row, refreshed by every poll and keyed by RowID.
// Counts are text at this layer, they hold NotAvailable when the lobby omitted them.
type SimpleInfo struct {
	Name           string `json:"name"`
	Mode           string `json:"mode"`
	RowID          string `json:"rowId"`
	Season         string `json:"season"`
	MaxConnections string `json:"maxconnections"`
	Connected      string `json:"connected"`
	Version        string `json:"version"`
	Platform       string `json:"platform"`
	ID             uint64 `json:"id"`
}

// NewSimpleInfo maps a summary entry to a snapshot row.
func NewSimpleInfo(e RawServerEntry) SimpleInfo {
	return SimpleInfo{
		Name:           e.Text("name"),
		Mode:           e.Text("intent"),
		RowID:          e.Text("__rowId"),
		Season:         e.Text("season"),
		MaxConnections: e.Text("maxconnections"),
		Connected:      e.Text("connected"),
		Version:        e.Text("v"),
		Platform:       e.Text("platform"),
	}
}

// PlayerRecord is one player parsed from a room's players string.
type PlayerRecord struct {
	Colour     string `json:"colour"`
	Name       string `json:"name"`
	NetID      string `json:"netid"`
	Prefab     string `json:"prefab"`
	EventLevel int    `json:"eventlevel"`
}

// DetailRecord is a room as returned by the read endpoint, enriched with parsed players.
// It is built per request and never stored.
type DetailRecord struct {
	RowID          string         `json:"id"`
	Name           string         `json:"name"`
	Address        string         `json:"address"`
	Mode           string         `json:"mode"`
	Season         string         `json:"season"`
	Connected      string         `json:"connected"`
	MaxConnections string         `json:"maxconnections"`
	Platform       string         `json:"platform"`
	Players        []PlayerRecord `json:"players"`
	Mods           []any          `json:"mods_info"`
	Dedicated      bool           `json:"dedicated"`
}
