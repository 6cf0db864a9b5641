package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/woozymasta/dstone/internal/models"
)

type fakeGeo map[string]string

func (f fakeGeo) GetCountryCode(ip string) string { return f[ip] }

func TestFormatModsFullGroups(t *testing.T) {
	mods := []any{
		"workshop-1", "Global Positions", "1.0", false, true,
		"workshop-2", "Combined Status", "2.1", false, true,
		"workshop-3", "Geometric Placement", "3.0", false, false,
	}

	got := FormatMods(mods)
	want := []string{
		"1. 名称: Global Positions",
		"2. 名称: Combined Status",
		"3. 名称: Geometric Placement",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("FormatMods = %q, want %q", got, want)
	}
}

func TestFormatModsPartialGroup(t *testing.T) {
	tests := []struct {
		name string
		mods []any
		want []string
	}{
		{"empty", nil, []string{}},
		{"id only", []any{"workshop-1"}, []string{"1. 名称: "}},
		{"name kept", []any{"a", "A", "1", false, true, "b", "B"}, []string{"1. 名称: A", "2. 名称: B"}},
		{"number name", []any{"a", json.Number("42")}, []string{"1. 名称: 42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMods(tt.mods)
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatPlayers(t *testing.T) {
	got := FormatPlayers([]models.PlayerRecord{
		{Name: "Alice", Prefab: "wilson"},
		{Name: "Bob", Prefab: "custom"},
	})

	want := []string{"1. Alice (威尔逊)", "2. Bob (custom)"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("FormatPlayers = %q, want %q", got, want)
	}
}

func TestDetail(t *testing.T) {
	rec := models.DetailRecord{
		Name:           "abc world",
		Address:        "127.0.0.1",
		Mode:           "survival",
		Season:         "autumn",
		Connected:      "1",
		MaxConnections: "6",
		Platform:       "1",
		Dedicated:      true,
		Players:        []models.PlayerRecord{{Name: "Alice", Prefab: "wilson"}},
		Mods:           []any{"workshop-1", "Global Positions", "1.0", false, true},
	}

	want := "房间名: abc world\n" +
		"服务器地址: 本地服务器\n" +
		"模式: 生存\n" +
		"季节: 秋天\n" +
		"当前在线玩家数: 1/6\n" +
		"平台: Steam\n" +
		"是否专用服务器: true\n" +
		"玩家信息: \n1. Alice (威尔逊)\n" +
		"MOD信息: \n1. 名称: Global Positions"

	if got := New(nil).Detail([]models.DetailRecord{rec}); got != want {
		t.Fatalf("Detail =\n%s\nwant\n%s", got, want)
	}
}

func TestDetailMultipleAndCountry(t *testing.T) {
	r := New(fakeGeo{"1.2.3.4": "CN"})
	recs := []models.DetailRecord{
		{
			Name:    "one",
			Address: "1.2.3.4",
			Players: []models.PlayerRecord{{Name: "Alice", Prefab: "wilson"}},
			Mods:    []any{"workshop-1", "Global Positions", "1.0", false, true},
		},
		{
			Name:    "two",
			Address: "127.0.0.1",
			Players: []models.PlayerRecord{{Name: "Bob", Prefab: "wendy"}},
			Mods:    []any{"workshop-2", "Combined Status", "2.1", false, true},
		},
	}

	got := r.Detail(recs)
	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected two blocks separated by a blank line, got %q", got)
	}
	if !strings.Contains(parts[0], "服务器地址: 1.2.3.4 (CN)") {
		t.Errorf("country code missing: %q", parts[0])
	}
	if !strings.Contains(parts[1], "服务器地址: 本地服务器\n") {
		t.Errorf("loopback not translated: %q", parts[1])
	}

	if got := r.Detail(nil); got != "" {
		t.Errorf("Detail(nil) = %q, want empty", got)
	}
}

func TestDetailEmptyListsKeepLayout(t *testing.T) {
	got := New(nil).Detail([]models.DetailRecord{
		{Name: "one", Address: "127.0.0.1"},
		{Name: "two", Address: "127.0.0.1"},
	})

	if n := strings.Count(got, "房间名: "); n != 2 {
		t.Fatalf("got %d room blocks, want 2: %q", n, got)
	}
	if !strings.Contains(got, "玩家信息: \n\nMOD信息: ") {
		t.Errorf("empty player list changed the layout: %q", got)
	}
	if !strings.Contains(got, "MOD信息: \n\n\n房间名: two") {
		t.Errorf("records not separated by a blank line: %q", got)
	}
}

func TestSummaryTreatsNotAvailableAsZero(t *testing.T) {
	got := Summary([]models.SimpleInfo{
		{Name: "abcdef", Mode: "endless", Connected: models.NotAvailable, MaxConnections: "6", RowID: "KU_1"},
		{Name: "second", Mode: "odd", Connected: "3", MaxConnections: models.NotAvailable, RowID: "KU_2"},
	})

	want := "服务器名称: abcdef,\n模式: 无尽,\n连接数: 0/6,\n服务器ID: KU_1\n" +
		"服务器名称: second,\n模式: odd,\n连接数: 3/N/A,\n服务器ID: KU_2"
	if got != want {
		t.Fatalf("Summary =\n%s\nwant\n%s", got, want)
	}
}
