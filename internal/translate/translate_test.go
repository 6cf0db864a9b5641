package translate

import "testing"

func TestKnownCodes(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"mode", Mode, "survival", "生存"},
		{"mode ocean", Mode, "oceanfishing", "海钓"},
		{"season", Season, "winter", "冬天"},
		{"platform steam", Platform, "1", "Steam"},
		{"platform wegame", Platform, "4", "WeGame"},
		{"platform switch", Platform, "32", "Switch"},
		{"prefab", Prefab, "wilson", "威尔逊"},
		{"prefab mod", Prefab, "musha", "[精灵公主]穆莎"},
		{"address loopback", Address, "127.0.0.1", LocalServer},
	}

	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("%s(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestIdentityFallback(t *testing.T) {
	fns := map[string]func(string) string{
		"mode":     Mode,
		"season":   Season,
		"platform": Platform,
		"prefab":   Prefab,
		"address":  Address,
	}
	inputs := []string{"", "unknown", "7", "Survival", "127.0.0.2", "N/A"}

	for name, fn := range fns {
		for _, in := range inputs {
			if got := fn(in); got != in {
				t.Errorf("%s(%q) = %q, want input unchanged", name, in, got)
			}
		}
	}
}
