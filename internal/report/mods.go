package report

import (
	"fmt"
	"strconv"
)

// modFields is the width of one mod in the flat mods_info list:
// id, name, version, an unused field and the enabled flag.
const modFields = 5

// FormatMods renders one numbered line per mod, showing its name.
// A trailing partial group still gets a line, with an empty name when missing.
func FormatMods(mods []any) []string {
	lines := make([]string, 0, (len(mods)+modFields-1)/modFields)

	for i, n := 0, 1; i < len(mods); i, n = i+modFields, n+1 {
		name := ""
		if i+1 < len(mods) {
			name = text(mods[i+1])
		}
		lines = append(lines, strconv.Itoa(n)+". 名称: "+name)
	}

	return lines
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
