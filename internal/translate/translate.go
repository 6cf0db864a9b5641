// Package translate maps lobby codes to display labels.
// Every lookup is an exact match and returns its input unchanged on a miss.
package translate

// LocalServer is the label shown instead of the loopback address.
const LocalServer = "本地服务器"

const loopback = "127.0.0.1"

var modes = map[string]string{
	"endless":      "无尽",
	"survival":     "生存",
	"wilderness":   "荒野",
	"relaxed":      "放松",
	"oceanfishing": "海钓",
}

var seasons = map[string]string{
	"spring": "春天",
	"summer": "夏天",
	"autumn": "秋天",
	"winter": "冬天",
}

var platforms = map[string]string{
	"1":  "Steam",
	"2":  "PlayStation",
	"4":  "WeGame",
	"19": "XBone",
	"32": "Switch",
}

var prefabs = map[string]string{
	"wilson":         "威尔逊",
	"willow":         "薇洛",
	"wolfgang":       "沃尔夫冈",
	"wendy":          "温蒂",
	"wickerbottom":   "薇克巴顿",
	"woodie":         "伍迪",
	"wes":            "韦斯",
	"waxwell":        "麦斯威尔",
	"wathgrithr":     "薇格弗德",
	"webber":         "韦伯",
	"winona":         "薇诺娜",
	"warly":          "沃利",
	"walter":         "沃尔特",
	"wortox":         "沃拓克斯",
	"wormwood":       "沃姆伍德",
	"wurt":           "沃特",
	"wanda":          "旺达",
	"wonkey":         "芜猴",
	"lg_fanglingche": "[海洋传说]方灵澈",
	"lg_lilingyi":    "[海洋传说]李令仪",
	"musha":          "[精灵公主]穆莎",
}

// Mode translates a game mode code such as "survival".
func Mode(code string) string { return lookup(modes, code) }

// Season translates a season code such as "autumn".
func Season(code string) string { return lookup(seasons, code) }

// Platform translates a numeric platform code given as text, e.g. "1" for Steam.
func Platform(code string) string { return lookup(platforms, code) }

// Prefab translates a character prefab code.
func Prefab(code string) string { return lookup(prefabs, code) }

// Address returns LocalServer for the loopback address and addr otherwise.
func Address(addr string) string {
	if addr == loopback {
		return LocalServer
	}
	return addr
}

func lookup(table map[string]string, code string) string {
	if label, ok := table[code]; ok {
		return label
	}
	return code
}
