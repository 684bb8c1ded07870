package config

// CategoryWeights orders command categories in help output.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🎵 Music":        10,
	"🔊 Soundpad":     20,
	"🗣️ Speech":      30,
	"⚙️ Settings":    50,
	"🛠️ Developer":   90,
}
