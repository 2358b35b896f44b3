package config

var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"⚔️ Clans":       20,
	"⚙️ Settings":    50,
}

// AppName is shown in help and logs.
const AppName = "Clan Taunt"
