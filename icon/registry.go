package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Mark
	Link
	Search
	Play
	Pause
	Buffer
	Fallback
	Capture
	Download
	Embed
	Lock
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "OK",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "👨‍💻",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・_・)…",
		squares: "🟦",
	},
	Mark: {
		emoji:   "➜",
		nerd:    "",
		plain:   ">",
		kaomoji: "→",
		squares: "▸",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "@",
		kaomoji: "(っ˘ڡ˘ς)",
		squares: "🟪",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・・ )?",
		squares: "🟨",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ノ^_^)ノ",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(－_－) zzZ",
		squares: "🟨",
	},
	Buffer: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "~",
		kaomoji: "(´・ω・`)",
		squares: "🟦",
	},
	Fallback: {
		emoji:   "📡",
		nerd:    "",
		plain:   "=>",
		kaomoji: "(￣ー￣)ゞ",
		squares: "🟧",
	},
	Capture: {
		emoji:   "📸",
		nerd:    "",
		plain:   "[o]",
		kaomoji: "(๑•̀ㅂ•́)و📷",
		squares: "🟪",
	},
	Download: {
		emoji:   "💾",
		nerd:    "",
		plain:   "v",
		kaomoji: "(っ•́｡•́)♪",
		squares: "🟫",
	},
	Embed: {
		emoji:   "🌐",
		nerd:    "",
		plain:   "www",
		kaomoji: "(◕‿◕)🌐",
		squares: "⬜",
	},
	Lock: {
		emoji:   "🔒",
		nerd:    "",
		plain:   "!",
		kaomoji: "(ಠ_ಠ)",
		squares: "🟥",
	},
}
