package icon

// Icon identifies a symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Info
	Link
	Mark
	Lock
	Shield
	Relay
)

var icons = map[Icon]*iconDef{
	Success:  {emoji: "✅", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Fail:     {emoji: "❌", nerd: "", plain: "✗", kaomoji: "(╯°□°)╯", squares: "🟥"},
	Progress: {emoji: "⏳", nerd: "", plain: "…", kaomoji: "(・_・ヾ", squares: "🟦"},
	Info:     {emoji: "ℹ️", nerd: "", plain: "i", kaomoji: "(・・?)", squares: "🟨"},
	Link:     {emoji: "🔗", nerd: "", plain: "~", kaomoji: "(￣▽￣)ノ", squares: "🟪"},
	Mark:     {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(❁´◡`❁)", squares: "🟧"},
	Lock:     {emoji: "🔑", nerd: "", plain: "*", kaomoji: "(¬‿¬)", squares: "⬛"},
	Shield:   {emoji: "🛡️", nerd: "", plain: "#", kaomoji: "(•̀ᴗ•́)و", squares: "🟫"},
	Relay:    {emoji: "📥", nerd: "", plain: "↓", kaomoji: "(っ˘ω˘ς)", squares: "⬜"},
}
