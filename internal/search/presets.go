package search

// Preset names a convenient max_depth for Driver construction. This is pure
// sugar over New's maxDepth argument — it introduces no additional search
// semantics and carries no time budget (depth is the only budget control the
// driver recognizes).
type Preset struct {
	Name     string
	MaxDepth int
}

var (
	Easy     = Preset{Name: "easy", MaxDepth: 2}
	Standard = Preset{Name: "standard", MaxDepth: 4}
	Thorough = Preset{Name: "thorough", MaxDepth: 6}
)

// Presets lists the built-in presets in increasing order of search depth.
func Presets() []Preset {
	return []Preset{Easy, Standard, Thorough}
}
