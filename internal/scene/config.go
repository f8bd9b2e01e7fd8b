package scene

// Config is the viewer configuration, grouped the way the state file
// stores it.
type Config struct {
	Display   DisplayConfig   `json:"display"`
	Rendering RenderingConfig `json:"rendering"`
	Color     ColorConfig     `json:"color"`
	PAE       PAEConfig       `json:"pae"`
}

// DisplayConfig controls the drawing surface and playback.
type DisplayConfig struct {
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Controls bool `json:"controls"`
	Box      bool `json:"box"`
	Autoplay bool `json:"autoplay"`
	Spin     bool `json:"spin"`
	// Overlay draws every frame of an object simultaneously instead of
	// only the active one.
	Overlay bool `json:"overlay"`
}

// OutlineMode selects the outline pass behavior of the compositor.
type OutlineMode int

const (
	OutlineNone OutlineMode = iota
	OutlinePartial
	OutlineFull
)

// ParseOutlineMode maps an outline mode name; unknown names mean full.
func ParseOutlineMode(name string) OutlineMode {
	switch name {
	case "none":
		return OutlineNone
	case "partial":
		return OutlinePartial
	default:
		return OutlineFull
	}
}

// Name returns the canonical outline mode name.
func (m OutlineMode) Name() string {
	switch m {
	case OutlineNone:
		return "none"
	case OutlinePartial:
		return "partial"
	default:
		return "full"
	}
}

// RenderingConfig controls the render pipeline.
type RenderingConfig struct {
	Shadow         bool        `json:"shadow"`
	ShadowStrength float64     `json:"shadow_strength"`
	Outline        OutlineMode `json:"-"`
	OutlineName    string      `json:"outline"`
	LineWidth      float64     `json:"width"`
	Ortho          float64     `json:"ortho"`
	// CullThreshold is the position count above which per-cell segment
	// culling kicks in. CullKeep is the number of nearest segments
	// retained per grid cell.
	CullThreshold int `json:"cull_threshold"`
	CullKeep      int `json:"cull_keep"`
}

// ColorConfig controls the global coloring defaults.
type ColorConfig struct {
	Mode       ColorMode `json:"-"`
	ModeName   string    `json:"mode"`
	Colorblind bool      `json:"colorblind"`
}

// PAEConfig controls the pairwise-confidence panel.
type PAEConfig struct {
	Enabled bool `json:"enabled"`
	Size    int  `json:"size"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			Width:    400,
			Height:   400,
			Controls: true,
			Box:      true,
		},
		Rendering: RenderingConfig{
			Shadow:         true,
			ShadowStrength: 0.5,
			Outline:        OutlineFull,
			OutlineName:    "full",
			LineWidth:      3.0,
			Ortho:          1.0,
			CullThreshold:  2000,
			CullKeep:       4,
		},
		Color: ColorConfig{
			Mode:     ColorAuto,
			ModeName: "auto",
		},
		PAE: PAEConfig{
			Size: 300,
		},
	}
}

// Normalize re-derives the enum fields from their serialized names and
// clamps out-of-range numeric settings. Called after loading a state file.
func (c *Config) Normalize() {
	c.Rendering.Outline = ParseOutlineMode(c.Rendering.OutlineName)
	c.Color.Mode = ParseColorMode(c.Color.ModeName)
	if c.Rendering.Ortho < 0 {
		c.Rendering.Ortho = 0
	}
	if c.Rendering.Ortho > 1 {
		c.Rendering.Ortho = 1
	}
	if c.Rendering.LineWidth <= 0 {
		c.Rendering.LineWidth = 3.0
	}
	if c.Rendering.CullThreshold <= 0 {
		c.Rendering.CullThreshold = 2000
	}
	if c.Rendering.CullKeep <= 0 {
		c.Rendering.CullKeep = 4
	}
	if c.Display.Width <= 0 {
		c.Display.Width = 400
	}
	if c.Display.Height <= 0 {
		c.Display.Height = 400
	}
}

// Sync writes the enum fields back to their serialized names. Called
// before saving a state file.
func (c *Config) Sync() {
	c.Rendering.OutlineName = c.Rendering.Outline.Name()
	c.Color.ModeName = c.Color.Mode.Name()
}
