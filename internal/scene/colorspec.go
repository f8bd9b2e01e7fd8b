package scene

import (
	"image/color"

	"mol2d/pkg/colorutil"
)

// ColorMode selects a coloring scheme for positions without an explicit
// literal color.
type ColorMode int

const (
	// ColorAuto picks confidence coloring when scores are present and
	// falls back to chain coloring otherwise.
	ColorAuto ColorMode = iota
	ColorByChain
	ColorByConfidence
	ColorRainbow
)

// ParseColorMode maps a mode name to a ColorMode; unknown names fall back
// to auto.
func ParseColorMode(name string) ColorMode {
	switch name {
	case "chain":
		return ColorByChain
	case "plddt", "confidence":
		return ColorByConfidence
	case "rainbow":
		return ColorRainbow
	default:
		return ColorAuto
	}
}

// Name returns the canonical mode name.
func (m ColorMode) Name() string {
	switch m {
	case ColorByChain:
		return "chain"
	case ColorByConfidence:
		return "plddt"
	case ColorRainbow:
		return "rainbow"
	default:
		return "auto"
	}
}

// ColorValue is either a scheme or a single literal color.
type ColorValue struct {
	Mode    ColorMode
	Literal *color.RGBA
}

// ModeValue makes a scheme-valued ColorValue.
func ModeValue(m ColorMode) ColorValue {
	return ColorValue{Mode: m}
}

// LiteralValue makes a literal ColorValue.
func LiteralValue(c color.RGBA) ColorValue {
	return ColorValue{Literal: &c}
}

// ParseColorValue interprets a string as either a mode name or a literal
// color specification.
func ParseColorValue(s string) (ColorValue, error) {
	switch s {
	case "auto", "chain", "plddt", "confidence", "rainbow":
		return ModeValue(ParseColorMode(s)), nil
	}
	c, err := colorutil.Parse(s)
	if err != nil {
		return ColorValue{}, err
	}
	return LiteralValue(c), nil
}

// ColorOverrides holds the override layers of one Object. Resolution
// priority is position > chain > frame > object > global default.
type ColorOverrides struct {
	Positions map[int]color.RGBA
	Chains    map[string]color.RGBA
	Frames    map[int]ColorValue
	Object    *ColorValue
}

// NewColorOverrides returns an empty override set.
func NewColorOverrides() ColorOverrides {
	return ColorOverrides{
		Positions: make(map[int]color.RGBA),
		Chains:    make(map[string]color.RGBA),
		Frames:    make(map[int]ColorValue),
	}
}

// SetPosition overrides the color of one position.
func (o *ColorOverrides) SetPosition(i int, c color.RGBA) {
	o.Positions[i] = c
}

// SetChain overrides the color of every position in a chain.
func (o *ColorOverrides) SetChain(chain string, c color.RGBA) {
	o.Chains[chain] = c
}

// SetFrame overrides the color value used while a given frame is active.
func (o *ColorOverrides) SetFrame(frame int, v ColorValue) {
	o.Frames[frame] = v
}

// SetObject overrides the object-level color value.
func (o *ColorOverrides) SetObject(v ColorValue) {
	o.Object = &v
}
