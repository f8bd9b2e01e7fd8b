// Package scene provides the owning data model: Scene, Object, Frame and
// Position, plus the persistent viewer transform and color overrides.
package scene

import (
	"mol2d/pkg/geometry"
)

// PositionType classifies a drawable position.
type PositionType int

const (
	TypeProtein PositionType = iota
	TypeDNA
	TypeRNA
	TypeLigand
)

// ParsePositionType maps the one-letter wire codes to a PositionType.
// Unknown codes default to protein.
func ParsePositionType(code string) PositionType {
	switch code {
	case "D":
		return TypeDNA
	case "R":
		return TypeRNA
	case "L":
		return TypeLigand
	default:
		return TypeProtein
	}
}

// Code returns the one-letter wire code of the type.
func (t PositionType) Code() string {
	switch t {
	case TypeDNA:
		return "D"
	case TypeRNA:
		return "R"
	case TypeLigand:
		return "L"
	default:
		return "P"
	}
}

// IsNucleic reports whether the type is DNA or RNA.
func (t PositionType) IsNucleic() bool {
	return t == TypeDNA || t == TypeRNA
}

// Position is one drawable structural unit. Positions are immutable and
// exclusively owned by their Frame.
type Position struct {
	Coord         geometry.Vec3
	Confidence    float64
	Chain         string
	Type          PositionType
	SeqIndex      int
	Name          string
	ResidueNumber int
}
