package scene

import (
	"image/color"

	"mol2d/pkg/colorutil"
)

// Bond is an explicit edge between two positions.
type Bond struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Contact is a weighted, optionally colored edge between two positions,
// typically a predicted or experimental restraint.
type Contact struct {
	A      int        `json:"a"`
	B      int        `json:"b"`
	Weight float64    `json:"weight"`
	Color  color.RGBA `json:"color"`
}

// NewContact builds a contact, applying the defaults of the wire contract:
// weight 1.0 when unset or negative, yellow when no color is given.
func NewContact(a, b int, weight float64, col *color.RGBA) Contact {
	if weight <= 0 {
		weight = 1.0
	}
	c := colorutil.Yellow
	if col != nil {
		c = *col
	}
	return Contact{A: a, B: b, Weight: weight, Color: c}
}

// ValidBonds filters bonds whose endpoints are distinct and inside the
// frame. Invalid entries are silently dropped.
func ValidBonds(bonds []Bond, n int) []Bond {
	out := make([]Bond, 0, len(bonds))
	for _, b := range bonds {
		if b.A < 0 || b.B < 0 || b.A >= n || b.B >= n || b.A == b.B {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ValidContacts filters contacts the same way ValidBonds filters bonds.
func ValidContacts(contacts []Contact, n int) []Contact {
	out := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		if c.A < 0 || c.B < 0 || c.A >= n || c.B >= n || c.A == c.B {
			continue
		}
		out = append(out, c)
	}
	return out
}
