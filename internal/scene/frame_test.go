package scene

import (
	"math"
	"reflect"
	"testing"

	"mol2d/pkg/geometry"
)

func coords(n int) []geometry.Vec3 {
	out := make([]geometry.Vec3, n)
	for i := range out {
		out[i] = geometry.Vec3{X: float64(i), Y: float64(i * 2), Z: float64(i * 3)}
	}
	return out
}

func TestNewFrameDefaults(t *testing.T) {
	f := NewFrame(FrameInput{Coords: coords(3)})

	if f.Len() != 3 {
		t.Fatalf("Len = %d, want 3", f.Len())
	}
	for i, p := range f.Positions {
		if p.Chain != DefaultChain {
			t.Errorf("position %d chain = %q, want %q", i, p.Chain, DefaultChain)
		}
		if p.Name != DefaultName {
			t.Errorf("position %d name = %q, want %q", i, p.Name, DefaultName)
		}
		if p.Confidence != DefaultConfidence {
			t.Errorf("position %d confidence = %v, want %v", i, p.Confidence, DefaultConfidence)
		}
		if p.Type != TypeProtein {
			t.Errorf("position %d type = %v, want protein", i, p.Type)
		}
		if p.SeqIndex != i {
			t.Errorf("position %d seq index = %d", i, p.SeqIndex)
		}
		if p.ResidueNumber != i+1 {
			t.Errorf("position %d residue number = %d, want %d", i, p.ResidueNumber, i+1)
		}
	}
	if f.HasConfidence() {
		t.Error("HasConfidence = true without supplied confidences")
	}
}

func TestNewFrameMismatchedArraysDropped(t *testing.T) {
	f := NewFrame(FrameInput{
		Coords:      coords(3),
		Confidences: []float64{50}, // wrong length
		Chains:      []string{"B", "B"},
	})

	if f.HasConfidence() {
		t.Error("mismatched confidences must be dropped")
	}
	for i, p := range f.Positions {
		if p.Chain != DefaultChain {
			t.Errorf("position %d chain = %q, want default", i, p.Chain)
		}
	}
}

func TestNewFramePerPositionArrays(t *testing.T) {
	f := NewFrame(FrameInput{
		Coords:        coords(2),
		Confidences:   []float64{88.5, 42},
		Chains:        []string{"A", "B"},
		PositionTypes: []string{"D", "L"},
		PositionNames: []string{"DA", "LIG"},
	})

	if !f.HasConfidence() {
		t.Fatal("HasConfidence = false")
	}
	if f.Positions[0].Type != TypeDNA || f.Positions[1].Type != TypeLigand {
		t.Errorf("types = %v, %v", f.Positions[0].Type, f.Positions[1].Type)
	}
	if !reflect.DeepEqual(f.ChainIDs(), []string{"A", "B"}) {
		t.Errorf("chain ids = %v", f.ChainIDs())
	}
}

func TestPAEQuantization(t *testing.T) {
	f := NewFrame(FrameInput{
		Coords: coords(2),
		PAE:    [][]float64{{0, 12.34}, {31.875, 100}},
	})

	if !f.HasPAE() || f.PAEDim() != 2 {
		t.Fatalf("HasPAE=%v dim=%d", f.HasPAE(), f.PAEDim())
	}

	// Values are stored at 1/8 resolution.
	if got := f.PAEAt(0, 1); math.Abs(got-12.34) > 1.0/16 {
		t.Errorf("PAEAt(0,1) = %v, want ~12.34", got)
	}
	if got := f.PAEAt(1, 0); got != 31.875 {
		t.Errorf("PAEAt(1,0) = %v, want exact 31.875", got)
	}
	// Values above the byte ceiling clamp.
	if got := f.PAEAt(1, 1); got != 255.0/8 {
		t.Errorf("PAEAt(1,1) = %v, want %v", got, 255.0/8)
	}
	// Out of range reads are zero.
	if got := f.PAEAt(5, 0); got != 0 {
		t.Errorf("PAEAt(5,0) = %v, want 0", got)
	}
}

func TestNonSquarePAEDropped(t *testing.T) {
	f := NewFrame(FrameInput{
		Coords: coords(2),
		PAE:    [][]float64{{1, 2}, {3}},
	})
	if f.HasPAE() {
		t.Error("ragged PAE matrix must be dropped")
	}
}

func TestWithCoordsLeavesOriginal(t *testing.T) {
	f := NewFrame(FrameInput{Coords: coords(3), Chains: []string{"A", "B", "C"}})
	moved := f.withCoords(coords(3))

	moved.Positions[0].Coord.X = 99
	if f.Positions[0].Coord.X == 99 {
		t.Error("withCoords shares position storage with the original")
	}
	if moved.Positions[1].Chain != "B" {
		t.Error("withCoords lost per-position fields")
	}
}
