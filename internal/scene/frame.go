package scene

import (
	"log"
	"math"

	"mol2d/pkg/geometry"
)

// Default values substituted when a per-position array is missing or does
// not match the coordinate count.
const (
	DefaultChain      = "A"
	DefaultName       = "UNK"
	DefaultConfidence = 100
)

// paeScale is the fixed-point factor applied when quantizing PAE values
// into bytes (value*8, clamped to 0-255).
const paeScale = 8

// FrameInput is the wire contract for one timepoint. Coords is mandatory;
// every other array is optional and must match its length. Mismatches are
// recovered by default substitution, never by failure.
type FrameInput struct {
	Name           string
	Coords         []geometry.Vec3
	Confidences    []float64
	Chains         []string
	PositionTypes  []string
	PositionNames  []string
	ResidueNumbers []int
	PAE            [][]float64
}

// Frame holds the ordered positions of one timepoint plus an optional
// pairwise confidence matrix. Frames are appended to an Object and never
// mutated afterwards; a changed frame is a new Frame.
type Frame struct {
	Name      string
	Positions []Position

	pae    []uint8
	paeDim int

	hasConfidence bool
}

// NewFrame validates a FrameInput and builds a Frame. Per-position arrays
// whose length disagrees with the coordinate count are dropped and replaced
// with defaults; a non-square PAE matrix is dropped. The constructor never
// fails.
func NewFrame(in FrameInput) *Frame {
	n := len(in.Coords)

	confidences := in.Confidences
	hasConfidence := confidences != nil
	if confidences != nil && len(confidences) != n {
		log.Printf("scene: confidence length %d != %d positions, ignoring", len(confidences), n)
		confidences = nil
		hasConfidence = false
	}
	chains := in.Chains
	if chains != nil && len(chains) != n {
		log.Printf("scene: chain length %d != %d positions, ignoring", len(chains), n)
		chains = nil
	}
	types := in.PositionTypes
	if types != nil && len(types) != n {
		log.Printf("scene: position type length %d != %d positions, ignoring", len(types), n)
		types = nil
	}
	names := in.PositionNames
	if names != nil && len(names) != n {
		log.Printf("scene: position name length %d != %d positions, ignoring", len(names), n)
		names = nil
	}
	numbers := in.ResidueNumbers
	if numbers != nil && len(numbers) != n {
		log.Printf("scene: residue number length %d != %d positions, ignoring", len(numbers), n)
		numbers = nil
	}

	f := &Frame{
		Name:          in.Name,
		Positions:     make([]Position, n),
		hasConfidence: hasConfidence,
	}

	for i := 0; i < n; i++ {
		p := Position{
			Coord:         in.Coords[i],
			Confidence:    DefaultConfidence,
			Chain:         DefaultChain,
			Type:          TypeProtein,
			SeqIndex:      i,
			Name:          DefaultName,
			ResidueNumber: i + 1,
		}
		if confidences != nil {
			p.Confidence = confidences[i]
		}
		if chains != nil {
			p.Chain = chains[i]
		}
		if types != nil {
			p.Type = ParsePositionType(types[i])
		}
		if names != nil {
			p.Name = names[i]
		}
		if numbers != nil {
			p.ResidueNumber = numbers[i]
		}
		f.Positions[i] = p
	}

	if in.PAE != nil {
		f.setPAE(in.PAE)
	}

	return f
}

// setPAE quantizes and stores a square PAE matrix. Ragged or non-square
// input is dropped.
func (f *Frame) setPAE(raw [][]float64) {
	dim := len(raw)
	for _, row := range raw {
		if len(row) != dim {
			log.Printf("scene: PAE matrix is not square, ignoring")
			return
		}
	}
	f.paeDim = dim
	f.pae = make([]uint8, dim*dim)
	for i, row := range raw {
		for j, v := range row {
			q := math.Round(v * paeScale)
			if q < 0 {
				q = 0
			}
			if q > 255 {
				q = 255
			}
			f.pae[i*dim+j] = uint8(q)
		}
	}
}

// Len returns the number of positions.
func (f *Frame) Len() int { return len(f.Positions) }

// HasPAE reports whether the frame carries a pairwise confidence matrix.
func (f *Frame) HasPAE() bool { return f.paeDim > 0 }

// PAEDim returns the edge length of the PAE matrix, 0 when absent.
func (f *Frame) PAEDim() int { return f.paeDim }

// PAEAt returns the dequantized PAE value at (i, j), or 0 when out of range.
func (f *Frame) PAEAt(i, j int) float64 {
	if i < 0 || j < 0 || i >= f.paeDim || j >= f.paeDim {
		return 0
	}
	return float64(f.pae[i*f.paeDim+j]) / paeScale
}

// HasConfidence reports whether per-position confidences were supplied.
func (f *Frame) HasConfidence() bool { return f.hasConfidence }

// Chains returns the per-position chain ids, in position order.
func (f *Frame) Chains() []string {
	out := make([]string, len(f.Positions))
	for i, p := range f.Positions {
		out[i] = p.Chain
	}
	return out
}

// ChainIDs returns the distinct chain ids in first-appearance order.
func (f *Frame) ChainIDs() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range f.Positions {
		if _, ok := seen[p.Chain]; !ok {
			seen[p.Chain] = struct{}{}
			out = append(out, p.Chain)
		}
	}
	return out
}

// Coords returns the position coordinates, in position order.
func (f *Frame) Coords() []geometry.Vec3 {
	out := make([]geometry.Vec3, len(f.Positions))
	for i, p := range f.Positions {
		out[i] = p.Coord
	}
	return out
}

// withCoords returns a copy of the frame with replaced coordinates. Used
// when aligning an incoming frame onto the object's first frame; the
// original Frame stays untouched.
func (f *Frame) withCoords(coords []geometry.Vec3) *Frame {
	if len(coords) != len(f.Positions) {
		return f
	}
	out := &Frame{
		Name:          f.Name,
		Positions:     make([]Position, len(f.Positions)),
		pae:           f.pae,
		paeDim:        f.paeDim,
		hasConfidence: f.hasConfidence,
	}
	for i, p := range f.Positions {
		p.Coord = coords[i]
		out.Positions[i] = p
	}
	return out
}
