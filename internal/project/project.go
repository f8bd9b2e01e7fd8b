// Package project provides viewer state file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mol2d/internal/scene"
	"mol2d/pkg/colorutil"
	"mol2d/pkg/geometry"
)

// FormatVersion is written into every state file.
const FormatVersion = 1

// File is the serialized form of a viewer session (.mol2d.json).
type File struct {
	Version  int          `json:"version"`
	Name     string       `json:"name,omitempty"`
	Created  time.Time    `json:"created"`
	Modified time.Time    `json:"modified"`
	Config   scene.Config `json:"config"`
	Objects  []ObjectRec  `json:"objects"`
}

// ObjectRec is one serialized object.
type ObjectRec struct {
	Name           string            `json:"name"`
	RotationMatrix *[3][3]float64    `json:"rotation_matrix,omitempty"`
	Center         *[3]float64       `json:"center,omitempty"`
	ActiveFrame    int               `json:"active_frame,omitempty"`
	Frames         []FrameRec        `json:"frames"`
	Bonds          [][2]int          `json:"bonds,omitempty"`
	Contacts       []ContactRec      `json:"contacts,omitempty"`
	ObjectColor    string            `json:"color,omitempty"`
	ChainColors    map[string]string `json:"chain_colors,omitempty"`
	PositionColors map[string]string `json:"position_colors,omitempty"`
	FrameColors    map[string]string `json:"frame_colors,omitempty"`
}

// FrameRec is one serialized frame. Arrays identical to the previous
// frame's are elided on save and inherited on load, which keeps
// trajectory files small.
type FrameRec struct {
	Name           string       `json:"name,omitempty"`
	Coords         [][3]float64 `json:"coords"`
	Confidences    []float64    `json:"plddts,omitempty"`
	Chains         []string     `json:"chains,omitempty"`
	PositionTypes  []string     `json:"position_types,omitempty"`
	PositionNames  []string     `json:"position_names,omitempty"`
	ResidueNumbers []int        `json:"residue_numbers,omitempty"`
	PAE            [][]float64  `json:"pae,omitempty"`
}

// ContactRec is one serialized contact.
type ContactRec struct {
	A      int     `json:"a"`
	B      int     `json:"b"`
	Weight float64 `json:"weight"`
	Color  string  `json:"color,omitempty"`
}

// Save writes the scene to path. Selection state is deliberately not
// persisted; it resets on reload.
func Save(s *scene.Scene, path string) error {
	now := time.Now()
	f := File{
		Version:  FormatVersion,
		Name:     filepath.Base(path),
		Created:  now,
		Modified: now,
		Config:   s.Config,
		Objects:  make([]ObjectRec, 0, s.Len()),
	}
	f.Config.Sync()

	for _, obj := range s.Objects() {
		f.Objects = append(f.Objects, encodeObject(obj))
	}

	data, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a state file and reconstructs a Scene through the same
// defaulting path as live input.
func Load(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding state %s: %w", path, err)
	}
	if f.Version > FormatVersion {
		return nil, fmt.Errorf("state file version %d is newer than supported %d", f.Version, FormatVersion)
	}

	s := scene.New()
	s.Config = f.Config
	s.Config.Normalize()

	for _, rec := range f.Objects {
		decodeObject(s, rec)
	}
	return s, nil
}

func encodeObject(obj *scene.Object) ObjectRec {
	rec := ObjectRec{
		Name:        obj.Name,
		ActiveFrame: obj.ActiveIndex(),
	}

	rot := [3][3]float64(obj.Transform.Rotation)
	rec.RotationMatrix = &rot
	c := obj.Transform.Center
	rec.Center = &[3]float64{c.X, c.Y, c.Z}

	var prev *FrameRec
	for i := 0; i < obj.FrameCount(); i++ {
		fr := encodeFrame(obj.Frame(i))
		rec.Frames = append(rec.Frames, elideRedundant(fr, prev))
		frCopy := fr
		prev = &frCopy
	}

	for _, b := range obj.Bonds {
		rec.Bonds = append(rec.Bonds, [2]int{b.A, b.B})
	}
	for _, ct := range obj.Contacts {
		rec.Contacts = append(rec.Contacts, ContactRec{
			A: ct.A, B: ct.B, Weight: ct.Weight, Color: colorutil.Hex(ct.Color),
		})
	}

	if obj.Colors.Object != nil {
		rec.ObjectColor = colorValueString(*obj.Colors.Object)
	}
	if len(obj.Colors.Chains) > 0 {
		rec.ChainColors = make(map[string]string)
		for chain, col := range obj.Colors.Chains {
			rec.ChainColors[chain] = colorutil.Hex(col)
		}
	}
	if len(obj.Colors.Positions) > 0 {
		rec.PositionColors = make(map[string]string)
		for i, col := range obj.Colors.Positions {
			rec.PositionColors[strconv.Itoa(i)] = colorutil.Hex(col)
		}
	}
	if len(obj.Colors.Frames) > 0 {
		rec.FrameColors = make(map[string]string)
		for i, v := range obj.Colors.Frames {
			rec.FrameColors[strconv.Itoa(i)] = colorValueString(v)
		}
	}
	return rec
}

func encodeFrame(f *scene.Frame) FrameRec {
	rec := FrameRec{Name: f.Name}
	rec.Coords = make([][3]float64, f.Len())
	for i, p := range f.Positions {
		rec.Coords[i] = [3]float64{p.Coord.X, p.Coord.Y, p.Coord.Z}
		rec.Chains = append(rec.Chains, p.Chain)
		rec.PositionTypes = append(rec.PositionTypes, p.Type.Code())
		rec.PositionNames = append(rec.PositionNames, p.Name)
		rec.ResidueNumbers = append(rec.ResidueNumbers, p.ResidueNumber)
	}
	if f.HasConfidence() {
		for _, p := range f.Positions {
			rec.Confidences = append(rec.Confidences, p.Confidence)
		}
	}
	if f.HasPAE() {
		dim := f.PAEDim()
		rec.PAE = make([][]float64, dim)
		for i := 0; i < dim; i++ {
			rec.PAE[i] = make([]float64, dim)
			for j := 0; j < dim; j++ {
				rec.PAE[i][j] = f.PAEAt(i, j)
			}
		}
	}
	return rec
}

// elideRedundant blanks arrays that repeat the previous frame verbatim.
func elideRedundant(fr FrameRec, prev *FrameRec) FrameRec {
	if prev == nil {
		return fr
	}
	if equalStrings(fr.Chains, prev.Chains) {
		fr.Chains = nil
	}
	if equalStrings(fr.PositionTypes, prev.PositionTypes) {
		fr.PositionTypes = nil
	}
	if equalStrings(fr.PositionNames, prev.PositionNames) {
		fr.PositionNames = nil
	}
	if equalInts(fr.ResidueNumbers, prev.ResidueNumbers) {
		fr.ResidueNumbers = nil
	}
	if equalFloats(fr.Confidences, prev.Confidences) {
		fr.Confidences = nil
	}
	return fr
}

func decodeObject(s *scene.Scene, rec ObjectRec) {
	obj := s.NewObject(rec.Name)

	var prev FrameRec
	for i, fr := range rec.Frames {
		if i > 0 {
			fr = inheritRedundant(fr, prev)
		}
		in := scene.FrameInput{
			Name:           fr.Name,
			Coords:         toVecs(fr.Coords),
			Confidences:    fr.Confidences,
			Chains:         fr.Chains,
			PositionTypes:  fr.PositionTypes,
			PositionNames:  fr.PositionNames,
			ResidueNumbers: fr.ResidueNumbers,
			PAE:            fr.PAE,
		}
		// Coordinates were aligned before saving; do not re-align.
		obj.AppendFrame(scene.NewFrame(in), false)
		prev = fr
	}

	if rec.RotationMatrix != nil {
		obj.Transform.Rotation = geometry.Mat3(*rec.RotationMatrix)
	}
	if rec.Center != nil {
		obj.Transform.Center = geometry.Vec3{
			X: rec.Center[0], Y: rec.Center[1], Z: rec.Center[2],
		}
		// The extent was fitted around the centroid as frames were
		// appended; refit it around the restored center.
		obj.RefitExtent()
	}
	obj.SetActiveIndex(rec.ActiveFrame)

	var bonds []scene.Bond
	for _, b := range rec.Bonds {
		bonds = append(bonds, scene.Bond{A: b[0], B: b[1]})
	}
	if len(bonds) > 0 {
		obj.SetBonds(bonds)
	}

	var contacts []scene.Contact
	for _, cr := range rec.Contacts {
		contact := scene.NewContact(cr.A, cr.B, cr.Weight, nil)
		if cr.Color != "" {
			if col, err := colorutil.Parse(cr.Color); err == nil {
				contact.Color = col
			}
		}
		contacts = append(contacts, contact)
	}
	if len(contacts) > 0 {
		obj.AddContacts(contacts)
	}

	if rec.ObjectColor != "" {
		if v, err := scene.ParseColorValue(rec.ObjectColor); err == nil {
			obj.Colors.SetObject(v)
		}
	}
	for chain, spec := range rec.ChainColors {
		if col, err := colorutil.Parse(spec); err == nil {
			obj.Colors.SetChain(chain, col)
		}
	}
	for key, spec := range rec.PositionColors {
		i, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if col, perr := colorutil.Parse(spec); perr == nil {
			obj.Colors.SetPosition(i, col)
		}
	}
	for key, spec := range rec.FrameColors {
		i, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if v, perr := scene.ParseColorValue(spec); perr == nil {
			obj.Colors.SetFrame(i, v)
		}
	}
}

// inheritRedundant fills arrays elided on save from the previous frame.
func inheritRedundant(fr, prev FrameRec) FrameRec {
	if fr.Chains == nil {
		fr.Chains = prev.Chains
	}
	if fr.PositionTypes == nil {
		fr.PositionTypes = prev.PositionTypes
	}
	if fr.PositionNames == nil {
		fr.PositionNames = prev.PositionNames
	}
	if fr.ResidueNumbers == nil {
		fr.ResidueNumbers = prev.ResidueNumbers
	}
	if fr.Confidences == nil {
		fr.Confidences = prev.Confidences
	}
	return fr
}

func toVecs(coords [][3]float64) []geometry.Vec3 {
	out := make([]geometry.Vec3, len(coords))
	for i, c := range coords {
		out[i] = geometry.Vec3{X: c[0], Y: c[1], Z: c[2]}
	}
	return out
}

func colorValueString(v scene.ColorValue) string {
	if v.Literal != nil {
		return colorutil.Hex(*v.Literal)
	}
	return v.Mode.Name()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
