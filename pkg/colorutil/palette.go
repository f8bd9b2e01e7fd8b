package colorutil

import "image/color"

// chainPalette is the default per-chain color cycle.
var chainPalette = []color.RGBA{
	{R: 76, G: 114, B: 176, A: 255},  // blue
	{R: 221, G: 132, B: 82, A: 255},  // orange
	{R: 85, G: 168, B: 104, A: 255},  // green
	{R: 196, G: 78, B: 82, A: 255},   // red
	{R: 129, G: 114, B: 179, A: 255}, // violet
	{R: 147, G: 120, B: 96, A: 255},  // brown
	{R: 218, G: 139, B: 195, A: 255}, // pink
	{R: 140, G: 140, B: 140, A: 255}, // gray
	{R: 204, G: 185, B: 116, A: 255}, // khaki
	{R: 100, G: 181, B: 205, A: 255}, // sky
}

// colorblindPalette is a colorblind-safe per-chain cycle (Okabe-Ito).
var colorblindPalette = []color.RGBA{
	{R: 0, G: 114, B: 178, A: 255},   // blue
	{R: 230, G: 159, B: 0, A: 255},   // orange
	{R: 0, G: 158, B: 115, A: 255},   // bluish green
	{R: 204, G: 121, B: 167, A: 255}, // reddish purple
	{R: 86, G: 180, B: 233, A: 255},  // sky blue
	{R: 213, G: 94, B: 0, A: 255},    // vermillion
	{R: 240, G: 228, B: 66, A: 255},  // yellow
	{R: 0, G: 0, B: 0, A: 255},       // black
}

// ChainColor returns the palette color for the chain at the given ordinal.
func ChainColor(ordinal int, colorblind bool) color.RGBA {
	palette := chainPalette
	if colorblind {
		palette = colorblindPalette
	}
	if ordinal < 0 {
		ordinal = 0
	}
	return palette[ordinal%len(palette)]
}

// Confidence band colors follow the AlphaFold pLDDT convention.
var (
	confidenceVeryHigh = color.RGBA{R: 0, G: 83, B: 214, A: 255}
	confidenceHigh     = color.RGBA{R: 101, G: 203, B: 243, A: 255}
	confidenceLow      = color.RGBA{R: 255, G: 219, B: 19, A: 255}
	confidenceVeryLow  = color.RGBA{R: 255, G: 125, B: 69, A: 255}
)

// ConfidenceColor maps a per-position confidence score (0-100) to the
// standard four-band confidence coloring.
func ConfidenceColor(score float64) color.RGBA {
	switch {
	case score >= 90:
		return confidenceVeryHigh
	case score >= 70:
		return confidenceHigh
	case score >= 50:
		return confidenceLow
	default:
		return confidenceVeryLow
	}
}

// RainbowColor maps a normalized sequence position t in [0, 1] to an
// N-to-C rainbow gradient (blue through red).
func RainbowColor(t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return HSVToRGB(240*(1-t), 0.9, 0.9)
}
