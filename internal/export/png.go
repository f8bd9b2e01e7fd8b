// Package export renders scenes to image files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"mol2d/internal/render"
	"mol2d/internal/scene"

	xdraw "golang.org/x/image/draw"
)

// superSample is the oversampling factor for exported images. Rendering
// at twice the target resolution and downscaling smooths the hard edges
// of the line rasterizer.
const superSample = 2

// Image renders the scene at its configured size with supersampling.
func Image(s *scene.Scene) *image.RGBA {
	w := s.Config.Display.Width
	h := s.Config.Display.Height
	big := render.New(w*superSample, h*superSample).Render(s)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), xdraw.Over, nil)
	return out
}

// PNG renders the scene and writes it to path.
func PNG(s *scene.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, Image(s)); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
