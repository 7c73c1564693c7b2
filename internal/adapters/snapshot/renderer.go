// Package snapshot draws the current pixel geometry of a grid into a PNG.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/hylla/gridcell/internal/app"
	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/geometry"
)

// Palette colors.
var (
	backgroundColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	guideColor      = color.RGBA{R: 225, G: 225, B: 225, A: 255}
	itemColor       = color.RGBA{R: 74, G: 144, B: 217, A: 255}
	activeColor     = color.RGBA{R: 240, G: 150, B: 60, A: 255}
	staticColor     = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	borderColor     = color.RGBA{R: 30, G: 30, B: 30, A: 255}
)

// Options tune the rendered image. Scale maps one layout pixel to output
// pixels per axis; terminal cells are about twice as tall as they are wide.
type Options struct {
	Scale      domain.Vec
	ShowGuides bool
	ShowLabels bool
}

// DefaultOptions returns options suited to a terminal-sized layout.
func DefaultOptions() Options {
	return Options{
		Scale:      domain.Vec{X: 8, Y: 16},
		ShowGuides: true,
		ShowLabels: true,
	}
}

// Renderer draws item boxes.
type Renderer struct {
	opts Options
}

// NewRenderer constructs a renderer; non-positive scales fall back to 1.
func NewRenderer(opts Options) *Renderer {
	if opts.Scale.X <= 0 {
		opts.Scale.X = 1
	}
	if opts.Scale.Y <= 0 {
		opts.Scale.Y = 1
	}
	return &Renderer{opts: opts}
}

// ImageSize returns the output dimensions for a container.
func (r *Renderer) ImageSize(params domain.GridParams, containerHeight float64) (int, int) {
	w := int(math.Ceil(params.ContainerWidth * r.opts.Scale.X))
	h := int(math.Ceil(containerHeight * r.opts.Scale.Y))
	return max(w, 1), max(h, 1)
}

// Draw renders the container and every item, in-flight boxes on top.
func (r *Renderer) Draw(params domain.GridParams, containerHeight float64, items []app.ItemView) image.Image {
	width, height := r.ImageSize(params, containerHeight)
	dc := gg.NewContext(width, height)
	dc.SetColor(backgroundColor)
	dc.Clear()

	if r.opts.ShowGuides {
		r.drawGuides(dc, params, height)
	}
	for _, item := range items {
		if !item.Dragging && !item.Resizing {
			r.drawItem(dc, params, item)
		}
	}
	for _, item := range items {
		if item.Dragging || item.Resizing {
			r.drawItem(dc, params, item)
		}
	}
	return dc.Image()
}

// Encode writes the rendered PNG to w.
func (r *Renderer) Encode(w io.Writer, params domain.GridParams, containerHeight float64, items []app.ItemView) error {
	dc := gg.NewContextForImage(r.Draw(params, containerHeight, items))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode snapshot png: %w", err)
	}
	return nil
}

// Save writes the rendered PNG to path, creating parent directories.
func (r *Renderer) Save(path string, params domain.GridParams, containerHeight float64, items []app.ItemView) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	dc := gg.NewContextForImage(r.Draw(params, containerHeight, items))
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot png: %w", err)
	}
	return nil
}

// drawGuides strokes the left edge of every column.
func (r *Renderer) drawGuides(dc *gg.Context, params domain.GridParams, height int) {
	colWidth := geometry.ColumnWidth(params)
	dc.SetColor(guideColor)
	dc.SetLineWidth(1)
	for col := 0; col < params.Cols; col++ {
		x := (params.ContainerPadding.X + float64(col)*(colWidth+params.Margin.X)) * r.opts.Scale.X
		dc.DrawLine(x, 0, x, float64(height))
		dc.Stroke()
	}
}

// drawItem fills and outlines one item box. Pixel boxes exclude the
// container padding, so it is added back here.
func (r *Renderer) drawItem(dc *gg.Context, params domain.GridParams, item app.ItemView) {
	x := (item.Pixel.Left + params.ContainerPadding.X) * r.opts.Scale.X
	y := (item.Pixel.Top + params.ContainerPadding.Y) * r.opts.Scale.Y
	w := item.Pixel.Width * r.opts.Scale.X
	h := item.Pixel.Height * r.opts.Scale.Y

	switch {
	case item.Static:
		dc.SetColor(staticColor)
	case item.Dragging || item.Resizing:
		dc.SetColor(activeColor)
	default:
		dc.SetColor(itemColor)
	}
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	dc.SetColor(borderColor)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x+0.5, y+0.5, w-1, h-1)
	dc.Stroke()

	if r.opts.ShowLabels {
		dc.DrawStringAnchored(item.ID, x+4, y+4, 0, 1)
	}
}
