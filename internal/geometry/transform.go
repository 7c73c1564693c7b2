// Package geometry maps item coordinates between grid cells and container pixels.
package geometry

import (
	"cmp"
	"math"

	"github.com/hylla/gridcell/internal/domain"
)

// Clamp bounds v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(min(v, hi), lo)
}

// ColumnWidth returns the pixel width of one column.
func ColumnWidth(p domain.GridParams) float64 {
	cols := float64(max(p.Cols, 1))
	return (p.ContainerWidth - p.Margin.X*(cols-1) - p.ContainerPadding.X*2) / cols
}

// SpanPx returns the pixel extent of units cells of the given size separated by margin.
func SpanPx(units int, cellSize, margin float64) float64 {
	if units <= 0 {
		return 0
	}
	return cellSize*float64(units) + float64(units-1)*margin
}

// GridToPixel places r in container pixels. A non-nil drag position replaces
// top/left, a non-nil resize box replaces width/height and, when no drag
// position is present, top/left as well.
func GridToPixel(p domain.GridParams, r domain.GridRect, drag *domain.Position, resize *domain.PixelRect) domain.PixelRect {
	colWidth := ColumnWidth(p)
	var out domain.PixelRect

	if resize != nil {
		out.Width = resize.Width
		out.Height = resize.Height
	} else {
		rows := r.H
		if p.HasRowLimit() {
			rows = Clamp(rows, 0, p.RowLimit()-r.Y)
		}
		out.Width = SpanPx(r.W, colWidth, p.Margin.X)
		out.Height = SpanPx(rows, p.RowHeight, p.Margin.Y)
	}

	switch {
	case drag != nil:
		out.Top = drag.Top
		out.Left = drag.Left
	case resize != nil:
		out.Top = resize.Top
		out.Left = resize.Left
	default:
		out.Top = float64(r.Y) * (p.RowHeight + p.Margin.Y)
		out.Left = float64(r.X) * (colWidth + p.Margin.X)
	}
	return out
}

// PixelToGrid converts a top/left pixel offset into the nearest grid cell for
// an item spanning w by h cells.
func PixelToGrid(p domain.GridParams, top, left float64, w, h int) (x, y int) {
	colWidth := ColumnWidth(p)
	x = int(math.Round(left / (colWidth + p.Margin.X)))
	y = int(math.Round(top / (p.RowHeight + p.Margin.Y)))
	x = Clamp(x, 0, p.Cols-w)
	y = Clamp(y, 0, p.RowLimit()-h)
	return x, y
}

// SizePixelToGrid converts a pixel size into the nearest cell span. A handle
// that moves the start edge of an axis lets the span use the whole axis,
// otherwise the span is limited to the cells after the origin.
func SizePixelToGrid(p domain.GridParams, width, height float64, x, y int, handle domain.Handle) (w, h int) {
	colWidth := ColumnWidth(p)
	w = int(math.Round((width + p.Margin.X) / (colWidth + p.Margin.X)))
	h = int(math.Round((height + p.Margin.Y) / (p.RowHeight + p.Margin.Y)))

	maxW := p.Cols - x
	if handle.MovesStartX() {
		maxW = p.Cols
	}
	maxH := p.RowLimit()
	if !handle.MovesStartY() && p.HasRowLimit() {
		maxH -= y
	}
	return Clamp(w, 0, maxW), Clamp(h, 0, maxH)
}
