package geometry

import "github.com/hylla/gridcell/internal/domain"

// Resolve corrects a proposed size for the dragged handle so the edges
// opposite the handle stay where anchor has them. The returned box is complete.
// usableWidth is the container width minus both horizontal paddings, the same
// frame anchor is measured in; an east edge never grows past it.
func Resolve(handle domain.Handle, anchor domain.PixelRect, proposed domain.Size, usableWidth float64) domain.PixelRect {
	out := anchor
	horizontal, vertical := handle.Edges()

	width := max(proposed.Width, 0)
	switch horizontal {
	case domain.EdgeEnd:
		out.Width = width
		if usableWidth > 0 && out.Left+out.Width > usableWidth {
			out.Width = max(usableWidth-out.Left, 0)
		}
	case domain.EdgeStart:
		right := anchor.Right()
		out.Left = right - width
		out.Width = width
		if out.Left < 0 {
			out.Left = 0
			out.Width = right
		}
	}

	height := max(proposed.Height, 0)
	switch vertical {
	case domain.EdgeEnd:
		out.Height = height
	case domain.EdgeStart:
		bottom := anchor.Bottom()
		out.Top = bottom - height
		out.Height = height
		if out.Top < 0 {
			out.Top = 0
			out.Height = bottom
		}
	}
	return out
}
