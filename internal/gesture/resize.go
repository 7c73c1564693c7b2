package gesture

import (
	"fmt"

	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/geometry"
)

// resizePhase names which resize handler fired.
type resizePhase int

const (
	resizeStart resizePhase = iota
	resizeMove
	resizeStop
)

// resizeState holds the in-flight resize box. A nil box means not resizing.
type resizeState struct {
	active bool
	handle domain.Handle
	box    *domain.PixelRect
}

// reset returns the resize state to idle.
func (r *resizeState) reset() {
	r.active = false
	r.handle = ""
	r.box = nil
}

// ResizeStart begins a resize from the given handle.
func (c *Controller) ResizeStart(event any, node Element, size domain.Size, handle domain.Handle) error {
	if c.resize.active {
		return fmt.Errorf("resize start for item %q: %w", c.props.ID, domain.ErrGestureInProgress)
	}
	return c.handleResize(resizeStart, event, node, size, handle)
}

// Resize applies one intermediate proposed size.
func (c *Controller) Resize(event any, node Element, size domain.Size, handle domain.Handle) error {
	if !c.resize.active {
		return fmt.Errorf("resize for item %q before resize start: %w", c.props.ID, domain.ErrInvalidGestureSequence)
	}
	return c.handleResize(resizeMove, event, node, size, handle)
}

// ResizeStop applies the final proposed size and ends the resize.
func (c *Controller) ResizeStop(event any, node Element, size domain.Size, handle domain.Handle) error {
	if !c.resize.active {
		return fmt.Errorf("resize stop for item %q before resize start: %w", c.props.ID, domain.ErrInvalidGestureSequence)
	}
	return c.handleResize(resizeStop, event, node, size, handle)
}

// handleResize is the shared resize pipeline: anchor the box for the handle
// in pixels, convert to cells, apply the cell constraints, store or clear the
// live box, then notify. State changes even when no callback is registered.
func (c *Controller) handleResize(phase resizePhase, event any, node Element, size domain.Size, handle domain.Handle) error {
	if !handle.Valid() {
		return fmt.Errorf("resize item %q with handle %q: %w", c.props.ID, handle, domain.ErrInvalidHandle)
	}
	p := c.props.Params
	rect := c.props.Rect
	limits := c.props.Constraints.Normalize()

	corrected := geometry.Resolve(handle, c.Position(), size, p.ContainerWidth-p.ContainerPadding.X*2)
	w, h := geometry.SizePixelToGrid(p, corrected.Width, corrected.Height, rect.X, rect.Y, handle)

	x, y := rect.X, rect.Y
	right := rect.X + rect.W
	bottom := rect.Y + rect.H
	maxW := min(limits.MaxW, p.Cols-rect.X)
	if handle.MovesStartX() {
		maxW = min(limits.MaxW, right)
	}
	maxH := limits.MaxH
	if handle.MovesStartY() {
		maxH = min(limits.MaxH, bottom)
	}
	w = geometry.Clamp(w, max(limits.MinW, 1), maxW)
	h = geometry.Clamp(h, max(limits.MinH, 1), maxH)
	if handle.MovesStartX() {
		x = max(right-w, 0)
	}
	if handle.MovesStartY() {
		y = max(bottom-h, 0)
	}

	var fn ResizeFunc
	switch phase {
	case resizeStart:
		fn = c.props.Callbacks.OnResizeStart
	case resizeMove:
		fn = c.props.Callbacks.OnResize
	case resizeStop:
		fn = c.props.Callbacks.OnResizeStop
	}

	if phase == resizeStop {
		c.resize.reset()
	} else {
		box := corrected
		c.resize.active = true
		c.resize.handle = handle
		c.resize.box = &box
	}

	if fn != nil {
		fn(c.props.ID, w, h, ResizePayload{
			Event:  event,
			Node:   node,
			Size:   corrected,
			Handle: handle,
			X:      x,
			Y:      y,
		})
	}
	return nil
}
