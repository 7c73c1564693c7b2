package gesture

import (
	"fmt"

	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/geometry"
)

// dragState tracks the running pixel position of one drag gesture.
type dragState struct {
	active   bool
	position domain.Position
}

// reset returns the drag state to idle.
func (d *dragState) reset() {
	d.active = false
	d.position = domain.Position{}
}

// DragStart begins a drag at the node's rendered offset within its
// positioned ancestor. A node without one is ignored.
func (c *Controller) DragStart(event any, node Element) error {
	if c.drag.active {
		return fmt.Errorf("drag start for item %q: %w", c.props.ID, domain.ErrGestureInProgress)
	}
	if node == nil {
		return nil
	}
	parent, ok := node.OffsetParent()
	if !ok || parent == nil {
		return nil
	}

	scale := c.transformScale()
	parentRect := parent.BoundingRect()
	clientRect := node.BoundingRect()
	scroll := parent.Scroll()
	c.beginDrag(event, node, domain.Position{
		Left: clientRect.Left/scale - parentRect.Left/scale + scroll.Left,
		Top:  clientRect.Top/scale - parentRect.Top/scale + scroll.Top,
	})
	return nil
}

// Drag moves the running position by the given pixel deltas.
func (c *Controller) Drag(event any, deltaX, deltaY float64, node Element) error {
	if !c.drag.active {
		return fmt.Errorf("drag move for item %q before drag start: %w", c.props.ID, domain.ErrInvalidGestureSequence)
	}
	c.moveDrag(event, deltaX, deltaY, node)
	return nil
}

// DragStop ends the drag, notifying with the last running position.
func (c *Controller) DragStop(event any, node Element) error {
	if !c.drag.active {
		return fmt.Errorf("drag stop for item %q before drag start: %w", c.props.ID, domain.ErrInvalidGestureSequence)
	}
	c.emitDrag(c.props.Callbacks.OnDragStop, event, node, c.drag.position)
	c.drag.reset()
	c.dropping = nil
	return nil
}

// beginDrag enters the dragging state at pos and emits the start notification.
func (c *Controller) beginDrag(event any, node Element, pos domain.Position) {
	c.drag.active = true
	c.drag.position = pos
	c.emitDrag(c.props.Callbacks.OnDragStart, event, node, pos)
}

// moveDrag applies deltas, bounds the result when configured, and emits.
func (c *Controller) moveDrag(event any, deltaX, deltaY float64, node Element) {
	pos := domain.Position{
		Top:  c.drag.position.Top + deltaY,
		Left: c.drag.position.Left + deltaX,
	}
	if c.props.Bounded {
		pos = c.bound(pos, node)
	}
	c.drag.position = pos
	c.emitDrag(c.props.Callbacks.OnDrag, event, node, pos)
}

// bound keeps pos inside the container. The vertical limit comes from the
// positioned ancestor's live client height; without one the position is kept.
func (c *Controller) bound(pos domain.Position, node Element) domain.Position {
	if node == nil {
		return pos
	}
	parent, ok := node.OffsetParent()
	if !ok || parent == nil {
		return pos
	}
	p := c.props.Params
	itemHeight := geometry.SpanPx(c.props.Rect.H, p.RowHeight, p.Margin.Y)
	itemWidth := geometry.SpanPx(c.props.Rect.W, geometry.ColumnWidth(p), p.Margin.X)
	bottom := parent.ClientHeight() - p.ContainerPadding.Y*2 - itemHeight
	right := p.ContainerWidth - p.ContainerPadding.X*2 - itemWidth
	pos.Top = geometry.Clamp(pos.Top, 0, bottom)
	pos.Left = geometry.Clamp(pos.Left, 0, right)
	return pos
}

// emitDrag converts pos to grid coordinates and calls fn when present.
func (c *Controller) emitDrag(fn DragFunc, event any, node Element, pos domain.Position) {
	if fn == nil {
		return
	}
	x, y := geometry.PixelToGrid(c.props.Params, pos.Top, pos.Left, c.props.Rect.W, c.props.Rect.H)
	fn(c.props.ID, x, y, DragPayload{Event: event, Node: node, NewPosition: pos})
}
