package app

import (
	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/gesture"
)

// virtualNode stands in for a rendered item when the caller has no layout of
// its own, as with the HTTP and MCP surfaces. It sits at the controller's
// current box inside a container anchored at the origin.
type virtualNode struct {
	box    domain.PixelRect
	parent *virtualContainer
}

// virtualContainer is the positioned ancestor of every virtual node.
type virtualContainer struct {
	width  float64
	height float64
}

// virtualNode builds the stand-in node for ctrl. Callers hold s.mu.
func (s *Service) virtualNode(ctrl *gesture.Controller) gesture.Element {
	scale := s.cfg.TransformScale
	if scale <= 0 {
		scale = 1
	}
	box := ctrl.Position()
	box.Top *= scale
	box.Left *= scale
	return &virtualNode{
		box: box,
		parent: &virtualContainer{
			width:  s.cfg.Params.ContainerWidth,
			height: s.containerHeight(),
		},
	}
}

// BoundingRect returns the node box.
func (n *virtualNode) BoundingRect() domain.PixelRect {
	return n.box
}

// OffsetParent returns the container.
func (n *virtualNode) OffsetParent() (gesture.Element, bool) {
	return n.parent, true
}

// Scroll returns no offset.
func (n *virtualNode) Scroll() domain.Position {
	return domain.Position{}
}

// ClientHeight returns the node height.
func (n *virtualNode) ClientHeight() float64 {
	return n.box.Height
}

// BoundingRect returns the container box at the origin.
func (c *virtualContainer) BoundingRect() domain.PixelRect {
	return domain.PixelRect{Width: c.width, Height: c.height}
}

// OffsetParent reports no further ancestor.
func (c *virtualContainer) OffsetParent() (gesture.Element, bool) {
	return nil, false
}

// Scroll returns no offset.
func (c *virtualContainer) Scroll() domain.Position {
	return domain.Position{}
}

// ClientHeight returns the container height.
func (c *virtualContainer) ClientHeight() float64 {
	return c.height
}
