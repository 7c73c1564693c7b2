package gesture

import "github.com/hylla/gridcell/internal/domain"

// fakeNode is an in-memory Element for gesture tests.
type fakeNode struct {
	rect         domain.PixelRect
	parent       *fakeNode
	scroll       domain.Position
	clientHeight float64
}

func (n *fakeNode) BoundingRect() domain.PixelRect {
	return n.rect
}

func (n *fakeNode) OffsetParent() (Element, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *fakeNode) Scroll() domain.Position {
	return n.scroll
}

func (n *fakeNode) ClientHeight() float64 {
	return n.clientHeight
}

// newNodePair returns a child positioned at (left, top) inside a container at (20, 30).
func newNodePair(left, top float64) (*fakeNode, *fakeNode) {
	parent := &fakeNode{
		rect:         domain.PixelRect{Top: 30, Left: 20, Width: 1200, Height: 600},
		clientHeight: 600,
	}
	child := &fakeNode{
		rect:   domain.PixelRect{Top: 30 + top, Left: 20 + left, Width: 100, Height: 30},
		parent: parent,
	}
	return child, parent
}

type dragCall struct {
	id      string
	x, y    int
	payload DragPayload
}

type resizeCall struct {
	id      string
	w, h    int
	payload ResizePayload
}

// recorder captures every notification a controller emits.
type recorder struct {
	dragStarts   []dragCall
	drags        []dragCall
	dragStops    []dragCall
	resizeStarts []resizeCall
	resizes      []resizeCall
	resizeStops  []resizeCall
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnDragStart: func(id string, x, y int, p DragPayload) {
			r.dragStarts = append(r.dragStarts, dragCall{id, x, y, p})
		},
		OnDrag: func(id string, x, y int, p DragPayload) {
			r.drags = append(r.drags, dragCall{id, x, y, p})
		},
		OnDragStop: func(id string, x, y int, p DragPayload) {
			r.dragStops = append(r.dragStops, dragCall{id, x, y, p})
		},
		OnResizeStart: func(id string, w, h int, p ResizePayload) {
			r.resizeStarts = append(r.resizeStarts, resizeCall{id, w, h, p})
		},
		OnResize: func(id string, w, h int, p ResizePayload) {
			r.resizes = append(r.resizes, resizeCall{id, w, h, p})
		},
		OnResizeStop: func(id string, w, h int, p ResizePayload) {
			r.resizeStops = append(r.resizeStops, resizeCall{id, w, h, p})
		},
	}
}
