// Package gesture turns drag and resize gesture events for one grid item into
// clamped grid-coordinate notifications.
package gesture

import (
	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/geometry"
)

// Element is the rendered node a gesture acts on.
type Element interface {
	// BoundingRect returns the node box in viewport pixels.
	BoundingRect() domain.PixelRect
	// OffsetParent returns the nearest positioned ancestor, if any.
	OffsetParent() (Element, bool)
	// Scroll returns the node's scroll offset.
	Scroll() domain.Position
	// ClientHeight returns the node's visible inner height.
	ClientHeight() float64
}

// DragPayload carries the raw gesture data of one drag notification.
type DragPayload struct {
	Event       any
	Node        Element
	NewPosition domain.Position
}

// ResizePayload carries the raw gesture data of one resize notification.
// X and Y are the grid origin after the resize, which only moves for
// west/north handles.
type ResizePayload struct {
	Event  any
	Node   Element
	Size   domain.PixelRect
	Handle domain.Handle
	X      int
	Y      int
}

// DragFunc receives drag notifications in grid coordinates.
type DragFunc func(itemID string, x, y int, payload DragPayload)

// ResizeFunc receives resize notifications in grid spans.
type ResizeFunc func(itemID string, w, h int, payload ResizePayload)

// Callbacks holds the optional host notification slots.
type Callbacks struct {
	OnDragStart   DragFunc
	OnDrag        DragFunc
	OnDragStop    DragFunc
	OnResizeStart ResizeFunc
	OnResize      ResizeFunc
	OnResizeStop  ResizeFunc
}

// Props is the host-supplied configuration of one item, refreshed every render.
type Props struct {
	ID             string
	Rect           domain.GridRect
	Constraints    domain.Constraints
	Params         domain.GridParams
	Bounded        bool
	TransformScale float64
	RenderMode     geometry.RenderMode
	Callbacks      Callbacks
}

// Controller owns the gesture state of one item.
type Controller struct {
	props    Props
	drag     dragState
	resize   resizeState
	dropping *domain.DroppingPosition
}

// NewController constructs a controller in the idle state.
func NewController(props Props) *Controller {
	return &Controller{props: props}
}

// SetProps replaces the host configuration. Gesture state is kept.
func (c *Controller) SetProps(props Props) {
	c.props = props
}

// Props returns the current host configuration.
func (c *Controller) Props() Props {
	return c.props
}

// ID returns the item id.
func (c *Controller) ID() string {
	return c.props.ID
}

// Dragging reports whether a drag gesture is active.
func (c *Controller) Dragging() bool {
	return c.drag.active
}

// Resizing reports whether a resize gesture is active.
func (c *Controller) Resizing() bool {
	return c.resize.active
}

// Position returns the box to render: the committed grid rect, replaced by
// the live drag position or resize box while a gesture is in flight.
func (c *Controller) Position() domain.PixelRect {
	var drag *domain.Position
	if c.drag.active {
		pos := c.drag.position
		drag = &pos
	}
	var resize *domain.PixelRect
	if c.resize.active && c.resize.box != nil {
		box := *c.resize.box
		resize = &box
	}
	return geometry.GridToPixel(c.props.Params, c.props.Rect, drag, resize)
}

// Style returns the render descriptor for the current box.
func (c *Controller) Style() geometry.Style {
	return geometry.NewStyle(c.props.RenderMode, c.Position(), c.props.Params.ContainerWidth)
}

// Reset discards all in-flight gesture state.
func (c *Controller) Reset() {
	c.drag.reset()
	c.resize.reset()
	c.dropping = nil
}

// transformScale returns the configured scale, defaulting to 1.
func (c *Controller) transformScale() float64 {
	if c.props.TransformScale <= 0 {
		return 1
	}
	return c.props.TransformScale
}
