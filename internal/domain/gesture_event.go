package domain

import "time"

// GestureKind names which notification a controller emitted.
type GestureKind string

// GestureKind values, one per callback slot.
const (
	GestureDragStart   GestureKind = "drag_start"
	GestureDrag        GestureKind = "drag"
	GestureDragStop    GestureKind = "drag_stop"
	GestureResizeStart GestureKind = "resize_start"
	GestureResize      GestureKind = "resize"
	GestureResizeStop  GestureKind = "resize_stop"
)

// Terminal reports whether the kind ends a gesture.
func (k GestureKind) Terminal() bool {
	return k == GestureDragStop || k == GestureResizeStop
}

// GestureEvent is one journaled notification.
type GestureEvent struct {
	ID         int64
	GestureID  string
	ItemID     string
	Kind       GestureKind
	Rect       GridRect
	Pixel      PixelRect
	Handle     Handle
	OccurredAt time.Time
}
