package gesture

import "github.com/hylla/gridcell/internal/domain"

// InjectDrop drives the drag pipeline from an externally supplied dropping
// position. prev is the value seen on the previous render. An idle controller
// starts a drag at next; a dragging one moves by next-prev when they differ.
// A drag already running with no prev only takes next as the reference.
func InjectDrop(c *Controller, prev, next *domain.DroppingPosition, node Element) {
	if c == nil || next == nil {
		return
	}
	if !c.drag.active {
		c.beginDrag(next.Event, node, domain.Position{Left: next.Left, Top: next.Top})
		return
	}
	if prev == nil || domain.SamePosition(prev, next) {
		return
	}
	c.moveDrag(next.Event, next.Left-prev.Left, next.Top-prev.Top, node)
}

// SyncDropping feeds the change since the previously recorded dropping
// position into InjectDrop and records next. A nil next leaves the recorded
// value alone so the drag resumes from it.
func (c *Controller) SyncDropping(next *domain.DroppingPosition, node Element) {
	if next == nil {
		return
	}
	prev := c.dropping
	stored := *next
	c.dropping = &stored
	InjectDrop(c, prev, next, node)
}

// DroppingPosition returns the last recorded dropping position.
func (c *Controller) DroppingPosition() (domain.DroppingPosition, bool) {
	if c.dropping == nil {
		return domain.DroppingPosition{}, false
	}
	return *c.dropping, true
}
