package gesture

import "sort"

// Arena keeps one controller per item id.
type Arena struct {
	controllers map[string]*Controller
}

// NewArena constructs an empty arena.
func NewArena() *Arena {
	return &Arena{controllers: map[string]*Controller{}}
}

// Ensure returns the controller for props.ID, creating it on first use and
// refreshing its props otherwise.
func (a *Arena) Ensure(props Props) *Controller {
	if c, ok := a.controllers[props.ID]; ok {
		c.SetProps(props)
		return c
	}
	c := NewController(props)
	a.controllers[props.ID] = c
	return c
}

// Get returns the controller for id.
func (a *Arena) Get(id string) (*Controller, bool) {
	c, ok := a.controllers[id]
	return c, ok
}

// Remove tears down the controller for id, dropping any in-flight gesture.
func (a *Arena) Remove(id string) {
	if c, ok := a.controllers[id]; ok {
		c.Reset()
		delete(a.controllers, id)
	}
}

// IDs lists controller ids in sorted order.
func (a *Arena) IDs() []string {
	ids := make([]string, 0, len(a.controllers))
	for id := range a.controllers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Active lists ids of controllers with a gesture in flight.
func (a *Arena) Active() []string {
	out := make([]string, 0)
	for _, id := range a.IDs() {
		c := a.controllers[id]
		if c.Dragging() || c.Resizing() {
			out = append(out, id)
		}
	}
	return out
}
