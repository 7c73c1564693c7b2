package tui

// Option configures a Model.
type Option func(*Model)

// WithIDGenerator sets the id source for dropped items.
func WithIDGenerator(fn func() string) Option {
	return func(m *Model) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithClipboardWriter replaces the system clipboard.
func WithClipboardWriter(fn func(string) error) Option {
	return func(m *Model) {
		if fn != nil {
			m.writeClip = fn
		}
	}
}

// WithDropSize sets the grid span of items dropped from the palette.
func WithDropSize(w, h int) Option {
	return func(m *Model) {
		if w > 0 && h > 0 {
			m.dropSize = [2]int{w, h}
		}
	}
}

// WithEventLimit caps the rows shown by the events panel.
func WithEventLimit(limit int) Option {
	return func(m *Model) {
		if limit > 0 {
			m.eventLimit = limit
		}
	}
}
