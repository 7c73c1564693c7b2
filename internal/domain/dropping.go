package domain

// DroppingPosition is an externally driven pixel position for an item being
// dragged in from outside the grid.
type DroppingPosition struct {
	Left  float64
	Top   float64
	Event any
}

// SamePosition compares two dropping positions by value. Nil is treated as {0,0}.
func SamePosition(a, b *DroppingPosition) bool {
	var al, at, bl, bt float64
	if a != nil {
		al, at = a.Left, a.Top
	}
	if b != nil {
		bl, bt = b.Left, b.Top
	}
	return al == bl && at == bt
}
