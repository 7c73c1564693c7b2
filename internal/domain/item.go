package domain

import "strings"

// Item is one host-owned grid cell and its committed geometry.
type Item struct {
	ID          string
	Rect        GridRect
	Constraints Constraints
	Static      bool
}

// NewItem constructs a validated item.
func NewItem(id string, rect GridRect, constraints Constraints) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrInvalidID
	}
	if err := rect.Validate(); err != nil {
		return Item{}, err
	}
	if err := constraints.Validate(); err != nil {
		return Item{}, err
	}
	return Item{
		ID:          id,
		Rect:        rect,
		Constraints: constraints.Normalize(),
	}, nil
}
