package domain

import "math"

// Unbounded marks an open upper bound for row counts and size constraints.
const Unbounded = math.MaxInt32

// Vec represents one horizontal/vertical pixel pair such as a margin or padding.
type Vec struct {
	X float64
	Y float64
}

// GridParams describes the container geometry one item is laid out against.
type GridParams struct {
	Cols             int
	ContainerWidth   float64
	Margin           Vec
	ContainerPadding Vec
	RowHeight        float64
	MaxRows          int
}

// RowLimit returns the effective row cap, Unbounded when none is configured.
func (p GridParams) RowLimit() int {
	if p.MaxRows <= 0 {
		return Unbounded
	}
	return p.MaxRows
}

// HasRowLimit reports whether a finite row cap is configured.
func (p GridParams) HasRowLimit() bool {
	return p.RowLimit() != Unbounded
}

// Validate checks the parameters the transform divides by.
func (p GridParams) Validate() error {
	if p.Cols < 1 {
		return ErrInvalidGridParams
	}
	if p.RowHeight <= 0 || p.ContainerWidth <= 0 {
		return ErrInvalidGridParams
	}
	if p.Margin.X < 0 || p.Margin.Y < 0 || p.ContainerPadding.X < 0 || p.ContainerPadding.Y < 0 {
		return ErrInvalidGridParams
	}
	return nil
}

// GridRect is an item position and span in grid cells.
type GridRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Validate checks the rect invariants.
func (r GridRect) Validate() error {
	if r.X < 0 || r.Y < 0 || r.W < 1 || r.H < 1 {
		return ErrInvalidRect
	}
	return nil
}

// PixelRect is the pixel-space box of an item.
type PixelRect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge.
func (r PixelRect) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns the bottom edge.
func (r PixelRect) Bottom() float64 {
	return r.Top + r.Height
}

// Position returns the top/left corner.
func (r PixelRect) Position() Position {
	return Position{Top: r.Top, Left: r.Left}
}

// Size returns the width/height pair.
func (r PixelRect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains reports whether the point lies inside the box.
func (r PixelRect) Contains(left, top float64) bool {
	return left >= r.Left && left < r.Right() && top >= r.Top && top < r.Bottom()
}

// Position is a pixel offset.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Size is a pixel extent.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Constraints bounds an item's span in grid cells. Zero maxima mean unbounded.
type Constraints struct {
	MinW int `json:"min_w"`
	MaxW int `json:"max_w"`
	MinH int `json:"min_h"`
	MaxH int `json:"max_h"`
}

// DefaultConstraints returns the host defaults: minimum one cell, no maximum.
func DefaultConstraints() Constraints {
	return Constraints{MinW: 1, MaxW: Unbounded, MinH: 1, MaxH: Unbounded}
}

// Normalize fills defaults so every bound is usable in a clamp.
func (c Constraints) Normalize() Constraints {
	if c.MinW < 1 {
		c.MinW = 1
	}
	if c.MinH < 1 {
		c.MinH = 1
	}
	if c.MaxW <= 0 {
		c.MaxW = Unbounded
	}
	if c.MaxH <= 0 {
		c.MaxH = Unbounded
	}
	return c
}

// Validate rejects inverted bounds.
func (c Constraints) Validate() error {
	n := c.Normalize()
	if n.MinW > n.MaxW || n.MinH > n.MaxH {
		return ErrInvalidConstraints
	}
	return nil
}
