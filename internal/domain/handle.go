package domain

import "strings"

// Handle identifies the resize edge or corner being dragged.
type Handle string

// Handle values, one per compass direction.
const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Edge names which side of one axis moves during a resize.
type Edge int

// EdgeNone and related constants describe the mobile edge on one axis.
const (
	EdgeNone Edge = iota
	EdgeStart
	EdgeEnd
)

// handleEdges maps each handle to its mobile horizontal and vertical edge.
// Start is west/north, end is east/south.
var handleEdges = map[Handle][2]Edge{
	HandleN:  {EdgeNone, EdgeStart},
	HandleS:  {EdgeNone, EdgeEnd},
	HandleE:  {EdgeEnd, EdgeNone},
	HandleW:  {EdgeStart, EdgeNone},
	HandleNE: {EdgeEnd, EdgeStart},
	HandleNW: {EdgeStart, EdgeStart},
	HandleSE: {EdgeEnd, EdgeEnd},
	HandleSW: {EdgeStart, EdgeEnd},
}

// Handles lists every handle in a stable order.
func Handles() []Handle {
	return []Handle{HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW}
}

// ParseHandle normalizes one handle token.
func ParseHandle(raw string) (Handle, error) {
	h := Handle(strings.ToLower(strings.TrimSpace(raw)))
	if !h.Valid() {
		return "", ErrInvalidHandle
	}
	return h, nil
}

// Valid reports whether the handle is one of the eight known tokens.
func (h Handle) Valid() bool {
	_, ok := handleEdges[h]
	return ok
}

// Edges returns the mobile horizontal and vertical edge for the handle.
func (h Handle) Edges() (horizontal, vertical Edge) {
	e := handleEdges[h]
	return e[0], e[1]
}

// MovesStartX reports whether the west edge moves.
func (h Handle) MovesStartX() bool {
	horizontal, _ := h.Edges()
	return horizontal == EdgeStart
}

// MovesStartY reports whether the north edge moves.
func (h Handle) MovesStartY() bool {
	_, vertical := h.Edges()
	return vertical == EdgeStart
}
