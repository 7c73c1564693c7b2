// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"

	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/geometry"
)

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports a missing item.
var ErrNotFound = errors.New("not found")

// ErrGestureConflict reports a gesture step that does not fit the item's
// current gesture state.
var ErrGestureConflict = errors.New("gesture conflict")

// ErrStaticItem reports a gesture aimed at a pinned item.
var ErrStaticItem = errors.New("static item")

// Item is one grid item as served to transports.
type Item struct {
	ID          string             `json:"id"`
	Rect        domain.GridRect    `json:"rect"`
	Constraints domain.Constraints `json:"constraints"`
	Static      bool               `json:"static"`
	Pixel       domain.PixelRect   `json:"pixel"`
	Style       geometry.Style     `json:"style"`
	CSS         string             `json:"css"`
	Dragging    bool               `json:"dragging"`
	Resizing    bool               `json:"resizing"`
}

// GestureEvent is one journaled notification as served to transports.
type GestureEvent struct {
	ID         int64            `json:"id"`
	GestureID  string           `json:"gesture_id"`
	ItemID     string           `json:"item_id"`
	Kind       string           `json:"kind"`
	Rect       domain.GridRect  `json:"rect"`
	Pixel      domain.PixelRect `json:"pixel"`
	Handle     string           `json:"handle,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// DragRequest stores transport input for one drag step.
type DragRequest struct {
	ItemID string  `json:"-"`
	Phase  string  `json:"phase"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

// ResizeRequest stores transport input for one resize step.
type ResizeRequest struct {
	ItemID string  `json:"-"`
	Phase  string  `json:"phase"`
	Handle string  `json:"handle"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DropRequest stores transport input for one external dropping position.
// Clear forgets the stored position without ending the drag.
type DropRequest struct {
	ItemID string  `json:"-"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Clear  bool    `json:"clear"`
	W      int     `json:"w"`
	H      int     `json:"h"`
}

// ListEventsRequest stores transport input for journal reads. An empty
// ItemID lists across all items.
type ListEventsRequest struct {
	ItemID string
	Limit  int
}

// GridService is the app-facing contract served by the HTTP and MCP adapters.
type GridService interface {
	ListItems(context.Context) ([]Item, error)
	GetItem(context.Context, string) (Item, error)
	Drag(context.Context, DragRequest) (Item, error)
	Resize(context.Context, ResizeRequest) (Item, error)
	Drop(context.Context, DropRequest) (Item, error)
	ListEvents(context.Context, ListEventsRequest) ([]GestureEvent, error)
}
