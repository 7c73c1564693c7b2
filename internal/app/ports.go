package app

import (
	"context"

	"github.com/hylla/gridcell/internal/domain"
)

// Repository persists gesture notifications emitted by the service.
type Repository interface {
	AppendGestureEvent(context.Context, domain.GestureEvent) error
	ListItemGestureEvents(context.Context, string, int) ([]domain.GestureEvent, error)
	ListRecentGestureEvents(context.Context, int) ([]domain.GestureEvent, error)
}
