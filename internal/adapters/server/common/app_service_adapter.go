package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hylla/gridcell/internal/app"
	"github.com/hylla/gridcell/internal/domain"
)

// AppServiceAdapter serves GridService from the application service.
type AppServiceAdapter struct {
	service *app.Service
}

// NewAppServiceAdapter constructs one adapter over service.
func NewAppServiceAdapter(service *app.Service) *AppServiceAdapter {
	return &AppServiceAdapter{service: service}
}

// ListItems returns every item.
func (a *AppServiceAdapter) ListItems(ctx context.Context) ([]Item, error) {
	views := a.service.ListItems(ctx)
	out := make([]Item, 0, len(views))
	for _, view := range views {
		out = append(out, mapItemView(view))
	}
	return out, nil
}

// GetItem returns one item.
func (a *AppServiceAdapter) GetItem(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, fmt.Errorf("get item: %w", ErrInvalidRequest)
	}
	view, err := a.service.GetItem(ctx, id)
	if err != nil {
		return Item{}, mapAppError("get item", err)
	}
	return mapItemView(view), nil
}

// Drag applies one drag step.
func (a *AppServiceAdapter) Drag(ctx context.Context, in DragRequest) (Item, error) {
	itemID := strings.TrimSpace(in.ItemID)
	if itemID == "" {
		return Item{}, fmt.Errorf("drag item: item id is required: %w", ErrInvalidRequest)
	}
	phase, err := app.ParsePhase(in.Phase)
	if err != nil {
		return Item{}, mapAppError("drag item", err)
	}
	view, err := a.service.Drag(ctx, app.DragInput{
		ItemID: itemID,
		Phase:  phase,
		DeltaX: in.DX,
		DeltaY: in.DY,
	})
	if err != nil {
		return Item{}, mapAppError("drag item", err)
	}
	return mapItemView(view), nil
}

// Resize applies one resize step.
func (a *AppServiceAdapter) Resize(ctx context.Context, in ResizeRequest) (Item, error) {
	itemID := strings.TrimSpace(in.ItemID)
	if itemID == "" {
		return Item{}, fmt.Errorf("resize item: item id is required: %w", ErrInvalidRequest)
	}
	phase, err := app.ParsePhase(in.Phase)
	if err != nil {
		return Item{}, mapAppError("resize item", err)
	}
	handle, err := domain.ParseHandle(in.Handle)
	if err != nil {
		return Item{}, mapAppError("resize item", err)
	}
	if in.Width < 0 || in.Height < 0 {
		return Item{}, fmt.Errorf("resize item: size must be >= 0: %w", ErrInvalidRequest)
	}
	view, err := a.service.Resize(ctx, app.ResizeInput{
		ItemID: itemID,
		Phase:  phase,
		Handle: handle,
		Width:  in.Width,
		Height: in.Height,
	})
	if err != nil {
		return Item{}, mapAppError("resize item", err)
	}
	return mapItemView(view), nil
}

// Drop feeds one dropping position.
func (a *AppServiceAdapter) Drop(ctx context.Context, in DropRequest) (Item, error) {
	itemID := strings.TrimSpace(in.ItemID)
	if itemID == "" {
		return Item{}, fmt.Errorf("drop item: item id is required: %w", ErrInvalidRequest)
	}
	input := app.DropInput{ItemID: itemID, W: in.W, H: in.H}
	if !in.Clear {
		input.Position = &domain.DroppingPosition{Left: in.Left, Top: in.Top}
	}
	view, err := a.service.Drop(ctx, input)
	if err != nil {
		return Item{}, mapAppError("drop item", err)
	}
	return mapItemView(view), nil
}

// ListEvents returns journaled notifications, newest first.
func (a *AppServiceAdapter) ListEvents(ctx context.Context, in ListEventsRequest) ([]GestureEvent, error) {
	if in.Limit < 0 {
		return nil, fmt.Errorf("list events: limit must be >= 0: %w", ErrInvalidRequest)
	}
	var (
		events []domain.GestureEvent
		err    error
	)
	if itemID := strings.TrimSpace(in.ItemID); itemID != "" {
		if _, getErr := a.service.GetItem(ctx, itemID); getErr != nil {
			return nil, mapAppError("list events", getErr)
		}
		events, err = a.service.ListItemEvents(ctx, itemID, in.Limit)
	} else {
		events, err = a.service.ListRecentEvents(ctx, in.Limit)
	}
	if err != nil {
		return nil, mapAppError("list events", err)
	}
	out := make([]GestureEvent, 0, len(events))
	for _, event := range events {
		out = append(out, mapGestureEvent(event))
	}
	return out, nil
}

// mapItemView converts one app view into the transport shape.
func mapItemView(view app.ItemView) Item {
	return Item{
		ID:          view.ID,
		Rect:        view.Rect,
		Constraints: view.Constraints,
		Static:      view.Static,
		Pixel:       view.Pixel,
		Style:       view.Style,
		CSS:         view.Style.CSS(),
		Dragging:    view.Dragging,
		Resizing:    view.Resizing,
	}
}

// mapGestureEvent converts one journal record into the transport shape.
func mapGestureEvent(event domain.GestureEvent) GestureEvent {
	return GestureEvent{
		ID:         event.ID,
		GestureID:  event.GestureID,
		ItemID:     event.ItemID,
		Kind:       string(event.Kind),
		Rect:       event.Rect,
		Pixel:      event.Pixel,
		Handle:     string(event.Handle),
		OccurredAt: event.OccurredAt,
	}
}

// mapAppError maps app/domain errors into transport-layer error sentinels.
func mapAppError(operation string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNotFound, err))
	case errors.Is(err, app.ErrStaticItem):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrStaticItem, err))
	case errors.Is(err, domain.ErrInvalidGestureSequence),
		errors.Is(err, domain.ErrGestureInProgress):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrGestureConflict, err))
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidHandle),
		errors.Is(err, domain.ErrInvalidRect),
		errors.Is(err, domain.ErrInvalidConstraints),
		errors.Is(err, app.ErrInvalidPhase),
		errors.Is(err, app.ErrDuplicateItem):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrInvalidRequest, err))
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
