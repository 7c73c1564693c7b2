package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hylla/gridcell/internal/app"
	"github.com/hylla/gridcell/internal/domain"
)

func TestRepository_AppendAndListGestureEvents(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []domain.GestureEvent{
		{GestureID: "g1", ItemID: "a", Kind: domain.GestureDragStart, Rect: domain.GridRect{W: 2, H: 1}, OccurredAt: base},
		{GestureID: "g1", ItemID: "a", Kind: domain.GestureDragStop, Rect: domain.GridRect{X: 3, Y: 1, W: 2, H: 1}, Pixel: domain.PixelRect{Top: 10, Left: 30, Width: 20, Height: 10}, OccurredAt: base.Add(time.Second)},
		{GestureID: "g2", ItemID: "b", Kind: domain.GestureResizeStop, Rect: domain.GridRect{X: 1, W: 3, H: 2}, Handle: domain.HandleSE, OccurredAt: base.Add(2 * time.Second)},
	}
	for _, event := range events {
		if err := repo.AppendGestureEvent(ctx, event); err != nil {
			t.Fatalf("AppendGestureEvent() error = %v", err)
		}
	}

	itemEvents, err := repo.ListItemGestureEvents(ctx, "a", 10)
	if err != nil {
		t.Fatalf("ListItemGestureEvents() error = %v", err)
	}
	if len(itemEvents) != 2 {
		t.Fatalf("expected 2 events for item a, got %d", len(itemEvents))
	}
	newest := itemEvents[0]
	if newest.Kind != domain.GestureDragStop || newest.Rect != events[1].Rect {
		t.Fatalf("unexpected newest event %#v", newest)
	}
	if newest.Pixel != events[1].Pixel {
		t.Fatalf("pixel box not round-tripped: %#v", newest.Pixel)
	}
	if !newest.OccurredAt.Equal(events[1].OccurredAt) {
		t.Fatalf("unexpected timestamp %v", newest.OccurredAt)
	}
	if newest.ID == 0 {
		t.Fatal("expected assigned row id")
	}

	recent, err := repo.ListRecentGestureEvents(ctx, 1)
	if err != nil {
		t.Fatalf("ListRecentGestureEvents() error = %v", err)
	}
	if len(recent) != 1 || recent[0].ItemID != "b" || recent[0].Handle != domain.HandleSE {
		t.Fatalf("unexpected recent events %#v", recent)
	}

	gesture, err := repo.ListGestureEvents(ctx, "g1")
	if err != nil {
		t.Fatalf("ListGestureEvents() error = %v", err)
	}
	if len(gesture) != 2 || gesture[0].Kind != domain.GestureDragStart || gesture[1].Kind != domain.GestureDragStop {
		t.Fatalf("unexpected gesture events %#v", gesture)
	}
}

func TestRepository_AppendRejectsMissingItem(t *testing.T) {
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	err = repo.AppendGestureEvent(context.Background(), domain.GestureEvent{GestureID: "g", Kind: domain.GestureDrag})
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestRepository_ReopenKeepsJournal(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "gridcell.db")
	repo, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := repo.AppendGestureEvent(ctx, domain.GestureEvent{GestureID: "g", ItemID: "a", Kind: domain.GestureDragStart, Rect: domain.GridRect{W: 1, H: 1}}); err != nil {
		t.Fatalf("AppendGestureEvent() error = %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open(reopen) error = %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	events, err := reopened.ListItemGestureEvents(ctx, "a", 0)
	if err != nil {
		t.Fatalf("ListItemGestureEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected journal to survive reopen, got %d events", len(events))
	}
	if events[0].OccurredAt.IsZero() {
		t.Fatal("expected zero timestamps to be filled on append")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRepository_JournalsServiceGestures(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	item, err := domain.NewItem("a", domain.GridRect{W: 1, H: 1}, domain.DefaultConstraints())
	if err != nil {
		t.Fatalf("NewItem() error = %v", err)
	}
	svc, err := app.NewService(repo, func() string { return "gesture-1" }, nil, nil, app.ServiceConfig{
		Params: domain.GridParams{Cols: 4, ContainerWidth: 400, RowHeight: 50},
	}, []domain.Item{item})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	for _, step := range []app.DragInput{
		{ItemID: "a", Phase: app.PhaseStart},
		{ItemID: "a", Phase: app.PhaseMove, DeltaX: 210, DeltaY: 40},
		{ItemID: "a", Phase: app.PhaseStop},
	} {
		if _, err := svc.Drag(ctx, step); err != nil {
			t.Fatalf("Drag(%s) error = %v", step.Phase, err)
		}
	}

	events, err := repo.ListGestureEvents(ctx, "gesture-1")
	if err != nil {
		t.Fatalf("ListGestureEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 journaled events, got %d", len(events))
	}
	if got := events[2].Rect; got != (domain.GridRect{X: 2, Y: 1, W: 1, H: 1}) {
		t.Fatalf("unexpected stop rect %#v", got)
	}
}
