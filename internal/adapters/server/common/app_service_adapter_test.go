package common

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hylla/gridcell/internal/adapters/storage/sqlite"
	"github.com/hylla/gridcell/internal/app"
	"github.com/hylla/gridcell/internal/domain"
)

// newAdapter builds an adapter over a service journaling into memory.
func newAdapter(t *testing.T, items ...domain.Item) *AppServiceAdapter {
	t.Helper()
	repo, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	svc, err := app.NewService(repo, func() string { return "g" }, nil, nil, app.ServiceConfig{
		Params: domain.GridParams{Cols: 10, ContainerWidth: 1000, RowHeight: 100},
	}, items)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return NewAppServiceAdapter(svc)
}

// TestAdapterDragLifecycle verifies drag steps map onto the service and journal.
func TestAdapterDragLifecycle(t *testing.T) {
	adapter := newAdapter(t, domain.Item{ID: "a", Rect: domain.GridRect{W: 1, H: 1}})
	ctx := context.Background()

	if _, err := adapter.Drag(ctx, DragRequest{ItemID: "a", Phase: "start"}); err != nil {
		t.Fatalf("Drag(start) error = %v", err)
	}
	item, err := adapter.Drag(ctx, DragRequest{ItemID: "a", Phase: "move", DX: 310, DY: 90})
	if err != nil {
		t.Fatalf("Drag(move) error = %v", err)
	}
	if !item.Dragging || !strings.Contains(item.CSS, "translate(310px,90px)") {
		t.Fatalf("unexpected live item %#v", item)
	}
	item, err = adapter.Drag(ctx, DragRequest{ItemID: "a", Phase: "stop"})
	if err != nil {
		t.Fatalf("Drag(stop) error = %v", err)
	}
	if item.Rect != (domain.GridRect{X: 3, Y: 1, W: 1, H: 1}) {
		t.Fatalf("unexpected committed rect %#v", item.Rect)
	}

	events, err := adapter.ListEvents(ctx, ListEventsRequest{ItemID: "a"})
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 3 || events[0].Kind != string(domain.GestureDragStop) {
		t.Fatalf("unexpected events %#v", events)
	}
}

// TestAdapterErrorMapping verifies app and domain errors map to transport sentinels.
func TestAdapterErrorMapping(t *testing.T) {
	pinned := domain.Item{ID: "pinned", Rect: domain.GridRect{X: 5, W: 1, H: 1}, Static: true}
	adapter := newAdapter(t, domain.Item{ID: "a", Rect: domain.GridRect{W: 1, H: 1}}, pinned)
	ctx := context.Background()

	cases := map[string]struct {
		call func() error
		want error
	}{
		"missing item": {
			call: func() error { _, err := adapter.GetItem(ctx, "nope"); return err },
			want: ErrNotFound,
		},
		"empty id": {
			call: func() error { _, err := adapter.Drag(ctx, DragRequest{Phase: "start"}); return err },
			want: ErrInvalidRequest,
		},
		"bad phase": {
			call: func() error { _, err := adapter.Drag(ctx, DragRequest{ItemID: "a", Phase: "hover"}); return err },
			want: ErrInvalidRequest,
		},
		"move before start": {
			call: func() error { _, err := adapter.Drag(ctx, DragRequest{ItemID: "a", Phase: "move"}); return err },
			want: ErrGestureConflict,
		},
		"bad handle": {
			call: func() error {
				_, err := adapter.Resize(ctx, ResizeRequest{ItemID: "a", Phase: "start", Handle: "up"})
				return err
			},
			want: ErrInvalidRequest,
		},
		"static item": {
			call: func() error { _, err := adapter.Drag(ctx, DragRequest{ItemID: "pinned", Phase: "start"}); return err },
			want: ErrStaticItem,
		},
		"events for missing item": {
			call: func() error { _, err := adapter.ListEvents(ctx, ListEventsRequest{ItemID: "nope"}); return err },
			want: ErrNotFound,
		},
		"clear drop for missing item": {
			call: func() error { _, err := adapter.Drop(ctx, DropRequest{ItemID: "nope", Clear: true}); return err },
			want: ErrNotFound,
		},
		"negative limit": {
			call: func() error { _, err := adapter.ListEvents(ctx, ListEventsRequest{Limit: -1}); return err },
			want: ErrInvalidRequest,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

// TestAdapterDropClear verifies clear keeps the drag running.
func TestAdapterDropClear(t *testing.T) {
	adapter := newAdapter(t)
	ctx := context.Background()
	item, err := adapter.Drop(ctx, DropRequest{ItemID: "incoming", Left: 120, Top: 0, W: 2, H: 1})
	if err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
	if !item.Dragging || item.Pixel.Left != 120 {
		t.Fatalf("unexpected dropping item %#v", item)
	}
	item, err = adapter.Drop(ctx, DropRequest{ItemID: "incoming", Clear: true})
	if err != nil {
		t.Fatalf("Drop(clear) error = %v", err)
	}
	if !item.Dragging {
		t.Fatal("expected drag to keep running after clear")
	}
	items, err := adapter.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "incoming" {
		t.Fatalf("unexpected items %#v", items)
	}
}
