package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hylla/gridcell/internal/adapters/server/common"
	"github.com/hylla/gridcell/internal/domain"
)

// stubGridService provides deterministic grid responses for handler tests.
type stubGridService struct {
	items      []common.Item
	item       common.Item
	events     []common.GestureEvent
	err        error
	lastGet    string
	lastDrag   common.DragRequest
	lastResize common.ResizeRequest
	lastDrop   common.DropRequest
	lastEvents common.ListEventsRequest
}

// ListItems returns the fixture items.
func (s *stubGridService) ListItems(context.Context) ([]common.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]common.Item(nil), s.items...), nil
}

// GetItem records the id and returns the fixture item.
func (s *stubGridService) GetItem(_ context.Context, id string) (common.Item, error) {
	s.lastGet = id
	if s.err != nil {
		return common.Item{}, s.err
	}
	return s.item, nil
}

// Drag records the request and returns the fixture item.
func (s *stubGridService) Drag(_ context.Context, req common.DragRequest) (common.Item, error) {
	s.lastDrag = req
	if s.err != nil {
		return common.Item{}, s.err
	}
	return s.item, nil
}

// Resize records the request and returns the fixture item.
func (s *stubGridService) Resize(_ context.Context, req common.ResizeRequest) (common.Item, error) {
	s.lastResize = req
	if s.err != nil {
		return common.Item{}, s.err
	}
	return s.item, nil
}

// Drop records the request and returns the fixture item.
func (s *stubGridService) Drop(_ context.Context, req common.DropRequest) (common.Item, error) {
	s.lastDrop = req
	if s.err != nil {
		return common.Item{}, s.err
	}
	return s.item, nil
}

// ListEvents records the request and returns the fixture events.
func (s *stubGridService) ListEvents(_ context.Context, req common.ListEventsRequest) ([]common.GestureEvent, error) {
	s.lastEvents = req
	if s.err != nil {
		return nil, s.err
	}
	return append([]common.GestureEvent(nil), s.events...), nil
}

// serve runs one request through a handler over stub.
func serve(stub *stubGridService, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	NewHandler(stub).ServeHTTP(rec, req)
	return rec
}

// TestHandlerListItems verifies the list envelope.
func TestHandlerListItems(t *testing.T) {
	stub := &stubGridService{items: []common.Item{{ID: "a"}, {ID: "b"}}}
	rec := serve(stub, http.MethodGet, "/items", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got struct {
		Items []common.Item `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got.Items) != 2 || got.Items[1].ID != "b" {
		t.Fatalf("unexpected items %#v", got.Items)
	}
}

// TestHandlerGetItem verifies the item route passes the path id.
func TestHandlerGetItem(t *testing.T) {
	stub := &stubGridService{item: common.Item{ID: "a", Rect: domain.GridRect{X: 1, W: 2, H: 1}}}
	rec := serve(stub, http.MethodGet, "/items/a/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if stub.lastGet != "a" {
		t.Fatalf("id = %q, want a", stub.lastGet)
	}
	var got common.Item
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Rect != stub.item.Rect {
		t.Fatalf("rect = %#v, want %#v", got.Rect, stub.item.Rect)
	}
}

// TestHandlerDragDecodesBody verifies the drag payload reaches the service.
func TestHandlerDragDecodesBody(t *testing.T) {
	stub := &stubGridService{item: common.Item{ID: "a", Dragging: true}}
	rec := serve(stub, http.MethodPost, "/items/a/drag", `{"phase":"move","dx":12.5,"dy":-4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	want := common.DragRequest{ItemID: "a", Phase: "move", DX: 12.5, DY: -4}
	if stub.lastDrag != want {
		t.Fatalf("request = %#v, want %#v", stub.lastDrag, want)
	}
}

// TestHandlerResizeDecodesBody verifies the resize payload reaches the service.
func TestHandlerResizeDecodesBody(t *testing.T) {
	stub := &stubGridService{}
	rec := serve(stub, http.MethodPost, "/items/a/resize", `{"phase":"start","handle":"nw","width":150,"height":80}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	want := common.ResizeRequest{ItemID: "a", Phase: "start", Handle: "nw", Width: 150, Height: 80}
	if stub.lastResize != want {
		t.Fatalf("request = %#v, want %#v", stub.lastResize, want)
	}
}

// TestHandlerDropEmptyBodyClears verifies an empty drop body clears the position.
func TestHandlerDropEmptyBodyClears(t *testing.T) {
	stub := &stubGridService{}
	rec := serve(stub, http.MethodPost, "/items/a/drop", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !stub.lastDrop.Clear || stub.lastDrop.ItemID != "a" {
		t.Fatalf("unexpected drop request %#v", stub.lastDrop)
	}

	rec = serve(stub, http.MethodPost, "/items/a/drop", `{"left":40,"top":8}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if stub.lastDrop.Clear || stub.lastDrop.Left != 40 || stub.lastDrop.Top != 8 {
		t.Fatalf("unexpected drop request %#v", stub.lastDrop)
	}
}

// TestHandlerListEvents verifies both event routes and limit parsing.
func TestHandlerListEvents(t *testing.T) {
	now := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	stub := &stubGridService{events: []common.GestureEvent{{ID: 1, ItemID: "a", Kind: "drag_stop", OccurredAt: now}}}

	rec := serve(stub, http.MethodGet, "/items/a/events?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if stub.lastEvents != (common.ListEventsRequest{ItemID: "a", Limit: 5}) {
		t.Fatalf("unexpected events request %#v", stub.lastEvents)
	}

	rec = serve(stub, http.MethodGet, "/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if stub.lastEvents.ItemID != "" {
		t.Fatalf("expected recent events request, got %#v", stub.lastEvents)
	}
	var got struct {
		Events []common.GestureEvent `json:"events"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got.Events) != 1 || !got.Events[0].OccurredAt.Equal(now) {
		t.Fatalf("unexpected events %#v", got.Events)
	}

	rec = serve(stub, http.MethodGet, "/events?limit=-3", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandlerErrorMapping verifies structured status mapping for service errors.
func TestHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid request",
			err:        errors.Join(common.ErrInvalidRequest, errors.New("bad input")),
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "not found",
			err:        errors.Join(common.ErrNotFound, errors.New("missing")),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "gesture conflict",
			err:        errors.Join(common.ErrGestureConflict, domain.ErrInvalidGestureSequence),
			wantStatus: http.StatusConflict,
			wantCode:   "gesture_conflict",
		},
		{
			name:       "static item",
			err:        common.ErrStaticItem,
			wantStatus: http.StatusConflict,
			wantCode:   "static_item",
		},
		{
			name:       "internal error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubGridService{err: tt.err}
			rec := serve(stub, http.MethodPost, "/items/a/drag", `{"phase":"stop"}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got ErrorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.Error.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", got.Error.Code, tt.wantCode)
			}
		})
	}
}

// TestHandlerRejectsMalformedRequests verifies routing and decoding failures.
func TestHandlerRejectsMalformedRequests(t *testing.T) {
	cases := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{name: "unknown route", method: http.MethodGet, target: "/widgets", wantStatus: http.StatusNotFound},
		{name: "unknown action", method: http.MethodPost, target: "/items/a/spin", body: `{}`, wantStatus: http.StatusNotFound},
		{name: "nested path", method: http.MethodGet, target: "/items/a/b/c", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodDelete, target: "/items", wantStatus: http.StatusMethodNotAllowed},
		{name: "get drag", method: http.MethodGet, target: "/items/a/drag", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown field", method: http.MethodPost, target: "/items/a/drag", body: `{"phase":"start","speed":3}`, wantStatus: http.StatusBadRequest},
		{name: "trailing content", method: http.MethodPost, target: "/items/a/resize", body: `{"phase":"start"}{}`, wantStatus: http.StatusBadRequest},
		{name: "missing body", method: http.MethodPost, target: "/items/a/drag", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubGridService{}, tt.method, tt.target, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

// TestHandlerWithoutService verifies the unavailable response.
func TestHandlerWithoutService(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
