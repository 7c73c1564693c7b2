package app

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/geometry"
	"github.com/hylla/gridcell/internal/gesture"
)

// Phase names one step of a gesture.
type Phase string

// Phase values accepted by Drag and Resize.
const (
	PhaseStart Phase = "start"
	PhaseMove  Phase = "move"
	PhaseStop  Phase = "stop"
)

// ParsePhase normalizes one phase name.
func ParsePhase(raw string) (Phase, error) {
	switch phase := Phase(strings.ToLower(strings.TrimSpace(raw))); phase {
	case PhaseStart, PhaseMove, PhaseStop:
		return phase, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPhase, raw)
	}
}

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	Params         domain.GridParams
	RenderMode     geometry.RenderMode
	Bounded        bool
	TransformScale float64
}

// IDGenerator returns unique identifiers for new gestures.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// ItemView is one item as the rendering and API layers see it.
type ItemView struct {
	ID          string             `json:"id"`
	Rect        domain.GridRect    `json:"rect"`
	Constraints domain.Constraints `json:"constraints"`
	Static      bool               `json:"static"`
	Pixel       domain.PixelRect   `json:"pixel"`
	Style       geometry.Style     `json:"style"`
	Dragging    bool               `json:"dragging"`
	Resizing    bool               `json:"resizing"`
}

// DragInput describes one drag step.
type DragInput struct {
	ItemID string
	Phase  Phase
	DeltaX float64
	DeltaY float64
	Node   gesture.Element
	Event  any
}

// ResizeInput describes one resize step. Width and Height are the proposed
// pixel size of the box.
type ResizeInput struct {
	ItemID string
	Phase  Phase
	Handle domain.Handle
	Width  float64
	Height float64
	Node   gesture.Element
	Event  any
}

// DropInput feeds an externally driven dropping position to one item. A nil
// Position leaves the stored value and the drag untouched. W and H size the
// placeholder item created for an unknown id.
type DropInput struct {
	ItemID   string
	Position *domain.DroppingPosition
	W        int
	H        int
	Node     gesture.Element
}

// Service hosts the grid items and their gesture controllers. It commits a
// new rect when a gesture stops and journals every notification.
type Service struct {
	mu       sync.Mutex
	repo     Repository
	idGen    IDGenerator
	clock    Clock
	logger   *charmLog.Logger
	cfg      ServiceConfig
	items    map[string]domain.Item
	order    []string
	arena    *gesture.Arena
	gestures map[string]string
	pending  []domain.GestureEvent
}

// NewService constructs a service over the given items.
func NewService(repo Repository, idGen IDGenerator, clock Clock, logger *charmLog.Logger, cfg ServiceConfig, items []domain.Item) (*Service, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("validate grid params: %w", err)
	}
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}
	if cfg.RenderMode == "" {
		cfg.RenderMode = geometry.RenderTransform
	}
	s := &Service{
		repo:     repo,
		idGen:    idGen,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
		items:    map[string]domain.Item{},
		arena:    gesture.NewArena(),
		gestures: map[string]string{},
	}
	for _, item := range items {
		if err := s.addItem(item); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Params returns the current grid parameters.
func (s *Service) Params() domain.GridParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Params
}

// SetContainerWidth updates the measured container width.
func (s *Service) SetContainerWidth(width float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	params := s.cfg.Params
	params.ContainerWidth = width
	if err := params.Validate(); err != nil {
		return fmt.Errorf("set container width %v: %w", width, err)
	}
	s.cfg.Params = params
	return nil
}

// ContainerHeight returns the pixel height of the laid out grid: the row cap
// when one is set, otherwise the lowest committed item.
func (s *Service) ContainerHeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containerHeight()
}

// AddItem registers a new item.
func (s *Service) AddItem(_ context.Context, item domain.Item) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.addItem(item); err != nil {
		return ItemView{}, err
	}
	return s.view(item.ID), nil
}

// RemoveItem deletes one item and drops any gesture in flight on it.
func (s *Service) RemoveItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("remove item %q: %w", id, ErrNotFound)
	}
	delete(s.items, id)
	delete(s.gestures, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	s.arena.Remove(id)
	return nil
}

// ListItems returns every item in insertion order.
func (s *Service) ListItems(_ context.Context) []ItemView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ItemView, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.view(id))
	}
	return out
}

// GetItem returns one item.
func (s *Service) GetItem(_ context.Context, id string) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ItemView{}, fmt.Errorf("get item %q: %w", id, ErrNotFound)
	}
	return s.view(id), nil
}

// Drag applies one drag step and journals what the controller emitted.
func (s *Service) Drag(ctx context.Context, in DragInput) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, err := s.controllerFor(in.ItemID)
	if err != nil {
		return ItemView{}, err
	}
	node := in.Node
	if node == nil {
		node = s.virtualNode(ctrl)
	}
	switch in.Phase {
	case PhaseStart:
		err = ctrl.DragStart(in.Event, node)
	case PhaseMove:
		err = ctrl.Drag(in.Event, in.DeltaX, in.DeltaY, node)
	case PhaseStop:
		err = ctrl.DragStop(in.Event, node)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidPhase, in.Phase)
	}
	if err != nil {
		s.pending = s.pending[:0]
		return ItemView{}, err
	}
	if err := s.flush(ctx); err != nil {
		return ItemView{}, err
	}
	return s.view(in.ItemID), nil
}

// Resize applies one resize step and journals what the controller emitted.
func (s *Service) Resize(ctx context.Context, in ResizeInput) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, err := s.controllerFor(in.ItemID)
	if err != nil {
		return ItemView{}, err
	}
	node := in.Node
	if node == nil {
		node = s.virtualNode(ctrl)
	}
	size := domain.Size{Width: in.Width, Height: in.Height}
	switch in.Phase {
	case PhaseStart:
		err = ctrl.ResizeStart(in.Event, node, size, in.Handle)
	case PhaseMove:
		err = ctrl.Resize(in.Event, node, size, in.Handle)
	case PhaseStop:
		err = ctrl.ResizeStop(in.Event, node, size, in.Handle)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidPhase, in.Phase)
	}
	if err != nil {
		s.pending = s.pending[:0]
		return ItemView{}, err
	}
	if err := s.flush(ctx); err != nil {
		return ItemView{}, err
	}
	return s.view(in.ItemID), nil
}

// Drop feeds one dropping position into the item's controller. Unknown ids
// get a placeholder item so a drag from outside the grid can be previewed;
// the placeholder is committed like any other item when the drag stops.
// Clearing the position of an unknown id returns ErrNotFound.
func (s *Service) Drop(ctx context.Context, in DropInput) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[in.ItemID]; !ok {
		if in.Position == nil {
			return ItemView{}, fmt.Errorf("drop item %q: %w", in.ItemID, ErrNotFound)
		}
		item, err := domain.NewItem(in.ItemID, domain.GridRect{W: max(in.W, 1), H: max(in.H, 1)}, domain.DefaultConstraints())
		if err != nil {
			return ItemView{}, fmt.Errorf("create dropping item: %w", err)
		}
		if err := s.addItem(item); err != nil {
			return ItemView{}, err
		}
	}
	ctrl, err := s.controllerFor(in.ItemID)
	if err != nil {
		return ItemView{}, err
	}
	node := in.Node
	if node == nil {
		node = s.virtualNode(ctrl)
	}
	ctrl.SyncDropping(in.Position, node)
	if err := s.flush(ctx); err != nil {
		return ItemView{}, err
	}
	return s.view(in.ItemID), nil
}

// ListItemEvents returns the newest journaled notifications for one item.
func (s *Service) ListItemEvents(ctx context.Context, itemID string, limit int) ([]domain.GestureEvent, error) {
	if s.repo == nil {
		return nil, nil
	}
	events, err := s.repo.ListItemGestureEvents(ctx, strings.TrimSpace(itemID), limit)
	if err != nil {
		return nil, fmt.Errorf("list events for item %q: %w", itemID, err)
	}
	return events, nil
}

// ListRecentEvents returns the newest journaled notifications for all items.
func (s *Service) ListRecentEvents(ctx context.Context, limit int) ([]domain.GestureEvent, error) {
	if s.repo == nil {
		return nil, nil
	}
	events, err := s.repo.ListRecentGestureEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	return events, nil
}

// addItem stores item and its controller. Callers hold s.mu.
func (s *Service) addItem(item domain.Item) error {
	if strings.TrimSpace(item.ID) == "" {
		return domain.ErrInvalidID
	}
	if err := item.Rect.Validate(); err != nil {
		return fmt.Errorf("item %q: %w", item.ID, err)
	}
	if _, ok := s.items[item.ID]; ok {
		return fmt.Errorf("add item %q: %w", item.ID, ErrDuplicateItem)
	}
	item.Constraints = item.Constraints.Normalize()
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	s.arena.Ensure(s.props(item))
	return nil
}

// controllerFor refreshes and returns the controller of one movable item.
func (s *Service) controllerFor(id string) (*gesture.Controller, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	if item.Static {
		return nil, fmt.Errorf("item %q: %w", id, ErrStaticItem)
	}
	return s.arena.Ensure(s.props(item)), nil
}

// props builds the controller props for item with the service callbacks.
func (s *Service) props(item domain.Item) gesture.Props {
	return gesture.Props{
		ID:             item.ID,
		Rect:           item.Rect,
		Constraints:    item.Constraints,
		Params:         s.cfg.Params,
		Bounded:        s.cfg.Bounded,
		TransformScale: s.cfg.TransformScale,
		RenderMode:     s.cfg.RenderMode,
		Callbacks: gesture.Callbacks{
			OnDragStart:   s.onDrag(domain.GestureDragStart),
			OnDrag:        s.onDrag(domain.GestureDrag),
			OnDragStop:    s.onDrag(domain.GestureDragStop),
			OnResizeStart: s.onResize(domain.GestureResizeStart),
			OnResize:      s.onResize(domain.GestureResize),
			OnResizeStop:  s.onResize(domain.GestureResizeStop),
		},
	}
}

// onDrag records a drag notification and commits the position on stop.
func (s *Service) onDrag(kind domain.GestureKind) gesture.DragFunc {
	return func(itemID string, x, y int, payload gesture.DragPayload) {
		item := s.items[itemID]
		rect := domain.GridRect{X: x, Y: y, W: item.Rect.W, H: item.Rect.H}
		p := s.cfg.Params
		pixel := domain.PixelRect{
			Top:    payload.NewPosition.Top,
			Left:   payload.NewPosition.Left,
			Width:  geometry.SpanPx(item.Rect.W, geometry.ColumnWidth(p), p.Margin.X),
			Height: geometry.SpanPx(item.Rect.H, p.RowHeight, p.Margin.Y),
		}
		s.record(kind, itemID, rect, pixel, "")
		if kind == domain.GestureDragStop {
			s.commit(item, rect)
		}
	}
}

// onResize records a resize notification and commits the span on stop.
func (s *Service) onResize(kind domain.GestureKind) gesture.ResizeFunc {
	return func(itemID string, w, h int, payload gesture.ResizePayload) {
		item := s.items[itemID]
		rect := domain.GridRect{X: payload.X, Y: payload.Y, W: w, H: h}
		s.record(kind, itemID, rect, payload.Size, payload.Handle)
		if kind == domain.GestureResizeStop {
			s.commit(item, rect)
		}
	}
}

// record buffers one notification under the item's current gesture id.
func (s *Service) record(kind domain.GestureKind, itemID string, rect domain.GridRect, pixel domain.PixelRect, handle domain.Handle) {
	gestureID, ok := s.gestures[itemID]
	if !ok {
		gestureID = s.idGen()
		s.gestures[itemID] = gestureID
	}
	s.pending = append(s.pending, domain.GestureEvent{
		GestureID:  gestureID,
		ItemID:     itemID,
		Kind:       kind,
		Rect:       rect,
		Pixel:      pixel,
		Handle:     handle,
		OccurredAt: s.clock().UTC(),
	})
	if kind.Terminal() {
		delete(s.gestures, itemID)
	}
}

// commit stores rect as the item's geometry.
func (s *Service) commit(item domain.Item, rect domain.GridRect) {
	if item.Rect == rect {
		return
	}
	s.logger.Debug("gesture committed", "item", item.ID, "from", item.Rect, "to", rect)
	item.Rect = rect
	s.items[item.ID] = item
	s.arena.Ensure(s.props(item))
}

// flush writes buffered notifications to the journal.
func (s *Service) flush(ctx context.Context) error {
	pending := s.pending
	s.pending = nil
	if s.repo == nil {
		return nil
	}
	for _, event := range pending {
		if err := s.repo.AppendGestureEvent(ctx, event); err != nil {
			return fmt.Errorf("journal %s for item %q: %w", event.Kind, event.ItemID, err)
		}
	}
	return nil
}

// view builds the rendered view of one item. Callers hold s.mu.
func (s *Service) view(id string) ItemView {
	item := s.items[id]
	ctrl := s.arena.Ensure(s.props(item))
	return ItemView{
		ID:          item.ID,
		Rect:        item.Rect,
		Constraints: item.Constraints,
		Static:      item.Static,
		Pixel:       ctrl.Position(),
		Style:       ctrl.Style(),
		Dragging:    ctrl.Dragging(),
		Resizing:    ctrl.Resizing(),
	}
}

// containerHeight mirrors ContainerHeight. Callers hold s.mu.
func (s *Service) containerHeight() float64 {
	p := s.cfg.Params
	rows := 0
	if p.HasRowLimit() {
		rows = p.RowLimit()
	} else {
		for _, item := range s.items {
			rows = max(rows, item.Rect.Y+item.Rect.H)
		}
	}
	return geometry.SpanPx(rows, p.RowHeight, p.Margin.Y) + p.ContainerPadding.Y*2
}
