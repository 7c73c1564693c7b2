package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hylla/gridcell/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "gridcell.layout.v1"

// Snapshot is a portable copy of the committed layout.
type Snapshot struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Cols       int            `json:"cols"`
	Items      []SnapshotItem `json:"items"`
}

// SnapshotItem is one item inside a snapshot.
type SnapshotItem struct {
	ID          string             `json:"id"`
	Rect        domain.GridRect    `json:"rect"`
	Constraints domain.Constraints `json:"constraints"`
	Static      bool               `json:"static,omitempty"`
}

// ExportSnapshot copies the committed layout. In-flight gestures are not included.
func (s *Service) ExportSnapshot(_ context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Cols:       s.cfg.Params.Cols,
		Items:      make([]SnapshotItem, 0, len(s.items)),
	}
	for _, id := range s.order {
		item := s.items[id]
		snap.Items = append(snap.Items, SnapshotItem{
			ID:          item.ID,
			Rect:        item.Rect,
			Constraints: item.Constraints,
			Static:      item.Static,
		})
	}
	snap.sort()
	return snap
}

// ImportSnapshot replaces the committed geometry of existing items and adds
// the rest. Gestures in flight on replaced items are dropped.
func (s *Service) ImportSnapshot(_ context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.sort()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range snap.Items {
		item := in.toDomain()
		if _, ok := s.items[item.ID]; ok {
			s.arena.Remove(item.ID)
			delete(s.gestures, item.ID)
			s.items[item.ID] = item
			s.arena.Ensure(s.props(item))
			continue
		}
		if err := s.addItem(item); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the requested operation.
func (s *Snapshot) Validate() error {
	if s.Version != "" && s.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version: %q", s.Version)
	}
	ids := map[string]struct{}{}
	for i, item := range s.Items {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("items[%d].id is required", i)
		}
		if _, exists := ids[item.ID]; exists {
			return fmt.Errorf("duplicate item id: %q", item.ID)
		}
		ids[item.ID] = struct{}{}
		if err := item.Rect.Validate(); err != nil {
			return fmt.Errorf("items[%d].rect: %w", i, err)
		}
		if s.Cols > 0 && item.Rect.X+item.Rect.W > s.Cols {
			return fmt.Errorf("items[%d].rect exceeds %d columns: %w", i, s.Cols, domain.ErrInvalidRect)
		}
		if err := item.Constraints.Validate(); err != nil {
			return fmt.Errorf("items[%d].constraints: %w", i, err)
		}
	}
	return nil
}

// sort orders items top to bottom, then left to right.
func (s *Snapshot) sort() {
	sort.SliceStable(s.Items, func(i, j int) bool {
		a, b := s.Items[i].Rect, s.Items[j].Rect
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return s.Items[i].ID < s.Items[j].ID
	})
}

func (i SnapshotItem) toDomain() domain.Item {
	return domain.Item{
		ID:          strings.TrimSpace(i.ID),
		Rect:        i.Rect,
		Constraints: i.Constraints.Normalize(),
		Static:      i.Static,
	}
}
