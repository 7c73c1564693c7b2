package tui

import (
	"context"
	"math"

	tea "charm.land/bubbletea/v2"
	"github.com/hylla/gridcell/internal/app"
	"github.com/hylla/gridcell/internal/domain"
	"github.com/hylla/gridcell/internal/geometry"
)

// gestureKind identifies the mouse gesture in flight.
type gestureKind int

// gestureNone and related constants define the gesture kinds.
const (
	gestureNone gestureKind = iota
	gestureDrag
	gestureResize
	gestureDrop
)

// activeGesture tracks one pressed-button gesture between press and release.
type activeGesture struct {
	kind    gestureKind
	itemID  string
	handle  domain.Handle
	originX int
	originY int
	lastX   int
	lastY   int
	anchor  domain.PixelRect
	size    domain.Size
	created bool
}

// cellRect is the screen footprint of one item.
type cellRect struct {
	left, top, width, height int
}

// contains reports whether the cell lies inside r.
func (r cellRect) contains(x, y int) bool {
	return x >= r.left && x < r.left+r.width && y >= r.top && y < r.top+r.height
}

// handleAt maps a border cell to its resize handle. Items too small to have
// an interior only drag.
func (r cellRect) handleAt(x, y int) domain.Handle {
	if r.width < 3 || r.height < 3 {
		return ""
	}
	top, bottom := y == r.top, y == r.top+r.height-1
	left, right := x == r.left, x == r.left+r.width-1
	switch {
	case top && left:
		return domain.HandleNW
	case top && right:
		return domain.HandleNE
	case bottom && left:
		return domain.HandleSW
	case bottom && right:
		return domain.HandleSE
	case top:
		return domain.HandleN
	case bottom:
		return domain.HandleS
	case left:
		return domain.HandleW
	case right:
		return domain.HandleE
	default:
		return ""
	}
}

// columnWidth mirrors the grid column width for keyboard steps.
func columnWidth(p domain.GridParams) float64 {
	return geometry.ColumnWidth(p)
}

// screenRect projects one item box onto terminal cells.
func screenRect(params domain.GridParams, box domain.PixelRect) cellRect {
	return cellRect{
		left:   int(math.Round(box.Left + params.ContainerPadding.X)),
		top:    boardTop + int(math.Round(box.Top+params.ContainerPadding.Y)),
		width:  max(1, int(math.Round(box.Width))),
		height: max(1, int(math.Round(box.Height))),
	}
}

// layoutPoint maps a screen cell into the padding-free layout frame.
func layoutPoint(params domain.GridParams, x, y int) (left, top float64) {
	return float64(x) - params.ContainerPadding.X, float64(y-boardTop) - params.ContainerPadding.Y
}

// hitTest returns the topmost item under the cell, live boxes first.
func (m Model) hitTest(x, y int) (app.ItemView, cellRect, bool) {
	params := m.svc.Params()
	ordered := paintOrder(m.items)
	for i := len(ordered) - 1; i >= 0; i-- {
		r := screenRect(params, ordered[i].Pixel)
		if r.contains(x, y) {
			return ordered[i], r, true
		}
	}
	return app.ItemView{}, cellRect{}, false
}

// onPalette reports whether the cell is on the drop source chip.
func (m Model) onPalette(x, y int) bool {
	return y == paletteRow && x >= 0 && x < len([]rune(m.paletteText))
}

// handlePress begins a gesture under the pointer.
func (m Model) handlePress(x, y int) (tea.Model, tea.Cmd) {
	if m.panel != panelNone || m.active.kind != gestureNone {
		return m, nil
	}
	if m.onPalette(x, y) {
		m.active = activeGesture{kind: gestureDrop, itemID: m.newID(), originX: x, originY: y, lastX: x, lastY: y}
		m.status = "drop into the grid"
		return m, nil
	}
	item, r, ok := m.hitTest(x, y)
	if !ok {
		return m, nil
	}
	m.selected = item.ID
	if item.Static {
		m.status = item.ID + " is static"
		return m, nil
	}

	ctx := context.Background()
	g := activeGesture{itemID: item.ID, originX: x, originY: y, lastX: x, lastY: y, anchor: item.Pixel, size: item.Pixel.Size()}
	if handle := r.handleAt(x, y); handle != "" {
		g.kind = gestureResize
		g.handle = handle
		_, err := m.svc.Resize(ctx, app.ResizeInput{ItemID: item.ID, Phase: app.PhaseStart, Handle: handle, Width: g.size.Width, Height: g.size.Height})
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "resizing " + item.ID + " (" + string(handle) + ")"
	} else {
		g.kind = gestureDrag
		if _, err := m.svc.Drag(ctx, app.DragInput{ItemID: item.ID, Phase: app.PhaseStart}); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "dragging " + item.ID
	}
	m.active = g
	m.reload()
	return m, nil
}

// handleMotion advances the gesture in flight.
func (m Model) handleMotion(x, y int) (tea.Model, tea.Cmd) {
	if m.active.kind == gestureNone || (x == m.active.lastX && y == m.active.lastY) {
		return m, nil
	}
	ctx := context.Background()
	var err error
	switch m.active.kind {
	case gestureDrag:
		_, err = m.svc.Drag(ctx, app.DragInput{
			ItemID: m.active.itemID,
			Phase:  app.PhaseMove,
			DeltaX: float64(x - m.active.lastX),
			DeltaY: float64(y - m.active.lastY),
		})
	case gestureResize:
		m.active.size = proposedSize(m.active.handle, m.active.anchor, x-m.active.originX, y-m.active.originY)
		_, err = m.svc.Resize(ctx, app.ResizeInput{
			ItemID: m.active.itemID,
			Phase:  app.PhaseMove,
			Handle: m.active.handle,
			Width:  m.active.size.Width,
			Height: m.active.size.Height,
		})
	case gestureDrop:
		err = m.moveDrop(ctx, x, y)
	}
	m.active.lastX, m.active.lastY = x, y
	if err != nil {
		m.status = err.Error()
	}
	m.reload()
	return m, nil
}

// moveDrop feeds the pointer to the dropping item. Above the board the
// position is cleared and the drag keeps running.
func (m *Model) moveDrop(ctx context.Context, x, y int) error {
	params := m.svc.Params()
	if y < boardTop {
		if !m.active.created {
			return nil
		}
		_, err := m.svc.Drop(ctx, app.DropInput{ItemID: m.active.itemID})
		return err
	}
	left, top := layoutPoint(params, x, y)
	_, err := m.svc.Drop(ctx, app.DropInput{
		ItemID:   m.active.itemID,
		Position: &domain.DroppingPosition{Left: left, Top: top},
		W:        m.dropSize[0],
		H:        m.dropSize[1],
	})
	if err == nil {
		m.active.created = true
		m.selected = m.active.itemID
	}
	return err
}

// handleRelease ends the gesture in flight and commits the reported rect.
func (m Model) handleRelease(x, y int) (tea.Model, tea.Cmd) {
	if m.active.kind == gestureNone {
		return m, nil
	}
	g := m.active
	m.active = activeGesture{}
	ctx := context.Background()
	var err error
	switch g.kind {
	case gestureDrag:
		if x != g.lastX || y != g.lastY {
			_, err = m.svc.Drag(ctx, app.DragInput{ItemID: g.itemID, Phase: app.PhaseMove, DeltaX: float64(x - g.lastX), DeltaY: float64(y - g.lastY)})
		}
		if err == nil {
			_, err = m.svc.Drag(ctx, app.DragInput{ItemID: g.itemID, Phase: app.PhaseStop})
		}
	case gestureResize:
		if x != g.lastX || y != g.lastY {
			g.size = proposedSize(g.handle, g.anchor, x-g.originX, y-g.originY)
		}
		_, err = m.svc.Resize(ctx, app.ResizeInput{ItemID: g.itemID, Phase: app.PhaseStop, Handle: g.handle, Width: g.size.Width, Height: g.size.Height})
	case gestureDrop:
		switch {
		case !g.created:
			m.status = "drop cancelled"
			return m, nil
		case y < boardTop:
			err = m.svc.RemoveItem(ctx, g.itemID)
			m.reload()
			if err == nil {
				m.status = "drop cancelled"
			}
			return m, nil
		default:
			_, err = m.svc.Drag(ctx, app.DragInput{ItemID: g.itemID, Phase: app.PhaseStop})
		}
	}
	m.reload()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if item, ok := m.itemByID(g.itemID); ok {
		m.status = item.ID + " committed"
	}
	return m, nil
}

// proposedSize applies a pointer offset to the anchored box. West and north
// handles grow as the pointer moves away from the opposite edge.
func proposedSize(handle domain.Handle, anchor domain.PixelRect, dx, dy int) domain.Size {
	size := anchor.Size()
	horizontal, vertical := handle.Edges()
	switch horizontal {
	case domain.EdgeEnd:
		size.Width += float64(dx)
	case domain.EdgeStart:
		size.Width -= float64(dx)
	}
	switch vertical {
	case domain.EdgeEnd:
		size.Height += float64(dy)
	case domain.EdgeStart:
		size.Height -= float64(dy)
	}
	size.Width = max(1, size.Width)
	size.Height = max(1, size.Height)
	return size
}
