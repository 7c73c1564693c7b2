package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/hylla/gridcell/internal/app"
	"github.com/hylla/gridcell/internal/domain"
)

// Service is the grid host the board drives.
type Service interface {
	Params() domain.GridParams
	ContainerHeight() float64
	SetContainerWidth(float64) error
	ListItems(context.Context) []app.ItemView
	Drag(context.Context, app.DragInput) (app.ItemView, error)
	Resize(context.Context, app.ResizeInput) (app.ItemView, error)
	Drop(context.Context, app.DropInput) (app.ItemView, error)
	RemoveItem(context.Context, string) error
	ListRecentEvents(context.Context, int) ([]domain.GestureEvent, error)
}

// panel selects the overlay shown above the board.
type panel int

// panelNone and related constants define the overlays.
const (
	panelNone panel = iota
	panelHelp
	panelEvents
)

// screen rows above the board.
const (
	headerRow  = 0
	paletteRow = 1
	boardTop   = 2
)

// eventsLoadedMsg carries the journal rows for the events panel.
type eventsLoadedMsg struct {
	events []domain.GestureEvent
	err    error
}

// Model is the terminal board. Terminal cells are its pixel unit.
type Model struct {
	svc  Service
	keys keyMap
	help help.Model

	markdown markdownRenderer

	width  int
	height int
	ready  bool

	items    []app.ItemView
	selected string
	active   activeGesture
	panel    panel
	events   []domain.GestureEvent
	status   string

	newID       func() string
	writeClip   func(string) error
	dropSize    [2]int
	eventLimit  int
	paletteText string
}

// NewModel constructs the board over svc.
func NewModel(svc Service, opts ...Option) Model {
	m := Model{
		svc:        svc,
		keys:       newKeyMap(),
		help:       help.New(),
		newID:      func() string { return "item-" + uuid.NewString()[:8] },
		writeClip:  clipboard.WriteAll,
		dropSize:   [2]int{2, 1},
		eventLimit: 12,
		status:     "ready",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.paletteText = fmt.Sprintf("[+ %dx%d]", m.dropSize[0], m.dropSize[1])
	m.reload()
	if len(m.items) > 0 {
		m.selected = m.items[0].ID
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 0 {
			if err := m.svc.SetContainerWidth(float64(msg.Width)); err != nil {
				m.status = err.Error()
			}
		}
		m.reload()
		return m, nil

	case eventsLoadedMsg:
		if msg.err != nil {
			m.status = "events unavailable: " + msg.err.Error()
			return m, nil
		}
		m.events = msg.events
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return m, nil
		}
		return m.handlePress(msg.X, msg.Y)

	case tea.MouseMotionMsg:
		return m.handleMotion(msg.X, msg.Y)

	case tea.MouseReleaseMsg:
		return m.handleRelease(msg.X, msg.Y)

	default:
		return m, nil
	}
}

// handleKey applies one key binding.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.closePanel):
		m.panel = panelNone
		return m, nil
	case key.Matches(msg, m.keys.toggleHelp):
		m.togglePanel(panelHelp)
		return m, nil
	case key.Matches(msg, m.keys.events):
		m.togglePanel(panelEvents)
		if m.panel == panelEvents {
			return m, m.loadEvents
		}
		return m, nil
	}
	if m.active.kind != gestureNone {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.next):
		m.selectNext()
	case key.Matches(msg, m.keys.moveLeft):
		m.nudge(-1, 0)
	case key.Matches(msg, m.keys.moveRight):
		m.nudge(1, 0)
	case key.Matches(msg, m.keys.moveUp):
		m.nudge(0, -1)
	case key.Matches(msg, m.keys.moveDown):
		m.nudge(0, 1)
	case key.Matches(msg, m.keys.shrinkWidth):
		m.grow(domain.HandleE, -1, 0)
	case key.Matches(msg, m.keys.growWidth):
		m.grow(domain.HandleE, 1, 0)
	case key.Matches(msg, m.keys.shrinkHeight):
		m.grow(domain.HandleS, 0, -1)
	case key.Matches(msg, m.keys.growHeight):
		m.grow(domain.HandleS, 0, 1)
	case key.Matches(msg, m.keys.newItem):
		m.dropAtOrigin()
	case key.Matches(msg, m.keys.remove):
		m.removeSelected()
	case key.Matches(msg, m.keys.copyStyle):
		m.copySelectedStyle()
	}
	return m, nil
}

// togglePanel opens p, or closes it when already open.
func (m *Model) togglePanel(p panel) {
	if m.panel == p {
		m.panel = panelNone
		return
	}
	m.panel = p
}

// loadEvents reads the newest journal rows.
func (m Model) loadEvents() tea.Msg {
	events, err := m.svc.ListRecentEvents(context.Background(), m.eventLimit)
	return eventsLoadedMsg{events: events, err: err}
}

// reload refreshes the item views from the service.
func (m *Model) reload() {
	m.items = m.svc.ListItems(context.Background())
	if m.selected != "" {
		if _, ok := m.itemByID(m.selected); !ok {
			m.selected = ""
		}
	}
}

// itemByID returns one item view.
func (m Model) itemByID(id string) (app.ItemView, bool) {
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return app.ItemView{}, false
}

// selectNext moves the selection to the next movable item.
func (m *Model) selectNext() {
	if len(m.items) == 0 {
		return
	}
	start := 0
	for idx, item := range m.items {
		if item.ID == m.selected {
			start = idx + 1
			break
		}
	}
	for i := range len(m.items) {
		item := m.items[(start+i)%len(m.items)]
		if !item.Static {
			m.selected = item.ID
			m.status = "selected " + item.ID
			return
		}
	}
}

// nudge moves the selected item by whole cells through a full drag gesture.
func (m *Model) nudge(cols, rows int) {
	item, ok := m.itemByID(m.selected)
	if !ok {
		m.status = "nothing selected"
		return
	}
	params := m.svc.Params()
	dx := float64(cols) * (columnWidth(params) + params.Margin.X)
	dy := float64(rows) * (params.RowHeight + params.Margin.Y)
	ctx := context.Background()
	for _, in := range []app.DragInput{
		{ItemID: item.ID, Phase: app.PhaseStart},
		{ItemID: item.ID, Phase: app.PhaseMove, DeltaX: dx, DeltaY: dy},
		{ItemID: item.ID, Phase: app.PhaseStop},
	} {
		if _, err := m.svc.Drag(ctx, in); err != nil {
			m.status = err.Error()
			m.reload()
			return
		}
	}
	m.reload()
	if moved, ok := m.itemByID(item.ID); ok {
		m.status = fmt.Sprintf("%s at %d,%d", moved.ID, moved.Rect.X, moved.Rect.Y)
	}
}

// grow resizes the selected item by whole cells through a full resize gesture.
func (m *Model) grow(handle domain.Handle, cols, rows int) {
	item, ok := m.itemByID(m.selected)
	if !ok {
		m.status = "nothing selected"
		return
	}
	params := m.svc.Params()
	size := item.Pixel.Size()
	next := domain.Size{
		Width:  max(1, size.Width+float64(cols)*(columnWidth(params)+params.Margin.X)),
		Height: max(1, size.Height+float64(rows)*(params.RowHeight+params.Margin.Y)),
	}
	ctx := context.Background()
	for _, in := range []app.ResizeInput{
		{ItemID: item.ID, Phase: app.PhaseStart, Handle: handle, Width: size.Width, Height: size.Height},
		{ItemID: item.ID, Phase: app.PhaseMove, Handle: handle, Width: next.Width, Height: next.Height},
		{ItemID: item.ID, Phase: app.PhaseStop, Handle: handle, Width: next.Width, Height: next.Height},
	} {
		if _, err := m.svc.Resize(ctx, in); err != nil {
			m.status = err.Error()
			m.reload()
			return
		}
	}
	m.reload()
	if resized, ok := m.itemByID(item.ID); ok {
		m.status = fmt.Sprintf("%s is %dx%d", resized.ID, resized.Rect.W, resized.Rect.H)
	}
}

// dropAtOrigin drops a fresh item at the container origin.
func (m *Model) dropAtOrigin() {
	id := m.newID()
	ctx := context.Background()
	pos := &domain.DroppingPosition{}
	if _, err := m.svc.Drop(ctx, app.DropInput{ItemID: id, Position: pos, W: m.dropSize[0], H: m.dropSize[1]}); err != nil {
		m.status = err.Error()
		return
	}
	if _, err := m.svc.Drag(ctx, app.DragInput{ItemID: id, Phase: app.PhaseStop}); err != nil {
		m.status = err.Error()
	}
	m.reload()
	m.selected = id
	m.status = "added " + id
}

// removeSelected deletes the selected item.
func (m *Model) removeSelected() {
	if m.selected == "" {
		m.status = "nothing selected"
		return
	}
	id := m.selected
	if err := m.svc.RemoveItem(context.Background(), id); err != nil {
		m.status = err.Error()
		return
	}
	m.reload()
	m.selectNext()
	m.status = "removed " + id
}

// copySelectedStyle copies the selected item's style descriptor.
func (m *Model) copySelectedStyle() {
	item, ok := m.itemByID(m.selected)
	if !ok {
		m.status = "nothing selected"
		return
	}
	if err := m.writeClip(item.Style.CSS()); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = "copied style for " + item.ID
}

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("gridcell") + "  " + statusStyle.Render(m.status)
	sections := []string{header, m.renderPalette(), m.renderBoard()}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine

	if overlay := m.renderPanel(); overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	v := tea.NewView(fullContent)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}
