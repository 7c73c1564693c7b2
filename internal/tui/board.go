package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/hylla/gridcell/internal/app"
	"github.com/hylla/gridcell/internal/domain"
)

// helpMarkdown is rendered by the help panel.
const helpMarkdown = `# gridcell

Press an item and move the pointer to **drag** it. Press a border cell to
**resize** from that edge or corner; the opposite edge stays put.

Drag the palette chip into the board to **drop** a new item. Release above
the board to cancel.

| key | action |
|---|---|
| tab | select next item |
| h j k l | move one cell |
| H L | narrow / widen |
| K J | shorten / lengthen |
| n | add item at the origin |
| x | remove item |
| y | copy the style descriptor |
| e | recent gesture events |
`

// item colors.
var (
	itemColor     = lipgloss.Color("62")
	selectedColor = lipgloss.Color("212")
	activeColor   = lipgloss.Color("214")
	staticColor   = lipgloss.Color("241")
	guideColor    = lipgloss.Color("236")
)

// paintOrder puts items with a gesture in flight last so they draw on top.
func paintOrder(items []app.ItemView) []app.ItemView {
	out := make([]app.ItemView, 0, len(items))
	var live []app.ItemView
	for _, item := range items {
		if item.Dragging || item.Resizing {
			live = append(live, item)
			continue
		}
		out = append(out, item)
	}
	return append(out, live...)
}

// renderPalette renders the drop source row.
func (m Model) renderPalette() string {
	style := lipgloss.NewStyle().Foreground(itemColor)
	if m.active.kind == gestureDrop {
		style = style.Foreground(activeColor).Bold(true)
	}
	return style.Render(m.paletteText) + lipgloss.NewStyle().Foreground(staticColor).Render("  drag to drop")
}

// boardSize returns the cell dimensions of the board area.
func (m Model) boardSize() (int, int) {
	params := m.svc.Params()
	width := int(math.Ceil(params.ContainerWidth))
	height := int(math.Ceil(m.svc.ContainerHeight()))
	for _, item := range m.items {
		r := screenRect(params, item.Pixel)
		width = max(width, r.left+r.width)
		height = max(height, r.top-boardTop+r.height)
	}
	return max(1, width), max(1, height)
}

// renderBoard composes the column guides and every item box as canvas layers.
func (m Model) renderBoard() string {
	params := m.svc.Params()
	width, height := m.boardSize()

	canvas := lipgloss.NewCanvas(width, height)
	canvas.Compose(lipgloss.NewLayer(renderGuides(params, width, height)).X(0).Y(0).Z(0))
	for idx, item := range paintOrder(m.items) {
		r := screenRect(params, item.Pixel)
		box := lipgloss.NewStyle().Foreground(m.colorFor(item)).Render(boxString(item.ID, r.width, r.height))
		canvas.Compose(lipgloss.NewLayer(box).X(max(0, r.left)).Y(max(0, r.top-boardTop)).Z(idx + 1))
	}
	return canvas.Render()
}

// colorFor picks the border color for one item.
func (m Model) colorFor(item app.ItemView) color.Color {
	switch {
	case item.Dragging || item.Resizing:
		return activeColor
	case item.Static:
		return staticColor
	case item.ID == m.selected:
		return selectedColor
	default:
		return itemColor
	}
}

// renderGuides draws a dot at the left edge of every column on every row.
func renderGuides(params domain.GridParams, width, height int) string {
	row := []rune(strings.Repeat(" ", width))
	colWidth := columnWidth(params)
	for col := range params.Cols {
		x := int(math.Round(params.ContainerPadding.X + float64(col)*(colWidth+params.Margin.X)))
		if x >= 0 && x < width {
			row[x] = '·'
		}
	}
	line := lipgloss.NewStyle().Foreground(guideColor).Render(string(row))
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// boxString draws a rounded box of w by h cells labelled with id.
func boxString(id string, w, h int) string {
	if w < 2 || h < 2 {
		return strings.TrimSuffix(strings.Repeat(strings.Repeat("█", w)+"\n", h), "\n")
	}
	inner := w - 2
	lines := make([]string, 0, h)
	lines = append(lines, "╭"+strings.Repeat("─", inner)+"╮")
	for row := 1; row < h-1; row++ {
		label := ""
		if row == 1 {
			label = truncate(id, inner)
		}
		lines = append(lines, "│"+label+strings.Repeat(" ", inner-len([]rune(label)))+"│")
	}
	lines = append(lines, "╰"+strings.Repeat("─", inner)+"╯")
	return strings.Join(lines, "\n")
}

// renderPanel renders the open overlay, if any.
func (m Model) renderPanel() string {
	accent := lipgloss.Color("62")
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	width := max(24, m.width-8)
	switch m.panel {
	case panelHelp:
		return frame.Render(m.markdown.render(helpMarkdown, width-4))
	case panelEvents:
		return frame.Render(renderEvents(m.events))
	default:
		return ""
	}
}

// renderEvents lists journal rows newest first.
func renderEvents(events []domain.GestureEvent) string {
	title := lipgloss.NewStyle().Bold(true).Render("recent gesture events")
	if len(events) == 0 {
		return title + "\n\nno events yet"
	}
	lines := []string{title, ""}
	for _, event := range events {
		line := fmt.Sprintf("%s  %-12s %-14s x=%d y=%d w=%d h=%d",
			event.OccurredAt.Format("15:04:05"),
			truncate(event.ItemID, 12),
			event.Kind,
			event.Rect.X, event.Rect.Y, event.Rect.W, event.Rect.H,
		)
		if event.Handle != "" {
			line += " " + string(event.Handle)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// fitLines truncates or pads content to exactly height lines.
func fitLines(content string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
