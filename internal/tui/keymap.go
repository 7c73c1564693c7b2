package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit         key.Binding
	toggleHelp   key.Binding
	closePanel   key.Binding
	events       key.Binding
	next         key.Binding
	moveLeft     key.Binding
	moveRight    key.Binding
	moveUp       key.Binding
	moveDown     key.Binding
	shrinkWidth  key.Binding
	growWidth    key.Binding
	shrinkHeight key.Binding
	growHeight   key.Binding
	newItem      key.Binding
	remove       key.Binding
	copyStyle    key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		closePanel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close panel")),
		events:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "events")),
		next:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next item")),
		moveLeft:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "move left")),
		moveRight:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "move right")),
		moveUp:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		moveDown:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		shrinkWidth:  key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "narrow")),
		growWidth:    key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "widen")),
		shrinkHeight: key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "shorten")),
		growHeight:   key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "lengthen")),
		newItem:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new item")),
		remove:       key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		copyStyle:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy style")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.next, k.moveLeft, k.moveRight, k.newItem, k.copyStyle, k.events, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.newItem, k.remove, k.copyStyle, k.events, k.toggleHelp, k.closePanel, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.shrinkWidth, k.growWidth, k.shrinkHeight, k.growHeight},
	}
}
