package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	pause    key.Binding
	next     key.Binding
	prev     key.Binding
	like     key.Binding
	comments key.Binding
	folders  key.Binding
	recent   key.Binding
	mood     key.Binding
	genre    key.Binding
	search   key.Binding
	more     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "previous")),
		like:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		comments: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comments")),
		folders:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "folders")),
		recent:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recent")),
		mood:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mood")),
		genre:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		more:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.search, k.pause, k.more, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.pause, k.next, k.prev, k.like},
		{k.comments, k.folders, k.recent},
		{k.mood, k.genre, k.search, k.quit},
	}
}
