package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/trx/internal/services"
)

// listChoice wraps a remote list with its selection state so it can be
// rendered as a [list.Item].
type listChoice struct {
	list   services.RemoteList
	picked bool
}

func (c listChoice) Title() string {
	box := "[ ]"
	if c.picked {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s", box, c.list.Name)
}

func (c listChoice) Description() string {
	if c.list.UpdatedAt == "" {
		return fmt.Sprintf("%d items", c.list.ItemCount)
	}
	return fmt.Sprintf("%d items • updated %s", c.list.ItemCount, c.list.UpdatedAt)
}

func (c listChoice) FilterValue() string {
	return c.list.Name
}

// Selector is a multi-select picker over the user's remote lists. The
// user toggles entries with space and confirms the selection with enter.
type Selector struct {
	list     list.Model
	keys     keyMap
	help     help.Model
	done     bool
	canceled bool
}

// NewSelector builds a picker over lists, with any slug present in
// preselected already checked.
func NewSelector(lists []services.RemoteList, preselected []string) *Selector {
	checked := make(map[string]bool, len(preselected))
	for _, slug := range preselected {
		checked[slug] = true
	}

	items := make([]list.Item, len(lists))
	for i, l := range lists {
		items[i] = listChoice{list: l, picked: checked[l.Slug]}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(styles.title.GetForeground())
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(styles.help.GetForeground())

	m := list.New(items, delegate, 60, 20)
	m.Title = "Select lists to sync"
	m.Styles.Title = styles.title
	m.SetShowHelp(false)
	m.SetFilteringEnabled(false)
	m.SetShowStatusBar(false)

	return &Selector{
		list: m,
		keys: newKeyMap(),
		help: help.New(),
	}
}

func (s *Selector) Init() tea.Cmd {
	return nil
}

func (s *Selector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.list.SetSize(msg.Width, msg.Height-2)
		return s, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.toggle):
			return s, s.toggleCurrent()
		case key.Matches(msg, s.keys.all):
			return s, s.setAll(true)
		case key.Matches(msg, s.keys.none):
			return s, s.setAll(false)
		case key.Matches(msg, s.keys.confirm):
			s.done = true
			return s, tea.Quit
		case key.Matches(msg, s.keys.quit):
			s.canceled = true
			return s, tea.Quit
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *Selector) View() string {
	if s.done || s.canceled {
		return ""
	}
	return s.list.View() + "\n" + s.help.View(s.keys)
}

func (s *Selector) toggleCurrent() tea.Cmd {
	idx := s.list.Index()
	choice, ok := s.list.SelectedItem().(listChoice)
	if !ok {
		return nil
	}
	choice.picked = !choice.picked
	return s.list.SetItem(idx, choice)
}

func (s *Selector) setAll(picked bool) tea.Cmd {
	var cmds []tea.Cmd
	for i, item := range s.list.Items() {
		choice, ok := item.(listChoice)
		if !ok {
			continue
		}
		choice.picked = picked
		cmds = append(cmds, s.list.SetItem(i, choice))
	}
	return tea.Batch(cmds...)
}

// Selected returns the slugs of the checked lists in display order.
func (s *Selector) Selected() []string {
	slugs := []string{}
	for _, item := range s.list.Items() {
		if choice, ok := item.(listChoice); ok && choice.picked {
			slugs = append(slugs, choice.list.Slug)
		}
	}
	return slugs
}

// Canceled reports whether the user quit without confirming.
func (s *Selector) Canceled() bool {
	return s.canceled
}
