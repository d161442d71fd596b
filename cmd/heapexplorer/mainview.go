package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// MainViewModel wraps the main UI for use as an overlay background.
type MainViewModel struct {
	model *Model
}

func NewMainViewModel(m *Model) *MainViewModel {
	return &MainViewModel{model: m}
}

func (m *MainViewModel) Init() tea.Cmd { return nil }

// Update is a no-op; the parent Model handles all messages.
func (m *MainViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

func (m *MainViewModel) View() string { return m.model.renderMain() }

// HelpModel renders the key bindings as an overlay foreground.
type HelpModel struct {
	keys KeyMap
}

func (h *HelpModel) Init() tea.Cmd { return nil }

func (h *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return h, nil }

func (h *HelpModel) View() string {
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render("Keys"))
	b.WriteString("\n")
	for _, k := range h.keys.helpBindings() {
		help := k.Help()
		b.WriteString("\n")
		b.WriteString(helpKeyStyle.Render(padRight(help.Key, 8)))
		b.WriteString(help.Desc)
	}
	return helpBoxStyle.Render(b.String())
}

func padRight(s string, n int) string {
	if w := len([]rune(s)); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s + " "
}
