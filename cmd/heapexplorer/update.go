package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/heapkit/cmd/heapexplorer/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Update(msg)
		m.moveTo(m.cursor)
		return m, nil

	case imageLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.img = msg.img
		m.detail.Hide()
		m.moveTo(m.cursor)
		m.status = fmt.Sprintf("loaded %d blocks", len(m.img.blocks))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Esc) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.detail.IsVisible() {
		if key.Matches(msg, m.keys.Esc, m.keys.Enter) {
			m.detail.Hide()
			return m, nil
		}
		_, cmd := m.detail.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Reload) {
		m.status = "reloading"
		return m, loadImageCmd(m.path)
	}
	if m.err != nil || m.img == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		m.moveTo(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.moveTo(m.cursor + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveTo(m.cursor - m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveTo(m.cursor + m.listHeight())
	case key.Matches(msg, m.keys.Home):
		m.moveTo(0)
	case key.Matches(msg, m.keys.End):
		m.moveTo(len(m.img.blocks) - 1)
	case key.Matches(msg, m.keys.NextFree):
		m.jumpFree(1)
	case key.Matches(msg, m.keys.PrevFree):
		m.jumpFree(-1)
	case key.Matches(msg, m.keys.Enter):
		if b, ok := m.current(); ok {
			m.detail.Show(b, m.img.payload(b))
		}
	case key.Matches(msg, m.keys.Copy):
		m.copyPointer()
	}
	return m, nil
}

func (m *Model) jumpFree(dir int) {
	i := m.findFree(dir)
	if i < 0 {
		if dir > 0 {
			m.status = "no free block below"
		} else {
			m.status = "no free block above"
		}
		return
	}
	m.moveTo(i)
	m.status = ""
}

func (m *Model) copyPointer() {
	b, ok := m.current()
	if !ok {
		return
	}
	text := fmt.Sprintf("0x%08X", uint32(b.Payload()))
	if err := m.copyText(text); err != nil {
		logger.Warn("clipboard write failed", "error", err)
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = "copied " + text
}
