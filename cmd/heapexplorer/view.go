package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/joshuapare/heapkit/internal/format"
)

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress r to reload or q to quit.", m.err))
	}
	if m.img == nil {
		return summaryStyle.Render(fmt.Sprintf("Loading %s...", m.path))
	}

	// Popups are recreated each render since Update returns copies of the model.
	if m.showHelp {
		help := &HelpModel{keys: m.keys}
		return overlay.New(help, NewMainViewModel(&m), overlay.Center, overlay.Center, 0, 0).View()
	}
	if m.detail.IsVisible() {
		return overlay.New(&m.detail, NewMainViewModel(&m), overlay.Center, overlay.Center, 0, 0).View()
	}
	return m.renderMain()
}

func (m Model) renderMain() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderBlocks(),
		m.renderStatus(),
	)
}

func (m Model) renderHeader() string {
	title := lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render("Heap Explorer"),
		"  ",
		pathStyle.Render(filepath.Base(m.img.path)),
	)
	s := m.img.summary
	summary := summaryStyle.Render(fmt.Sprintf(
		"%d bytes  %d blocks (%d free)  used %d  free %d  largest free %d",
		s.HeapSize, s.Blocks, s.FreeBlocks, s.UsedBytes, s.FreeBytes, s.LargestFree))
	return lipgloss.JoinVertical(lipgloss.Left, title, summary)
}

func (m Model) renderBlocks() string {
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-10s  %-6s  %s", "OFFSET", "SIZE", "STATE", "NEXT")))

	blocks := m.img.blocks
	if len(blocks) == 0 {
		b.WriteString("\n")
		b.WriteString(summaryStyle.Render("(empty heap)"))
	}
	end := min(m.top+m.listHeight(), len(blocks))
	for i := m.top; i < end; i++ {
		blk := blocks[i]
		state, style := "used", usedRowStyle
		if blk.Free {
			state, style = "free", freeRowStyle
		}
		if i == m.cursor {
			style = selectedRowStyle
		}
		next := "-"
		if blk.Next != format.NoBlock {
			next = fmt.Sprintf("0x%08X", blk.Next)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf("0x%08X  %-10d  %-6s  %s", blk.Offset, blk.Size, state, next)))
	}

	pane := paneStyle
	if m.width > 0 {
		pane = pane.Width(max(m.width-2, 20))
	}
	return pane.Render(b.String())
}

func (m Model) renderStatus() string {
	pos := "0/0"
	if n := len(m.img.blocks); n > 0 {
		pos = fmt.Sprintf("%d/%d", m.cursor+1, n)
	}
	parts := []string{pos}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, "? help")
	return statusStyle.Render(strings.Join(parts, "  |  "))
}
