package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/format"
)

// maxDumpBytes caps the hex dump of a single payload.
const maxDumpBytes = 64 << 10

// BlockDetailModel shows one block's header and a hex dump of its payload
// in a scrollable popup.
type BlockDetailModel struct {
	block   alloc.BlockInfo
	payload []byte
	vp      viewport.Model
	width   int
	height  int
	visible bool
}

func NewBlockDetailModel() BlockDetailModel {
	return BlockDetailModel{vp: viewport.New(0, 0)}
}

func (m *BlockDetailModel) Init() tea.Cmd { return nil }

// Show opens the popup for b.
func (m *BlockDetailModel) Show(b alloc.BlockInfo, payload []byte) {
	m.block = b
	m.payload = payload
	m.visible = true
	m.vp.SetContent(m.content())
	m.vp.GotoTop()
}

func (m *BlockDetailModel) Hide() {
	m.visible = false
	m.payload = nil
}

func (m *BlockDetailModel) IsVisible() bool { return m.visible }

func (m *BlockDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = msg.Width, msg.Height
		// 80% of the screen less border and padding.
		m.vp.Width = max(int(float64(m.width)*0.8)-6, 10)
		m.vp.Height = max(int(float64(m.height)*0.8)-4, 3)
		if m.visible {
			m.vp.SetContent(m.content())
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *BlockDetailModel) content() string {
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	b.WriteString(title.Render(fmt.Sprintf("Block 0x%08X", m.block.Offset)))
	b.WriteString("\n\n")

	state := "used"
	if m.block.Free {
		state = "free"
	}
	fmt.Fprintf(&b, "State:    %s\n", state)
	fmt.Fprintf(&b, "Size:     %d bytes\n", m.block.Size)
	fmt.Fprintf(&b, "Payload:  0x%08X\n", uint32(m.block.Payload()))
	if m.block.Next == format.NoBlock {
		b.WriteString("Next:     (tail)\n")
	} else {
		fmt.Fprintf(&b, "Next:     0x%08X\n", m.block.Next)
	}
	b.WriteString("\n")

	switch {
	case m.payload == nil:
		b.WriteString(summaryStyle.Render("payload outside image"))
	case len(m.payload) == 0:
		b.WriteString(summaryStyle.Render("empty payload"))
	default:
		dump := m.payload
		if len(dump) > maxDumpBytes {
			dump = dump[:maxDumpBytes]
		}
		b.WriteString(hex.Dump(dump))
		if len(dump) < len(m.payload) {
			fmt.Fprintf(&b, "... %d more bytes\n", len(m.payload)-len(dump))
		}
	}
	return b.String()
}

func (m *BlockDetailModel) View() string {
	if !m.visible {
		return ""
	}
	return detailBoxStyle.Render(m.vp.View())
}
