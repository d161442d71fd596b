package main

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/heapkit/cmd/heapexplorer/logger"
	"github.com/joshuapare/heapkit/heap/alloc"
)

// chromeHeight is the number of lines around the block list: header,
// summary, pane borders, table header and status bar.
const chromeHeight = 6

// defaultListHeight is used before the first WindowSizeMsg arrives.
const defaultListHeight = 20

// imageLoadedMsg carries the result of an asynchronous image load.
type imageLoadedMsg struct {
	img *heapImage
	err error
}

// Model is the main application model
type Model struct {
	path   string
	img    *heapImage
	keys   KeyMap
	detail BlockDetailModel

	cursor int // index into img.blocks
	top    int // first visible row

	width  int
	height int

	showHelp bool
	status   string
	err      error

	// copyText writes to the system clipboard. Tests replace it.
	copyText func(string) error
}

// NewModel returns a model that loads the heap image at path on Init.
func NewModel(path string) Model {
	return Model{
		path:     path,
		keys:     DefaultKeyMap(),
		detail:   NewBlockDetailModel(),
		copyText: clipboard.WriteAll,
	}
}

func (m Model) Init() tea.Cmd {
	return loadImageCmd(m.path)
}

func loadImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		img, err := loadImage(path)
		if err != nil {
			logger.Error("failed to load heap image", "path", path, "error", err)
		} else {
			logger.Info("heap image loaded", "path", path, "blocks", len(img.blocks), "size", len(img.data))
		}
		return imageLoadedMsg{img: img, err: err}
	}
}

// current returns the block under the cursor.
func (m Model) current() (alloc.BlockInfo, bool) {
	if m.img == nil || len(m.img.blocks) == 0 {
		return alloc.BlockInfo{}, false
	}
	return m.img.blocks[m.cursor], true
}

func (m Model) listHeight() int {
	if m.height == 0 {
		return defaultListHeight
	}
	return max(m.height-chromeHeight, 1)
}

// moveTo places the cursor on block i, clamped to the list, and scrolls it
// into view.
func (m *Model) moveTo(i int) {
	n := 0
	if m.img != nil {
		n = len(m.img.blocks)
	}
	if n == 0 {
		m.cursor, m.top = 0, 0
		return
	}
	m.cursor = min(max(i, 0), n-1)

	h := m.listHeight()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+h {
		m.top = m.cursor - h + 1
	}
	m.top = min(m.top, max(n-h, 0))
}

// findFree returns the index of the nearest free block from the cursor in
// direction dir (+1 or -1), or -1 if there is none.
func (m Model) findFree(dir int) int {
	if m.img == nil {
		return -1
	}
	for i := m.cursor + dir; i >= 0 && i < len(m.img.blocks); i += dir {
		if m.img.blocks[i].Free {
			return i
		}
	}
	return -1
}
