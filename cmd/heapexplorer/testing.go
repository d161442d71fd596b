package main

import tea "github.com/charmbracelet/bubbletea"

// TestHelper drives a Model synchronously for tests.
type TestHelper struct {
	model Model
}

// NewTestHelper returns a helper around a model for path. The image is not
// loaded until Load is called.
func NewTestHelper(path string) *TestHelper {
	return &TestHelper{model: NewModel(path)}
}

// Load runs the model's Init command and feeds its result back.
func (h *TestHelper) Load() *TestHelper {
	return h.Send(h.model.Init()())
}

// Send passes msg to Update and keeps the new model. Returned commands are
// dropped.
func (h *TestHelper) Send(msg tea.Msg) *TestHelper {
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	return h.Send(tea.KeyMsg{Type: keyType})
}

func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	return h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	return h.Send(tea.WindowSizeMsg{Width: width, Height: height})
}

func (h *TestHelper) Model() Model { return h.model }
