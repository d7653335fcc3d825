package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

var errNoToolStore = errors.New("tui: no tool store configured")

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		m.ready = true
		m.rebuildViewport()
		return m, nil

	case tea.KeyMsg:
		// Quit confirmation dialog intercepts all keys when active.
		if m.inputMode == InputConfirmQuit {
			return m.handleConfirmQuitKey(msg)
		}

		// Ctrl+C: show confirmation dialog instead of quitting immediately.
		if msg.String() == "ctrl+c" {
			m.inputMode = InputConfirmQuit
			return m, nil
		}

		// Global: Tab cycles focus between panes.
		if msg.String() == "tab" {
			m.cycleFocus()
			return m, nil
		}

		// Focus-specific key handling.
		switch m.focus {
		case FocusList:
			if msg.String() == "q" {
				m.inputMode = InputConfirmQuit
				return m, nil
			}
			m.list, cmd = m.list.Update(msg)
			cmds = append(cmds, cmd)
			if idx := m.list.Index(); idx != m.selected {
				m.selected = idx
				m.rebuildViewport()
			}

		case FocusViewport:
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)

		case FocusInput:
			switch msg.String() {
			case "enter":
				m.submitInput()
			case "esc":
				m.clearCheck()
			default:
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// handleConfirmQuitKey handles keys while the quit dialog is shown.
func (m Model) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "ctrl+c":
		return m, tea.Quit
	case "n", "N", "esc":
		m.inputMode = InputNormal
	}
	return m, nil
}

// handleResize recalculates pane sizes for a new terminal size.
func (m *Model) handleResize(w, h int) {
	m.width = w
	m.height = h

	const (
		statusBarH  = 1
		inputAreaH  = 3 // rounded border top + bottom + 1 line
		paneVBorder = 2 // top + bottom borders for panes
	)

	paneH := h - statusBarH - inputAreaH - paneVBorder
	if paneH < 4 {
		paneH = 4
	}
	m.list.SetSize(leftPaneOuterWidth-4, paneH)

	vpW := w - leftPaneOuterWidth - 4 // subtract 2 borders + 2 side margins
	if vpW < 10 {
		vpW = 10
	}

	if !m.ready {
		m.viewport = viewport.New(vpW, paneH)
	} else {
		m.viewport.Width = vpW
		m.viewport.Height = paneH
	}

	m.input.Width = w - 6
}

// cycleFocus moves focus List → Viewport → Input → List.
func (m *Model) cycleFocus() {
	switch m.focus {
	case FocusList:
		m.focus = FocusViewport
	case FocusViewport:
		m.focus = FocusInput
		m.input.Focus()
	case FocusInput:
		m.focus = FocusList
		m.input.Blur()
	}
}

// submitInput loads the named tool from the tool store and checks it against the active recipe.
func (m *Model) submitInput() {
	name := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if name == "" {
		m.clearCheck()
		return
	}

	m.toolName = name
	m.checkTool, m.checkErr = nil, nil
	if m.deps.Tools == nil {
		m.checkErr = errNoToolStore
	} else {
		m.checkTool, m.checkErr = m.deps.Tools.Load(name)
	}
	m.rebuildViewport()
}

// clearCheck removes the tool check section.
func (m *Model) clearCheck() {
	m.toolName = ""
	m.checkTool, m.checkErr = nil, nil
	m.rebuildViewport()
}
