package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/0x6d61/modforge/internal/i18n"
)

// View implements tea.Model and renders the browser layout.
func (m Model) View() string {
	if !m.ready {
		return "\n  ⚒ Starting Modforge...\n"
	}

	statusBar := m.renderStatusBar()

	// ── Left pane: recipe list ───────────────────────────────────────────────
	leftStyle := leftPaneStyle
	if m.focus == FocusList {
		leftStyle = leftPaneActiveStyle
	}
	leftPane := leftStyle.Width(leftPaneOuterWidth - 2).Render(m.list.View())

	// ── Right pane: recipe preview ───────────────────────────────────────────
	rightContentW := m.width - leftPaneOuterWidth - 2 // subtract left+right borders
	rightStyle := rightPaneStyle
	if m.focus == FocusViewport {
		rightStyle = rightPaneActiveStyle
	}
	rightPane := rightStyle.Width(rightContentW).Render(m.viewport.View())

	panesRow := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	base := lipgloss.JoinVertical(lipgloss.Left, statusBar, panesRow, m.renderInputBar())

	// Overlay quit confirmation dialog in the center of the screen.
	if m.inputMode == InputConfirmQuit {
		base = m.overlayCenter(base, m.renderConfirmQuit())
	}
	return base
}

// renderStatusBar renders the single-line header with app name and focus hints.
func (m Model) renderStatusBar() string {
	appName := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("⚒ MODFORGE")

	var info string
	if d := m.activeRecipe(); d != nil {
		r := m.deps.Projector.DisplayResult(d)
		info = fmt.Sprintf("%s  %d/%d",
			lipgloss.NewStyle().Foreground(colorWarning).Render(i18n.ModifierName(r.ID, r.Level)),
			m.selected+1, len(m.deps.Recipes))
	} else {
		info = lipgloss.NewStyle().Foreground(colorMuted).Render("No recipes loaded")
	}
	locale := lipgloss.NewStyle().Foreground(colorMuted).Render("[" + m.deps.Locale + "]")

	hint := lipgloss.NewStyle().Foreground(colorMuted).Render("[Tab] Switch pane  [q] Quit")
	left := appName + "  " + info + "  " + m.renderFocusIndicator() + "  " + locale
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(hint)-2))

	return statusBarStyle.Width(m.width).Render(left + gap + hint)
}

// renderFocusIndicator shows which pane is currently focused.
func (m Model) renderFocusIndicator() string {
	dim := lipgloss.NewStyle().Foreground(colorMuted)
	active := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	list := dim.Render("[LIST]")
	pv := dim.Render("[PREVIEW]")
	input := dim.Render("[TOOL]")

	switch m.focus {
	case FocusList:
		list = active.Render("[LIST]")
	case FocusViewport:
		pv = active.Render("[PREVIEW]")
	case FocusInput:
		input = active.Render("[TOOL]")
	}
	return fmt.Sprintf("%s %s %s", list, pv, input)
}

// renderInputBar renders the bottom input area with context-aware prefix.
func (m Model) renderInputBar() string {
	var prefix string
	style := inputBarStyle
	switch m.focus {
	case FocusList:
		prefix = lipgloss.NewStyle().Foreground(colorMuted).Render("[List] ↑↓ Select recipe")
	case FocusViewport:
		prefix = lipgloss.NewStyle().Foreground(colorMuted).Render("[Preview] ↑↓ Scroll")
	case FocusInput:
		prefix = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("tool> ")
		style = inputBarActiveStyle
	}
	return style.Width(m.width - 2).Render(prefix + " " + m.input.View())
}

// renderConfirmQuit renders the centered quit confirmation dialog.
func (m Model) renderConfirmQuit() string {
	title := lipgloss.NewStyle().
		Foreground(colorWarning).
		Bold(true).
		Render("Quit Modforge?")

	hint := lipgloss.NewStyle().
		Foreground(colorMuted).
		Render("[Y] Yes  [N] No  [Esc] Cancel")

	return confirmQuitBoxStyle.Render(fmt.Sprintf("\n  %s\n\n  %s\n", title, hint))
}

// overlayCenter places the overlay string in the center of the base string.
func (m Model) overlayCenter(base, overlay string) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayH := len(overlayLines)
	overlayW := 0
	for _, line := range overlayLines {
		if w := lipgloss.Width(line); w > overlayW {
			overlayW = w
		}
	}

	startRow := max(0, (m.height-overlayH)/2)
	startCol := max(0, (m.width-overlayW)/2)

	for len(baseLines) < startRow+overlayH {
		baseLines = append(baseLines, strings.Repeat(" ", m.width))
	}

	for i, oLine := range overlayLines {
		row := startRow + i
		baseLine := baseLines[row]
		for lipgloss.Width(baseLine) < startCol {
			baseLine += " "
		}

		// Use rune-safe slicing based on visual width
		left := truncateVisual(baseLine, startCol)
		rightStart := startCol + lipgloss.Width(oLine)
		right := ""
		if lipgloss.Width(baseLine) > rightStart {
			right = skipVisual(baseLine, rightStart)
		}
		baseLines[row] = left + oLine + right
	}

	return strings.Join(baseLines, "\n")
}

// truncateVisual returns the first n visual columns of a string.
func truncateVisual(s string, n int) string {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > n {
			return s[:i] + strings.Repeat(" ", n-w)
		}
		w += rw
	}
	// String is shorter than n, pad with spaces
	return s + strings.Repeat(" ", n-w)
}

// skipVisual returns everything after the first n visual columns.
func skipVisual(s string, n int) string {
	w := 0
	for i, r := range s {
		if w >= n {
			return s[i:]
		}
		w += runewidth.RuneWidth(r)
	}
	return ""
}
