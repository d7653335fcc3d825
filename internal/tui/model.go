// Package tui implements the Bubble Tea recipe browser for modforge.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/0x6d61/modforge/internal/i18n"
	"github.com/0x6d61/modforge/internal/preview"
	"github.com/0x6d61/modforge/internal/recipe"
	"github.com/0x6d61/modforge/internal/station"
	"github.com/0x6d61/modforge/internal/tool"
	"github.com/0x6d61/modforge/internal/toolstore"
)

// FocusState tracks which pane has keyboard focus.
type FocusState int

const (
	FocusList     FocusState = iota // left pane: recipe list
	FocusViewport                   // right pane: recipe preview
	FocusInput                      // bottom: tool name input
)

// InputMode は入力バーのモード。
type InputMode int

const (
	InputNormal      InputMode = iota // 通常入力
	InputConfirmQuit                  // 終了確認ダイアログ表示中
)

// leftPaneOuterWidth is the total rendered width of the left pane (borders included).
const leftPaneOuterWidth = 36

// Deps は browser が参照する読み取り専用の依存。
type Deps struct {
	Recipes   []*recipe.Definition
	Projector *preview.Projector
	Station   *station.Station
	Tools     *toolstore.Store
	Bundle    *i18n.Bundle
	Locale    string
}

// Model is the root Bubble Tea model for the recipe browser.
type Model struct {
	width     int
	height    int
	ready     bool
	focus     FocusState
	inputMode InputMode
	selected  int // index into deps.Recipes
	list      list.Model
	viewport  viewport.Model
	input     textinput.Model

	deps Deps

	// 入力バーで指定した tool（nil = 未指定）
	toolName  string
	checkTool *tool.Stack
	checkErr  error
}

// recipeListItem wraps *recipe.Definition to satisfy the list.Item interface.
type recipeListItem struct {
	d  *recipe.Definition
	pv *preview.Preview
}

func (i recipeListItem) Title() string {
	r := i.pv.DisplayResult
	return i18n.ModifierName(r.ID, r.Level)
}

func (i recipeListItem) Description() string {
	if slots, ok := i.d.Slots(); ok {
		return fmt.Sprintf("%s [%d %s]", i.d.ID(), slots.Count, i18n.SlotName(slots.Type))
	}
	return i.d.ID()
}

func (i recipeListItem) FilterValue() string { return i.d.ID() }

// New は deps の recipe 一覧で Model を初期化する。
func New(deps Deps) Model {
	if deps.Bundle == nil {
		deps.Bundle = i18n.Default()
	}
	if deps.Locale == "" {
		deps.Locale = i18n.BaseLocale
	}

	items := make([]list.Item, len(deps.Recipes))
	for i, d := range deps.Recipes {
		items[i] = recipeListItem{d: d, pv: deps.Projector.Get(d)}
	}

	dl := list.NewDefaultDelegate()
	dl.ShowDescription = true
	dl.Styles.SelectedTitle = dl.Styles.SelectedTitle.Foreground(colorPrimary)
	dl.Styles.SelectedDesc = dl.Styles.SelectedDesc.Foreground(colorSecondary)

	l := list.New(items, dl, leftPaneOuterWidth-4, 20)
	l.Title = "RECIPES"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(colorTitle).
		Bold(true).
		Padding(0, 1)

	ti := textinput.New()
	ti.Placeholder = "Tool name to check against the selected recipe..."
	ti.CharLimit = 128

	return Model{
		deps:  deps,
		list:  l,
		input: ti,
		focus: FocusList,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// activeRecipe returns the currently selected recipe, or nil if none.
func (m *Model) activeRecipe() *recipe.Definition {
	if m.selected < 0 || m.selected >= len(m.deps.Recipes) {
		return nil
	}
	return m.deps.Recipes[m.selected]
}
