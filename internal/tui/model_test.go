package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/0x6d61/modforge/internal/i18n"
	"github.com/0x6d61/modforge/internal/item"
	"github.com/0x6d61/modforge/internal/preview"
	"github.com/0x6d61/modforge/internal/recipe"
	"github.com/0x6d61/modforge/internal/station"
	"github.com/0x6d61/modforge/internal/tool"
	"github.com/0x6d61/modforge/internal/toolstore"
	"github.com/0x6d61/modforge/pkg/schema"
)

// ---------------------------------------------------------------------------
// fixtures
// ---------------------------------------------------------------------------

func testDeps(t *testing.T) Deps {
	t.Helper()
	cat := item.NewCatalog()
	for _, d := range []*item.Def{
		{ID: "modforge:pickaxe", Tags: []string{"modforge:modifiable"}},
		{ID: "minecraft:redstone"},
	} {
		if err := cat.Register(d); err != nil {
			t.Fatal(err)
		}
	}
	tools, err := item.ParseMatcher(cat, []string{"#modforge:modifiable"})
	if err != nil {
		t.Fatal(err)
	}
	inputs, _ := item.ParseMatcher(cat, []string{"minecraft:redstone"})

	var defs []*recipe.Definition
	for _, p := range []recipe.Params{
		{ID: "haste", Result: schema.ModifierEntry{ID: "modforge:haste", Level: 1}, Level: schema.IntRange{Min: 1, Max: 5}, Slots: schema.SlotCount{Type: "upgrade", Count: 1}},
		{ID: "sharpness", Result: schema.ModifierEntry{ID: "modforge:sharpness", Level: 1}, Level: schema.IntRange{Min: 2, Max: 5}},
	} {
		p.Tools = tools
		p.Inputs = []recipe.Ingredient{{Items: inputs}}
		d, err := recipe.New(p)
		if err != nil {
			t.Fatal(err)
		}
		defs = append(defs, d)
	}
	lookup, _, err := recipe.BuildLookup(defs)
	if err != nil {
		t.Fatal(err)
	}

	return Deps{
		Recipes:   defs,
		Projector: preview.NewProjector(cat),
		Station:   station.New(lookup, nil),
		Tools:     toolstore.NewStore(t.TempDir()),
		Bundle:    i18n.Default(),
		Locale:    "en-US",
	}
}

func readyModel(t *testing.T, deps Deps) Model {
	t.Helper()
	m := New(deps)
	m.handleResize(120, 40)
	m.ready = true
	m.rebuildViewport()
	return m
}

// ---------------------------------------------------------------------------
// New / list items
// ---------------------------------------------------------------------------

func TestNew_DefaultsBundleAndLocale(t *testing.T) {
	deps := testDeps(t)
	deps.Bundle = nil
	deps.Locale = ""

	m := New(deps)
	if m.deps.Bundle == nil {
		t.Error("expected default bundle")
	}
	if m.deps.Locale != i18n.BaseLocale {
		t.Errorf("expected base locale, got %q", m.deps.Locale)
	}
	if m.focus != FocusList {
		t.Errorf("expected FocusList, got %d", m.focus)
	}
}

func TestRecipeListItem(t *testing.T) {
	deps := testDeps(t)
	haste := recipeListItem{d: deps.Recipes[0], pv: deps.Projector.Get(deps.Recipes[0])}
	if got := haste.Title(); got != "Haste I" {
		t.Errorf("Title: got %q, want 'Haste I'", got)
	}
	if got := haste.Description(); got != "haste [1 Upgrade]" {
		t.Errorf("Description: got %q", got)
	}
	if got := haste.FilterValue(); got != "haste" {
		t.Errorf("FilterValue: got %q", got)
	}

	sharp := recipeListItem{d: deps.Recipes[1], pv: deps.Projector.Get(deps.Recipes[1])}
	if got := sharp.Title(); got != "Sharpness II" {
		t.Errorf("Title with min level: got %q, want 'Sharpness II'", got)
	}
	if got := sharp.Description(); got != "sharpness" {
		t.Errorf("Description without slots: got %q", got)
	}
}

func TestActiveRecipe_OutOfRange(t *testing.T) {
	m := New(testDeps(t))
	m.selected = 5
	if m.activeRecipe() != nil {
		t.Error("expected nil for out-of-range index")
	}
	m.selected = -1
	if m.activeRecipe() != nil {
		t.Error("expected nil for negative index")
	}
}

// ---------------------------------------------------------------------------
// cycleFocus
// ---------------------------------------------------------------------------

func TestCycleFocus_FullCycle(t *testing.T) {
	m := New(testDeps(t))

	m.cycleFocus() // List -> Viewport
	if m.focus != FocusViewport {
		t.Errorf("expected FocusViewport, got %d", m.focus)
	}
	m.cycleFocus() // Viewport -> Input
	if m.focus != FocusInput || !m.input.Focused() {
		t.Errorf("expected focused input, got %d", m.focus)
	}
	m.cycleFocus() // Input -> List
	if m.focus != FocusList || m.input.Focused() {
		t.Errorf("expected FocusList with blurred input, got %d", m.focus)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUpdate_WindowSizeMakesReady(t *testing.T) {
	m := New(testDeps(t))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	um := updated.(Model)
	if !um.ready {
		t.Error("expected ready after WindowSizeMsg")
	}
	if um.width != 100 || um.height != 30 {
		t.Errorf("unexpected size %dx%d", um.width, um.height)
	}
}

func TestUpdate_ListNavigationChangesSelection(t *testing.T) {
	m := readyModel(t, testDeps(t))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	um := updated.(Model)
	if um.selected != 1 {
		t.Errorf("expected selected=1 after down, got %d", um.selected)
	}
	if d := um.activeRecipe(); d == nil || d.ID() != "sharpness" {
		t.Errorf("expected sharpness to be active, got %v", d)
	}
}

func TestUpdate_QuitConfirmation(t *testing.T) {
	m := readyModel(t, testDeps(t))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	um := updated.(Model)
	if um.inputMode != InputConfirmQuit {
		t.Fatal("ctrl+c should open the quit dialog")
	}
	if !strings.Contains(um.View(), "Quit Modforge?") {
		t.Error("quit dialog should be rendered")
	}

	updated, _ = um.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if updated.(Model).inputMode != InputNormal {
		t.Error("n should close the quit dialog")
	}

	_, cmd := um.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("y should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

// ---------------------------------------------------------------------------
// submitInput
// ---------------------------------------------------------------------------

func TestSubmitInput_ChecksStoredTool(t *testing.T) {
	deps := testDeps(t)
	st := tool.New("modforge:pickaxe")
	if err := deps.Tools.Save("pick", st); err != nil {
		t.Fatal(err)
	}
	m := readyModel(t, deps)

	m.input.SetValue("pick")
	m.submitInput()

	if m.checkTool == nil || m.checkErr != nil {
		t.Fatalf("expected loaded tool, got err=%v", m.checkErr)
	}
	check := m.renderCheck(m.activeRecipe())
	if !strings.Contains(check, "Not enough Upgrade slots") {
		t.Errorf("expected localized slot rejection, got:\n%s", check)
	}
	if m.input.Value() != "" {
		t.Error("input should be reset after submit")
	}
}

func TestSubmitInput_PrerequisitesMet(t *testing.T) {
	deps := testDeps(t)
	st := tool.New("modforge:pickaxe")
	st.SetFreeSlots("upgrade", 1)
	_ = deps.Tools.Save("pick", st)
	m := readyModel(t, deps)

	m.input.SetValue("pick")
	m.submitInput()

	if check := m.renderCheck(m.activeRecipe()); !strings.Contains(check, "prerequisites met") {
		t.Errorf("expected success line, got:\n%s", check)
	}
}

func TestSubmitInput_MissingTool(t *testing.T) {
	m := readyModel(t, testDeps(t))
	m.input.SetValue("nope")
	m.submitInput()

	if m.checkErr == nil {
		t.Fatal("expected error for missing tool")
	}
	if check := m.renderCheck(m.activeRecipe()); !strings.Contains(check, "nope") {
		t.Errorf("check should mention the tool name, got:\n%s", check)
	}
}

func TestSubmitInput_EmptyClearsCheck(t *testing.T) {
	m := readyModel(t, testDeps(t))
	m.toolName = "pick"

	m.input.SetValue("   ")
	m.submitInput()

	if m.toolName != "" {
		t.Error("empty input should clear the check")
	}
	if m.renderCheck(m.activeRecipe()) != "" {
		t.Error("renderCheck should be empty without a tool")
	}
}

func TestSubmitInput_NoToolStore(t *testing.T) {
	deps := testDeps(t)
	deps.Tools = nil
	m := readyModel(t, deps)
	m.input.SetValue("pick")
	m.submitInput()
	if m.checkErr != errNoToolStore {
		t.Errorf("expected errNoToolStore, got %v", m.checkErr)
	}
}
