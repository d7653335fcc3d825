package recipe_test

import (
	"testing"

	"github.com/0x6d61/modforge/internal/recipe"
	"github.com/0x6d61/modforge/pkg/schema"
)

func incrementalDef(t *testing.T, id string, slot schema.SlotType, mod schema.ModifierID, needed int) *recipe.Definition {
	t.Helper()
	p := recipe.Params{
		ID:     id,
		Result: schema.ModifierEntry{ID: mod, Level: 1},
		Level:  schema.IntRange{Min: 1, Max: 5},
	}
	if slot != "" {
		p.Slots = schema.SlotCount{Type: slot, Count: 1}
	}
	if needed > 0 {
		p.Incremental = recipe.Incremental{NeededPerLevel: needed}
	}
	return mustDef(t, p)
}

func TestBuildLookup_RegistersNeededPerLevel(t *testing.T) {
	defs := []*recipe.Definition{
		incrementalDef(t, "haste", "upgrade", "modforge:haste", 0),
		incrementalDef(t, "luck", "ability", "modforge:luck", 45),
		incrementalDef(t, "luck_slotless", "", "modforge:luck", 45),
	}
	l, accepted, err := recipe.BuildLookup(defs)
	if err != nil {
		t.Fatalf("BuildLookup: %v", err)
	}
	if len(accepted) != 3 {
		t.Errorf("accepted: got %d, want 3", len(accepted))
	}
	if got := l.NeededPerLevel("modforge:luck"); got != 45 {
		t.Errorf("NeededPerLevel(luck): got %d, want 45", got)
	}
	if got := l.NeededPerLevel("modforge:haste"); got != 0 {
		t.Errorf("NeededPerLevel(haste): got %d, want 0", got)
	}
	if got, ok := l.NeededFor("ability", "modforge:luck"); !ok || got != 45 {
		t.Errorf("NeededFor(ability, luck): got %d, %v", got, ok)
	}
	if _, ok := l.NeededFor("upgrade", "modforge:luck"); ok {
		t.Error("NeededFor(upgrade, luck) should not be registered")
	}
	mods := l.Modifiers("upgrade")
	if len(mods) != 1 || mods[0] != "modforge:haste" {
		t.Errorf("Modifiers(upgrade): got %v", mods)
	}
}

func TestBuildLookup_ConflictIsReportedAndSkipped(t *testing.T) {
	defs := []*recipe.Definition{
		incrementalDef(t, "luck_a", "ability", "modforge:luck", 45),
		incrementalDef(t, "luck_b", "ability", "modforge:luck", 30),
		incrementalDef(t, "haste", "upgrade", "modforge:haste", 0),
	}
	l, accepted, err := recipe.BuildLookup(defs)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if len(accepted) != 2 {
		t.Fatalf("accepted: got %d, want 2", len(accepted))
	}
	for _, d := range accepted {
		if d.ID() == "luck_b" {
			t.Error("conflicting definition luck_b should be dropped")
		}
	}
	if got := l.NeededPerLevel("modforge:luck"); got != 45 {
		t.Errorf("NeededPerLevel(luck): got %d, want 45", got)
	}
}

func TestBuildLookup_PlainThenIncrementalShareValue(t *testing.T) {
	defs := []*recipe.Definition{
		incrementalDef(t, "luck_plain", "ability", "modforge:luck", 0),
		incrementalDef(t, "luck_inc", "ability", "modforge:luck", 10),
	}
	l, _, err := recipe.BuildLookup(defs)
	if err != nil {
		t.Fatalf("BuildLookup: %v", err)
	}
	if got, _ := l.NeededFor("ability", "modforge:luck"); got != 10 {
		t.Errorf("NeededFor: got %d, want 10", got)
	}
}

func TestLookup_Nil(t *testing.T) {
	var l *recipe.Lookup
	if l.NeededPerLevel("x") != 0 || l.Modifiers("upgrade") != nil || l.SlotTypes() != nil {
		t.Error("nil lookup should behave as empty")
	}
}
