package recipe_test

import (
	"errors"
	"testing"

	"github.com/0x6d61/modforge/internal/item"
	"github.com/0x6d61/modforge/internal/recipe"
	"github.com/0x6d61/modforge/internal/tool"
	"github.com/0x6d61/modforge/pkg/schema"
)

func testCatalog(t *testing.T) *item.Catalog {
	t.Helper()
	cat := item.NewCatalog()
	for _, d := range []*item.Def{
		{ID: "modforge:pickaxe", Tags: []string{"modforge:modifiable", "modforge:modifiable/harvest"}, RenderAs: "modforge:pickaxe_render"},
		{ID: "modforge:sword", Tags: []string{"modforge:modifiable", "modforge:modifiable/melee"}},
		{ID: "minecraft:redstone"},
		{ID: "minecraft:quartz"},
	} {
		if err := cat.Register(d); err != nil {
			t.Fatal(err)
		}
	}
	return cat
}

func matcher(t *testing.T, cat *item.Catalog, patterns ...string) item.Matcher {
	t.Helper()
	m, err := item.ParseMatcher(cat, patterns)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// mustDef は p に tools と inputs の既定値を補って Definition を作る。
func mustDef(t *testing.T, p recipe.Params) *recipe.Definition {
	t.Helper()
	cat := testCatalog(t)
	if p.ID == "" {
		p.ID = "test"
	}
	if len(p.Tools.Items()) == 0 {
		p.Tools = matcher(t, cat, "#modforge:modifiable")
	}
	if len(p.Inputs) == 0 {
		p.Inputs = []recipe.Ingredient{{Items: matcher(t, cat, "minecraft:redstone"), Count: 1}}
	}
	d, err := recipe.New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func newTool(t *testing.T, mods ...schema.ModifierEntry) *tool.Stack {
	t.Helper()
	s := tool.New("modforge:pickaxe")
	for _, m := range mods {
		if err := s.AddModifier(m.ID, m.Level); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func rejectionKey(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	var rej *recipe.Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected *recipe.Rejection, got %T: %v", err, err)
	}
	return rej.Key
}
