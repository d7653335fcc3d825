package item_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0x6d61/modforge/internal/item"
	"github.com/0x6d61/modforge/pkg/schema"
)

func writeCatalog(t *testing.T) *item.Catalog {
	t.Helper()
	dir := t.TempDir()
	content := `items:
  - id: modforge:pickaxe
    tags: [modforge:modifiable, modforge:modifiable/harvest]
    render_as: modforge:pickaxe_render
  - id: modforge:sword
    tags: [modforge:modifiable, modforge:modifiable/melee]
  - id: minecraft:redstone
`
	path := filepath.Join(dir, "items.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cat := item.NewCatalog()
	if err := cat.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return cat
}

func TestCatalog_LoadFile(t *testing.T) {
	cat := writeCatalog(t)
	if len(cat.All()) != 3 {
		t.Fatalf("All(): got %d items, want 3", len(cat.All()))
	}
	def, ok := cat.Get("modforge:pickaxe")
	if !ok {
		t.Fatal("pickaxe not found")
	}
	if !def.HasTag("modforge:modifiable/harvest") {
		t.Errorf("pickaxe tags: got %v", def.Tags)
	}
}

func TestCatalog_RenderItem(t *testing.T) {
	cat := writeCatalog(t)
	if got := cat.RenderItem("modforge:pickaxe"); got != "modforge:pickaxe_render" {
		t.Errorf("RenderItem(pickaxe): got %q", got)
	}
	if got := cat.RenderItem("modforge:sword"); got != "modforge:sword" {
		t.Errorf("RenderItem(sword): got %q", got)
	}
	if got := cat.RenderItem("unknown:item"); got != "unknown:item" {
		t.Errorf("RenderItem(unknown): got %q", got)
	}
}

func TestCatalog_DuplicateID(t *testing.T) {
	cat := item.NewCatalog()
	if err := cat.Register(&item.Def{ID: "a:b"}); err != nil {
		t.Fatal(err)
	}
	if err := cat.Register(&item.Def{ID: "a:b"}); err == nil {
		t.Error("duplicate id should error")
	}
}

func TestMatcher_TagAndID(t *testing.T) {
	cat := writeCatalog(t)
	m, err := item.ParseMatcher(cat, []string{"#modforge:modifiable/melee", "minecraft:redstone"})
	if err != nil {
		t.Fatalf("ParseMatcher: %v", err)
	}
	if !m.Test("modforge:sword") {
		t.Error("sword should match by tag")
	}
	if m.Test("modforge:pickaxe") {
		t.Error("pickaxe should not match melee tag")
	}
	if !m.Test("minecraft:redstone") {
		t.Error("redstone should match by id")
	}

	got := m.Items()
	want := []schema.ItemID{"minecraft:redstone", "modforge:sword"}
	if len(got) != len(want) {
		t.Fatalf("Items(): got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Items()[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseMatcher_Empty(t *testing.T) {
	if _, err := item.ParseMatcher(item.NewCatalog(), nil); err == nil {
		t.Error("empty matcher should error")
	}
	if _, err := item.ParseMatcher(item.NewCatalog(), []string{"#"}); err == nil {
		t.Error("blank tag should error")
	}
}
