package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0x6d61/modforge/internal/config"
	"github.com/0x6d61/modforge/internal/tool"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func testApp(t *testing.T) *app {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "items.yaml"), `items:
  - id: modforge:pickaxe
    tags: [modforge:modifiable]
  - id: minecraft:redstone
  - id: minecraft:quartz
`)
	writeFile(t, filepath.Join(dir, "recipes", "haste.yaml"), `tools: ["#modforge:modifiable"]
result: {modifier: modforge:haste}
level: {max: 2}
slots: {type: upgrade}
inputs: [{item: minecraft:redstone, count: 2}]
`)
	writeFile(t, filepath.Join(dir, "recipes", "luck.yaml"), `tools: ["#modforge:modifiable"]
result: {modifier: modforge:luck}
level: {max: 3}
slots: {type: ability}
inputs: [{item: minecraft:quartz}]
incremental: {needed_per_level: 4}
`)
	cfg := &config.AppConfig{
		RecipesDir: filepath.Join(dir, "recipes"),
		ItemsFile:  filepath.Join(dir, "items.yaml"),
		ToolsDir:   filepath.Join(dir, "tools"),
		Locale:     "en-US",
	}
	a, err := newApp(cfg, nil)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	pick := tool.New("modforge:pickaxe")
	pick.SetFreeSlots("upgrade", 1)
	pick.SetFreeSlots("ability", 1)
	if err := a.tools.Save("pick", pick); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestRun_List(t *testing.T) {
	a := testApp(t)
	var buf bytes.Buffer
	if err := a.run("list", nil, &buf); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "haste", "Haste I", "luck", "1 Upgrade"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRun_ShowRaw(t *testing.T) {
	a := testApp(t)
	var buf bytes.Buffer
	if err := a.run("show", []string{"haste", "-raw"}, &buf); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# Haste I") {
		t.Errorf("expected raw Markdown heading, got:\n%s", buf.String())
	}
}

func TestRun_ShowUnknownSuggests(t *testing.T) {
	a := testApp(t)
	err := a.run("show", []string{"hast"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), `did you mean "haste"`) {
		t.Errorf("expected suggestion, got %v", err)
	}
}

func TestRun_ApplySavesTool(t *testing.T) {
	a := testApp(t)
	var buf bytes.Buffer
	if err := a.run("apply", []string{"haste", "-tool", "pick", "-input", "minecraft:redstone:3"}, &buf); err != nil {
		t.Fatalf("apply: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "inputs left: minecraft:redstone × 1") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	saved, err := a.tools.Load("pick")
	if err != nil {
		t.Fatal(err)
	}
	if saved.ModifierLevel("modforge:haste") != 1 || saved.FreeSlots("upgrade") != 0 {
		t.Errorf("saved tool not updated: haste=%d upgrade=%d", saved.ModifierLevel("modforge:haste"), saved.FreeSlots("upgrade"))
	}
}

func TestRun_ApplyRejectedPrintsLocalizedMessage(t *testing.T) {
	a := testApp(t)
	_ = a.run("apply", []string{"haste", "-tool", "pick", "-input", "minecraft:redstone:2"}, &bytes.Buffer{})

	var buf bytes.Buffer
	err := a.run("apply", []string{"haste", "-tool", "pick", "-input", "minecraft:redstone:2"}, &buf)
	if !errors.Is(err, errRejected) {
		t.Fatalf("expected errRejected, got %v", err)
	}
	if !strings.Contains(buf.String(), "Not enough Upgrade slots") {
		t.Errorf("expected localized rejection, got:\n%s", buf.String())
	}
}

func TestRun_ApplyFindsRecipeAndDryRun(t *testing.T) {
	a := testApp(t)
	var buf bytes.Buffer
	if err := a.run("apply", []string{"-tool", "pick", "-crystal", "modforge:luck:1", "-dry-run"}, &buf); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(buf.String(), "✓ luck applied") {
		t.Errorf("expected luck to be found, got:\n%s", buf.String())
	}
	saved, _ := a.tools.Load("pick")
	if saved.ModifierLevel("modforge:luck") != 0 {
		t.Error("dry run should not save the tool")
	}
}

func TestRun_ApplyNoMatch(t *testing.T) {
	a := testApp(t)
	err := a.run("apply", []string{"-tool", "pick", "-input", "minecraft:redstone:1"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "no recipe matches") {
		t.Errorf("expected no-match error, got %v", err)
	}
}

func TestRun_ModifiersHidesPartialLevel(t *testing.T) {
	a := testApp(t)
	if err := a.run("apply", []string{"luck", "-tool", "pick", "-input", "minecraft:quartz:2"}, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := a.run("modifiers", []string{"pick"}, &buf); err != nil {
		t.Fatalf("modifiers: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "(no modifiers)") {
		t.Errorf("partial level should be hidden, got:\n%s", out)
	}
	if !strings.Contains(out, "Luck I 2/4") {
		t.Errorf("expected progress line, got:\n%s", out)
	}
}

func TestRun_Tools(t *testing.T) {
	a := testApp(t)
	var buf bytes.Buffer
	if err := a.run("tools", nil, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "pick") || !strings.Contains(buf.String(), "modforge:pickaxe") {
		t.Errorf("unexpected tools output:\n%s", buf.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	a := testApp(t)
	if err := a.run("forge", nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestParseCounted(t *testing.T) {
	cases := []struct {
		in    string
		id    string
		count int
		err   bool
	}{
		{"minecraft:redstone:4", "minecraft:redstone", 4, false},
		{"minecraft:redstone", "minecraft:redstone", 1, false},
		{"modforge:luck:0", "", 0, true},
		{"", "", 0, true},
	}
	for _, c := range cases {
		id, count, err := parseCounted(c.in)
		if (err != nil) != c.err {
			t.Errorf("parseCounted(%q): err=%v, want err=%v", c.in, err, c.err)
			continue
		}
		if id != c.id || count != c.count {
			t.Errorf("parseCounted(%q): got %q %d, want %q %d", c.in, id, count, c.id, c.count)
		}
	}
}
