package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/0x6d61/modforge/internal/config"
	"github.com/0x6d61/modforge/internal/i18n"
	"github.com/0x6d61/modforge/internal/item"
	"github.com/0x6d61/modforge/internal/preview"
	"github.com/0x6d61/modforge/internal/recipe"
	"github.com/0x6d61/modforge/internal/station"
	"github.com/0x6d61/modforge/internal/tool"
	"github.com/0x6d61/modforge/internal/toolstore"
	"github.com/0x6d61/modforge/internal/tui"
	"github.com/0x6d61/modforge/pkg/schema"
)

// errRejected は apply が検証で拒否されたことを示す（メッセージは出力済み）。
var errRejected = errors.New("recipe rejected")

// showWidth は show の Markdown を折り返す幅
const showWidth = 100

var headerStyle = lipgloss.NewStyle().Bold(true)

// app はロード済みの recipe 環境。
type app struct {
	cfg       *config.AppConfig
	logger    *slog.Logger
	bundle    *i18n.Bundle
	registry  *recipe.Registry
	projector *preview.Projector
	station   *station.Station
	tools     *toolstore.Store
}

// newApp はアイテムカタログと recipe を読み込み、Lookup を確定する。
// 個々の recipe の読み込みエラーは警告ログにしてスキップする。
func newApp(cfg *config.AppConfig, logger *slog.Logger) (*app, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cat := item.NewCatalog()
	if err := cat.LoadFile(cfg.ItemsFile); err != nil {
		return nil, err
	}

	reg := recipe.NewRegistry(cat, logger)
	if err := reg.LoadDir(cfg.RecipesDir); err != nil {
		logger.Warn("some recipes failed to load", "dir", cfg.RecipesDir, "error", err)
	}
	if err := reg.Seal(); err != nil {
		logger.Warn("conflicting incremental recipes removed", "error", err)
	}
	logger.Info("recipes loaded", "count", len(reg.All()), "dir", cfg.RecipesDir)

	return &app{
		cfg:       cfg,
		logger:    logger,
		bundle:    i18n.Default(),
		registry:  reg,
		projector: preview.NewProjector(cat),
		station:   station.New(reg.Lookup(), logger),
		tools:     toolstore.NewStore(cfg.ToolsDir),
	}, nil
}

func (a *app) run(cmd string, args []string, w io.Writer) error {
	switch cmd {
	case "list":
		return a.runList(w)
	case "show":
		return a.runShow(args, w)
	case "apply":
		return a.runApply(args, w)
	case "modifiers":
		return a.runModifiers(args, w)
	case "tools":
		return a.runTools(w)
	case "browse":
		return a.runBrowse()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// recipe は id の recipe を返す。見つからなければ近い ID を提案する。
func (a *app) recipe(id string) (*recipe.Definition, error) {
	if d, ok := a.registry.Get(id); ok {
		return d, nil
	}
	if s, ok := a.registry.Suggest(id); ok {
		return nil, fmt.Errorf("unknown recipe %q (did you mean %q?)", id, s)
	}
	return nil, fmt.Errorf("unknown recipe %q", id)
}

func (a *app) runList(w io.Writer) error {
	rows := [][]string{{"ID", "RESULT", "LEVEL", "SLOTS", "CRYSTAL"}}
	for _, d := range a.registry.All() {
		r := a.projector.DisplayResult(d)
		slots := "-"
		if s, ok := d.Slots(); ok {
			slots = fmt.Sprintf("%d %s", s.Count, i18n.SlotName(s.Type))
		}
		crystal := "yes"
		if !d.AllowCrystal() {
			crystal = "no"
		}
		rows = append(rows, []string{d.ID(), i18n.ModifierName(r.ID, r.Level), d.Level().String(), slots, crystal})
	}
	writeTable(w, rows)
	return nil
}

// writeTable は表示幅を揃えた表を書く。1 行目はヘッダー。
func writeTable(w io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i < len(row)-1 {
				cell = runewidth.FillRight(cell, widths[i])
			}
			cells[i] = cell
		}
		line := strings.Join(cells, "  ")
		if n == 0 {
			line = headerStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

func (a *app) runShow(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	raw := fs.Bool("raw", false, "Markdown をレンダリングせずに出力")
	id, rest := splitPositional(args)
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if id == "" {
		id = fs.Arg(0)
	}
	if id == "" {
		return errors.New("show: recipe id is required")
	}
	d, err := a.recipe(id)
	if err != nil {
		return err
	}

	md := a.projector.Markdown(d)
	if !*raw {
		if rendered, err := tui.RenderMarkdown(md, showWidth); err == nil {
			md = rendered
		}
	}
	_, err = io.WriteString(w, md)
	return err
}

// stackList は -input を複数回受け取る flag.Value。
type stackList []schema.ItemStack

func (s *stackList) String() string {
	parts := make([]string, len(*s))
	for i, st := range *s {
		parts[i] = fmt.Sprintf("%s:%d", st.Item, st.Count)
	}
	return strings.Join(parts, ",")
}

func (s *stackList) Set(v string) error {
	id, count, err := parseCounted(v)
	if err != nil {
		return err
	}
	*s = append(*s, schema.ItemStack{Item: schema.ItemID(id), Count: count})
	return nil
}

// parseCounted は "namespace:path[:count]" を分解する。count 省略時は 1。
func parseCounted(v string) (string, int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", 0, errors.New("empty value")
	}
	if i := strings.LastIndex(v, ":"); i > 0 {
		if n, err := strconv.Atoi(v[i+1:]); err == nil {
			if n < 1 {
				return "", 0, fmt.Errorf("%q: count must be >= 1", v)
			}
			return v[:i], n, nil
		}
	}
	return v, 1, nil
}

// splitPositional は先頭の位置引数（flag でないもの）を取り出す。
func splitPositional(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "", args
}

func (a *app) runApply(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	var inputs stackList
	toolName := fs.String("tool", "", "適用先の tool 名（必須）")
	crystal := fs.String("crystal", "", "crystal 入力 modifier:count")
	dryRun := fs.Bool("dry-run", false, "結果を保存しない")
	fs.Var(&inputs, "input", "入力スタック item:count（複数指定可）")

	id, rest := splitPositional(args)
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if *toolName == "" {
		return errors.New("apply: -tool is required")
	}
	if *crystal != "" {
		mod, count, err := parseCounted(*crystal)
		if err != nil {
			return fmt.Errorf("apply: -crystal: %w", err)
		}
		inputs = append(inputs, schema.Crystal(schema.ModifierID(mod), count))
	}

	t, err := a.tools.Load(*toolName)
	if err != nil {
		return err
	}
	c := station.Container{Tool: t, Inputs: inputs}

	var (
		d   *recipe.Definition
		res station.Result
	)
	if id != "" {
		if d, err = a.recipe(id); err != nil {
			return err
		}
		res = a.station.GetValidatedResult(d, c)
	} else {
		d, res = a.station.Find(a.registry.All(), c)
	}

	switch res.State {
	case station.StateNoMatch:
		return errors.New("apply: no recipe matches the tool and inputs")
	case station.StateRejected:
		msg := res.Err.Error()
		var rej *recipe.Rejection
		if errors.As(res.Err, &rej) {
			msg = rej.Localize(a.bundle, a.cfg.Locale)
		}
		fmt.Fprintf(w, "✗ %s: %s\n", d.ID(), msg)
		return errRejected
	}

	fmt.Fprintf(w, "✓ %s applied to %s\n", d.ID(), *toolName)
	a.writeModifiers(w, res.Tool)
	if left := remaining(res.Inputs); len(left) > 0 {
		fmt.Fprintf(w, "  inputs left: %s\n", strings.Join(left, ", "))
	}
	if *dryRun {
		return nil
	}
	return a.tools.Save(*toolName, res.Tool)
}

func remaining(inputs []schema.ItemStack) []string {
	var out []string
	for _, st := range inputs {
		if st.Empty() {
			continue
		}
		if st.IsCrystal() {
			out = append(out, fmt.Sprintf("crystal(%s) × %d", st.Modifier, st.Count))
			continue
		}
		out = append(out, fmt.Sprintf("%s × %d", st.Item, st.Count))
	}
	return out
}

func (a *app) runModifiers(args []string, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("modifiers: tool name is required")
	}
	t, err := a.tools.Load(args[0])
	if err != nil {
		return err
	}
	a.writeModifiers(w, t)
	return nil
}

// writeModifiers は未完成レベルを除いた modifier と incremental の進捗を書く。
func (a *app) writeModifiers(w io.Writer, t tool.View) {
	fmt.Fprintf(w, "  %s\n", t.Item())
	mods := a.station.Modifiers(t)
	if len(mods) == 0 {
		fmt.Fprintln(w, "  (no modifiers)")
	}
	lookup := a.registry.Lookup()
	for _, m := range mods {
		fmt.Fprintf(w, "  - %s\n", i18n.ModifierName(m.ID, m.Level))
	}
	for _, m := range t.Modifiers() {
		needed := lookup.NeededPerLevel(m.ID)
		if has, ok := t.Ledger(m.ID); ok && needed > 0 && has < needed {
			fmt.Fprintf(w, "  … %s %d/%d\n", i18n.ModifierName(m.ID, m.Level), has, needed)
		}
	}
}

func (a *app) runTools(w io.Writer) error {
	names, err := a.tools.List()
	if err != nil {
		return err
	}
	rows := [][]string{{"NAME", "ITEM", "MODIFIERS"}}
	for _, name := range names {
		t, err := a.tools.Load(name)
		if err != nil {
			a.logger.Warn("tool skipped", "name", name, "error", err)
			continue
		}
		mods := a.station.Modifiers(t)
		parts := make([]string, len(mods))
		for i, m := range mods {
			parts[i] = i18n.ModifierName(m.ID, m.Level)
		}
		rows = append(rows, []string{name, string(t.Item()), strings.Join(parts, ", ")})
	}
	writeTable(w, rows)
	return nil
}

func (a *app) runBrowse() error {
	m := tui.New(tui.Deps{
		Recipes:   a.registry.All(),
		Projector: a.projector,
		Station:   a.station,
		Tools:     a.tools,
		Bundle:    a.bundle,
		Locale:    a.cfg.Locale,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
