package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/0x6d61/modforge/internal/i18n"
	"github.com/0x6d61/modforge/internal/recipe"
)

// rebuildViewport regenerates the viewport content for the active recipe,
// including the tool check section when a tool is loaded.
func (m *Model) rebuildViewport() {
	d := m.activeRecipe()
	if d == nil {
		m.viewport.SetContent("  recipe がありません。\n\n  recipes_dir に .yaml / .hcl / .md の定義を置いてください。")
		return
	}

	var sb strings.Builder
	rendered, err := RenderMarkdown(m.deps.Projector.Markdown(d), m.viewport.Width)
	if err != nil {
		// フォールバック: プレーンテキスト
		rendered = m.deps.Projector.Markdown(d)
	}
	sb.WriteString(rendered)

	if check := m.renderCheck(d); check != "" {
		sb.WriteString("\n" + check)
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoTop()
}

// renderCheck は入力バーで読み込んだ tool に対する前提条件の検証結果を返す。
func (m *Model) renderCheck(d *recipe.Definition) string {
	if m.toolName == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(checkToolStyle.Render("■ tool: "+m.toolName) + "\n")

	if m.checkErr != nil {
		sb.WriteString(checkRejectedStyle.Render("  "+m.checkErr.Error()) + "\n")
		return sb.String()
	}

	t := m.checkTool
	mods := m.deps.Station.Modifiers(t)
	names := make([]string, len(mods))
	for i, e := range mods {
		names[i] = i18n.ModifierName(e.ID, e.Level)
	}
	if len(names) == 0 {
		names = []string{"-"}
	}
	fmt.Fprintf(&sb, "  item: %s\n  modifiers: %s\n", t.Item(), strings.Join(names, ", "))

	if !d.Matches(t) {
		sb.WriteString(checkRejectedStyle.Render("  ✗ this recipe does not accept "+string(t.Item())) + "\n")
		return sb.String()
	}
	if err := d.Validate(t); err != nil {
		msg := err.Error()
		if rej, ok := err.(*recipe.Rejection); ok {
			msg = rej.Localize(m.deps.Bundle, m.deps.Locale)
		}
		sb.WriteString(checkRejectedStyle.Render("  ✗ "+msg) + "\n")
	} else {
		sb.WriteString(checkOKStyle.Render("  ✓ prerequisites met") + "\n")
	}
	return sb.String()
}

// RenderMarkdown は glamour を使って Markdown をターミナル用にレンダリングする。
// ダークスタイルを明示指定（WithAutoStyle() は非 TTY 環境で plain にフォールバックするため使用しない）。
// glamour の dark スタイルは左右マージンを追加するため、width を縮小して渡す。
func RenderMarkdown(text string, width int) (string, error) {
	// glamour dark スタイルのマージン分を差し引く（左2+右2=4）
	wrapWidth := width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(text)
	if err != nil {
		return "", err
	}
	return out, nil
}
