package preview

import (
	"fmt"
	"strings"

	"github.com/0x6d61/modforge/internal/i18n"
	"github.com/0x6d61/modforge/internal/recipe"
	"github.com/0x6d61/modforge/pkg/schema"
)

// Markdown は recipe の説明ページを Markdown で返す。CLI の show と TUI のプレビューで共有する。
func (p *Projector) Markdown(d *recipe.Definition) string {
	pv := p.Get(d)
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n`%s`\n\n", i18n.ModifierName(pv.DisplayResult.ID, pv.DisplayResult.Level), d.ID())
	if desc := strings.TrimSpace(d.Description()); desc != "" {
		sb.WriteString(desc + "\n\n")
	}

	lv := d.Level()
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Result | %s |\n", i18n.ModifierName(d.Result().ID, d.Result().Level))
	fmt.Fprintf(&sb, "| Level | %s |\n", levelRange(lv))
	if slots, ok := d.Slots(); ok {
		fmt.Fprintf(&sb, "| Slots | %d %s |\n", slots.Count, i18n.SlotName(slots.Type))
	}
	crystal := "allowed"
	if !d.AllowCrystal() {
		crystal = "not allowed"
	}
	fmt.Fprintf(&sb, "| Crystal | %s |\n", crystal)
	fmt.Fprintf(&sb, "| Max tool size | %d |\n\n", d.MaxToolSize())

	sb.WriteString("## Inputs\n\n")
	for _, ing := range d.Inputs() {
		fmt.Fprintf(&sb, "- %d × `%s`\n", ing.Count, ing.Items.String())
	}
	if inc, ok := d.Incremental(); ok {
		fmt.Fprintf(&sb, "\nEach item adds %d, %d needed per level.\n", inc.AmountPerItem, inc.NeededPerLevel)
	}

	sb.WriteString("\n## Tools\n\n| Tool | Before | After |\n|---|---|---|\n")
	for i := range pv.ToolInputs {
		before, after := pv.ToolWithoutModifier[i], pv.ToolWithModifier[i]
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", before.Item, modifierList(before.Modifiers), modifierList(after.Modifiers))
	}
	return sb.String()
}

func levelRange(r schema.IntRange) string {
	switch {
	case r.Min == r.Max:
		return fmt.Sprintf("%d", r.Min)
	case r.Max == schema.MaxLevel:
		return fmt.Sprintf("%d+", r.Min)
	default:
		return fmt.Sprintf("%d to %d", r.Min, r.Max)
	}
}

func modifierList(mods []schema.ModifierEntry) string {
	if len(mods) == 0 {
		return "-"
	}
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = i18n.ModifierName(m.ID, m.Level)
	}
	return strings.Join(names, ", ")
}
