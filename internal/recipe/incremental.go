package recipe

import (
	"github.com/0x6d61/modforge/internal/tool"
	"github.com/0x6d61/modforge/pkg/schema"
)

// ModifiersIgnoringPartial は incremental modifier の未完成レベルを除いた modifier リストを返す。
//
// ledger のカウンタが必要量に届いていなければ最上位レベルを 1 下げ、
// レベル 1 なら一覧から外す。tool 自体は変更しない。
func ModifiersIgnoringPartial(t tool.View, lookup *Lookup) []schema.ModifierEntry {
	mods := t.Modifiers()
	out := make([]schema.ModifierEntry, 0, len(mods))
	for _, entry := range mods {
		needed := lookup.NeededPerLevel(entry.ID)
		has, ok := t.Ledger(entry.ID)
		switch {
		case needed == 0 || !ok:
			out = append(out, entry)
		case has >= needed:
			out = append(out, entry)
		case entry.Level > 1:
			out = append(out, schema.ModifierEntry{ID: entry.ID, Level: entry.Level - 1})
		}
	}
	return out
}
