package item

import (
	"fmt"
	"strings"

	"github.com/0x6d61/modforge/pkg/schema"
)

// Matcher はアイテム ID または "#tag" のいずれかに一致するアイテムを表す。
// カタログにないアイテムは ID 指定でのみ一致する。
type Matcher struct {
	ids  []schema.ItemID
	tags []string
	cat  *Catalog
}

// ParseMatcher は "modforge:pickaxe" / "#modforge:modifiable" 形式のリストからマッチャーを作る。
func ParseMatcher(cat *Catalog, patterns []string) (Matcher, error) {
	if len(patterns) == 0 {
		return Matcher{}, fmt.Errorf("item: matcher needs at least one item or tag")
	}
	m := Matcher{cat: cat}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "" || p == "#":
			return Matcher{}, fmt.Errorf("item: blank matcher entry")
		case strings.HasPrefix(p, "#"):
			m.tags = append(m.tags, strings.TrimPrefix(p, "#"))
		default:
			m.ids = append(m.ids, schema.ItemID(p))
		}
	}
	return m, nil
}

// Test は id が一致するかを返す。
func (m Matcher) Test(id schema.ItemID) bool {
	if id == "" {
		return false
	}
	for _, want := range m.ids {
		if want == id {
			return true
		}
	}
	if len(m.tags) == 0 || m.cat == nil {
		return false
	}
	def, ok := m.cat.Get(id)
	if !ok {
		return false
	}
	for _, tag := range m.tags {
		if def.HasTag(tag) {
			return true
		}
	}
	return false
}

// Items は一致する候補アイテムを返す。
// ID 指定は記述順、タグ由来はカタログの定義順で、重複は除く。
func (m Matcher) Items() []schema.ItemID {
	seen := make(map[schema.ItemID]bool)
	var out []schema.ItemID
	for _, id := range m.ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if m.cat != nil && len(m.tags) > 0 {
		for _, def := range m.cat.All() {
			if !seen[def.ID] && m.Test(def.ID) {
				seen[def.ID] = true
				out = append(out, def.ID)
			}
		}
	}
	return out
}

func (m Matcher) String() string {
	parts := make([]string, 0, len(m.ids)+len(m.tags))
	for _, id := range m.ids {
		parts = append(parts, string(id))
	}
	for _, tag := range m.tags {
		parts = append(parts, "#"+tag)
	}
	return strings.Join(parts, ", ")
}
