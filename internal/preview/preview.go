// Package preview は recipe の「適用前 / 適用後」の表示用 tool を作る。
//
// 結果は recipe 定義ごとに一度だけ計算して Projector にキャッシュする。
// 定義はロード後に変更されないので無効化は不要。
package preview

import (
	"sync"

	"github.com/0x6d61/modforge/internal/item"
	"github.com/0x6d61/modforge/internal/recipe"
	"github.com/0x6d61/modforge/pkg/schema"
)

// Tool は表示用の tool（アイテムと付与済み modifier）。
type Tool struct {
	Item      schema.ItemID
	Modifiers []schema.ModifierEntry
}

// Preview は 1 recipe 分の表示データ。共有されるので呼び出し側は変更しないこと。
type Preview struct {
	// ToolInputs は tools マッチャーの候補を表示用アイテムに置き換えたもの。
	ToolInputs []schema.ItemID
	// DisplayResult は必要最小レベルを含めた result。
	DisplayResult schema.ModifierEntry
	// ToolWithoutModifier は適用前（必要最小レベルのみ）の tool。
	ToolWithoutModifier []Tool
	// ToolWithModifier は適用後の tool。
	ToolWithModifier []Tool
}

// Projector は recipe 定義をキーに Preview をメモ化する。並行利用可。
type Projector struct {
	catalog *item.Catalog

	mu    sync.Mutex
	cache map[*recipe.Definition]*Preview
}

// NewProjector は catalog の表示用アイテムを使う Projector を返す。
func NewProjector(cat *item.Catalog) *Projector {
	return &Projector{
		catalog: cat,
		cache:   make(map[*recipe.Definition]*Preview),
	}
}

// Get は d の Preview を返す。初回だけ計算する。
func (p *Projector) Get(d *recipe.Definition) *Preview {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pv, ok := p.cache[d]; ok {
		return pv
	}
	pv := p.build(d)
	p.cache[d] = pv
	return pv
}

func (p *Projector) DisplayResult(d *recipe.Definition) schema.ModifierEntry {
	return p.Get(d).DisplayResult
}

func (p *Projector) ToolWithoutModifier(d *recipe.Definition) []Tool {
	return p.Get(d).ToolWithoutModifier
}

func (p *Projector) ToolWithModifier(d *recipe.Definition) []Tool {
	return p.Get(d).ToolWithModifier
}

func (p *Projector) build(d *recipe.Definition) *Preview {
	inputs := toolInputs(d, p.catalog)
	display := DisplayResult(d)

	var without []schema.ModifierEntry
	result := d.Result()
	if existing := d.Level().Min - result.Level; existing > 0 {
		without = []schema.ModifierEntry{{ID: result.ID, Level: existing}}
	}
	with := []schema.ModifierEntry{display}

	pv := &Preview{
		ToolInputs:    inputs,
		DisplayResult: display,
	}
	for _, id := range inputs {
		pv.ToolWithoutModifier = append(pv.ToolWithoutModifier, Tool{Item: id, Modifiers: without})
		pv.ToolWithModifier = append(pv.ToolWithModifier, Tool{Item: id, Modifiers: with})
	}
	return pv
}

// DisplayResult は result に (level.min - 1) を足したもの。level.min が 1 なら result のまま。
func DisplayResult(d *recipe.Definition) schema.ModifierEntry {
	result := d.Result()
	if lo := d.Level().Min; lo > 1 {
		return schema.ModifierEntry{ID: result.ID, Level: result.Level + lo - 1}
	}
	return result
}

func toolInputs(d *recipe.Definition, cat *item.Catalog) []schema.ItemID {
	items := d.Tools().Items()
	out := make([]schema.ItemID, len(items))
	for i, id := range items {
		if cat != nil {
			id = cat.RenderItem(id)
		}
		out[i] = id
	}
	return out
}
