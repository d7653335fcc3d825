// Package recipe は modifier recipe の定義・検証・ロードを扱う。
//
// Definition はロード後に変更されない。incremental modifier の
// 「1 レベルに必要な量」は構築時の副作用ではなく、全定義がそろった後に
// BuildLookup で別パスとして集計し、Lookup を明示的に渡して使う。
package recipe

import (
	"errors"
	"fmt"
	"slices"

	"github.com/0x6d61/modforge/internal/item"
	"github.com/0x6d61/modforge/internal/tool"
	"github.com/0x6d61/modforge/pkg/schema"
)

// DefaultMaxToolSize は max_tool_size 省略時の値。
const DefaultMaxToolSize = 1

// Ingredient は通常マッチで 1 スロットに要求するアイテムと数。
type Ingredient struct {
	Items item.Matcher
	Count int
}

// Incremental は複数回の適用で 1 レベル上がる modifier の設定。
type Incremental struct {
	// NeededPerLevel は 1 レベルに必要な量。
	NeededPerLevel int
	// AmountPerItem は入力アイテム 1 個あたりの量。
	AmountPerItem int
}

// Params は New に渡す構築パラメータ。ゼロ値のフィールドは既定値になる。
type Params struct {
	ID          string
	Tools       item.Matcher
	MaxToolSize int                  // 0 なら DefaultMaxToolSize
	Result      schema.ModifierEntry // Level 0 なら 1
	Level       schema.IntRange      // ゼロ値なら Result.Level ちょうど
	Slots       schema.SlotCount     // ゼロ値ならスロット不要
	// DisallowCrystal が true なら crystal での適用を禁止する。
	DisallowCrystal bool
	Inputs          []Ingredient
	Incremental     Incremental // NeededPerLevel 0 なら通常の modifier
	Description     string
}

// Definition は modifier recipe 1 件。構築後は不変。
type Definition struct {
	id           string
	tools        item.Matcher
	maxToolSize  int
	result       schema.ModifierEntry
	level        schema.IntRange
	slots        schema.SlotCount
	hasSlots     bool
	allowCrystal bool
	inputs       []Ingredient
	incremental  Incremental
	description  string
}

// New は Params を検証して Definition を返す。不正な定義は設定エラー。
func New(p Params) (*Definition, error) {
	if p.ID == "" {
		return nil, errors.New("recipe: definition missing id")
	}
	fail := func(format string, args ...any) (*Definition, error) {
		return nil, fmt.Errorf("recipe %s: "+format, append([]any{p.ID}, args...)...)
	}

	if len(p.Tools.Items()) == 0 {
		return fail("tools must match at least one item")
	}

	d := &Definition{
		id:           p.ID,
		tools:        p.Tools,
		maxToolSize:  p.MaxToolSize,
		result:       p.Result,
		allowCrystal: !p.DisallowCrystal,
		inputs:       slices.Clone(p.Inputs),
		incremental:  p.Incremental,
		description:  p.Description,
	}

	if d.maxToolSize == 0 {
		d.maxToolSize = DefaultMaxToolSize
	}
	if d.maxToolSize < 1 {
		return fail("max_tool_size must be >= 1, got %d", d.maxToolSize)
	}

	if d.result.ID == "" {
		return fail("result modifier is required")
	}
	if d.result.Level == 0 {
		d.result.Level = 1
	}
	if d.result.Level < 1 {
		return fail("result level must be >= 1, got %d", d.result.Level)
	}

	if p.Level == (schema.IntRange{}) {
		d.level = schema.ExactRange(d.result.Level)
	} else {
		r, err := schema.NewIntRange(p.Level.Min, p.Level.Max)
		if err != nil {
			return fail("level: %w", err)
		}
		d.level = r
	}

	if p.Slots != (schema.SlotCount{}) {
		if p.Slots.Type == "" {
			return fail("slots type is required")
		}
		if p.Slots.Count < 1 {
			return fail("slots count must be >= 1, got %d", p.Slots.Count)
		}
		d.slots, d.hasSlots = p.Slots, true
	}

	if len(d.inputs) == 0 {
		return fail("at least one input is required")
	}
	for i := range d.inputs {
		if d.inputs[i].Count == 0 {
			d.inputs[i].Count = 1
		}
		if d.inputs[i].Count < 1 {
			return fail("input %d: count must be >= 1", i)
		}
		if len(d.inputs[i].Items.Items()) == 0 {
			return fail("input %d: matcher is empty", i)
		}
	}

	if d.incremental != (Incremental{}) {
		if d.incremental.NeededPerLevel < 1 {
			return fail("incremental needed_per_level must be >= 1, got %d", d.incremental.NeededPerLevel)
		}
		if d.incremental.AmountPerItem == 0 {
			d.incremental.AmountPerItem = 1
		}
		if d.incremental.AmountPerItem < 1 {
			return fail("incremental amount_per_item must be >= 1, got %d", d.incremental.AmountPerItem)
		}
		if len(d.inputs) != 1 {
			return fail("incremental recipes take exactly one input, got %d", len(d.inputs))
		}
	}
	return d, nil
}

func (d *Definition) ID() string                   { return d.id }
func (d *Definition) Tools() item.Matcher          { return d.tools }
func (d *Definition) MaxToolSize() int             { return d.maxToolSize }
func (d *Definition) Result() schema.ModifierEntry { return d.result }
func (d *Definition) Level() schema.IntRange       { return d.level }
func (d *Definition) AllowCrystal() bool           { return d.allowCrystal }
func (d *Definition) Inputs() []Ingredient         { return slices.Clone(d.inputs) }
func (d *Definition) Description() string          { return d.description }

// Slots は必要スロットを返す。スロット不要なら ok=false。
func (d *Definition) Slots() (schema.SlotCount, bool) {
	return d.slots, d.hasSlots
}

// SlotType は Lookup のキーに使うスロット種別。スロット不要なら空。
func (d *Definition) SlotType() schema.SlotType {
	return d.slots.Type
}

// Incremental は incremental 設定を返す。通常の modifier なら ok=false。
func (d *Definition) Incremental() (Incremental, bool) {
	return d.incremental, d.incremental.NeededPerLevel > 0
}

// ShrinkToolSlotBy は成功時に tool スタックから消費する数。
func (d *Definition) ShrinkToolSlotBy() int {
	return d.maxToolSize
}

// Matches は tool のベースアイテムが tools マッチャーに一致するかを返す。
func (d *Definition) Matches(t tool.View) bool {
	return d.tools.Test(t.Item())
}

// CandidateLevel は適用成功後の result modifier のレベル。
func (d *Definition) CandidateLevel(t tool.View) int {
	return t.ModifierLevel(d.result.ID) + d.result.Level
}

// Validate は CandidateLevel を使って前提条件を検証する。
func (d *Definition) Validate(t tool.View) error {
	return ValidatePrerequisites(d, t, d.CandidateLevel(t))
}

// MatchesCrystal は allow_crystal が有効で、入力が result の crystal 1 スタックだけかを返す。
func (d *Definition) MatchesCrystal(inputs []schema.ItemStack) bool {
	return d.allowCrystal && MatchesCrystal(inputs, d.result)
}

func (d *Definition) String() string {
	return fmt.Sprintf("Definition{%s}", d.id)
}
