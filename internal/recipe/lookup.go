package recipe

import (
	"errors"
	"fmt"
	"slices"

	"github.com/0x6d61/modforge/pkg/schema"
)

type lookupKey struct {
	slot     schema.SlotType
	modifier schema.ModifierID
}

// Lookup は (スロット種別, modifier) ごとの「1 レベルに必要な量」を保持する。
// BuildLookup で全定義から一度だけ作られ、以後は読み取り専用。nil でも使える。
type Lookup struct {
	needed     map[lookupKey]int
	byModifier map[schema.ModifierID]int
	modifiers  map[schema.SlotType][]schema.ModifierID
}

// BuildLookup は定義一覧から Lookup を作る。
//
// 同じ modifier に異なる needed_per_level を主張する定義は設定エラーとして除外し、
// 残りの定義（accepted）とエラーをまとめて返す。ロード全体は止めない。
func BuildLookup(defs []*Definition) (lookup *Lookup, accepted []*Definition, err error) {
	l := &Lookup{
		needed:     make(map[lookupKey]int),
		byModifier: make(map[schema.ModifierID]int),
		modifiers:  make(map[schema.SlotType][]schema.ModifierID),
	}
	owner := make(map[schema.ModifierID]string)
	var errs []error

	for _, d := range defs {
		key := lookupKey{slot: d.SlotType(), modifier: d.result.ID}
		if inc, ok := d.Incremental(); ok {
			if have, exists := l.byModifier[key.modifier]; exists && have != inc.NeededPerLevel {
				errs = append(errs, fmt.Errorf("recipe %s: modifier %s needs %d per level, but %s already registered %d",
					d.id, key.modifier, inc.NeededPerLevel, owner[key.modifier], have))
				continue
			}
			l.byModifier[key.modifier] = inc.NeededPerLevel
			l.needed[key] = inc.NeededPerLevel
			owner[key.modifier] = d.id
		} else if _, exists := l.needed[key]; !exists {
			l.needed[key] = 0
		}
		if !slices.Contains(l.modifiers[key.slot], key.modifier) {
			l.modifiers[key.slot] = append(l.modifiers[key.slot], key.modifier)
		}
		accepted = append(accepted, d)
	}

	// incremental な定義より先に登録された通常定義のキーにも値を反映する
	for key := range l.needed {
		l.needed[key] = l.byModifier[key.modifier]
	}
	for slot := range l.modifiers {
		slices.Sort(l.modifiers[slot])
	}
	return l, accepted, errors.Join(errs...)
}

// NeededPerLevel は modifier の 1 レベルに必要な量。incremental でなければ 0。
func (l *Lookup) NeededPerLevel(id schema.ModifierID) int {
	if l == nil {
		return 0
	}
	return l.byModifier[id]
}

// NeededFor は (スロット種別, modifier) の組で登録された値を返す。未登録なら ok=false。
func (l *Lookup) NeededFor(slot schema.SlotType, id schema.ModifierID) (int, bool) {
	if l == nil {
		return 0, false
	}
	n, ok := l.needed[lookupKey{slot: slot, modifier: id}]
	return n, ok
}

// Modifiers はスロット種別 slot を消費して得られる modifier を ID 順で返す。
func (l *Lookup) Modifiers(slot schema.SlotType) []schema.ModifierID {
	if l == nil {
		return nil
	}
	return slices.Clone(l.modifiers[slot])
}

// SlotTypes は登録済みのスロット種別を返す（スロット不要は空文字列）。
func (l *Lookup) SlotTypes() []schema.SlotType {
	if l == nil {
		return nil
	}
	out := make([]schema.SlotType, 0, len(l.modifiers))
	for slot := range l.modifiers {
		out = append(out, slot)
	}
	slices.Sort(out)
	return out
}
