package recipe

import (
	"github.com/0x6d61/modforge/internal/tool"
	"github.com/0x6d61/modforge/pkg/schema"
)

// ValidateLevel は適用後のレベル candidate が level の範囲内かを検証する。
// 下限エラーの表示レベルは result 1 回分を差し引いた「事前に必要なレベル」。
func ValidateLevel(level schema.IntRange, result schema.ModifierEntry, candidate int) error {
	if candidate < level.Min {
		return reject(KeyMinLevel, schema.ModifierEntry{ID: result.ID, Level: level.Min - result.Level})
	}
	if candidate > level.Max {
		return reject(KeyMaxLevel, result.ID, level.Max)
	}
	return nil
}

// CheckSlots は tool に slots 分の空きがあるかを検証する。required が false なら常に nil。
func CheckSlots(t tool.View, slots schema.SlotCount, required bool) error {
	if !required {
		return nil
	}
	if t.FreeSlots(slots.Type) < slots.Count {
		if slots.Count == 1 {
			return reject(KeyNotEnoughSlot, slots.Type)
		}
		return reject(KeyNotEnoughSlots, slots.Count, slots.Type)
	}
	return nil
}

// ValidatePrerequisites はレベル範囲を先に検証し、通った場合だけスロットを検証する。
func ValidatePrerequisites(d *Definition, t tool.View, candidate int) error {
	if err := ValidateLevel(d.level, d.result, candidate); err != nil {
		return err
	}
	slots, ok := d.Slots()
	return CheckSlots(t, slots, ok)
}

// ValidatePrerequisites は tool の現在レベルから candidate を求めて検証する。
func (d *Definition) ValidatePrerequisites(t tool.View) error {
	return ValidatePrerequisites(d, t, d.CandidateLevel(t))
}
