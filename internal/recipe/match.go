package recipe

import "github.com/0x6d61/modforge/pkg/schema"

// MatchInputs は通常マッチを行う。
// 各 ingredient は異なる空でないスロット 1 つで満たされ、余ったスロットがあってはならない。
// 割り当ては増加路で組み直すので、スロットの並び順には依存しない。
// 戻り値はスロット → ingredient の添字（空スロットは -1）。
func (d *Definition) MatchInputs(inputs []schema.ItemStack) ([]int, bool) {
	if _, ok := d.Incremental(); ok {
		return d.matchIncremental(inputs)
	}
	assign := make([]int, len(inputs))
	owner := make([]int, len(d.inputs)) // ingredient → スロット（未使用は -1）
	for i := range owner {
		owner[i] = -1
	}
	for slot, stack := range inputs {
		assign[slot] = -1
		if stack.Empty() {
			continue
		}
		if !d.augment(inputs, slot, owner, make([]bool, len(d.inputs))) {
			return nil, false
		}
	}
	for i, slot := range owner {
		if slot < 0 {
			return nil, false
		}
		assign[slot] = i
	}
	return assign, true
}

// augment は slot に割り当てられる ingredient を探す。
// 使用中の ingredient は、持ち主のスロットを別の ingredient へ移せる場合に譲ってもらう。
func (d *Definition) augment(inputs []schema.ItemStack, slot int, owner []int, seen []bool) bool {
	stack := inputs[slot]
	for i, ing := range d.inputs {
		if seen[i] || stack.Count < ing.Count || !ing.Items.Test(stack.Item) {
			continue
		}
		seen[i] = true
		if owner[i] < 0 || d.augment(inputs, owner[i], owner, seen) {
			owner[i] = slot
			return true
		}
	}
	return false
}

// matchIncremental は空でない全スロットが唯一の ingredient に一致するかを見る。
func (d *Definition) matchIncremental(inputs []schema.ItemStack) ([]int, bool) {
	ing := d.inputs[0]
	assign := make([]int, len(inputs))
	found := false
	for slot, stack := range inputs {
		assign[slot] = -1
		if stack.Empty() {
			continue
		}
		if !ing.Items.Test(stack.Item) {
			return nil, false
		}
		assign[slot] = 0
		found = true
	}
	return assign, found
}

// AvailableAmount は incremental recipe で入力から得られる総量を返す。
func (d *Definition) AvailableAmount(inputs []schema.ItemStack) int {
	inc, ok := d.Incremental()
	if !ok {
		return 0
	}
	total := 0
	for _, stack := range inputs {
		if !stack.Empty() && d.inputs[0].Items.Test(stack.Item) {
			total += stack.Count * inc.AmountPerItem
		}
	}
	return total
}
