package recipe

import "github.com/0x6d61/modforge/pkg/schema"

// MatchesCrystal は入力スナップショットが match の crystal 1 スタックだけで構成されるかを返す。
//
// 空でないスタックは 1 つだけ許され、それが crystal でなければ false。
// crystal の modifier が違うか個数が match.Level 未満なら、その時点の found を返す。
func MatchesCrystal(inputs []schema.ItemStack, match schema.ModifierEntry) bool {
	found := false
	for _, stack := range inputs {
		if stack.Empty() {
			continue
		}
		if found || !stack.IsCrystal() {
			return false
		}
		if stack.Modifier != match.ID || stack.Count < match.Level {
			return found
		}
		found = true
	}
	return found
}
