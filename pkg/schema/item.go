package schema

// ItemID は "namespace:path" 形式のアイテム識別子。
type ItemID string

// CrystalItem は modifier を任意レベル分まとめて保持する crystal のアイテム ID。
const CrystalItem ItemID = "modforge:modifier_crystal"

// ItemStack は station の入力スロット 1 つ分のスタック。
// Modifier は crystal に埋め込まれた modifier ID（crystal 以外は空）。
type ItemStack struct {
	Item     ItemID     `yaml:"item"`
	Count    int        `yaml:"count"`
	Modifier ModifierID `yaml:"modifier,omitempty"`
}

// Empty は空スロットかを返す。
func (s ItemStack) Empty() bool {
	return s.Item == "" || s.Count <= 0
}

// IsCrystal は crystal スタックかを返す。
func (s ItemStack) IsCrystal() bool {
	return !s.Empty() && s.Item == CrystalItem
}

// Shrink は n 個減らしたスタックを返す。0 以下になれば空スタック。
func (s ItemStack) Shrink(n int) ItemStack {
	s.Count -= n
	if s.Count <= 0 {
		return ItemStack{}
	}
	return s
}

// Crystal は modifier を count レベル分保持する crystal スタックを返す。
func Crystal(id ModifierID, count int) ItemStack {
	return ItemStack{Item: CrystalItem, Count: count, Modifier: id}
}
