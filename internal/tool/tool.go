// Package tool は modifier を受け取る対象アイテム（tool）の状態を表す。
//
// tool の状態は外部で生成・ロードされる。recipe 側は View を通して読むだけで、
// 変更は station が受理した適用 1 回につき Stack のコピーに対して行う。
package tool

import (
	"fmt"
	"maps"
	"slices"

	"github.com/0x6d61/modforge/pkg/schema"
)

// View は recipe の検証・射影が参照する読み取り専用の tool 状態。
type View interface {
	// Item は tool のベースアイテム。
	Item() schema.ItemID
	// Modifiers は表示順の modifier リスト（ID は一意）。
	Modifiers() []schema.ModifierEntry
	// ModifierLevel は modifier の現在レベル。なければ 0。
	ModifierLevel(id schema.ModifierID) int
	// Ledger は incremental modifier の進捗カウンタ。未設定なら ok=false。
	Ledger(id schema.ModifierID) (value int, ok bool)
	// FreeSlots はスロット種別ごとの空き数。
	FreeSlots(slot schema.SlotType) int
}

// Stack は View の具象実装で、station が変更するのはこの型のコピー。
type Stack struct {
	item      schema.ItemID
	modifiers []schema.ModifierEntry
	ledger    map[schema.ModifierID]int
	slots     map[schema.SlotType]int
}

var _ View = (*Stack)(nil)

// New は modifier なしの tool を返す。
func New(item schema.ItemID) *Stack {
	return &Stack{
		item:   item,
		ledger: make(map[schema.ModifierID]int),
		slots:  make(map[schema.SlotType]int),
	}
}

func (s *Stack) Item() schema.ItemID { return s.item }

func (s *Stack) Modifiers() []schema.ModifierEntry {
	return slices.Clone(s.modifiers)
}

func (s *Stack) ModifierLevel(id schema.ModifierID) int {
	if i := s.indexOf(id); i >= 0 {
		return s.modifiers[i].Level
	}
	return 0
}

func (s *Stack) Ledger(id schema.ModifierID) (int, bool) {
	v, ok := s.ledger[id]
	return v, ok
}

func (s *Stack) FreeSlots(slot schema.SlotType) int {
	return s.slots[slot]
}

// LedgerEntries は ledger のコピーを返す。
func (s *Stack) LedgerEntries() map[schema.ModifierID]int {
	return maps.Clone(s.ledger)
}

// Slots は空きスロット数のコピーを返す。
func (s *Stack) Slots() map[schema.SlotType]int {
	return maps.Clone(s.slots)
}

// AddModifier は modifier を level 分加える。既存なら同じ位置でレベルを上げ、なければ末尾に追加する。
func (s *Stack) AddModifier(id schema.ModifierID, level int) error {
	if level < 1 {
		return fmt.Errorf("tool: modifier %s: level must be >= 1, got %d", id, level)
	}
	if i := s.indexOf(id); i >= 0 {
		s.modifiers[i].Level += level
		return nil
	}
	s.modifiers = append(s.modifiers, schema.ModifierEntry{ID: id, Level: level})
	return nil
}

// SetLedger は ledger カウンタを設定する。負数は不可。
func (s *Stack) SetLedger(id schema.ModifierID, value int) error {
	if value < 0 {
		return fmt.Errorf("tool: ledger %s: value must be >= 0, got %d", id, value)
	}
	s.ledger[id] = value
	return nil
}

// SetFreeSlots は空きスロット数を設定する。
func (s *Stack) SetFreeSlots(slot schema.SlotType, free int) {
	s.slots[slot] = free
}

// ConsumeSlots は空きスロットを count 減らす。足りなければエラー。
func (s *Stack) ConsumeSlots(slot schema.SlotType, count int) error {
	if s.slots[slot] < count {
		return fmt.Errorf("tool: need %d %s slots, have %d", count, slot, s.slots[slot])
	}
	s.slots[slot] -= count
	return nil
}

// Copy は独立したコピーを返す。
func (s *Stack) Copy() *Stack {
	return &Stack{
		item:      s.item,
		modifiers: slices.Clone(s.modifiers),
		ledger:    maps.Clone(s.ledger),
		slots:     maps.Clone(s.slots),
	}
}

func (s *Stack) indexOf(id schema.ModifierID) int {
	return slices.IndexFunc(s.modifiers, func(e schema.ModifierEntry) bool { return e.ID == id })
}
