// Package schema defines the shared value types exchanged between recipes, tools and the station.
package schema

import (
	"fmt"
	"strings"
)

// ModifierID は "namespace:path" 形式の modifier 識別子。
type ModifierID string

// Path は namespace を除いた部分を返す。namespace がなければ全体を返す。
func (id ModifierID) Path() string {
	s := string(id)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// SlotType は tool が持つ modifier スロットの種別（upgrades / abilities など）。
type SlotType string

// ModifierEntry は modifier とそのレベルの組。
type ModifierEntry struct {
	ID    ModifierID `yaml:"id"`
	Level int        `yaml:"level"`
}

func (e ModifierEntry) String() string {
	return fmt.Sprintf("%s@%d", e.ID, e.Level)
}

// MaxLevel はレベル範囲の上限を省略したときの既定値。
const MaxLevel = 32767

// IntRange は両端を含む整数範囲。Min <= Max かつ Min >= 1。
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// NewIntRange は範囲を検証して返す。
func NewIntRange(min, max int) (IntRange, error) {
	if min < 1 {
		return IntRange{}, fmt.Errorf("schema: range min must be >= 1, got %d", min)
	}
	if min > max {
		return IntRange{}, fmt.Errorf("schema: range min %d exceeds max %d", min, max)
	}
	return IntRange{Min: min, Max: max}, nil
}

// ExactRange は [level, level] を返す。
func ExactRange(level int) IntRange {
	return IntRange{Min: level, Max: level}
}

// Contains は n が範囲内かを返す。
func (r IntRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

func (r IntRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.Min, r.Max)
}

// SlotCount は recipe が消費するスロットの種別と数。
type SlotCount struct {
	Type  SlotType `yaml:"type"`
	Count int      `yaml:"count"`
}
