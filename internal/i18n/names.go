package i18n

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/0x6d61/modforge/pkg/schema"
)

// ModifierName は modifier の表示名を返す。level > 0 ならローマ数字のレベルを付ける。
//
//	ModifierName("modforge:soul_speed", 2) // "Soul Speed II"
func ModifierName(id schema.ModifierID, level int) string {
	name := title(strings.ReplaceAll(id.Path(), "_", " "))
	if level <= 0 {
		return name
	}
	return name + " " + Roman(level)
}

// SlotName はスロット種別の表示名を返す。
func SlotName(slot schema.SlotType) string {
	return title(strings.ReplaceAll(string(slot), "_", " "))
}

// Caser は状態を持つため呼び出しごとに作る。
func title(s string) string {
	return cases.Title(language.English).String(s)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman は 1〜3999 をローマ数字にする。範囲外は 10 進のまま返す。
func Roman(n int) string {
	if n < 1 || n > 3999 {
		return strconv.Itoa(n)
	}
	var sb strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String()
}
