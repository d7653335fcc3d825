package recipe

import "github.com/0x6d61/modforge/internal/i18n"

// 拒否メッセージのキー。ロケール別の文言は internal/i18n のカタログで定義する。
const (
	// KeyMinLevel は既存レベルが足りないとき。引数: 必要な modifier（レベル付き）
	KeyMinLevel = "recipe.modifier.min_level"
	// KeyMaxLevel は最大レベルに達しているとき。引数: modifier, 最大レベル
	KeyMaxLevel = "recipe.modifier.max_level"
	// KeyNotEnoughSlot は 1 スロット必要で空きがないとき。引数: スロット種別
	KeyNotEnoughSlot = "recipe.modifier.not_enough_slot"
	// KeyNotEnoughSlots は複数スロット必要で空きが足りないとき。引数: 必要数, スロット種別
	KeyNotEnoughSlots = "recipe.modifier.not_enough_slots"
)

// Rejection は検証で recipe が適用できなかった理由。
// 呼び出し側がローカライズできるよう、文字列ではなくキーと引数で持つ。
type Rejection struct {
	Key  string
	Args []any
}

func reject(key string, args ...any) *Rejection {
	return &Rejection{Key: key, Args: args}
}

// Error は BaseLocale の文言を返す。
func (r *Rejection) Error() string {
	return r.Localize(i18n.Default(), i18n.BaseLocale)
}

// Localize は locale の文言を返す。
func (r *Rejection) Localize(b *i18n.Bundle, locale string) string {
	return b.Localize(locale, r.Key, r.Args...)
}
