// Package logging は CLI とライブラリで共有する slog ロガーを作る。
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New は level（debug / info / warn / error）と format（text / json）から slog.Logger を作る。
// 不明な level は info、不明な format は text として扱う。グローバルロガーは設定しない。
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel はログレベル名を slog.Level に変換する。
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
