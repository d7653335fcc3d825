package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/0x6d61/modforge/internal/config"
	"github.com/0x6d61/modforge/internal/logging"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "設定ファイルのパス")
		locale     = flag.String("locale", "", "メッセージのロケール（省略時は設定ファイルの locale）")
		logLevel   = flag.String("log-level", "", "ログレベル: debug, info, warn, error")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `⚒ Modforge: tool modifier recipe engine

Usage:
  modforge [flags] <command> [args]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Commands:
  list                     recipe 一覧
  show <recipe>            recipe のプレビュー（Markdown）
  apply [recipe] -tool <name> [-input item:count ...] [-crystal modifier:count]
                           保存済み tool に recipe を適用（recipe 省略時は一致する最初の recipe）
  modifiers <tool>         未完成レベルを除いた tool の modifier 一覧
  tools                    保存済み tool 一覧
  browse                   recipe ブラウザ（TUI）

Environment:
  MODFORGE_RECIPES_DIR     recipe 定義ディレクトリ (default: data/recipes)
  MODFORGE_ITEMS_FILE      アイテムカタログ (default: data/items.yaml)
  MODFORGE_TOOLS_DIR       tool 保存ディレクトリ (default: data/tools)
  MODFORGE_LOCALE          en-US, ja-JP
  MODFORGE_LOG_LEVEL       debug, info, warn, error
  MODFORGE_LOG_FORMAT      text, json

Examples:
  modforge list
  modforge show upgrades/haste
  modforge apply upgrades/haste -tool pickaxe -input minecraft:redstone:4
  modforge apply -tool pickaxe -crystal modforge:luck:1
`)
	}
	flag.Parse()

	// .env があれば読み込む（なくてもよい）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, ".env 読み込みエラー:", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "設定エラー:", err)
		os.Exit(1)
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ロードエラー:", err)
		os.Exit(1)
	}

	if err := a.run(args[0], args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "エラー:", err)
		}
		os.Exit(1)
	}
}
