package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// AppConfig は config/config.yaml の統合設定構造。
// MODFORGE_* 環境変数があればファイルの値より優先する。
type AppConfig struct {
	RecipesDir string    `yaml:"recipes_dir" env:"RECIPES_DIR"`
	ItemsFile  string    `yaml:"items_file" env:"ITEMS_FILE"`
	ToolsDir   string    `yaml:"tools_dir" env:"TOOLS_DIR"`
	Locale     string    `yaml:"locale" env:"LOCALE"`
	Log        LogConfig `yaml:"log" envPrefix:"LOG_"`
}

// EnvPrefix は環境変数による上書きのプレフィックス
const EnvPrefix = "MODFORGE_"

// applyDefaults はゼロ値のフィールドにデフォルト値を適用する
func (c *AppConfig) applyDefaults() {
	if c.RecipesDir == "" {
		c.RecipesDir = "data/recipes"
	}
	if c.ItemsFile == "" {
		c.ItemsFile = "data/items.yaml"
	}
	if c.ToolsDir == "" {
		c.ToolsDir = "data/tools"
	}
	if c.Locale == "" {
		c.Locale = "en-US"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Load は config/config.yaml を読み込む。
// ${VAR} 環境変数を展開し、MODFORGE_* 環境変数で上書きしてからデフォルトを適用する。
// ファイルが存在しない場合は環境変数とデフォルトだけの AppConfig を返す。
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	// パス系の ${VAR} を展開
	cfg.RecipesDir = expandEnvString(cfg.RecipesDir)
	cfg.ItemsFile = expandEnvString(cfg.ItemsFile)
	cfg.ToolsDir = expandEnvString(cfg.ToolsDir)

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// expandEnvString は文字列内の ${VAR} をホスト環境変数で展開する
func expandEnvString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}
