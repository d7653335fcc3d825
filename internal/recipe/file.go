package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"github.com/0x6d61/modforge/internal/item"
	"github.com/0x6d61/modforge/pkg/schema"
)

// FileDef は recipes/ 以下の定義ファイルの形。YAML と HCL で同じフィールドを持つ。
//
//	tools: ["#modforge:modifiable/harvest"]
//	result: {modifier: modforge:haste, level: 1}
//	level: {min: 1, max: 5}
//	slots: {type: upgrade, count: 1}
//	inputs:
//	  - {item: minecraft:redstone, count: 1}
type FileDef struct {
	ID           string          `yaml:"id" hcl:"id,optional"`
	Tools        []string        `yaml:"tools" hcl:"tools"`
	MaxToolSize  int             `yaml:"max_tool_size" hcl:"max_tool_size,optional"`
	Result       ResultDef       `yaml:"result" hcl:"result,block"`
	Level        *LevelDef       `yaml:"level" hcl:"level,block"`
	Slots        *SlotsDef       `yaml:"slots" hcl:"slots,block"`
	AllowCrystal *bool           `yaml:"allow_crystal" hcl:"allow_crystal,optional"`
	Inputs       []InputDef      `yaml:"inputs" hcl:"input,block"`
	Incremental  *IncrementalDef `yaml:"incremental" hcl:"incremental,block"`
	Description  string          `yaml:"description" hcl:"description,optional"`
}

type ResultDef struct {
	Modifier string `yaml:"modifier" hcl:"modifier"`
	Level    int    `yaml:"level" hcl:"level,optional"`
}

// LevelDef の省略した端は min=1 / max=schema.MaxLevel。
type LevelDef struct {
	Min *int `yaml:"min" hcl:"min,optional"`
	Max *int `yaml:"max" hcl:"max,optional"`
}

type SlotsDef struct {
	Type  string `yaml:"type" hcl:"type"`
	Count int    `yaml:"count" hcl:"count,optional"`
}

type InputDef struct {
	Item  string `yaml:"item" hcl:"item"`
	Count int    `yaml:"count" hcl:"count,optional"`
}

type IncrementalDef struct {
	NeededPerLevel int `yaml:"needed_per_level" hcl:"needed_per_level"`
	AmountPerItem  int `yaml:"amount_per_item" hcl:"amount_per_item,optional"`
}

// parseYAML は YAML 定義をパースする。
func parseYAML(data []byte) (FileDef, error) {
	var f FileDef
	if err := yaml.Unmarshal(data, &f); err != nil {
		return FileDef{}, fmt.Errorf("parse yaml: %w", err)
	}
	return f, nil
}

// parseHCL は HCL 定義をパースする。filename は診断メッセージと拡張子判定に使われる。
func parseHCL(filename string, data []byte) (FileDef, error) {
	var f FileDef
	if err := hclsimple.Decode(filename, data, nil, &f); err != nil {
		return FileDef{}, fmt.Errorf("parse hcl: %w", err)
	}
	return f, nil
}

// parseMarkdown は YAML frontmatter + Markdown 本文の定義をパースする。本文は description になる。
func parseMarkdown(data []byte) (FileDef, error) {
	content := string(data)
	if !strings.HasPrefix(content, "---") {
		return FileDef{}, errors.New("markdown recipe must start with a --- frontmatter block")
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return FileDef{}, errors.New("unterminated frontmatter")
	}
	f, err := parseYAML([]byte(parts[1]))
	if err != nil {
		return FileDef{}, err
	}
	if body := strings.TrimSpace(parts[2]); body != "" {
		f.Description = body
	}
	return f, nil
}

// Params は FileDef を cat に対して解決し、New に渡せる形にする。
// id が FileDef で指定されていなければ defaultID を使う。
func (f FileDef) Params(cat *item.Catalog, defaultID string) (Params, error) {
	p := Params{
		ID:          f.ID,
		MaxToolSize: f.MaxToolSize,
		Result:      schema.ModifierEntry{ID: schema.ModifierID(f.Result.Modifier), Level: f.Result.Level},
		Description: strings.TrimSpace(f.Description),
	}
	if p.ID == "" {
		p.ID = defaultID
	}

	tools, err := item.ParseMatcher(cat, f.Tools)
	if err != nil {
		return Params{}, fmt.Errorf("tools: %w", err)
	}
	p.Tools = tools

	if f.Level != nil {
		p.Level = schema.IntRange{Min: 1, Max: schema.MaxLevel}
		if f.Level.Min != nil {
			p.Level.Min = *f.Level.Min
		}
		if f.Level.Max != nil {
			p.Level.Max = *f.Level.Max
		}
		if p.Level == (schema.IntRange{}) {
			// min=0,max=0 をゼロ値（既定）と区別するため New で範囲エラーにする
			p.Level.Max = -1
		}
	}
	if f.Slots != nil {
		p.Slots = schema.SlotCount{Type: schema.SlotType(f.Slots.Type), Count: f.Slots.Count}
		if p.Slots.Count == 0 {
			p.Slots.Count = 1
		}
	}
	if f.AllowCrystal != nil {
		p.DisallowCrystal = !*f.AllowCrystal
	}
	for i, in := range f.Inputs {
		m, err := item.ParseMatcher(cat, []string{in.Item})
		if err != nil {
			return Params{}, fmt.Errorf("input %d: %w", i, err)
		}
		p.Inputs = append(p.Inputs, Ingredient{Items: m, Count: in.Count})
	}
	if f.Incremental != nil {
		p.Incremental = Incremental{
			NeededPerLevel: f.Incremental.NeededPerLevel,
			AmountPerItem:  f.Incremental.AmountPerItem,
		}
		if p.Incremental == (Incremental{}) {
			p.Incremental.NeededPerLevel = -1
		}
	}
	return p, nil
}
