// Package item はアイテム定義（タグ・表示用の代替アイテム）と
// recipe が使うアイテムマッチャーを管理する。
//
// カタログは YAML で定義する:
//
//	items:
//	  - id: modforge:pickaxe
//	    tags: [modforge:modifiable, modforge:modifiable/harvest]
//	    render_as: modforge:pickaxe_render
package item

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/0x6d61/modforge/pkg/schema"
)

// Def は 1 アイテムの定義。
type Def struct {
	ID   schema.ItemID `yaml:"id"`
	Tags []string      `yaml:"tags"`
	// RenderAs は表示時に代わりに描画するアイテム（空なら自身）。
	RenderAs schema.ItemID `yaml:"render_as"`
}

// HasTag は tag を持つかを返す。
func (d *Def) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// Catalog はロード済みアイテム定義を定義順に保持する。
type Catalog struct {
	order []schema.ItemID
	defs  map[schema.ItemID]*Def
}

// NewCatalog は空の Catalog を返す。
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[schema.ItemID]*Def)}
}

// LoadFile は items.yaml を読み込んでカタログに追加する。
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("item: read %s: %w", path, err)
	}
	var file struct {
		Items []Def `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("item: parse %s: %w", path, err)
	}
	var errs []error
	for i := range file.Items {
		if err := c.Register(&file.Items[i]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// Register はアイテム定義を追加する。ID の重複はエラー。
func (c *Catalog) Register(def *Def) error {
	if def.ID == "" {
		return errors.New("item: definition missing 'id' field")
	}
	if _, exists := c.defs[def.ID]; exists {
		return fmt.Errorf("item: duplicate item %q", def.ID)
	}
	c.defs[def.ID] = def
	c.order = append(c.order, def.ID)
	return nil
}

// Get は ID でアイテム定義を検索する。
func (c *Catalog) Get(id schema.ItemID) (*Def, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// RenderItem は表示用の代替アイテムを返す。未定義なら id をそのまま返す。
func (c *Catalog) RenderItem(id schema.ItemID) schema.ItemID {
	if d, ok := c.defs[id]; ok && d.RenderAs != "" {
		return d.RenderAs
	}
	return id
}

// All は定義順の全アイテム定義を返す。
func (c *Catalog) All() []*Def {
	result := make([]*Def, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.defs[id])
	}
	return result
}
