package recipe

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/0x6d61/modforge/internal/item"
)

// Registry はロード済み recipe 定義と、それから作った Lookup を管理する。
//
// ロードは 2 段階: LoadDir / Register で定義を集め、Seal で Lookup を作る。
// Seal 後は読み取り専用で、複数の station から同時に参照してよい。
type Registry struct {
	catalog *item.Catalog
	logger  *slog.Logger
	defs    map[string]*Definition
	lookup  *Lookup
	sealed  bool
}

// NewRegistry は空の Registry を返す。logger が nil ならログを捨てる。
func NewRegistry(cat *item.Catalog, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		catalog: cat,
		logger:  logger,
		defs:    make(map[string]*Definition),
	}
}

// LoadDir は dir 以下の *.yaml / *.yml / *.hcl / *.md をロードする。
// ディレクトリが存在しなくてもエラーにはしない。
// 不正なファイルはスキップして読み込みを続け、エラーはまとめて返す。
func (r *Registry) LoadDir(dir string) error {
	var errs []error
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		switch ext {
		case ".yaml", ".yml", ".hcl", ".md":
		default:
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		id := filepath.ToSlash(strings.TrimSuffix(rel, ext))
		if loadErr := r.LoadFile(path, id); loadErr != nil {
			r.logger.Warn("recipe skipped", "path", path, "error", loadErr)
			errs = append(errs, fmt.Errorf("load %s: %w", path, loadErr))
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return errors.Join(errs...)
}

// LoadFile は 1 ファイルをロードして登録する。ファイルに id がなければ defaultID を使う。
func (r *Registry) LoadFile(path, defaultID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var f FileDef
	switch filepath.Ext(path) {
	case ".hcl":
		f, err = parseHCL(path, data)
	case ".md":
		f, err = parseMarkdown(data)
	default:
		f, err = parseYAML(data)
	}
	if err != nil {
		return err
	}

	p, err := f.Params(r.catalog, defaultID)
	if err != nil {
		return err
	}
	def, err := New(p)
	if err != nil {
		return err
	}
	if err := r.Register(def); err != nil {
		return err
	}
	r.logger.Debug("recipe loaded", "id", def.ID(), "path", path)
	return nil
}

// Register はプログラム的に定義を登録する（テスト・組み込み recipe 向け）。
func (r *Registry) Register(def *Definition) error {
	if r.sealed {
		return fmt.Errorf("recipe: registry is sealed, cannot register %s", def.ID())
	}
	if _, exists := r.defs[def.ID()]; exists {
		return fmt.Errorf("recipe: duplicate recipe id %q", def.ID())
	}
	r.defs[def.ID()] = def
	return nil
}

// Seal は登録済みの全定義から Lookup を作り、以後の登録を禁止する。
// needed_per_level が矛盾する定義は除外され、その理由がエラーとして返る。
func (r *Registry) Seal() error {
	lookup, accepted, err := BuildLookup(r.All())
	keep := make(map[string]*Definition, len(accepted))
	for _, d := range accepted {
		keep[d.ID()] = d
	}
	for id := range r.defs {
		if _, ok := keep[id]; !ok {
			r.logger.Warn("recipe dropped", "id", id, "reason", "conflicting needed_per_level")
		}
	}
	r.defs = keep
	r.lookup = lookup
	r.sealed = true
	r.logger.Info("recipes sealed", "count", len(keep))
	return err
}

// Lookup は Seal で作られた Lookup を返す。Seal 前は nil。
func (r *Registry) Lookup() *Lookup {
	return r.lookup
}

// Catalog は定義の解決に使ったアイテムカタログを返す。
func (r *Registry) Catalog() *item.Catalog {
	return r.catalog
}

// Get は ID で定義を検索する。
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All は ID 順の全定義を返す。
func (r *Registry) All() []*Definition {
	result := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		result = append(result, d)
	}
	slices.SortFunc(result, func(a, b *Definition) int { return strings.Compare(a.ID(), b.ID()) })
	return result
}

// Suggest は id に最も近い登録済み ID を返す（タイポ補正用）。
// 編集距離が ID の長さの 1/3（最低 2）を超えるものは候補にしない。
func (r *Registry) Suggest(id string) (string, bool) {
	best, bestDist := "", -1
	for known := range r.defs {
		dist := levenshtein.ComputeDistance(id, known)
		if bestDist < 0 || dist < bestDist || (dist == bestDist && known < best) {
			best, bestDist = known, dist
		}
	}
	limit := max(2, len(id)/3)
	if bestDist < 0 || bestDist > limit {
		return "", false
	}
	return best, true
}
