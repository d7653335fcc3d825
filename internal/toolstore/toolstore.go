// Package toolstore は CLI が使う tool の状態を名前ごとの YAML ファイルに永続化する。
package toolstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/0x6d61/modforge/internal/tool"
	"github.com/0x6d61/modforge/pkg/schema"
)

// ErrNotFound は tool ファイルが存在しないときに返る。
var ErrNotFound = errors.New("toolstore: tool not found")

// file は tools/<name>.yaml の形式
type file struct {
	Item      schema.ItemID             `yaml:"item"`
	Modifiers []schema.ModifierEntry    `yaml:"modifiers,omitempty"`
	Ledger    map[schema.ModifierID]int `yaml:"ledger,omitempty"`
	Slots     map[schema.SlotType]int   `yaml:"slots,omitempty"`
}

// Store は tool ファイルの読み書きを管理する。
type Store struct {
	dir string // tool ファイルを保存するディレクトリ
}

// NewStore は指定ディレクトリを使う Store を返す。
// ディレクトリが存在しない場合は Save 時に自動作成する。
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load は name の tool を読み込む。ファイルがなければ ErrNotFound。
func (s *Store) Load(name string) (*tool.Stack, error) {
	path := s.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("toolstore: read %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("toolstore: parse %s: %w", path, err)
	}
	if f.Item == "" {
		return nil, fmt.Errorf("toolstore: %s: item is required", path)
	}

	st := tool.New(f.Item)
	for _, m := range f.Modifiers {
		if err := st.AddModifier(m.ID, m.Level); err != nil {
			return nil, fmt.Errorf("toolstore: %s: %w", path, err)
		}
	}
	for id, v := range f.Ledger {
		if err := st.SetLedger(id, v); err != nil {
			return nil, fmt.Errorf("toolstore: %s: %w", path, err)
		}
	}
	for slot, free := range f.Slots {
		if free < 0 {
			return nil, fmt.Errorf("toolstore: %s: slot %s: free count must be >= 0, got %d", path, slot, free)
		}
		st.SetFreeSlots(slot, free)
	}
	return st, nil
}

// Save は name の tool を上書き保存する。
func (s *Store) Save(name string, st *tool.Stack) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("toolstore: mkdir: %w", err)
	}
	f := file{
		Item:      st.Item(),
		Modifiers: st.Modifiers(),
		Ledger:    st.LedgerEntries(),
		Slots:     st.Slots(),
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("toolstore: marshal %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), data, 0o600); err != nil {
		return fmt.Errorf("toolstore: write %s: %w", name, err)
	}
	return nil
}

// List は保存済みの tool 名をソートして返す。ディレクトリがなければ空。
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("toolstore: list: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, sanitizeFilename(name)+".yaml")
}

// sanitizeFilename は tool 名をファイル名として安全な形式に変換する。
// セキュリティ: パストラバーサルを防ぐため / と \ を除去する。
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" {
		name = "unknown"
	}
	return name
}
