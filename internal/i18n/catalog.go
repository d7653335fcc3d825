// Package i18n は recipe の拒否メッセージをキーからロケール別の文字列に解決する。
//
// メッセージは locales/<locale>/<namespace>.yaml に埋め込みで定義し、
// golang.org/x/text/message のカタログに登録する。未知のロケールは BaseLocale にフォールバックする。
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/0x6d61/modforge/pkg/schema"
)

// BaseLocale はフォールバック先のロケール。
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle はロード済みの全ロケールのメッセージを保持する。
type Bundle struct {
	tags    []language.Tag
	locales []string
	keys    map[string]map[string]string // locale → key → template
	cat     *catalog.Builder
	matcher language.Matcher
}

var defaultBundle = mustLoadEmbedded()

// Default は埋め込みカタログの Bundle を返す。
func Default() *Bundle {
	return defaultBundle
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadFromFS(embeddedFS)
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded catalogs: %v", err))
	}
	return b
}

// LoadFromFS は locales/*/*.yaml をロードする。BaseLocale は必須。
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("i18n: glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("i18n: no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{
		keys: make(map[string]map[string]string),
		cat:  catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale))),
	}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", path, err)
		}
		if err := b.addFile(path, file); err != nil {
			return nil, err
		}
	}
	if _, ok := b.keys[BaseLocale]; !ok {
		return nil, fmt.Errorf("i18n: base locale %s is not defined", BaseLocale)
	}

	// BaseLocale を先頭にして matcher のフォールバック先にする
	sort.SliceStable(b.locales, func(i, j int) bool { return b.locales[i] == BaseLocale && b.locales[j] != BaseLocale })
	for _, l := range b.locales {
		b.tags = append(b.tags, language.MustParse(l))
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) addFile(path string, file catalogFile) error {
	localeFromPath := filepath.Base(filepath.Dir(path))
	locale := strings.TrimSpace(file.Locale)
	if locale != localeFromPath {
		return fmt.Errorf("i18n: %s: locale %q must match path locale %q", path, locale, localeFromPath)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("i18n: %s: parse locale: %w", path, err)
	}
	if file.Messages == nil {
		return fmt.Errorf("i18n: %s: messages map is required", path)
	}

	msgs, ok := b.keys[locale]
	if !ok {
		msgs = make(map[string]string)
		b.keys[locale] = msgs
		b.locales = append(b.locales, locale)
	}
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("i18n: %s: message key cannot be blank", path)
		}
		if _, dup := msgs[key]; dup {
			return fmt.Errorf("i18n: %s: duplicate key %q in locale %q", path, key, locale)
		}
		msgs[key] = value
		if err := b.cat.SetString(tag, key, value); err != nil {
			return fmt.Errorf("i18n: %s: register %q: %w", path, key, err)
		}
	}
	return nil
}

// Locales はロード済みロケールを返す。
func (b *Bundle) Locales() []string {
	out := append([]string(nil), b.locales...)
	sort.Strings(out)
	return out
}

// Has は locale に key が定義されているかを返す。
func (b *Bundle) Has(locale, key string) bool {
	_, ok := b.keys[locale][key]
	return ok
}

// Printer は locale に最も近いロケールのプリンタを返す。
func (b *Bundle) Printer(locale string) *message.Printer {
	tag := b.tags[0]
	if t, err := language.Parse(locale); err == nil {
		_, idx, conf := b.matcher.Match(t)
		if conf != language.No {
			tag = b.tags[idx]
		}
	}
	return message.NewPrinter(tag, message.Catalog(b.cat))
}

// Localize は key を locale で解決する。
// ModifierEntry / ModifierID / SlotType の引数は表示名に変換してから埋め込む。
func (b *Bundle) Localize(locale, key string, args ...any) string {
	display := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case schema.ModifierEntry:
			display[i] = ModifierName(v.ID, v.Level)
		case schema.ModifierID:
			display[i] = ModifierName(v, 0)
		case schema.SlotType:
			display[i] = SlotName(v)
		default:
			display[i] = a
		}
	}
	return b.Printer(locale).Sprintf(key, display...)
}
