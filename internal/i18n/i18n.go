package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Bundle - таблицы строк по локалям.
// Ключи вложенных YAML-секций склеиваются через точку: "prompt.title".
type Bundle struct {
	fallback string
	tables   map[string]map[string]string
}

// Load читает встроенные таблицы строк
func Load(fallback string) (*Bundle, error) {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	b := &Bundle{fallback: fallback, tables: make(map[string]map[string]string)}
	for _, e := range entries {
		data, err := localesFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", e.Name(), err)
		}
		if err := b.add(strings.TrimSuffix(e.Name(), ".yaml"), data); err != nil {
			return nil, err
		}
	}

	if _, ok := b.tables[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %q not found", fallback)
	}
	return b, nil
}

func (b *Bundle) add(locale string, data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse locale %s: %w", locale, err)
	}
	table := make(map[string]string)
	flatten("", raw, table)
	b.tables[locale] = table
	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Text возвращает строку для локали, затем для локали по умолчанию, затем сам ключ
func (b *Bundle) Text(key, locale string) string {
	if s, ok := b.tables[locale][key]; ok {
		return s
	}
	if s, ok := b.tables[b.fallback][key]; ok {
		return s
	}
	return key
}

// Resolve сводит код языка клиента ("en-US") к поддерживаемой локали
func (b *Bundle) Resolve(languageCode string) string {
	code := strings.ToLower(languageCode)
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if _, ok := b.tables[code]; ok {
		return code
	}
	return b.fallback
}

// Locales перечисляет загруженные локали
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.tables))
	for l := range b.tables {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// missing возвращает ключи, которые есть в fallback, но отсутствуют в locale
func (b *Bundle) missing(locale string) []string {
	var out []string
	for k := range b.tables[b.fallback] {
		if _, ok := b.tables[locale][k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
