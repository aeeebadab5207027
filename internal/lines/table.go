package lines

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/roach88/palaver/internal/dialogue"
)

// Table is a Provider backed by an in-memory line table keyed by BCP-47
// language tag:
//
//	en:
//	  greet: "Welcome, {0}!"
//	es:
//	  greet: "¡Bienvenido, {0}!"
//
// The requested locale is matched against the available tags with
// language.NewMatcher, so "en-US" falls back to "en" and an unknown locale
// falls back to the first table declared.
//
// Substitution placeholders are positional: {0}, {1}, ...
type Table struct {
	entries map[language.Tag]map[string]string
	tags    []language.Tag
	locale  language.Tag
	matched map[string]string // table selected for the configured locale
}

var _ Provider = (*Table)(nil)

// NewTable decodes a YAML line table and fixes the locale used for
// resolution.
func NewTable(data []byte, locale string) (*Table, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode line table: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("line table has no languages")
	}

	entries := make(map[language.Tag]map[string]string, len(raw))
	var tags []language.Tag
	for lang, table := range raw {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("line table: bad language tag %q: %w", lang, err)
		}
		entries[tag] = table
		tags = append(tags, tag)
	}
	// Sorted tag order keeps the matcher's fallback deterministic
	// regardless of map iteration.
	slices.SortFunc(tags, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	t := &Table{entries: entries, tags: tags}
	if err := t.SetLocale(locale); err != nil {
		return nil, err
	}
	return t, nil
}

// SetLocale re-matches the resolution table against a new locale.
func (t *Table) SetLocale(locale string) error {
	want, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("line table: bad locale %q: %w", locale, err)
	}
	matcher := language.NewMatcher(t.tags)
	_, index, _ := matcher.Match(want)
	t.locale = t.tags[index]
	t.matched = t.entries[t.tags[index]]
	return nil
}

// Locale returns the language tag resolution was matched to.
func (t *Table) Locale() language.Tag {
	return t.locale
}

// Resolve looks up a line in the matched table and applies positional
// substitutions.
func (t *Table) Resolve(_ context.Context, id string, subs []dialogue.Value) (Line, bool) {
	text, ok := t.matched[id]
	if !ok {
		return Line{}, false
	}
	return Line{
		ID:            id,
		Text:          Substitute(text, subs),
		Substitutions: subs,
	}, true
}

// Preload is a no-op: the whole table is resident.
func (t *Table) Preload(context.Context, []string) error {
	return nil
}

// Substitute replaces {0}-style positional placeholders with rendered
// values. Placeholders without a matching value are left intact so gaps
// stay visible in playtesting.
func Substitute(text string, subs []dialogue.Value) string {
	for i, v := range subs {
		text = strings.ReplaceAll(text, fmt.Sprintf("{%d}", i), dialogue.Render(v))
	}
	return text
}
