/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package translate looks up screen labels by key and language.
package translate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"golang.org/x/text/language"
)

const (
	// Fallback is the pseudo language used when a key has no text for the
	// requested language.
	Fallback = "*"
	// IconKey holds the glyph of a key, e.g. the symbol of a joker.
	IconKey = "icon"
	// LangsKey lists the languages the game can be played in.
	LangsKey = "toggle_lang"
)

// Table maps key → language → text.
type Table struct {
	entries map[string]map[string]string
}

func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

func Parse(r io.Reader) (*Table, error) {
	t := &Table{}

	if err := json.NewDecoder(r).Decode(&t.entries); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}

	return t, nil
}

func code(lang language.Tag) string {
	base, _ := lang.Base()
	return base.String()
}

// Get returns the text of key in lang, falling back to the "*" entry. A miss
// yields a visible placeholder instead of an empty label.
func (t *Table) Get(key string, lang language.Tag) string {
	opts := t.entries[key]
	for _, l := range []string{code(lang), Fallback} {
		if s, ok := opts[l]; ok {
			return s
		}
	}

	return Placeholder(key, lang)
}

// Placeholder is what Get returns for a missing key.
func Placeholder(key string, lang language.Tag) string {
	return "⟨" + key + "." + code(lang) + "⟩"
}

// Icon returns the glyph attached to key, if any.
func (t *Table) Icon(key string) string {
	return t.entries[key][IconKey]
}

// Langs returns the playable languages in toggle order.
func (t *Table) Langs() []language.Tag {
	var out []language.Tag

	codes := make([]string, 0, len(t.entries[LangsKey]))
	for c := range t.entries[LangsKey] {
		if c != Fallback && c != IconKey {
			codes = append(codes, c)
		}
	}
	slices.Sort(codes)

	for _, c := range codes {
		if tag, err := language.Parse(c); err == nil {
			out = append(out, tag)
		}
	}

	return out
}

// Next returns the language following lang in toggle order.
func (t *Table) Next(lang language.Tag) language.Tag {
	langs := t.Langs()
	if len(langs) == 0 {
		return lang
	}

	i := slices.IndexFunc(langs, func(l language.Tag) bool {
		return code(l) == code(lang)
	})

	return langs[(i+1)%len(langs)]
}

// Labels resolves every key for lang, with icons under "<key>.icon".
func (t *Table) Labels(lang language.Tag) map[string]string {
	out := make(map[string]string, len(t.entries))
	for key, opts := range t.entries {
		out[key] = t.Get(key, lang)
		if icon, ok := opts[IconKey]; ok {
			out[key+"."+IconKey] = icon
		}
	}
	return out
}
