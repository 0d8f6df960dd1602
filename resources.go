/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/Seednode/millionaire/games/millionaire"
	"github.com/Seednode/millionaire/games/millionaire/questionfile"
	"github.com/Seednode/millionaire/games/millionaire/translate"
	"github.com/Seednode/millionaire/games/millionaire/winnings"
)

const (
	embeddedQuestions    = "assets/millionaire/questions." + questionfile.LangPlaceholder + ".tsv"
	embeddedWinnings     = "assets/millionaire/winnings.json"
	embeddedTranslations = "assets/millionaire/translations.json"
)

// resources is everything loaded once at startup and shared read-only by
// every game.
type resources struct {
	questions map[string][]*millionaire.Question
	winnings  *winnings.Table
	labels    *translate.Table

	// langs are the languages a game can be played in, in toggle order.
	langs []language.Tag
}

func langCode(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

func loadResources(cfg *Config) (*resources, error) {
	res := &resources{
		questions: make(map[string][]*millionaire.Question),
	}

	var err error

	res.labels, err = loadTable(cfg.translations, embeddedTranslations, translate.Load, translate.Parse)
	if err != nil {
		return nil, err
	}

	res.winnings, err = loadTable(cfg.winnings, embeddedWinnings, winnings.Load, winnings.Parse)
	if err != nil {
		return nil, err
	}

	m, err := cfg.newMilestones()
	if err != nil {
		return nil, err
	}

	def := langCode(cfg.defaultLang())

	candidates := res.labels.Langs()
	if !slices.ContainsFunc(candidates, func(t language.Tag) bool { return langCode(t) == def }) {
		candidates = append([]language.Tag{cfg.defaultLang()}, candidates...)
	}

	// A question file without a language placeholder only serves the
	// default language.
	if cfg.questions != "" && !strings.Contains(cfg.questions, questionfile.LangPlaceholder) {
		candidates = []language.Tag{cfg.defaultLang()}
	}

	for _, lang := range candidates {
		code := langCode(lang)

		if _, err := res.winnings.Pyramid(lang, m.End()); err != nil {
			if code == def {
				return nil, err
			}
			continue
		}

		questions, err := loadQuestions(cfg, lang)
		switch {
		case errors.Is(err, fs.ErrNotExist) && code != def:
			continue
		case err != nil:
			return nil, err
		}

		res.questions[code] = questions
		res.langs = append(res.langs, lang)
	}

	if len(res.questions[def]) == 0 {
		return nil, millionaire.New(millionaire.CategoryConfiguration,
			millionaire.WithMessagef("no questions for language %q", def))
	}

	return res, nil
}

// loadTable reads path, or the embedded default when path is empty.
func loadTable[T any](path, embedded string, load func(string) (T, error), parse func(r io.Reader) (T, error)) (T, error) {
	if path != "" {
		return load(path)
	}

	data, err := assets.ReadFile(embedded)
	if err != nil {
		var zero T
		return zero, err
	}

	return parse(bytes.NewReader(data))
}

func loadQuestions(cfg *Config, lang language.Tag) ([]*millionaire.Question, error) {
	if cfg.questions != "" {
		return questionfile.Load(cfg.questions, lang)
	}

	name := questionfile.Path(embeddedQuestions, lang)

	data, err := assets.ReadFile(name)
	if err != nil {
		return nil, err
	}

	return questionfile.Parse(bytes.NewReader(data), name, lang)
}

// bank builds a fresh deck for one game. Questions are copied because every
// game shuffles its own.
func (r *resources) bank(lang language.Tag) (*millionaire.Bank, error) {
	src, ok := r.questions[langCode(lang)]
	if !ok {
		return nil, millionaire.New(millionaire.CategoryConfiguration,
			millionaire.WithMessagef("no questions for language %q", langCode(lang)))
	}

	questions := make([]*millionaire.Question, len(src))
	for i, q := range src {
		questions[i] = q.Clone()
	}

	return millionaire.NewBank(questions, nil)
}

// next returns the playable language following lang.
func (r *resources) next(lang language.Tag) language.Tag {
	if len(r.langs) == 0 {
		return lang
	}

	i := slices.IndexFunc(r.langs, func(t language.Tag) bool {
		return langCode(t) == langCode(lang)
	})

	return r.langs[(i+1)%len(r.langs)]
}

func (r *resources) langCodes() []string {
	out := make([]string, len(r.langs))
	for i, l := range r.langs {
		out[i] = langCode(l)
	}
	return out
}
