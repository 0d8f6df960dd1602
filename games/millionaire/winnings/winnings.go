/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package winnings holds the amounts paid for each question of a round.
package winnings

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Seednode/millionaire/games/millionaire"
)

type entry struct {
	Unit    string                       `json:"unit"`
	Pyramid map[string][]decimal.Decimal `json:"pyramid"`
}

// Table maps a language and a round length to a pyramid of amounts.
//
//	{"fr": {"unit": "€", "pyramid": {"15": [200, 300, ...]}}}
type Table struct {
	langs map[string]entry
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

	if err := json.NewDecoder(r).Decode(&t.langs); err != nil {
		return nil, fmt.Errorf("decode winnings: %w", err)
	}

	for lang, e := range t.langs {
		for key, amounts := range e.Pyramid {
			end, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid round length %q", lang, key)
			}
			if len(amounts) != end {
				return nil, fmt.Errorf("%s: pyramid %q has %d amounts", lang, key, len(amounts))
			}
		}
	}

	return t, nil
}

// Langs lists the languages the table has pyramids for.
func (t *Table) Langs() []language.Tag {
	keys := make([]string, 0, len(t.langs))
	for k := range t.langs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]language.Tag, 0, len(keys))
	for _, k := range keys {
		if tag, err := language.Parse(k); err == nil {
			out = append(out, tag)
		}
	}
	return out
}

// Pyramid returns the amounts of a round of end questions in lang.
func (t *Table) Pyramid(lang language.Tag, end int) (*Pyramid, error) {
	base, _ := lang.Base()

	e, ok := t.langs[base.String()]
	if !ok {
		return nil, millionaire.New(millionaire.CategoryConfiguration,
			millionaire.WithMessagef("no winnings for language %s", base))
	}

	amounts, ok := e.Pyramid[strconv.Itoa(end)]
	if !ok {
		return nil, millionaire.New(millionaire.CategoryConfiguration,
			millionaire.WithMessagef("no %s winnings for rounds of %d questions", base, end))
	}

	return &Pyramid{Lang: lang, Unit: e.Unit, Amounts: slices.Clone(amounts)}, nil
}

// Pyramid is the list of amounts won after each question.
type Pyramid struct {
	Lang    language.Tag
	Unit    string
	Amounts []decimal.Decimal
}

// Amount returns the amount won at question index i. Indices outside the
// pyramid win nothing.
func (p *Pyramid) Amount(i int) decimal.Decimal {
	if i < 0 || i >= len(p.Amounts) {
		return decimal.Zero
	}
	return p.Amounts[i]
}

func (p *Pyramid) Format(i int) string {
	return Format(p.Amount(i), p.Unit, p.Lang)
}

// Level is one line of the pyramid as shown on screens.
type Level struct {
	Num     int    `json:"num"`
	Amount  string `json:"amount"`
	Stage   string `json:"stage"`
	SafeNet bool   `json:"safe_net"`
}

// Levels describes every line of the pyramid, from the first question up.
func (p *Pyramid) Levels(m *millionaire.Milestones) []Level {
	out := make([]Level, len(p.Amounts))
	for i := range p.Amounts {
		out[i] = Level{
			Num:     i,
			Amount:  p.Format(i),
			Stage:   m.Stage(i).String(),
			SafeNet: m.IsSafeNet(i),
		}
	}
	return out
}

// Format writes amount with the digit grouping of lang. English puts the unit
// first, other languages after the number.
func Format(amount decimal.Decimal, unit string, lang language.Tag) string {
	p := message.NewPrinter(lang)

	var num string
	if amount.IsInteger() {
		num = p.Sprintf("%d", amount.IntPart())
	} else {
		digits := max(0, -int(amount.Exponent()))
		num = p.Sprint(number.Decimal(amount.InexactFloat64(),
			number.MinFractionDigits(digits), number.MaxFractionDigits(digits)))
	}

	if unit == "" {
		return num
	}

	if base, _ := lang.Base(); base.String() == "en" {
		return unit + num
	}
	return num + " " + unit
}
