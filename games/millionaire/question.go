/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// AnswerCount is the number of answers every question offers.
const AnswerCount = 4

// DefaultLang is the language of questions built without WithLang.
var DefaultLang = language.French

// Question is the immutable content of a question plus the order in which
// its answers are currently presented.
type Question struct {
	Level          Level
	Text           string
	RightAnswer    string
	WrongAnswers   []string
	Author         string
	Note           string
	PublishingDate time.Time
	Lang           language.Tag

	mixed []string
}

type QuestionOption func(*Question)

func WithAuthor(author string) QuestionOption {
	return func(q *Question) {
		q.Author = strings.TrimSpace(author)
	}
}

func WithNote(note string) QuestionOption {
	return func(q *Question) {
		q.Note = strings.TrimSpace(note)
	}
}

func WithPublishingDate(t time.Time) QuestionOption {
	return func(q *Question) {
		q.PublishingDate = t
	}
}

func WithLang(tag language.Tag) QuestionOption {
	return func(q *Question) {
		q.Lang = tag
	}
}

// NewQuestion builds a question and shuffles its answers once.
func NewQuestion(level Level, text, right string, wrong []string, opts ...QuestionOption) (*Question, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("invalid question level %d", level)
	}
	if len(wrong) != AnswerCount-1 {
		return nil, fmt.Errorf("question %q: expected %d wrong answers, got %d", text, AnswerCount-1, len(wrong))
	}
	if slices.Contains(wrong, right) {
		return nil, fmt.Errorf("question %q: right answer %q is also listed as wrong", text, right)
	}

	q := &Question{
		Level:        level,
		Text:         text,
		RightAnswer:  right,
		WrongAnswers: slices.Clone(wrong),
		Lang:         DefaultLang,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.Shuffle(nil)

	return q, nil
}

// Shuffle recomputes the presentation order. When every answer reads as a
// number in the question's language, answers are sorted ascending instead.
// A nil r uses the process random source.
func (q *Question) Shuffle(r *rand.Rand) {
	answers := make([]string, 0, 1+len(q.WrongAnswers))
	answers = append(answers, q.RightAnswer)
	answers = append(answers, q.WrongAnswers...)

	if values, ok := parseNumbers(answers, q.Lang); ok {
		idx := make([]int, len(answers))
		for i := range idx {
			idx[i] = i
		}
		slices.SortStableFunc(idx, func(a, b int) int {
			return values[a].Cmp(values[b])
		})
		sorted := make([]string, len(answers))
		for i, j := range idx {
			sorted[i] = answers[j]
		}
		q.mixed = sorted
		return
	}

	shuffle := rand.Shuffle
	if r != nil {
		shuffle = r.Shuffle
	}
	shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})
	q.mixed = answers
}

// Clone returns a copy whose presentation order can be shuffled
// independently of q.
func (q *Question) Clone() *Question {
	c := *q
	c.WrongAnswers = slices.Clone(q.WrongAnswers)
	c.mixed = slices.Clone(q.mixed)
	return &c
}

// MixedAnswers returns the answers in presentation order.
func (q *Question) MixedAnswers() []string {
	return slices.Clone(q.mixed)
}

func (q *Question) RightIndex() int {
	return slices.Index(q.mixed, q.RightAnswer)
}

func (q *Question) WrongIndices() []int {
	out := make([]int, 0, len(q.mixed)-1)
	for i, a := range q.mixed {
		if a != q.RightAnswer {
			out = append(out, i)
		}
	}
	return out
}

// CheckAnswer reports whether index points to the right answer.
func (q *Question) CheckAnswer(index int) bool {
	return index >= 0 && index < len(q.mixed) && q.mixed[index] == q.RightAnswer
}

func (q *Question) String() string {
	return q.Text
}

type separators struct {
	decimal   string
	thousands []string
}

var langSeparators = map[string]separators{
	"fr": {decimal: ",", thousands: []string{"\u202f", "\u00a0", " "}},
	"en": {decimal: ".", thousands: []string{","}},
}

func separatorsFor(tag language.Tag) separators {
	base, _ := tag.Base()
	if s, ok := langSeparators[base.String()]; ok {
		return s
	}
	return langSeparators["en"]
}

// parseNumbers parses every answer as a number written in lang. It fails as
// soon as one answer is not numeric.
func parseNumbers(answers []string, lang language.Tag) ([]decimal.Decimal, bool) {
	seps := separatorsFor(lang)

	out := make([]decimal.Decimal, 0, len(answers))
	for _, a := range answers {
		s := strings.TrimSpace(a)
		for _, t := range seps.thousands {
			s = strings.ReplaceAll(s, t, "")
		}
		if seps.decimal != "." {
			if strings.Contains(s, ".") {
				return nil, false
			}
			s = strings.Replace(s, seps.decimal, ".", 1)
		}
		if s == "" {
			return nil, false
		}

		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, false
		}
		out = append(out, d)
	}

	return out, true
}

var dateLayouts = func() []string {
	var layouts []string
	for _, sep := range []string{"-", "/", "."} {
		layouts = append(layouts,
			"2006"+sep+"01"+sep+"02",
			"02"+sep+"01"+sep+"2006",
		)
	}
	return layouts
}()

// ParsePublishingDate reads dates written year first or day first, separated
// by dashes, slashes or dots. An empty string yields the zero time.
func ParsePublishingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unknown date format for %q", s)
}
