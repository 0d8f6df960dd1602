/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package questionfile reads question banks from tab separated files.
//
// Each row holds a question, its right answer, three wrong answers and a
// level from 0 to 4, optionally followed by an author, a note and a
// publishing date.
package questionfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"

	"github.com/Seednode/millionaire/games/millionaire"
)

// LangPlaceholder in a path is replaced by the language of the questions.
const LangPlaceholder = "{lang}"

const (
	colQuestion = iota
	colRight
	colWrong1
	colWrong2
	colWrong3
	colLevel
	colAuthor
	colNote
	colDate

	minColumns = colLevel + 1
)

type candidate struct {
	name string
	enc  encoding.Encoding
}

// Encodings are tried in order; the first one decoding the whole file without
// replacement characters wins. Latin-1 always succeeds.
//
// UTF-16 needs a byte order mark: without one, ASCII text in UTF-16 is also
// valid UTF-8 (with NULs), so the byte order cannot be told apart reliably.
// Such files end up decoded as latin1.
var candidates = []candidate{
	{"utf-8", unicode.UTF8BOM},
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)},
	{"latin1", charmap.ISO8859_1},
}

// Path returns path with the language placeholder substituted.
func Path(path string, lang language.Tag) string {
	base, _ := lang.Base()
	return strings.ReplaceAll(path, LangPlaceholder, base.String())
}

// Load reads the question file at path for lang.
func Load(path string, lang language.Tag) ([]*millionaire.Question, error) {
	path = Path(path, lang)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(bytes.NewReader(data), path, lang)
}

// Parse reads questions from r. The name is only used in error messages.
func Parse(r io.Reader, name string, lang language.Tag) ([]*millionaire.Question, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	text, _, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var questions []*millionaire.Question
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		line, _ := reader.FieldPos(0)

		if blank(row) {
			continue
		}

		if len(questions) == millionaire.MaxQuestions {
			return nil, millionaire.New(millionaire.CategoryPerformance,
				millionaire.WithMessagef("%s: too many questions (> %d)", name, millionaire.MaxQuestions))
		}

		q, err := parseRow(row, lang)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}

		questions = append(questions, q)
	}

	return questions, nil
}

// Decode converts raw to a string using the first candidate encoding that
// fits, and returns the name of that encoding.
func Decode(raw []byte) (string, string, error) {
	for _, c := range candidates {
		out, err := c.enc.NewDecoder().Bytes(raw)
		if err != nil || bytes.ContainsRune(out, '\uFFFD') {
			continue
		}

		return string(out), c.name, nil
	}

	return "", "", errors.New("could not decode question file")
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, lang language.Tag) (*millionaire.Question, error) {
	if len(row) < minColumns {
		return nil, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(row))
	}

	level, err := millionaire.ParseLevel(row[colLevel])
	if err != nil {
		return nil, err
	}

	opts := []millionaire.QuestionOption{millionaire.WithLang(lang)}

	if v, ok := column(row, colAuthor); ok {
		opts = append(opts, millionaire.WithAuthor(v))
	}
	if v, ok := column(row, colNote); ok {
		opts = append(opts, millionaire.WithNote(v))
	}
	if v, ok := column(row, colDate); ok {
		date, err := millionaire.ParsePublishingDate(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, millionaire.WithPublishingDate(date))
	}

	wrong := []string{
		strings.TrimSpace(row[colWrong1]),
		strings.TrimSpace(row[colWrong2]),
		strings.TrimSpace(row[colWrong3]),
	}

	return millionaire.NewQuestion(level,
		strings.TrimSpace(row[colQuestion]),
		strings.TrimSpace(row[colRight]),
		wrong,
		opts...)
}

func column(row []string, i int) (string, bool) {
	if i >= len(row) {
		return "", false
	}

	v := strings.TrimSpace(row[i])
	return v, v != ""
}
