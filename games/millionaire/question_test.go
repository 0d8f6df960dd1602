/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Seednode/millionaire/games/millionaire"
)

func TestNewQuestion(t *testing.T) {
	tests := map[string]struct {
		level   millionaire.Level
		right   string
		wrong   []string
		wantErr bool
	}{
		"valid question":            {level: millionaire.Easy, right: "Paris", wrong: []string{"Lyon", "Nice", "Lille"}},
		"unknown level":             {level: millionaire.Level(7), right: "Paris", wrong: []string{"Lyon", "Nice", "Lille"}, wantErr: true},
		"missing wrong answer":      {level: millionaire.Easy, right: "Paris", wrong: []string{"Lyon", "Nice"}, wantErr: true},
		"right answer listed wrong": {level: millionaire.Easy, right: "Paris", wrong: []string{"Lyon", "Paris", "Lille"}, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			q, err := millionaire.NewQuestion(tc.level, "Capital of France?", tc.right, tc.wrong)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Capital of France?", q.String())
			assert.Equal(t, millionaire.DefaultLang, q.Lang)
		})
	}
}

func TestQuestion_ShuffleIsPermutation(t *testing.T) {
	q, err := millionaire.NewQuestion(millionaire.Medium, "Which one is a planet?",
		"Mars", []string{"Moon", "Sun", "Pluto"},
		millionaire.WithAuthor("  seednode "), millionaire.WithNote("dwarf planets do not count"))
	require.NoError(t, err)

	assert.Equal(t, "seednode", q.Author)

	for seed := range uint64(50) {
		q.Shuffle(rand.New(rand.NewPCG(seed, 0)))

		mixed := q.MixedAnswers()
		require.ElementsMatch(t, []string{"Mars", "Moon", "Sun", "Pluto"}, mixed)
		require.True(t, q.CheckAnswer(q.RightIndex()))
		require.Equal(t, "Mars", mixed[q.RightIndex()])

		wrong := q.WrongIndices()
		require.Len(t, wrong, 3)
		require.NotContains(t, wrong, q.RightIndex())
		for _, i := range wrong {
			require.False(t, q.CheckAnswer(i))
		}
	}

	assert.False(t, q.CheckAnswer(-1))
	assert.False(t, q.CheckAnswer(millionaire.AnswerCount))
}

func TestQuestion_ShuffleIsDeterministicUnderSeed(t *testing.T) {
	q, err := millionaire.NewQuestion(millionaire.Easy, "Pick one", "a", []string{"b", "c", "d"})
	require.NoError(t, err)

	q.Shuffle(rand.New(rand.NewPCG(42, 7)))
	first := q.MixedAnswers()

	q.Shuffle(rand.New(rand.NewPCG(42, 7)))
	assert.Equal(t, first, q.MixedAnswers())
}

func TestQuestion_NumericAnswersAreSorted(t *testing.T) {
	tests := map[string]struct {
		lang   language.Tag
		right  string
		wrong  []string
		sorted []string
	}{
		"french decimals and narrow spaces": {
			lang:   language.French,
			right:  "2,5",
			wrong:  []string{"1\u202f000", "10", "100"},
			sorted: []string{"2,5", "10", "100", "1\u202f000"},
		},
		"french plain spaces": {
			lang:   language.French,
			right:  "12 000",
			wrong:  []string{"1 200", "120", "-3"},
			sorted: []string{"-3", "120", "1 200", "12 000"},
		},
		"english grouping": {
			lang:   language.English,
			right:  "1,500.5",
			wrong:  []string{"1,500", "15", "0.5"},
			sorted: []string{"0.5", "15", "1,500", "1,500.5"},
		},
		"regional english tag": {
			lang:   language.BritishEnglish,
			right:  "3",
			wrong:  []string{"1", "4", "2"},
			sorted: []string{"1", "2", "3", "4"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			q, err := millionaire.NewQuestion(millionaire.Hard, "How many?", tc.right, tc.wrong,
				millionaire.WithLang(tc.lang))
			require.NoError(t, err)

			for seed := range uint64(10) {
				q.Shuffle(rand.New(rand.NewPCG(seed, seed)))
				require.Equal(t, tc.sorted, q.MixedAnswers())
			}
			q.Shuffle(nil)
			require.Equal(t, tc.sorted, q.MixedAnswers())
		})
	}
}

func TestQuestion_MixedNumericIsShuffled(t *testing.T) {
	// A dot is not a decimal separator in French, so these are not all numbers.
	q, err := millionaire.NewQuestion(millionaire.Hard, "How many?", "2.5", []string{"1", "3", "4"},
		millionaire.WithLang(language.French))
	require.NoError(t, err)

	orders := map[string]bool{}
	for seed := range uint64(40) {
		q.Shuffle(rand.New(rand.NewPCG(seed, 1)))
		m := q.MixedAnswers()
		orders[m[0]+m[1]+m[2]+m[3]] = true
	}
	assert.Greater(t, len(orders), 1)
}

func TestParsePublishingDate(t *testing.T) {
	want := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

	for _, s := range []string{"2024-03-09", "2024/03/09", "2024.03.09", "09-03-2024", "09/03/2024", "09.03.2024", " 2024-03-09 "} {
		got, err := millionaire.ParsePublishingDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	got, err := millionaire.ParsePublishingDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	for _, s := range []string{"March 9th", "2024-13-09", "9/3/24"} {
		_, err := millionaire.ParsePublishingDate(s)
		assert.Error(t, err, s)
	}
}

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]millionaire.Level{
		"0": millionaire.Trivial, "1": millionaire.Easy, " 2 ": millionaire.Medium,
		"3": millionaire.Hard, "4": millionaire.Extreme, "HARD": millionaire.Hard,
	} {
		got, err := millionaire.ParseLevel(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	for _, s := range []string{"5", "-1", "impossible", ""} {
		_, err := millionaire.ParseLevel(s)
		assert.Error(t, err, s)
	}
}

func TestQuestion_CloneShufflesIndependently(t *testing.T) {
	q, err := millionaire.NewQuestion(millionaire.Easy, "Capital of France?", "Paris", []string{"Lyon", "Nice", "Lille"})
	require.NoError(t, err)

	before := q.MixedAnswers()
	c := q.Clone()

	for seed := range uint64(8) {
		c.Shuffle(rand.New(rand.NewPCG(seed, seed)))
	}

	assert.Equal(t, before, q.MixedAnswers())
	assert.Equal(t, q.Text, c.Text)
	assert.ElementsMatch(t, before, c.MixedAnswers())
}
