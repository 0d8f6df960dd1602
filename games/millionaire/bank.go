/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"math/rand/v2"
	"slices"
)

// MaxQuestions caps the size of a question bank.
const MaxQuestions = 1 << 16

// Bank holds the question deck, the shuffled draw order and the questions
// picked since the last restack. Indices in toAsk and picked never overlap and
// together cover every question.
type Bank struct {
	questions []*Question
	toAsk     []int
	picked    []int
	rng       *rand.Rand
}

// NewBank shuffles the deck with r, or the process random source if r is nil.
func NewBank(questions []*Question, r *rand.Rand) (*Bank, error) {
	if n := len(questions); n > MaxQuestions {
		return nil, New(CategoryPerformance,
			WithMessagef("too many questions (%d > %d)", n, MaxQuestions))
	}

	b := &Bank{
		questions: slices.Clone(questions),
		toAsk:     make([]int, len(questions)),
		rng:       r,
	}
	for i := range b.toAsk {
		b.toAsk[i] = i
	}
	b.shuffle()

	return b, nil
}

func (b *Bank) shuffle() {
	swap := func(i, j int) {
		b.toAsk[i], b.toAsk[j] = b.toAsk[j], b.toAsk[i]
	}
	if b.rng != nil {
		b.rng.Shuffle(len(b.toAsk), swap)
		return
	}
	rand.Shuffle(len(b.toAsk), swap)
}

// Pick draws the next question. It fails with ErrQuestionUnderflow once the
// draw order is exhausted; the caller is expected to Restack.
func (b *Bank) Pick() (*Question, error) {
	n := len(b.toAsk)
	if n == 0 {
		return nil, New(CategoryQuestionUnderflow, AsWarning(),
			WithMessagef("all %d questions have been drawn", len(b.questions)))
	}

	i := b.toAsk[n-1]
	b.toAsk = b.toAsk[:n-1]
	b.picked = append(b.picked, i)

	return b.questions[i], nil
}

// Restack puts every picked question back in the draw order and reshuffles it.
func (b *Bank) Restack() {
	b.toAsk = append(b.toAsk, b.picked...)
	b.picked = b.picked[:0]
	b.shuffle()
}

// Current returns the last picked question, or nil if none was picked since
// the last restack.
func (b *Bank) Current() *Question {
	if len(b.picked) == 0 {
		return nil
	}
	return b.questions[b.picked[len(b.picked)-1]]
}

func (b *Bank) Len() int         { return len(b.questions) }
func (b *Bank) Remaining() int   { return len(b.toAsk) }
func (b *Bank) PickedCount() int { return len(b.picked) }

// Questions returns the deck in its original order.
func (b *Bank) Questions() []*Question {
	return slices.Clone(b.questions)
}
