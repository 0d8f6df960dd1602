/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"math/rand/v2"
)

// DefaultEnd is the number of questions in a round when none is configured.
const DefaultEnd = 15

// Milestones maps question numbers to stages, safe nets, allowed question
// levels and allowed jokers. It is immutable once built.
type Milestones struct {
	first, second, end int

	// additional jokers in unlock order: the first one after the first
	// milestone, the second one after the second milestone.
	additional [2]Joker
}

type milestonesOptions struct {
	first, second *int
	rng           *rand.Rand
}

type MilestonesOption func(*milestonesOptions)

// WithFirst sets the first milestone. It must be given together with WithSecond.
func WithFirst(n int) MilestonesOption {
	return func(o *milestonesOptions) {
		o.first = &n
	}
}

// WithSecond sets the second milestone. It must be given together with WithFirst.
func WithSecond(n int) MilestonesOption {
	return func(o *milestonesOptions) {
		o.second = &n
	}
}

// WithMilestones sets both milestones at once.
func WithMilestones(first, second int) MilestonesOption {
	return func(o *milestonesOptions) {
		o.first, o.second = &first, &second
	}
}

// WithJokerRand sets the random source used to draw the additional jokers.
func WithJokerRand(r *rand.Rand) MilestonesOption {
	return func(o *milestonesOptions) {
		o.rng = r
	}
}

// NewMilestones builds the milestones of a round of end questions. A
// non-positive end means DefaultEnd. Without explicit milestones, the first
// and second ones split the round in thirds.
func NewMilestones(end int, opts ...MilestonesOption) (*Milestones, error) {
	o := milestonesOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if end <= 0 {
		end = DefaultEnd
	}

	var first, second int
	switch {
	case o.first == nil && o.second == nil:
		first = end / 3
		second = 2 * end / 3
	case o.first == nil || o.second == nil:
		return nil, New(CategoryConfiguration,
			WithMessagef("first and second milestones must be both set or both unset"))
	default:
		first, second = *o.first, *o.second
	}

	if !(0 <= first && first < second && second < end) {
		return nil, New(CategoryConfiguration,
			WithMessagef("milestones must satisfy 0 <= first < second < end, got first=%d second=%d end=%d", first, second, end))
	}

	m := &Milestones{first: first, second: second, end: end}

	perm := shuffledIndices(o.rng, len(AdditionalJokers))
	m.additional = [2]Joker{AdditionalJokers[perm[0]], AdditionalJokers[perm[1]]}

	return m, nil
}

// Fifteen is the classic fifteen question round with milestones after 5 and 10.
func Fifteen() *Milestones {
	m, _ := NewMilestones(15)
	return m
}

// TwelveBalanced splits a twelve question round in thirds.
func TwelveBalanced() *Milestones {
	m, _ := NewMilestones(12)
	return m
}

// TwelveClassic is the twelve question format with milestones after 2 and 7.
func TwelveClassic() *Milestones {
	m, _ := NewMilestones(12, WithMilestones(2, 7))
	return m
}

func (m *Milestones) First() int  { return m.first }
func (m *Milestones) Second() int { return m.second }
func (m *Milestones) End() int    { return m.end }

// Additional returns the two additional jokers in unlock order.
func (m *Milestones) Additional() [2]Joker {
	return m.additional
}

func (m *Milestones) InQualif(num int) bool {
	return num < 0
}

func (m *Milestones) IsEnded(num int) bool {
	return num >= m.end
}

func (m *Milestones) Stage(num int) Stage {
	switch {
	case num < 0:
		return StageQualif
	case num < m.first:
		return StageFirst
	case num < m.second:
		return StageSecond
	case num < m.end:
		return StageLast
	}
	return StageEnd
}

// SafeNets returns the question numbers whose winnings are guaranteed.
func (m *Milestones) SafeNets() [3]int {
	return [3]int{m.first - 1, m.second - 1, m.end - 1}
}

// IsSafeNet reports whether num is one of the safe net question numbers.
func (m *Milestones) IsSafeNet(num int) bool {
	for _, net := range m.SafeNets() {
		if net == num {
			return true
		}
	}
	return false
}

// SafeNet returns the highest safe net strictly below num. The boolean is
// false when num precedes every safe net.
func (m *Milestones) SafeNet(num int) (int, bool) {
	nets := m.SafeNets()
	for i := len(nets) - 1; i >= 0; i-- {
		if num > nets[i] {
			return nets[i], true
		}
	}
	return 0, false
}

// AllowsQuestion reports whether a question of the given level may be asked
// at question number num.
func (m *Milestones) AllowsQuestion(level Level, num int) (bool, error) {
	if m.IsEnded(num) {
		return false, New(CategoryRoundOver,
			WithMessagef("question number %d is past the end of the round (%d)", num, m.end))
	}

	switch level {
	case Trivial, Extreme:
		return m.InQualif(num), nil
	case Easy:
		return m.Stage(num) == StageFirst, nil
	case Medium:
		return m.Stage(num) == StageSecond, nil
	case Hard:
		return m.Stage(num) == StageLast, nil
	}
	return false, nil
}

// AllowedJokers returns the classical jokers plus the additional ones whose
// milestone has been passed at question number num.
func (m *Milestones) AllowedJokers(num int) JokerSet {
	jokers := NewJokerSet(ClassicalJokers...)
	for i, stone := range [2]int{m.first, m.second} {
		if num > stone {
			jokers = jokers.Add(m.additional[i])
		}
	}
	return jokers
}

func shuffledIndices(r *rand.Rand, n int) []int {
	if r != nil {
		return r.Perm(n)
	}
	return rand.Perm(n)
}
