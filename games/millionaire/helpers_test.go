/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire_test

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Seednode/millionaire/games/millionaire"
)

type pending struct {
	at        time.Time
	seq       int
	fn        func()
	done      bool
	cancelled bool
}

// fakeScheduler is a manual clock and one-shot scheduler. Callbacks only run
// from Advance, on the test goroutine.
type fakeScheduler struct {
	now   time.Time
	seq   int
	queue []*pending
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) Now() time.Time {
	return s.now
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.seq++
	p := &pending{at: s.now.Add(d), seq: s.seq, fn: fn}
	s.queue = append(s.queue, p)

	return func() bool {
		if p.done || p.cancelled {
			return false
		}
		p.cancelled = true
		return true
	}
}

func (s *fakeScheduler) Advance(d time.Duration) {
	end := s.now.Add(d)

	for {
		var next *pending
		for _, p := range s.queue {
			if p.done || p.cancelled || p.at.After(end) {
				continue
			}
			if next == nil || p.at.Before(next.at) || (p.at.Equal(next.at) && p.seq < next.seq) {
				next = p
			}
		}
		if next == nil {
			break
		}

		s.now = next.at
		next.done = true
		next.fn()
	}

	s.now = end
}

func (s *fakeScheduler) Pending() int {
	n := 0
	for _, p := range s.queue {
		if !p.done && !p.cancelled {
			n++
		}
	}
	return n
}

type call struct {
	name string
	args []any
}

// recorder is a Renderer keeping every call it receives.
type recorder struct {
	calls []call
}

func (r *recorder) record(name string, args ...any) {
	r.calls = append(r.calls, call{name: name, args: args})
}

func (r *recorder) RenderMainMenu() {
	r.record("main_menu")
}

func (r *recorder) RenderQuestionLoaded(q *millionaire.Question, stage millionaire.Stage, meta millionaire.Metadata) {
	r.record("question", q, stage, meta)
}

func (r *recorder) RenderPublish(revealed int) {
	r.record("publish", revealed)
}

func (r *recorder) RenderFinalAnswer(index int) {
	r.record("final_answer", index)
}

func (r *recorder) RenderReveal(correct, chosen int) {
	r.record("reveal", correct, chosen)
}

func (r *recorder) RenderJokers(available, played millionaire.JokerSet, cut []int) {
	r.record("jokers", available, played, cut)
}

func (r *recorder) RenderWinnings(current, safeNet int, outcome millionaire.Outcome) {
	r.record("winnings", current, safeNet, outcome)
}

func (r *recorder) RenderTimerProgress(ch millionaire.Channel, progress float64) {
	r.record("timer", ch, progress)
}

func (r *recorder) RenderNotice(n millionaire.Notice) {
	r.record("notice", n)
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c.name == name {
			n++
		}
	}
	return n
}

func (r *recorder) last(name string) (call, bool) {
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].name == name {
			return r.calls[i], true
		}
	}
	return call{}, false
}

func (r *recorder) notices() []millionaire.Notice {
	var out []millionaire.Notice
	for _, c := range r.calls {
		if c.name == "notice" {
			out = append(out, c.args[0].(millionaire.Notice))
		}
	}
	return out
}

func (r *recorder) reset() {
	r.calls = nil
}

// fakeAudio remembers the cues played. The last played cue is considered
// playing until Stop.
type fakeAudio struct {
	played  []string
	stops   int
	playing string
	lengths map[string]time.Duration
}

func (a *fakeAudio) Play(cue millionaire.Cue, _ bool) {
	a.played = append(a.played, cue.Tag())
	a.playing = cue.Tag()
}

func (a *fakeAudio) Stop() {
	a.stops++
	a.playing = ""
}

func (a *fakeAudio) IsPlaying(tag string) bool {
	return a.playing == tag
}

func (a *fakeAudio) LengthOf(cue millionaire.Cue) time.Duration {
	return a.lengths[cue.Tag()]
}

func (a *fakeAudio) count(tag string) int {
	n := 0
	for _, p := range a.played {
		if p == tag {
			n++
		}
	}
	return n
}

func makeQuestion(t *testing.T, level millionaire.Level, text string) *millionaire.Question {
	t.Helper()

	q, err := millionaire.NewQuestion(level, text,
		text+" right",
		[]string{text + " wrong a", text + " wrong b", text + " wrong c"})
	require.NoError(t, err)

	return q
}

// makeQuestions builds counts[level] questions of each level.
func makeQuestions(t *testing.T, counts map[millionaire.Level]int) []*millionaire.Question {
	t.Helper()

	var out []*millionaire.Question
	for _, level := range []millionaire.Level{
		millionaire.Trivial, millionaire.Easy, millionaire.Medium, millionaire.Hard, millionaire.Extreme,
	} {
		for i := range counts[level] {
			out = append(out, makeQuestion(t, level, fmt.Sprintf("%s %d", level, i)))
		}
	}

	return out
}

type fixture struct {
	game   *millionaire.Game
	host   *recorder
	public *recorder
	audio  *fakeAudio
	sched  *fakeScheduler

	finished []millionaire.Outcome
}

type fixtureOptions struct {
	milestones *millionaire.Milestones
	questions  map[millionaire.Level]int
	lengths    map[string]time.Duration
}

func newFixture(t *testing.T, o fixtureOptions) *fixture {
	t.Helper()

	if o.milestones == nil {
		o.milestones = millionaire.Fifteen()
	}
	if o.questions == nil {
		o.questions = map[millionaire.Level]int{
			millionaire.Trivial: 2,
			millionaire.Easy:    8,
			millionaire.Medium:  8,
			millionaire.Hard:    8,
			millionaire.Extreme: 2,
		}
	}

	rng := rand.New(rand.NewPCG(1, 2))

	bank, err := millionaire.NewBank(makeQuestions(t, o.questions), rng)
	require.NoError(t, err)

	f := &fixture{
		host:   &recorder{},
		public: &recorder{},
		audio:  &fakeAudio{lengths: o.lengths},
		sched:  newFakeScheduler(),
	}

	f.game, err = millionaire.NewGame(millionaire.Config{
		Lang:            millionaire.DefaultLang,
		Milestones:      o.milestones,
		Bank:            bank,
		Host:            f.host,
		Public:          f.public,
		Audio:           f.audio,
		Scheduler:       f.sched,
		Clock:           f.sched.Now,
		TickInterval:    100 * time.Millisecond,
		Rand:            rng,
		QuestionTimeout: 10 * time.Second,
		FriendTimeout:   3 * time.Second,
		Hooks: millionaire.Hooks{
			RoundFinished: func(o millionaire.Outcome, _ int) {
				f.finished = append(f.finished, o)
			},
		},
	})
	require.NoError(t, err)

	return f
}

func (f *fixture) resetCalls() {
	f.host.reset()
	f.public.reset()
}

// answer returns an index holding a wrong answer, or the right one.
func answer(q *millionaire.Question, right bool) int {
	if right {
		return q.RightIndex()
	}
	return slices.Min(q.WrongIndices())
}
