/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"golang.org/x/text/language"
)

const (
	DefaultQuestionTimeout = 60 * time.Second
	DefaultFriendTimeout   = 30 * time.Second
)

// Hooks are optional callbacks fired on notable game events.
type Hooks struct {
	QuestionLoaded func(q *Question, num int)
	JokerPlayed    func(j Joker)
	RoundFinished  func(outcome Outcome, winnings int)
}

type Config struct {
	Lang       language.Tag
	Milestones *Milestones
	Bank       *Bank

	Host   Renderer
	Public Renderer
	Audio  Audio

	// Scheduler must run callbacks on the goroutine that owns the game.
	Scheduler    Scheduler
	Clock        func() time.Time
	TickInterval time.Duration

	// Rand drives answer shuffles and fifty-fifty cuts. Nil means the
	// process random source.
	Rand   *rand.Rand
	Logger *slog.Logger
	Hooks  Hooks

	// QuestionTimeout is used when the length of the stage question cue is
	// unknown.
	QuestionTimeout time.Duration
	FriendTimeout   time.Duration
}

// Game is the state of one quiz session. It is not safe for concurrent use:
// a single goroutine must own it, including the scheduler callbacks.
type Game struct {
	lang       language.Tag
	milestones *Milestones
	bank       *Bank

	host    Renderer
	screens Renderers
	audio   Audio
	timers  *Timers
	rng     *rand.Rand
	log     *slog.Logger
	hooks   Hooks

	questionTimeout time.Duration
	friendTimeout   time.Duration

	menu         bool
	qnum         int
	question     *Question
	unplayed     JokerSet
	played       JokerSet
	cut          []int
	published    int
	final        int
	revealed     bool
	timerStarted bool
	outcome      Outcome
	walkedAt     int
}

func NewGame(c Config) (*Game, error) {
	switch {
	case c.Lang == language.Und:
		return nil, New(CategoryConfiguration, WithMessagef("no language set"))
	case c.Milestones == nil:
		return nil, New(CategoryConfiguration, WithMessagef("no milestones set"))
	case c.Bank == nil:
		return nil, New(CategoryConfiguration, WithMessagef("no question bank set"))
	case c.Host == nil || c.Public == nil:
		return nil, New(CategoryConfiguration, WithMessagef("both screens must be set"))
	case c.Scheduler == nil:
		return nil, New(CategoryConfiguration, WithMessagef("no scheduler set"))
	}

	g := &Game{
		lang:            c.Lang,
		milestones:      c.Milestones,
		bank:            c.Bank,
		host:            c.Host,
		screens:         Renderers{c.Host, c.Public},
		audio:           c.Audio,
		rng:             c.Rand,
		log:             c.Logger,
		hooks:           c.Hooks,
		questionTimeout: c.QuestionTimeout,
		friendTimeout:   c.FriendTimeout,

		menu:      true,
		qnum:      -1,
		unplayed:  AllJokers(),
		published: -1,
		final:     -1,
	}

	if g.audio == nil {
		g.audio = Silent{}
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}
	if g.questionTimeout <= 0 {
		g.questionTimeout = DefaultQuestionTimeout
	}
	if g.friendTimeout <= 0 {
		g.friendTimeout = DefaultFriendTimeout
	}

	g.timers = NewTimers(TimersConfig{
		Scheduler:  c.Scheduler,
		Now:        c.Clock,
		Interval:   c.TickInterval,
		OnProgress: g.screens.RenderTimerProgress,
		OnExpire:   g.onTimerExpired,
	})

	return g, nil
}

func (g *Game) Lang() language.Tag      { return g.lang }
func (g *Game) Milestones() *Milestones { return g.milestones }
func (g *Game) Bank() *Bank             { return g.bank }
func (g *Game) QuestionNum() int        { return g.qnum }
func (g *Game) Stage() Stage            { return g.milestones.Stage(g.qnum) }
func (g *Game) Question() *Question     { return g.question }
func (g *Game) PlayedJokers() JokerSet  { return g.played }
func (g *Game) CutIndices() []int       { return slices.Clone(g.cut) }
func (g *Game) Published() int          { return g.published }
func (g *Game) FinalAnswer() int        { return g.final }
func (g *Game) Revealed() bool          { return g.revealed }
func (g *Game) Outcome() Outcome        { return g.outcome }
func (g *Game) InMenu() bool            { return g.menu }
func (g *Game) Timers() *Timers         { return g.timers }
func (g *Game) SafeNet() (int, bool)    { return g.milestones.SafeNet(g.qnum) }
func (g *Game) Jokers() JokerSet        { return g.unplayed.Intersect(g.milestones.AllowedJokers(g.qnum)) }

// Winnings returns the pyramid index the current outcome pays, or -1 when
// nothing is won.
func (g *Game) Winnings() int {
	switch g.outcome {
	case OutcomeWin:
		return g.qnum
	case OutcomeWalkAway:
		return g.walkedAt
	case OutcomeMillion:
		return g.milestones.End() - 1
	case OutcomeLoss:
		if net, ok := g.SafeNet(); ok {
			return net
		}
	}
	return -1
}

// MainMenu stops everything and shows the main menu on both screens.
func (g *Game) MainMenu() error {
	g.audio.Stop()
	g.timers.Reset()
	g.menu = true
	g.screens.RenderMainMenu()

	g.log.Debug("main menu")

	return nil
}

func (g *Game) Opening() error {
	g.play(CueOpening)
	return nil
}

func (g *Game) Closing() error {
	g.play(CueClosing)
	return nil
}

// StartQualif switches to the qualifying stage and loads a question.
func (g *Game) StartQualif() error {
	g.audio.Stop()
	g.bank.Restack()
	g.qnum = -1
	g.outcome = OutcomeNone

	if err := g.LoadQuestion(); err != nil {
		return err
	}

	g.play(CueQualifOpening)

	return nil
}

// StartRound gives every joker back and jumps to the first question.
func (g *Game) StartRound() error {
	g.unplayed = AllJokers()
	g.played = 0
	g.outcome = OutcomeNone

	g.log.Debug("round started", "additional", g.milestones.Additional())

	return g.SetQuestionNum(0, true)
}

func (g *Game) StartFreeGame() error {
	return g.fail(New(CategoryNotImplemented, WithMessagef("free game mode")))
}

// LoadQuestion draws the next question allowed at the current question
// number. An exhausted draw order is reported to the host as a warning and
// the bank is restacked before trying again.
func (g *Game) LoadQuestion() error {
	q, err := g.draw()
	if errors.Is(err, ErrQuestionUnderflow) {
		g.notify(Convert(err))
		g.bank.Restack()

		q, err = g.draw()
		if errors.Is(err, ErrQuestionUnderflow) {
			err = New(CategoryNoQuestion,
				WithMessagef("no question fits question number %d (stage %s)", g.qnum, g.Stage()))
		}
	}
	if err != nil {
		return g.fail(Convert(err))
	}

	q.Shuffle(g.rng)

	g.timers.Reset()
	g.menu = false
	g.question = q
	g.cut = nil
	g.published = -1
	g.final = -1
	g.revealed = false
	g.timerStarted = false
	if g.outcome == OutcomeWin {
		g.outcome = OutcomeNone
	}

	g.render(g.screens)

	g.log.Debug("question loaded",
		slog.Int("num", g.qnum),
		slog.String("stage", g.Stage().String()),
		slog.String("level", q.Level.String()),
		slog.Int("remaining", g.bank.Remaining()))

	if g.hooks.QuestionLoaded != nil {
		g.hooks.QuestionLoaded(q, g.qnum)
	}

	return nil
}

func (g *Game) draw() (*Question, error) {
	for {
		q, err := g.bank.Pick()
		if err != nil {
			return nil, err
		}

		ok, err := g.milestones.AllowsQuestion(q.Level, g.qnum)
		if err != nil {
			return nil, err
		}
		if ok {
			return q, nil
		}
	}
}

// PublishQuestion reveals the question text and the first n answers. The
// revealed count never shrinks; in the qualifying stage every answer is
// revealed at once.
func (g *Game) PublishQuestion(n int) error {
	if g.question == nil {
		return g.fail(New(CategoryNoQuestion, WithMessagef("no question loaded")))
	}

	n = min(max(n, 0), AnswerCount)
	if g.milestones.InQualif(g.qnum) {
		n = AnswerCount
	}
	g.published = max(g.published, n)

	g.screens.RenderPublish(g.published)

	cue := StageCue(g.Stage(), CueQuestion)
	if !g.revealed && !g.audio.IsPlaying(cue.Tag()) {
		g.play(cue)
	}

	if g.published == AnswerCount && !g.timerStarted && !g.revealed {
		g.timerStarted = true
		g.timers.Start(ChannelQuestion, g.questionTimeoutFor(cue))
	}

	return nil
}

// PublishNext reveals one more answer.
func (g *Game) PublishNext() error {
	return g.PublishQuestion(g.published + 1)
}

func (g *Game) questionTimeoutFor(cue Cue) time.Duration {
	if d := g.audio.LengthOf(cue); d > 0 {
		return d
	}
	return g.questionTimeout
}

// AskFinalAnswer locks the contestant's answer in.
func (g *Game) AskFinalAnswer(index int) error {
	switch {
	case g.question == nil:
		return g.fail(New(CategoryNoQuestion, WithMessagef("no question loaded")))
	case g.revealed:
		return g.fail(New(CategoryInvalidAnswer, WithMessagef("answer already revealed")))
	case index < 0 || index >= AnswerCount:
		return g.fail(New(CategoryInvalidAnswer, WithMessagef("no answer %d", index)))
	case index >= g.published:
		return g.fail(New(CategoryInvalidAnswer, WithMessagef("answer %d is not published yet", index)))
	case slices.Contains(g.cut, index):
		return g.fail(New(CategoryInvalidAnswer, WithMessagef("answer %d was cut by the fifty-fifty", index)))
	}

	g.final = index
	g.screens.RenderFinalAnswer(index)

	if g.milestones.InQualif(g.qnum) {
		g.play(CueQualifReveal)
	} else {
		g.play(StageCue(g.Stage(), CueFinalAnswer))
	}

	return nil
}

// ConfirmAnswer reveals the right answer and settles the round. A wrong
// answer outside the qualifying stage always ends the round.
func (g *Game) ConfirmAnswer() error {
	switch {
	case g.question == nil:
		return g.fail(New(CategoryNoQuestion, WithMessagef("no question loaded")))
	case g.final < 0:
		return g.fail(New(CategoryInvalidAnswer, WithMessagef("no final answer selected")))
	case g.revealed:
		return g.fail(New(CategoryInvalidAnswer, WithMessagef("answer already revealed")))
	}

	g.timers.Reset()
	g.reveal()

	if g.question.Level == Trivial {
		return nil
	}

	if g.milestones.InQualif(g.qnum) {
		g.play(CueQualifWin)
		return nil
	}

	g.settle()

	return nil
}

func (g *Game) reveal() {
	g.revealed = true
	g.screens.RenderReveal(g.question.RightIndex(), g.final)
}

// settle decides the outcome of a revealed round question. A missing final
// answer counts as wrong.
func (g *Game) settle() {
	q := g.question
	if q.Level == Trivial {
		return
	}

	stage := g.Stage()
	right := g.final >= 0 && q.CheckAnswer(g.final)

	switch {
	case right && g.milestones.IsEnded(g.qnum+1):
		g.outcome = OutcomeMillion
		g.play(CueClosing)
	case right:
		g.outcome = OutcomeWin
		g.play(StageCue(stage, CueWin))
	default:
		g.outcome = OutcomeLoss
		g.play(StageCue(stage, CueLoss))
	}

	g.renderWinnings(g.screens)

	g.log.Debug("answer settled",
		slog.Int("num", g.qnum),
		slog.Bool("right", right),
		slog.String("outcome", g.outcome.String()))

	g.finish()
}

// NextQuestion moves on to the next question of the round, or draws another
// one in the qualifying stage.
func (g *Game) NextQuestion() error {
	if g.milestones.InQualif(g.qnum) {
		return g.LoadQuestion()
	}

	if g.outcome.Finished() {
		return g.fail(New(CategoryRoundOver, WithMessagef("round finished with %s", g.outcome)))
	}

	if g.question != nil && g.question.Level == Trivial {
		return g.LoadQuestion()
	}

	if g.milestones.IsEnded(g.qnum + 1) {
		return g.fail(New(CategoryRoundOver,
			WithMessagef("question %d is the last one", g.qnum)))
	}

	g.qnum++

	return g.LoadQuestion()
}

// PlayJoker consumes j for the rest of the round and applies its effect.
func (g *Game) PlayJoker(j Joker) error {
	switch {
	case !j.Valid():
		return g.fail(New(CategoryJokerLocked, WithMessagef("unknown joker %q", j)))
	case g.question == nil:
		return g.fail(New(CategoryNoQuestion, WithMessagef("no question loaded")))
	case g.question.Level == Trivial:
		return g.fail(New(CategoryJokersDisabledForLevel,
			WithMessagef("jokers cannot be played on %s questions", g.question.Level)))
	case g.played.Has(j):
		return g.fail(New(CategoryJokerUsed, WithMessagef("%s already played", j)))
	case !g.Jokers().Has(j):
		return g.fail(New(CategoryJokerLocked, WithMessagef("%s is not available at question %d", j, g.qnum)))
	}

	switch j {
	case JokerFifty:
		wrong := g.question.WrongIndices()
		g.shuffle(wrong)
		g.cut = wrong[:(len(wrong)+1)/2]
		slices.Sort(g.cut)
		if slices.Contains(g.cut, g.final) {
			g.final = -1
			g.screens.RenderFinalAnswer(-1)
		}
	case JokerFriend:
		g.timers.Start(ChannelFriend, g.friendTimeout)
	case JokerSwitch:
		if err := g.LoadQuestion(); err != nil {
			return err
		}
	}

	g.unplayed = g.unplayed.Remove(j)
	g.played = g.played.Add(j)

	g.renderJokers(g.screens)

	if cue, ok := JokerCue(j); ok {
		g.play(cue)
	} else {
		g.audio.Stop()
	}

	g.log.Debug("joker played", slog.String("joker", string(j)), slog.Int("num", g.qnum))

	if g.hooks.JokerPlayed != nil {
		g.hooks.JokerPlayed(j)
	}

	return nil
}

// RestoreJoker undoes PlayJoker. A restored fifty-fifty gives the cut answers
// back and a restored friend stops its countdown.
func (g *Game) RestoreJoker(j Joker) error {
	if !j.Valid() {
		return g.fail(New(CategoryJokerLocked, WithMessagef("unknown joker %q", j)))
	}

	if g.played.Has(j) {
		g.played = g.played.Remove(j)
		g.unplayed = g.unplayed.Add(j)

		switch j {
		case JokerFifty:
			g.cut = nil
		case JokerFriend:
			g.timers.Stop(ChannelFriend)
		}
	}

	g.renderJokers(g.screens)

	return nil
}

// WalkAway ends the round, paying the last answered question.
func (g *Game) WalkAway() error {
	switch {
	case g.question == nil || g.milestones.InQualif(g.qnum):
		return g.fail(New(CategoryRoundOver, WithMessagef("no round in progress")))
	case g.outcome.Finished():
		return g.fail(New(CategoryRoundOver, WithMessagef("round finished with %s", g.outcome)))
	}

	g.audio.Stop()
	g.timers.Reset()

	// A confirmed right answer is already won.
	g.walkedAt = g.qnum - 1
	if g.outcome == OutcomeWin {
		g.walkedAt = g.qnum
	}
	g.outcome = OutcomeWalkAway

	g.play(StageCue(g.Stage(), CueWalkAway))
	g.renderWinnings(g.screens)

	g.log.Debug("walked away", slog.Int("num", g.qnum))

	g.finish()

	return nil
}

// SetQuestionNum jumps to question num, restacking the bank. Nothing happens
// unless num differs from the current question number or force is set.
func (g *Game) SetQuestionNum(num int, force bool) error {
	if !force && num == g.qnum {
		return nil
	}

	if num < -1 || g.milestones.IsEnded(num) {
		return g.fail(New(CategoryQuestionNumber,
			WithMessagef("question number %d outside [-1, %d)", num, g.milestones.End())))
	}

	g.audio.Stop()
	g.bank.Restack()
	g.qnum = num
	g.outcome = OutcomeNone

	return g.LoadQuestion()
}

// Replay renders the whole current state into r, for screens connecting
// mid-game.
func (g *Game) Replay(r Renderer) {
	if g.menu || g.question == nil {
		r.RenderMainMenu()
		return
	}

	g.render(r)

	for _, ch := range []Channel{ChannelQuestion, ChannelFriend} {
		if s := g.timers.State(ch); s == TimerRunning || s == TimerPaused {
			r.RenderTimerProgress(ch, g.timers.Progress(ch))
		}
	}
}

func (g *Game) render(r Renderer) {
	q := g.question

	r.RenderQuestionLoaded(q, g.Stage(), g.metadata())
	if g.published >= 0 {
		r.RenderPublish(g.published)
	}
	g.renderJokers(r)
	if g.final >= 0 {
		r.RenderFinalAnswer(g.final)
	}
	if g.revealed {
		r.RenderReveal(q.RightIndex(), g.final)
	}
	g.renderWinnings(r)
}

func (g *Game) metadata() Metadata {
	q := g.question
	return Metadata{
		Num:            g.qnum,
		Level:          q.Level,
		Author:         q.Author,
		Note:           q.Note,
		PublishingDate: q.PublishingDate,
		Remaining:      g.bank.Remaining(),
	}
}

func (g *Game) renderJokers(r Renderer) {
	r.RenderJokers(g.Jokers(), g.played, slices.Clone(g.cut))
}

func (g *Game) renderWinnings(r Renderer) {
	net, ok := g.SafeNet()
	if !ok {
		net = -1
	}

	current := g.qnum
	if g.outcome.Finished() {
		current = g.Winnings()
	}

	r.RenderWinnings(current, net, g.outcome)
}

func (g *Game) onTimerExpired(ch Channel) {
	g.log.Debug("timer expired", slog.String("channel", ch.String()))

	if ch != ChannelQuestion || g.question == nil || g.revealed {
		return
	}

	g.reveal()

	if g.milestones.InQualif(g.qnum) {
		g.play(CueQualifReveal)
		return
	}

	g.settle()
}

func (g *Game) finish() {
	if g.outcome.Finished() && g.hooks.RoundFinished != nil {
		g.hooks.RoundFinished(g.outcome, g.Winnings())
	}
}

func (g *Game) play(cue Cue) {
	g.audio.Play(cue, g.audio.LengthOf(cue) > LongFadeThreshold)
}

func (g *Game) shuffle(s []int) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if g.rng != nil {
		g.rng.Shuffle(len(s), swap)
		return
	}
	rand.Shuffle(len(s), swap)
}

// notify shows err to the host without failing the operation.
func (g *Game) notify(err *Error) {
	g.log.Debug("notice", slog.String("category", string(err.Category)), slog.String("detail", err.Message))
	g.host.RenderNotice(noticeOf(err))
}

// fail shows err to the host and returns it.
func (g *Game) fail(err *Error) error {
	g.notify(err)
	return err
}
