/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"strings"
	"time"
)

// LongFadeThreshold is the cue length above which a long fade out is allowed.
const LongFadeThreshold = 90 * time.Second

// Cue names a sound by its path segments, e.g. stage/first/question.
type Cue []string

// Tag joins the segments of c with slashes.
func (c Cue) Tag() string {
	return strings.Join(c, "/")
}

func (c Cue) String() string {
	return c.Tag()
}

// ParseCue splits a tag back into segments.
func ParseCue(tag string) Cue {
	return Cue(strings.Split(strings.Trim(tag, "/"), "/"))
}

// Audio plays cues. Playback is fire and forget.
type Audio interface {
	Play(cue Cue, allowLongFade bool)
	Stop()
	IsPlaying(tag string) bool
	// LengthOf returns zero when the length of cue is unknown.
	LengthOf(cue Cue) time.Duration
}

const (
	CueQuestion    = "question"
	CueFinalAnswer = "final_answer"
	CueReveal      = "reveal"
	CueWin         = "win"
	CueLoss        = "loss"
	CueWalkAway    = "walk_away"
)

func StageCue(stage Stage, name string) Cue {
	return Cue{"stage", stage.String(), name}
}

func CreditsCue(name string) Cue {
	return Cue{"credits", name}
}

var (
	CueOpening = CreditsCue("opening")
	CueClosing = CreditsCue("closing")

	CueQualifOpening = StageCue(StageQualif, "opening")
	CueQualifReveal  = StageCue(StageQualif, CueReveal)
	CueQualifWin     = StageCue(StageQualif, CueWin)
)

// JokerCue returns the cue played with j. The boolean is false when playing j
// silences the music instead.
func JokerCue(j Joker) (Cue, bool) {
	switch j {
	case JokerSwitch:
		return Cue{"joker", string(JokerFifty)}, true
	case JokerAnimator, JokerExpert:
		return nil, false
	}
	return Cue{"joker", string(j)}, true
}

// AllCues lists every cue the game may request.
func AllCues() []Cue {
	cues := []Cue{CueOpening, CueClosing, CueQualifOpening, CueQualifReveal, CueQualifWin}
	for _, s := range []Stage{StageFirst, StageSecond, StageLast} {
		for _, name := range []string{CueQuestion, CueFinalAnswer, CueReveal, CueWin, CueLoss, CueWalkAway} {
			cues = append(cues, StageCue(s, name))
		}
	}
	cues = append(cues, StageCue(StageQualif, CueQuestion))
	for _, j := range []Joker{JokerFifty, JokerFriend, JokerAudience} {
		c, _ := JokerCue(j)
		cues = append(cues, c)
	}
	return cues
}

// Silent is an Audio that plays nothing.
type Silent struct{}

func (Silent) Play(Cue, bool)             {}
func (Silent) Stop()                      {}
func (Silent) IsPlaying(string) bool      { return false }
func (Silent) LengthOf(Cue) time.Duration { return 0 }
