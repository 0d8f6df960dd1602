/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"time"
)

// Outcome is the state of the round after the last revealed answer.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
	OutcomeWalkAway
	OutcomeMillion
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeWalkAway:
		return "walk_away"
	case OutcomeMillion:
		return "million"
	}
	return "unknown"
}

// Finished reports whether the round stopped with this outcome.
func (o Outcome) Finished() bool {
	return o == OutcomeLoss || o == OutcomeWalkAway || o == OutcomeMillion
}

// Metadata is shown next to a loaded question on the host screen only.
type Metadata struct {
	Num            int       `json:"num"`
	Level          Level     `json:"level"`
	Author         string    `json:"author,omitempty"`
	Note           string    `json:"note,omitempty"`
	PublishingDate time.Time `json:"publishing_date,omitzero"`
	Remaining      int       `json:"remaining"`
}

// Notice is a dismissible message for the host.
type Notice struct {
	Category Category `json:"category"`
	Detail   string   `json:"detail,omitempty"`
	Warning  bool     `json:"warning,omitempty"`
}

func noticeOf(err *Error) Notice {
	return Notice{Category: err.Category, Detail: err.Message, Warning: err.Warning}
}

// Renderer is a screen showing the game. The host and the public screen each
// get one; every state change is pushed to both.
type Renderer interface {
	RenderMainMenu()
	RenderQuestionLoaded(q *Question, stage Stage, meta Metadata)
	RenderPublish(revealed int)
	RenderFinalAnswer(index int)
	RenderReveal(correct, chosen int)
	RenderJokers(available, played JokerSet, cut []int)
	RenderWinnings(current, safeNet int, outcome Outcome)
	RenderTimerProgress(ch Channel, progress float64)
	RenderNotice(n Notice)
}

// Renderers fans every call out to several renderers in order.
type Renderers []Renderer

func (rs Renderers) RenderMainMenu() {
	for _, r := range rs {
		r.RenderMainMenu()
	}
}

func (rs Renderers) RenderQuestionLoaded(q *Question, stage Stage, meta Metadata) {
	for _, r := range rs {
		r.RenderQuestionLoaded(q, stage, meta)
	}
}

func (rs Renderers) RenderPublish(revealed int) {
	for _, r := range rs {
		r.RenderPublish(revealed)
	}
}

func (rs Renderers) RenderFinalAnswer(index int) {
	for _, r := range rs {
		r.RenderFinalAnswer(index)
	}
}

func (rs Renderers) RenderReveal(correct, chosen int) {
	for _, r := range rs {
		r.RenderReveal(correct, chosen)
	}
}

func (rs Renderers) RenderJokers(available, played JokerSet, cut []int) {
	for _, r := range rs {
		r.RenderJokers(available, played, cut)
	}
}

func (rs Renderers) RenderWinnings(current, safeNet int, outcome Outcome) {
	for _, r := range rs {
		r.RenderWinnings(current, safeNet, outcome)
	}
}

func (rs Renderers) RenderTimerProgress(ch Channel, progress float64) {
	for _, r := range rs {
		r.RenderTimerProgress(ch, progress)
	}
}

func (rs Renderers) RenderNotice(n Notice) {
	for _, r := range rs {
		r.RenderNotice(n)
	}
}
