/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"errors"
	"fmt"
)

// Category tags an Error for display; screens pick an icon and a translated
// title from it.
type Category string

const (
	CategoryConfiguration          Category = "configuration"
	CategoryPerformance            Category = "performance"
	CategoryQuestionUnderflow      Category = "question_underflow"
	CategoryQuestionNumber         Category = "question_number"
	CategoryNoQuestion             Category = "no_question"
	CategoryJokersDisabledForLevel Category = "jokers_disabled_for_level"
	CategoryJokerUsed              Category = "joker_used"
	CategoryJokerLocked            Category = "joker_locked"
	CategoryInvalidAnswer          Category = "invalid_answer"
	CategoryRoundOver              Category = "round_over"
	CategoryNotImplemented         Category = "not_implemented"
)

var (
	ErrConfiguration          = New(CategoryConfiguration)
	ErrTooManyQuestions       = New(CategoryPerformance)
	ErrQuestionUnderflow      = New(CategoryQuestionUnderflow, AsWarning())
	ErrQuestionNumber         = New(CategoryQuestionNumber)
	ErrNoQuestion             = New(CategoryNoQuestion)
	ErrJokersDisabledForLevel = New(CategoryJokersDisabledForLevel)
	ErrJokerUsed              = New(CategoryJokerUsed)
	ErrJokerLocked            = New(CategoryJokerLocked)
	ErrInvalidAnswer          = New(CategoryInvalidAnswer)
	ErrRoundOver              = New(CategoryRoundOver)
	ErrNotImplemented         = New(CategoryNotImplemented)
)

// Error is a user-facing game error. Everything except configuration and
// performance errors is recoverable and leaves the game state untouched.
type Error struct {
	Category Category `json:"category"`
	Message  string   `json:"message,omitempty"`
	Warning  bool     `json:"warning,omitempty"`
	err      error
}

func New(category Category, opts ...Option) *Error {
	e := &Error{Category: category}

	for _, opt := range opts {
		opt.apply(e)
	}

	return e
}

func (e *Error) Error() string {
	s := string(e.Category)
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.err != nil {
		s += fmt.Sprintf(" (%s)", e.err)
	}

	return s
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is matches on category so callers can test against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Category == e.Category
}

// Fatal reports whether the error must abort startup rather than be shown as
// a notice.
func (e *Error) Fatal() bool {
	return e.Category == CategoryConfiguration || e.Category == CategoryPerformance
}

// Convert returns err as an *Error, wrapping unknown errors as configuration
// errors.
func Convert(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return New(CategoryConfiguration, WithCause(err))
	}

	return e
}

type Option interface {
	apply(*Error)
}

type optionFunc func(*Error)

func (f optionFunc) apply(e *Error) {
	f(e)
}

func WithCause(err error) Option {
	return optionFunc(func(e *Error) {
		e.err = err
	})
}

func WithMessagef(format string, args ...any) Option {
	return optionFunc(func(e *Error) {
		e.Message = fmt.Sprintf(format, args...)
	})
}

func AsWarning() Option {
	return optionFunc(func(e *Error) {
		e.Warning = true
	})
}
