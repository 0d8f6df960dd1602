/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the difficulty of a question, ordered from easiest to hardest.
type Level int

const (
	Trivial Level = iota
	Easy
	Medium
	Hard
	Extreme
)

var levelNames = [...]string{"trivial", "easy", "medium", "hard", "extreme"}

func (l Level) String() string {
	if l < Trivial || l > Extreme {
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

func (l Level) Valid() bool {
	return l >= Trivial && l <= Extreme
}

// ParseLevel accepts either the numeric form used by question files ("0".."4")
// or the lower-case level name.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		l := Level(n)
		if !l.Valid() {
			return 0, fmt.Errorf("invalid question level %d (must be between 0-4 inclusive)", n)
		}
		return l, nil
	}

	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}

	return 0, fmt.Errorf("invalid question level %q", s)
}
