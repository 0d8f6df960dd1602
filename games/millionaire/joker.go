/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Joker is a lifeline the contestant can play once per round.
type Joker string

const (
	JokerFifty    Joker = "fifty"
	JokerFriend   Joker = "friend"
	JokerAudience Joker = "audience"
	JokerSwitch   Joker = "switch"
	JokerAnimator Joker = "animator"
	JokerExpert   Joker = "expert"
)

// Jokers lists every joker in display order: classical ones first.
var Jokers = []Joker{JokerFifty, JokerFriend, JokerAudience, JokerSwitch, JokerAnimator, JokerExpert}

var (
	ClassicalJokers  = []Joker{JokerFifty, JokerFriend, JokerAudience}
	AdditionalJokers = []Joker{JokerSwitch, JokerAnimator, JokerExpert}
)

func (j Joker) index() int {
	for i, k := range Jokers {
		if k == j {
			return i
		}
	}
	return -1
}

func (j Joker) Valid() bool {
	return j.index() >= 0
}

// Classical reports whether j is one of the three jokers always available.
func (j Joker) Classical() bool {
	i := j.index()
	return i >= 0 && i < len(ClassicalJokers)
}

func ParseJoker(s string) (Joker, error) {
	j := Joker(strings.ToLower(strings.TrimSpace(s)))
	if !j.Valid() {
		return "", fmt.Errorf("unknown joker %q", s)
	}
	return j, nil
}

// JokerSet is a set of jokers. The zero value is empty.
type JokerSet uint8

func NewJokerSet(jokers ...Joker) JokerSet {
	var s JokerSet
	for _, j := range jokers {
		s = s.Add(j)
	}
	return s
}

// AllJokers returns the set holding all six jokers.
func AllJokers() JokerSet {
	return NewJokerSet(Jokers...)
}

func (s JokerSet) Has(j Joker) bool {
	i := j.index()
	return i >= 0 && s&(1<<i) != 0
}

func (s JokerSet) Add(j Joker) JokerSet {
	if i := j.index(); i >= 0 {
		s |= 1 << i
	}
	return s
}

func (s JokerSet) Remove(j Joker) JokerSet {
	if i := j.index(); i >= 0 {
		s &^= 1 << i
	}
	return s
}

func (s JokerSet) Union(o JokerSet) JokerSet {
	return s | o
}

func (s JokerSet) Intersect(o JokerSet) JokerSet {
	return s & o
}

// Contains reports whether every joker in o is also in s.
func (s JokerSet) Contains(o JokerSet) bool {
	return s&o == o
}

func (s JokerSet) Len() int {
	n := 0
	for i := range Jokers {
		if s&(1<<i) != 0 {
			n++
		}
	}
	return n
}

// List returns the members in display order.
func (s JokerSet) List() []Joker {
	out := make([]Joker, 0, len(Jokers))
	for i, j := range Jokers {
		if s&(1<<i) != 0 {
			out = append(out, j)
		}
	}
	return out
}

func (s JokerSet) String() string {
	names := make([]string, 0, len(Jokers))
	for _, j := range s.List() {
		names = append(names, string(j))
	}
	return "{" + strings.Join(names, ",") + "}"
}

// MarshalJSON encodes the set as the list of its members.
func (s JokerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}
