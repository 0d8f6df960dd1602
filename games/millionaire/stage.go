/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package millionaire

import "strconv"

// Stage is the coarse phase of a round, derived from the question number.
type Stage int

const (
	StageQualif Stage = iota - 1
	StageFirst
	StageSecond
	StageLast
	StageEnd
)

func (s Stage) String() string {
	switch s {
	case StageQualif:
		return "qualif"
	case StageFirst:
		return "first"
	case StageSecond:
		return "second"
	case StageLast:
		return "last"
	case StageEnd:
		return "end"
	}
	return "stage(" + strconv.Itoa(int(s)) + ")"
}
