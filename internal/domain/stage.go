package domain

import (
	"fmt"
	"strings"
)

// Stage is one lifecycle state of a queen cell in the rearing funnel.
type Stage string

// Lifecycle stages. The forward stages form a total order; StageFailed is
// absorbing and reachable from any forward stage except StageLaying.
const (
	StageGrafted  Stage = "grafted"
	StageAccepted Stage = "accepted"
	StageCapped   Stage = "capped"
	StageEmerged  Stage = "emerged"
	StageMating   Stage = "mating"
	StageLaying   Stage = "laying"
	StageFailed   Stage = "failed"
)

// stageOrdinals is the biological sequence of the forward stages. New stages
// must be given an explicit ordinal here; declaration order is not used.
var stageOrdinals = map[Stage]int{
	StageGrafted:  1,
	StageAccepted: 2,
	StageCapped:   3,
	StageEmerged:  4,
	StageMating:   5,
	StageLaying:   6,
}

// failedOrdinal ranks a failed cell below every forward stage.
const failedOrdinal = 0

// allStages lists every stage value, forward stages first, in funnel order.
var allStages = []Stage{
	StageGrafted,
	StageAccepted,
	StageCapped,
	StageEmerged,
	StageMating,
	StageLaying,
	StageFailed,
}

// AllStages returns every stage value in funnel order with StageFailed last.
// The returned slice is a copy.
func AllStages() []Stage {
	out := make([]Stage, len(allStages))
	copy(out, allStages)
	return out
}

// ParseStage converts a string into a Stage, accepting any letter case.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	if !stage.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
	}
	return stage, nil
}

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	if s == StageFailed {
		return true
	}
	_, ok := stageOrdinals[s]
	return ok
}

// IsForward reports whether s is a non-failure stage.
func (s Stage) IsForward() bool {
	_, ok := stageOrdinals[s]
	return ok
}

// IsTerminal reports whether no further transition is possible from s.
func (s Stage) IsTerminal() bool {
	return s == StageFailed || s == StageLaying
}

// Ordinal returns the position of s in the funnel. Failed and unknown stages
// return 0.
func (s Stage) Ordinal() int {
	if ord, ok := stageOrdinals[s]; ok {
		return ord
	}
	return failedOrdinal
}

// CompareStages orders two stages by their biological sequence. It returns -1
// if a comes before b, 1 if after, and 0 if they are at the same position.
// StageFailed compares below every forward stage.
func CompareStages(a, b Stage) int {
	oa, ob := a.Ordinal(), b.Ordinal()
	switch {
	case oa < ob:
		return -1
	case oa > ob:
		return 1
	default:
		return 0
	}
}

// CanTransition reports whether a cell may move from one stage to another.
// Moves go strictly forward (skipping unrecorded stages is allowed) or into
// StageFailed from any non-terminal stage.
func CanTransition(from, to Stage) bool {
	if !from.IsValid() || !to.IsValid() || from.IsTerminal() {
		return false
	}
	if to == StageFailed {
		return true
	}
	return CompareStages(to, from) > 0
}
