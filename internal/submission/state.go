// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submission

import "fmt"

// State is a step of the submission workflow.
type State int

const (
	Editing State = iota
	Scoring
	ReviewedHuman
	NeedsRevision
	CodeEntry
	Validated
	Submitting
	Submitted
	Failed
)

var stateNames = [...]string{
	Editing:       "editing",
	Scoring:       "scoring",
	ReviewedHuman: "reviewed-human",
	NeedsRevision: "needs-revision",
	CodeEntry:     "code-entry",
	Validated:     "validated",
	Submitting:    "submitting",
	Submitted:     "submitted",
	Failed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// transitions lists the legal moves out of each state.
var transitions = map[State][]State{
	Editing:       {Scoring},
	Scoring:       {ReviewedHuman, NeedsRevision, Editing},
	ReviewedHuman: {CodeEntry, Editing},
	NeedsRevision: {Editing},
	CodeEntry:     {CodeEntry, Validated, Editing},
	Validated:     {CodeEntry, Submitting, Editing},
	Submitting:    {Submitted, Failed},
	Failed:        {Validated},
	Submitted:     {Editing},
}

// CanTransition reports whether from → to is legal.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to State) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
