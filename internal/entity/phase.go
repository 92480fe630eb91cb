package entity

// Phase is the stage a round is in.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseReveal     Phase = "reveal"
	PhaseDiscussion Phase = "discussion"
	PhaseVoting     Phase = "voting"
	PhaseResults    Phase = "results"
)

var phaseTransitions = map[Phase][]Phase{
	PhaseSetup:      {PhaseReveal},
	PhaseReveal:     {PhaseDiscussion},
	PhaseDiscussion: {PhaseVoting},
	PhaseVoting:     {PhaseResults},
	PhaseResults:    {PhaseReveal, PhaseSetup},
}

func (that Phase) String() string {
	return string(that)
}

func (that Phase) IsValid() bool {
	_, ok := phaseTransitions[that]
	return ok
}

// CanTransitionTo reports whether moving from this phase to target is a legal step.
func (that Phase) CanTransitionTo(target Phase) bool {
	for _, next := range phaseTransitions[that] {
		if next == target {
			return true
		}
	}

	return false
}
