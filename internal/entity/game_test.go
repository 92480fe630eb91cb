package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase_CanTransitionTo(t *testing.T) {
	t.Run("Allows the forward walk of a round", func(t *testing.T) {
		// Given: the phases in playing order
		walk := []Phase{PhaseSetup, PhaseReveal, PhaseDiscussion, PhaseVoting, PhaseResults}

		// Then: each phase may move to the next one
		for i := 0; i < len(walk)-1; i++ {
			assert.True(t, walk[i].CanTransitionTo(walk[i+1]), "%s -> %s", walk[i], walk[i+1])
		}
	})

	t.Run("Results may restart the round or go back to setup", func(t *testing.T) {
		assert.True(t, PhaseResults.CanTransitionTo(PhaseReveal))
		assert.True(t, PhaseResults.CanTransitionTo(PhaseSetup))
	})

	t.Run("Rejects skipping and going backwards", func(t *testing.T) {
		assert.False(t, PhaseSetup.CanTransitionTo(PhaseVoting))
		assert.False(t, PhaseVoting.CanTransitionTo(PhaseDiscussion))
		assert.False(t, PhaseReveal.CanTransitionTo(PhaseSetup))
		assert.False(t, Phase("unknown").CanTransitionTo(PhaseSetup))
	})

	t.Run("IsValid knows the five phases", func(t *testing.T) {
		assert.True(t, PhaseDiscussion.IsValid())
		assert.False(t, Phase("lobby").IsValid())
	})
}

func TestRoleAssignment_RoleOf(t *testing.T) {
	// Given: an assignment where players 1 and 3 are impostors
	assignment := &RoleAssignment{
		SecretWord:      Word{"en": "Lion", "ar": "أسد"},
		ImpostorIndices: []int{1, 3},
		CategoryID:      "animals",
	}

	// Then: roles are derived from membership
	assert.Equal(t, RoleWordHolder, assignment.RoleOf(0))
	assert.Equal(t, RoleImpostor, assignment.RoleOf(1))
	assert.Equal(t, RoleWordHolder, assignment.RoleOf(2))
	assert.Equal(t, RoleImpostor, assignment.RoleOf(3))
	assert.True(t, RoleImpostor.IsImpostor())
	assert.False(t, RoleWordHolder.IsImpostor())
}

func TestWord_Text(t *testing.T) {
	word := Word{"ar": "أسد", "en": "Lion"}

	t.Run("Returns the requested language", func(t *testing.T) {
		assert.Equal(t, "أسد", word.Text("ar"))
	})

	t.Run("Falls back to English", func(t *testing.T) {
		assert.Equal(t, "Lion", word.Text("fr"))
	})

	t.Run("Falls back to any language when English is missing", func(t *testing.T) {
		assert.Equal(t, "أسد", Word{"ar": "أسد"}.Text("fr"))
	})

	t.Run("Empty word renders empty", func(t *testing.T) {
		assert.Empty(t, Word{}.Text("en"))
	})
}

func TestWordPack_Category(t *testing.T) {
	pack := WordPack{Categories: []Category{
		{ID: "animals", Name: map[string]string{"en": "Animals"}},
		{ID: "food"},
	}}

	category, ok := pack.Category("animals")
	require.True(t, ok)
	assert.Equal(t, "Animals", category.DisplayName("en"))

	food, ok := pack.Category("food")
	require.True(t, ok)
	assert.Equal(t, "food", food.DisplayName("en"))

	_, ok = pack.Category("space")
	assert.False(t, ok)
}

func TestGameState_Clone(t *testing.T) {
	// Given: a state in the middle of voting
	state := GameState{
		Phase:       PhaseResults,
		Players:     []Player{{Name: "A", Index: 0}, {Name: "B", Index: 1}},
		Order:       []Player{{Name: "B", Index: 1}, {Name: "A", Index: 0}},
		Assignment:  &RoleAssignment{SecretWord: Word{"en": "Lion"}, ImpostorIndices: []int{1}},
		Votes:       map[int]int{0: 1, 1: 1},
		Timer:       &TimerState{Remaining: 10},
		Ranking:     []Standing{{PlayerIndex: 1, Votes: 2}},
		Outcome:     &Outcome{TopIndices: []int{1}, ImpostorCaught: true},
		VotingIndex: 2,
	}

	// When: the clone is mutated
	clone := state.Clone()
	clone.Players[0].Name = "Z"
	clone.Order[0].Name = "Z"
	clone.Assignment.ImpostorIndices[0] = 0
	clone.Assignment.SecretWord["en"] = "Tiger"
	clone.Votes[0] = 0
	clone.Timer.Remaining = 0
	clone.Ranking[0].Votes = 9
	clone.Outcome.TopIndices[0] = 0

	// Then: the original is untouched
	assert.Equal(t, "A", state.Players[0].Name)
	assert.Equal(t, "B", state.Order[0].Name)
	assert.Equal(t, []int{1}, state.Assignment.ImpostorIndices)
	assert.Equal(t, "Lion", state.Assignment.SecretWord["en"])
	assert.Equal(t, 1, state.Votes[0])
	assert.Equal(t, 10, state.Timer.Remaining)
	assert.Equal(t, 2, state.Ranking[0].Votes)
	assert.Equal(t, []int{1}, state.Outcome.TopIndices)
}

func TestGameState_TimerRunning(t *testing.T) {
	assert.True(t, (&GameState{Phase: PhaseDiscussion, Timer: &TimerState{Running: true}}).TimerRunning())
	assert.False(t, (&GameState{Phase: PhaseDiscussion, Timer: &TimerState{Running: false}}).TimerRunning())
	assert.False(t, (&GameState{Phase: PhaseVoting, Timer: &TimerState{Running: true}}).TimerRunning())
	assert.False(t, (&GameState{Phase: PhaseDiscussion}).TimerRunning())
}
