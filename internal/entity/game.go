package entity

import (
	"maps"
	"slices"
	"time"
)

// RoleAssignment is the secret deal of one round.
type RoleAssignment struct {
	SecretWord      Word   `json:"secret_word"`
	ImpostorIndices []int  `json:"impostor_indices"`
	CategoryID      string `json:"category_id"`
}

func (that *RoleAssignment) IsImpostor(index int) bool {
	return slices.Contains(that.ImpostorIndices, index)
}

func (that *RoleAssignment) RoleOf(index int) Role {
	if that.IsImpostor(index) {
		return RoleImpostor
	}

	return RoleWordHolder
}

func (that *RoleAssignment) Clone() *RoleAssignment {
	if that == nil {
		return nil
	}

	return &RoleAssignment{
		SecretWord:      maps.Clone(that.SecretWord),
		ImpostorIndices: slices.Clone(that.ImpostorIndices),
		CategoryID:      that.CategoryID,
	}
}

// Standing is one row of the vote ranking.
type Standing struct {
	PlayerIndex int `json:"player_index"`
	Votes       int `json:"votes"`
}

// Outcome summarises how the vote went against the impostors.
type Outcome struct {
	TopIndices     []int `json:"top_indices"`
	Tie            bool  `json:"tie"`
	ImpostorCaught bool  `json:"impostor_caught"`
}

type TimerState struct {
	Remaining int  `json:"remaining_seconds"`
	Running   bool `json:"running"`
}

// GameState is a read-only snapshot of a game, safe to hand to any caller.
type GameState struct {
	Phase         Phase           `json:"phase"`
	Round         int             `json:"round"`
	Players       []Player        `json:"players,omitempty"`
	Order         []Player        `json:"order,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	ImpostorCount int             `json:"impostor_count,omitempty"`
	Shuffle       bool            `json:"shuffle"`
	Assignment    *RoleAssignment `json:"assignment,omitempty"`
	RevealIndex   int             `json:"reveal_index"`
	VotingIndex   int             `json:"voting_index"`
	Votes         map[int]int     `json:"votes,omitempty"`
	Timer         *TimerState     `json:"timer,omitempty"`
	Ranking       []Standing      `json:"ranking,omitempty"`
	Outcome       *Outcome        `json:"outcome,omitempty"`
}

func (that *GameState) PlayerCount() int {
	return len(that.Players)
}

func (that *GameState) IsPhase(phase Phase) bool {
	return that.Phase == phase
}

// TimerRunning reports whether the discussion countdown is currently counting down.
func (that *GameState) TimerRunning() bool {
	return that.Phase == PhaseDiscussion && that.Timer != nil && that.Timer.Running
}

func (that *GameState) Clone() GameState {
	clone := *that
	clone.Players = slices.Clone(that.Players)
	clone.Order = slices.Clone(that.Order)
	clone.Assignment = that.Assignment.Clone()
	clone.Votes = maps.Clone(that.Votes)
	clone.Ranking = slices.Clone(that.Ranking)

	if that.Timer != nil {
		timer := *that.Timer
		clone.Timer = &timer
	}

	if that.Outcome != nil {
		outcome := *that.Outcome
		outcome.TopIndices = slices.Clone(that.Outcome.TopIndices)
		clone.Outcome = &outcome
	}

	return clone
}

// Session is the live game of one device, as kept in storage.
type Session struct {
	ID        string    `json:"id"`
	State     GameState `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}
