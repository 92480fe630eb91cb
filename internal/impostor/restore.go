package impostor

import (
	"fmt"
	"maps"
	"slices"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/internal/random"
	"github.com/rocketscienceinc/impoztor-backend/internal/roles"
	"github.com/rocketscienceinc/impoztor-backend/internal/timer"
)

// Restore rebuilds a controller from a snapshot previously returned by State.
// The ranking and outcome of a finished round are recomputed from the votes.
func Restore(settings Settings, pack entity.WordPack, rnd *random.Randomizer, state entity.GameState) (*GameController, error) {
	controller := NewGameController(settings, pack, rnd)

	if !state.Phase.IsValid() {
		return nil, fmt.Errorf("%w: unknown phase %q", apperror.ErrInvalidSnapshot, state.Phase)
	}

	if state.Phase == entity.PhaseSetup {
		return controller, nil
	}

	if err := validateSnapshot(state); err != nil {
		return nil, err
	}

	category, ok := pack.Category(state.CategoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownCategory, state.CategoryID)
	}

	controller.phase = state.Phase
	controller.round = state.Round
	controller.players = slices.Clone(state.Players)
	controller.order = slices.Clone(state.Order)
	controller.category = category
	controller.impostorCount = state.ImpostorCount
	controller.shuffle = state.Shuffle
	controller.assignment = state.Assignment.Clone()
	controller.revealIndex = state.RevealIndex
	controller.votingIndex = state.VotingIndex
	controller.votes = maps.Clone(state.Votes)
	if controller.votes == nil {
		controller.votes = make(map[int]int)
	}

	switch state.Phase {
	case entity.PhaseDiscussion:
		controller.countdown = timer.Restore(state.Timer.Remaining, state.Timer.Running)
	case entity.PhaseResults:
		controller.finishVoting()
	}

	return controller, nil
}

func validateSnapshot(state entity.GameState) error {
	playerCount := len(state.Players)
	if playerCount < roles.MinPlayers {
		return fmt.Errorf("%w: %d players", apperror.ErrInvalidSnapshot, playerCount)
	}

	for i, player := range state.Players {
		if player.Index != i {
			return fmt.Errorf("%w: player %q sits at %d but has index %d", apperror.ErrInvalidSnapshot, player.Name, i, player.Index)
		}
	}

	if len(state.Order) != playerCount {
		return fmt.Errorf("%w: order has %d players, want %d", apperror.ErrInvalidSnapshot, len(state.Order), playerCount)
	}

	seen := make([]bool, playerCount)
	for _, player := range state.Order {
		if player.Index < 0 || player.Index >= playerCount || seen[player.Index] {
			return fmt.Errorf("%w: order is not a permutation of the players", apperror.ErrInvalidSnapshot)
		}
		seen[player.Index] = true
	}

	if state.Assignment == nil {
		return fmt.Errorf("%w: missing role assignment", apperror.ErrInvalidSnapshot)
	}

	impostors := state.Assignment.ImpostorIndices
	if len(impostors) < 1 || len(impostors) > roles.MaxImpostors(playerCount) {
		return fmt.Errorf("%w: %d impostors for %d players", apperror.ErrInvalidSnapshot, len(impostors), playerCount)
	}

	isImpostor := make([]bool, playerCount)
	for _, index := range impostors {
		if index < 0 || index >= playerCount {
			return fmt.Errorf("%w: impostor index %d out of range", apperror.ErrInvalidSnapshot, index)
		}
		if isImpostor[index] {
			return fmt.Errorf("%w: player %d is listed as impostor twice", apperror.ErrInvalidSnapshot, index)
		}
		isImpostor[index] = true
	}

	if state.ImpostorCount != len(impostors) {
		return fmt.Errorf("%w: impostor count %d, assignment has %d", apperror.ErrInvalidSnapshot, state.ImpostorCount, len(impostors))
	}

	if state.Assignment.CategoryID != state.CategoryID {
		return fmt.Errorf("%w: word dealt from %q, game category is %q", apperror.ErrInvalidSnapshot, state.Assignment.CategoryID, state.CategoryID)
	}

	// only the discussion carries a countdown
	if (state.Phase == entity.PhaseDiscussion) != (state.Timer != nil) {
		return fmt.Errorf("%w: timer present=%t in phase %s", apperror.ErrInvalidSnapshot, state.Timer != nil, state.Phase)
	}

	switch state.Phase {
	case entity.PhaseReveal:
		if state.RevealIndex < 0 || state.RevealIndex >= playerCount {
			return fmt.Errorf("%w: reveal pointer %d", apperror.ErrInvalidSnapshot, state.RevealIndex)
		}
	case entity.PhaseVoting:
		if state.VotingIndex < 0 || state.VotingIndex >= playerCount {
			return fmt.Errorf("%w: voting pointer %d", apperror.ErrInvalidSnapshot, state.VotingIndex)
		}
		return validateVotes(state.Votes, state.VotingIndex, playerCount)
	case entity.PhaseResults:
		return validateVotes(state.Votes, playerCount, playerCount)
	}

	return nil
}

// validateVotes checks that exactly the first voters players have voted for someone at the table.
func validateVotes(votes map[int]int, voters, playerCount int) error {
	if len(votes) != voters {
		return fmt.Errorf("%w: %d votes recorded, want %d", apperror.ErrInvalidSnapshot, len(votes), voters)
	}

	for voter, voted := range votes {
		if voter < 0 || voter >= voters || voted < 0 || voted >= playerCount {
			return fmt.Errorf("%w: vote %d -> %d", apperror.ErrInvalidSnapshot, voter, voted)
		}
	}

	return nil
}
