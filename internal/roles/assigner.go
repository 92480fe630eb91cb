package roles

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/internal/random"
)

// MinPlayers is the smallest table a round can be dealt for.
const MinPlayers = 3

// MaxImpostors is the largest impostor count allowed for playerCount players:
// floor(playerCount/2) - 1, but never below one.
func MaxImpostors(playerCount int) int {
	return max(1, playerCount/2-1)
}

// ClampImpostors fits impostorCount into [1, MaxImpostors(playerCount)].
func ClampImpostors(playerCount, impostorCount int) int {
	return min(max(1, impostorCount), MaxImpostors(playerCount))
}

type Assigner struct {
	rnd *random.Randomizer
}

func NewAssigner(rnd *random.Randomizer) *Assigner {
	return &Assigner{rnd: rnd}
}

// Assign deals a round: one secret word from the category and impostorCount distinct
// impostor indices in [0, playerCount), returned in ascending order.
func (that *Assigner) Assign(playerCount, impostorCount int, category entity.Category) (*entity.RoleAssignment, error) {
	if playerCount < MinPlayers {
		return nil, fmt.Errorf("%w: got %d, need at least %d", apperror.ErrInsufficientPlayers, playerCount, MinPlayers)
	}

	if impostorCount < 1 || impostorCount > MaxImpostors(playerCount) {
		return nil, fmt.Errorf("%w: %d impostors for %d players (allowed 1..%d)",
			apperror.ErrInvalidImpostorCount, impostorCount, playerCount, MaxImpostors(playerCount))
	}

	word, err := random.PickOne(that.rnd, category.Words)
	if err != nil {
		return nil, fmt.Errorf("category %q has no words: %w", category.ID, err)
	}

	indices := make([]int, playerCount)
	for i := range indices {
		indices[i] = i
	}
	random.Shuffle(that.rnd, indices)

	impostors := slices.Clone(indices[:impostorCount])
	slices.Sort(impostors)

	return &entity.RoleAssignment{
		SecretWord:      word,
		ImpostorIndices: impostors,
		CategoryID:      category.ID,
	}, nil
}
