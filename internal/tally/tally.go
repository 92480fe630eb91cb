package tally

import (
	"cmp"
	"slices"

	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
)

// Rank counts votes for every player in [0, playerCount) and orders them by count
// descending, ties broken by ascending player index. Players nobody voted for are
// listed with zero votes. Votes for indices outside the range are ignored.
func Rank(votes map[int]int, playerCount int) []entity.Standing {
	counts := make([]int, max(0, playerCount))
	for _, voted := range votes {
		if voted >= 0 && voted < playerCount {
			counts[voted]++
		}
	}

	ranking := make([]entity.Standing, 0, len(counts))
	for index, count := range counts {
		ranking = append(ranking, entity.Standing{PlayerIndex: index, Votes: count})
	}

	slices.SortStableFunc(ranking, func(a, b entity.Standing) int {
		if c := cmp.Compare(b.Votes, a.Votes); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerIndex, b.PlayerIndex)
	})

	return ranking
}

// Summarize reads the top of a ranking against the impostor set. The group catches an
// impostor only when a single player has the most votes and that player is an impostor.
func Summarize(ranking []entity.Standing, impostorIndices []int) entity.Outcome {
	outcome := entity.Outcome{TopIndices: []int{}}
	if len(ranking) == 0 || ranking[0].Votes == 0 {
		return outcome
	}

	top := ranking[0].Votes
	for _, standing := range ranking {
		if standing.Votes != top {
			break
		}
		outcome.TopIndices = append(outcome.TopIndices, standing.PlayerIndex)
	}

	outcome.Tie = len(outcome.TopIndices) > 1
	outcome.ImpostorCaught = !outcome.Tie && slices.Contains(impostorIndices, outcome.TopIndices[0])

	return outcome
}
