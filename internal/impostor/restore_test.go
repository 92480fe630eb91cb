package impostor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/internal/random"
)

func restore(t *testing.T, state entity.GameState) *GameController {
	t.Helper()

	controller, err := Restore(DefaultSettings(), testPack(), random.NewSeeded(7), state)
	require.NoError(t, err)

	return controller
}

func TestRestore(t *testing.T) {
	t.Run("Every phase round-trips", func(t *testing.T) {
		// Given: snapshots taken in each phase
		controller := newTestController(t)
		snapshots := []entity.GameState{controller.State()}

		startFourPlayers(t, controller, true)
		_, err := controller.AdvanceReveal()
		require.NoError(t, err)
		snapshots = append(snapshots, controller.State())

		revealAll(t, controller)
		_, err = controller.Tick()
		require.NoError(t, err)
		_, err = controller.PauseTimer()
		require.NoError(t, err)
		snapshots = append(snapshots, controller.State())

		_, err = controller.SkipDiscussion()
		require.NoError(t, err)
		_, err = controller.CastVote(0, 2)
		require.NoError(t, err)
		snapshots = append(snapshots, controller.State())

		voteRest := []int{2, 3, 2}
		for i, target := range voteRest {
			_, err = controller.CastVote(i+1, target)
			require.NoError(t, err)
		}
		snapshots = append(snapshots, controller.State())

		for _, snapshot := range snapshots {
			t.Run(snapshot.Phase.String(), func(t *testing.T) {
				// When: a controller is rebuilt from the snapshot
				restored := restore(t, snapshot)

				// Then: it reports the same state
				assert.Equal(t, snapshot, restored.State())
			})
		}
	})

	t.Run("Restored discussion keeps counting", func(t *testing.T) {
		// Given: a discussion with five seconds left
		controller := newTestController(t)
		startFourPlayers(t, controller, false)
		revealAll(t, controller)
		_, err := controller.AdjustTimer(5 - DefaultDiscussionSeconds)
		require.NoError(t, err)

		restored := restore(t, controller.State())

		// When: five seconds elapse on the restored game
		var state entity.GameState
		for range 5 {
			state, err = restored.Tick()
			require.NoError(t, err)
		}

		// Then: voting begins
		assert.Equal(t, entity.PhaseVoting, state.Phase)
	})

	t.Run("Restored voting continues with the next voter", func(t *testing.T) {
		// Given: a vote half way through
		controller := newTestController(t)
		startFourPlayers(t, controller, false)
		revealAll(t, controller)
		_, err := controller.SkipDiscussion()
		require.NoError(t, err)
		_, err = controller.CastVote(0, 1)
		require.NoError(t, err)
		_, err = controller.CastVote(1, 1)
		require.NoError(t, err)

		restored := restore(t, controller.State())

		// When: player 0 tries to vote again
		_, err = restored.CastVote(0, 1)

		// Then: it is player 2's turn
		require.ErrorIs(t, err, apperror.ErrOutOfTurnVote)
		_, err = restored.CastVote(2, 1)
		require.NoError(t, err)
	})

	t.Run("Invalid snapshots are rejected", func(t *testing.T) {
		controller := newTestController(t)
		valid := startFourPlayers(t, controller, false)

		cases := []struct {
			name    string
			mutate  func(state *entity.GameState)
			wantErr error
		}{
			{"unknown phase", func(s *entity.GameState) { s.Phase = "lobby" }, apperror.ErrInvalidSnapshot},
			{"too few players", func(s *entity.GameState) { s.Players = s.Players[:2]; s.Order = s.Order[:2] }, apperror.ErrInvalidSnapshot},
			{"order is not a permutation", func(s *entity.GameState) { s.Order[1] = s.Order[0] }, apperror.ErrInvalidSnapshot},
			{"missing assignment", func(s *entity.GameState) { s.Assignment = nil }, apperror.ErrInvalidSnapshot},
			{"impostor out of range", func(s *entity.GameState) { s.Assignment.ImpostorIndices = []int{9} }, apperror.ErrInvalidSnapshot},
			{"reveal pointer past the end", func(s *entity.GameState) { s.RevealIndex = 4 }, apperror.ErrInvalidSnapshot},
			{"discussion without timer", func(s *entity.GameState) { s.Phase = entity.PhaseDiscussion }, apperror.ErrInvalidSnapshot},
			{"results without votes", func(s *entity.GameState) { s.Phase = entity.PhaseResults }, apperror.ErrInvalidSnapshot},
			{"impostor count differs from the deal", func(s *entity.GameState) { s.ImpostorCount = 0 }, apperror.ErrInvalidSnapshot},
			{"word dealt from another category", func(s *entity.GameState) { s.Assignment.CategoryID = "food" }, apperror.ErrInvalidSnapshot},
			{"timer outside the discussion", func(s *entity.GameState) { s.Timer = &entity.TimerState{Remaining: 30} }, apperror.ErrInvalidSnapshot},
			{"voting with a timer", func(s *entity.GameState) {
				s.Phase = entity.PhaseVoting
				s.Timer = &entity.TimerState{Remaining: 30}
			}, apperror.ErrInvalidSnapshot},
			{"category no longer exists", func(s *entity.GameState) {
				s.CategoryID = "planets"
				s.Assignment.CategoryID = "planets"
			}, apperror.ErrUnknownCategory},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				// Given: a corrupted snapshot
				state := valid.Clone()
				tc.mutate(&state)

				// When: it is restored
				_, err := Restore(DefaultSettings(), testPack(), random.NewSeeded(7), state)

				// Then: the snapshot is refused
				require.ErrorIs(t, err, tc.wantErr)
			})
		}
	})

	t.Run("Duplicate impostors are rejected", func(t *testing.T) {
		// Given: a six player game with two impostors
		controller := newTestController(t)
		valid, err := controller.StartGame([]string{"a", "b", "c", "d", "e", "f"}, "animals", 2, false)
		require.NoError(t, err)

		// When: the stored deal names the same player twice
		state := valid.Clone()
		state.Assignment.ImpostorIndices = []int{1, 1}
		_, err = Restore(DefaultSettings(), testPack(), random.NewSeeded(7), state)

		// Then: the snapshot is refused
		require.ErrorIs(t, err, apperror.ErrInvalidSnapshot)
	})

	t.Run("Restored results can play again", func(t *testing.T) {
		// Given: a finished round restored from its snapshot
		controller := newTestController(t)
		startFourPlayers(t, controller, false)
		playRound(t, controller)
		restored := restore(t, controller.State())

		// When: the group plays again
		state, err := restored.PlayAgain()

		// Then: a new round is dealt with the stored impostor count
		require.NoError(t, err)
		assert.Equal(t, 2, state.Round)
		assert.Len(t, state.Assignment.ImpostorIndices, 1)
	})
}
