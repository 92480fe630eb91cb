package roles

import (
	"testing"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/internal/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var animals = entity.Category{
	ID:   "animals",
	Name: map[string]string{"ar": "الحيوانات", "en": "Animals"},
	Words: []entity.Word{
		{"ar": "أسد", "en": "Lion"},
		{"ar": "فيل", "en": "Elephant"},
		{"ar": "زرافة", "en": "Giraffe"},
		{"ar": "قرد", "en": "Monkey"},
	},
}

func TestMaxImpostors(t *testing.T) {
	cases := []struct {
		players int
		want    int
	}{
		{3, 1},
		{4, 1},
		{5, 1},
		{6, 2},
		{7, 2},
		{8, 3},
		{15, 6},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, MaxImpostors(tc.players), "players=%d", tc.players)
	}
}

func TestClampImpostors(t *testing.T) {
	assert.Equal(t, 1, ClampImpostors(3, 0))
	assert.Equal(t, 1, ClampImpostors(4, 3))
	assert.Equal(t, 2, ClampImpostors(6, 2))
	assert.Equal(t, 3, ClampImpostors(8, 10))
}

func TestAssigner_Assign(t *testing.T) {
	t.Run("Deals exactly K distinct impostors inside the table", func(t *testing.T) {
		// Given: a seeded assigner
		assigner := NewAssigner(random.NewSeeded(5))

		// When: every valid table size and impostor count is dealt
		for n := MinPlayers; n <= 15; n++ {
			for k := 1; k <= MaxImpostors(n); k++ {
				assignment, err := assigner.Assign(n, k, animals)
				require.NoError(t, err)

				// Then: the impostor set has K unique in-range members
				require.Len(t, assignment.ImpostorIndices, k)
				seen := make(map[int]bool)
				for _, index := range assignment.ImpostorIndices {
					assert.GreaterOrEqual(t, index, 0)
					assert.Less(t, index, n)
					assert.False(t, seen[index], "duplicate impostor %d", index)
					seen[index] = true
				}
				assert.IsIncreasing(t, assignment.ImpostorIndices)
				assert.Contains(t, animals.Words, assignment.SecretWord)
				assert.Equal(t, "animals", assignment.CategoryID)
			}
		}
	})

	t.Run("Every player can become the impostor", func(t *testing.T) {
		assigner := NewAssigner(random.NewSeeded(9))
		seen := make(map[int]bool)

		for range 500 {
			assignment, err := assigner.Assign(5, 1, animals)
			require.NoError(t, err)
			seen[assignment.ImpostorIndices[0]] = true
		}

		assert.Len(t, seen, 5)
	})

	t.Run("Rejects impostor counts outside the range without clamping", func(t *testing.T) {
		assigner := NewAssigner(random.NewSeeded(1))

		_, err := assigner.Assign(4, 0, animals)
		require.ErrorIs(t, err, apperror.ErrInvalidImpostorCount)

		_, err = assigner.Assign(4, 2, animals)
		require.ErrorIs(t, err, apperror.ErrInvalidImpostorCount)

		_, err = assigner.Assign(8, 4, animals)
		require.ErrorIs(t, err, apperror.ErrInvalidImpostorCount)
	})

	t.Run("Rejects tables below the minimum", func(t *testing.T) {
		_, err := NewAssigner(random.NewSeeded(1)).Assign(2, 1, animals)

		assert.ErrorIs(t, err, apperror.ErrInsufficientPlayers)
	})

	t.Run("Rejects an empty word pool", func(t *testing.T) {
		_, err := NewAssigner(random.NewSeeded(1)).Assign(4, 1, entity.Category{ID: "empty"})

		assert.ErrorIs(t, err, apperror.ErrEmptyInput)
	})

	t.Run("Seeded assigners deal the same round", func(t *testing.T) {
		first, err := NewAssigner(random.NewSeeded(77)).Assign(8, 3, animals)
		require.NoError(t, err)
		second, err := NewAssigner(random.NewSeeded(77)).Assign(8, 3, animals)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
