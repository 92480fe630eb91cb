package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/testing/suite"
)

func testSession() *entity.Session {
	return &entity.Session{
		ID: "123",
		State: entity.GameState{
			Phase: entity.PhaseVoting,
			Round: 2,
			Players: []entity.Player{
				{Name: "Ali", Index: 0},
				{Name: "Sara", Index: 1},
				{Name: "Omar", Index: 2},
			},
			Order: []entity.Player{
				{Name: "Omar", Index: 2},
				{Name: "Ali", Index: 0},
				{Name: "Sara", Index: 1},
			},
			CategoryID:    "animals",
			ImpostorCount: 1,
			Shuffle:       true,
			Assignment: &entity.RoleAssignment{
				SecretWord:      entity.Word{"ar": "أسد", "en": "Lion"},
				ImpostorIndices: []int{1},
				CategoryID:      "animals",
			},
			VotingIndex: 1,
			Votes:       map[int]int{0: 2},
		},
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, time.Minute)

	// Given: a session in the middle of a vote
	session := testSession()

	// When: CreateOrUpdate is called
	err := sessionRepo.CreateOrUpdate(ctx, session)

	// Then: the session is stored under its key with a ttl
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "session:123").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Minute)

		// Given: a stored session
		session := testSession()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: GetByID is called with its id
		retrieved, err := sessionRepo.GetByID(ctx, session.ID)

		// Then: the whole snapshot comes back
		require.NoError(t, err)
		assert.Equal(t, session, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Minute)

		// When: GetByID is called with an unknown id
		retrieved, err := sessionRepo.GetByID(ctx, "9999999")

		// Then: ErrSessionNotFound is returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, retrieved)
	})

	t.Run("GetByID_Corrupted", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Minute)

		// Given: garbage under a session key
		require.NoError(t, st.Storage.Set(ctx, "session:bad", "{", 0).Err())

		// When: it is read
		_, err := sessionRepo.GetByID(ctx, "bad")

		// Then: decoding fails without pretending the session is missing
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 0)

		// Given: a stored session
		session := testSession()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: DeleteByID is called
		err := sessionRepo.DeleteByID(ctx, session.ID)
		require.NoError(t, err)

		// Then: the session is gone
		_, err = sessionRepo.GetByID(ctx, session.ID)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, 0)

		err := sessionRepo.DeleteByID(ctx, "9999999")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
