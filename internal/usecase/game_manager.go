package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/internal/impostor"
	"github.com/rocketscienceinc/impoztor-backend/internal/random"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type statePublisher interface {
	Publish(sessionID string, state entity.GameState)
}

// StartRequest is the setup screen of a new game.
type StartRequest struct {
	Players       []string `json:"players"`
	CategoryID    string   `json:"category_id"`
	ImpostorCount int      `json:"impostor_count"`
	Shuffle       bool     `json:"shuffle"`
}

// GameManager runs the games of all sessions. Operations on one session are
// serialised; different sessions proceed independently. Every successful mutation
// is written to the repository and then published.
type GameManager struct {
	logger    *slog.Logger
	repo      sessionRepo
	publisher statePublisher
	pack      entity.WordPack
	settings  impostor.Settings
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu         sync.Mutex
	controller *impostor.GameController
}

// NewGameManager creates the manager. publisher may be nil.
func NewGameManager(logger *slog.Logger, repo sessionRepo, publisher statePublisher, pack entity.WordPack, settings impostor.Settings) *GameManager {
	return &GameManager{
		logger:    logger.With("component", "game_manager"),
		repo:      repo,
		publisher: publisher,
		pack:      pack,
		settings:  settings,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

func (that *GameManager) Categories() []entity.Category {
	return that.pack.Categories
}

func (that *GameManager) CreateSession(ctx context.Context) (string, entity.GameState, error) {
	log := that.logger.With("method", "CreateSession")

	id := uuid.NewString()
	controller := impostor.NewGameController(that.settings, that.pack, random.NewDefault())
	state := controller.State()

	if err := that.save(ctx, id, state); err != nil {
		return "", entity.GameState{}, err
	}

	that.mu.Lock()
	that.sessions[id] = &session{controller: controller}
	that.mu.Unlock()

	log.Info("session created", "session_id", id)

	return id, state, nil
}

// DeleteSession waits for any operation in flight on the session, so nothing is
// written back after the delete. Callers queued behind it find the session gone.
func (that *GameManager) DeleteSession(ctx context.Context, id string) error {
	that.mu.Lock()
	current, ok := that.sessions[id]
	that.mu.Unlock()

	if ok {
		current.mu.Lock()
		defer current.mu.Unlock()
	}

	err := that.repo.DeleteByID(ctx, id)

	if ok {
		current.controller = nil

		that.mu.Lock()
		if that.sessions[id] == current {
			delete(that.sessions, id)
		}
		that.mu.Unlock()
	}

	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session deleted", "session_id", id)

	return nil
}

func (that *GameManager) State(ctx context.Context, id string) (entity.GameState, error) {
	current, err := that.acquire(ctx, id)
	if err != nil {
		return entity.GameState{}, err
	}
	defer current.mu.Unlock()

	return current.controller.State(), nil
}

// Reveal returns the private card of the player currently holding the device.
func (that *GameManager) Reveal(ctx context.Context, id string) (entity.RevealCard, error) {
	current, err := that.acquire(ctx, id)
	if err != nil {
		return entity.RevealCard{}, err
	}
	defer current.mu.Unlock()

	card, err := current.controller.CurrentReveal()
	if err != nil {
		return entity.RevealCard{}, fmt.Errorf("failed to reveal role: %w", err)
	}

	return card, nil
}

func (that *GameManager) StartGame(ctx context.Context, id string, request StartRequest) (entity.GameState, error) {
	return that.mutate(ctx, id, "start game", func(controller *impostor.GameController) (entity.GameState, error) {
		return controller.StartGame(request.Players, request.CategoryID, request.ImpostorCount, request.Shuffle)
	})
}

func (that *GameManager) AdvanceReveal(ctx context.Context, id string) (entity.GameState, error) {
	return that.mutate(ctx, id, "advance reveal", (*impostor.GameController).AdvanceReveal)
}

func (that *GameManager) PauseTimer(ctx context.Context, id string) (entity.GameState, error) {
	return that.mutate(ctx, id, "pause timer", (*impostor.GameController).PauseTimer)
}

func (that *GameManager) ResumeTimer(ctx context.Context, id string) (entity.GameState, error) {
	return that.mutate(ctx, id, "resume timer", (*impostor.GameController).ResumeTimer)
}

func (that *GameManager) AdjustTimer(ctx context.Context, id string, delta int) (entity.GameState, error) {
	return that.mutate(ctx, id, "adjust timer", func(controller *impostor.GameController) (entity.GameState, error) {
		return controller.AdjustTimer(delta)
	})
}

func (that *GameManager) Tick(ctx context.Context, id string) (entity.GameState, error) {
	return that.mutate(ctx, id, "tick", (*impostor.GameController).Tick)
}

func (that *GameManager) SkipDiscussion(ctx context.Context, id string) (entity.GameState, error) {
	return that.mutate(ctx, id, "skip discussion", (*impostor.GameController).SkipDiscussion)
}

func (that *GameManager) CastVote(ctx context.Context, id string, voterIndex, votedIndex int) (entity.GameState, error) {
	return that.mutate(ctx, id, "cast vote", func(controller *impostor.GameController) (entity.GameState, error) {
		return controller.CastVote(voterIndex, votedIndex)
	})
}

func (that *GameManager) PlayAgain(ctx context.Context, id string) (entity.GameState, error) {
	return that.mutate(ctx, id, "play again", (*impostor.GameController).PlayAgain)
}

func (that *GameManager) NewGame(ctx context.Context, id string) (entity.GameState, error) {
	return that.mutate(ctx, id, "new game", (*impostor.GameController).NewGame)
}

// TickRunning advances every cached session whose discussion timer is running.
// Sessions that only live in the repository are not ticked until they are used.
func (that *GameManager) TickRunning(ctx context.Context) error {
	that.mu.Lock()
	ids := make([]string, 0, len(that.sessions))
	for id := range that.sessions {
		ids = append(ids, id)
	}
	that.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := that.tickIfRunning(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (that *GameManager) tickIfRunning(ctx context.Context, id string) error {
	that.mu.Lock()
	current, ok := that.sessions[id]
	that.mu.Unlock()

	if !ok {
		return nil
	}

	current.mu.Lock()
	defer current.mu.Unlock()

	if current.controller == nil {
		return nil
	}

	if state := current.controller.State(); !state.TimerRunning() {
		return nil
	}

	if _, err := that.apply(ctx, id, current, "tick", (*impostor.GameController).Tick); err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}

	return nil
}

func (that *GameManager) mutate(
	ctx context.Context,
	id, operation string,
	fn func(*impostor.GameController) (entity.GameState, error),
) (entity.GameState, error) {
	current, err := that.acquire(ctx, id)
	if err != nil {
		return entity.GameState{}, err
	}
	defer current.mu.Unlock()

	return that.apply(ctx, id, current, operation, fn)
}

// apply runs fn on a locked session. When the new state cannot be stored the cached
// controller is dropped so the next caller reloads the last stored state.
func (that *GameManager) apply(
	ctx context.Context,
	id string,
	current *session,
	operation string,
	fn func(*impostor.GameController) (entity.GameState, error),
) (entity.GameState, error) {
	log := that.logger.With("method", "apply", "session_id", id, "operation", operation)

	state, err := fn(current.controller)
	if err != nil {
		log.Debug("operation rejected", "error", err)
		return entity.GameState{}, fmt.Errorf("failed to %s: %w", operation, err)
	}

	if err = that.save(ctx, id, state); err != nil {
		log.Error("failed to store session, dropping cached game", "error", err)
		current.controller = nil

		return entity.GameState{}, err
	}

	if that.publisher != nil {
		that.publisher.Publish(id, state)
	}

	log.Debug("operation applied", "phase", state.Phase)

	return state, nil
}

// acquire returns the session locked, loading it from the repository on a cache miss.
func (that *GameManager) acquire(ctx context.Context, id string) (*session, error) {
	that.mu.Lock()
	current, ok := that.sessions[id]
	if !ok {
		current = &session{}
		that.sessions[id] = current
	}
	that.mu.Unlock()

	current.mu.Lock()

	if current.controller != nil {
		return current, nil
	}

	controller, err := that.load(ctx, id)
	if err != nil {
		current.mu.Unlock()

		that.mu.Lock()
		if that.sessions[id] == current {
			delete(that.sessions, id)
		}
		that.mu.Unlock()

		return nil, err
	}

	current.controller = controller

	return current, nil
}

func (that *GameManager) load(ctx context.Context, id string) (*impostor.GameController, error) {
	stored, err := that.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	controller, err := impostor.Restore(that.settings, that.pack, random.NewDefault(), stored.State)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}

	return controller, nil
}

func (that *GameManager) save(ctx context.Context, id string, state entity.GameState) error {
	stored := &entity.Session{
		ID:        id,
		State:     state,
		UpdatedAt: that.now().UTC(),
	}

	if err := that.repo.CreateOrUpdate(ctx, stored); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, apperror.ErrSessionNotFound)
}
