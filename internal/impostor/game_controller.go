package impostor

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/internal/random"
	"github.com/rocketscienceinc/impoztor-backend/internal/roles"
	"github.com/rocketscienceinc/impoztor-backend/internal/tally"
	"github.com/rocketscienceinc/impoztor-backend/internal/timer"
)

const (
	DefaultMinPlayers        = roles.MinPlayers
	DefaultMaxPlayers        = 15
	DefaultDiscussionSeconds = 180
)

type Settings struct {
	MinPlayers        int
	MaxPlayers        int // zero or negative disables the upper bound
	DiscussionSeconds int
}

func DefaultSettings() Settings {
	return Settings{
		MinPlayers:        DefaultMinPlayers,
		MaxPlayers:        DefaultMaxPlayers,
		DiscussionSeconds: DefaultDiscussionSeconds,
	}
}

// GameController owns one game and is its only writer. Every operation either
// succeeds and returns the new snapshot, or fails and leaves the game untouched.
// It is not safe for concurrent use.
type GameController struct {
	settings Settings
	pack     entity.WordPack
	rnd      *random.Randomizer
	assigner *roles.Assigner

	phase         entity.Phase
	round         int
	players       []entity.Player
	order         []entity.Player
	category      entity.Category
	impostorCount int
	shuffle       bool
	assignment    *entity.RoleAssignment
	revealIndex   int
	votingIndex   int
	votes         map[int]int
	countdown     *timer.Countdown
	ranking       []entity.Standing
	outcome       *entity.Outcome
}

func NewGameController(settings Settings, pack entity.WordPack, rnd *random.Randomizer) *GameController {
	return &GameController{
		settings: settings,
		pack:     pack,
		rnd:      rnd,
		assigner: roles.NewAssigner(rnd),
		phase:    entity.PhaseSetup,
	}
}

// StartGame seats the players and deals the first round.
func (that *GameController) StartGame(names []string, categoryID string, impostorCount int, shuffle bool) (entity.GameState, error) {
	if err := that.requirePhase("start game", entity.PhaseSetup); err != nil {
		return entity.GameState{}, err
	}

	minPlayers := max(that.settings.MinPlayers, roles.MinPlayers)
	if len(names) < minPlayers {
		return entity.GameState{}, fmt.Errorf("%w: got %d, need at least %d", apperror.ErrInsufficientPlayers, len(names), minPlayers)
	}

	if that.settings.MaxPlayers > 0 && len(names) > that.settings.MaxPlayers {
		return entity.GameState{}, fmt.Errorf("%w: got %d, at most %d", apperror.ErrTooManyPlayers, len(names), that.settings.MaxPlayers)
	}

	category, ok := that.pack.Category(categoryID)
	if !ok {
		return entity.GameState{}, fmt.Errorf("%w: %q", apperror.ErrUnknownCategory, categoryID)
	}

	players := make([]entity.Player, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = entity.DefaultPlayerName(i)
		}
		players[i] = entity.Player{Name: name, Index: i}
	}

	assignment, err := that.assigner.Assign(len(players), impostorCount, category)
	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to deal roles: %w", err)
	}

	that.players = players
	that.category = category
	that.impostorCount = impostorCount
	that.shuffle = shuffle
	that.round = 1
	that.beginRound(assignment)

	return that.State(), nil
}

// AdvanceReveal hands the device to the next player; after the last player the
// discussion starts with a running countdown.
func (that *GameController) AdvanceReveal() (entity.GameState, error) {
	if err := that.requirePhase("advance reveal", entity.PhaseReveal); err != nil {
		return entity.GameState{}, err
	}

	that.revealIndex++
	if that.revealIndex >= len(that.order) {
		that.startDiscussion()
	}

	return that.State(), nil
}

// CurrentReveal is the private card of the player now holding the device.
func (that *GameController) CurrentReveal() (entity.RevealCard, error) {
	if err := that.requirePhase("reveal role", entity.PhaseReveal); err != nil {
		return entity.RevealCard{}, err
	}

	player := that.order[that.revealIndex]
	card := entity.RevealCard{
		Player:   player,
		Role:     that.assignment.RoleOf(player.Index),
		Position: that.revealIndex + 1,
		Total:    len(that.order),
	}

	if !card.Role.IsImpostor() {
		card.Word = maps.Clone(that.assignment.SecretWord)
	}

	return card, nil
}

// RoleOf reports the role of the player with the given index in the current round.
func (that *GameController) RoleOf(index int) (entity.Role, error) {
	if that.assignment == nil {
		return "", fmt.Errorf("%w: no round has been dealt", apperror.ErrIllegalPhaseTransition)
	}

	if index < 0 || index >= len(that.players) {
		return "", fmt.Errorf("%w: player %d", apperror.ErrInvalidTarget, index)
	}

	return that.assignment.RoleOf(index), nil
}

func (that *GameController) PauseTimer() (entity.GameState, error) {
	if err := that.requirePhase("pause timer", entity.PhaseDiscussion); err != nil {
		return entity.GameState{}, err
	}

	that.countdown.Pause()

	return that.State(), nil
}

func (that *GameController) ResumeTimer() (entity.GameState, error) {
	if err := that.requirePhase("resume timer", entity.PhaseDiscussion); err != nil {
		return entity.GameState{}, err
	}

	that.countdown.Resume()

	return that.State(), nil
}

// AdjustTimer adds delta seconds to the discussion countdown, never below zero.
func (that *GameController) AdjustTimer(delta int) (entity.GameState, error) {
	if err := that.requirePhase("adjust timer", entity.PhaseDiscussion); err != nil {
		return entity.GameState{}, err
	}

	that.countdown.Adjust(delta)

	return that.State(), nil
}

// Tick is called once per elapsed second during the discussion. When the countdown
// expires the game moves on to voting. Ticks while paused change nothing.
func (that *GameController) Tick() (entity.GameState, error) {
	if err := that.requirePhase("tick", entity.PhaseDiscussion); err != nil {
		return entity.GameState{}, err
	}

	if that.countdown.Tick() {
		that.startVoting()
	}

	return that.State(), nil
}

func (that *GameController) SkipDiscussion() (entity.GameState, error) {
	if err := that.requirePhase("skip discussion", entity.PhaseDiscussion); err != nil {
		return entity.GameState{}, err
	}

	that.startVoting()

	return that.State(), nil
}

// CastVote records the ballot of the player whose turn it is. Voters go strictly in
// seat order; a player may vote for themselves.
func (that *GameController) CastVote(voterIndex, votedIndex int) (entity.GameState, error) {
	if err := that.requirePhase("cast vote", entity.PhaseVoting); err != nil {
		return entity.GameState{}, err
	}

	if voterIndex != that.votingIndex {
		return entity.GameState{}, fmt.Errorf("%w: player %d voted, expected player %d", apperror.ErrOutOfTurnVote, voterIndex, that.votingIndex)
	}

	if votedIndex < 0 || votedIndex >= len(that.players) {
		return entity.GameState{}, fmt.Errorf("%w: player %d", apperror.ErrInvalidTarget, votedIndex)
	}

	that.votes[voterIndex] = votedIndex
	that.votingIndex++

	if that.votingIndex >= len(that.players) {
		that.finishVoting()
	}

	return that.State(), nil
}

// PlayAgain deals a new round for the same players, category and impostor count.
func (that *GameController) PlayAgain() (entity.GameState, error) {
	if err := that.requirePhase("play again", entity.PhaseResults); err != nil {
		return entity.GameState{}, err
	}

	assignment, err := that.assigner.Assign(len(that.players), that.impostorCount, that.category)
	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to deal roles: %w", err)
	}

	that.round++
	that.beginRound(assignment)

	return that.State(), nil
}

// NewGame drops the players and everything dealt to them.
func (that *GameController) NewGame() (entity.GameState, error) {
	if err := that.requirePhase("new game", entity.PhaseResults); err != nil {
		return entity.GameState{}, err
	}

	that.reset()

	return that.State(), nil
}

// State returns a snapshot that shares no memory with the controller.
func (that *GameController) State() entity.GameState {
	state := entity.GameState{
		Phase:         that.phase,
		Round:         that.round,
		Players:       slices.Clone(that.players),
		Order:         slices.Clone(that.order),
		CategoryID:    that.category.ID,
		ImpostorCount: that.impostorCount,
		Shuffle:       that.shuffle,
		Assignment:    that.assignment.Clone(),
		RevealIndex:   that.revealIndex,
		VotingIndex:   that.votingIndex,
		Votes:         maps.Clone(that.votes),
		Ranking:       slices.Clone(that.ranking),
	}

	if that.countdown != nil {
		state.Timer = &entity.TimerState{
			Remaining: that.countdown.Remaining(),
			Running:   that.countdown.Running(),
		}
	}

	if that.outcome != nil {
		outcome := *that.outcome
		outcome.TopIndices = slices.Clone(that.outcome.TopIndices)
		state.Outcome = &outcome
	}

	return state
}

func (that *GameController) Phase() entity.Phase {
	return that.phase
}

func (that *GameController) requirePhase(operation string, phase entity.Phase) error {
	if that.phase != phase {
		return fmt.Errorf("%w: %s needs phase %s, game is in %s", apperror.ErrIllegalPhaseTransition, operation, phase, that.phase)
	}

	return nil
}

func (that *GameController) beginRound(assignment *entity.RoleAssignment) {
	order := slices.Clone(that.players)
	if that.shuffle {
		random.Shuffle(that.rnd, order)
	}

	that.phase = entity.PhaseReveal
	that.order = order
	that.assignment = assignment
	that.revealIndex = 0
	that.votingIndex = 0
	that.votes = make(map[int]int)
	that.countdown = nil
	that.ranking = nil
	that.outcome = nil
}

func (that *GameController) startDiscussion() {
	that.phase = entity.PhaseDiscussion
	that.countdown = timer.New(that.settings.DiscussionSeconds)
	that.countdown.Resume()
}

func (that *GameController) startVoting() {
	that.phase = entity.PhaseVoting
	that.countdown = nil
	that.votes = make(map[int]int)
	that.votingIndex = 0
}

func (that *GameController) finishVoting() {
	that.ranking = tally.Rank(that.votes, len(that.players))
	outcome := tally.Summarize(that.ranking, that.assignment.ImpostorIndices)
	that.outcome = &outcome
	that.phase = entity.PhaseResults
}

func (that *GameController) reset() {
	that.phase = entity.PhaseSetup
	that.round = 0
	that.players = nil
	that.order = nil
	that.category = entity.Category{}
	that.impostorCount = 0
	that.shuffle = false
	that.assignment = nil
	that.revealIndex = 0
	that.votingIndex = 0
	that.votes = nil
	that.countdown = nil
	that.ranking = nil
	that.outcome = nil
}
