package apperror

import "errors"

var (
	ErrInsufficientPlayers    = errors.New("not enough players")
	ErrTooManyPlayers         = errors.New("too many players")
	ErrInvalidImpostorCount   = errors.New("invalid impostor count")
	ErrIllegalPhaseTransition = errors.New("operation is not allowed in the current phase")
	ErrOutOfTurnVote          = errors.New("it's not this player's turn to vote")
	ErrInvalidTarget          = errors.New("invalid vote target")
	ErrEmptyInput             = errors.New("empty input")
	ErrUnknownCategory        = errors.New("unknown category")
	ErrSessionNotFound        = errors.New("session not found")
	ErrInvalidSnapshot        = errors.New("invalid game snapshot")
)
