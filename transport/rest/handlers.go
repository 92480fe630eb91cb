package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/internal/usecase"
)

type gameService interface {
	Categories() []entity.Category
	CreateSession(ctx context.Context) (string, entity.GameState, error)
	DeleteSession(ctx context.Context, id string) error
	State(ctx context.Context, id string) (entity.GameState, error)
	Reveal(ctx context.Context, id string) (entity.RevealCard, error)
	StartGame(ctx context.Context, id string, request usecase.StartRequest) (entity.GameState, error)
	AdvanceReveal(ctx context.Context, id string) (entity.GameState, error)
	PauseTimer(ctx context.Context, id string) (entity.GameState, error)
	ResumeTimer(ctx context.Context, id string) (entity.GameState, error)
	AdjustTimer(ctx context.Context, id string, delta int) (entity.GameState, error)
	Tick(ctx context.Context, id string) (entity.GameState, error)
	SkipDiscussion(ctx context.Context, id string) (entity.GameState, error)
	CastVote(ctx context.Context, id string, voterIndex, votedIndex int) (entity.GameState, error)
	PlayAgain(ctx context.Context, id string) (entity.GameState, error)
	NewGame(ctx context.Context, id string) (entity.GameState, error)
}

type categoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	WordCount int    `json:"word_count"`
}

type sessionResponse struct {
	ID    string           `json:"id"`
	State entity.GameState `json:"state"`
}

type revealResponse struct {
	Player   entity.Player `json:"player"`
	Role     entity.Role   `json:"role"`
	Word     string        `json:"word,omitempty"`
	Position int           `json:"position"`
	Total    int           `json:"total"`
}

type adjustRequest struct {
	Delta int `json:"delta"`
}

type voteRequest struct {
	VoterIndex int `json:"voterIndex"`
	VotedIndex int `json:"votedIndex"`
}

type handlers struct {
	logger *slog.Logger
	game   gameService
}

// NewRouter registers the game API. Extra handlers, such as the websocket
// endpoint, can be added to the returned router.
func NewRouter(logger *slog.Logger, game gameService) *httprouter.Router {
	that := &handlers{
		logger: logger.With("component", "rest"),
		game:   game,
	}

	router := httprouter.New()
	router.PanicHandler = that.panicHandler

	router.GET("/ping", pingHandler)
	router.GET("/api/categories", that.categories)

	router.POST("/api/sessions", that.createSession)
	router.GET("/api/sessions/:id", that.state)
	router.DELETE("/api/sessions/:id", that.deleteSession)

	router.POST("/api/sessions/:id/start", that.startGame)
	router.GET("/api/sessions/:id/reveal", that.reveal)
	router.POST("/api/sessions/:id/reveal/next", that.mutation(that.game.AdvanceReveal))
	router.POST("/api/sessions/:id/timer/pause", that.mutation(that.game.PauseTimer))
	router.POST("/api/sessions/:id/timer/resume", that.mutation(that.game.ResumeTimer))
	router.POST("/api/sessions/:id/timer/adjust", that.adjustTimer)
	router.POST("/api/sessions/:id/timer/tick", that.mutation(that.game.Tick))
	router.POST("/api/sessions/:id/discussion/skip", that.mutation(that.game.SkipDiscussion))
	router.POST("/api/sessions/:id/votes", that.castVote)
	router.POST("/api/sessions/:id/play-again", that.mutation(that.game.PlayAgain))
	router.POST("/api/sessions/:id/new-game", that.mutation(that.game.NewGame))

	return router
}

func (that *handlers) categories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lang := languageOf(r)

	categories := that.game.Categories()
	response := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, categoryResponse{
			ID:        category.ID,
			Name:      category.DisplayName(lang),
			WordCount: len(category.Words),
		})
	}

	writeJSON(that.logger, w, http.StatusOK, response)
}

func (that *handlers) createSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, state, err := that.game.CreateSession(r.Context())
	if err != nil {
		writeError(that.logger, w, err)
		return
	}

	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(that.logger, w, http.StatusCreated, sessionResponse{ID: id, State: state})
}

func (that *handlers) state(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	state, err := that.game.State(r.Context(), id)
	if err != nil {
		writeError(that.logger, w, err)
		return
	}

	writeJSON(that.logger, w, http.StatusOK, sessionResponse{ID: id, State: state})
}

func (that *handlers) deleteSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := that.game.DeleteSession(r.Context(), ps.ByName("id")); err != nil {
		writeError(that.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) startGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var request usecase.StartRequest
	if err := decodeBody(r, &request); err != nil {
		writeError(that.logger, w, err)
		return
	}

	that.respond(w, r, ps, func(ctx context.Context, id string) (entity.GameState, error) {
		return that.game.StartGame(ctx, id, request)
	})
}

func (that *handlers) reveal(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	card, err := that.game.Reveal(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(that.logger, w, err)
		return
	}

	response := revealResponse{
		Player:   card.Player,
		Role:     card.Role,
		Position: card.Position,
		Total:    card.Total,
	}
	if card.Word != nil {
		response.Word = card.Word.Text(languageOf(r))
	}

	writeJSON(that.logger, w, http.StatusOK, response)
}

func (that *handlers) adjustTimer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var request adjustRequest
	if err := decodeBody(r, &request); err != nil {
		writeError(that.logger, w, err)
		return
	}

	that.respond(w, r, ps, func(ctx context.Context, id string) (entity.GameState, error) {
		return that.game.AdjustTimer(ctx, id, request.Delta)
	})
}

func (that *handlers) castVote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var request voteRequest
	if err := decodeBody(r, &request); err != nil {
		writeError(that.logger, w, err)
		return
	}

	that.respond(w, r, ps, func(ctx context.Context, id string) (entity.GameState, error) {
		return that.game.CastVote(ctx, id, request.VoterIndex, request.VotedIndex)
	})
}

func (that *handlers) mutation(fn func(ctx context.Context, id string) (entity.GameState, error)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		that.respond(w, r, ps, fn)
	}
}

func (that *handlers) respond(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	fn func(ctx context.Context, id string) (entity.GameState, error),
) {
	id := ps.ByName("id")

	state, err := fn(r.Context(), id)
	if err != nil {
		writeError(that.logger, w, err)
		return
	}

	writeJSON(that.logger, w, http.StatusOK, sessionResponse{ID: id, State: state})
}

func (that *handlers) panicHandler(w http.ResponseWriter, r *http.Request, recovered any) {
	that.logger.Error("panic while serving request", "path", r.URL.Path, "panic", recovered)
	writeJSON(that.logger, w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return nil
}

func languageOf(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}

	return entity.DefaultLanguage
}
