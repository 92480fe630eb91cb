package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/internal/impostor"
	"github.com/rocketscienceinc/impoztor-backend/internal/roles"
)

// errQuit ends the session at the player's request or when input runs out.
var errQuit = errors.New("quit")

const screenBreak = "\n\n\n\n\n\n\n\n\n\n\n\n\n\n\n\n\n\n\n\n"

type Options struct {
	Language   string
	TimerStep  int
	MinPlayers int
	MaxPlayers int
	// Ticks drives the discussion timer; nil uses a one-second ticker.
	Ticks <-chan time.Time
}

// Console plays one device's games in a terminal. A single loop owns the
// controller: typed lines and timer ticks both arrive as channel events.
type Console struct {
	logger     *slog.Logger
	out        io.Writer
	controller *impostor.GameController
	pack       entity.WordPack
	options    Options

	input io.Reader
	lines <-chan string
	ticks <-chan time.Time
}

func New(logger *slog.Logger, in io.Reader, out io.Writer, controller *impostor.GameController, pack entity.WordPack, options Options) *Console {
	if options.Language == "" {
		options.Language = entity.DefaultLanguage
	}

	return &Console{
		logger:     logger.With("component", "console"),
		out:        out,
		controller: controller,
		pack:       pack,
		options:    options,
		input:      in,
		ticks:      options.Ticks,
	}
}

// Run plays until the players quit, input ends or ctx is cancelled.
func (that *Console) Run(ctx context.Context) error {
	if that.lines == nil {
		that.lines = scanLines(ctx, that.input)
	}

	if that.ticks == nil {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		that.ticks = ticker.C
	}

	that.println("IMPOZTOR: one word, one liar.")

	err := that.loop(ctx)
	if errors.Is(err, errQuit) {
		that.println("Bye!")
		return nil
	}

	return err
}

func (that *Console) loop(ctx context.Context) error {
	for {
		var err error

		switch that.controller.Phase() {
		case entity.PhaseSetup:
			err = that.setup(ctx)
		case entity.PhaseReveal:
			err = that.reveal(ctx)
		case entity.PhaseDiscussion:
			err = that.discuss(ctx)
		case entity.PhaseVoting:
			err = that.vote(ctx)
		case entity.PhaseResults:
			err = that.results(ctx)
		}

		if err != nil {
			return err
		}
	}
}

func (that *Console) setup(ctx context.Context) error {
	minPlayers := max(roles.MinPlayers, that.options.MinPlayers)
	maxPlayers := that.options.MaxPlayers

	rangeHint := fmt.Sprintf("%d or more", minPlayers)
	if maxPlayers > 0 {
		rangeHint = fmt.Sprintf("%d-%d", minPlayers, maxPlayers)
	}

	count, err := that.askInt(ctx, fmt.Sprintf("Number of players (%s): ", rangeHint), minPlayers, maxPlayers)
	if err != nil {
		return err
	}

	names := make([]string, count)
	for i := range names {
		names[i], err = that.ask(ctx, fmt.Sprintf("Name of player %d [%s]: ", i+1, entity.DefaultPlayerName(i)))
		if err != nil {
			return err
		}
	}

	that.println("Categories:")
	for i, category := range that.pack.Categories {
		that.printf("  %d) %s\n", i+1, category.DisplayName(that.options.Language))
	}

	choice, err := that.askInt(ctx, "Category: ", 1, len(that.pack.Categories))
	if err != nil {
		return err
	}
	categoryID := that.pack.Categories[choice-1].ID

	maxImpostors := roles.MaxImpostors(count)
	impostors := 1
	if maxImpostors > 1 {
		impostors, err = that.askInt(ctx, fmt.Sprintf("Impostors (1-%d): ", maxImpostors), 1, maxImpostors)
		if err != nil {
			return err
		}
	}

	shuffle, err := that.askYesNo(ctx, "Shuffle the reveal order? (y/N): ")
	if err != nil {
		return err
	}

	if _, err = that.controller.StartGame(names, categoryID, impostors, shuffle); err != nil {
		that.printf("Cannot start: %v\n", err)
		that.logger.Debug("start rejected", "error", err)
	}

	return nil
}

func (that *Console) reveal(ctx context.Context) error {
	card, err := that.controller.CurrentReveal()
	if err != nil {
		return fmt.Errorf("failed to reveal role: %w", err)
	}

	if card.Position == 1 {
		that.printf("Round %d\n", that.controller.State().Round)
	}

	if _, err = that.ask(ctx, fmt.Sprintf("[%d/%d] Pass the device to %s and press Enter.", card.Position, card.Total, card.Player.Name)); err != nil {
		return err
	}

	if card.Role.IsImpostor() {
		that.println("You are the IMPOSTOR. Blend in!")
	} else {
		that.printf("The word is: %s\n", card.Word.Text(that.options.Language))
	}

	if _, err = that.ask(ctx, "Press Enter to hide."); err != nil {
		return err
	}
	that.print(screenBreak)

	if _, err = that.controller.AdvanceReveal(); err != nil {
		return fmt.Errorf("failed to advance reveal: %w", err)
	}

	return nil
}

func (that *Console) discuss(ctx context.Context) error {
	step := that.options.TimerStep
	that.printf("Discussion! Commands: p pause/resume, + add %ds, - remove %ds, s start voting.\n", step, step)
	that.printTimer()

	for that.controller.Phase() == entity.PhaseDiscussion {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-that.ticks:
			state, err := that.controller.Tick()
			if err != nil {
				return fmt.Errorf("failed to tick: %w", err)
			}

			switch {
			case state.Phase == entity.PhaseVoting:
				that.println("Time is up!")
			case state.TimerRunning() && showTime(state.Timer.Remaining):
				that.printTimer()
			}
		case line, ok := <-that.lines:
			if !ok {
				return errQuit
			}

			if err := that.command(strings.TrimSpace(line)); err != nil {
				return fmt.Errorf("discussion command failed: %w", err)
			}
		}
	}

	return nil
}

func (that *Console) command(line string) error {
	var err error

	switch line {
	case "p":
		state := that.controller.State()
		if state.TimerRunning() {
			_, err = that.controller.PauseTimer()
		} else {
			_, err = that.controller.ResumeTimer()
		}
		that.printTimer()
	case "+":
		_, err = that.controller.AdjustTimer(that.options.TimerStep)
		that.printTimer()
	case "-":
		_, err = that.controller.AdjustTimer(-that.options.TimerStep)
		that.printTimer()
	case "s":
		_, err = that.controller.SkipDiscussion()
	default:
		that.println("Commands: p, +, -, s")
	}

	return err
}

func (that *Console) vote(ctx context.Context) error {
	state := that.controller.State()
	voter := state.Players[state.VotingIndex]

	that.println("Who is the impostor?")
	for _, player := range state.Players {
		that.printf("  %d) %s\n", player.Index+1, player.Name)
	}

	choice, err := that.askInt(ctx, fmt.Sprintf("%s votes for: ", voter.Name), 1, len(state.Players))
	if err != nil {
		return err
	}

	if _, err = that.controller.CastVote(voter.Index, choice-1); err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}

	return nil
}

func (that *Console) results(ctx context.Context) error {
	state := that.controller.State()

	that.println("Results:")
	for _, standing := range state.Ranking {
		that.printf("  %s: %d\n", state.Players[standing.PlayerIndex].Name, standing.Votes)
	}

	impostors := make([]string, 0, len(state.Assignment.ImpostorIndices))
	for _, index := range state.Assignment.ImpostorIndices {
		impostors = append(impostors, state.Players[index].Name)
	}

	that.printf("The word was: %s\n", state.Assignment.SecretWord.Text(that.options.Language))
	that.printf("Impostors: %s\n", strings.Join(impostors, ", "))

	switch {
	case state.Outcome.ImpostorCaught:
		that.println("The group caught an impostor!")
	case state.Outcome.Tie:
		that.println("The vote was tied. The impostors got away!")
	default:
		that.println("The impostors got away!")
	}

	for {
		answer, err := that.ask(ctx, "Play again (a), new game (n) or quit (q)? ")
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "a":
			_, err = that.controller.PlayAgain()
			return err
		case "n":
			_, err = that.controller.NewGame()
			return err
		case "q":
			return errQuit
		}
	}
}

func (that *Console) ask(ctx context.Context, prompt string) (string, error) {
	that.print(prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-that.lines:
		if !ok {
			return "", errQuit
		}
		return strings.TrimSpace(line), nil
	}
}

// askInt repeats the prompt until a number in [low, high] is entered; high <= 0
// leaves the range open.
func (that *Console) askInt(ctx context.Context, prompt string, low, high int) (int, error) {
	for {
		answer, err := that.ask(ctx, prompt)
		if err != nil {
			return 0, err
		}

		value, err := strconv.Atoi(answer)
		if err == nil && value >= low && (high <= 0 || value <= high) {
			return value, nil
		}

		that.println("Please enter a valid number.")
	}
}

func (that *Console) askYesNo(ctx context.Context, prompt string) (bool, error) {
	answer, err := that.ask(ctx, prompt)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (that *Console) printTimer() {
	state := that.controller.State()
	if state.Timer == nil {
		return
	}

	status := ""
	if !state.Timer.Running {
		status = " (paused)"
	}

	that.printf("Time left: %s%s\n", formatSeconds(state.Timer.Remaining), status)
}

func (that *Console) print(text string) {
	_, _ = io.WriteString(that.out, text)
}

func (that *Console) println(text string) {
	_, _ = fmt.Fprintln(that.out, text)
}

func (that *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(that.out, format, args...)
}

func formatSeconds(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// showTime limits the countdown output to every half minute and the last ten seconds.
func showTime(remaining int) bool {
	return remaining%30 == 0 || remaining <= 10
}

func scanLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}
