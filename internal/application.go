package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/impoztor-backend/internal/clock"
	"github.com/rocketscienceinc/impoztor-backend/internal/config"
	"github.com/rocketscienceinc/impoztor-backend/internal/console"
	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
	"github.com/rocketscienceinc/impoztor-backend/internal/impostor"
	"github.com/rocketscienceinc/impoztor-backend/internal/random"
	"github.com/rocketscienceinc/impoztor-backend/internal/repository"
	"github.com/rocketscienceinc/impoztor-backend/internal/repository/storage"
	"github.com/rocketscienceinc/impoztor-backend/internal/usecase"
	"github.com/rocketscienceinc/impoztor-backend/internal/wordpack"
	"github.com/rocketscienceinc/impoztor-backend/transport/rest"
	"github.com/rocketscienceinc/impoztor-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the HTTP and WebSocket service until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	pack := loadWordPack(log, conf)

	hub := websocket.NewHub(logger)
	sessionRepo := repository.NewSessionRepository(redisStorage.Connection, conf.Game.SessionTTL)
	gameManager := usecase.NewGameManager(logger, sessionRepo, hub, pack, settingsOf(conf))

	router := rest.NewRouter(logger, gameManager)
	router.Handler(http.MethodGet, "/ws", websocket.NewHandler(logger, hub, gameManager))

	server := rest.NewServer(logger, conf.HTTPPort, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return server.Start(groupCtx)
	})

	if !conf.Game.ClientClock {
		driver := clock.NewDriver(logger, gameManager, time.Second)
		group.Go(func() error {
			return driver.Run(groupCtx)
		})
	}

	if err = group.Wait(); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// RunConsole plays the game in the terminal on in and out.
func RunConsole(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pack := loadWordPack(logger, conf)
	controller := impostor.NewGameController(settingsOf(conf), pack, random.NewDefault())

	game := console.New(logger, in, out, controller, pack, console.Options{
		Language:   entity.DefaultLanguage,
		TimerStep:  conf.Game.TimerStep,
		MinPlayers: conf.Game.MinPlayers,
		MaxPlayers: conf.Game.MaxPlayers,
	})

	if err := game.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("console game failed: %w", err)
	}

	return nil
}

func loadWordPack(logger *slog.Logger, conf *config.Config) entity.WordPack {
	pack, err := wordpack.LoadOrDefault(conf.WordsPath)
	if err != nil {
		logger.Error("failed to load word pack, using the built-in one", "path", conf.WordsPath, "error", err)
	}

	return pack
}

func settingsOf(conf *config.Config) impostor.Settings {
	return impostor.Settings{
		MinPlayers:        conf.Game.MinPlayers,
		MaxPlayers:        conf.Game.MaxPlayers,
		DiscussionSeconds: conf.Game.DiscussionSeconds,
	}
}
