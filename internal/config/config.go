package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel  string `yaml:"log-level" env:"IMPOZTOR_LOG_LEVEL" env-default:"info"`
	HTTPPort  string `yaml:"http-port" env:"IMPOZTOR_HTTP_PORT" env-default:"9090"`
	WordsPath string `yaml:"words-path" env:"IMPOZTOR_WORDS_PATH" env-default:""`
	Redis     Redis  `yaml:"redis"`
	Game      Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"IMPOZTOR_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"IMPOZTOR_REDIS_PORT" env-default:"6379"`
}

// Game settings. Zero values in the file fall back to defaults, so a negative
// max-players disables the player cap. With client-clock the server does not tick
// discussions itself and the front-end drives the timer endpoint.
type Game struct {
	MinPlayers        int           `yaml:"min-players" env:"IMPOZTOR_GAME_MIN_PLAYERS" env-default:"3"`
	MaxPlayers        int           `yaml:"max-players" env:"IMPOZTOR_GAME_MAX_PLAYERS" env-default:"15"`
	DiscussionSeconds int           `yaml:"discussion-seconds" env:"IMPOZTOR_GAME_DISCUSSION_SECONDS" env-default:"180"`
	TimerStep         int           `yaml:"timer-step" env:"IMPOZTOR_GAME_TIMER_STEP" env-default:"30"`
	SessionTTL        time.Duration `yaml:"session-ttl" env:"IMPOZTOR_GAME_SESSION_TTL" env-default:"24h"`
	ClientClock       bool          `yaml:"client-clock" env:"IMPOZTOR_GAME_CLIENT_CLOCK" env-default:"false"`
}

// Load reads the YAML file at path with environment overrides. A missing file is not
// an error: the configuration then comes from the environment and defaults alone.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unable to stat config file: %w", err)
		}

		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from env: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Config) Validate() error {
	if that.Game.MinPlayers < 3 {
		return fmt.Errorf("%w: game.min-players must be at least 3, got %d", ErrInvalidConfig, that.Game.MinPlayers)
	}

	if that.Game.MaxPlayers > 0 && that.Game.MaxPlayers < that.Game.MinPlayers {
		return fmt.Errorf("%w: game.max-players %d is below game.min-players %d", ErrInvalidConfig, that.Game.MaxPlayers, that.Game.MinPlayers)
	}

	if that.Game.DiscussionSeconds <= 0 {
		return fmt.Errorf("%w: game.discussion-seconds must be positive", ErrInvalidConfig)
	}

	if that.Game.TimerStep <= 0 {
		return fmt.Errorf("%w: game.timer-step must be positive", ErrInvalidConfig)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
