// Package config loads ivrit's settings from defaults, an optional YAML file
// and IVRIT_* environment variables.
package config

import (
	"time"
)

// Config is the effective application configuration.
type Config struct {
	// DBPath is the SQLite file. Empty selects the platform data directory.
	DBPath    string `mapstructure:"db_path"`
	LevelsDir string `mapstructure:"levels_dir" validate:"required"`
	AudioDir  string `mapstructure:"audio_dir"`
	Locale    string `mapstructure:"locale" validate:"required,oneof=ru en fr es"`
	// Seed fixes the shuffle source. Zero seeds from the clock.
	Seed uint64 `mapstructure:"seed"`

	Log  LogConfig  `mapstructure:"log" validate:"required"`
	Game GameConfig `mapstructure:"game" validate:"required"`
	LLM  LLMConfig  `mapstructure:"llm"`
}

// LogConfig selects log level, format and destination.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	// File receives log output; "-" means stderr.
	File string `mapstructure:"file" validate:"required"`
}

// GameConfig tunes round pacing.
type GameConfig struct {
	SettleDelay   time.Duration `mapstructure:"settle_delay" validate:"min=0s,max=10s"`
	ReadBackDelay time.Duration `mapstructure:"read_back_delay" validate:"min=0s,max=10s"`
	WordPause     time.Duration `mapstructure:"word_pause" validate:"min=0s,max=10s"`
}

// LLMConfig overrides the provider picked from the environment.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=anthropic openai gemini openrouter mock"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"min=0s"`
}
