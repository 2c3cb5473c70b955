package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. IVRIT_LOG_LEVEL.
const EnvPrefix = "IVRIT"

// keys lists every setting so each can be bound to its environment variable.
var keys = []string{
	"db_path",
	"levels_dir",
	"audio_dir",
	"locale",
	"seed",
	"log.level",
	"log.format",
	"log.file",
	"game.settle_delay",
	"game.read_back_delay",
	"game.word_pause",
	"llm.provider",
	"llm.model",
	"llm.timeout",
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. It must exist when set.
	File string
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// DefaultFile is the YAML file read when no explicit file is given.
func DefaultFile() string {
	return filepath.Join(xdg.ConfigHome, "ivrit", "ivrit.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "")
	v.SetDefault("levels_dir", filepath.Join(xdg.DataHome, "ivrit", "levels"))
	v.SetDefault("audio_dir", filepath.Join(xdg.DataHome, "ivrit", "audio"))
	v.SetDefault("locale", "ru")
	v.SetDefault("seed", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", filepath.Join(xdg.StateHome, "ivrit", "ivrit.log"))
	v.SetDefault("game.settle_delay", "650ms")
	v.SetDefault("game.read_back_delay", "700ms")
	v.SetDefault("game.word_pause", "250ms")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", "60s")
}

// Load resolves the configuration. Environment variables take precedence
// over the file, which takes precedence over defaults.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	if opts.Fs != nil {
		v.SetFs(opts.Fs)
	}
	setDefaults(v)

	v.SetConfigType("yaml")
	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("ivrit")
		v.AddConfigPath(filepath.Dir(DefaultFile()))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", k, err)
		}
	}
	// IVRIT_DB predates the nested keys and stays supported.
	if err := v.BindEnv("db_path", EnvPrefix+"_DB_PATH", EnvPrefix+"_DB"); err != nil {
		return nil, fmt.Errorf("bind env for db_path: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
