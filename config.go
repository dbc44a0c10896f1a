package main

import (
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds the command settings. Environment variables provide the
// defaults, flags override them.
type Config struct {
	Filter     []string `env:"TRUECALLER_FILTER" env-separator:","`
	Start      int      `env:"TRUECALLER_START" env-default:"0"`
	Separators string   `env:"TRUECALLER_SEPARATORS" env-default:"\\"`
	Format     string   `env:"TRUECALLER_FORMAT" env-default:"auto"`
	LogLevel   string   `env:"TRUECALLER_LOG_LEVEL" env-default:"info"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, errors.Wrap(err, "reading environment")
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag set on the command line.
func (cfg *Config) applyFlags(flags *pflag.FlagSet) error {
	var err error
	if flags.Changed("filter") {
		if cfg.Filter, err = flags.GetStringSlice("filter"); err != nil {
			return err
		}
	}
	if flags.Changed("start") {
		if cfg.Start, err = flags.GetInt("start"); err != nil {
			return err
		}
	}
	if flags.Changed("separators") {
		if cfg.Separators, err = flags.GetString("separators"); err != nil {
			return err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return err
		}
	}
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = flags.GetString("log-level"); err != nil {
			return err
		}
	}
	return cfg.validate()
}

func (cfg *Config) validate() error {
	switch cfg.Format {
	case FormatAuto, FormatJSON, FormatText:
	default:
		return errors.Errorf("unknown format %q", cfg.Format)
	}
	if cfg.Start < 0 {
		return errors.Errorf("start must not be negative, got %d", cfg.Start)
	}
	return nil
}

// traceFormat resolves FormatAuto from the trace file name.
func (cfg *Config) traceFormat(path string) string {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	if strings.HasSuffix(strings.TrimSuffix(path, ".gz"), ".json") {
		return FormatJSON
	}
	return FormatText
}
