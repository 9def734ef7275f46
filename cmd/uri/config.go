package main

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"braces.dev/errtrace"
	"github.com/BurntSushi/toml"

	"github.com/ghettovoice/gouri/internal/errorutil"
	"github.com/ghettovoice/gouri/internal/log"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type config struct {
	Format       string
	LogFormat    log.Format
	LogLevel     slog.Level
	RawQuery     bool
	ShowPassword bool
	IgnorePort   bool
	DefaultPorts map[string]int
}

func defaultConfig() config {
	return config{
		Format:    formatText,
		LogFormat: log.FormatConsole,
		LogLevel:  slog.LevelWarn,
	}
}

type fileConfig struct {
	Format       string         `toml:"format"`
	LogFormat    string         `toml:"log_format"`
	LogLevel     string         `toml:"log_level"`
	RawQuery     bool           `toml:"raw_query"`
	ShowPassword bool           `toml:"show_password"`
	IgnorePort   bool           `toml:"ignore_port"`
	DefaultPorts map[string]int `toml:"default_ports"`
}

// loadConfig overlays values defined in the TOML file onto cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, errtrace.Wrap(fmt.Errorf("load config: %w", err))
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return cfg, errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown config keys in %s: %s", path, strings.Join(keys, ", ")))
	}

	var errs []error
	if meta.IsDefined("format") {
		cfg.Format = strings.TrimSpace(raw.Format)
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = log.Format(strings.TrimSpace(raw.LogFormat))
	}
	if meta.IsDefined("log_level") {
		lvl, err := log.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			errs = append(errs, fmt.Errorf("log_level: %w", err))
		} else {
			cfg.LogLevel = lvl
		}
	}
	if meta.IsDefined("raw_query") {
		cfg.RawQuery = raw.RawQuery
	}
	if meta.IsDefined("show_password") {
		cfg.ShowPassword = raw.ShowPassword
	}
	if meta.IsDefined("ignore_port") {
		cfg.IgnorePort = raw.IgnorePort
	}
	if meta.IsDefined("default_ports") {
		cfg.DefaultPorts = maps.Clone(raw.DefaultPorts)
	}

	if err := errorutil.JoinPrefix("invalid config "+path+":", errs...); err != nil {
		return cfg, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	return cfg, nil
}

func (cfg config) validate() error {
	var errs []error
	switch cfg.Format {
	case formatText, formatJSON, formatYAML:
	default:
		errs = append(errs, errorutil.Errorf("format: unknown output format %q", cfg.Format))
	}
	switch cfg.LogFormat {
	case log.FormatConsole, log.FormatDev, log.FormatJSON, log.FormatNone:
	default:
		errs = append(errs, errorutil.Errorf("log_format: unknown log format %q", cfg.LogFormat))
	}
	for _, scheme := range slices.Sorted(maps.Keys(cfg.DefaultPorts)) {
		if port := cfg.DefaultPorts[scheme]; port < 1 || port > 65535 {
			errs = append(errs, errorutil.Errorf("default_ports.%s: port %d is outside of [1, 65535]", scheme, port))
		}
	}

	if err := errorutil.JoinPrefix("invalid configuration:", errs...); err != nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	return nil
}
