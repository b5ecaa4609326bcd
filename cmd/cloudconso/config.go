package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/cloudconso/internal/carbon"
	"github.com/rshade/cloudconso/internal/units"
)

// Environment variables read at startup. Command-line flags take precedence.
const (
	envLogLevel   = "CLOUDCONSO_LOG_LEVEL"
	envOutput     = "CLOUDCONSO_OUTPUT"
	envDecimals   = "CLOUDCONSO_DECIMALS"
	envComponents = "CLOUDCONSO_COMPONENTS"
)

// outputFormat selects how results are printed.
type outputFormat string

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
)

// cliConfig is the runtime configuration shared by all commands.
type cliConfig struct {
	LogLevel   zerolog.Level
	Output     outputFormat
	Decimals   int
	Components []carbon.Component
}

func defaultConfig() cliConfig {
	return cliConfig{
		LogLevel:   zerolog.WarnLevel,
		Output:     outputTable,
		Decimals:   units.DefaultDecimals,
		Components: carbon.AllComponents,
	}
}

// parseEnvConfig reads the configuration from environment variables.
// Invalid values are logged and replaced by their default; an unknown
// component is an error.
func parseEnvConfig(logger zerolog.Logger) (cliConfig, error) {
	config := defaultConfig()

	if level := os.Getenv(envLogLevel); level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil {
			config.LogLevel = parsed
		} else {
			logger.Warn().Str("value", level).Msg("invalid " + envLogLevel + ", using default")
		}
	}

	if output := os.Getenv(envOutput); output != "" {
		if parsed, err := parseOutputFormat(output); err == nil {
			config.Output = parsed
		} else {
			logger.Warn().Str("value", output).Msg("invalid " + envOutput + ", using default")
		}
	}

	if decimals := os.Getenv(envDecimals); decimals != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(decimals)); err == nil && parsed >= 0 {
			config.Decimals = parsed
		} else {
			logger.Warn().Str("value", decimals).Msg("invalid " + envDecimals + ", using default")
		}
	}

	if components := os.Getenv(envComponents); components != "" {
		parsed, err := parseComponents(strings.Split(components, ","))
		if err != nil {
			return cliConfig{}, fmt.Errorf("%s: %w", envComponents, err)
		}
		config.Components = parsed
	}

	logger.Debug().
		Str("log_level", config.LogLevel.String()).
		Str("output", string(config.Output)).
		Int("decimals", config.Decimals).
		Int("components", len(config.Components)).
		Msg("configuration applied")

	return config, nil
}

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case outputTable, outputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", s)
	}
}

// parseComponents resolves component names. "all" and "base" select the full
// and the four-component sets.
func parseComponents(names []string) ([]carbon.Component, error) {
	var out []carbon.Component
	seen := make(map[carbon.Component]bool)
	add := func(comps ...carbon.Component) {
		for _, c := range comps {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "":
			continue
		case "all":
			add(carbon.AllComponents...)
		case "base":
			add(carbon.BaseComponents...)
		default:
			if !isKnownComponent(carbon.Component(name)) {
				return nil, fmt.Errorf("unknown component %q", name)
			}
			add(carbon.Component(name))
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no components selected")
	}
	return out, nil
}

func isKnownComponent(c carbon.Component) bool {
	for _, known := range carbon.AllComponents {
		if c == known {
			return true
		}
	}
	return false
}

// newLogger builds the human-readable CLI logger.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
