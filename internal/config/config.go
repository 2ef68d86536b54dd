// Package config loads vaspio settings from an optional YAML file,
// VASPIO_* environment variables and built-in defaults, in that order of
// precedence from last to first.
package config

import (
	"vaspio/internal/plot"
)

// EnvPrefix is prepended to every environment override, e.g. VASPIO_PLOT_WIDTH
const EnvPrefix = "VASPIO"

// Config is the root configuration
type Config struct {
	Encoding string        `mapstructure:"encoding" yaml:"encoding" validate:"charset"`
	Log      LogConfig     `mapstructure:"log" yaml:"log"`
	Plot     PlotConfig    `mapstructure:"plot" yaml:"plot"`
	Theme    string        `mapstructure:"theme" yaml:"theme" validate:"theme"`
	Store    StoreConfig   `mapstructure:"store" yaml:"store"`
	Browser  BrowserConfig `mapstructure:"browser" yaml:"browser"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file" yaml:"file"`
}

// PlotConfig controls figure size and how figures are shown
type PlotConfig struct {
	Width     int     `mapstructure:"width" yaml:"width" validate:"min=64,max=8192"`
	Height    int     `mapstructure:"height" yaml:"height" validate:"min=64,max=8192"`
	LineWidth float64 `mapstructure:"line_width" yaml:"line_width" validate:"gt=0,lte=20"`
	OutputDir string  `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	Protocol  string  `mapstructure:"protocol" yaml:"protocol" validate:"oneof=auto kitty iterm sixel"`
}

// StoreConfig locates the export database
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

// BrowserConfig controls the interactive browser. Rows is the length of
// the ranking table; 0 shows every step.
type BrowserConfig struct {
	Rows int `mapstructure:"rows" yaml:"rows" validate:"min=0"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	opts := plot.DefaultOptions()
	return &Config{
		Encoding: "utf-8",
		Theme:    "paper",
		Log: LogConfig{
			Level: "warn",
		},
		Plot: PlotConfig{
			Width:     opts.Width,
			Height:    opts.Height,
			LineWidth: opts.LineWidth,
			OutputDir: opts.OutputDir,
			Protocol:  opts.Protocol,
		},
		Store: StoreConfig{
			Path: "vaspio.db",
		},
		Browser: BrowserConfig{
			Rows: 20,
		},
	}
}

// Options converts the plot settings for plot.NewPlotter
func (c PlotConfig) Options() plot.Options {
	opts := plot.DefaultOptions()
	opts.Width = c.Width
	opts.Height = c.Height
	opts.LineWidth = c.LineWidth
	opts.OutputDir = c.OutputDir
	opts.Protocol = c.Protocol
	return opts
}
