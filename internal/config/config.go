package config

import (
	"encoding/json"
	"fmt"
)

// Capture backends
const (
	CaptureScreen  = "screen"
	CaptureBrowser = "browser"
	CaptureNone    = "none"
)

// Config represents the tclog configuration
type Config struct {
	// Root directory for journals replayed without an explicit directory
	Directory string `json:"directory" mapstructure:"directory" validate:"required"`

	// Open the document with the OS handler after saving
	OpenAfterSave bool `json:"open_after_save" mapstructure:"open_after_save"`

	// Screenshot capture
	Capture CaptureConfig `json:"capture" mapstructure:"capture"`

	// Diagnostic logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Span export
	Tracing TracingConfig `json:"tracing" mapstructure:"tracing"`
}

// CaptureConfig selects and tunes the screenshot backend
type CaptureConfig struct {
	Backend string `json:"backend" mapstructure:"backend" validate:"oneof=screen browser none"`
	Display int    `json:"display" mapstructure:"display" validate:"gte=0"`
	// Browser backend only: capture the full scrollable page
	FullPage bool `json:"full_page" mapstructure:"full_page"`
	// Browser backend only: page to open, Chrome binary and headless mode
	URL        string `json:"url" mapstructure:"url" validate:"omitempty,url"`
	ChromePath string `json:"chrome_path" mapstructure:"chrome_path"`
	Headless   bool   `json:"headless" mapstructure:"headless"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// TracingConfig selects where testlog spans are exported
type TracingConfig struct {
	Exporter string `json:"exporter" mapstructure:"exporter" validate:"oneof=none stdout otlp"`
	// stdout exporter destination; stderr when empty
	File     string `json:"file" mapstructure:"file"`
	Endpoint string `json:"endpoint" mapstructure:"endpoint" validate:"required_if=Exporter otlp"`
	Insecure bool   `json:"insecure" mapstructure:"insecure"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Directory: "tclog-results",
		Capture: CaptureConfig{
			Backend:  CaptureScreen,
			Headless: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
		Tracing: TracingConfig{
			Exporter: "none",
		},
	}
}

// String returns the config as indented JSON
func (c *Config) String() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("<invalid config: %v>", err)
	}
	return string(data)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	return NewValidator().ValidateConfig(c)
}
