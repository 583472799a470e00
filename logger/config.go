package logger

import "fmt"

// Config contains logging configuration.
type Config struct {
	Level      string `json:"level" mapstructure:"level"`
	Format     string `json:"format" mapstructure:"format"`
	Output     string `json:"output" mapstructure:"output"`
	File       string `json:"file" mapstructure:"file"`
	NoColor    bool   `json:"no_color" mapstructure:"no_color"`
	Timestamp  bool   `json:"timestamp" mapstructure:"timestamp"`
	MaxSize    int    `json:"max_size" mapstructure:"max_size"`       // megabytes
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"` // number of backups
	MaxAge     int    `json:"max_age" mapstructure:"max_age"`         // days
	Compress   bool   `json:"compress" mapstructure:"compress"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAge == 0 {
		c.MaxAge = 28
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if !contains(validLevels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	validOutputs := []string{"stderr", "file"}
	if !contains(validOutputs, c.Output) {
		return fmt.Errorf("logging.output must be one of %v (got: %s)", validOutputs, c.Output)
	}
	if c.Output == "file" && c.File == "" {
		return fmt.Errorf("logging.file is required when logging.output is \"file\"")
	}
	return nil
}

func contains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
