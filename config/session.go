package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Session is the per-recording run configuration, loaded once from the
// JSON file named by --config.
type Session struct {
	SessionID        string `json:"session_id" mapstructure:"session_id" validate:"required"`
	InputWAVPath     string `json:"input_wav_path" mapstructure:"input_wav_path" validate:"required"`
	OutputDir        string `json:"output_dir" mapstructure:"output_dir" validate:"required"`
	ASRModel         string `json:"asr_model" mapstructure:"asr_model" validate:"required"`
	DiarizationModel string `json:"diarization_model" mapstructure:"diarization_model" validate:"required"`
	Language         string `json:"language" mapstructure:"language"`
	SaveJSON         bool   `json:"save_json" mapstructure:"save_json"`
	KeepWAV          bool   `json:"keep_wav" mapstructure:"keep_wav"`
}

// LoadSession reads a session config file, applies defaults, and
// validates required keys.
func LoadSession(path string) (*Session, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("language", "auto")
	v.SetDefault("save_json", false)
	v.SetDefault("keep_wav", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read session config %s: %w", path, err)
	}

	var cfg Session
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal session config %s: %w", path, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
