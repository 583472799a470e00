package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/skillsenselab/meetscribe/util"
)

// Environment variable names read by LoadRuntime.
const (
	EnvHFToken      = "HF_TOKEN"
	EnvASRTimeout   = "MEETSCRIBE_ASR_TIMEOUT_SECONDS"
	EnvASRBaseURL   = "MEETSCRIBE_ASR_URL"
	EnvDiarBaseURL  = "MEETSCRIBE_DIARIZATION_URL"
	EnvDotenvSkip   = "MEETSCRIBE_SKIP_DOTENV"
)

// DefaultASRTimeout bounds the transcription stage when no override is set.
const DefaultASRTimeout = 900 * time.Second

// Runtime is the environment-sourced configuration for a run. It is read
// once at process start and threaded explicitly into the orchestrator.
type Runtime struct {
	// HFToken is the diarization provider credential. Required for
	// session runs; its absence is a pre-flight failure.
	HFToken string
	// ASRTimeout is the wall-clock deadline for the transcription stage.
	ASRTimeout time.Duration
	// ASRBaseURL overrides the transcription sidecar endpoint.
	ASRBaseURL string
	// DiarizationBaseURL overrides the diarization sidecar endpoint.
	DiarizationBaseURL string
}

// LoadRuntime reads runtime configuration from the process environment.
// A .env file in the working directory is honored when present. Missing
// or invalid timeout values fall back to DefaultASRTimeout.
func LoadRuntime() Runtime {
	if os.Getenv(EnvDotenvSkip) == "" {
		_ = godotenv.Load()
	}
	return Runtime{
		HFToken:            strings.TrimSpace(os.Getenv(EnvHFToken)),
		ASRTimeout:         util.ParseSeconds(os.Getenv(EnvASRTimeout), DefaultASRTimeout),
		ASRBaseURL:         os.Getenv(EnvASRBaseURL),
		DiarizationBaseURL: os.Getenv(EnvDiarBaseURL),
	}
}
