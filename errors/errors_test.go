package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeTimeout, "transcription did not finish")
	assert.Equal(t, "ASR_TIMEOUT: transcription did not finish", err.Error())

	wrapped := err.WithCause(errors.New("deadline exceeded"))
	assert.Contains(t, wrapped.Error(), "cause: deadline exceeded")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Worker(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Message)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"app error", InputAudioNotFound("/tmp/a.wav"), CodeInputAudioNotFound},
		{"wrapped app error", fmt.Errorf("stage failed: %w", TokenMissing()), CodeTokenMissing},
		{"plain error", errors.New("boom"), CodeWorkerException},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CodeOf(tc.err))
		})
	}
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "No Hugging Face token found in worker environment.", MessageOf(TokenMissing()))
	assert.Equal(t, "boom", MessageOf(errors.New("boom")))
}
