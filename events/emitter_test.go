package events

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/skillsenselab/meetscribe/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestEmitter_ProgressShape(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	e.Progress("asr", "Transcribing with MLX model")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, map[string]any{
		"type":    "progress",
		"stage":   "asr",
		"message": "Transcribing with MLX model",
	}, lines[0])
}

func TestEmitter_ResultOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	e.Result(Result{Success: false, ErrorCode: apperrors.CodeTokenMissing, Message: "no token"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "result", lines[0]["type"])
	assert.Equal(t, false, lines[0]["success"])
	assert.Equal(t, "HF_TOKEN_MISSING", lines[0]["error_code"])
	assert.NotContains(t, lines[0], "transcript_path")
	assert.NotContains(t, lines[0], "json_path")
}

func TestEmitter_SuccessResultCarriesPaths(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	e.Result(Result{
		Success:        true,
		Message:        "Processing complete",
		TranscriptPath: "/out/meeting.md",
		WAVPath:        "/in/meeting.wav",
		JSONPath:       "/out/meeting.json",
	})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "/out/meeting.md", lines[0]["transcript_path"])
	assert.Equal(t, "/in/meeting.wav", lines[0]["wav_path"])
	assert.Equal(t, "/out/meeting.json", lines[0]["json_path"])
	assert.NotContains(t, lines[0], "error_code")
}

func TestEmitter_ExactlyOneResult(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	e.Result(Result{Success: true, Message: "first"})
	e.Result(Result{Success: false, Message: "second"})
	e.Progress("export", "late progress must be dropped")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "first", lines[0]["message"])
}

func TestEmitter_ProgressBeforeResultOrder(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	e.Progress("mix", "Checking for microphone track")
	e.Progress("asr", "Transcribing")
	e.Result(Result{Success: true, Message: "done"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "progress", lines[0]["type"])
	assert.Equal(t, "mix", lines[0]["stage"])
	assert.Equal(t, "result", lines[2]["type"])
}
