package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsenselab/meetscribe/merge"
)

func freezeNow(t *testing.T) time.Time {
	t.Helper()
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	orig := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })
	return fixed
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59.6, "01:00"},
		{75.4, "01:15"},
		{-3.0, "00:00"},
		{3600, "60:00"},
		// Half-second ties go to the even second.
		{0.5, "00:00"},
		{1.5, "00:02"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTimestamp(tc.seconds), "seconds=%v", tc.seconds)
	}
}

func TestExport_WritesMarkdownTranscript(t *testing.T) {
	freezeNow(t)
	dir := t.TempDir()

	paths, err := Export(Params{
		OutputDir:        dir,
		SessionID:        "sess-42",
		InputWAVPath:     filepath.Join(dir, "standup.wav"),
		ASRModel:         "whisper-large-v3-turbo",
		DiarizationModel: "pyannote/speaker-diarization-3.1",
		Language:         "en",
		Duration:         90.25,
		Segments: []merge.Segment{
			{Start: 0.2, End: 2.0, Text: "hello", Speaker: "Speaker 1"},
			{Start: 75.4, End: 80.0, Text: "all good", Speaker: "Speaker 2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "standup.md"), paths.Transcript)
	assert.Empty(t, paths.JSON)

	data, err := os.ReadFile(paths.Transcript)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "# Meeting Transcript\n"))
	assert.Contains(t, content, "- Session ID: `sess-42`\n")
	assert.Contains(t, content, "- Created At: `2026-03-14T09:26:53`\n")
	assert.Contains(t, content, "- Duration: `90.2s`\n")
	assert.Contains(t, content, "- ASR Model: `whisper-large-v3-turbo`\n")
	assert.Contains(t, content, "- Language: `en`\n")
	assert.Contains(t, content, "## Transcript\n")
	assert.Contains(t, content, "[00:00] Speaker 1: hello\n")
	assert.Contains(t, content, "[01:15] Speaker 2: all good\n")
	assert.NotContains(t, content, "## Raw Text")
}

func TestExport_RawTextFallback(t *testing.T) {
	freezeNow(t)
	dir := t.TempDir()

	paths, err := Export(Params{
		OutputDir:    dir,
		SessionID:    "sess-1",
		InputWAVPath: "/recordings/meeting.wav",
		FullText:     "  the whole transcript in one blob  ",
		Segments: []merge.Segment{
			{Start: 0, End: 1, Text: "   ", Speaker: "Speaker 1"},
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(paths.Transcript)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "## Raw Text\n\nthe whole transcript in one blob\n")
}

func TestExport_JSONSidecar(t *testing.T) {
	fixed := freezeNow(t)
	dir := t.TempDir()

	paths, err := Export(Params{
		OutputDir:        dir,
		SessionID:        "sess-7",
		InputWAVPath:     "/recordings/retro.wav",
		ASRModel:         "whisper-large-v3-turbo",
		DiarizationModel: "pyannote/speaker-diarization-3.1",
		Language:         "auto",
		Duration:         12.5,
		SaveJSON:         true,
		Segments: []merge.Segment{
			{Start: 0, End: 2, Text: "hi", Speaker: "Speaker 1"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "retro.json"), paths.JSON)

	data, err := os.ReadFile(paths.JSON)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "sess-7", payload["session_id"])
	assert.Equal(t, fixed.Format("2006-01-02T15:04:05"), payload["created_at"])
	assert.Equal(t, 12.5, payload["duration_seconds"])
	assert.Equal(t, "whisper-large-v3-turbo", payload["asr_model"])
	assert.Equal(t, "pyannote/speaker-diarization-3.1", payload["diarization_model"])
	assert.Equal(t, "auto", payload["language"])

	segments, ok := payload["segments"].([]any)
	require.True(t, ok)
	require.Len(t, segments, 1)
	seg := segments[0].(map[string]any)
	assert.Equal(t, "hi", seg["text"])
	assert.Equal(t, "Speaker 1", seg["speaker"])
}

func TestExport_CreatesOutputDirAndLeavesNoTempFiles(t *testing.T) {
	freezeNow(t)
	dir := filepath.Join(t.TempDir(), "nested", "out")

	_, err := Export(Params{
		OutputDir:    dir,
		SessionID:    "sess-9",
		InputWAVPath: "/recordings/sync.wav",
		SaveJSON:     true,
		Segments: []merge.Segment{
			{Start: 0, End: 1, Text: "hi", Speaker: "Speaker 1"},
		},
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
	assert.Len(t, entries, 2)
}
