// Package export renders the final transcript artifacts: a Markdown
// document and an optional structured JSON sidecar.
//
// Both files are written atomically (temporary sibling plus rename), so a
// crash mid-write never leaves a truncated artifact at the canonical
// path.
package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillsenselab/meetscribe/merge"
	"github.com/skillsenselab/meetscribe/util"
)

// timestamps in metadata and the JSON sidecar, second precision
const createdAtLayout = "2006-01-02T15:04:05"

// now is swapped in tests for deterministic metadata.
var now = time.Now

// Params carries everything the exporter needs for one session.
type Params struct {
	OutputDir        string
	SessionID        string
	InputWAVPath     string
	ASRModel         string
	DiarizationModel string
	Language         string
	Segments         []merge.Segment
	// FullText is the raw transcript text, used as a fallback body when
	// no segment lines render.
	FullText string
	// Duration is the recording length in seconds.
	Duration float64
	SaveJSON bool
}

// Paths lists the artifacts produced by Export. JSON is empty unless a
// sidecar was written.
type Paths struct {
	Transcript string
	WAV        string
	JSON       string
}

// Export writes the transcript artifacts into OutputDir, creating it if
// absent. Artifact names derive from the input WAV stem:
// <stem>.md and, when requested, <stem>.json.
func Export(p Params) (Paths, error) {
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("export: create output dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(p.InputWAVPath), filepath.Ext(p.InputWAVPath))
	transcriptPath := filepath.Join(p.OutputDir, stem+".md")
	createdAt := now().Format(createdAtLayout)

	markdown := renderMarkdown(p, createdAt)
	if err := util.WriteFileAtomic(transcriptPath, []byte(markdown), 0o644); err != nil {
		return Paths{}, fmt.Errorf("export: write transcript: %w", err)
	}

	paths := Paths{
		Transcript: transcriptPath,
		WAV:        p.InputWAVPath,
	}

	if p.SaveJSON {
		jsonPath := filepath.Join(p.OutputDir, stem+".json")
		payload := sidecar{
			SessionID:        p.SessionID,
			CreatedAt:        createdAt,
			DurationSeconds:  p.Duration,
			ASRModel:         p.ASRModel,
			DiarizationModel: p.DiarizationModel,
			Language:         p.Language,
			Segments:         p.Segments,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return Paths{}, fmt.Errorf("export: marshal sidecar: %w", err)
		}
		if err := util.WriteFileAtomic(jsonPath, data, 0o644); err != nil {
			return Paths{}, fmt.Errorf("export: write sidecar: %w", err)
		}
		paths.JSON = jsonPath
	}

	return paths, nil
}

// FormatTimestamp renders seconds as zero-padded MM:SS. Negative values
// clamp to 00:00 and half-second ties round to the even second. There is
// no hour component; sessions beyond 99 minutes roll the minute field
// past two digits.
func FormatTimestamp(seconds float64) string {
	total := int(math.RoundToEven(math.Max(0, seconds)))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func renderMarkdown(p Params, createdAt string) string {
	var b strings.Builder
	b.WriteString("# Meeting Transcript\n\n")
	fmt.Fprintf(&b, "- Session ID: `%s`\n", p.SessionID)
	fmt.Fprintf(&b, "- Created At: `%s`\n", createdAt)
	fmt.Fprintf(&b, "- Duration: `%.1fs`\n", p.Duration)
	fmt.Fprintf(&b, "- ASR Model: `%s`\n", p.ASRModel)
	fmt.Fprintf(&b, "- Diarization Model: `%s`\n", p.DiarizationModel)
	fmt.Fprintf(&b, "- Language: `%s`\n", p.Language)
	b.WriteString("\n## Transcript\n\n")

	var lines int
	for _, seg := range p.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		speaker := seg.Speaker
		if speaker == "" {
			speaker = merge.UnknownSpeaker
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", FormatTimestamp(seg.Start), speaker, text)
		lines++
	}

	// A successful run must never produce a body-less transcript.
	if lines == 0 && strings.TrimSpace(p.FullText) != "" {
		b.WriteString("\n## Raw Text\n\n")
		b.WriteString(strings.TrimSpace(p.FullText))
		b.WriteString("\n")
	}

	return b.String()
}

// sidecar is the JSON artifact shape.
type sidecar struct {
	SessionID        string          `json:"session_id"`
	CreatedAt        string          `json:"created_at"`
	DurationSeconds  float64         `json:"duration_seconds"`
	ASRModel         string          `json:"asr_model"`
	DiarizationModel string          `json:"diarization_model"`
	Language         string          `json:"language"`
	Segments         []merge.Segment `json:"segments"`
}
