// Package merge assigns speaker labels to transcribed segments by
// reconciling them with diarization turns.
package merge

import (
	"fmt"
	"math"
	"strings"

	"github.com/skillsenselab/meetscribe/diarization"
	"github.com/skillsenselab/meetscribe/transcription"
)

// UnknownSpeaker labels segments that cannot be attributed to a turn.
const UnknownSpeaker = "Speaker ?"

// Segment is a transcribed segment with a normalized speaker label.
// Labels are "Speaker 1".."Speaker N" in order of first appearance, or
// UnknownSpeaker. Immutable once created.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker"`
}

// AssignSpeakers maps every non-empty transcribed segment to a speaker.
//
// For each segment the turn with the greatest positive time overlap wins;
// ties keep the first turn encountered. Segments overlapping no turn fall
// back to the turn nearest the segment midpoint (distance to the closer
// of the turn's endpoints, first-encountered wins on ties). Raw provider
// labels are then normalized to "Speaker N" in order of first appearance
// across the segment sequence. With no turns at all, every segment gets
// UnknownSpeaker.
//
// Segments whose trimmed text is empty are dropped. A segment end before
// its start is clamped up to the start.
func AssignSpeakers(segments []transcription.Segment, turns []diarization.Turn) []Segment {
	if len(turns) == 0 {
		out := make([]Segment, 0, len(segments))
		for _, seg := range segments {
			text := strings.TrimSpace(seg.Text)
			if text == "" {
				continue
			}
			out = append(out, Segment{
				Start:   seg.Start,
				End:     seg.End,
				Text:    text,
				Speaker: UnknownSpeaker,
			})
		}
		return out
	}

	type rawSegment struct {
		Segment
		rawSpeaker string
	}

	labeled := make([]rawSegment, 0, len(segments))
	var labelOrder []string
	seen := make(map[string]bool)

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		start := seg.Start
		end := seg.End
		if end < start {
			end = start
		}

		var bestSpeaker string
		var bestOverlap float64
		for _, turn := range turns {
			if o := overlap(start, end, turn.Start, turn.End); o > bestOverlap {
				bestOverlap = o
				bestSpeaker = turn.Speaker
			}
		}

		if bestSpeaker == "" {
			bestSpeaker = nearestSpeaker((start+end)/2, turns)
		}

		if !seen[bestSpeaker] {
			seen[bestSpeaker] = true
			labelOrder = append(labelOrder, bestSpeaker)
		}

		labeled = append(labeled, rawSegment{
			Segment:    Segment{Start: start, End: end, Text: text},
			rawSpeaker: bestSpeaker,
		})
	}

	speakerMap := make(map[string]string, len(labelOrder))
	for i, raw := range labelOrder {
		speakerMap[raw] = fmt.Sprintf("Speaker %d", i+1)
	}

	out := make([]Segment, len(labeled))
	for i, seg := range labeled {
		speaker, ok := speakerMap[seg.rawSpeaker]
		if !ok {
			speaker = UnknownSpeaker
		}
		seg.Segment.Speaker = speaker
		out[i] = seg.Segment
	}
	return out
}

// overlap returns the shared duration of two intervals, zero if disjoint.
func overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	return math.Max(0, math.Min(aEnd, bEnd)-math.Max(aStart, bStart))
}

// nearestSpeaker returns the speaker of the turn whose closer endpoint is
// nearest to the midpoint. First-encountered wins on ties.
func nearestSpeaker(midpoint float64, turns []diarization.Turn) string {
	best := turns[0].Speaker
	bestDistance := math.Inf(1)
	for _, turn := range turns {
		d := math.Min(math.Abs(midpoint-turn.Start), math.Abs(midpoint-turn.End))
		if d < bestDistance {
			bestDistance = d
			best = turn.Speaker
		}
	}
	return best
}
