package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsenselab/meetscribe/diarization"
	"github.com/skillsenselab/meetscribe/transcription"
)

func speakers(segments []Segment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = s.Speaker
	}
	return out
}

func TestAssignSpeakers_OverlapAndMidpointFallback(t *testing.T) {
	turns := []diarization.Turn{
		{Start: 0, End: 2.5, Speaker: "SPEAKER_00"},
		{Start: 2.5, End: 5.0, Speaker: "SPEAKER_01"},
	}
	segments := []transcription.Segment{
		{Start: 0, End: 2, Text: "hi"},
		{Start: 2.1, End: 4, Text: "upd"},
		{Start: 4.2, End: 5, Text: "ok"},
	}

	merged := AssignSpeakers(segments, turns)

	require.Len(t, merged, 3)
	assert.Equal(t, []string{"Speaker 1", "Speaker 2", "Speaker 2"}, speakers(merged))
}

func TestAssignSpeakers_EmptyTurns(t *testing.T) {
	segments := []transcription.Segment{
		{Start: 0, End: 1, Text: "a"},
		{Start: 1, End: 2, Text: "b"},
	}

	merged := AssignSpeakers(segments, nil)

	require.Len(t, merged, 2)
	assert.Equal(t, []string{UnknownSpeaker, UnknownSpeaker}, speakers(merged))
}

func TestAssignSpeakers_DropsEmptyText(t *testing.T) {
	turns := []diarization.Turn{{Start: 0, End: 10, Speaker: "A"}}
	segments := []transcription.Segment{
		{Start: 0, End: 1, Text: "   "},
		{Start: 1, End: 2, Text: " keep me "},
		{Start: 2, End: 3, Text: ""},
	}

	merged := AssignSpeakers(segments, turns)

	require.Len(t, merged, 1)
	assert.Equal(t, "keep me", merged[0].Text)
}

func TestAssignSpeakers_ClampsEndBeforeStart(t *testing.T) {
	turns := []diarization.Turn{{Start: 0, End: 10, Speaker: "A"}}
	segments := []transcription.Segment{{Start: 5, End: 3, Text: "x"}}

	merged := AssignSpeakers(segments, turns)

	require.Len(t, merged, 1)
	assert.Equal(t, 5.0, merged[0].Start)
	assert.Equal(t, 5.0, merged[0].End)
}

func TestAssignSpeakers_MidpointFallbackInGap(t *testing.T) {
	turns := []diarization.Turn{
		{Start: 0, End: 1, Speaker: "A"},
		{Start: 10, End: 11, Speaker: "B"},
	}
	// Segment sits in the gap; its midpoint (7.5) is nearer to B's start.
	segments := []transcription.Segment{{Start: 7, End: 8, Text: "gap"}}

	merged := AssignSpeakers(segments, turns)

	require.Len(t, merged, 1)
	assert.Equal(t, "Speaker 1", merged[0].Speaker)
	// Only one raw label was assigned, so B normalizes to Speaker 1.
}

func TestAssignSpeakers_TieKeepsFirstTurn(t *testing.T) {
	turns := []diarization.Turn{
		{Start: 0, End: 2, Speaker: "A"},
		{Start: 0, End: 2, Speaker: "B"},
	}
	segments := []transcription.Segment{{Start: 0, End: 2, Text: "tied"}}

	merged := AssignSpeakers(segments, turns)

	require.Len(t, merged, 1)
	assert.Equal(t, "Speaker 1", merged[0].Speaker)

	// And the label maps back to turn A, the first encountered.
	moreSegments := []transcription.Segment{
		{Start: 0, End: 2, Text: "tied"},
		{Start: 0, End: 2, Text: "also tied"},
	}
	merged = AssignSpeakers(moreSegments, turns)
	assert.Equal(t, []string{"Speaker 1", "Speaker 1"}, speakers(merged))
}

func TestAssignSpeakers_LabelsFollowFirstAppearance(t *testing.T) {
	turns := []diarization.Turn{
		{Start: 0, End: 1, Speaker: "SPEAKER_03"},
		{Start: 1, End: 2, Speaker: "SPEAKER_00"},
	}
	// First segment hits the later provider id; it still becomes Speaker 1.
	segments := []transcription.Segment{
		{Start: 0, End: 1, Text: "first"},
		{Start: 1, End: 2, Text: "second"},
		{Start: 0, End: 1, Text: "third"},
	}

	merged := AssignSpeakers(segments, turns)

	assert.Equal(t, []string{"Speaker 1", "Speaker 2", "Speaker 1"}, speakers(merged))
}

func TestAssignSpeakers_AllLabelsDrawnFromNormalizedSet(t *testing.T) {
	turns := []diarization.Turn{
		{Start: 0, End: 5, Speaker: "x"},
		{Start: 5, End: 9, Speaker: "y"},
		{Start: 9, End: 12, Speaker: "z"},
	}
	segments := []transcription.Segment{
		{Start: 0, End: 4, Text: "a"},
		{Start: 5, End: 8, Text: "b"},
		{Start: 9, End: 11, Text: "c"},
		{Start: 1, End: 3, Text: "d"},
	}

	merged := AssignSpeakers(segments, turns)

	allowed := map[string]bool{"Speaker 1": true, "Speaker 2": true, "Speaker 3": true, UnknownSpeaker: true}
	for _, s := range merged {
		assert.True(t, allowed[s.Speaker], "unexpected label %q", s.Speaker)
	}
}
