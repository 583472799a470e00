package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// MicSiblingPath returns the conventional microphone-track path for a
// system capture: `name.wav` -> `name.mic.wav`.
func MicSiblingPath(systemPath string) string {
	ext := filepath.Ext(systemPath)
	return strings.TrimSuffix(systemPath, ext) + ".mic" + ext
}

// MixMicrophoneTrack combines the microphone sibling of systemPath into
// the system capture, in place. When no sibling exists this is a no-op
// passthrough: the system file is neither read nor rewritten.
//
// Both tracks are downmixed to mono, the microphone track is resampled to
// the system rate, the shorter track is zero-padded, and the result is
// the half-sum of the two, peak-normalized into [-1, 1]. The mixed track
// is written to a temporary sibling and renamed over the original, so a
// crash never leaves a partially written system file.
func MixMicrophoneTrack(systemPath string) (string, error) {
	micPath := MicSiblingPath(systemPath)
	if _, err := os.Stat(micPath); err != nil {
		return systemPath, nil
	}

	system, err := ReadWAV(systemPath)
	if err != nil {
		return "", fmt.Errorf("mix: %w", err)
	}
	mic, err := ReadWAV(micPath)
	if err != nil {
		return "", fmt.Errorf("mix: %w", err)
	}

	systemMono := system.Mono()
	micMono := Resample(mic.Mono(), mic.Rate, system.Rate)

	length := len(systemMono)
	if len(micMono) > length {
		length = len(micMono)
	}

	mixed := make([]float64, length)
	var peak float64
	for i := range mixed {
		var a, b float64
		if i < len(systemMono) {
			a = systemMono[i]
		}
		if i < len(micMono) {
			b = micMono[i]
		}
		mixed[i] = (a + b) * 0.5
		if abs := math.Abs(mixed[i]); abs > peak {
			peak = abs
		}
	}

	// Peak 0 means an all-silent mix; normalizing would divide by zero.
	if peak > 1.0 {
		for i := range mixed {
			mixed[i] /= peak
		}
	}

	ext := filepath.Ext(systemPath)
	tempPath := strings.TrimSuffix(systemPath, ext) + ".mixing" + ext
	if err := WriteWAV(tempPath, mixed, system.Rate); err != nil {
		return "", fmt.Errorf("mix: %w", err)
	}
	if err := os.Rename(tempPath, systemPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("mix: replace system track: %w", err)
	}
	return systemPath, nil
}

// Resample converts signal from sourceRate to targetRate using linear
// interpolation over uniformly spaced positions. Matching rates and
// zero-length signals pass through unchanged.
func Resample(signal []float64, sourceRate, targetRate int) []float64 {
	if sourceRate == targetRate || len(signal) == 0 {
		return signal
	}

	duration := float64(len(signal)) / float64(sourceRate)
	targetLength := int(math.Round(duration * float64(targetRate)))
	if targetLength < 1 {
		targetLength = 1
	}

	out := make([]float64, targetLength)
	if targetLength == 1 {
		out[0] = signal[0]
		return out
	}

	step := float64(len(signal)-1) / float64(targetLength-1)
	for i := range out {
		pos := float64(i) * step
		lo := int(pos)
		if lo >= len(signal)-1 {
			out[i] = signal[len(signal)-1]
			continue
		}
		frac := pos - float64(lo)
		out[i] = signal[lo]*(1-frac) + signal[lo+1]*frac
	}
	return out
}
