package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Track is a decoded audio track. Samples are interleaved when the track
// has more than one channel.
type Track struct {
	Samples  []float64
	Rate     int
	Channels int
}

// Duration returns the track length in seconds.
func (t *Track) Duration() float64 {
	if t.Rate <= 0 || t.Channels <= 0 {
		return 0
	}
	return float64(len(t.Samples)/t.Channels) / float64(t.Rate)
}

// Mono returns the track downmixed to one channel by averaging channels
// per sample index. A mono track is returned unchanged.
func (t *Track) Mono() []float64 {
	if t.Channels <= 1 {
		return t.Samples
	}
	frames := len(t.Samples) / t.Channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < t.Channels; c++ {
			sum += t.Samples[i*t.Channels+c]
		}
		mono[i] = sum / float64(t.Channels)
	}
	return mono
}

// ReadWAV decodes a WAV file into normalized float64 samples.
func ReadWAV(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("read wav %s: not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read wav %s: %w", path, err)
	}

	bitDepth := int(dec.BitDepth)
	if buf.SourceBitDepth != 0 {
		bitDepth = buf.SourceBitDepth
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float64(s) / scale
	}

	return &Track{
		Samples:  samples,
		Rate:     buf.Format.SampleRate,
		Channels: buf.Format.NumChannels,
	}, nil
}

// WriteWAV encodes mono float64 samples as 16-bit PCM. Samples outside
// [-1, 1] are clipped.
func WriteWAV(path string, samples []float64, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav %s: %w", path, err)
	}

	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(s * 32767)
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode wav %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize wav %s: %w", path, err)
	}
	return f.Close()
}
