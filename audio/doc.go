// Package audio reads and writes the session's WAV files and mixes the
// optional microphone capture into the system capture.
//
// Samples are processed as normalized float64 throughout; files are
// written as 16-bit mono PCM at the system track's sample rate.
package audio
