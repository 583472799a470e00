// Package diarization defines the provider interface and common types
// for interacting with speaker diarization backends.
//
// # Backends
//
//   - diarization/pyannote: Pyannote-based speaker diarization
//
// Providers guarantee that returned turns are sorted by start time
// ascending; consumers may rely on that post-condition.
package diarization
