// Package events implements the worker's wire protocol: newline-delimited
// JSON on stdout, one object per line. There are two shapes, progress and
// result; exactly one result terminates the stream.
package events

import (
	"encoding/json"
	"io"
	"sync"

	apperrors "github.com/skillsenselab/meetscribe/errors"
)

// Event type discriminators.
const (
	TypeProgress = "progress"
	TypeResult   = "result"
)

// Result describes the terminal outcome of a run.
type Result struct {
	Success        bool
	ErrorCode      apperrors.Code
	Message        string
	TranscriptPath string
	WAVPath        string
	JSONPath       string
}

// Emitter writes events to a stream. Writes are serialized and unbuffered
// so progress lines are observable before the run finishes and are never
// reordered relative to the result.
type Emitter struct {
	mu         sync.Mutex
	enc        *json.Encoder
	resultSent bool
}

// NewEmitter creates an emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{enc: json.NewEncoder(w)}
}

// Progress emits a progress event for a stage. Progress events after the
// result has been sent are dropped.
func (e *Emitter) Progress(stage, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resultSent {
		return
	}
	_ = e.enc.Encode(progressLine{
		Type:    TypeProgress,
		Stage:   stage,
		Message: message,
	})
}

// Result emits the terminal result event. Only the first call has any
// effect; the stream carries exactly one result.
func (e *Emitter) Result(r Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resultSent {
		return
	}
	e.resultSent = true
	_ = e.enc.Encode(resultLine{
		Type:           TypeResult,
		Success:        r.Success,
		ErrorCode:      string(r.ErrorCode),
		Message:        r.Message,
		TranscriptPath: r.TranscriptPath,
		WAVPath:        r.WAVPath,
		JSONPath:       r.JSONPath,
	})
}

// --- wire shapes ---

type progressLine struct {
	Type    string `json:"type"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

type resultLine struct {
	Type           string `json:"type"`
	Success        bool   `json:"success"`
	ErrorCode      string `json:"error_code,omitempty"`
	Message        string `json:"message"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	WAVPath        string `json:"wav_path,omitempty"`
	JSONPath       string `json:"json_path,omitempty"`
}
