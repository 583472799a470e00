// Package worker orchestrates one recording session end to end: mix,
// transcribe, diarize, merge, export. It owns the stage state machine,
// the per-stage failure policy, and the emission of progress and result
// events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/skillsenselab/meetscribe/audio"
	"github.com/skillsenselab/meetscribe/config"
	"github.com/skillsenselab/meetscribe/diarization"
	apperrors "github.com/skillsenselab/meetscribe/errors"
	"github.com/skillsenselab/meetscribe/events"
	"github.com/skillsenselab/meetscribe/export"
	"github.com/skillsenselab/meetscribe/logger"
	"github.com/skillsenselab/meetscribe/merge"
	"github.com/skillsenselab/meetscribe/resilience"
	"github.com/skillsenselab/meetscribe/transcription"
)

// Stage names carried on progress events. The host application keys its
// UI off these, so they are part of the wire contract.
const (
	StageMix          = "mix"
	StageASR          = "asr"
	StageDiarization  = "diarization"
	StageMerge        = "merge"
	StageExport       = "export"
	StageASRBootstrap = "asr_bootstrap"
)

// State identifies where the pipeline is in its linear run. Any state
// can transition to StateFailed.
type State string

const (
	StateStart        State = "start"
	StateMixing       State = "mixing"
	StateTranscribing State = "transcribing"
	StateDiarizing    State = "diarizing"
	StateMerging      State = "merging"
	StateExporting    State = "exporting"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Pipeline runs a single session. Construct with New, run once with Run.
type Pipeline struct {
	session *config.Session
	runtime config.Runtime
	asr     transcription.Provider
	diar    diarization.Provider
	emitter *events.Emitter
	log     *logger.Logger

	// mix is swapped in tests; defaults to the real mixer.
	mix   func(systemPath string) (string, error)
	state State
}

// New creates a pipeline for one session.
func New(session *config.Session, rt config.Runtime, asr transcription.Provider, diar diarization.Provider, em *events.Emitter, log *logger.Logger) *Pipeline {
	return &Pipeline{
		session: session,
		runtime: rt,
		asr:     asr,
		diar:    diar,
		emitter: em,
		log:     log.WithComponent("pipeline").WithFields(map[string]interface{}{
			logger.FieldSessionID: session.SessionID,
		}),
		mix:   audio.MixMicrophoneTrack,
		state: StateStart,
	}
}

// Run executes the session and returns the process exit code. Exactly
// one result event is emitted on the stream regardless of outcome.
func (p *Pipeline) Run(ctx context.Context) int {
	if err := p.run(ctx); err != nil {
		p.setState(StateFailed)
		p.log.WithError(err).Error("session failed")
		p.emitter.Result(events.Result{
			Success:   false,
			ErrorCode: apperrors.CodeOf(err),
			Message:   apperrors.MessageOf(err),
		})
		return 1
	}
	return 0
}

func (p *Pipeline) run(ctx context.Context) error {
	// Pre-flight: both checks must fail before any model is touched.
	if _, err := os.Stat(p.session.InputWAVPath); err != nil {
		return apperrors.InputAudioNotFound(p.session.InputWAVPath)
	}
	if p.runtime.HFToken == "" {
		return apperrors.TokenMissing()
	}

	p.setState(StateMixing)
	p.emitter.Progress(StageMix, "Mixing microphone track into system audio")
	audioPath, err := p.mix(p.session.InputWAVPath)
	if err != nil {
		return err
	}

	p.setState(StateTranscribing)
	p.emitter.Progress(StageASR, "Transcribing with MLX model")
	p.log.Info("transcription started", map[string]interface{}{
		logger.FieldModel: p.session.ASRModel,
		"timeout":         p.runtime.ASRTimeout.String(),
	})
	asrStart := time.Now()
	asrResult, err := resilience.RunBounded(ctx, p.runtime.ASRTimeout, func() (*transcription.Response, error) {
		return p.asr.Transcribe(ctx, transcription.Request{
			AudioPath: audioPath,
			Language:  p.session.Language,
			Model:     p.session.ASRModel,
		})
	})
	if err != nil {
		if errors.Is(err, resilience.ErrDeadlineExceeded) {
			return apperrors.Timeout("Transcription", p.runtime.ASRTimeout.Seconds())
		}
		return err
	}
	p.log.Info("transcription complete", logger.DurationFields(StageASR, time.Since(asrStart)))

	p.setState(StateDiarizing)
	p.emitter.Progress(StageDiarization, "Running pyannote diarization")
	var turns []diarization.Turn
	var diarWarning string
	diarResult, err := p.diar.Diarize(ctx, diarization.Request{
		AudioPath: audioPath,
		Model:     p.session.DiarizationModel,
		Token:     p.runtime.HFToken,
	})
	if err != nil {
		// Non-fatal: a transcript without speakers beats no transcript.
		diarWarning = err.Error()
		p.log.WithError(err).Warn("diarization failed, continuing with unknown speakers")
		p.emitter.Progress(StageDiarization, "Diarization failed, continuing with unknown speakers")
	} else {
		turns = diarResult.Turns
	}

	p.setState(StateMerging)
	p.emitter.Progress(StageMerge, "Assigning speakers to transcript segments")
	merged := merge.AssignSpeakers(asrResult.Segments, turns)

	p.setState(StateExporting)
	p.emitter.Progress(StageExport, "Writing markdown transcript")
	paths, err := export.Export(export.Params{
		OutputDir:        p.session.OutputDir,
		SessionID:        p.session.SessionID,
		InputWAVPath:     audioPath,
		ASRModel:         p.session.ASRModel,
		DiarizationModel: p.session.DiarizationModel,
		Language:         p.session.Language,
		Segments:         merged,
		FullText:         asrResult.Text,
		Duration:         asrResult.Duration,
		SaveJSON:         p.session.SaveJSON,
	})
	if err != nil {
		return err
	}

	if !p.session.KeepWAV {
		if err := os.Remove(audioPath); err != nil {
			p.log.WithError(err).Warn("failed to remove input recording")
		}
		// The recording is gone; never hand the host a dangling path.
		paths.WAV = ""
	}

	p.setState(StateDone)
	message := "Processing complete"
	if diarWarning != "" {
		message = fmt.Sprintf("Processing complete (diarization fallback: %s)", diarWarning)
	}
	p.emitter.Result(events.Result{
		Success:        true,
		Message:        message,
		TranscriptPath: paths.Transcript,
		WAVPath:        paths.WAV,
		JSONPath:       paths.JSON,
	})
	p.log.Info("session complete", map[string]interface{}{
		logger.FieldPath: paths.Transcript,
	})
	return nil
}

func (p *Pipeline) setState(next State) {
	p.log.Debug("state transition", map[string]interface{}{
		"from": string(p.state),
		"to":   string(next),
	})
	p.state = next
}
