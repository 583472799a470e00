package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/skillsenselab/meetscribe/audio"
	"github.com/skillsenselab/meetscribe/config"
	apperrors "github.com/skillsenselab/meetscribe/errors"
	"github.com/skillsenselab/meetscribe/events"
	"github.com/skillsenselab/meetscribe/logger"
	"github.com/skillsenselab/meetscribe/resilience"
	"github.com/skillsenselab/meetscribe/transcription"
)

// warmup clip parameters: 0.25s of silent mono audio at 16kHz
const (
	warmupRate    = 16000
	warmupSamples = warmupRate / 4
)

// RunBootstrap warms up the transcription provider by transcribing a
// synthetic silent clip, so the first real session does not pay the model
// load cost. It speaks the same event protocol as a session run, under
// stage StageASRBootstrap, and returns the process exit code.
func RunBootstrap(ctx context.Context, model, language string, rt config.Runtime, asr transcription.Provider, em *events.Emitter, log *logger.Logger) int {
	log = log.WithComponent("bootstrap")

	fail := func(err error) int {
		log.WithError(err).Error("bootstrap failed")
		em.Result(events.Result{
			Success:   false,
			ErrorCode: apperrors.CodeOf(err),
			Message:   apperrors.MessageOf(err),
		})
		return 1
	}

	model = strings.TrimSpace(model)
	if model == "" {
		return fail(apperrors.ModelMissing())
	}

	em.Progress(StageASRBootstrap, fmt.Sprintf("Warming up ASR model %s", model))

	clipPath := filepath.Join(os.TempDir(), "meetscribe-warmup-"+uuid.NewString()+".wav")
	if err := audio.WriteWAV(clipPath, make([]float64, warmupSamples), warmupRate); err != nil {
		return fail(fmt.Errorf("write warmup clip: %w", err))
	}
	defer os.Remove(clipPath)

	_, err := resilience.RunBounded(ctx, rt.ASRTimeout, func() (*transcription.Response, error) {
		return asr.Transcribe(ctx, transcription.Request{
			AudioPath: clipPath,
			Language:  language,
			Model:     model,
		})
	})
	if err != nil {
		if errors.Is(err, resilience.ErrDeadlineExceeded) {
			return fail(apperrors.Timeout("Bootstrap transcription", rt.ASRTimeout.Seconds()))
		}
		return fail(err)
	}

	log.Info("model warm", map[string]interface{}{logger.FieldModel: model})
	em.Result(events.Result{
		Success: true,
		Message: fmt.Sprintf("ASR model ready: %s", model),
	})
	return 0
}
