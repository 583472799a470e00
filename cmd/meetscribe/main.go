// Command meetscribe processes one recorded meeting session into a
// diarized Markdown transcript. It is spawned by the host application
// once per recording, streams NDJSON progress/result events on stdout,
// and logs diagnostics to stderr.
//
// Usage:
//
//	meetscribe --config <session.json>
//	meetscribe --bootstrap-asr --asr-model <id> [--language <lang>]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/skillsenselab/meetscribe/config"
	"github.com/skillsenselab/meetscribe/diarization"
	"github.com/skillsenselab/meetscribe/diarization/pyannote"
	apperrors "github.com/skillsenselab/meetscribe/errors"
	"github.com/skillsenselab/meetscribe/events"
	"github.com/skillsenselab/meetscribe/logger"
	"github.com/skillsenselab/meetscribe/transcription"
	"github.com/skillsenselab/meetscribe/transcription/mlx"
	"github.com/skillsenselab/meetscribe/util"
	"github.com/skillsenselab/meetscribe/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the session config JSON")
	bootstrapASR := flag.Bool("bootstrap-asr", false, "warm up the ASR model and exit")
	asrModel := flag.String("asr-model", "", "ASR model id for bootstrap mode")
	language := flag.String("language", "auto", "expected audio language, or auto to detect")
	flag.Parse()

	rt := config.LoadRuntime()
	log := logger.NewFromEnv("meetscribe").WithFields(map[string]interface{}{
		"run_id": uuid.NewString(),
	})
	em := events.NewEmitter(os.Stdout)
	ctx := context.Background()

	asrRegistry := transcription.NewRegistry()
	asrRegistry.RegisterFactory(mlx.ProviderName, mlx.Factory())
	asr, err := asrRegistry.Create(mlx.ProviderName, map[string]any{"base_url": rt.ASRBaseURL})
	if err != nil {
		fmt.Fprintln(os.Stderr, "meetscribe:", err)
		return 2
	}

	if *bootstrapASR {
		return worker.RunBootstrap(ctx, *asrModel, *language, rt, asr, em, log)
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: meetscribe --config <session.json> | --bootstrap-asr --asr-model <id>")
		return 2
	}

	session, err := config.LoadSession(*configPath)
	if err != nil {
		// The host only speaks the event protocol, so even a config
		// failure must surface as a terminal result event.
		em.Result(events.Result{
			Success:   false,
			ErrorCode: apperrors.CodeWorkerException,
			Message:   err.Error(),
		})
		return 1
	}

	log.Info("worker starting", map[string]interface{}{
		logger.FieldSessionID: session.SessionID,
		logger.FieldModel:     session.ASRModel,
		"hf_token":            util.MaskSecret(rt.HFToken, 4),
	})

	diarRegistry := diarization.NewRegistry()
	diarRegistry.RegisterFactory(pyannote.ProviderName, pyannote.Factory())
	diar, err := diarRegistry.Create(pyannote.ProviderName, map[string]any{"base_url": rt.DiarizationBaseURL})
	if err != nil {
		fmt.Fprintln(os.Stderr, "meetscribe:", err)
		return 2
	}

	return worker.New(session, rt, asr, diar, em, log).Run(ctx)
}
