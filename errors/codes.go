package errors

// Code represents a machine-readable error code.
type Code string

const (
	// CodeInputAudioNotFound indicates the session's input WAV does not exist.
	CodeInputAudioNotFound Code = "INPUT_AUDIO_NOT_FOUND"
	// CodeTokenMissing indicates the diarization credential is absent from the environment.
	CodeTokenMissing Code = "HF_TOKEN_MISSING"
	// CodeModelMissing indicates a bootstrap invocation without an ASR model name.
	CodeModelMissing Code = "ASR_MODEL_MISSING"
	// CodeTimeout indicates the transcription stage exceeded its deadline.
	CodeTimeout Code = "ASR_TIMEOUT"
	// CodeWorkerException is the catch-all for any other stage failure.
	CodeWorkerException Code = "WORKER_EXCEPTION"
)
