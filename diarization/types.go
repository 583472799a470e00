package diarization

// Request holds parameters for a diarization call.
type Request struct {
	// AudioPath is the path to the audio file to diarize.
	AudioPath string `json:"audio_path"`
	// Model is the diarization pipeline to use.
	Model string `json:"model,omitempty"`
	// Token is the credential for gated model access.
	Token string `json:"-"`
}

// Response holds the result of a diarization call.
type Response struct {
	// Turns contains speaker-attributed time intervals, sorted by
	// start time ascending.
	Turns []Turn `json:"turns"`
	// NumSpeakers is the number of distinct speakers detected.
	NumSpeakers int `json:"num_speakers"`
}

// Turn represents a contiguous time interval attributed to one speaker.
type Turn struct {
	// Start is the turn start time in seconds.
	Start float64 `json:"start"`
	// End is the turn end time in seconds.
	End float64 `json:"end"`
	// Speaker is the provider-specific speaker label.
	Speaker string `json:"speaker"`
}
