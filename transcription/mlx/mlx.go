// Package mlx implements transcription.Provider against the MLX
// speech-to-text HTTP sidecar.
//
// Model loading inside the sidecar can fail in backend-specific ways
// (missing tokenizer processor, incompatible checkpoint layouts). The
// sidecar reports these as typed failure reasons, and the provider
// retries with the next load strategy from an ordered policy table
// instead of pattern-matching error text.
package mlx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/skillsenselab/meetscribe/provider"
	"github.com/skillsenselab/meetscribe/transcription"
)

const (
	// ProviderName is the registered name for the MLX provider.
	ProviderName = "mlx"

	// No default client timeout: the transcription stage is bounded by
	// the caller's deadline, not by the transport.
	defaultBaseURL = "http://localhost:8387"
)

// Strategy names the model load strategies the sidecar supports, tried
// in the order the retry policy dictates.
type Strategy string

const (
	// StrategyDefault loads the model through the standard loader.
	StrategyDefault Strategy = "default"
	// StrategyForcedTokenizer loads the model and forces tokenizer
	// initialization from the model repository.
	StrategyForcedTokenizer Strategy = "forced_tokenizer"
	// StrategyCompat loads whisper checkpoints through the
	// compatibility loader that tolerates legacy config keys.
	StrategyCompat Strategy = "compat"
	// StrategyGenerateModule falls back to the sidecar's standalone
	// generate module.
	StrategyGenerateModule Strategy = "generate_module"
)

// FailureReason is a typed load-failure reason reported by the sidecar.
type FailureReason string

const (
	// ReasonProcessorMissing means the model loaded without a usable
	// tokenizer processor.
	ReasonProcessorMissing FailureReason = "processor_missing"
	// ReasonWeightsIncompatible means the checkpoint layout is not
	// accepted by the standard loader.
	ReasonWeightsIncompatible FailureReason = "weights_incompatible"
	// ReasonUnsupportedModel means the model architecture is not
	// supported by the direct generate path.
	ReasonUnsupportedModel FailureReason = "unsupported_model"
)

// retryPolicy maps a typed failure reason to the strategy to try next.
// Each strategy is attempted at most once per call.
var retryPolicy = map[FailureReason]Strategy{
	ReasonProcessorMissing:    StrategyForcedTokenizer,
	ReasonWeightsIncompatible: StrategyCompat,
	ReasonUnsupportedModel:    StrategyGenerateModule,
}

// modelAliases resolves shorthand whisper model ids to their fp16
// variants before the first request.
var modelAliases = map[string]string{
	"mlx-community/whisper-tiny":           "mlx-community/whisper-tiny-asr-fp16",
	"mlx-community/whisper-small":          "mlx-community/whisper-small-asr-fp16",
	"mlx-community/whisper-medium":         "mlx-community/whisper-medium-asr-fp16",
	"mlx-community/whisper-large-v3-turbo": "mlx-community/whisper-large-v3-turbo-asr-fp16",
}

// ResolveModelAlias maps a shorthand model id to its canonical form.
// Unknown ids pass through unchanged.
func ResolveModelAlias(model string) string {
	if resolved, ok := modelAliases[model]; ok {
		return resolved
	}
	return model
}

// Config holds configuration for the MLX transcription provider.
type Config struct {
	BaseURL string        `json:"base_url"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
}

// Provider implements transcription.Provider using the MLX HTTP sidecar.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new MLX transcription provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Factory returns a provider.Factory that creates MLX Provider instances
// from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		mc := Config{}
		if v, ok := cfg["base_url"].(string); ok {
			mc.BaseURL = v
		}
		if v, ok := cfg["model"].(string); ok {
			mc.Model = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			mc.Timeout = v
		}
		return NewProvider(mc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the MLX sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Transcribe sends an audio file to the MLX sidecar and returns the
// transcription. Typed load failures are retried with the next strategy
// from the policy table; unknown failures are returned as-is.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	model = ResolveModelAlias(model)

	// "auto" means backend detection; the field is simply omitted.
	lang := req.Language
	if lang == "auto" {
		lang = ""
	}

	audioData, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	strategy := StrategyDefault
	tried := map[Strategy]bool{}
	for {
		tried[strategy] = true

		result, reason, err := p.transcribeOnce(ctx, audioData, model, lang, strategy)
		if err == nil {
			return result, nil
		}
		if reason == "" {
			return nil, err
		}

		next, ok := retryPolicy[reason]
		if !ok || tried[next] {
			return nil, err
		}
		strategy = next
	}
}

func (p *Provider) transcribeOnce(ctx context.Context, audioData []byte, model, lang string, strategy Strategy) (*transcription.Response, FailureReason, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", "audio.wav")
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, "", fmt.Errorf("write audio data: %w", err)
	}

	_ = writer.WriteField("model", model)
	_ = writer.WriteField("strategy", string(strategy))
	if lang != "" {
		_ = writer.WriteField("language", lang)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/transcribe", &buf)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("mlx request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var failure mlxFailure
		if json.Unmarshal(body, &failure) == nil && failure.Reason != "" {
			return nil, FailureReason(failure.Reason),
				fmt.Errorf("mlx load failure (%s, strategy %s): %s", failure.Reason, strategy, failure.Error)
		}
		return nil, "", fmt.Errorf("mlx error (status %d): %s", resp.StatusCode, string(body))
	}

	var result mlxResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("decode mlx response: %w", err)
	}
	return toResponse(&result), "", nil
}

// --- internal MLX API types ---

type mlxResponse struct {
	Text     string       `json:"text"`
	Segments []mlxSegment `json:"segments"`
	Duration float64      `json:"duration_seconds"`
	Language string       `json:"language"`
}

type mlxSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type mlxFailure struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func toResponse(resp *mlxResponse) *transcription.Response {
	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
	}

	duration := resp.Duration
	if duration == 0 && len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}

	return &transcription.Response{
		Text:     resp.Text,
		Segments: segments,
		Duration: duration,
		Language: resp.Language,
	}
}
