// Package transcription defines the provider interface and common types
// for interacting with speech-to-text backends.
//
// # Backends
//
//   - transcription/mlx: MLX speech-to-text sidecar
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory(mlx.ProviderName, mlx.Factory())
package transcription
