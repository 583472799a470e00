// Package util provides small shared helpers for the worker.
//
// It includes lenient duration parsing for environment overrides, secret
// masking for log output, and crash-safe atomic file writes.
package util
