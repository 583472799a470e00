// Package config loads the worker's two configuration sources: the
// per-session JSON file passed on the command line, and the process
// environment (credential, timeout override, sidecar endpoints).
//
// Both are loaded once at startup and passed to the orchestrator as
// immutable values; nested components never read the environment
// themselves.
package config
