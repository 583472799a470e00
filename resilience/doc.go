// Package resilience bounds long-running external calls with wall-clock
// deadlines.
package resilience
