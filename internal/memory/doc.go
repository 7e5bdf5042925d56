// Package memory configures the Go soft memory limit for containerized
// deployments.
//
// Image decoding holds whole frames in memory, and libvips allocates outside
// the Go heap, so in a memory-limited container the Go heap gets only a share
// of the container limit. ConfigureFromEnv reads MEMORY_LIMIT (typically
// injected via the Kubernetes Downward API) and sets GOMEMLIMIT to a ratio of
// it; an explicit GOMEMLIMIT environment variable always wins.
package memory
