package runtime

import "runtime"

// Config controls the worker pool of a Context.
type Config struct {
	// NumCPUWorkers is the number of CPU worker goroutines.
	NumCPUWorkers int
	// NumGPUStreams is the number of GPU execution streams. Streams are
	// only spawned when a GPU executor is attached.
	NumGPUStreams int
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	return Config{
		NumCPUWorkers: runtime.NumCPU(),
		NumGPUStreams: 1,
	}
}
