// Package parallel provides chunked parallel execution for CPU compute
// routines working over large contiguous tiles.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of goroutines to split a range over.
	MinChunkSize int  // Minimum elements per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096, // Elementwise routines are memory bound; keep chunks coarse.
	}
}

// ForRange executes f over disjoint [start, end) chunks covering [0, n).
// Falls back to a single sequential call when parallelism is disabled or n
// is too small to amortize the goroutine overhead.
func ForRange(n int, f func(start, end int), cfg Config) {
	if !cfg.Enabled || n < 2*cfg.MinChunkSize {
		if n > 0 {
			f(0, n)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
