// Package parallel fans independent analysis work out over worker
// goroutines. Training stays single threaded; only read-only
// post-training evaluation uses this.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls fan-out behavior.
type Config struct {
	Enabled    bool // whether fan-out is enabled
	NumWorkers int  // number of worker goroutines
	MinItems   int  // minimum items before fan-out pays off
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		MinItems:   4,
	}
}

// For executes f(i) for i in [0, n). Iterations must be independent:
// f may read shared state but write only its own slot. Falls back to a
// sequential loop when fan-out is disabled or n is small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinItems {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := (n + cfg.NumWorkers - 1) / cfg.NumWorkers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
