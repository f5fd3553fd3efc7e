// Package parallel splits row ranges of the tensor kernels across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// MinRows is the default smallest range handed to one goroutine. Models in
// this engine are small, so most kernels run inline.
const MinRows = 64

// Rows calls f on disjoint half-open ranges [lo, hi) that together cover
// [0, n), and returns once every call has finished. Each range holds at least
// minRows rows except possibly the last. When n is below 2*minRows or only
// one CPU is usable, f runs once on [0, n) in the calling goroutine.
func Rows(n, minRows int, f func(lo, hi int)) {
	minRows = max(minRows, 1)
	workers := runtime.GOMAXPROCS(0)
	if workers < 2 || n < 2*minRows {
		f(0, n)
		return
	}

	chunk := max(minRows, (n+workers-1)/workers)
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			f(lo, hi)
		}(lo, min(lo+chunk, n))
	}
	wg.Wait()
}
