package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	dErrors "scad/pkg/domain-errors"
	"scad/pkg/platform/sentinel"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes int32
	Errors    int32
	Conflicts int32
	NotFounds int32
	Denials   int32
}

// RunConcurrent executes fn in parallel goroutines and collects results.
// Store sentinels and ledger error codes are folded into the same buckets:
// ErrConflict and already_registered count as conflicts, ErrNotFound and
// not_registered as not-founds, access_denied as denials.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, conflicts, notFounds, denials atomic.Int32

	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConflict), dErrors.HasCode(err, dErrors.CodeAlreadyRegistered):
				conflicts.Add(1)
			case errors.Is(err, sentinel.ErrNotFound), dErrors.HasCode(err, dErrors.CodeNotRegistered):
				notFounds.Add(1)
			case dErrors.HasCode(err, dErrors.CodeAccessDenied):
				denials.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}
	close(start)

	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		Errors:    errs.Load(),
		Conflicts: conflicts.Load(),
		NotFounds: notFounds.Load(),
		Denials:   denials.Load(),
	}
}
