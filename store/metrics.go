package store

import "github.com/uber-go/tally/v4"

type metrics struct {
	hits             tally.Counter
	misses           tally.Counter
	rehydrations     tally.Counter
	persists         tally.Counter
	removalsRejected tally.Counter
	lambdaMisses     tally.Counter
	persistLatency   tally.Timer
}

func newMetrics(scope tally.Scope) *metrics {
	return &metrics{
		hits:             scope.Counter("hits"),
		misses:           scope.Counter("misses"),
		rehydrations:     scope.Counter("rehydrations"),
		persists:         scope.Counter("persists"),
		removalsRejected: scope.Counter("removals_rejected"),
		lambdaMisses:     scope.Counter("lambda_misses"),
		persistLatency:   scope.Timer("persist_latency"),
	}
}
