// Package status is the lifecycle flag of resources that are opened once and closed once.
package status

import "sync/atomic"

type Status int64

const (
	Ready Status = iota
	Running
	Closed
)

func (s Status) Closed() bool {
	return s == Closed
}

// CAP compares and swaps the status, it reports whether the transition happened.
func CAP(statusPointer *Status, from, to Status) bool {
	return atomic.CompareAndSwapInt64((*int64)(statusPointer), int64(from), int64(to))
}

func Load(statusPointer *Status) Status {
	return Status(atomic.LoadInt64((*int64)(statusPointer)))
}
