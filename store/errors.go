package store

import "fmt"

var (
	ErrLambdaNotBound = fmt.Errorf("lambda not bound")
	ErrClosed         = fmt.Errorf("store is closed")
)
