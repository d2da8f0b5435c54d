package store

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying s, so code deep in a call tree can reach
// the shared store without a direct reference.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(contextKey{}).(*Store)
	return s, ok && s != nil
}
