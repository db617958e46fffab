package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Group deduplicates concurrent loads of the same key. Callers stop waiting when
// their context ends; the shared load keeps running for the others.
type Group[T any] struct {
	group singleflight.Group
}

func (g *Group[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	ch := g.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		value, _ := res.Val.(T)
		return value, nil
	}
}

// Forget lets the next call for key start a fresh load.
func (g *Group[T]) Forget(key string) {
	g.group.Forget(key)
}
