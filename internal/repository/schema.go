package repository

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// schemaGuard runs an idempotent setup step (migrations, indexes) before
// store operations that depend on it. A failed attempt is retried on the
// next call; once it succeeds it is never run again.
type schemaGuard struct {
	mu     sync.Mutex
	ready  bool
	what   string
	ensure func(ctx context.Context) error
}

func newSchemaGuard(what string, ensure func(ctx context.Context) error) *schemaGuard {
	return &schemaGuard{what: what, ensure: ensure}
}

// Ready returns nil once the setup step has succeeded. A nil guard, or one
// without a step, is always ready.
func (g *schemaGuard) Ready(ctx context.Context) error {
	if g == nil || g.ensure == nil {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ready {
		return nil
	}

	if err := g.ensure(ctx); err != nil {
		return errors.Wrapf(err, "preparing %s", g.what)
	}

	g.ready = true
	return nil
}
