package hullgen

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// GenerateAll builds the colliders of every hull with at most Workers hulls
// in flight. Results keep the order of hulls. A failing hull only sets its own
// Collider.Err; the returned error is the cancellation of ctx.
func (g *Generator) GenerateAll(ctx context.Context, input Input, hulls []Hull) ([]Collider, error) {
	colliders := make([]Collider, len(hulls))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.config.Workers)
	for i, hull := range hulls {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			colliders[i] = g.Generate(input, hull)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return colliders, fmt.Errorf("generate all: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return colliders, fmt.Errorf("generate all: %w", err)
	}
	return colliders, nil
}
