// Package revalidate marks public page paths stale after a confirmed
// mutation so the rendering layer regenerates them on the next request.
package revalidate

import (
	"context"

	"github.com/portfolio-site/portfolio-backend/internal/common"
)

// Invalidator marks a single page path stale.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// Dispatcher computes which public paths depend on a mutated entity and
// invalidates them best-effort: failures are logged and swallowed, never
// rolled back into the mutation that triggered them.
type Dispatcher struct {
	inv Invalidator
	log *common.Logger
}

func NewDispatcher(inv Invalidator, log *common.Logger) *Dispatcher {
	return &Dispatcher{inv: inv, log: log}
}

// PublicPages always refreshes the site root and the portfolio listing, plus
// the company detail page when a slug is known. Project mutations pass the
// owning company's slug since public pages key on it.
func (d *Dispatcher) PublicPages(ctx context.Context, slug string) {
	for _, path := range Paths(slug) {
		if err := d.inv.Invalidate(ctx, path); err != nil {
			d.log.Warn().Err(err).Str("path", path).Msg("cache invalidation failed, page may serve stale content")
			continue
		}
		d.log.Debug().Str("path", path).Msg("page marked stale")
	}
}

// Paths lists the public pages that render an entity with the given company
// slug. Empty slug means only the shared pages.
func Paths(slug string) []string {
	paths := []string{"/", "/portfolio"}
	if slug != "" {
		paths = append(paths, "/portfolio/"+slug)
	}
	return paths
}
