// Package region enumerates coordinate sets and derives the planet at each one.
// It is an inspection and batch utility; consensus never depends on it.
package region

import (
	"context"
	"iter"
	"runtime"

	"golang.org/x/sync/errgroup"

	"planets-procgen/internal/location"
	"planets-procgen/internal/planet"
	"planets-procgen/internal/shared/errors"
)

// Result pairs a visited coordinate with its planet, nil when empty.
type Result struct {
	Coords location.Coords `json:"coords"`
	Planet *planet.Planet  `json:"planet,omitempty"`
}

// Generator derives planets over a Source. A Generator is not safe for
// concurrent iteration; Collect parallelizes internally.
type Generator struct {
	source   Source
	deriver  *planet.Deriver
	reporter Reporter
	err      error
}

// New validates source up front so that a bad region fails before any work.
// A nil reporter reports nothing.
func New(source Source, deriver *planet.Deriver, reporter Reporter) (*Generator, error) {
	if deriver == nil {
		return nil, errors.InvalidConfigf("region generator requires a deriver")
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Generator{source: source, deriver: deriver, reporter: reporter}, nil
}

func (g *Generator) Len() int {
	return g.source.Len()
}

// All lazily derives each coordinate of the source. Every call starts a fresh
// enumeration. A derivation error ends the sequence and is kept in Err.
func (g *Generator) All() iter.Seq2[location.Coords, *planet.Planet] {
	return func(yield func(location.Coords, *planet.Planet) bool) {
		g.err = nil
		for c := range g.source.Coords() {
			p, err := g.deriver.Derive(c)
			if err != nil {
				g.err = err
				return
			}
			g.reporter.Report(c, p)
			if !yield(c, p) {
				return
			}
		}
	}
}

// Err returns the error that ended the last enumeration, if any.
func (g *Generator) Err() error {
	return g.err
}

// Collect derives every coordinate of g using up to workers goroutines and returns
// results in enumeration order. Results are identical to iterating All.
// Cancelling ctx stops the remaining work.
func Collect(ctx context.Context, g *Generator, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, 0, g.source.Len())
	for c := range g.source.Coords() {
		results = append(results, Result{Coords: c})
	}
	if len(results) == 0 {
		return results, nil
	}
	workers = min(workers, len(results))

	eg, ctx := errgroup.WithContext(ctx)
	chunk := (len(results) + workers - 1) / workers
	for start := 0; start < len(results); start += chunk {
		part := results[start:min(start+chunk, len(results))]
		eg.Go(func() error {
			for i := range part {
				if err := ctx.Err(); err != nil {
					return errors.WrapInternal("region generation cancelled", err)
				}
				p, err := g.deriver.Derive(part[i].Coords)
				if err != nil {
					return err
				}
				part[i].Planet = p
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		g.reporter.Report(r.Coords, r.Planet)
	}
	return results, nil
}
