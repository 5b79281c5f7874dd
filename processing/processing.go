// Package processing takes care of the logistics around reading features from a Source,
// covering them with cells and writing them to a Target per resolution.
// Not the covering itself.
package processing

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/pdok/quadbin/quadbin"
)

// ProcessFeatures covers every feature of the source with the cells of each target's resolution.
// Features are covered by the given number of workers, so with more than one worker
// the order in which a target receives them is not the source order.
// The first error of the source, a worker or a target stops the whole pipeline.
func ProcessFeatures(ctx context.Context, source Source, targets map[int]Target, workers int) error {
	resolutions := make([]int, 0, len(targets))
	for res := range targets {
		if res < 0 || res > quadbin.MaxResolution {
			return fmt.Errorf("%w: %d", quadbin.ErrInvalidResolution, res)
		}
		resolutions = append(resolutions, res)
	}
	workers = max(workers, 1)

	g, ctx := errgroup.WithContext(ctx)
	featuresIn := make(chan Feature)
	featuresOut := make(chan CoveredFeature)

	g.Go(func() error {
		defer close(featuresIn)
		return source.ReadFeatures(ctx, featuresIn)
	})

	var stats coverStats
	covering, coverCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		covering.Go(func() error {
			return coverFeatures(coverCtx, featuresIn, featuresOut, resolutions, &stats)
		})
	}
	g.Go(func() error {
		defer close(featuresOut)
		return covering.Wait()
	})

	g.Go(func() error {
		return writeFeaturesToTargets(ctx, featuresOut, targets)
	})

	err := g.Wait()
	stats.log()
	return err
}

type coverStats struct {
	features atomic.Uint64
	empty    atomic.Uint64
	cells    atomic.Uint64
}

func (s *coverStats) log() {
	log.Printf("    total features: %d", s.features.Load())
	log.Printf("     without cells: %d", s.empty.Load())
	log.Printf("             cells: %d", s.cells.Load())
}

// coverFeatures covers the incoming features at every resolution until the input is drained
func coverFeatures(ctx context.Context, featuresIn <-chan Feature, featuresOut chan<- CoveredFeature, resolutions []int, stats *coverStats) error {
	for {
		var feature Feature
		select {
		case f, ok := <-featuresIn:
			if !ok {
				return nil
			}
			feature = f
		case <-ctx.Done():
			return ctx.Err()
		}
		stats.features.Add(1)
		for _, res := range resolutions {
			cells, err := quadbin.GeometryToCells(feature.Geometry(), res)
			if err != nil {
				return fmt.Errorf("could not cover feature %v: %w", feature.ID(), err)
			}
			if len(cells) == 0 {
				stats.empty.Add(1)
			}
			stats.cells.Add(uint64(len(cells)))
			select {
			case featuresOut <- wrapCoveredFeature(feature, res, cells):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// writeFeaturesToTargets distributes the covered features over the target of their resolution
func writeFeaturesToTargets(ctx context.Context, features <-chan CoveredFeature, targets map[int]Target) error {
	g, ctx := errgroup.WithContext(ctx)
	targetChannels := make(map[int]chan<- CoveredFeature, len(targets))

	// create a channel and start a goroutine per resolution target
	for res, target := range targets {
		targetChannel := make(chan CoveredFeature)
		targetChannels[res] = targetChannel
		g.Go(func() error {
			return target.WriteFeatures(targetChannel)
		})
	}

	distribute := func() error {
		defer func() {
			// close the channels, the targets will do their last writing
			for _, targetChannel := range targetChannels {
				close(targetChannel)
			}
		}()
		for feature := range features {
			select {
			case targetChannels[feature.Resolution()] <- feature:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	distErr := distribute()
	if err := g.Wait(); err != nil {
		return err
	}
	return distErr
}

type coveredFeatureWrapper struct {
	wrapped    Feature
	resolution int
	cells      []quadbin.Cell
}

func (f *coveredFeatureWrapper) ID() any {
	return f.wrapped.ID()
}

func (f *coveredFeatureWrapper) Properties() map[string]any {
	return f.wrapped.Properties()
}

func (f *coveredFeatureWrapper) Geometry() orb.Geometry {
	return f.wrapped.Geometry()
}

func (f *coveredFeatureWrapper) Resolution() int {
	return f.resolution
}

func (f *coveredFeatureWrapper) Cells() []quadbin.Cell {
	return f.cells
}

func wrapCoveredFeature(feature Feature, resolution int, cells []quadbin.Cell) CoveredFeature {
	return &coveredFeatureWrapper{
		wrapped:    feature,
		resolution: resolution,
		cells:      cells,
	}
}
