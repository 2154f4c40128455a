// Package pipeline wires the stages together: locate export files, group them
// by scenario, then decode, filter, render and persist each scenario on a
// bounded worker pool. The scenario is the unit of work and of failure; one
// bad scenario never stops the run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rangeforge/handviz/internal/aggregate"
	"github.com/rangeforge/handviz/internal/config"
	"github.com/rangeforge/handviz/internal/decoder"
	"github.com/rangeforge/handviz/internal/filter"
	"github.com/rangeforge/handviz/internal/locator"
	"github.com/rangeforge/handviz/internal/logger"
	"github.com/rangeforge/handviz/internal/models"
	"github.com/rangeforge/handviz/internal/render"
)

// Stats summarizes one run.
type Stats struct {
	Files           int
	Scenarios       int
	FailedScenarios int
	SkippedPaths    int
	TotalHands      int
	RetainedHands   int
}

// ScenarioError records one scenario that could not be completed. The run
// carries on; collected errors are reported at the end.
type ScenarioError struct {
	Key models.ScenarioKey
	Err error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("scenario %s: %v", e.Key, e.Err)
}

func (e *ScenarioError) Unwrap() error {
	return e.Err
}

// Run executes the full pipeline under the given configuration. Cancellation
// is checked between scenarios only: work already dispatched finishes and
// commits, so no scenario directory is ever left half-written.
func Run(ctx context.Context, cfg *config.Config) (Stats, []ScenarioError, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, nil, err
	}

	loc := locator.New(cfg.Pipeline.InputRoot, locator.MetadataFilter{
		GameType: cfg.Filter.GameType,
		Depth:    cfg.Filter.Depth,
		Position: cfg.Filter.Position,
	})
	files, walkStats, err := loc.Files()
	if err != nil {
		return Stats{}, nil, err
	}

	groups, order := groupByScenario(files)
	logger.Info("located %d files in %d scenarios (skipped %d, pruned %d branches)",
		len(files), len(order), walkStats.Skipped, walkStats.Pruned)

	assets := render.LoadAssets(cfg.Render.AssetsDir, cfg.Render.FontPath, cfg.Render.Height)
	comp := render.NewCompositor(render.Config{
		Width:         cfg.Render.Width,
		Height:        cfg.Render.Height,
		StartAngleDeg: 90,
	}, assets)
	writer := aggregate.NewWriter(cfg.Pipeline.OutputRoot, cfg.Filter.MinEV, cfg.Filter.MaxEV)

	stats := Stats{Files: len(files), Scenarios: len(order), SkippedPaths: walkStats.Skipped}
	var failures []ScenarioError
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(cfg.WorkerCount())

	for _, key := range order {
		if ctx.Err() != nil {
			logger.Warn("cancelled, not scheduling remaining scenarios")
			break
		}
		key := key
		scenarioFiles := groups[key]

		g.Go(func() error {
			total, retained, err := runScenario(loc, comp, writer, cfg, key, scenarioFiles)

			mu.Lock()
			defer mu.Unlock()
			stats.TotalHands += total
			stats.RetainedHands += retained
			if err != nil {
				stats.FailedScenarios++
				failures = append(failures, ScenarioError{Key: key, Err: err})
				logger.Error("scenario %s failed: %v", key, err)
			}
			return nil
		})
	}

	// Workers record failures in the shared slice and return nil, so the
	// group itself carries no error.
	_ = g.Wait()
	return stats, failures, ctx.Err()
}

// runScenario processes one scenario end to end and returns the total and
// retained hand counts. Files that fail to decode are skipped with a warning;
// the scenario fails only when nothing was decodable or the write fails.
func runScenario(loc *locator.Locator, comp *render.Compositor, writer *aggregate.Writer, cfg *config.Config, key models.ScenarioKey, files []models.SolutionFile) (int, int, error) {
	var sol *decoder.Solution
	var records []models.HandRecord
	decoded := 0

	for _, f := range files {
		data, err := os.ReadFile(loc.Abs(f))
		if err != nil {
			logger.Warn("unreadable file %s: %v", f.Path, err)
			continue
		}
		s, err := decoder.Decode(f.Key, data)
		if err != nil {
			logger.Warn("skipping %s: %v", f.Path, err)
			continue
		}
		decoded++
		// The first decodable file supplies the table state for rendering.
		if sol == nil {
			sol = s
		}
		records = append(records, s.Hands...)
	}
	if decoded == 0 {
		return 0, 0, fmt.Errorf("no decodable files among %d", len(files))
	}

	total := len(records)
	retained := filter.Apply(records, cfg.Filter.MinEV, cfg.Filter.MaxEV)
	retained = filter.TakeHardest(retained, cfg.Filter.TopHands)

	artifacts := make([]models.VisualizationArtifact, 0, len(retained))
	for _, rec := range retained {
		art, err := comp.Compose(render.TableScene{
			Key:     key,
			Hand:    rec.Hand,
			Action:  rec.BestAction,
			EV:      rec.BestEV,
			Pot:     sol.Pot,
			Board:   sol.Board,
			Players: sol.Players,
		})
		if err != nil {
			return total, len(retained), err
		}
		artifacts = append(artifacts, art)
	}

	if err := writer.WriteScenario(key, total, retained, artifacts); err != nil {
		return total, len(retained), err
	}

	logger.Debug("scenario %s: %d/%d hands retained", key, len(retained), total)
	return total, len(retained), nil
}

// groupByScenario buckets located files by their scenario key, preserving the
// locator's deterministic order via the returned key slice.
func groupByScenario(files []models.SolutionFile) (map[models.ScenarioKey][]models.SolutionFile, []models.ScenarioKey) {
	groups := make(map[models.ScenarioKey][]models.SolutionFile)
	var order []models.ScenarioKey
	for _, f := range files {
		if _, seen := groups[f.Key]; !seen {
			order = append(order, f.Key)
		}
		groups[f.Key] = append(groups[f.Key], f)
	}
	return groups, order
}
