// Package locator walks a solver-export tree and yields typed references to
// solution files. Paths below the root must match the fixed five-level schema
// game_type/depth_<stack>/street/action_sequence/position/file.json; anything
// else is skipped with a logged warning, never aborting the walk.
package locator

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rangeforge/handviz/internal/logger"
	"github.com/rangeforge/handviz/internal/models"
)

// MetadataFilter restricts the walk to matching branches. Filters are applied
// as directory-level predicates so excluded branches are pruned before any
// file below them is touched. Empty fields match everything.
type MetadataFilter struct {
	GameType string
	Depth    string
	Position string
}

// PathSchemaError reports a file whose location does not match the five-level
// taxonomy. It is recovered locally: the file is skipped and the walk continues.
type PathSchemaError struct {
	Path   string
	Reason string
}

func (e *PathSchemaError) Error() string {
	return fmt.Sprintf("path %s does not match schema: %s", e.Path, e.Reason)
}

// WalkStats counts what the walk saw.
type WalkStats struct {
	Matched int
	Skipped int
	Pruned  int
}

// Locator produces a lazy, finite, restartable sequence of solution files.
type Locator struct {
	root   string
	filter MetadataFilter
}

// New creates a Locator for the given input root
func New(root string, filter MetadataFilter) *Locator {
	return &Locator{root: root, filter: filter}
}

// Files re-walks the root and returns matching solution files in
// deterministic lexicographic path order. Each call restarts the sequence.
func (l *Locator) Files() ([]models.SolutionFile, WalkStats, error) {
	if _, err := os.Stat(l.root); err != nil {
		return nil, WalkStats{}, fmt.Errorf("input root %s: %w", l.root, err)
	}

	var files []models.SolutionFile
	var stats WalkStats

	err := fs.WalkDir(os.DirFS(l.root), ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walk error at %s: %v", rel, err)
			stats.Skipped++
			return nil
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if l.pruneDir(rel) {
				stats.Pruned++
				return fs.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(path.Ext(rel), ".json") {
			logger.Debug("ignoring non-solution file %s", rel)
			stats.Skipped++
			return nil
		}

		key, _, perr := models.ParseScenarioPath(rel)
		if perr != nil {
			schemaErr := &PathSchemaError{Path: rel, Reason: perr.Error()}
			logger.Warn("skipping file: %v", schemaErr)
			stats.Skipped++
			return nil
		}

		files = append(files, models.SolutionFile{Key: key, Path: rel})
		stats.Matched++
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walking %s: %w", l.root, err)
	}

	// fs.WalkDir is already lexical; the sort pins the order against future
	// changes to the walk implementation.
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return files, stats, nil
}

// Abs resolves a located file's path against the input root.
func (l *Locator) Abs(f models.SolutionFile) string {
	return filepath.Join(l.root, filepath.FromSlash(f.Path))
}

// pruneDir reports whether an entire directory branch can be excluded by the
// metadata filter, or sits too deep to contain schema-conforming files.
func (l *Locator) pruneDir(rel string) bool {
	parts := strings.Split(rel, "/")
	switch len(parts) {
	case 1: // game_type
		if l.filter.GameType != "" && parts[0] != l.filter.GameType {
			logger.Debug("pruning game type branch %s", rel)
			return true
		}
	case 2: // depth_<stack>
		if l.filter.Depth != "" && parts[1] != models.DepthPrefix+l.filter.Depth {
			logger.Debug("pruning depth branch %s", rel)
			return true
		}
	case 5: // active position
		if l.filter.Position != "" && parts[4] != l.filter.Position {
			logger.Debug("pruning position branch %s", rel)
			return true
		}
	case 6: // directories below the position level can never hold valid files
		logger.Warn("skipping over-deep directory %s", rel)
		return true
	}
	return false
}
