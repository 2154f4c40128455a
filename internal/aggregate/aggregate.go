// Package aggregate persists the per-scenario output unit: the hand CSV, the
// run summary and one PNG per retained hand, written atomically so a scenario
// directory is either complete or absent.
package aggregate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/rangeforge/handviz/internal/logger"
	"github.com/rangeforge/handviz/internal/models"
)

// WriteError wraps a failure while persisting one scenario, naming the part
// (csv, summary, png, stage, commit) that failed.
type WriteError struct {
	Key  models.ScenarioKey
	Part string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s for %s: %v", e.Part, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer persists scenario outputs under a fixed root for one EV band.
// Safe for concurrent use: scenarios never share a directory.
type Writer struct {
	outputRoot string
	minEV      float64
	maxEV      float64
}

// NewWriter creates a writer rooted at outputRoot. The EV band is part of the
// writer because it names the CSV file and appears in every summary.
func NewWriter(outputRoot string, minEV, maxEV float64) *Writer {
	return &Writer{outputRoot: outputRoot, minEV: minEV, maxEV: maxEV}
}

// CSVName returns the band-stamped CSV filename, e.g. hands_ev_0.009_to_0.05.csv.
func (w *Writer) CSVName() string {
	return fmt.Sprintf("hands_ev_%s_to_%s.csv",
		strconv.FormatFloat(w.minEV, 'f', -1, 64),
		strconv.FormatFloat(w.maxEV, 'f', -1, 64))
}

// WriteScenario writes all outputs for one scenario: the CSV and summary are
// always written, even when no hands were retained, plus one PNG per
// artifact. Everything is staged into a scratch directory next to the final
// one and committed with a single rename, so readers never observe a partial
// scenario. totalHands is the pre-filter hand count, carried into the summary.
func (w *Writer) WriteScenario(key models.ScenarioKey, totalHands int, records []models.HandRecord, artifacts []models.VisualizationArtifact) error {
	final := filepath.Join(w.outputRoot, filepath.FromSlash(key.OutputPath()))
	staging := final + ".staging-" + uuid.New().String()

	if err := os.MkdirAll(staging, 0o755); err != nil {
		return &WriteError{Key: key, Part: "stage", Err: err}
	}
	defer os.RemoveAll(staging)

	if err := w.writeCSV(filepath.Join(staging, w.CSVName()), records); err != nil {
		return &WriteError{Key: key, Part: "csv", Err: err}
	}
	if err := w.writeSummary(filepath.Join(staging, "summary.txt"), key, totalHands, records); err != nil {
		return &WriteError{Key: key, Part: "summary", Err: err}
	}
	for _, a := range artifacts {
		name := fmt.Sprintf("%s_%s_%.6f.png", a.Hand, a.Action, a.EV)
		if err := os.WriteFile(filepath.Join(staging, name), a.PNG, 0o644); err != nil {
			return &WriteError{Key: key, Part: "png", Err: err}
		}
	}

	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return &WriteError{Key: key, Part: "commit", Err: err}
	}
	if err := os.RemoveAll(final); err != nil {
		return &WriteError{Key: key, Part: "commit", Err: err}
	}
	if err := os.Rename(staging, final); err != nil {
		return &WriteError{Key: key, Part: "commit", Err: err}
	}

	logger.Debug("wrote %s: %d hands, %d images", key, len(records), len(artifacts))
	return nil
}

// actionColumns returns the union of action codes across the records in the
// fixed decision-priority order, so CSV columns are stable for a scenario.
func actionColumns(records []models.HandRecord) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, r := range records {
		for code := range r.ActionEVs {
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}
	models.SortActions(codes)
	return codes
}

func (w *Writer) writeCSV(path string, records []models.HandRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	codes := actionColumns(records)

	header := []string{"hand", "best_action", "best_ev"}
	for _, code := range codes {
		header = append(header, code+"_strat", code+"_ev")
	}
	header = append(header, "difficulty")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{r.Hand, r.BestAction, fmt.Sprintf("%.6f", r.BestEV)}
		for _, code := range codes {
			row = append(row,
				fmt.Sprintf("%.6f", r.ActionFreqs[code]),
				fmt.Sprintf("%.6f", r.ActionEVs[code]))
		}
		row = append(row, fmt.Sprintf("%.6f", r.Difficulty))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

func (w *Writer) writeSummary(path string, key models.ScenarioKey, totalHands int, records []models.HandRecord) error {
	byAction := make(map[string]int)
	var evMin, evMax, evSum float64
	for i, r := range records {
		byAction[r.BestAction]++
		if i == 0 || r.BestEV < evMin {
			evMin = r.BestEV
		}
		if i == 0 || r.BestEV > evMax {
			evMax = r.BestEV
		}
		evSum += r.BestEV
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "scenario: %s\n", key)
	fmt.Fprintf(f, "game_type: %s\n", key.GameType)
	fmt.Fprintf(f, "stack_depth: %s\n", key.StackDepth)
	fmt.Fprintf(f, "street: %s\n", key.Street)
	fmt.Fprintf(f, "action_sequence: %s\n", key.ActionSequence)
	fmt.Fprintf(f, "position: %s\n", key.Position)
	fmt.Fprintf(f, "total_hands: %d\n", totalHands)
	fmt.Fprintf(f, "retained_hands: %d\n", len(records))
	fmt.Fprintf(f, "ev_band: [%s, %s]\n",
		strconv.FormatFloat(w.minEV, 'f', -1, 64),
		strconv.FormatFloat(w.maxEV, 'f', -1, 64))
	if len(records) > 0 {
		fmt.Fprintf(f, "ev_min: %.6f\n", evMin)
		fmt.Fprintf(f, "ev_max: %.6f\n", evMax)
		fmt.Fprintf(f, "ev_mean: %.6f\n", evSum/float64(len(records)))
	}

	codes := make([]string, 0, len(byAction))
	for code := range byAction {
		codes = append(codes, code)
	}
	models.SortActions(codes)
	for _, code := range codes {
		fmt.Fprintf(f, "action_%s: %d\n", code, byAction[code])
	}

	return f.Close()
}
