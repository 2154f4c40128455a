package aggregate

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rangeforge/handviz/internal/models"
)

var testKey = models.ScenarioKey{
	GameType:       "mtt",
	StackDepth:     "100",
	Street:         "preflop",
	ActionSequence: "root",
	Position:       "BTN",
}

func testRecords() []models.HandRecord {
	return []models.HandRecord{
		{
			Hand:        "KQs",
			BestAction:  "R2.5",
			BestEV:      0.03,
			ActionEVs:   map[string]float64{"F": 0, "C": 0.01, "R2.5": 0.03},
			ActionFreqs: map[string]float64{"F": 0, "C": 0.2, "R2.5": 0.8},
			Difficulty:  0.03,
		},
		{
			Hand:        "A5s",
			BestAction:  "C",
			BestEV:      0.012,
			ActionEVs:   map[string]float64{"F": 0, "C": 0.012, "R2.5": 0.01},
			ActionFreqs: map[string]float64{"F": 0.1, "C": 0.9, "R2.5": 0},
			Difficulty:  0.002,
		},
	}
}

func testArtifacts(records []models.HandRecord) []models.VisualizationArtifact {
	arts := make([]models.VisualizationArtifact, len(records))
	for i, r := range records {
		arts[i] = models.VisualizationArtifact{
			ID:     "id",
			Key:    testKey,
			Hand:   r.Hand,
			Action: r.BestAction,
			EV:     r.BestEV,
			PNG:    []byte("png-bytes"),
		}
	}
	return arts
}

func TestCSVName(t *testing.T) {
	w := NewWriter("", 0.009, 0.05)
	if got := w.CSVName(); got != "hands_ev_0.009_to_0.05.csv" {
		t.Errorf("CSVName = %s", got)
	}
}

func TestWriteScenario(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, 0.01, 0.03)

	records := testRecords()
	if err := w.WriteScenario(testKey, 169, records, testArtifacts(records)); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}

	// Output lands under the mirror taxonomy with the bare stack depth
	dir := filepath.Join(root, "mtt", "100", "preflop", "root", "BTN")

	// One PNG per artifact, EV stamped at six decimals
	for _, name := range []string{"KQs_R2.5_0.030000.png", "A5s_C_0.012000.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Missing image %s: %v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, w.CSVName()))
	if err != nil {
		t.Fatalf("Missing CSV: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Unreadable CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Got %d CSV rows, want header + 2", len(rows))
	}

	// Per-action columns follow the fixed priority order
	wantHeader := []string{"hand", "best_action", "best_ev", "F_strat", "F_ev", "C_strat", "C_ev", "R2.5_strat", "R2.5_ev", "difficulty"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Errorf("header[%d] = %s, want %s", i, rows[0][i], h)
		}
	}
	if rows[1][0] != "KQs" || rows[1][1] != "R2.5" || rows[1][2] != "0.030000" {
		t.Errorf("Unexpected first row: %v", rows[1])
	}
	if rows[2][0] != "A5s" {
		t.Errorf("Unexpected second row: %v", rows[2])
	}

	summary, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	if err != nil {
		t.Fatalf("Missing summary: %v", err)
	}
	text := string(summary)
	for _, want := range []string{
		"scenario: mtt_100_preflop_root_BTN",
		"total_hands: 169",
		"retained_hands: 2",
		"ev_band: [0.01, 0.03]",
		"ev_min: 0.012000",
		"ev_max: 0.030000",
		"ev_mean: 0.021000",
		"action_C: 1",
		"action_R2.5: 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Summary missing %q:\n%s", want, text)
		}
	}

	// No staging residue next to the committed directory
	entries, err := os.ReadDir(filepath.Dir(dir))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "BTN" {
		t.Errorf("Unexpected siblings: %v", entries)
	}
}

func TestWriteScenarioEmpty(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, 0.01, 0.03)

	if err := w.WriteScenario(testKey, 169, nil, nil); err != nil {
		t.Fatalf("WriteScenario failed: %v", err)
	}

	dir := filepath.Join(root, "mtt", "100", "preflop", "root", "BTN")

	// Header-only CSV, zero-count summary, no images
	f, err := os.Open(filepath.Join(dir, w.CSVName()))
	if err != nil {
		t.Fatalf("Missing CSV: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("Got %d CSV rows, want header only", len(rows))
	}

	summary, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(summary), "retained_hands: 0") {
		t.Errorf("Summary should report zero retained hands:\n%s", summary)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			t.Errorf("Unexpected image %s in empty scenario", e.Name())
		}
	}
}

func TestWriteScenarioReplacesPrevious(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, 0.01, 0.03)
	records := testRecords()

	if err := w.WriteScenario(testKey, 169, records, testArtifacts(records)); err != nil {
		t.Fatal(err)
	}
	// Second run with fewer hands must fully replace the directory
	if err := w.WriteScenario(testKey, 169, records[:1], testArtifacts(records[:1])); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(root, "mtt", "100", "preflop", "root", "BTN")
	if _, err := os.Stat(filepath.Join(dir, "A5s_C_0.012000.png")); !os.IsNotExist(err) {
		t.Error("Stale image from the previous run survived")
	}
	if _, err := os.Stat(filepath.Join(dir, "KQs_R2.5_0.030000.png")); err != nil {
		t.Errorf("Missing current image: %v", err)
	}
}

func TestWriteScenarioFailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	// Make the output root read-only so staging fails
	if err := os.Chmod(root, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(root, 0o755)

	w := NewWriter(root, 0.01, 0.03)
	err := w.WriteScenario(testKey, 1, nil, nil)
	if err == nil {
		t.Skip("running as root, permission denial not enforceable")
	}

	var werr *WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("Expected *WriteError, got %T", err)
	}

	entries, rerr := os.ReadDir(root)
	if rerr != nil {
		t.Fatal(rerr)
	}
	if len(entries) != 0 {
		t.Errorf("Failed write left residue: %v", entries)
	}
}
