package models

import (
	"testing"
)

func TestParseScenarioPath(t *testing.T) {
	key, file, err := ParseScenarioPath("mtt/depth_100_125/preflop/fold_fold_raise/BTN/solution.json")
	if err != nil {
		t.Fatalf("ParseScenarioPath failed: %v", err)
	}
	if key.GameType != "mtt" {
		t.Errorf("Unexpected game type: %s", key.GameType)
	}
	if key.StackDepth != "100_125" {
		t.Errorf("Unexpected stack depth: %s", key.StackDepth)
	}
	if key.Street != "preflop" {
		t.Errorf("Unexpected street: %s", key.Street)
	}
	if key.ActionSequence != "fold_fold_raise" {
		t.Errorf("Unexpected action sequence: %s", key.ActionSequence)
	}
	if key.Position != "BTN" {
		t.Errorf("Unexpected position: %s", key.Position)
	}
	if file != "solution.json" {
		t.Errorf("Unexpected filename: %s", file)
	}

	// Path round trip reproduces the input path
	if got := key.Path() + "/" + file; got != "mtt/depth_100_125/preflop/fold_fold_raise/BTN/solution.json" {
		t.Errorf("Round trip mismatch: %s", got)
	}

	// Output taxonomy drops the depth_ prefix
	if got := key.OutputPath(); got != "mtt/100_125/preflop/fold_fold_raise/BTN" {
		t.Errorf("Unexpected output path: %s", got)
	}

	if err := key.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestParseScenarioPathErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"too shallow", "mtt/depth_100/preflop/solution.json"},
		{"too deep", "mtt/depth_100/preflop/seq/BTN/extra/solution.json"},
		{"missing depth prefix", "mtt/100_125/preflop/seq/BTN/solution.json"},
		{"bare depth prefix", "mtt/depth_/preflop/seq/BTN/solution.json"},
		{"empty segment", "mtt//preflop/seq/BTN/solution.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseScenarioPath(tt.path); err == nil {
				t.Errorf("Expected error for %s", tt.path)
			}
		})
	}
}

func TestCompareActions(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"fold before call", "F", "C", -1},
		{"call before raise", "C", "R2.5", -1},
		{"check is passive", "X", "R2.5", -1},
		{"limp is passive", "L", "R2.5", -1},
		{"smaller raise first", "R2.5", "R10", -1},
		{"raise with underscore", "R_2.5", "R_10", -1},
		{"unparsable raise size sorts first", "R2.5", "RAI", 1},
		{"equal codes", "R2.5", "R2.5", 0},
		{"unknown after raise", "R2.5", "Z", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareActions(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("CompareActions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			// Comparison must be antisymmetric
			if rev := CompareActions(tt.b, tt.a); rev != -tt.want {
				t.Errorf("CompareActions(%q, %q) = %d, want %d", tt.b, tt.a, rev, -tt.want)
			}
		})
	}
}

func TestSortActions(t *testing.T) {
	codes := []string{"R10", "C", "R2.5", "F", "X"}
	SortActions(codes)

	want := []string{"F", "C", "X", "R2.5", "R10"}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("Unexpected order: %v, want %v", codes, want)
		}
	}
}

func TestHandRecordValidate(t *testing.T) {
	rec := HandRecord{
		Hand:       "AKs",
		BestAction: "R2.5",
		BestEV:     0.031,
		ActionEVs:  map[string]float64{"F": 0, "R2.5": 0.031},
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	rec.BestAction = "C"
	if err := rec.Validate(); err == nil {
		t.Error("Expected error when best action is absent from EV map")
	}

	rec.Hand = ""
	if err := rec.Validate(); err == nil {
		t.Error("Expected error for empty hand")
	}
}

func TestArtifactValidate(t *testing.T) {
	art := VisualizationArtifact{
		ID:     "abc",
		Key:    ScenarioKey{GameType: "mtt", StackDepth: "100", Street: "preflop", ActionSequence: "root", Position: "BTN"},
		Hand:   "AA",
		Action: "R2.5",
		EV:     0.02,
		PNG:    []byte{1},
	}
	if err := art.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	art.PNG = nil
	if err := art.Validate(); err == nil {
		t.Error("Expected error for empty image bytes")
	}
}
