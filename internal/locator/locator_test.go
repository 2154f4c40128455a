package locator

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, paths []string) {
	t.Helper()
	for _, p := range paths {
		abs := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"mtt/depth_100/preflop/root/BTN/b.json",
		"mtt/depth_100/preflop/root/BTN/a.json",
		"cash/depth_50/preflop/root/SB/sol.json",
	})

	loc := New(root, MetadataFilter{})
	files, stats, err := loc.Files()
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}

	if stats.Matched != 3 {
		t.Errorf("Matched = %d, want 3", stats.Matched)
	}
	// Lexicographic path order
	want := []string{
		"cash/depth_50/preflop/root/SB/sol.json",
		"mtt/depth_100/preflop/root/BTN/a.json",
		"mtt/depth_100/preflop/root/BTN/b.json",
	}
	if len(files) != len(want) {
		t.Fatalf("Got %d files, want %d", len(files), len(want))
	}
	for i, w := range want {
		if files[i].Path != w {
			t.Errorf("files[%d] = %s, want %s", i, files[i].Path, w)
		}
	}

	if files[1].Key.Position != "BTN" {
		t.Errorf("Unexpected key: %+v", files[1].Key)
	}

	// Abs resolves to a readable file
	if _, err := os.Stat(loc.Abs(files[0])); err != nil {
		t.Errorf("Abs path not readable: %v", err)
	}
}

func TestFilesSkipsMalformedPaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"mtt/depth_100/preflop/root/BTN/good.json",
		"mtt/depth_100/stray.json",                   // too shallow
		"mtt/100/preflop/root/BTN/nodepth.json",      // missing depth_ prefix
		"mtt/depth_100/preflop/root/BTN/notes.txt",   // not a solution file
	})

	files, stats, err := New(root, MetadataFilter{}).Files()
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}

	if len(files) != 1 || files[0].Path != "mtt/depth_100/preflop/root/BTN/good.json" {
		t.Fatalf("Unexpected files: %+v", files)
	}
	if stats.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", stats.Skipped)
	}
}

func TestFilesPrunesFilteredBranches(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"mtt/depth_100/preflop/root/BTN/a.json",
		"mtt/depth_100/preflop/root/SB/b.json",
		"mtt/depth_50/preflop/root/BTN/c.json",
		"cash/depth_100/preflop/root/BTN/d.json",
	})

	files, stats, err := New(root, MetadataFilter{
		GameType: "mtt",
		Depth:    "100",
		Position: "BTN",
	}).Files()
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}

	if len(files) != 1 || files[0].Path != "mtt/depth_100/preflop/root/BTN/a.json" {
		t.Fatalf("Unexpected files: %+v", files)
	}
	if stats.Pruned != 3 {
		t.Errorf("Pruned = %d, want 3", stats.Pruned)
	}
}

func TestFilesMissingRoot(t *testing.T) {
	loc := New(filepath.Join(t.TempDir(), "missing"), MetadataFilter{})
	if _, _, err := loc.Files(); err == nil {
		t.Error("Expected error for missing root")
	}
}

func TestFilesRestartable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"mtt/depth_100/preflop/root/BTN/a.json"})

	loc := New(root, MetadataFilter{})
	first, _, err := loc.Files()
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := loc.Files()
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("Walks disagree: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Walks disagree at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
