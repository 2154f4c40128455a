// solstat is a small inspection tool for solver export trees: it lists the
// scenarios a tree contains and prints per-file hand statistics without
// rendering anything.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rangeforge/handviz/internal/decoder"
	"github.com/rangeforge/handviz/internal/locator"
	"github.com/rangeforge/handviz/internal/logger"
	"github.com/rangeforge/handviz/internal/models"
)

var (
	root     = flag.String("root", "./poker_solutions", "Solver export root to inspect")
	gameType = flag.String("game-type", "", "Restrict to one game type")
	depth    = flag.String("depth", "", "Restrict to one stack depth")
	position = flag.String("position", "", "Restrict to one position")
	logLevel = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <list|analyze>\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  list     list scenarios and file counts")
	fmt.Fprintln(os.Stderr, "  analyze  decode every file and print hand statistics")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	logger.Init(*logLevel, "text")

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	loc := locator.New(*root, locator.MetadataFilter{
		GameType: *gameType,
		Depth:    *depth,
		Position: *position,
	})
	files, stats, err := loc.Files()
	if err != nil {
		logger.Fatal("%v", err)
	}

	switch flag.Arg(0) {
	case "list":
		list(files, stats)
	case "analyze":
		analyze(loc, files)
	default:
		usage()
		os.Exit(2)
	}
}

func list(files []models.SolutionFile, stats locator.WalkStats) {
	counts := make(map[models.ScenarioKey]int)
	var order []models.ScenarioKey
	for _, f := range files {
		if counts[f.Key] == 0 {
			order = append(order, f.Key)
		}
		counts[f.Key]++
	}

	for _, key := range order {
		fmt.Printf("%-60s %d file(s)\n", key, counts[key])
	}
	fmt.Printf("\n%d scenarios, %d files (%d skipped, %d branches pruned)\n",
		len(order), stats.Matched, stats.Skipped, stats.Pruned)
}

func analyze(loc *locator.Locator, files []models.SolutionFile) {
	var totalHands, failed int

	for _, f := range files {
		data, err := os.ReadFile(loc.Abs(f))
		if err != nil {
			logger.Warn("unreadable file %s: %v", f.Path, err)
			failed++
			continue
		}
		sol, err := decoder.Decode(f.Key, data)
		if err != nil {
			logger.Warn("skipping %s: %v", f.Path, err)
			failed++
			continue
		}

		byAction := make(map[string]int)
		for _, h := range sol.Hands {
			byAction[h.BestAction]++
		}

		fmt.Printf("%s\n", f.Path)
		fmt.Printf("  hands: %d, actions: %v, pot: %.1f, board: %q\n",
			len(sol.Hands), sol.Actions, sol.Pot, sol.Board)
		for _, code := range sol.Actions {
			if n := byAction[code]; n > 0 {
				fmt.Printf("  best=%-8s %d\n", code, n)
			}
		}
		totalHands += len(sol.Hands)
	}

	fmt.Printf("\n%d files analyzed (%d unusable), %d hands total\n",
		len(files)-failed, failed, totalHands)
}
