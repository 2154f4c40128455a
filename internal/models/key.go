package models

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// DepthPrefix is the directory-name prefix that encodes stack depth in the
// input taxonomy (e.g. "depth_100_125").
const DepthPrefix = "depth_"

// ScenarioKey identifies one folder of hands in the solver export taxonomy.
// It is derived purely from path segments and is immutable once derived.
type ScenarioKey struct {
	GameType       string `json:"game_type"`
	StackDepth     string `json:"stack_depth"`
	Street         string `json:"street"`
	ActionSequence string `json:"action_sequence"`
	Position       string `json:"position"`
}

// ParseScenarioPath parses a slash-separated file path relative to the input
// root into its ScenarioKey and filename. The path must match the fixed
// five-level schema game_type/depth_<stack>/street/action_sequence/position/file.
func ParseScenarioPath(rel string) (ScenarioKey, string, error) {
	parts := strings.Split(path.Clean(rel), "/")
	if len(parts) != 6 {
		return ScenarioKey{}, "", fmt.Errorf("expected 5 directory levels, got %d", len(parts)-1)
	}
	for i, p := range parts {
		if p == "" || p == "." || p == ".." {
			return ScenarioKey{}, "", fmt.Errorf("empty or relative segment at level %d", i)
		}
	}
	if !strings.HasPrefix(parts[1], DepthPrefix) || parts[1] == DepthPrefix {
		return ScenarioKey{}, "", fmt.Errorf("level 2 %q does not match %s<stack_depth>", parts[1], DepthPrefix)
	}

	key := ScenarioKey{
		GameType:       parts[0],
		StackDepth:     strings.TrimPrefix(parts[1], DepthPrefix),
		Street:         parts[2],
		ActionSequence: parts[3],
		Position:       parts[4],
	}
	return key, parts[5], nil
}

// Path reassembles the input-side directory path for this key. Joining the
// result with the filename returned by ParseScenarioPath reproduces the
// original relative path exactly.
func (k ScenarioKey) Path() string {
	return path.Join(k.GameType, DepthPrefix+k.StackDepth, k.Street, k.ActionSequence, k.Position)
}

// OutputPath returns the mirrored directory path under an output root. The
// output taxonomy carries the bare stack depth without the depth_ prefix.
func (k ScenarioKey) OutputPath() string {
	return path.Join(k.GameType, k.StackDepth, k.Street, k.ActionSequence, k.Position)
}

// String returns the flat scenario name used in summaries and logs.
func (k ScenarioKey) String() string {
	return strings.Join([]string{k.GameType, k.StackDepth, k.Street, k.ActionSequence, k.Position}, "_")
}

// Validate checks that all key segments are present
func (k ScenarioKey) Validate() error {
	if k.GameType == "" {
		return errors.New("game type must not be empty")
	}
	if k.StackDepth == "" {
		return errors.New("stack depth must not be empty")
	}
	if k.Street == "" {
		return errors.New("street must not be empty")
	}
	if k.ActionSequence == "" {
		return errors.New("action sequence must not be empty")
	}
	if k.Position == "" {
		return errors.New("position must not be empty")
	}
	return nil
}

// SolutionFile is a typed reference to one solver export file. It is created
// by the locator and consumed once by the decoder; contents are not held.
type SolutionFile struct {
	Key  ScenarioKey
	Path string
}
