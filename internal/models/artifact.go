package models

import "errors"

// VisualizationArtifact is one rendered table image for a retained hand.
// Produced once by the compositor and never mutated afterwards.
type VisualizationArtifact struct {
	ID     string
	Key    ScenarioKey
	Hand   string
	Action string
	EV     float64
	PNG    []byte
}

// Validate checks that the artifact carries everything the aggregator needs
func (a *VisualizationArtifact) Validate() error {
	if a.ID == "" {
		return errors.New("artifact ID must not be empty")
	}
	if a.Hand == "" {
		return errors.New("hand code must not be empty")
	}
	if a.Action == "" {
		return errors.New("action must not be empty")
	}
	if len(a.PNG) == 0 {
		return errors.New("image bytes must not be empty")
	}
	return a.Key.Validate()
}
