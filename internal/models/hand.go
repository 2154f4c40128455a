package models

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// PlayerInfo describes one seat at the table. Noisy solver diagnostics
// (equity buckets, hand/draw categories, relative postflop position) are
// stripped at decode time and never reach this type.
type PlayerInfo struct {
	SeatIndex int     `json:"seat_index"`
	Position  string  `json:"position"`
	Stack     float64 `json:"stack"`
	IsHero    bool    `json:"is_hero"`
	IsActive  bool    `json:"is_active"`
	IsFolded  bool    `json:"is_folded"`
	IsDealer  bool    `json:"is_dealer"`
}

// ActionOutcome holds the per-hand arrays for one legal action at the
// decision point. The three slices are parallel, indexed by the scenario's
// hand enumeration.
type ActionOutcome struct {
	Code     string
	Strategy []float64
	EVs      []float64
	Equity   []float64
}

// HandRecord is the reduced per-hand view of all action outcomes.
type HandRecord struct {
	Hand        string             `json:"hand"`
	BestAction  string             `json:"best_action"`
	BestEV      float64            `json:"best_ev"`
	ActionEVs   map[string]float64 `json:"action_evs"`
	ActionFreqs map[string]float64 `json:"action_freqs"`
	Difficulty  float64            `json:"difficulty"`
}

// Validate checks internal consistency of a hand record
func (h *HandRecord) Validate() error {
	if h.Hand == "" {
		return errors.New("hand code must not be empty")
	}
	if h.BestAction == "" {
		return errors.New("best action must not be empty")
	}
	if _, ok := h.ActionEVs[h.BestAction]; !ok {
		return errors.New("best action must appear in the per-action EV map")
	}
	return nil
}

// Action priority classes. Raises carry their size so that smaller raises
// order before larger ones.
const (
	classFold = iota
	classPassive
	classRaise
	classOther
)

func actionClass(code string) (int, float64) {
	if code == "" {
		return classOther, 0
	}
	switch code[0] {
	case 'F':
		return classFold, 0
	case 'C', 'X', 'L':
		return classPassive, 0
	case 'R':
		size, err := strconv.ParseFloat(strings.TrimPrefix(code[1:], "_"), 64)
		if err != nil {
			size = 0
		}
		return classRaise, size
	default:
		return classOther, 0
	}
}

// CompareActions orders action codes by the fixed decision priority used for
// EV tie-breaking and for stable column ordering: fold, then check/call/limp,
// then raises smallest to largest, then anything else alphabetically.
func CompareActions(a, b string) int {
	ca, sa := actionClass(a)
	cb, sb := actionClass(b)
	if ca != cb {
		if ca < cb {
			return -1
		}
		return 1
	}
	if sa != sb {
		if sa < sb {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// SortActions sorts action codes in place by the fixed decision priority.
func SortActions(codes []string) {
	sort.Slice(codes, func(i, j int) bool {
		return CompareActions(codes[i], codes[j]) < 0
	})
}
