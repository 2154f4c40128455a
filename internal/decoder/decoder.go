// Package decoder parses one solver export file into a canonical
// scenario-scoped collection of hand records and table state.
//
// The export format nests one entry per legal action under action_solutions,
// each carrying parallel per-hand strategy/evs/equity arrays indexed by the
// enumeration of starting hands. Decoding pivots those arrays into per-hand
// records and reduces each hand to its best action:
//
//	best_action = argmax over per-action EV
//
// Ties within epsilon are resolved by the fixed priority fold < check/call/
// limp < raises smallest to largest (models.CompareActions), so output is
// deterministic even when the solver reports equal EVs.
//
// Decoding is a pure transform: no I/O beyond the bytes handed in. Large
// diagnostic sections (equity_buckets, equity_buckets_advanced,
// hand_categories, draw_categories, relative_postflop_position) are never
// unmarshalled.
package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rangeforge/handviz/internal/logger"
	"github.com/rangeforge/handviz/internal/models"
)

// evEpsilon is the tolerance within which two action EVs count as tied.
const evEpsilon = 1e-9

// DecodeError reports a structurally unusable export file: a required
// top-level section is absent. The file is skipped; the run continues.
type DecodeError struct {
	Section string
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", e.Section, e.Reason)
}

// MissingFieldError reports an optional field that was absent. It is a
// warning only: decoding proceeds with defaults.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("optional field %s absent, using defaults", e.Field)
}

// Solution is the canonical model of one decoded export file.
type Solution struct {
	Key     models.ScenarioKey
	Hands   []models.HandRecord
	Players []models.PlayerInfo
	Pot     float64
	Board   string
	Actions []string // action codes in fixed priority order
}

// Raw export schema. Only the fields the pipeline uses are declared; the
// noisy diagnostic sections fall away during unmarshalling.
type rawExport struct {
	Game            *rawGame       `json:"game"`
	PlayersInfo     []rawSeatInfo  `json:"players_info"`
	ActionSolutions []rawActionSol `json:"action_solutions"`
}

type rawGame struct {
	Pot            flexFloat   `json:"pot"`
	ActivePosition string      `json:"active_position"`
	Board          string      `json:"board"`
	Players        []rawPlayer `json:"players"`
}

type rawPlayer struct {
	Position     string    `json:"position"`
	Stack        flexFloat `json:"stack"`
	CurrentStack flexFloat `json:"current_stack"`
	IsHero       bool      `json:"is_hero"`
	IsActive     bool      `json:"is_active"`
	IsFolded     bool      `json:"is_folded"`
	IsDealer     bool      `json:"is_dealer"`
}

type rawSeatInfo struct {
	Player *rawPlayer `json:"player"`
	// Kept raw so the export's key order survives; map decoding would lose it.
	SimpleHandCounters json.RawMessage `json:"simple_hand_counters"`
}

type rawActionSol struct {
	Action struct {
		Code        string `json:"code"`
		DisplayName string `json:"display_name"`
	} `json:"action"`
	Strategy []float64 `json:"strategy"`
	EVs      []float64 `json:"evs"`
	Equity   []float64 `json:"equity"`
}

// flexFloat tolerates exports that encode numeric fields as JSON strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("numeric field %q: %w", s, err)
	}
	*f = flexFloat(v)
	return nil
}

// Decode parses one export file into its canonical Solution.
func Decode(key models.ScenarioKey, data []byte) (*Solution, error) {
	var raw rawExport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Section: "document", Reason: err.Error()}
	}
	if len(raw.ActionSolutions) == 0 {
		return nil, &DecodeError{Section: "action_solutions", Reason: "section absent or empty"}
	}
	if len(raw.PlayersInfo) == 0 {
		return nil, &DecodeError{Section: "players_info", Reason: "section absent or empty"}
	}

	hands := handEnumeration(key, raw.PlayersInfo)

	outcomes := make([]models.ActionOutcome, 0, len(raw.ActionSolutions))
	codes := make([]string, 0, len(raw.ActionSolutions))
	for _, as := range raw.ActionSolutions {
		if as.Action.Code == "" {
			logger.Warn("%s: action entry without code, skipping", key)
			continue
		}
		outcomes = append(outcomes, models.ActionOutcome{
			Code:     as.Action.Code,
			Strategy: as.Strategy,
			EVs:      as.EVs,
			Equity:   as.Equity,
		})
		codes = append(codes, as.Action.Code)
	}
	if len(outcomes) == 0 {
		return nil, &DecodeError{Section: "action_solutions", Reason: "no usable action entries"}
	}
	models.SortActions(codes)

	sol := &Solution{
		Key:     key,
		Hands:   pivotHands(key, hands, outcomes),
		Actions: codes,
	}
	fillTableState(key, &raw, sol)
	return sol, nil
}

// pivotHands turns the per-action parallel arrays into per-hand records and
// reduces each to its best action.
func pivotHands(key models.ScenarioKey, hands []string, outcomes []models.ActionOutcome) []models.HandRecord {
	records := make([]models.HandRecord, 0, len(hands))
	for i, hand := range hands {
		evs := make(map[string]float64, len(outcomes))
		freqs := make(map[string]float64, len(outcomes))
		for _, out := range outcomes {
			if i >= len(out.EVs) {
				continue
			}
			evs[out.Code] = out.EVs[i]
			if i < len(out.Strategy) {
				freqs[out.Code] = out.Strategy[i]
			}
		}
		if len(evs) == 0 {
			logger.Warn("%s: hand %s has no EV data in any action, skipping", key, hand)
			continue
		}

		best := bestAction(evs)
		rec := models.HandRecord{
			Hand:        hand,
			BestAction:  best,
			BestEV:      evs[best],
			ActionEVs:   evs,
			ActionFreqs: freqs,
		}
		rec.Difficulty = difficulty(rec)
		records = append(records, rec)
	}
	return records
}

// bestAction returns the action with maximum EV; ties within evEpsilon fall
// to the earlier action in the fixed priority order. The maximum is found
// first so the result never depends on map iteration order.
func bestAction(evs map[string]float64) string {
	maxEV := math.Inf(-1)
	for _, ev := range evs {
		if ev > maxEV {
			maxEV = ev
		}
	}

	var best string
	for code, ev := range evs {
		if ev < maxEV-evEpsilon {
			continue
		}
		if best == "" || models.CompareActions(code, best) < 0 {
			best = code
		}
	}
	return best
}

// difficulty scores how close a decision is. Smaller values mean harder
// spots: the best action barely beats the alternatives.
//
// When folding is best the cost of the tempting alternative measures the
// trap; when raising is best the raise's own EV measures how thin it is;
// otherwise the gap between the best action and the runner-up.
func difficulty(rec models.HandRecord) float64 {
	altMax := math.Inf(-1)
	for code, ev := range rec.ActionEVs {
		if code != rec.BestAction && ev > altMax {
			altMax = ev
		}
	}
	hasAlt := !math.IsInf(altMax, -1)

	switch {
	case rec.BestAction == "F" || strings.HasPrefix(rec.BestAction, "F"):
		if hasAlt {
			return math.Abs(altMax)
		}
		return 0
	case strings.HasPrefix(rec.BestAction, "R"):
		return rec.BestEV
	default:
		if !hasAlt {
			return math.Abs(rec.BestEV)
		}
		return math.Abs(rec.BestEV - altMax)
	}
}

// handEnumeration returns the scenario's hand order. The export's own order
// (the key order of players_info[0].simple_hand_counters) is authoritative;
// when the section is missing the canonical 169-combo grid order stands in.
func handEnumeration(key models.ScenarioKey, seats []rawSeatInfo) []string {
	for _, seat := range seats {
		if len(seat.SimpleHandCounters) == 0 {
			continue
		}
		hands, err := objectKeyOrder(seat.SimpleHandCounters)
		if err != nil || len(hands) == 0 {
			logger.Warn("%s: unreadable simple_hand_counters: %v", key, err)
			continue
		}
		return hands
	}
	logger.Warn("%s: %v", key, &MissingFieldError{Field: "players_info.simple_hand_counters"})
	return canonicalHandOrder()
}

// objectKeyOrder scans a raw JSON object and returns its keys in document
// order, which encoding/json map decoding would discard.
func objectKeyOrder(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		k, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		keys = append(keys, k)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

var handRanks = []string{"A", "K", "Q", "J", "T", "9", "8", "7", "6", "5", "4", "3", "2"}

// canonicalHandOrder enumerates the 169 abstracted starting hands in standard
// grid order: pairs on the diagonal, suited above, offsuit below.
func canonicalHandOrder() []string {
	out := make([]string, 0, 169)
	for i := 0; i < len(handRanks); i++ {
		for j := 0; j < len(handRanks); j++ {
			switch {
			case i == j:
				out = append(out, handRanks[i]+handRanks[j])
			case j > i:
				out = append(out, handRanks[i]+handRanks[j]+"s")
			default:
				out = append(out, handRanks[j]+handRanks[i]+"o")
			}
		}
	}
	return out
}

// fillTableState extracts the table rendering state from the game section,
// falling back to players_info seats when the game section is absent.
func fillTableState(key models.ScenarioKey, raw *rawExport, sol *Solution) {
	var players []rawPlayer
	if raw.Game != nil {
		sol.Pot = float64(raw.Game.Pot)
		sol.Board = raw.Game.Board
		players = raw.Game.Players
	} else {
		logger.Warn("%s: %v", key, &MissingFieldError{Field: "game"})
	}
	if len(players) == 0 {
		for _, seat := range raw.PlayersInfo {
			if seat.Player != nil {
				players = append(players, *seat.Player)
			}
		}
	}

	activePos := ""
	if raw.Game != nil {
		activePos = raw.Game.ActivePosition
	}

	for i, p := range players {
		pos := p.Position
		if pos == "UTG+2" {
			pos = "MP" // normalized across the app
		}
		stack := float64(p.CurrentStack)
		if stack == 0 {
			stack = float64(p.Stack)
		}
		sol.Players = append(sol.Players, models.PlayerInfo{
			SeatIndex: i,
			Position:  pos,
			Stack:     stack,
			IsHero:    p.IsHero,
			IsActive:  p.IsActive || (activePos != "" && p.Position == activePos),
			IsFolded:  p.IsFolded,
			IsDealer:  p.IsDealer,
		})
	}
}
