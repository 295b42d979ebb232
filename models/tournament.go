package models

import (
	"encoding/json"
	"time"
)

// Mode selects how match results are interpreted.
type Mode string

const (
	ModeScore   Mode = "score"    // numeric scores, e.g. goals
	ModeWinLoss Mode = "win-loss" // categorical 1 / 0.5 / 0
)

// Phase represents the tournament lifecycle stage the UI is in.
type Phase string

const (
	PhaseSettings Phase = "settings"
	PhaseRegister Phase = "register"
	PhaseMatch    Phase = "match"
)

// Snapshot is the complete persisted state of one tournament. It is the
// unit of persistence: loaded at the start of an operation and replaced
// wholesale after every change.
type Snapshot struct {
	Title     string        `json:"title"`
	Mode      Mode          `json:"mode"`
	AllowDraw bool          `json:"allow_draw"`
	ShowOrder bool          `json:"show_order"`
	Players   []Participant `json:"players"`
	Matches   ResultMap     `json:"matches"`
	Phase     Phase         `json:"phase"`
}

// Tournament is a snapshot together with its identity and bookkeeping
// timestamps, as surfaced by the repository.
type Tournament struct {
	ID string `json:"id"`
	Snapshot
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSnapshot returns the state a tournament starts from, and the state
// every malformed snapshot field falls back to.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Title:     "",
		Mode:      ModeScore,
		AllowDraw: true,
		ShowOrder: true,
		Players:   []Participant{},
		Matches:   ResultMap{},
		Phase:     PhaseSettings,
	}
}

// Clone returns a deep copy of the snapshot. Mutations always operate on a
// copy and replace the stored snapshot wholesale, never in place.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Players = make([]Participant, len(s.Players))
	copy(out.Players, s.Players)
	out.Matches = make(ResultMap, len(s.Matches))
	for k, v := range s.Matches {
		r := MatchResult{}
		if v.ScoreA != nil {
			a := *v.ScoreA
			r.ScoreA = &a
		}
		if v.ScoreB != nil {
			b := *v.ScoreB
			r.ScoreB = &b
		}
		out.Matches[k] = r
	}
	return out
}

// ValidMode reports whether m is one of the known scoring modes.
func ValidMode(m Mode) bool {
	return m == ModeScore || m == ModeWinLoss
}

// ValidPhase reports whether p is one of the known lifecycle phases.
func ValidPhase(p Phase) bool {
	return p == PhaseSettings || p == PhaseRegister || p == PhaseMatch
}

// DecodeSnapshot unmarshals a persisted snapshot defensively. Each field is
// validated independently; an invalid or missing field falls back to its
// default instead of failing the load, so a partially corrupted row still
// produces a usable tournament.
func DecodeSnapshot(data []byte) Snapshot {
	snap := DefaultSnapshot()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return snap
	}

	var title string
	if err := json.Unmarshal(raw["title"], &title); err == nil {
		snap.Title = title
	}

	var mode Mode
	if err := json.Unmarshal(raw["mode"], &mode); err == nil && ValidMode(mode) {
		snap.Mode = mode
	}

	var b bool
	if err := json.Unmarshal(raw["allow_draw"], &b); err == nil {
		snap.AllowDraw = b
	}
	if err := json.Unmarshal(raw["show_order"], &b); err == nil {
		snap.ShowOrder = b
	}

	var players []Participant
	if err := json.Unmarshal(raw["players"], &players); err == nil {
		for _, p := range players {
			if p.ID == "" {
				continue
			}
			snap.Players = append(snap.Players, p)
			if len(snap.Players) == MaxRosterSize {
				break
			}
		}
	}

	var matches ResultMap
	if err := json.Unmarshal(raw["matches"], &matches); err == nil {
		for k, v := range matches {
			snap.Matches[k] = v
		}
	}

	var phase Phase
	if err := json.Unmarshal(raw["phase"], &phase); err == nil && ValidPhase(phase) {
		snap.Phase = phase
	}

	return snap
}
