package engine

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/leaguedesk/leaguedesk/models"
)

// Standing is one participant's aggregate line in the ranked table.
// Goal columns are only populated in score mode.
type Standing struct {
	Participant  models.Participant `json:"participant"`
	Rank         int                `json:"rank"`
	Played       int                `json:"played"`
	Wins         int                `json:"wins"`
	Draws        int                `json:"draws"`
	Losses       int                `json:"losses"`
	GoalsFor     float64            `json:"goals_for"`
	GoalsAgainst float64            `json:"goals_against"`
	GoalDiff     float64            `json:"goal_diff"`
	Points       int                `json:"points"`
}

// ComputeStandings aggregates all confirmed results into per-participant
// statistics and ranks them. It is a pure function of the roster and the
// result map and is recomputed from scratch on every read.
func ComputeStandings(players []models.Participant, results models.ResultMap, mode models.Mode, allowDraw bool) []Standing {
	standings := make([]Standing, len(players))
	index := make(map[string]*Standing, len(players))
	for i, p := range players {
		standings[i] = Standing{Participant: p}
		index[p.ID] = &standings[i]
	}

	// Each unordered pair is visited exactly once so no match is
	// double-counted.
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			a, b := players[i].ID, players[j].ID
			if !IsConfirmed(results, a, b, mode, allowDraw) {
				continue
			}
			score, _ := Lookup(results, a, b)
			accumulate(index[a], *score.A, *score.B, mode)
			accumulate(index[b], *score.B, *score.A, mode)
		}
	}

	for i := range standings {
		standings[i].GoalDiff = standings[i].GoalsFor - standings[i].GoalsAgainst
	}

	rankStandings(standings, results, mode, allowDraw)
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

func accumulate(s *Standing, own, opp float64, mode models.Mode) {
	s.Played++
	outcome := OutcomeOf(own, opp)
	s.Points += outcome.Points()
	switch outcome {
	case Win:
		s.Wins++
	case Draw:
		s.Draws++
	case Loss:
		s.Losses++
	}
	if mode == models.ModeScore {
		s.GoalsFor += own
		s.GoalsAgainst += opp
	}
}

// rankStandings sorts the table into a total order. Each rule applies only
// when every preceding rule ties. Head-to-head is consulted strictly
// between the two participants being compared, never transitively, which
// keeps the comparator free of cycles.
func rankStandings(standings []Standing, results models.ResultMap, mode models.Mode, allowDraw bool) {
	coll := collate.New(language.Und)

	sort.SliceStable(standings, func(i, j int) bool {
		x, y := standings[i], standings[j]

		if mode == models.ModeScore {
			if x.Points != y.Points {
				return x.Points > y.Points
			}
			if x.Losses != y.Losses {
				return x.Losses < y.Losses
			}
			if res, decided := headToHead(results, x.Participant.ID, y.Participant.ID, mode, allowDraw); decided {
				return res
			}
			if x.GoalDiff != y.GoalDiff {
				return x.GoalDiff > y.GoalDiff
			}
			if x.GoalsFor != y.GoalsFor {
				return x.GoalsFor > y.GoalsFor
			}
			if x.Wins != y.Wins {
				return x.Wins > y.Wins
			}
		} else {
			if x.Wins != y.Wins {
				return x.Wins > y.Wins
			}
			if res, decided := headToHead(results, x.Participant.ID, y.Participant.ID, mode, allowDraw); decided {
				return res
			}
			if x.Losses != y.Losses {
				return x.Losses < y.Losses
			}
		}

		if c := coll.CompareString(x.Participant.Name, y.Participant.Name); c != 0 {
			return c < 0
		}
		// Identical names: fall back to the opaque id so the order never
		// depends on roster insertion order.
		return x.Participant.ID < y.Participant.ID
	})
}

// headToHead reports whether x ranks above y based on their direct match.
// A confirmed draw (or no confirmed match at all) decides nothing.
func headToHead(results models.ResultMap, x, y string, mode models.Mode, allowDraw bool) (xFirst, decided bool) {
	if !IsConfirmed(results, x, y, mode, allowDraw) {
		return false, false
	}
	score, _ := Lookup(results, x, y)
	switch OutcomeOf(*score.A, *score.B) {
	case Win:
		return true, true
	case Loss:
		return false, true
	default:
		return false, false
	}
}
