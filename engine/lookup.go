// Package engine implements the round-robin scheduling and ranking core:
// result-map normalization, the match confirmation rule, standings
// aggregation with tie-breaks, and circle-method schedule generation.
// Everything in this package is a pure function of its inputs.
package engine

import "github.com/leaguedesk/leaguedesk/models"

// PairKey builds the result-map key for an ordered id pair.
func PairKey(a, b string) string {
	return a + "|" + b
}

// Score is a recorded result normalized to a caller-chosen viewpoint:
// A is the first requested participant's score, B the second's.
type Score struct {
	A *float64
	B *float64
}

// Lookup returns the recorded scores for (p1, p2) from p1's viewpoint.
// Results are stored under exactly one of the two possible key directions,
// so both are consulted and a reverse-stored result is swapped before
// being returned. This is the single source of truth for result lookup;
// every statistic, tie-break and schedule row goes through it.
func Lookup(results models.ResultMap, p1, p2 string) (Score, bool) {
	if r, ok := results[PairKey(p1, p2)]; ok {
		return Score{A: r.ScoreA, B: r.ScoreB}, true
	}
	if r, ok := results[PairKey(p2, p1)]; ok {
		return Score{A: r.ScoreB, B: r.ScoreA}, true
	}
	return Score{}, false
}
