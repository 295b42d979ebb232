package engine

import "github.com/leaguedesk/leaguedesk/models"

// Outcome is one side's result of a confirmed match.
type Outcome int

const (
	Loss Outcome = iota
	Draw
	Win
)

// drawSentinel marks a draw in win/loss mode, where scores are categorical
// (1 win, 0.5 draw, 0 loss) rather than numeric.
const drawSentinel = 0.5

const (
	pointsWin  = 3
	pointsDraw = 1
	pointsLoss = 0
)

// OutcomeOf compares the acting participant's score a against the
// opponent's score b. OutcomeOf(a, b) and OutcomeOf(b, a) are always
// logical opposites, or both Draw. The comparison holds for both modes:
// in win/loss mode the categorical encodings order the same way.
func OutcomeOf(a, b float64) Outcome {
	switch {
	case a > b:
		return Win
	case a < b:
		return Loss
	default:
		return Draw
	}
}

// Points returns the league points awarded for the outcome.
func (o Outcome) Points() int {
	switch o {
	case Win:
		return pointsWin
	case Draw:
		return pointsDraw
	default:
		return pointsLoss
	}
}

// IsConfirmed reports whether the pair's recorded result counts toward
// standings. A result is confirmed when both scores are present and,
// if draws are disallowed, the result is not a draw. In score mode a draw
// is score equality; in win/loss mode it is the 0.5 sentinel on either
// side. Unconfirmed results still display in the schedule view, they just
// contribute nothing to any statistic.
func IsConfirmed(results models.ResultMap, p1, p2 string, mode models.Mode, allowDraw bool) bool {
	score, ok := Lookup(results, p1, p2)
	if !ok || score.A == nil || score.B == nil {
		return false
	}
	if allowDraw {
		return true
	}
	if mode == models.ModeWinLoss {
		return *score.A != drawSentinel && *score.B != drawSentinel
	}
	return *score.A != *score.B
}
