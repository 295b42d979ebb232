package engine

import "github.com/leaguedesk/leaguedesk/models"

// byeID marks the synthetic placeholder appended to odd rosters. It never
// accrues stats and never appears in real-match listings.
const byeID = "__bye__"

// ScheduledMatch is one pairing within a round. ParticipantB is nil for a
// bye, in which case ParticipantA is the resting participant. Sequence
// numbers are assigned to real matches only.
type ScheduledMatch struct {
	SequenceNumber *int                `json:"sequence_number,omitempty"`
	ParticipantA   models.Participant  `json:"participant_a"`
	ParticipantB   *models.Participant `json:"participant_b,omitempty"`
	IsBye          bool                `json:"is_bye"`
}

// RoundSchedule is one round of the generated schedule, 1-based.
type RoundSchedule struct {
	RoundNumber int              `json:"round_number"`
	Matches     []ScheduledMatch `json:"matches"`
}

// GenerateSchedule produces the full round-robin schedule for the roster
// using the circle method: one participant is fixed as an anchor and the
// rest rotate around it, one rotation per round. Odd rosters get a
// synthetic bye slot. Across all rounds every unordered pair of real
// participants meets exactly once, and within each round every real
// participant appears exactly once, possibly as the resting participant.
//
// A roster with fewer than two participants yields an empty schedule.
func GenerateSchedule(players []models.Participant) []RoundSchedule {
	if len(players) < 2 {
		return []RoundSchedule{}
	}

	working := make([]models.Participant, len(players))
	copy(working, players)
	if len(working)%2 != 0 {
		working = append(working, models.Participant{ID: byeID})
	}

	n := len(working)
	half := n / 2
	anchor := working[0]
	rotating := make([]models.Participant, n-1)
	copy(rotating, working[1:])

	rounds := make([]RoundSchedule, 0, n-1)
	seq := 0

	for round := 1; round <= n-1; round++ {
		matches := make([]ScheduledMatch, 0, half)
		matches = append(matches, newMatch(anchor, rotating[len(rotating)-1], &seq))
		for i := 0; i < half-1; i++ {
			matches = append(matches, newMatch(rotating[i], rotating[len(rotating)-2-i], &seq))
		}

		// Cosmetic display ordering: real matches first, byes last. The
		// sequence numbers above are already fixed and unaffected.
		stablePartition(matches)

		rounds = append(rounds, RoundSchedule{RoundNumber: round, Matches: matches})

		// Rotate: move the last element to the front of the rotating list.
		last := rotating[len(rotating)-1]
		copy(rotating[1:], rotating[:len(rotating)-1])
		rotating[0] = last
	}

	return rounds
}

// newMatch builds one pairing, normalizing byes so the real participant is
// always in the first slot, and assigns the next sequence number to real
// matches. The counter continues across rounds and never resets.
func newMatch(a, b models.Participant, seq *int) ScheduledMatch {
	if b.ID == byeID {
		return ScheduledMatch{ParticipantA: a, IsBye: true}
	}
	if a.ID == byeID {
		return ScheduledMatch{ParticipantA: b, IsBye: true}
	}
	*seq++
	num := *seq
	opponent := b
	return ScheduledMatch{SequenceNumber: &num, ParticipantA: a, ParticipantB: &opponent}
}

func stablePartition(matches []ScheduledMatch) {
	real := make([]ScheduledMatch, 0, len(matches))
	byes := make([]ScheduledMatch, 0, 1)
	for _, m := range matches {
		if m.IsBye {
			byes = append(byes, m)
		} else {
			real = append(real, m)
		}
	}
	copy(matches, append(real, byes...))
}

// MatchOrderMap maps every scheduled pair to its sequence number, keyed
// under both id orders so callers can annotate a result grid cell without
// caring which direction they hold the pair in.
func MatchOrderMap(rounds []RoundSchedule) map[string]int {
	order := make(map[string]int)
	for _, round := range rounds {
		for _, m := range round.Matches {
			if m.IsBye || m.SequenceNumber == nil {
				continue
			}
			order[PairKey(m.ParticipantA.ID, m.ParticipantB.ID)] = *m.SequenceNumber
			order[PairKey(m.ParticipantB.ID, m.ParticipantA.ID)] = *m.SequenceNumber
		}
	}
	return order
}
