package models

// MatchResult holds the recorded scores for one pair of participants.
// ScoreA belongs to the first id of the key the result is stored under,
// ScoreB to the second. A nil score means "not entered".
//
// In win/loss mode scores are categorical: 1 (win), 0.5 (draw), 0 (loss),
// always from the keyed participant's viewpoint.
type MatchResult struct {
	ScoreA *float64 `json:"scoreA"`
	ScoreB *float64 `json:"scoreB"`
}

// ResultMap is the sparse match-result store. Each unordered pair of
// participants occupies at most one key, in whichever direction the result
// was first written. Lookups must always consult both directions.
type ResultMap map[string]MatchResult
