package models

// MaxRosterSize caps the number of participants in a single tournament.
const MaxRosterSize = 10

// Participant is a registered tournament entrant. The ID is the uniqueness
// key throughout the system; names may repeat.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
