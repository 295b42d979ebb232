package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshotComplete(t *testing.T) {
	data := []byte(`{
		"title": "Office League",
		"mode": "win-loss",
		"allow_draw": false,
		"show_order": false,
		"players": [{"id": "p1", "name": "Alice"}, {"id": "p2", "name": "Bob"}],
		"matches": {"p1|p2": {"scoreA": 1, "scoreB": 0}},
		"phase": "match"
	}`)

	snap := DecodeSnapshot(data)
	assert.Equal(t, "Office League", snap.Title)
	assert.Equal(t, ModeWinLoss, snap.Mode)
	assert.False(t, snap.AllowDraw)
	assert.False(t, snap.ShowOrder)
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "Alice", snap.Players[0].Name)
	assert.Equal(t, PhaseMatch, snap.Phase)

	result, ok := snap.Matches["p1|p2"]
	require.True(t, ok)
	require.NotNil(t, result.ScoreA)
	assert.Equal(t, 1.0, *result.ScoreA)
}

// Each field falls back independently; one malformed field never poisons
// the rest of the snapshot.
func TestDecodeSnapshotFieldFallbacks(t *testing.T) {
	data := []byte(`{
		"title": 42,
		"mode": "best-of-five",
		"allow_draw": "yes",
		"players": [{"id": "p1", "name": "Alice"}, {"name": "no id"}],
		"matches": "not a map",
		"phase": "halftime"
	}`)

	snap := DecodeSnapshot(data)
	assert.Equal(t, "", snap.Title)
	assert.Equal(t, ModeScore, snap.Mode)
	assert.True(t, snap.AllowDraw)
	assert.True(t, snap.ShowOrder)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "p1", snap.Players[0].ID)
	assert.Empty(t, snap.Matches)
	assert.Equal(t, PhaseSettings, snap.Phase)
}

func TestDecodeSnapshotGarbage(t *testing.T) {
	assert.Equal(t, DefaultSnapshot(), DecodeSnapshot([]byte("not json at all")))
	assert.Equal(t, DefaultSnapshot(), DecodeSnapshot(nil))
}

func TestDecodeSnapshotRosterCap(t *testing.T) {
	data := []byte(`{"players": [
		{"id":"1","name":"a"},{"id":"2","name":"b"},{"id":"3","name":"c"},
		{"id":"4","name":"d"},{"id":"5","name":"e"},{"id":"6","name":"f"},
		{"id":"7","name":"g"},{"id":"8","name":"h"},{"id":"9","name":"i"},
		{"id":"10","name":"j"},{"id":"11","name":"k"},{"id":"12","name":"l"}
	]}`)

	snap := DecodeSnapshot(data)
	assert.Len(t, snap.Players, MaxRosterSize)
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	score := 3.0
	snap := Snapshot{
		Players: []Participant{{ID: "p1", Name: "Alice"}},
		Matches: ResultMap{"p1|p2": {ScoreA: &score}},
	}

	clone := snap.Clone()
	clone.Players[0].Name = "Eve"
	*clone.Matches["p1|p2"].ScoreA = 99

	assert.Equal(t, "Alice", snap.Players[0].Name)
	assert.Equal(t, 3.0, *snap.Matches["p1|p2"].ScoreA)
}
