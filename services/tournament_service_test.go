package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguedesk/leaguedesk/engine"
	"github.com/leaguedesk/leaguedesk/models"
	"github.com/leaguedesk/leaguedesk/repositories"
)

// fakeTournamentRepository keeps snapshots in a map, standing in for the
// Postgres store.
type fakeTournamentRepository struct {
	rows map[string]*models.Tournament
}

func newFakeRepo() *fakeTournamentRepository {
	return &fakeTournamentRepository{rows: make(map[string]*models.Tournament)}
}

func (r *fakeTournamentRepository) Create(_ context.Context, t *models.Tournament) error {
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	stored := *t
	stored.Snapshot = t.Snapshot.Clone()
	r.rows[t.ID] = &stored
	return nil
}

func (r *fakeTournamentRepository) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	stored, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	out := *stored
	out.Snapshot = stored.Snapshot.Clone()
	return &out, nil
}

func (r *fakeTournamentRepository) List(_ context.Context) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0, len(r.rows))
	for id := range r.rows {
		t, _ := r.GetByID(context.Background(), id)
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTournamentRepository) SaveSnapshot(_ context.Context, id string, snap models.Snapshot) (time.Time, error) {
	stored, ok := r.rows[id]
	if !ok {
		return time.Time{}, repositories.ErrTournamentNotFound
	}
	stored.Snapshot = snap.Clone()
	stored.UpdatedAt = time.Now()
	return stored.UpdatedAt, nil
}

func (r *fakeTournamentRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.rows, id)
	return nil
}

// recordingBroadcaster counts room broadcasts.
type recordingBroadcaster struct {
	rooms []string
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, _ interface{}) {
	b.rooms = append(b.rooms, roomID)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() (TournamentService, *recordingBroadcaster) {
	hub := &recordingBroadcaster{}
	return NewTournamentService(newFakeRepo(), hub, discardLogger()), hub
}

func modePtr(m models.Mode) *models.Mode { return &m }
func boolPtr(b bool) *bool               { return &b }
func scorePtr(v float64) *float64        { return &v }

func createMatchReady(t *testing.T, svc TournamentService, playerNames ...string) (*models.Tournament, []models.Participant) {
	t.Helper()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{Title: "Test Cup"})
	require.NoError(t, err)

	_, err = svc.SetPhase(ctx, created.ID, models.PhaseRegister)
	require.NoError(t, err)

	participants := make([]models.Participant, 0, len(playerNames))
	for _, name := range playerNames {
		result, err := svc.AddParticipant(ctx, created.ID, name)
		require.NoError(t, err)
		participants = append(participants, result.Participant)
	}

	tournament, err := svc.SetPhase(ctx, created.ID, models.PhaseMatch)
	require.NoError(t, err)
	return tournament, participants
}

func TestCreateTournamentDefaults(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateTournamentInput{Title: "Friday League"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.ModeScore, created.Mode)
	assert.True(t, created.AllowDraw)
	assert.True(t, created.ShowOrder)
	assert.Equal(t, models.PhaseSettings, created.Phase)
	assert.Empty(t, created.Players)
}

func TestCreateTournamentValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTournamentInput{})
	assert.ErrorIs(t, err, ErrTitleRequired)

	bad := models.Mode("swiss")
	_, err = svc.Create(ctx, CreateTournamentInput{Title: "x", Mode: &bad})
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestPhaseTransitions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{Title: "Cup"})
	require.NoError(t, err)

	// settings -> match skips a step.
	_, err = svc.SetPhase(ctx, created.ID, models.PhaseMatch)
	assert.ErrorIs(t, err, ErrInvalidPhaseTransition)

	updated, err := svc.SetPhase(ctx, created.ID, models.PhaseRegister)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseRegister, updated.Phase)

	// register -> match requires two participants.
	_, err = svc.SetPhase(ctx, created.ID, models.PhaseMatch)
	assert.ErrorIs(t, err, ErrRosterTooSmall)

	_, err = svc.AddParticipant(ctx, created.ID, "Alice")
	require.NoError(t, err)
	_, err = svc.AddParticipant(ctx, created.ID, "Bob")
	require.NoError(t, err)

	updated, err = svc.SetPhase(ctx, created.ID, models.PhaseMatch)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseMatch, updated.Phase)

	// Backwards one step works.
	updated, err = svc.SetPhase(ctx, created.ID, models.PhaseRegister)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseRegister, updated.Phase)
}

func TestUpdateSettingsOnlyInSettingsPhase(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{Title: "Cup"})
	require.NoError(t, err)

	updated, err := svc.UpdateSettings(ctx, created.ID, UpdateSettingsInput{
		Mode:      modePtr(models.ModeWinLoss),
		AllowDraw: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModeWinLoss, updated.Mode)
	assert.False(t, updated.AllowDraw)

	_, err = svc.SetPhase(ctx, created.ID, models.PhaseRegister)
	require.NoError(t, err)

	_, err = svc.UpdateSettings(ctx, created.ID, UpdateSettingsInput{Title: titlePtr("Renamed")})
	assert.ErrorIs(t, err, ErrSettingsLocked)
}

func titlePtr(s string) *string { return &s }

func TestAddParticipantDuplicateNameFlagged(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{Title: "Cup"})
	require.NoError(t, err)
	_, err = svc.SetPhase(ctx, created.ID, models.PhaseRegister)
	require.NoError(t, err)

	first, err := svc.AddParticipant(ctx, created.ID, "Alice")
	require.NoError(t, err)
	assert.False(t, first.DuplicateName)

	second, err := svc.AddParticipant(ctx, created.ID, "Alice")
	require.NoError(t, err)
	assert.True(t, second.DuplicateName)
	assert.NotEqual(t, first.Participant.ID, second.Participant.ID)
	assert.Len(t, second.Tournament.Players, 2)
}

func TestAddParticipantRosterCap(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTournamentInput{Title: "Cup"})
	require.NoError(t, err)
	_, err = svc.SetPhase(ctx, created.ID, models.PhaseRegister)
	require.NoError(t, err)

	for i := 0; i < models.MaxRosterSize; i++ {
		_, err := svc.AddParticipant(ctx, created.ID, fmt.Sprintf("Player %d", i+1))
		require.NoError(t, err)
	}

	_, err = svc.AddParticipant(ctx, created.ID, "One Too Many")
	assert.ErrorIs(t, err, ErrRosterFull)
}

func TestRemoveParticipantDropsResults(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tournament, players := createMatchReady(t, svc, "Alice", "Bob", "Carol")
	alice, bob, carol := players[0], players[1], players[2]

	_, err := svc.RecordResult(ctx, tournament.ID, alice.ID, bob.ID, scorePtr(3), scorePtr(1))
	require.NoError(t, err)
	_, err = svc.RecordResult(ctx, tournament.ID, bob.ID, carol.ID, scorePtr(2), scorePtr(2))
	require.NoError(t, err)

	_, err = svc.SetPhase(ctx, tournament.ID, models.PhaseRegister)
	require.NoError(t, err)
	updated, err := svc.RemoveParticipant(ctx, tournament.ID, bob.ID)
	require.NoError(t, err)

	assert.Len(t, updated.Players, 2)
	assert.Empty(t, updated.Matches, "all of bob's results must be dropped")
}

func TestRecordResultViewpointAndOverwrite(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tournament, players := createMatchReady(t, svc, "Alice", "Bob")
	alice, bob := players[0], players[1]

	updated, err := svc.RecordResult(ctx, tournament.ID, alice.ID, bob.ID, scorePtr(3), scorePtr(1))
	require.NoError(t, err)

	score, ok := engine.Lookup(updated.Matches, alice.ID, bob.ID)
	require.True(t, ok)
	assert.Equal(t, 3.0, *score.A)
	assert.Equal(t, 1.0, *score.B)

	// Overwriting from the other viewpoint keeps the originally stored
	// direction: exactly one key per pair.
	updated, err = svc.RecordResult(ctx, tournament.ID, bob.ID, alice.ID, scorePtr(5), scorePtr(0))
	require.NoError(t, err)
	require.Len(t, updated.Matches, 1)
	_, storedForward := updated.Matches[engine.PairKey(alice.ID, bob.ID)]
	assert.True(t, storedForward)

	score, ok = engine.Lookup(updated.Matches, bob.ID, alice.ID)
	require.True(t, ok)
	assert.Equal(t, 5.0, *score.A)
	assert.Equal(t, 0.0, *score.B)
}

func TestRecordResultNormalizesInvalidScores(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tournament, players := createMatchReady(t, svc, "Alice", "Bob")

	updated, err := svc.RecordResult(ctx, tournament.ID, players[0].ID, players[1].ID, scorePtr(-2), scorePtr(4))
	require.NoError(t, err)

	score, ok := engine.Lookup(updated.Matches, players[0].ID, players[1].ID)
	require.True(t, ok)
	assert.Nil(t, score.A, "negative scores normalize to not-entered")
	require.NotNil(t, score.B)

	standings, err := svc.Standings(ctx, tournament.ID)
	require.NoError(t, err)
	for _, s := range standings {
		assert.Zero(t, s.Played, "partial results stay unconfirmed")
	}
}

func TestRecordResultValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tournament, players := createMatchReady(t, svc, "Alice", "Bob")

	_, err := svc.RecordResult(ctx, tournament.ID, players[0].ID, players[0].ID, scorePtr(1), scorePtr(0))
	assert.ErrorIs(t, err, ErrSelfMatch)

	_, err = svc.RecordResult(ctx, tournament.ID, players[0].ID, "ghost", scorePtr(1), scorePtr(0))
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	_, err = svc.SetPhase(ctx, tournament.ID, models.PhaseRegister)
	require.NoError(t, err)
	_, err = svc.RecordResult(ctx, tournament.ID, players[0].ID, players[1].ID, scorePtr(1), scorePtr(0))
	assert.ErrorIs(t, err, ErrResultsLocked)
}

func TestClearResult(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tournament, players := createMatchReady(t, svc, "Alice", "Bob")
	alice, bob := players[0], players[1]

	_, err := svc.RecordResult(ctx, tournament.ID, alice.ID, bob.ID, scorePtr(3), scorePtr(1))
	require.NoError(t, err)

	// Clearing works from either viewpoint.
	updated, err := svc.ClearResult(ctx, tournament.ID, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Matches)

	_, err = svc.ClearResult(ctx, tournament.ID, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStandingsAndScheduleViews(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tournament, players := createMatchReady(t, svc, "Alice", "Bob", "Carol")

	_, err := svc.RecordResult(ctx, tournament.ID, players[0].ID, players[1].ID, scorePtr(2), scorePtr(0))
	require.NoError(t, err)

	standings, err := svc.Standings(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, "Alice", standings[0].Participant.Name)
	assert.Equal(t, 1, standings[0].Rank)

	schedule, err := svc.Schedule(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, schedule.Rounds, 3)
	// Every pair appears under both key directions.
	assert.Len(t, schedule.MatchOrder, 2*3)
}

func TestMutationsBroadcastToRoom(t *testing.T) {
	svc, hub := newTestService()
	ctx := context.Background()

	tournament, players := createMatchReady(t, svc, "Alice", "Bob")
	broadcastsBefore := len(hub.rooms)

	_, err := svc.RecordResult(ctx, tournament.ID, players[0].ID, players[1].ID, scorePtr(1), scorePtr(0))
	require.NoError(t, err)

	require.Len(t, hub.rooms, broadcastsBefore+1)
	assert.Equal(t, tournament.ID, hub.rooms[len(hub.rooms)-1])
}

func TestGetByIDUnknownTournament(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	err = svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
