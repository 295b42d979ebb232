package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/leaguedesk/leaguedesk/engine"
	"github.com/leaguedesk/leaguedesk/live"
	"github.com/leaguedesk/leaguedesk/models"
	"github.com/leaguedesk/leaguedesk/repositories"
)

// Broadcaster pushes live updates to everyone watching a tournament.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type CreateTournamentInput struct {
	Title     string       `json:"title"`
	Mode      *models.Mode `json:"mode"`
	AllowDraw *bool        `json:"allow_draw"`
	ShowOrder *bool        `json:"show_order"`
}

type UpdateSettingsInput struct {
	Title     *string      `json:"title"`
	Mode      *models.Mode `json:"mode"`
	AllowDraw *bool        `json:"allow_draw"`
	ShowOrder *bool        `json:"show_order"`
}

// AddParticipantResult reports the registered participant and whether the
// name already existed on the roster. Duplicate names are permitted (the
// id is the uniqueness key) but flagged so the UI can warn.
type AddParticipantResult struct {
	Tournament    *models.Tournament `json:"tournament"`
	Participant   models.Participant `json:"participant"`
	DuplicateName bool               `json:"duplicate_name"`
}

// ScheduleView bundles the generated rounds with the pair-to-sequence
// lookup used to annotate the result grid.
type ScheduleView struct {
	Rounds     []engine.RoundSchedule `json:"rounds"`
	MatchOrder map[string]int         `json:"match_order"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error

	UpdateSettings(ctx context.Context, id string, input UpdateSettingsInput) (*models.Tournament, error)
	SetPhase(ctx context.Context, id string, phase models.Phase) (*models.Tournament, error)

	AddParticipant(ctx context.Context, id string, name string) (*AddParticipantResult, error)
	RemoveParticipant(ctx context.Context, id string, participantID string) (*models.Tournament, error)

	RecordResult(ctx context.Context, id, p1, p2 string, scoreA, scoreB *float64) (*models.Tournament, error)
	ClearResult(ctx context.Context, id, p1, p2 string) (*models.Tournament, error)

	Standings(ctx context.Context, id string) ([]engine.Standing, error)
	Schedule(ctx context.Context, id string) (*ScheduleView, error)
}

type tournamentService struct {
	repo   repositories.TournamentRepository
	hub    Broadcaster
	logger *slog.Logger

	// Serializes read-modify-write cycles on snapshots. The snapshot
	// itself is never mutated in place: every change clones it and
	// replaces the stored row wholesale.
	mu sync.Mutex
}

func NewTournamentService(repo repositories.TournamentRepository, hub Broadcaster, logger *slog.Logger) TournamentService {
	return &tournamentService{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	snap := models.DefaultSnapshot()
	snap.Title = input.Title
	if input.Mode != nil {
		if !models.ValidMode(*input.Mode) {
			return nil, ErrInvalidMode
		}
		snap.Mode = *input.Mode
	}
	if input.AllowDraw != nil {
		snap.AllowDraw = *input.AllowDraw
	}
	if input.ShowOrder != nil {
		snap.ShowOrder = *input.ShowOrder
	}

	t := &models.Tournament{
		ID:       uuid.NewString(),
		Snapshot: snap,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created", slog.String("id", t.ID), slog.String("title", t.Title))
	return t, nil
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	return s.repo.List(ctx)
}

func (s *tournamentService) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

func (s *tournamentService) UpdateSettings(ctx context.Context, id string, input UpdateSettingsInput) (*models.Tournament, error) {
	return s.mutate(ctx, id, func(snap *models.Snapshot) error {
		if snap.Phase != models.PhaseSettings {
			return ErrSettingsLocked
		}
		if input.Title != nil {
			if *input.Title == "" {
				return ErrTitleRequired
			}
			snap.Title = *input.Title
		}
		if input.Mode != nil {
			if !models.ValidMode(*input.Mode) {
				return ErrInvalidMode
			}
			snap.Mode = *input.Mode
		}
		if input.AllowDraw != nil {
			snap.AllowDraw = *input.AllowDraw
		}
		if input.ShowOrder != nil {
			snap.ShowOrder = *input.ShowOrder
		}
		return nil
	})
}

// phaseTransitions lists the allowed lifecycle moves: forward one step at a
// time and backward one step at a time.
var phaseTransitions = map[models.Phase][]models.Phase{
	models.PhaseSettings: {models.PhaseRegister},
	models.PhaseRegister: {models.PhaseSettings, models.PhaseMatch},
	models.PhaseMatch:    {models.PhaseRegister},
}

func (s *tournamentService) SetPhase(ctx context.Context, id string, phase models.Phase) (*models.Tournament, error) {
	if !models.ValidPhase(phase) {
		return nil, ErrInvalidPhase
	}
	return s.mutate(ctx, id, func(snap *models.Snapshot) error {
		allowed := false
		for _, next := range phaseTransitions[snap.Phase] {
			if next == phase {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidPhaseTransition, snap.Phase, phase)
		}
		if phase == models.PhaseMatch && len(snap.Players) < 2 {
			return ErrRosterTooSmall
		}
		snap.Phase = phase
		return nil
	})
}

func (s *tournamentService) AddParticipant(ctx context.Context, id string, name string) (*AddParticipantResult, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	var participant models.Participant
	var duplicate bool
	t, err := s.mutate(ctx, id, func(snap *models.Snapshot) error {
		if snap.Phase != models.PhaseRegister {
			return ErrRosterLocked
		}
		if len(snap.Players) >= models.MaxRosterSize {
			return ErrRosterFull
		}
		for _, p := range snap.Players {
			if p.Name == name {
				duplicate = true
				break
			}
		}
		participant = models.Participant{ID: uuid.NewString(), Name: name}
		snap.Players = append(snap.Players, participant)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AddParticipantResult{
		Tournament:    t,
		Participant:   participant,
		DuplicateName: duplicate,
	}, nil
}

func (s *tournamentService) RemoveParticipant(ctx context.Context, id string, participantID string) (*models.Tournament, error) {
	return s.mutate(ctx, id, func(snap *models.Snapshot) error {
		if snap.Phase != models.PhaseRegister {
			return ErrRosterLocked
		}
		idx := -1
		for i, p := range snap.Players {
			if p.ID == participantID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrParticipantNotFound
		}
		snap.Players = append(snap.Players[:idx], snap.Players[idx+1:]...)

		// Results referencing the removed participant are dropped in both
		// key directions.
		for key := range snap.Matches {
			if keyContains(key, participantID) {
				delete(snap.Matches, key)
			}
		}
		return nil
	})
}

// RecordResult stores scores for the pair (p1, p2) from p1's viewpoint.
// If the pair already has a result stored in the opposite direction, the
// stored direction wins and the scores are swapped into it, preserving the
// invariant that each pair occupies exactly one key. Negative scores are
// normalized to "not entered" rather than rejected.
func (s *tournamentService) RecordResult(ctx context.Context, id, p1, p2 string, scoreA, scoreB *float64) (*models.Tournament, error) {
	if p1 == p2 {
		return nil, ErrSelfMatch
	}
	scoreA = normalizeScore(scoreA)
	scoreB = normalizeScore(scoreB)

	return s.mutate(ctx, id, func(snap *models.Snapshot) error {
		if snap.Phase != models.PhaseMatch {
			return ErrResultsLocked
		}
		if !rosterHas(snap.Players, p1) || !rosterHas(snap.Players, p2) {
			return ErrParticipantNotFound
		}

		reverse := engine.PairKey(p2, p1)
		if _, ok := snap.Matches[reverse]; ok {
			snap.Matches[reverse] = models.MatchResult{ScoreA: scoreB, ScoreB: scoreA}
			return nil
		}
		snap.Matches[engine.PairKey(p1, p2)] = models.MatchResult{ScoreA: scoreA, ScoreB: scoreB}
		return nil
	})
}

func (s *tournamentService) ClearResult(ctx context.Context, id, p1, p2 string) (*models.Tournament, error) {
	return s.mutate(ctx, id, func(snap *models.Snapshot) error {
		if snap.Phase != models.PhaseMatch {
			return ErrResultsLocked
		}
		forward, reverse := engine.PairKey(p1, p2), engine.PairKey(p2, p1)
		if _, ok := snap.Matches[forward]; ok {
			delete(snap.Matches, forward)
			return nil
		}
		if _, ok := snap.Matches[reverse]; ok {
			delete(snap.Matches, reverse)
			return nil
		}
		return ErrNotFound
	})
}

func (s *tournamentService) Standings(ctx context.Context, id string) ([]engine.Standing, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return engine.ComputeStandings(t.Players, t.Matches, t.Mode, t.AllowDraw), nil
}

func (s *tournamentService) Schedule(ctx context.Context, id string) (*ScheduleView, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rounds := engine.GenerateSchedule(t.Players)
	return &ScheduleView{
		Rounds:     rounds,
		MatchOrder: engine.MatchOrderMap(rounds),
	}, nil
}

// mutate runs one read-modify-write cycle: load the snapshot, apply fn to
// a clone, persist the clone wholesale, then broadcast the recomputed
// views to the tournament's room.
func (s *tournamentService) mutate(ctx context.Context, id string, fn func(*models.Snapshot) error) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := t.Snapshot.Clone()
	if err := fn(&snap); err != nil {
		return nil, err
	}

	updatedAt, err := s.repo.SaveSnapshot(ctx, id, snap)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to save snapshot for tournament %s: %w", id, err)
	}
	t.Snapshot = snap
	t.UpdatedAt = updatedAt

	s.broadcast(t)
	return t, nil
}

func (s *tournamentService) broadcast(t *models.Tournament) {
	if s.hub == nil {
		return
	}
	standings := engine.ComputeStandings(t.Players, t.Matches, t.Mode, t.AllowDraw)
	rounds := engine.GenerateSchedule(t.Players)

	s.hub.BroadcastToRoom(t.ID, live.Message{
		Type: "TOURNAMENT_UPDATED",
		Payload: map[string]interface{}{
			"tournament": t,
			"standings":  standings,
			"schedule": ScheduleView{
				Rounds:     rounds,
				MatchOrder: engine.MatchOrderMap(rounds),
			},
		},
		RoomID: t.ID,
	})
}

func normalizeScore(v *float64) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}

func rosterHas(players []models.Participant, id string) bool {
	for _, p := range players {
		if p.ID == id {
			return true
		}
	}
	return false
}

func keyContains(key, participantID string) bool {
	a, b, ok := splitKey(key)
	return ok && (a == participantID || b == participantID)
}

func splitKey(key string) (string, string, bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
