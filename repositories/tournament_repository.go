package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/leaguedesk/leaguedesk/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

// TournamentRepository is a key-value snapshot store: one row per
// tournament, holding the full serialized state. The snapshot is read at
// the start of an operation and replaced wholesale after every change.
type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	SaveSnapshot(ctx context.Context, id string, snap models.Snapshot) (time.Time, error)
	Delete(ctx context.Context, id string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	data, err := json.Marshal(t.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for tournament %s: %w", t.ID, err)
	}

	query := `
		INSERT INTO tournaments (id, snapshot)
		VALUES ($1, $2)
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query, t.ID, data).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tournament %s: %w", t.ID, err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `
		SELECT id, snapshot, created_at, updated_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	var data []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &data, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %s: %w", id, err)
	}

	// Malformed fields fall back to defaults rather than failing the load.
	t.Snapshot = models.DecodeSnapshot(data)
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	query := `
		SELECT id, snapshot, created_at, updated_at
		FROM tournaments
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t := &models.Tournament{}
		var data []byte
		if scanErr := rows.Scan(&t.ID, &data, &t.CreatedAt, &t.UpdatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		t.Snapshot = models.DecodeSnapshot(data)
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) SaveSnapshot(ctx context.Context, id string, snap models.Snapshot) (time.Time, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to marshal snapshot for tournament %s: %w", id, err)
	}

	query := `
		UPDATE tournaments
		SET snapshot = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	var updatedAt time.Time
	err = r.db.QueryRowContext(ctx, query, id, data).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrTournamentNotFound
		}
		return time.Time{}, fmt.Errorf("failed to save snapshot for tournament %s: %w", id, err)
	}
	return updatedAt, nil
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
