package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already exists for this sport")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Team, error)
	UpdateRecord(ctx context.Context, exec SQLExecutor, teamID int, record models.TeamRecord) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, name, sport, played, won, drawn, lost, goals_for, goals_against, created_at`

func scanTeam(row interface{ Scan(...interface{}) error }) (*models.Team, error) {
	t := &models.Team{}
	err := row.Scan(
		&t.ID, &t.Name, &t.Sport,
		&t.Record.Played, &t.Record.Won, &t.Record.Drawn, &t.Record.Lost,
		&t.Record.GoalsFor, &t.Record.GoalsAgainst, &t.CreatedAt,
	)
	return t, err
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `INSERT INTO teams (name, sport) VALUES ($1, $2) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, team.Name, team.Sport).Scan(&team.ID, &team.CreatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	t, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListByIDs returns the teams that exist among ids, ordered by id.
func (r *postgresTeamRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Team, error) {
	teams := make([]*models.Team, 0, len(ids))
	if len(ids) == 0 {
		return teams, nil
	}
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1) ORDER BY id`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan team: %w", scanErr)
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

// UpdateRecord overwrites the stored aggregate with a freshly computed one.
func (r *postgresTeamRepository) UpdateRecord(ctx context.Context, exec SQLExecutor, teamID int, rec models.TeamRecord) error {
	query := `
		UPDATE teams SET
			played = $1, won = $2, drawn = $3, lost = $4, goals_for = $5, goals_against = $6
		WHERE id = $7`
	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		rec.Played, rec.Won, rec.Drawn, rec.Lost, rec.GoalsFor, rec.GoalsAgainst, teamID)
	if err != nil {
		return fmt.Errorf("failed to update record of team %d: %w", teamID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "teams_sport_name_key" {
		return ErrTeamNameConflict
	}
	return err
}
