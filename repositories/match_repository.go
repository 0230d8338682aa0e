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
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchUIDConflict = errors.New("bracket uid already used in tournament")
)

type ListMatchesFilter struct {
	Phase   *string
	Stage   *models.TournamentStage
	GroupID *int
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter ListMatchesFilter) ([]*models.Match, error)
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, group_id, team1_id, team2_id, round, order_in_round, phase, stage,
	bracket_uid, source1_uid, source2_uid, is_bye, score1, score2, played, played_at, winner_team_id`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	var groupID, team1, team2, score1, score2, winner sql.NullInt64
	var source1, source2 sql.NullString
	var playedAt sql.NullTime
	var played bool
	err := row.Scan(
		&m.ID, &m.TournamentID, &groupID, &team1, &team2, &m.Round, &m.OrderInRound, &m.Phase, &m.Stage,
		&m.BracketUID, &source1, &source2, &m.IsBye, &score1, &score2, &played, &playedAt, &winner,
	)
	if err != nil {
		return nil, err
	}
	m.GroupID = nullableInt(groupID)
	m.Team1ID = nullableInt(team1)
	m.Team2ID = nullableInt(team2)
	m.Source1UID = nullableString(source1)
	m.Source2UID = nullableString(source2)
	if played {
		m.Result = &models.MatchResult{
			Score1:       int(score1.Int64),
			Score2:       int(score2.Int64),
			Played:       played,
			WinnerTeamID: nullableInt(winner),
		}
		if playedAt.Valid {
			t := playedAt.Time
			m.Result.Date = &t
		}
	}
	return m, nil
}

// resultArgs flattens an optional result into score1, score2, played, played_at, winner_team_id.
func resultArgs(res *models.MatchResult) []interface{} {
	if res == nil || !res.Played {
		return []interface{}{nil, nil, false, nil, nil}
	}
	return []interface{}{res.Score1, res.Score2, true, res.Date, res.WinnerTeamID}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches (
			tournament_id, group_id, team1_id, team2_id, round, order_in_round, phase, stage,
			bracket_uid, source1_uid, source2_uid, is_bye, score1, score2, played, played_at, winner_team_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`
	args := []interface{}{
		m.TournamentID, m.GroupID, m.Team1ID, m.Team2ID, m.Round, m.OrderInRound, m.Phase, m.Stage,
		m.BracketUID, m.Source1UID, m.Source2UID, m.IsBye,
	}
	args = append(args, resultArgs(m.Result)...)
	err := r.getExecutor(exec).QueryRowContext(ctx, query, args...).Scan(&m.ID)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrMatchUIDConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create match %s: %w", m.BracketUID, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	m, err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter ListMatchesFilter) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	argID := 2

	if filter.Phase != nil {
		query += fmt.Sprintf(" AND phase = $%d", argID)
		args = append(args, *filter.Phase)
		argID++
	}
	if filter.Stage != nil {
		query += fmt.Sprintf(" AND stage = $%d", argID)
		args = append(args, *filter.Stage)
		argID++
	}
	if filter.GroupID != nil {
		query += fmt.Sprintf(" AND group_id = $%d", argID)
		args = append(args, *filter.GroupID)
	}
	query += " ORDER BY round, group_id NULLS LAST, order_in_round"

	return r.list(ctx, r.getExecutor(exec), query, args...)
}

// ListByTeam returns every match the team took part in, across tournaments.
func (r *postgresMatchRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE team1_id = $1 OR team2_id = $1 ORDER BY id`
	return r.list(ctx, r.getExecutor(exec), query, teamID)
}

func (r *postgresMatchRepository) list(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Update rewrites the slot and result of a match. Placement fields are immutable.
func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches SET
			team1_id = $1,
			team2_id = $2,
			source1_uid = $3,
			source2_uid = $4,
			is_bye = $5,
			score1 = $6,
			score2 = $7,
			played = $8,
			played_at = $9,
			winner_team_id = $10
		WHERE id = $11`
	args := []interface{}{m.Team1ID, m.Team2ID, m.Source1UID, m.Source2UID, m.IsBye}
	args = append(args, resultArgs(m.Result)...)
	args = append(args, m.ID)
	result, err := r.getExecutor(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", m.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
