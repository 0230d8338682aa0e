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
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTeamAlreadyRegistered  = errors.New("team already registered in tournament")
	ErrTournamentTeamNotFound = errors.New("team or tournament reference not found")
)

type ListTournamentsFilter struct {
	Sport  *string
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error)
	AddTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) error
	UpdateState(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	SetSeeds(ctx context.Context, exec SQLExecutor, tournamentID int, seeds map[int]int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, sport, format, status, stage, groups_count, qualifiers_per_group,
	draw_proposal_id, winner_team_id, created_at`

func scanTournament(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	var stage, proposalID sql.NullString
	var winner sql.NullInt64
	err := row.Scan(
		&t.ID, &t.Name, &t.Sport, &t.Format, &t.Status, &stage, &t.GroupsCount, &t.QualifiersPerGroup,
		&proposalID, &winner, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Stage = models.TournamentStage(stage.String)
	t.DrawProposalID = nullableString(proposalID)
	t.WinnerTeamID = nullableInt(winner)
	return t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, sport, format, status, groups_count, qualifiers_per_group)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		t.Name, t.Sport, t.Format, t.Status, t.GroupsCount, t.Qualifiers(),
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByID loads the tournament together with its registered teams and seeds.
func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := scanTournament(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if err := r.loadTeams(ctx, executor, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) loadTeams(ctx context.Context, executor SQLExecutor, t *models.Tournament) error {
	query := `
		SELECT team_id, seed FROM tournament_teams
		WHERE tournament_id = $1
		ORDER BY registered_at, team_id`
	rows, err := executor.QueryContext(ctx, query, t.ID)
	if err != nil {
		return fmt.Errorf("failed to load teams of tournament %d: %w", t.ID, err)
	}
	defer rows.Close()

	t.TeamIDs = make([]int, 0)
	for rows.Next() {
		var teamID int
		var seed sql.NullInt64
		if err := rows.Scan(&teamID, &seed); err != nil {
			return fmt.Errorf("failed to scan tournament team: %w", err)
		}
		t.TeamIDs = append(t.TeamIDs, teamID)
		if seed.Valid {
			if t.Seeds == nil {
				t.Seeds = make(map[int]int)
			}
			t.Seeds[teamID] = int(seed.Int64)
		}
	}
	return rows.Err()
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Sport != nil {
		query += fmt.Sprintf(" AND sport = $%d", argID)
		args = append(args, *filter.Sport)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) AddTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) error {
	query := `INSERT INTO tournament_teams (tournament_id, team_id) VALUES ($1, $2)`
	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID, teamID)
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrTeamAlreadyRegistered
		case "23503":
			return ErrTournamentTeamNotFound
		}
	}
	return err
}

// UpdateState persists the draw-driven fields: status, stage, proposal and winner.
func (r *postgresTournamentRepository) UpdateState(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	var stage interface{}
	if t.Stage != "" {
		stage = t.Stage
	}
	query := `
		UPDATE tournaments SET
			status = $1,
			stage = $2,
			groups_count = $3,
			draw_proposal_id = $4,
			winner_team_id = $5
		WHERE id = $6`
	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		t.Status, stage, t.GroupsCount, t.DrawProposalID, t.WinnerTeamID, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update state of tournament %d: %w", t.ID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetSeeds(ctx context.Context, exec SQLExecutor, tournamentID int, seeds map[int]int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournament_teams SET seed = $1 WHERE tournament_id = $2 AND team_id = $3`
	for teamID, seed := range seeds {
		result, err := executor.ExecContext(ctx, query, seed, tournamentID, teamID)
		if err != nil {
			return fmt.Errorf("failed to seed team %d: %w", teamID, err)
		}
		if err := checkAffectedRows(result, ErrTournamentTeamNotFound); err != nil {
			return err
		}
	}
	return nil
}
