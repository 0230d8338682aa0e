package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/lib/pq"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	GetByID(ctx context.Context, id int) (*models.Group, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Group, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create stores the group and its members, keeping the member order.
func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Group) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO groups (tournament_id, name) VALUES ($1, $2) RETURNING id`
	if err := executor.QueryRowContext(ctx, query, g.TournamentID, g.Name).Scan(&g.ID); err != nil {
		return fmt.Errorf("failed to create group %q: %w", g.Name, err)
	}
	member := `INSERT INTO group_teams (group_id, team_id, position) VALUES ($1, $2, $3)`
	for pos, teamID := range g.TeamIDs {
		if _, err := executor.ExecContext(ctx, member, g.ID, teamID, pos+1); err != nil {
			return fmt.Errorf("failed to add team %d to group %q: %w", teamID, g.Name, err)
		}
	}
	return nil
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	g := &models.Group{}
	query := `SELECT id, tournament_id, name FROM groups WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.TournamentID, &g.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	members, err := r.members(ctx, r.db, []int{g.ID})
	if err != nil {
		return nil, err
	}
	g.TeamIDs = members[g.ID]
	return g, nil
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Group, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, tournament_id, name FROM groups WHERE tournament_id = $1 ORDER BY id`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	ids := make([]int, 0)
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.TournamentID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
		ids = append(ids, g.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	members, err := r.members(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		g.TeamIDs = members[g.ID]
	}
	return groups, nil
}

func (r *postgresGroupRepository) members(ctx context.Context, executor SQLExecutor, groupIDs []int) (map[int][]int, error) {
	members := make(map[int][]int, len(groupIDs))
	for _, id := range groupIDs {
		members[id] = make([]int, 0)
	}
	if len(groupIDs) == 0 {
		return members, nil
	}
	query := `SELECT group_id, team_id FROM group_teams WHERE group_id = ANY($1) ORDER BY group_id, position`
	rows, err := executor.QueryContext(ctx, query, pq.Array(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var groupID, teamID int
		if err := rows.Scan(&groupID, &teamID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members[groupID] = append(members[groupID], teamID)
	}
	return members, rows.Err()
}
