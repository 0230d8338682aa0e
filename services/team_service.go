package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
)

type CreateTeamInput struct {
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

// TeamService owns the team registry the engine reads from.
type TeamService struct {
	teamRepo repositories.TeamRepository
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, logger *slog.Logger) *TeamService {
	return &TeamService{teamRepo: teamRepo, logger: logger}
}

func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name, sport := strings.TrimSpace(input.Name), normalizeSport(input.Sport)
	if name == "" || sport == "" {
		return nil, fmt.Errorf("%w: team name and sport are required", ErrValidationFailed)
	}

	team := &models.Team{Name: name, Sport: sport}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "team created", slog.Int("team_id", team.ID), slog.String("sport", team.Sport))
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return team, nil
}

func normalizeSport(sport string) string {
	return strings.ToLower(strings.TrimSpace(sport))
}
