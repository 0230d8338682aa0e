package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/cache"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"golang.org/x/sync/errgroup"
)

type StandingsService struct {
	tournamentRepo repositories.TournamentRepository
	groupRepo      repositories.GroupRepository
	matchRepo      repositories.MatchRepository
	cache          cache.StandingsCache
	logger         *slog.Logger
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	standingsCache cache.StandingsCache,
	logger *slog.Logger,
) *StandingsService {
	if standingsCache == nil {
		standingsCache = cache.NoopStandingsCache{}
	}
	return &StandingsService{
		tournamentRepo: tournamentRepo,
		groupRepo:      groupRepo,
		matchRepo:      matchRepo,
		cache:          standingsCache,
		logger:         logger,
	}
}

// ComputeStandings returns the group table. The table is always derived from the
// match log; the cache only saves the recomputation and is invalidated on every result.
func (s *StandingsService) ComputeStandings(ctx context.Context, groupID int) ([]models.TeamStats, error) {
	rows, generation, cached, err := s.cache.Get(ctx, groupID)
	if err != nil {
		s.logger.WarnContext(ctx, "standings cache read failed", slog.Int("group_id", groupID), slog.Any("error", err))
	} else if cached {
		return rows, nil
	}
	// the generation must be read before the match log, otherwise a table older
	// than a concurrent invalidation could be stored as current
	cacheable := err == nil

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	var t *models.Tournament
	var matches []*models.Match
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.tournamentRepo.GetByID(gctx, nil, group.TournamentID)
		return handleRepositoryError(err)
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, nil, group.TournamentID,
			repositories.ListMatchesFilter{GroupID: &group.ID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows = brackets.ComputeStandings(group, matches, t.Qualifiers())
	if !cacheable {
		return rows, nil
	}
	if err := s.cache.Set(ctx, groupID, generation, rows); err != nil {
		s.logger.WarnContext(ctx, "standings cache write failed", slog.Int("group_id", groupID), slog.Any("error", err))
	}
	return rows, nil
}
