package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"golang.org/x/sync/errgroup"
)

// RoundView is one materialized knockout round with its display name.
type RoundView struct {
	Round   int             `json:"round"`
	Name    string          `json:"name"`
	Phase   string          `json:"phase"`
	Matches []*models.Match `json:"matches"`
}

type GroupView struct {
	Group     *models.Group      `json:"group"`
	Standings []models.TeamStats `json:"standings"`
	Matches   []*models.Match    `json:"matches"`
}

// BracketView is the read model every client renders a tournament from.
type BracketView struct {
	Tournament  *models.Tournament `json:"tournament"`
	Teams       []*models.Team     `json:"teams"`
	Groups      []GroupView        `json:"groups,omitempty"`
	Rounds      []RoundView        `json:"rounds"`
	TotalRounds int                `json:"total_rounds"`
}

type BracketService struct {
	tx             repositories.Transactor
	locker         *TournamentLocker
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	groupRepo      repositories.GroupRepository
	matchRepo      repositories.MatchRepository
	archive        DrawArchiver
	notifier       Notifier
	logger         *slog.Logger
}

func NewBracketService(
	tx repositories.Transactor,
	locker *TournamentLocker,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	archive DrawArchiver,
	notifier Notifier,
	logger *slog.Logger,
) *BracketService {
	return &BracketService{
		tx:             tx,
		locker:         locker,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		groupRepo:      groupRepo,
		matchRepo:      matchRepo,
		archive:        archive,
		notifier:       notifierOrNoop(notifier),
		logger:         logger,
	}
}

// PromoteToKnockout seeds the group qualifiers into the first knockout round.
// Either every new match is stored or none is.
func (s *BracketService) PromoteToKnockout(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	unlock := s.locker.Lock(tournamentID)
	defer unlock()

	var promotion *brackets.Promotion
	err := s.tx.InTournamentTx(ctx, tournamentID, func(exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if t.Format != models.FormatGroups {
			return fmt.Errorf("%w: %s tournaments have no group stage", ErrWrongStage, t.Format)
		}
		if t.Status == models.StatusPending {
			return fmt.Errorf("%w: groups have not been drawn", ErrWrongStage)
		}
		if t.Stage == models.StageKnockout {
			return fmt.Errorf("%w: knockout already started", ErrWrongStage)
		}

		groups, err := s.groupRepo.ListByTournament(ctx, exec, t.ID)
		if err != nil {
			return err
		}
		stage := models.StageGroups
		matches, err := s.matchRepo.ListByTournament(ctx, exec, t.ID, repositories.ListMatchesFilter{Stage: &stage})
		if err != nil {
			return err
		}

		promotion, err = brackets.Promote(groups, matches, t.Qualifiers(), brackets.GroupStageRound+1)
		if err != nil {
			return err
		}
		if err := createMatches(ctx, s.matchRepo, exec, t.ID, promotion.Matches); err != nil {
			return err
		}
		if err := s.tournamentRepo.SetSeeds(ctx, exec, t.ID, promotion.Seeds); err != nil {
			return handleRepositoryError(err)
		}

		t.Status = models.StatusDrawn
		t.Stage = models.StageKnockout
		return s.tournamentRepo.UpdateState(ctx, exec, t)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "group stage promoted to knockout",
		slog.Int("tournament_id", tournamentID),
		slog.Int("qualifiers", len(promotion.Qualifiers)),
		slog.Int("matches", len(promotion.Matches)))

	if s.archive != nil {
		if _, err := s.archive.ArchiveKnockout(ctx, tournamentID, promotion.Matches); err != nil {
			s.logger.WarnContext(ctx, "failed to archive knockout draw",
				slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
	}
	s.notifier.Notify(tournamentID, brackets.EventKnockoutStarted, map[string]interface{}{
		"qualifiers": promotion.Qualifiers,
		"matches":    promotion.Matches,
	})
	return promotion.Matches, nil
}

// GetBracket assembles the display model: group tables and named knockout rounds.
// Rounds that are not materialized yet are not listed.
func (s *BracketService) GetBracket(ctx context.Context, tournamentID int) (*BracketView, error) {
	var (
		t       *models.Tournament
		groups  []*models.Group
		matches []*models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.tournamentRepo.GetByID(gctx, nil, tournamentID)
		return handleRepositoryError(err)
	})
	g.Go(func() error {
		var err error
		groups, err = s.groupRepo.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, nil, tournamentID, repositories.ListMatchesFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByIDs(ctx, nil, t.TeamIDs)
	if err != nil {
		return nil, err
	}

	view := &BracketView{Tournament: t, Teams: teams, Rounds: []RoundView{}}
	for _, group := range groups {
		gv := GroupView{Group: group, Matches: []*models.Match{}}
		for _, m := range matches {
			if m.GroupID != nil && *m.GroupID == group.ID {
				gv.Matches = append(gv.Matches, m)
			}
		}
		gv.Standings = brackets.ComputeStandings(group, gv.Matches, t.Qualifiers())
		view.Groups = append(view.Groups, gv)
	}

	bracket, ok := brackets.BracketFromMatches(matches)
	if !ok {
		return view, nil
	}
	view.TotalRounds = bracket.TotalRounds
	byRound := make(map[int][]*models.Match)
	for _, m := range matches {
		if m.Stage == models.StageKnockout {
			byRound[m.Round] = append(byRound[m.Round], m)
		}
	}
	for round := bracket.FirstRound; round <= bracket.LastRound(); round++ {
		roundMatches, ok := byRound[round]
		if !ok {
			break
		}
		sort.Slice(roundMatches, func(i, j int) bool {
			return roundMatches[i].OrderInRound < roundMatches[j].OrderInRound
		})
		view.Rounds = append(view.Rounds, RoundView{
			Round:   round,
			Name:    bracket.Name(round),
			Phase:   bracket.Phase(round),
			Matches: roundMatches,
		})
	}
	return view, nil
}
