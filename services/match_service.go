package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/cache"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
)

type ResultInput struct {
	Score1 int        `json:"score1"`
	Score2 int        `json:"score2"`
	Date   *time.Time `json:"date,omitempty"`
}

// RecordResultOutput is everything a result changed.
type RecordResultOutput struct {
	Match *models.Match `json:"match"`
	// Teams of the match with their recomputed aggregate records.
	Teams []*models.Team `json:"teams"`
	// Standings of the match's group; empty for knockout matches.
	Standings          []models.TeamStats      `json:"standings,omitempty"`
	CorrectedMatches   []*models.Match         `json:"corrected_matches,omitempty"`
	NewMatches         []*models.Match         `json:"new_matches,omitempty"`
	GroupStageComplete bool                    `json:"group_stage_complete"`
	TournamentStatus   models.TournamentStatus `json:"tournament_status"`
	ChampionTeamID     *int                    `json:"champion_team_id,omitempty"`
}

type MatchService struct {
	tx             repositories.Transactor
	locker         *TournamentLocker
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	groupRepo      repositories.GroupRepository
	matchRepo      repositories.MatchRepository
	cache          cache.StandingsCache
	notifier       Notifier
	logger         *slog.Logger
	now            func() time.Time
}

func NewMatchService(
	tx repositories.Transactor,
	locker *TournamentLocker,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	standingsCache cache.StandingsCache,
	notifier Notifier,
	logger *slog.Logger,
) *MatchService {
	if standingsCache == nil {
		standingsCache = cache.NoopStandingsCache{}
	}
	return &MatchService{
		tx:             tx,
		locker:         locker,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		groupRepo:      groupRepo,
		matchRepo:      matchRepo,
		cache:          standingsCache,
		notifier:       notifierOrNoop(notifier),
		logger:         logger,
		now:            time.Now,
	}
}

// RecordResult attaches or corrects a score. Team records are rebuilt from the
// full match history, and a completed knockout round materializes the next one.
func (s *MatchService) RecordResult(ctx context.Context, matchID int, input ResultInput) (*RecordResultOutput, error) {
	probe, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	tournamentID := probe.TournamentID

	unlock := s.locker.Lock(tournamentID)
	defer unlock()

	out := &RecordResultOutput{}
	err = s.tx.InTournamentTx(ctx, tournamentID, func(exec repositories.SQLExecutor) error {
		return s.recordResult(ctx, exec, tournamentID, matchID, input, out)
	})
	if err != nil {
		return nil, err
	}

	if out.Match.GroupID != nil {
		if err := s.cache.Invalidate(ctx, *out.Match.GroupID); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate standings cache",
				slog.Int("group_id", *out.Match.GroupID), slog.Any("error", err))
		}
	}

	s.logger.InfoContext(ctx, "match result recorded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("match_id", matchID),
		slog.String("score", fmt.Sprintf("%d-%d", input.Score1, input.Score2)))

	s.notifier.Notify(tournamentID, brackets.EventMatchUpdated, out.Match)
	for _, m := range out.CorrectedMatches {
		s.notifier.Notify(tournamentID, brackets.EventMatchUpdated, m)
	}
	if len(out.NewMatches) > 0 {
		s.notifier.Notify(tournamentID, brackets.EventRoundMaterialized, out.NewMatches)
	}
	if out.ChampionTeamID != nil && out.TournamentStatus == models.StatusCompleted {
		s.notifier.Notify(tournamentID, brackets.EventTournamentCompleted, map[string]interface{}{
			"tournament_id":  tournamentID,
			"winner_team_id": *out.ChampionTeamID,
		})
	}
	return out, nil
}

func (s *MatchService) recordResult(ctx context.Context, exec repositories.SQLExecutor, tournamentID, matchID int, input ResultInput, out *RecordResultOutput) error {
	t, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
	if err != nil {
		return handleRepositoryError(err)
	}
	match, err := s.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if match.Stage == models.StageGroups && t.Stage == models.StageKnockout {
		return fmt.Errorf("%w: group results are frozen once the knockout has started", ErrWrongStage)
	}

	wasPlayed := match.Played()
	previousWinner := match.Winner()
	date := input.Date
	if date == nil {
		now := s.now().UTC()
		date = &now
	}
	if err := brackets.ApplyResult(match, input.Score1, input.Score2, date); err != nil {
		return err
	}
	if err := s.matchRepo.Update(ctx, exec, match); err != nil {
		return err
	}
	out.Match = match

	stateChanged := false
	if t.Status == models.StatusDrawn {
		t.Status = models.StatusInProgress
		stateChanged = true
	}

	if match.Stage == models.StageKnockout {
		changed, err := s.advanceKnockout(ctx, exec, t, match, wasPlayed && !samePtr(previousWinner, match.Winner()), out)
		if err != nil {
			return err
		}
		stateChanged = stateChanged || changed
	} else if err := s.refreshGroup(ctx, exec, t, match, out); err != nil {
		return err
	}

	if stateChanged {
		if err := s.tournamentRepo.UpdateState(ctx, exec, t); err != nil {
			return err
		}
	}
	out.TournamentStatus = t.Status

	teams, err := s.refreshRecords(ctx, exec, match)
	if err != nil {
		return err
	}
	out.Teams = teams
	return nil
}

// advanceKnockout pushes a knockout result through the bracket. It reports
// whether the tournament itself changed.
func (s *MatchService) advanceKnockout(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, match *models.Match, winnerChanged bool, out *RecordResultOutput) (bool, error) {
	stage := models.StageKnockout
	matches, err := s.matchRepo.ListByTournament(ctx, exec, t.ID, repositories.ListMatchesFilter{Stage: &stage})
	if err != nil {
		return false, err
	}
	matches = replaceByID(matches, match)

	if winnerChanged {
		corrected, err := brackets.Reconcile(matches, t.Seeds, match.Round)
		if err != nil {
			if errors.Is(err, brackets.ErrDownstreamPlayed) {
				return false, fmt.Errorf("%w: %v", ErrDownstreamPlayed, err)
			}
			return false, err
		}
		for _, m := range corrected {
			if err := s.matchRepo.Update(ctx, exec, m); err != nil {
				return false, err
			}
		}
		out.CorrectedMatches = corrected
	}

	adv, err := brackets.NextRound(matches, t.Seeds)
	if err != nil || adv == nil {
		return false, err
	}
	if adv.Champion != nil {
		if samePtr(t.WinnerTeamID, adv.Champion) && t.Status == models.StatusCompleted {
			return false, nil
		}
		t.Status = models.StatusCompleted
		t.WinnerTeamID = adv.Champion
		out.ChampionTeamID = adv.Champion
		return true, nil
	}
	if err := createMatches(ctx, s.matchRepo, exec, t.ID, adv.Matches); err != nil {
		return false, err
	}
	out.NewMatches = adv.Matches
	return false, nil
}

func (s *MatchService) refreshGroup(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, match *models.Match, out *RecordResultOutput) error {
	stage := models.StageGroups
	matches, err := s.matchRepo.ListByTournament(ctx, exec, t.ID, repositories.ListMatchesFilter{Stage: &stage})
	if err != nil {
		return err
	}
	matches = replaceByID(matches, match)
	out.GroupStageComplete = brackets.GroupStageComplete(matches)

	if match.GroupID == nil {
		return nil
	}
	groups, err := s.groupRepo.ListByTournament(ctx, exec, t.ID)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if g.ID == *match.GroupID {
			out.Standings = brackets.ComputeStandings(g, matches, t.Qualifiers())
			break
		}
	}
	return nil
}

// refreshRecords rebuilds both teams' aggregate records from their complete history.
func (s *MatchService) refreshRecords(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) ([]*models.Team, error) {
	ids := make([]int, 0, 2)
	for _, id := range []*int{match.Team1ID, match.Team2ID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	teams, err := s.teamRepo.ListByIDs(ctx, exec, ids)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		history, err := s.matchRepo.ListByTeam(ctx, exec, team.ID)
		if err != nil {
			return nil, err
		}
		team.Record = brackets.AggregateRecord(team.ID, history)
		if err := s.teamRepo.UpdateRecord(ctx, exec, team.ID, team.Record); err != nil {
			return nil, handleRepositoryError(err)
		}
	}
	return teams, nil
}

// ListMatches returns a tournament's matches, optionally only those of one canonical phase.
func (s *MatchService) ListMatches(ctx context.Context, tournamentID int, phase string) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, repositories.ListMatchesFilter{})
	if err != nil {
		return nil, err
	}
	phase = strings.ToUpper(strings.TrimSpace(phase))
	if phase == "" {
		return matches, nil
	}
	if phase == models.PhaseGroups {
		return filterMatches(matches, func(m *models.Match) bool { return m.Stage == models.StageGroups }), nil
	}

	bracket, ok := brackets.BracketFromMatches(matches)
	if !ok {
		return []*models.Match{}, nil
	}
	relative, err := brackets.RoundFromPhase(phase, bracket.TotalRounds)
	if err != nil {
		return nil, err
	}
	round := bracket.FirstRound + relative - 1
	return filterMatches(matches, func(m *models.Match) bool {
		return m.Stage == models.StageKnockout && m.Round == round
	}), nil
}

func filterMatches(matches []*models.Match, keep func(*models.Match) bool) []*models.Match {
	out := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
