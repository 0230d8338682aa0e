package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/google/uuid"
)

type CreateTournamentInput struct {
	Name               string                  `json:"name"`
	Sport              string                  `json:"sport"`
	Format             models.TournamentFormat `json:"format"`
	GroupsCount        int                     `json:"groups_count,omitempty"`
	QualifiersPerGroup int                     `json:"qualifiers_per_group,omitempty"`
}

// DrawInput configures a draw preview. Without a seed a random one is picked and
// returned in the proposal, so the same preview can be requested again.
type DrawInput struct {
	GroupsCount       int         `json:"groups_count,omitempty"`
	ManualAssignments map[int]int `json:"manual_assignments,omitempty"`
	Seed              *uint64     `json:"seed,omitempty"`
}

type TournamentService struct {
	tx             repositories.Transactor
	locker         *TournamentLocker
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	groupRepo      repositories.GroupRepository
	matchRepo      repositories.MatchRepository
	archive        DrawArchiver
	notifier       Notifier
	logger         *slog.Logger
	seedSource     func() uint64
}

func NewTournamentService(
	tx repositories.Transactor,
	locker *TournamentLocker,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	archive DrawArchiver,
	notifier Notifier,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		tx:             tx,
		locker:         locker,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		groupRepo:      groupRepo,
		matchRepo:      matchRepo,
		archive:        archive,
		notifier:       notifierOrNoop(notifier),
		logger:         logger,
		seedSource:     rand.Uint64,
	}
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name, sport := strings.TrimSpace(input.Name), normalizeSport(input.Sport)
	if name == "" || sport == "" {
		return nil, fmt.Errorf("%w: tournament name and sport are required", ErrValidationFailed)
	}
	if !input.Format.Valid() {
		return nil, fmt.Errorf("%w: unknown format %q", ErrValidationFailed, input.Format)
	}
	if input.GroupsCount < 0 || input.QualifiersPerGroup < 0 {
		return nil, fmt.Errorf("%w: group settings cannot be negative", ErrValidationFailed)
	}
	if input.Format == models.FormatGroups && input.GroupsCount == 1 {
		return nil, fmt.Errorf("%w: a group stage needs at least 2 groups", ErrValidationFailed)
	}

	t := &models.Tournament{
		Name:               name,
		Sport:              sport,
		Format:             input.Format,
		Status:             models.StatusPending,
		GroupsCount:        input.GroupsCount,
		QualifiersPerGroup: input.QualifiersPerGroup,
		TeamIDs:            []int{},
	}
	if !t.Format.IsElimination() && t.QualifiersPerGroup == 0 {
		t.QualifiersPerGroup = models.DefaultQualifiersPerGroup
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", t.ID), slog.String("format", string(t.Format)))
	return t, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	if filter.Sport != nil {
		sport := normalizeSport(*filter.Sport)
		filter.Sport = &sport
	}
	return s.tournamentRepo.List(ctx, filter)
}

// RegisterTeam adds a team to a tournament that has not been drawn yet.
func (s *TournamentService) RegisterTeam(ctx context.Context, tournamentID, teamID int) (*models.Tournament, error) {
	unlock := s.locker.Lock(tournamentID)
	defer unlock()

	var registered *models.Tournament
	err := s.tx.InTournamentTx(ctx, tournamentID, func(exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if t.Status != models.StatusPending {
			return fmt.Errorf("%w: tournament %d is %s", ErrRegistrationClosed, t.ID, t.Status)
		}
		teams, err := s.teamRepo.ListByIDs(ctx, exec, []int{teamID})
		if err != nil {
			return err
		}
		if len(teams) == 0 {
			return ErrTeamNotFound
		}
		if teams[0].Sport != t.Sport {
			return fmt.Errorf("%w: team plays %s, tournament is %s", ErrSportMismatch, teams[0].Sport, t.Sport)
		}
		if t.HasTeam(teamID) {
			return ErrTeamAlreadyRegistered
		}
		if err := s.tournamentRepo.AddTeam(ctx, exec, t.ID, teamID); err != nil {
			return handleRepositoryError(err)
		}
		t.TeamIDs = append(t.TeamIDs, teamID)
		registered = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "team registered",
		slog.Int("tournament_id", tournamentID), slog.Int("team_id", teamID))
	return registered, nil
}

// PreviewDraw produces a draw proposal without persisting anything. It can be
// called any number of times; only CommitDraw changes the tournament.
func (s *TournamentService) PreviewDraw(ctx context.Context, tournamentID int, input DrawInput) (*models.DrawProposal, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if t.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: tournament %d is %s", ErrDuplicateDraw, t.ID, t.Status)
	}

	cfg := models.DrawConfig{ManualAssignments: input.ManualAssignments}
	if t.Format == models.FormatGroups {
		cfg.GroupsCount = input.GroupsCount
		if cfg.GroupsCount == 0 {
			cfg.GroupsCount = t.GroupsCount
		}
	}
	seed := s.seedSource()
	if input.Seed != nil {
		seed = *input.Seed
	}

	proposal, _, err := GenerateDrawPreview(t.TeamIDs, t.Format, cfg, seed)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "draw previewed",
		slog.Int("tournament_id", t.ID), slog.String("proposal_id", proposal.ID), slog.Uint64("seed", seed))
	return proposal, nil
}

// GenerateDrawPreview runs the draw for a team list and wraps it into a proposal.
// The same teams, format, config and seed always yield the same fixtures.
func GenerateDrawPreview(teams []int, format models.TournamentFormat, cfg models.DrawConfig, seed uint64) (*models.DrawProposal, *brackets.Draw, error) {
	draw, err := brackets.GenerateDraw(teams, format, cfg, brackets.NewRNG(seed))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate draw: %w", err)
	}
	proposal := &models.DrawProposal{
		ID:      uuid.NewString(),
		Format:  format,
		Config:  cfg,
		Seed:    seed,
		TeamIDs: slices.Clone(teams),
		Groups:  draw.Groups,
		Matches: draw.Matches,
	}
	return proposal, draw, nil
}

// CommitDraw persists a previewed proposal. The fixtures are regenerated from the
// proposal's seed and config, so a tampered proposal is rejected rather than stored.
func (s *TournamentService) CommitDraw(ctx context.Context, tournamentID int, proposal *models.DrawProposal) (*models.Tournament, error) {
	if proposal == nil {
		return nil, fmt.Errorf("%w: proposal is required", ErrValidationFailed)
	}
	if _, err := uuid.Parse(proposal.ID); err != nil {
		return nil, fmt.Errorf("%w: invalid proposal id %q", ErrValidationFailed, proposal.ID)
	}

	unlock := s.locker.Lock(tournamentID)
	defer unlock()

	var committed *models.Tournament
	var draw *brackets.Draw
	err := s.tx.InTournamentTx(ctx, tournamentID, func(exec repositories.SQLExecutor) error {
		t, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if t.Status != models.StatusPending || t.DrawProposalID != nil {
			return fmt.Errorf("%w: tournament %d is %s", ErrDuplicateDraw, t.ID, t.Status)
		}
		draw, err = verifyProposal(t, proposal)
		if err != nil {
			return err
		}

		groupIDs := make([]int, len(draw.Groups))
		for i, g := range draw.Groups {
			g.TournamentID = t.ID
			if err := s.groupRepo.Create(ctx, exec, g); err != nil {
				return err
			}
			groupIDs[i] = g.ID
		}
		for _, m := range draw.Matches {
			if m.GroupIndex != nil {
				groupID := groupIDs[*m.GroupIndex]
				m.GroupID = &groupID
			}
		}
		if err := createMatches(ctx, s.matchRepo, exec, t.ID, draw.Matches); err != nil {
			return err
		}

		t.Status = models.StatusDrawn
		t.Stage = models.StageGroups
		if t.Format.IsElimination() {
			t.Stage = models.StageKnockout
		}
		t.GroupsCount = proposal.Config.GroupsCount
		proposalID := proposal.ID
		t.DrawProposalID = &proposalID
		if err := s.tournamentRepo.UpdateState(ctx, exec, t); err != nil {
			return err
		}
		committed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "draw committed",
		slog.Int("tournament_id", committed.ID),
		slog.String("proposal_id", proposal.ID),
		slog.Int("matches", len(draw.Matches)))

	if s.archive != nil {
		archived := *proposal
		archived.Groups, archived.Matches = draw.Groups, draw.Matches
		if _, err := s.archive.ArchiveDraw(ctx, committed.ID, &archived); err != nil {
			s.logger.WarnContext(ctx, "failed to archive draw",
				slog.Int("tournament_id", committed.ID), slog.Any("error", err))
		}
	}
	s.notifier.Notify(committed.ID, brackets.EventDrawCommitted, map[string]interface{}{
		"tournament": committed,
		"groups":     draw.Groups,
		"matches":    draw.Matches,
	})
	return committed, nil
}

// verifyProposal checks the proposal belongs to the tournament and regenerates its
// fixtures. A proposal that carries fixtures must match the regenerated ones.
func verifyProposal(t *models.Tournament, p *models.DrawProposal) (*brackets.Draw, error) {
	if p.Format != t.Format {
		return nil, fmt.Errorf("%w: proposal format %q, tournament format %q", ErrProposalMismatch, p.Format, t.Format)
	}
	if !sameTeamSet(p.TeamIDs, t.TeamIDs) {
		return nil, fmt.Errorf("%w: registered teams changed since the preview", ErrProposalMismatch)
	}
	draw, err := brackets.GenerateDraw(p.TeamIDs, p.Format, p.Config, brackets.NewRNG(p.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate draw: %w", err)
	}
	if len(p.Matches) == 0 && len(p.Groups) == 0 {
		return draw, nil
	}

	if len(p.Groups) != len(draw.Groups) || len(p.Matches) != len(draw.Matches) {
		return nil, fmt.Errorf("%w: fixtures do not match the proposal seed", ErrProposalMismatch)
	}
	for i, g := range draw.Groups {
		if !slices.Equal(g.TeamIDs, p.Groups[i].TeamIDs) {
			return nil, fmt.Errorf("%w: group %s differs from the proposal seed", ErrProposalMismatch, g.Name)
		}
	}
	for i, m := range draw.Matches {
		got := p.Matches[i]
		if m.BracketUID != got.BracketUID || !samePtr(m.Team1ID, got.Team1ID) || !samePtr(m.Team2ID, got.Team2ID) {
			return nil, fmt.Errorf("%w: match %s differs from the proposal seed", ErrProposalMismatch, m.BracketUID)
		}
	}
	return draw, nil
}

func sameTeamSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

func samePtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
