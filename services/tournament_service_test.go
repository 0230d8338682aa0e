package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/storage"
	"github.com/google/uuid"
)

func TestCreateTournamentValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name  string
		input CreateTournamentInput
	}{
		{"missing name", CreateTournamentInput{Sport: "football", Format: models.FormatKnockout}},
		{"missing sport", CreateTournamentInput{Name: "Cup", Format: models.FormatKnockout}},
		{"unknown format", CreateTournamentInput{Name: "Cup", Sport: "football", Format: "swiss"}},
		{"negative groups", CreateTournamentInput{Name: "Cup", Sport: "football", Format: models.FormatGroups, GroupsCount: -1}},
		{"single group", CreateTournamentInput{Name: "Cup", Sport: "football", Format: models.FormatGroups, GroupsCount: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.tournaments.CreateTournament(context.Background(), tt.input); !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected ErrValidationFailed, got %v", err)
			}
		})
	}
}

func TestCreateTournamentDefaults(t *testing.T) {
	f := newFixture(t)
	tournament, err := f.tournaments.CreateTournament(context.Background(), CreateTournamentInput{
		Name: " Spring Cup ", Sport: " Football", Format: models.FormatGroups, GroupsCount: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tournament.Status != models.StatusPending {
		t.Errorf("status = %s, want pending", tournament.Status)
	}
	if tournament.Sport != "football" || tournament.Name != "Spring Cup" {
		t.Errorf("name/sport not normalized: %q %q", tournament.Name, tournament.Sport)
	}
	if tournament.QualifiersPerGroup != models.DefaultQualifiersPerGroup {
		t.Errorf("qualifiers = %d, want %d", tournament.QualifiersPerGroup, models.DefaultQualifiersPerGroup)
	}
}

func TestCreateTeamNameConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.teams.CreateTeam(ctx, CreateTeamInput{Name: "Lions", Sport: "football"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.teams.CreateTeam(ctx, CreateTeamInput{Name: "Lions", Sport: "Football "}); !errors.Is(err, ErrTeamNameConflict) {
		t.Fatalf("expected ErrTeamNameConflict, got %v", err)
	}
	if _, err := f.teams.CreateTeam(ctx, CreateTeamInput{Name: "Lions", Sport: "hockey"}); err != nil {
		t.Fatalf("same name in another sport should be allowed: %v", err)
	}
	if _, err := f.teams.GetTeam(ctx, 999); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestRegisterTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teams := f.createTeams(t, "football", 2)
	hockey, err := f.teams.CreateTeam(ctx, CreateTeamInput{Name: "Ice", Sport: "hockey"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	tournament := f.createTournament(t, models.FormatKnockout, 0, teams)
	if !slices.Equal(tournament.TeamIDs, teams) {
		t.Fatalf("registered teams = %v, want %v", tournament.TeamIDs, teams)
	}

	tests := []struct {
		name         string
		tournamentID int
		teamID       int
		want         error
	}{
		{"already registered", tournament.ID, teams[0], ErrTeamAlreadyRegistered},
		{"sport mismatch", tournament.ID, hockey.ID, ErrSportMismatch},
		{"unknown team", tournament.ID, 999, ErrTeamNotFound},
		{"unknown tournament", 999, teams[0], ErrTournamentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.tournaments.RegisterTeam(ctx, tt.tournamentID, tt.teamID); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterTeamClosedAfterDraw(t *testing.T) {
	f := newFixture(t)
	tournament := f.drawn(t, models.FormatKnockout, 0, 4)
	late, err := f.teams.CreateTeam(context.Background(), CreateTeamInput{Name: "Late", Sport: "football"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := f.tournaments.RegisterTeam(context.Background(), tournament.ID, late.ID); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("expected ErrRegistrationClosed, got %v", err)
	}
}

func sameFixtures(a, b []*models.Match) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].BracketUID != b[i].BracketUID || !samePtr(a[i].Team1ID, b[i].Team1ID) || !samePtr(a[i].Team2ID, b[i].Team2ID) {
			return false
		}
	}
	return true
}

func TestPreviewDrawPersistsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament := f.createTournament(t, models.FormatKnockout, 0, f.createTeams(t, "football", 5))

	seed := uint64(42)
	first, err := f.tournaments.PreviewDraw(ctx, tournament.ID, DrawInput{Seed: &seed})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	second, err := f.tournaments.PreviewDraw(ctx, tournament.ID, DrawInput{Seed: &seed})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if first.Seed != seed {
		t.Errorf("seed = %d, want %d", first.Seed, seed)
	}
	if !sameFixtures(first.Matches, second.Matches) {
		t.Errorf("same seed produced different fixtures")
	}
	if len(first.Matches) != 3 || !first.Matches[2].IsBye {
		t.Errorf("expected 2 matches and a trailing bye for 5 teams, got %d matches", len(first.Matches))
	}
	if len(f.store.matches) != 0 || len(f.store.groups) != 0 {
		t.Errorf("preview persisted %d matches and %d groups", len(f.store.matches), len(f.store.groups))
	}
	stored, err := f.tournaments.GetTournament(ctx, tournament.ID)
	if err != nil {
		t.Fatalf("get tournament: %v", err)
	}
	if stored.Status != models.StatusPending || stored.DrawProposalID != nil {
		t.Errorf("preview changed the tournament: status %s", stored.Status)
	}

	f.tournaments.seedSource = func() uint64 { return 7 }
	random, err := f.tournaments.PreviewDraw(ctx, tournament.ID, DrawInput{})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if random.Seed != 7 {
		t.Errorf("seed = %d, want the generated seed 7", random.Seed)
	}
}

func TestCommitDrawKnockout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament := f.createTournament(t, models.FormatKnockout, 0, f.createTeams(t, "football", 4))
	seed := uint64(3)
	proposal, err := f.tournaments.PreviewDraw(ctx, tournament.ID, DrawInput{Seed: &seed})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	committed, err := f.tournaments.CommitDraw(ctx, tournament.ID, proposal)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if committed.Status != models.StatusDrawn || committed.Stage != models.StageKnockout {
		t.Errorf("status/stage = %s/%s, want drawn/knockout", committed.Status, committed.Stage)
	}
	if committed.DrawProposalID == nil || *committed.DrawProposalID != proposal.ID {
		t.Errorf("draw proposal id not recorded")
	}
	stored := f.stageMatches(t, tournament.ID, models.StageKnockout)
	if !sameFixtures(stored, proposal.Matches) {
		t.Errorf("stored fixtures differ from the proposal")
	}

	if _, err := f.tournaments.CommitDraw(ctx, tournament.ID, proposal); !errors.Is(err, ErrDuplicateDraw) {
		t.Fatalf("expected ErrDuplicateDraw, got %v", err)
	}
	if _, err := f.tournaments.PreviewDraw(ctx, tournament.ID, DrawInput{}); !errors.Is(err, ErrDuplicateDraw) {
		t.Fatalf("expected ErrDuplicateDraw on preview after commit, got %v", err)
	}
	if got := f.notifier.kinds(); !slices.Equal(got, []string{brackets.EventDrawCommitted}) {
		t.Errorf("events = %v", got)
	}
	if want := storage.DrawKey(tournament.ID, proposal.ID); !slices.Equal(f.archive.keys, []string{want}) {
		t.Errorf("archived keys = %v, want [%s]", f.archive.keys, want)
	}
}

func TestCommitDrawGroups(t *testing.T) {
	f := newFixture(t)
	tournament := f.drawn(t, models.FormatGroups, 2, 6)
	if tournament.Stage != models.StageGroups || tournament.GroupsCount != 2 {
		t.Fatalf("stage/groups = %s/%d", tournament.Stage, tournament.GroupsCount)
	}

	groups, err := memGroupRepo{f.store}.ListByTournament(context.Background(), nil, tournament.ID)
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	byID := map[int]*models.Group{groups[0].ID: groups[0], groups[1].ID: groups[1]}

	matches := f.stageMatches(t, tournament.ID, models.StageGroups)
	if len(matches) != 6 {
		t.Fatalf("group matches = %d, want 6", len(matches))
	}
	for _, m := range matches {
		if m.GroupID == nil {
			t.Fatalf("match %s has no group", m.BracketUID)
		}
		g := byID[*m.GroupID]
		if g == nil || !g.HasTeam(*m.Team1ID) || !g.HasTeam(*m.Team2ID) {
			t.Errorf("match %s is not inside its group", m.BracketUID)
		}
	}
}

func TestCommitDrawRejectsTamperedProposal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament := f.createTournament(t, models.FormatKnockout, 0, f.createTeams(t, "football", 4))
	seed := uint64(5)
	proposal, err := f.tournaments.PreviewDraw(ctx, tournament.ID, DrawInput{Seed: &seed})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	m := proposal.Matches[0]
	m.Team1ID, m.Team2ID = m.Team2ID, m.Team1ID

	if _, err := f.tournaments.CommitDraw(ctx, tournament.ID, proposal); !errors.Is(err, ErrProposalMismatch) {
		t.Fatalf("expected ErrProposalMismatch, got %v", err)
	}
	if len(f.store.matches) != 0 {
		t.Errorf("rejected commit stored %d matches", len(f.store.matches))
	}
	stored, _ := f.tournaments.GetTournament(ctx, tournament.ID)
	if stored.Status != models.StatusPending {
		t.Errorf("status = %s, want pending", stored.Status)
	}
}

func TestCommitDrawRejectsStaleTeamSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament := f.createTournament(t, models.FormatKnockout, 0, f.createTeams(t, "football", 4))
	proposal, err := f.tournaments.PreviewDraw(ctx, tournament.ID, DrawInput{})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	late, err := f.teams.CreateTeam(ctx, CreateTeamInput{Name: "Late", Sport: "football"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := f.tournaments.RegisterTeam(ctx, tournament.ID, late.ID); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.tournaments.CommitDraw(ctx, tournament.ID, proposal); !errors.Is(err, ErrProposalMismatch) {
		t.Fatalf("expected ErrProposalMismatch, got %v", err)
	}
}

func TestCommitDrawBySeedOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	teams := f.createTeams(t, "football", 6)
	tournament := f.createTournament(t, models.FormatKnockout, 0, teams)

	proposal := &models.DrawProposal{ID: uuid.NewString(), Format: models.FormatKnockout, Seed: 9, TeamIDs: teams}
	if _, err := f.tournaments.CommitDraw(ctx, tournament.ID, proposal); err != nil {
		t.Fatalf("commit: %v", err)
	}
	expected, _, err := GenerateDrawPreview(teams, models.FormatKnockout, models.DrawConfig{}, 9)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !sameFixtures(f.stageMatches(t, tournament.ID, models.StageKnockout), expected.Matches) {
		t.Errorf("stored fixtures differ from the seed's draw")
	}
}

func TestCommitDrawInvalidProposal(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament(t, models.FormatKnockout, 0, f.createTeams(t, "football", 2))
	for _, p := range []*models.DrawProposal{nil, {ID: "not-a-uuid", Format: models.FormatKnockout}} {
		if _, err := f.tournaments.CommitDraw(context.Background(), tournament.ID, p); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed, got %v", err)
		}
	}
}
