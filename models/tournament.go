package models

import "time"

type TournamentFormat string

const (
	FormatKnockout          TournamentFormat = "knockout"
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatGroups            TournamentFormat = "groups"
)

// IsElimination reports whether the format starts directly with a bracket.
func (f TournamentFormat) IsElimination() bool {
	return f == FormatKnockout || f == FormatSingleElimination
}

func (f TournamentFormat) Valid() bool {
	return f.IsElimination() || f == FormatGroups
}

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusPending    TournamentStatus = "pending"
	StatusDrawn      TournamentStatus = "drawn"
	StatusInProgress TournamentStatus = "in_progress"
	StatusCompleted  TournamentStatus = "completed"
)

// TournamentStage tells which phase the current matchups belong to.
type TournamentStage string

const (
	StageGroups   TournamentStage = "groups"
	StageKnockout TournamentStage = "knockout"
)

const DefaultQualifiersPerGroup = 2

type Tournament struct {
	ID                 int              `json:"id" db:"id"`
	Name               string           `json:"name" db:"name"`
	Sport              string           `json:"sport" db:"sport"`
	Format             TournamentFormat `json:"format" db:"format"`
	Status             TournamentStatus `json:"status" db:"status"`
	Stage              TournamentStage  `json:"stage,omitempty" db:"stage"`
	GroupsCount        int              `json:"groups_count,omitempty" db:"groups_count"`
	QualifiersPerGroup int              `json:"qualifiers_per_group,omitempty" db:"qualifiers_per_group"`
	DrawProposalID     *string          `json:"draw_proposal_id,omitempty" db:"draw_proposal_id"`
	WinnerTeamID       *int             `json:"winner_team_id,omitempty" db:"winner_team_id"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`

	// Registered team set in registration order, loaded from tournament_teams.
	TeamIDs []int `json:"team_ids" db:"-"`
	// Knockout seeds assigned at promotion, keyed by team id. Empty for plain knockout draws.
	Seeds map[int]int `json:"seeds,omitempty" db:"-"`
}

// Qualifiers returns the configured number of group qualifiers, falling back to the default.
func (t *Tournament) Qualifiers() int {
	if t.QualifiersPerGroup <= 0 {
		return DefaultQualifiersPerGroup
	}
	return t.QualifiersPerGroup
}

func (t *Tournament) HasTeam(teamID int) bool {
	for _, id := range t.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
