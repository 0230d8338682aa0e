package models

import "time"

// Canonical phase labels. Bracket labels between these are built by brackets.PhaseLabel.
const (
	PhaseGroups       = "GROUPS"
	PhaseFinal        = "FINAL"
	PhaseSemifinal    = "SEMIFINAL"
	PhaseQuarterfinal = "QUARTERFINAL"
)

type MatchResult struct {
	Score1       int        `json:"score1" db:"score1"`
	Score2       int        `json:"score2" db:"score2"`
	Played       bool       `json:"played" db:"played"`
	Date         *time.Time `json:"date,omitempty" db:"played_at"`
	WinnerTeamID *int       `json:"winner_team_id,omitempty" db:"winner_team_id"`
}

type Match struct {
	ID           int             `json:"id" db:"id"`
	TournamentID int             `json:"tournament_id" db:"tournament_id"`
	GroupID      *int            `json:"group_id,omitempty" db:"group_id"`
	Team1ID      *int            `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID      *int            `json:"team2_id,omitempty" db:"team2_id"`
	Round        int             `json:"round" db:"round"`
	OrderInRound int             `json:"order_in_round" db:"order_in_round"`
	Phase        string          `json:"phase" db:"phase"`
	Stage        TournamentStage `json:"stage" db:"stage"`
	BracketUID   string          `json:"bracket_uid" db:"bracket_uid"`
	Source1UID   *string         `json:"source1_uid,omitempty" db:"source1_uid"`
	Source2UID   *string         `json:"source2_uid,omitempty" db:"source2_uid"`
	IsBye        bool            `json:"is_bye" db:"is_bye"`
	Result       *MatchResult    `json:"result,omitempty" db:"-"`

	// GroupIndex links a group match of an uncommitted proposal to DrawProposal.Groups.
	GroupIndex *int `json:"group_index,omitempty" db:"-"`
}

func (m *Match) Played() bool {
	return m.Result != nil && m.Result.Played
}

// Winner returns the winning team of a played match, or nil for an unplayed match or a draw.
func (m *Match) Winner() *int {
	if !m.Played() {
		return nil
	}
	return m.Result.WinnerTeamID
}

// Involves reports whether the team plays in this match.
func (m *Match) Involves(teamID int) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) || (m.Team2ID != nil && *m.Team2ID == teamID)
}
