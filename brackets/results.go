package brackets

import (
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// ApplyResult attaches a score to a match, replacing any earlier result.
// Knockout matches must produce a winner; byes take no result at all.
func ApplyResult(m *models.Match, score1, score2 int, date *time.Time) error {
	if m.IsBye {
		return fmt.Errorf("%w: match %s is a bye", ErrInvalidResult, m.BracketUID)
	}
	if m.Team1ID == nil || m.Team2ID == nil {
		return fmt.Errorf("%w: match %s has no opponents yet", ErrInvalidResult, m.BracketUID)
	}
	if score1 < 0 || score2 < 0 {
		return fmt.Errorf("%w: scores must be non-negative, got %d-%d", ErrInvalidResult, score1, score2)
	}
	if m.Stage == models.StageKnockout && score1 == score2 {
		return fmt.Errorf("%w: knockout match %s cannot end in a draw", ErrInvalidResult, m.BracketUID)
	}

	result := &models.MatchResult{Score1: score1, Score2: score2, Played: true, Date: date}
	switch {
	case score1 > score2:
		result.WinnerTeamID = intPtr(*m.Team1ID)
	case score2 > score1:
		result.WinnerTeamID = intPtr(*m.Team2ID)
	}
	m.Result = result
	return nil
}

// AggregateRecord rebuilds a team's record from every played match it took part in.
// Byes are not matches and do not count.
func AggregateRecord(teamID int, matches []*models.Match) models.TeamRecord {
	var rec models.TeamRecord
	for _, m := range matches {
		if !m.Played() || m.IsBye || m.Team1ID == nil || m.Team2ID == nil || !m.Involves(teamID) {
			continue
		}
		scored, conceded := m.Result.Score1, m.Result.Score2
		if *m.Team2ID == teamID {
			scored, conceded = conceded, scored
		}
		rec.Played++
		rec.GoalsFor += scored
		rec.GoalsAgainst += conceded
		switch {
		case scored > conceded:
			rec.Won++
		case scored < conceded:
			rec.Lost++
		default:
			rec.Drawn++
		}
	}
	return rec
}
