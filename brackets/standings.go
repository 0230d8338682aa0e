package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// ComputeStandings builds the group table from scratch. Only played matches between
// two members of the group count. Rows are ordered by points, goal difference and
// goals for; anything still tied keeps the group's insertion order. The first
// qualifiers rows are marked qualified (DefaultQualifiersPerGroup when qualifiers <= 0).
func ComputeStandings(group *models.Group, matches []*models.Match, qualifiers int) []models.TeamStats {
	if qualifiers <= 0 {
		qualifiers = models.DefaultQualifiersPerGroup
	}

	index := make(map[int]*models.TeamStats, len(group.TeamIDs))
	table := make([]*models.TeamStats, 0, len(group.TeamIDs))
	for _, id := range group.TeamIDs {
		if _, dup := index[id]; dup {
			continue
		}
		entry := &models.TeamStats{TeamID: id}
		index[id] = entry
		table = append(table, entry)
	}

	for _, m := range matches {
		if !m.Played() || m.IsBye || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		home, away := index[*m.Team1ID], index[*m.Team2ID]
		if home == nil || away == nil {
			continue
		}
		tally(home, m.Result.Score1, m.Result.Score2)
		tally(away, m.Result.Score2, m.Result.Score1)
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		return a.GoalsFor > b.GoalsFor
	})

	standings := make([]models.TeamStats, len(table))
	for i, entry := range table {
		entry.Rank = i + 1
		entry.Qualified = i < qualifiers
		standings[i] = *entry
	}
	return standings
}

func tally(s *models.TeamStats, scored, conceded int) {
	s.Played++
	s.GoalsFor += scored
	s.GoalsAgainst += conceded
	s.GoalDiff = s.GoalsFor - s.GoalsAgainst
	switch {
	case scored > conceded:
		s.Won++
	case scored < conceded:
		s.Lost++
	default:
		s.Drawn++
	}
	s.Points = s.Won*pointsForWin + s.Drawn*pointsForDraw
}

// GroupStageComplete reports whether the group stage has matches and all of them are played.
func GroupStageComplete(matches []*models.Match) bool {
	found := false
	for _, m := range matches {
		if m.Stage != models.StageGroups {
			continue
		}
		found = true
		if !m.Played() {
			return false
		}
	}
	return found
}
