package models

type Group struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
	// Insertion order, not rank.
	TeamIDs []int `json:"team_ids" db:"-"`
}

func (g *Group) HasTeam(teamID int) bool {
	for _, id := range g.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
