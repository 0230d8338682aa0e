package models

// TeamStats is one row of a group table.
type TeamStats struct {
	TeamID       int  `json:"team_id"`
	Rank         int  `json:"rank"`
	Played       int  `json:"played"`
	Won          int  `json:"won"`
	Drawn        int  `json:"drawn"`
	Lost         int  `json:"lost"`
	GoalsFor     int  `json:"goals_for"`
	GoalsAgainst int  `json:"goals_against"`
	GoalDiff     int  `json:"goal_diff"`
	Points       int  `json:"points"`
	Qualified    bool `json:"qualified"`
}
