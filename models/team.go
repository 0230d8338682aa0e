package models

import "time"

// TeamRecord is the aggregate record of a team across every match it has played.
// It is derived state: the result recorder rebuilds it from the match log.
type TeamRecord struct {
	Played       int `json:"played" db:"played"`
	Won          int `json:"won" db:"won"`
	Drawn        int `json:"drawn" db:"drawn"`
	Lost         int `json:"lost" db:"lost"`
	GoalsFor     int `json:"goals_for" db:"goals_for"`
	GoalsAgainst int `json:"goals_against" db:"goals_against"`
}

type Team struct {
	ID        int        `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Sport     string     `json:"sport" db:"sport"`
	Record    TeamRecord `json:"record" db:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
