package models

// DrawConfig carries the format specific draw options.
type DrawConfig struct {
	GroupsCount int `json:"groups_count,omitempty"`
	// ManualAssignments maps team id to a zero-based group index. When set the shuffle is skipped.
	ManualAssignments map[int]int `json:"manual_assignments,omitempty"`
}

// DrawProposal is the output of a draw preview. Nothing is persisted until it is committed.
type DrawProposal struct {
	ID      string           `json:"id"`
	Format  TournamentFormat `json:"format"`
	Config  DrawConfig       `json:"config"`
	Seed    uint64           `json:"seed"`
	TeamIDs []int            `json:"team_ids"`
	Groups  []*Group         `json:"groups,omitempty"`
	Matches []*Match         `json:"matches"`
}
