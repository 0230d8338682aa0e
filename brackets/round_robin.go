package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

// GroupStageRound is the round number every group match is played in.
const GroupStageRound = 1

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() DrawGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateDraw partitions teams into cfg.GroupsCount groups and creates a single
// round-robin inside each group. Manual assignments bypass the shuffle.
func (g *RoundRobinGenerator) GenerateDraw(teams []int, cfg models.DrawConfig, rng RNG) (*Draw, error) {
	groupsCount := cfg.GroupsCount
	if groupsCount < 2 || groupsCount > len(teams)/2 {
		return nil, fmt.Errorf("%w: groups count must be between 2 and %d for %d teams, got %d",
			ErrInvalidConfiguration, len(teams)/2, len(teams), groupsCount)
	}

	var partition [][]int
	if len(cfg.ManualAssignments) > 0 {
		var err error
		partition, err = assignManually(teams, groupsCount, cfg.ManualAssignments)
		if err != nil {
			return nil, err
		}
	} else {
		if rng == nil {
			return nil, fmt.Errorf("%w: random source required for a shuffled draw", ErrInvalidConfiguration)
		}
		partition = distribute(Shuffle(teams, rng), groupsCount)
	}

	draw := &Draw{
		Groups:  make([]*models.Group, 0, groupsCount),
		Matches: make([]*models.Match, 0),
	}
	for gi, teamIDs := range partition {
		draw.Groups = append(draw.Groups, &models.Group{
			Name:    GroupName(gi),
			TeamIDs: teamIDs,
		})
		draw.Matches = append(draw.Matches, RoundRobin(gi, teamIDs)...)
	}
	return draw, nil
}

// distribute deals teams into groups by index % groupsCount, so sizes differ by at most one.
func distribute(teams []int, groupsCount int) [][]int {
	partition := make([][]int, groupsCount)
	for i, id := range teams {
		gi := i % groupsCount
		partition[gi] = append(partition[gi], id)
	}
	return partition
}

func assignManually(teams []int, groupsCount int, assignments map[int]int) ([][]int, error) {
	known := make(map[int]struct{}, len(teams))
	for _, id := range teams {
		known[id] = struct{}{}
	}
	assigned := make([]int, 0, len(assignments))
	for id := range assignments {
		assigned = append(assigned, id)
	}
	sort.Ints(assigned)
	for _, id := range assigned {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: team %d is not registered", ErrUnknownTeam, id)
		}
	}

	partition := make([][]int, groupsCount)
	for _, id := range teams {
		gi, ok := assignments[id]
		if !ok {
			return nil, fmt.Errorf("%w: team %d has no group assignment", ErrInvalidConfiguration, id)
		}
		if gi < 0 || gi >= groupsCount {
			return nil, fmt.Errorf("%w: team %d assigned to group %d, valid range is 0..%d",
				ErrInvalidConfiguration, id, gi, groupsCount-1)
		}
		partition[gi] = append(partition[gi], id)
	}

	smallest, largest := len(teams), 0
	for _, group := range partition {
		smallest = min(smallest, len(group))
		largest = max(largest, len(group))
	}
	if largest-smallest > 1 {
		return nil, fmt.Errorf("%w: group sizes must differ by at most 1 (smallest %d, largest %d)",
			ErrInvalidConfiguration, smallest, largest)
	}
	return partition, nil
}

// RoundRobin creates one match for every unordered pair of the group, in insertion order.
func RoundRobin(groupIndex int, teamIDs []int) []*models.Match {
	matches := make([]*models.Match, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	order := 0
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			order++
			matches = append(matches, &models.Match{
				Team1ID:      intPtr(teamIDs[i]),
				Team2ID:      intPtr(teamIDs[j]),
				Round:        GroupStageRound,
				OrderInRound: order,
				Phase:        models.PhaseGroups,
				Stage:        models.StageGroups,
				BracketUID:   fmt.Sprintf("G%dM%d", groupIndex+1, order),
				GroupIndex:   intPtr(groupIndex),
			})
		}
	}
	return matches
}

// GroupName labels groups "Group A".."Group Z", then numerically.
func GroupName(index int) string {
	if index < 26 {
		return "Group " + string(rune('A'+index))
	}
	return fmt.Sprintf("Group %d", index+1)
}
