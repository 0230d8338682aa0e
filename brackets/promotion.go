package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

// Qualifier is a team leaving the group stage.
type Qualifier struct {
	TeamID     int `json:"team_id"`
	GroupIndex int `json:"group_index"`
	Rank       int `json:"rank"`
	Seed       int `json:"seed"`
}

// Promotion is the knockout bracket built from the group stage.
type Promotion struct {
	Qualifiers []Qualifier
	Matches    []*models.Match
	// Seeds maps team id to knockout seed. Later rounds use it to hand out byes.
	Seeds map[int]int
}

// Promote ranks every group, seeds the qualifiers and builds the first knockout round
// at firstRound. Nothing is returned unless every group match is played.
func Promote(groups []*models.Group, matches []*models.Match, qualifiers, firstRound int) (*Promotion, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: tournament has no groups", ErrInvalidConfiguration)
	}
	if !GroupStageComplete(matches) {
		return nil, ErrIncompleteGroupStage
	}

	var pool []Qualifier
	for gi, group := range groups {
		for _, row := range ComputeStandings(group, matches, qualifiers) {
			if !row.Qualified {
				continue
			}
			pool = append(pool, Qualifier{TeamID: row.TeamID, GroupIndex: gi, Rank: row.Rank})
		}
	}
	if len(pool) < 2 {
		return nil, fmt.Errorf("%w: %d qualifiers cannot form a bracket", ErrInvalidConfiguration, len(pool))
	}

	seeded := SeedQualifiers(pool)
	participants := arrangeCrossGroup(seeded)

	seeds := make(map[int]int, len(seeded))
	for _, q := range seeded {
		seeds[q.TeamID] = q.Seed
	}
	bracket := NewBracket(firstRound, len(participants))
	return &Promotion{
		Qualifiers: seeded,
		Matches:    bracket.BuildRound(firstRound, participants),
		Seeds:      seeds,
	}, nil
}

// SeedQualifiers orders qualifiers by group rank, then group, and numbers them from 1.
// All group winners are seeded ahead of all runners-up.
func SeedQualifiers(pool []Qualifier) []Qualifier {
	seeded := make([]Qualifier, len(pool))
	copy(seeded, pool)
	sort.SliceStable(seeded, func(i, j int) bool {
		if seeded[i].Rank != seeded[j].Rank {
			return seeded[i].Rank < seeded[j].Rank
		}
		return seeded[i].GroupIndex < seeded[j].GroupIndex
	})
	for i := range seeded {
		seeded[i].Seed = i + 1
	}
	return seeded
}

// arrangeCrossGroup lays seeded qualifiers out so that BuildRound pairs the best
// remaining seed with the weakest qualifier of another group. A pairing is only
// taken if the rest can still be paired across groups; same-group pairs appear
// only when no other arrangement exists. With an odd count seed 1 sits out and
// goes last, which is where BuildRound puts the bye.
func arrangeCrossGroup(seeded []Qualifier) []Participant {
	pool := make([]Qualifier, len(seeded))
	copy(pool, seeded)

	var bye *Qualifier
	if len(pool)%2 == 1 {
		top := pool[0]
		bye = &top
		pool = pool[1:]
	}

	out := make([]Participant, 0, len(seeded))
	for len(pool) > 0 {
		top := pool[0]
		rest := pool[1:]
		pick := -1
		fallback := -1
		for i := len(rest) - 1; i >= 0; i-- {
			if rest[i].GroupIndex == top.GroupIndex {
				continue
			}
			if fallback < 0 {
				fallback = i
			}
			if crossGroupFeasible(without(rest, i)) {
				pick = i
				break
			}
		}
		if pick < 0 {
			pick = fallback
		}
		if pick < 0 {
			pick = len(rest) - 1
		}
		opponent := rest[pick]
		out = append(out, asParticipant(top), asParticipant(opponent))
		pool = without(rest, pick)
	}
	if bye != nil {
		out = append(out, asParticipant(*bye))
	}
	return out
}

// crossGroupFeasible reports whether the pool can be split into pairs from different
// groups, which holds exactly when no group owns more than half of it.
func crossGroupFeasible(pool []Qualifier) bool {
	counts := make(map[int]int)
	largest := 0
	for _, q := range pool {
		counts[q.GroupIndex]++
		largest = max(largest, counts[q.GroupIndex])
	}
	return largest*2 <= len(pool)
}

func without(pool []Qualifier, idx int) []Qualifier {
	out := make([]Qualifier, 0, len(pool)-1)
	out = append(out, pool[:idx]...)
	return append(out, pool[idx+1:]...)
}

func asParticipant(q Qualifier) Participant {
	return Participant{TeamID: q.TeamID, Seed: q.Seed}
}
