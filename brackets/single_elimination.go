package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

// Participant is one entrant of a bracket round: a team, optionally seeded,
// and the match it came from.
type Participant struct {
	TeamID int
	// Seed is the bracket priority, 1 is the best. Zero means unseeded.
	Seed      int
	SourceUID string
	// Byes counts the byes the team already received in earlier rounds.
	Byes int
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() DrawGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateDraw shuffles the teams and pairs neighbours into round one. With an odd
// count the last shuffled team gets a bye that still occupies a bracket slot.
func (g *SingleEliminationGenerator) GenerateDraw(teams []int, _ models.DrawConfig, rng RNG) (*Draw, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source required for a knockout draw", ErrInvalidConfiguration)
	}
	shuffled := Shuffle(teams, rng)
	participants := make([]Participant, len(shuffled))
	for i, id := range shuffled {
		participants[i] = Participant{TeamID: id}
	}
	bracket := NewBracket(1, len(participants))
	return &Draw{Matches: bracket.BuildRound(1, participants)}, nil
}

// Bracket places a knockout tree inside a tournament's round numbering.
type Bracket struct {
	FirstRound  int
	TotalRounds int
}

func NewBracket(firstRound, participants int) Bracket {
	return Bracket{FirstRound: firstRound, TotalRounds: TotalRounds(participants)}
}

// BracketFromMatches rebuilds the bracket geometry from its materialized matches.
func BracketFromMatches(matches []*models.Match) (Bracket, bool) {
	matches = knockoutOnly(matches)
	if len(matches) == 0 {
		return Bracket{}, false
	}
	first := matches[0].Round
	for _, m := range matches {
		first = min(first, m.Round)
	}
	slots := 0
	for _, m := range matches {
		if m.Round != first {
			continue
		}
		if m.IsBye || m.Team2ID == nil {
			slots++
		} else {
			slots += 2
		}
	}
	return NewBracket(first, slots), true
}

// Relative converts an absolute round number to its 1-based position in the bracket.
func (b Bracket) Relative(round int) int {
	return round - b.FirstRound + 1
}

func (b Bracket) LastRound() int {
	return b.FirstRound + b.TotalRounds - 1
}

func (b Bracket) Name(round int) string {
	return RoundName(b.Relative(round), b.TotalRounds)
}

func (b Bracket) Phase(round int) string {
	return PhaseLabel(b.Relative(round), b.TotalRounds)
}

// BuildRound is BuildRound with the bracket's phase label applied.
func (b Bracket) BuildRound(round int, participants []Participant) []*models.Match {
	matches := BuildRound(round, participants)
	phase := b.Phase(round)
	for _, m := range matches {
		m.Phase = phase
	}
	return matches
}

// BuildRound pairs participants[2i] with participants[2i+1]. With an odd count the
// highest priority participant is pulled out and advanced through a bye match in
// the last slot; the others keep their relative order.
func BuildRound(round int, participants []Participant) []*models.Match {
	ordered := make([]Participant, 0, len(participants))
	var bye *Participant
	if len(participants)%2 == 1 {
		idx := byeIndex(participants)
		for i, p := range participants {
			if i == idx {
				picked := p
				bye = &picked
				continue
			}
			ordered = append(ordered, p)
		}
	} else {
		ordered = append(ordered, participants...)
	}

	matches := make([]*models.Match, 0, (len(participants)+1)/2)
	slot := 0
	for i := 0; i+1 < len(ordered); i += 2 {
		slot++
		p1, p2 := ordered[i], ordered[i+1]
		m := newKnockoutMatch(round, slot)
		m.Team1ID = intPtr(p1.TeamID)
		m.Team2ID = intPtr(p2.TeamID)
		m.Source1UID = strPtr(p1.SourceUID)
		m.Source2UID = strPtr(p2.SourceUID)
		matches = append(matches, m)
	}
	if bye != nil {
		slot++
		m := newKnockoutMatch(round, slot)
		m.Team1ID = intPtr(bye.TeamID)
		m.Source1UID = strPtr(bye.SourceUID)
		m.IsBye = true
		m.Result = &models.MatchResult{Played: true, WinnerTeamID: intPtr(bye.TeamID)}
		matches = append(matches, m)
	}
	return matches
}

// byeIndex picks the participant with the fewest byes so far, then the best seed.
// Among equals, and when nobody is seeded, the last one wins so an unseeded draw
// gives the bye to the final entry.
func byeIndex(participants []Participant) int {
	best := len(participants) - 1
	for i, p := range participants {
		if byeBefore(p, participants[best]) || (i > best && !byeBefore(participants[best], p)) {
			best = i
		}
	}
	return best
}

// byeBefore reports whether a has strictly higher bye priority than b.
func byeBefore(a, b Participant) bool {
	if a.Byes != b.Byes {
		return a.Byes < b.Byes
	}
	switch {
	case a.Seed > 0 && b.Seed > 0:
		return a.Seed < b.Seed
	case a.Seed > 0:
		return true
	default:
		return false
	}
}

func newKnockoutMatch(round, slot int) *models.Match {
	return &models.Match{
		Round:        round,
		OrderInRound: slot,
		Stage:        models.StageKnockout,
		BracketUID:   fmt.Sprintf("R%dM%d", round, slot),
	}
}

// Advance is what follows a fully played round: either the next round or a champion.
type Advance struct {
	Round    int
	Matches  []*models.Match
	Champion *int
}

// NextRound materializes the round after the latest one once every match in it is
// played. It returns nil while any match of the latest round is still open.
func NextRound(matches []*models.Match, seeds map[int]int) (*Advance, error) {
	matches = knockoutOnly(matches)
	bracket, ok := BracketFromMatches(matches)
	if !ok {
		return nil, nil
	}
	latest := bracket.FirstRound
	for _, m := range matches {
		latest = max(latest, m.Round)
	}
	current := roundMatches(matches, latest)
	participants, complete, err := winnersOf(current, seeds, byeCounts(matches, latest))
	if err != nil || !complete {
		return nil, err
	}
	if len(participants) == 1 {
		champion := participants[0].TeamID
		return &Advance{Round: latest, Champion: &champion}, nil
	}
	next := latest + 1
	return &Advance{Round: next, Matches: bracket.BuildRound(next, participants)}, nil
}

// Reconcile re-derives every materialized round after changedRound from the
// current winners and rewrites slots that no longer match. It returns the matches
// it modified. A changed slot in a match that was already played is an error.
func Reconcile(matches []*models.Match, seeds map[int]int, changedRound int) ([]*models.Match, error) {
	matches = knockoutOnly(matches)
	bracket, ok := BracketFromMatches(matches)
	if !ok {
		return nil, nil
	}
	var modified []*models.Match
	for round := changedRound + 1; ; round++ {
		existing := roundMatches(matches, round)
		if len(existing) == 0 {
			break
		}
		participants, complete, err := winnersOf(roundMatches(matches, round-1), seeds, byeCounts(matches, round-1))
		if err != nil {
			return nil, err
		}
		if !complete {
			return nil, fmt.Errorf("%w: round %d exists but round %d is not fully played", ErrInvalidResult, round, round-1)
		}
		expected := bracket.BuildRound(round, participants)
		if len(expected) != len(existing) {
			return nil, fmt.Errorf("%w: round %d has %d matches, expected %d", ErrInvalidResult, round, len(existing), len(expected))
		}
		for i, want := range expected {
			have := existing[i]
			if sameSlot(have, want) {
				continue
			}
			if have.Played() && !have.IsBye {
				return nil, fmt.Errorf("%w: match %s was already played", ErrDownstreamPlayed, have.BracketUID)
			}
			have.Team1ID, have.Team2ID = want.Team1ID, want.Team2ID
			have.Source1UID, have.Source2UID = want.Source1UID, want.Source2UID
			have.IsBye = want.IsBye
			have.Result = want.Result
			modified = append(modified, have)
		}
	}
	return modified, nil
}

func sameSlot(a, b *models.Match) bool {
	return equalIntPtr(a.Team1ID, b.Team1ID) && equalIntPtr(a.Team2ID, b.Team2ID) && a.IsBye == b.IsBye
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func knockoutOnly(matches []*models.Match) []*models.Match {
	out := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Stage == models.StageKnockout {
			out = append(out, m)
		}
	}
	return out
}

func roundMatches(matches []*models.Match, round int) []*models.Match {
	out := make([]*models.Match, 0)
	for _, m := range matches {
		if m.Round == round {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OrderInRound < out[j].OrderInRound
	})
	return out
}

// byeCounts counts the byes each team received up to and including lastRound.
func byeCounts(matches []*models.Match, lastRound int) map[int]int {
	counts := make(map[int]int)
	for _, m := range matches {
		if m.IsBye && m.Round <= lastRound && m.Team1ID != nil {
			counts[*m.Team1ID]++
		}
	}
	return counts
}

// winnersOf lists the winners of a round in slot order. complete is false while any
// match is unplayed.
func winnersOf(round []*models.Match, seeds, byes map[int]int) ([]Participant, bool, error) {
	participants := make([]Participant, 0, len(round))
	for _, m := range round {
		if !m.Played() {
			return nil, false, nil
		}
		winner := m.Winner()
		if winner == nil {
			return nil, false, fmt.Errorf("%w: knockout match %s has no winner", ErrInvalidResult, m.BracketUID)
		}
		participants = append(participants, Participant{
			TeamID:    *winner,
			Seed:      seeds[*winner],
			SourceUID: m.BracketUID,
			Byes:      byes[*winner],
		})
	}
	return participants, true, nil
}
