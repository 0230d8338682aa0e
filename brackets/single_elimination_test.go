package brackets

import (
	"errors"
	"testing"

	"github.com/Dosada05/tournament-engine/models"
)

func participants(ids ...int) []Participant {
	out := make([]Participant, len(ids))
	for i, id := range ids {
		out[i] = Participant{TeamID: id}
	}
	return out
}

func teamsOf(m *models.Match) (int, int) {
	t1, t2 := 0, 0
	if m.Team1ID != nil {
		t1 = *m.Team1ID
	}
	if m.Team2ID != nil {
		t2 = *m.Team2ID
	}
	return t1, t2
}

func mustPlay(t *testing.T, m *models.Match, s1, s2 int) {
	t.Helper()
	if err := ApplyResult(m, s1, s2, nil); err != nil {
		t.Fatalf("apply %d-%d to %s: %v", s1, s2, m.BracketUID, err)
	}
}

func TestBuildRoundGivesByeToBestSeed(t *testing.T) {
	matches := BuildRound(3, []Participant{
		{TeamID: 30, Seed: 3},
		{TeamID: 10, Seed: 1},
		{TeamID: 20, Seed: 2},
	})

	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if t1, t2 := teamsOf(matches[0]); t1 != 30 || t2 != 20 || matches[0].BracketUID != "R3M1" {
		t.Errorf("slot 1 = %d-%d (%s)", t1, t2, matches[0].BracketUID)
	}
	bye := matches[1]
	if !bye.IsBye || *bye.Team1ID != 10 || bye.Team2ID != nil || bye.OrderInRound != 2 {
		t.Errorf("bye slot = %+v", bye)
	}
}

func TestBuildRoundUnseededByeGoesToLastEntry(t *testing.T) {
	matches := BuildRound(1, participants(1, 2, 3, 4, 5))

	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	if !matches[2].IsBye || *matches[2].Team1ID != 5 {
		t.Errorf("bye = %+v, want team 5", matches[2])
	}
}

func TestBuildRoundSkipsPreviousByeHolder(t *testing.T) {
	tests := []struct {
		name         string
		participants []Participant
		want         int
	}{
		{"unseeded", []Participant{{TeamID: 1}, {TeamID: 2}, {TeamID: 3, Byes: 1}}, 2},
		{"seeded", []Participant{{TeamID: 1, Seed: 1, Byes: 1}, {TeamID: 2, Seed: 3}, {TeamID: 3, Seed: 2}}, 3},
		{"everyone had one", []Participant{{TeamID: 1, Byes: 1}, {TeamID: 2, Byes: 1}, {TeamID: 3, Byes: 1}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := BuildRound(2, tt.participants)
			bye := matches[len(matches)-1]
			if !bye.IsBye || *bye.Team1ID != tt.want {
				t.Errorf("bye = %+v, want team %d", bye, tt.want)
			}
		})
	}
}

func TestNextRoundWalksBracketToChampion(t *testing.T) {
	matches := NewBracket(1, 5).BuildRound(1, participants(1, 2, 3, 4, 5))
	if matches[0].Phase != "QUARTERFINAL" {
		t.Fatalf("round 1 phase = %q", matches[0].Phase)
	}

	mustPlay(t, matches[1], 0, 2)
	if adv, err := NextRound(matches, nil); err != nil || adv != nil {
		t.Fatalf("round 2 materialized early: %+v, %v", adv, err)
	}
	mustPlay(t, matches[0], 1, 0)

	adv, err := NextRound(matches, nil)
	if err != nil || adv == nil {
		t.Fatalf("next round: %+v, %v", adv, err)
	}
	if adv.Round != 2 || len(adv.Matches) != 2 {
		t.Fatalf("round 2 = %+v", adv)
	}
	semi, bye := adv.Matches[0], adv.Matches[1]
	if t1, t2 := teamsOf(semi); t1 != 1 || t2 != 5 || semi.Phase != models.PhaseSemifinal {
		t.Errorf("semifinal = %d-%d (%s)", t1, t2, semi.Phase)
	}
	if !bye.IsBye || *bye.Team1ID != 4 || *bye.Source1UID != "R1M2" {
		t.Errorf("round 2 bye = %+v, want team 4 from R1M2", bye)
	}
	matches = append(matches, adv.Matches...)

	mustPlay(t, semi, 1, 2)
	adv, err = NextRound(matches, nil)
	if err != nil || adv == nil || len(adv.Matches) != 1 {
		t.Fatalf("final: %+v, %v", adv, err)
	}
	final := adv.Matches[0]
	if t1, t2 := teamsOf(final); t1 != 5 || t2 != 4 || final.Phase != models.PhaseFinal || final.Round != 3 {
		t.Errorf("final = %d-%d (%s, round %d)", t1, t2, final.Phase, final.Round)
	}
	matches = append(matches, final)

	mustPlay(t, final, 0, 1)
	adv, err = NextRound(matches, nil)
	if err != nil || adv == nil || adv.Champion == nil || *adv.Champion != 4 {
		t.Fatalf("champion: %+v, %v", adv, err)
	}
}

func TestNextRoundSpreadsByesAcrossTeams(t *testing.T) {
	for _, n := range []int{5, 9, 11} {
		teams := make([]int, n)
		for i := range teams {
			teams[i] = i + 1
		}
		draw, err := GenerateDraw(teams, models.FormatKnockout, models.DrawConfig{}, NewRNG(42))
		if err != nil {
			t.Fatalf("n=%d: draw: %v", n, err)
		}

		matches := draw.Matches
		var champion *int
		for champion == nil {
			for _, m := range matches {
				if !m.Played() {
					mustPlay(t, m, 1, 0)
				}
			}
			adv, err := NextRound(matches, nil)
			if err != nil || adv == nil {
				t.Fatalf("n=%d: next round: %+v, %v", n, adv, err)
			}
			champion = adv.Champion
			matches = append(matches, adv.Matches...)
		}

		byes, played := make(map[int]int), make(map[int]int)
		for _, m := range matches {
			if m.IsBye {
				byes[*m.Team1ID]++
				continue
			}
			played[*m.Team1ID]++
			played[*m.Team2ID]++
		}
		for team, count := range byes {
			if count > 1 {
				t.Errorf("n=%d: team %d got %d byes", n, team, count)
			}
		}
		final := matches[len(matches)-1]
		for _, id := range []int{*final.Team1ID, *final.Team2ID} {
			if played[id] < 2 {
				t.Errorf("n=%d: finalist %d played %d matches before the title", n, id, played[id])
			}
		}
	}
}

func TestNextRoundIgnoresGroupMatches(t *testing.T) {
	if adv, err := NextRound([]*models.Match{groupMatch(1, 2, 1, 0)}, nil); adv != nil || err != nil {
		t.Fatalf("group matches produced %+v, %v", adv, err)
	}
}

func TestReconcileRewritesUnplayedSlot(t *testing.T) {
	matches := NewBracket(1, 4).BuildRound(1, participants(1, 2, 3, 4))
	mustPlay(t, matches[0], 1, 0)
	mustPlay(t, matches[1], 2, 0)
	adv, err := NextRound(matches, nil)
	if err != nil || adv == nil {
		t.Fatalf("next round: %+v, %v", adv, err)
	}
	final := adv.Matches[0]
	final.ID = 77
	matches = append(matches, final)

	mustPlay(t, matches[0], 0, 1)
	modified, err := Reconcile(matches, nil, 1)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(modified) != 1 || modified[0].ID != 77 {
		t.Fatalf("modified = %+v", modified)
	}
	if t1, t2 := teamsOf(final); t1 != 2 || t2 != 3 {
		t.Errorf("final after correction = %d-%d, want 2-3", t1, t2)
	}
}

func TestReconcileRefusesPlayedDownstreamMatch(t *testing.T) {
	matches := NewBracket(1, 4).BuildRound(1, participants(1, 2, 3, 4))
	mustPlay(t, matches[0], 1, 0)
	mustPlay(t, matches[1], 2, 0)
	adv, _ := NextRound(matches, nil)
	matches = append(matches, adv.Matches...)
	mustPlay(t, adv.Matches[0], 3, 1)

	mustPlay(t, matches[0], 0, 1)
	if _, err := Reconcile(matches, nil, 1); !errors.Is(err, ErrDownstreamPlayed) {
		t.Fatalf("got %v, want ErrDownstreamPlayed", err)
	}
}

func TestReconcileWithUnchangedWinnerIsNoop(t *testing.T) {
	matches := NewBracket(1, 4).BuildRound(1, participants(1, 2, 3, 4))
	mustPlay(t, matches[0], 1, 0)
	mustPlay(t, matches[1], 2, 0)
	adv, _ := NextRound(matches, nil)
	matches = append(matches, adv.Matches...)

	mustPlay(t, matches[0], 4, 0)
	modified, err := Reconcile(matches, nil, 1)
	if err != nil || len(modified) != 0 {
		t.Fatalf("reconcile = %+v, %v", modified, err)
	}
}

func TestBracketFromMatches(t *testing.T) {
	matches := NewBracket(2, 7).BuildRound(2, participants(1, 2, 3, 4, 5, 6, 7))
	bracket, ok := BracketFromMatches(matches)
	if !ok {
		t.Fatal("bracket not detected")
	}
	if bracket.FirstRound != 2 || bracket.TotalRounds != 3 || bracket.LastRound() != 4 {
		t.Errorf("bracket = %+v", bracket)
	}
	if name := bracket.Name(3); name != "Semifinal" {
		t.Errorf("round 3 name = %q", name)
	}
}
