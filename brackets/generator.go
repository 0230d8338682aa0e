package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

// Draw is the initial fixture set produced for a tournament.
type Draw struct {
	Groups  []*models.Group
	Matches []*models.Match
}

type DrawGenerator interface {
	GenerateDraw(teams []int, cfg models.DrawConfig, rng RNG) (*Draw, error)

	GetName() string
}

func NewDrawGenerator(format models.TournamentFormat) (DrawGenerator, error) {
	switch format {
	case models.FormatKnockout, models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatGroups:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidConfiguration, format)
	}
}

// GenerateDraw validates the team set and produces the fixtures for the format.
// It never mutates teams and returns nothing on error.
func GenerateDraw(teams []int, format models.TournamentFormat, cfg models.DrawConfig, rng RNG) (*Draw, error) {
	if err := validateTeams(teams); err != nil {
		return nil, err
	}
	generator, err := NewDrawGenerator(format)
	if err != nil {
		return nil, err
	}
	return generator.GenerateDraw(teams, cfg, rng)
}

func validateTeams(teams []int) error {
	if len(teams) < 2 {
		return fmt.Errorf("%w: at least 2 teams required, got %d", ErrInvalidConfiguration, len(teams))
	}
	seen := make(map[int]struct{}, len(teams))
	for _, id := range teams {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: team %d listed twice", ErrInvalidConfiguration, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
