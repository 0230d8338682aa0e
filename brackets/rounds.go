package brackets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/tournament-engine/models"
)

// Rounds before the quarterfinal that still get a "Round of N" name.
const maxNamedRoundOf = 64

// TotalRounds is the number of knockout rounds needed to reduce n participants to one
// when every odd round hands out a single bye.
func TotalRounds(participants int) int {
	rounds := 0
	for n := participants; n > 1; n = (n + 1) / 2 {
		rounds++
	}
	return rounds
}

// RoundName is the display name of a bracket round. round is 1-based within the bracket.
func RoundName(round, totalRounds int) string {
	if round < 1 || round > totalRounds {
		return fmt.Sprintf("Round %d", round)
	}
	switch fromEnd := totalRounds - round; fromEnd {
	case 0:
		return "Final"
	case 1:
		return "Semifinal"
	case 2:
		return "Quarterfinal"
	default:
		if size := 2 << fromEnd; size <= maxNamedRoundOf {
			return fmt.Sprintf("Round of %d", size)
		}
		return fmt.Sprintf("Round %d", round)
	}
}

// PhaseLabel is the canonical stored label for a bracket round.
func PhaseLabel(round, totalRounds int) string {
	if round < 1 || round > totalRounds {
		return fmt.Sprintf("ROUND_%d", round)
	}
	switch fromEnd := totalRounds - round; fromEnd {
	case 0:
		return models.PhaseFinal
	case 1:
		return models.PhaseSemifinal
	case 2:
		return models.PhaseQuarterfinal
	default:
		if size := 2 << fromEnd; size <= maxNamedRoundOf {
			return fmt.Sprintf("ROUND_OF_%d", size)
		}
		return fmt.Sprintf("ROUND_%d", round)
	}
}

// RoundFromPhase maps a canonical phase label back to its 1-based bracket round.
// Free-text labels are rejected instead of guessed.
func RoundFromPhase(label string, totalRounds int) (int, error) {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	round := 0
	switch {
	case normalized == models.PhaseFinal:
		round = totalRounds
	case normalized == models.PhaseSemifinal:
		round = totalRounds - 1
	case normalized == models.PhaseQuarterfinal:
		round = totalRounds - 2
	case strings.HasPrefix(normalized, "ROUND_OF_"):
		size, err := strconv.Atoi(strings.TrimPrefix(normalized, "ROUND_OF_"))
		if err != nil || size < 16 || size > maxNamedRoundOf || size&(size-1) != 0 {
			return 0, fmt.Errorf("%w: %q", ErrAmbiguousPhase, label)
		}
		fromEnd := 0
		for s := size; s > 2; s >>= 1 {
			fromEnd++
		}
		round = totalRounds - fromEnd
	case strings.HasPrefix(normalized, "ROUND_"):
		n, err := strconv.Atoi(strings.TrimPrefix(normalized, "ROUND_"))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrAmbiguousPhase, label)
		}
		round = n
	default:
		return 0, fmt.Errorf("%w: %q", ErrAmbiguousPhase, label)
	}
	if round < 1 || round > totalRounds || PhaseLabel(round, totalRounds) != normalized {
		return 0, fmt.Errorf("%w: %q is not a round of a %d-round bracket", ErrAmbiguousPhase, label, totalRounds)
	}
	return round, nil
}
