package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
)

// Notifier receives engine events after the change is committed.
type Notifier interface {
	Notify(tournamentID int, eventType string, payload interface{})
}

// DrawArchiver keeps a copy of committed draws outside the database.
type DrawArchiver interface {
	ArchiveDraw(ctx context.Context, tournamentID int, proposal *models.DrawProposal) (*storage.UploadResult, error)
	ArchiveKnockout(ctx context.Context, tournamentID int, matches []*models.Match) (*storage.UploadResult, error)
}

type noopNotifier struct{}

func (noopNotifier) Notify(int, string, interface{}) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

// handleRepositoryError - общий хелпер для ошибок репозитория
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrGroupNotFound):
		return ErrGroupNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrUnknownMatch
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamAlreadyRegistered):
		return ErrTeamAlreadyRegistered
	case errors.Is(err, repositories.ErrTournamentTeamNotFound):
		return ErrUnknownTeam
	default:
		return err
	}
}

// replaceByID swaps the entry with the same id for m, so engine code sees the fresh copy.
func replaceByID(matches []*models.Match, m *models.Match) []*models.Match {
	for i, existing := range matches {
		if existing.ID == m.ID {
			matches[i] = m
			return matches
		}
	}
	return append(matches, m)
}

func createMatches(ctx context.Context, repo repositories.MatchRepository, exec repositories.SQLExecutor, tournamentID int, matches []*models.Match) error {
	for _, m := range matches {
		m.TournamentID = tournamentID
		if err := repo.Create(ctx, exec, m); err != nil {
			return fmt.Errorf("failed to save match %s: %w", m.BracketUID, err)
		}
	}
	return nil
}
