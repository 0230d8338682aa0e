package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed   = errors.New("validation failed")
	ErrSportMismatch      = errors.New("team sport does not match tournament sport")
	ErrRegistrationClosed = errors.New("tournament no longer accepts registrations")
	ErrProposalMismatch   = errors.New("draw proposal does not match the tournament")
	ErrWrongStage         = errors.New("operation not allowed in the current tournament stage")

	// Ошибки конфликтов
	ErrDuplicateDraw         = errors.New("draw already committed for this tournament")
	ErrDownstreamPlayed      = errors.New("correction would change a match that is already played")
	ErrTeamNameConflict      = errors.New("team name is already in use")
	ErrTeamAlreadyRegistered = errors.New("team is already registered for this tournament")

	// Ошибки, специфичные для сущностей
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrUnknownMatch       = errors.New("unknown match")
	ErrUnknownTeam        = errors.New("unknown team")
)
