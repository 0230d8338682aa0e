package brackets

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid draw configuration")
	ErrIncompleteGroupStage = errors.New("group stage is not complete")
	ErrUnknownTeam          = errors.New("unknown team")
	ErrInvalidResult        = errors.New("invalid match result")
	ErrAmbiguousPhase       = errors.New("phase label does not map to a canonical round")
)

// ErrDownstreamPlayed means a correction would change a match that already has a result.
var ErrDownstreamPlayed = errors.New("dependent match already played")
