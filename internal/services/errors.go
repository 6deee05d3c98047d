package services

import "errors"

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrNameTaken         = errors.New("team name already exists")

	ErrInvalidName       = errors.New("team name must be at least 2 characters")
	ErrTooManyMembers    = errors.New("too many team members")
	ErrNegativeScore     = errors.New("score must not be negative")
	ErrZeroPoints        = errors.New("points must be a non-zero integer")
	ErrInvalidKind       = errors.New("invalid activity kind")
	ErrInvalidTitle      = errors.New("challenge title must be at least 2 characters")
	ErrInvalidPoints     = errors.New("challenge points must be positive")
	ErrInvalidDifficulty = errors.New("invalid challenge difficulty")
	ErrInvalidCategory   = errors.New("challenge category is required")

	ErrInvalidPage        = errors.New("page must be a positive integer")
	ErrInvalidPageSize    = errors.New("page size must be a positive integer")
	ErrInvalidContextSize = errors.New("context size must not be negative")
)
