package game

import "errors"

const (
	MinBoardSize     = 4
	MaxBoardSize     = 19
	DefaultBoardSize = 9
)

var (
	ErrInvalidBoardSize   = errors.New("invalid board size")
	ErrInvalidComposition = errors.New("invalid reserve composition")
	ErrUnknownKind        = errors.New("unknown piece kind")
	ErrUnknownPlayer      = errors.New("unknown player")
)

// ValidBoardSize indique si la taille est jouable.
func ValidBoardSize(n int) bool { return n >= MinBoardSize && n <= MaxBoardSize }
