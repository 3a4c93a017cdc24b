package engine

import "errors"

var (
	ErrInvalidSquare      = errors.New("invalid square")
	ErrInvalidMap         = errors.New("invalid map")
	ErrInvalidLibrary     = errors.New("invalid options library")
	ErrEmptyLibrary       = errors.New("options library is empty")
	ErrUnknownMode        = errors.New("unknown assignment mode")
	ErrCapacityExceeded   = errors.New("not enough squares for rewards and penalties")
	ErrNoMapSelected      = errors.New("no map selected")
	ErrNoPlayers          = errors.New("no players set")
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrMalformedImport    = errors.New("malformed import")
	ErrInvalidState       = errors.New("invalid game state")
)
