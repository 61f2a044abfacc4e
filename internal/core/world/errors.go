package world

import "errors"

var (
	ErrInvalidBody    = errors.New("world: invalid body")
	ErrInvalidSegment = errors.New("world: invalid segment")
	ErrInvalidBounds  = errors.New("world: invalid bounds")
)
