package systems

import "errors"

var (
	ErrNilSystem      = errors.New("systems: nil system")
	ErrSystemExists   = errors.New("systems: system already registered")
	ErrSystemNotFound = errors.New("systems: system not found")
)
