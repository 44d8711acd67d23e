package paths

import (
	"errors"
)

var (
	ErrUnknownToken = errors.New("unknown path token")
	ErrNoLRT        = errors.New("no LRT stage reachable")
	ErrNoWalk       = errors.New("no forward walk reaches an anchor")
	ErrUnknownStage = errors.New("unknown stage")
	ErrStrategy     = errors.New("unknown threat strategy")
)
