package domain

import "errors"

var (
	ErrInvalidAmount     = errors.New("bet amount outside configured bounds")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBettingClosed     = errors.New("betting closed")
	ErrNoActiveRace      = errors.New("no active race")
	ErrUnknownModel      = errors.New("unknown model")
)
