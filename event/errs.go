package event

import "errors"

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrProtection   = errors.New("protection violation")
	ErrBadName      = errors.New("bad event name")
	ErrRegistered   = errors.New("listener already registered")
)
