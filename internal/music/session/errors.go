package session

import "errors"

var (
	// ErrBusyElsewhere is returned when the guild already has a session in
	// another voice channel that still has listeners.
	ErrBusyElsewhere = errors.New("bot is busy in another voice channel")
	// ErrMemberNotResolved is returned when the caller is not in a voice channel.
	ErrMemberNotResolved = errors.New("member is not in a voice channel")
	// ErrSessionReset is returned when the session was stopped while a request
	// was being resolved; the result is discarded.
	ErrSessionReset = errors.New("session was reset while the request was in flight")
	ErrShutdown = errors.New("session manager is shut down")
)
