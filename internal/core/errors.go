package core

import (
	"errors"

	"github.com/keshon/dare/internal/music/session"
	"github.com/keshon/dare/internal/music/source_resolver"
)

// DescribeError turns a session or resolution error into a message for the
// member who issued the command.
func DescribeError(err error) string {
	var rerr *source_resolver.ResolutionError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrMemberNotResolved):
		return "Join a voice channel first."
	case errors.Is(err, session.ErrBusyElsewhere):
		return "I'm already playing for people in another channel."
	case errors.Is(err, session.ErrSessionReset):
		return "Playback was stopped while your request was being handled."
	case errors.Is(err, session.ErrShutdown):
		return "I'm shutting down, try again in a moment."
	case errors.Is(err, source_resolver.ErrPlaylistEmpty):
		return "That playlist has no playable tracks."
	case errors.Is(err, source_resolver.ErrSearchEmpty):
		return "Nothing found for that search."
	case errors.Is(err, source_resolver.ErrNotFound):
		return "That video could not be found."
	case errors.Is(err, source_resolver.ErrProvider):
		return "The music provider is not responding, try again later."
	case errors.As(err, &rerr):
		return "Could not resolve that request."
	}
	return "Something went wrong: " + err.Error()
}
