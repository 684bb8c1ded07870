// Package voice owns the bot's voice links, at most one per guild.
package voice

import (
	"context"
	"errors"
)

var ErrNotConnected = errors.New("voice connection is gone")

// Target is a voice channel in a guild.
type Target struct {
	GuildID   string
	ChannelID string
}

// Connection is an established voice link.
type Connection interface {
	GuildID() string
	ChannelID() string
	SendOpus(ctx context.Context, frame []byte) error
	Speaking(on bool) error
	// Disconnected is closed once the link is lost or torn down.
	Disconnected() <-chan struct{}
	Disconnect() error
}

// Opener establishes voice links.
type Opener interface {
	Join(ctx context.Context, target Target) (Connection, error)
}

// Occupancy reports how many members other than the bot sit in a channel.
type Occupancy interface {
	Occupants(guildID, channelID string) int
}
