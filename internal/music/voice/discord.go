package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// DiscordOpener joins voice channels through a discordgo session and watches
// voice state updates for the bot being dropped from a channel.
type DiscordOpener struct {
	dg  *discordgo.Session
	log zerolog.Logger

	mu    sync.Mutex
	conns map[string]*discordConn
}

func NewDiscordOpener(dg *discordgo.Session, log zerolog.Logger) *DiscordOpener {
	return &DiscordOpener{
		dg:    dg,
		log:   log,
		conns: make(map[string]*discordConn),
	}
}

func (o *DiscordOpener) Join(ctx context.Context, target Target) (Connection, error) {
	vc, err := o.dg.ChannelVoiceJoin(target.GuildID, target.ChannelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}

	conn := &discordConn{
		vc:        vc,
		guildID:   target.GuildID,
		channelID: target.ChannelID,
		gone:      make(chan struct{}),
	}

	if err := ctx.Err(); err != nil {
		_ = conn.Disconnect()
		return nil, err
	}

	o.mu.Lock()
	if prev, ok := o.conns[target.GuildID]; ok && prev != conn {
		prev.markGone()
	}
	o.conns[target.GuildID] = conn
	o.mu.Unlock()

	o.log.Info().Str("guild_id", target.GuildID).Str("channel_id", target.ChannelID).Msg("joined voice channel")
	return conn, nil
}

// HandleVoiceStateUpdate is registered as a discordgo handler. When the bot
// leaves voice, or is kicked, the guild's connection is marked gone.
func (o *DiscordOpener) HandleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if s.State == nil || s.State.User == nil || v.UserID != s.State.User.ID {
		return
	}

	o.mu.Lock()
	conn, ok := o.conns[v.GuildID]
	if ok && v.ChannelID == "" {
		delete(o.conns, v.GuildID)
	}
	o.mu.Unlock()

	if !ok {
		return
	}

	if v.ChannelID == "" {
		o.log.Info().Str("guild_id", v.GuildID).Msg("bot left voice")
		conn.markGone()
		return
	}
	conn.setChannel(v.ChannelID)
}

type discordConn struct {
	vc      *discordgo.VoiceConnection
	guildID string

	mu        sync.Mutex
	channelID string

	gone     chan struct{}
	goneOnce sync.Once
}

func (c *discordConn) GuildID() string { return c.guildID }

func (c *discordConn) ChannelID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}

func (c *discordConn) setChannel(id string) {
	c.mu.Lock()
	c.channelID = id
	c.mu.Unlock()
}

func (c *discordConn) SendOpus(ctx context.Context, frame []byte) error {
	select {
	case c.vc.OpusSend <- frame:
		return nil
	case <-c.gone:
		return ErrNotConnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *discordConn) Speaking(on bool) error {
	select {
	case <-c.gone:
		return ErrNotConnected
	default:
	}
	return c.vc.Speaking(on)
}

func (c *discordConn) Disconnected() <-chan struct{} { return c.gone }

func (c *discordConn) Disconnect() error {
	c.markGone()
	return c.vc.Disconnect()
}

func (c *discordConn) markGone() {
	c.goneOnce.Do(func() { close(c.gone) })
}
