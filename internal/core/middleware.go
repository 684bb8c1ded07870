package core

import (
	"github.com/bwmarrin/discordgo"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func (w *wrappedCommand) Component(ctx *ComponentInteractionContext) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return dispatch(w.Command, ctx)
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// dispatch routes ctx to the right entry point of cmd.
func dispatch(cmd Command, ctx interface{}) error {
	if v, ok := ctx.(*ComponentInteractionContext); ok {
		if ch, ok := cmd.(ComponentInteractionHandler); ok {
			return ch.Component(v)
		}
		return nil
	}
	return cmd.Run(ctx)
}

func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				switch v := ctx.(type) {
				case *SlashInteractionContext:
					if v.Event.GuildID == "" {
						return RespondEphemeral(v.Session, v.Event, "This command only works inside a server.")
					}
				case *ComponentInteractionContext:
					if v.Event.GuildID == "" {
						return nil
					}
				}
				return dispatch(cmd, ctx)
			},
		}
	}
}

// WithCommandLogger records every slash command and component use in the
// guild's command history.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				// Run the actual command first
				err := dispatch(cmd, ctx)

				switch v := ctx.(type) {
				case *SlashInteractionContext:
					if e := LogCommand(v.Session, v.Storage, v.Event, cmd.Name(), slashParam(v.Event)); e != nil {
						v.Log.Warn().Err(e).Str("command", cmd.Name()).Msg("failed to log command")
					}
				case *ComponentInteractionContext:
					if e := LogCommand(v.Session, v.Storage, v.Event, cmd.Name(), v.CustomID); e != nil {
						v.Log.Warn().Err(e).Str("command", cmd.Name()).Msg("failed to log component")
					}
				}

				return err
			},
		}
	}
}
