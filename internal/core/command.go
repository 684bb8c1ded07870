package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/dare/internal/storage"
)

type Command interface {
	Name() string
	Description() string
	Group() string
	Category() string
	Run(ctx interface{}) error
}

// Providers - how this command should be registered with Discord
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Contexts - what runtime hands you when executing a command
type SlashInteractionContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
	Log     zerolog.Logger
}

// Buttons and select menus. The custom ID starts with the owning command's
// name followed by a colon.
type ComponentInteractionContext struct {
	Ctx      context.Context
	Session  *discordgo.Session
	Event    *discordgo.InteractionCreate
	Storage  *storage.Storage
	Log      zerolog.Logger
	CustomID string
}

// Hook for component beyond Run
type ComponentInteractionHandler interface {
	Component(*ComponentInteractionContext) error
}

// ComponentID builds a custom ID routed back to the command named name.
func ComponentID(name string, parts ...string) string {
	id := name
	for _, p := range parts {
		id += ":" + p
	}
	return id
}
