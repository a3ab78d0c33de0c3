package settings

import (
	"coinpurse/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles guild settings management
type Feature struct {
	settingsService service.SettingsService
}

// New creates a new settings feature instance
func New(settingsService service.SettingsService) *Feature {
	return &Feature{
		settingsService: settingsService,
	}
}

// HandleCommand routes settings subcommands to the appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "set_dice":
		f.handleSetDice(s, i)
	case "set_limits":
		f.handleSetLimits(s, i)
	}
}
