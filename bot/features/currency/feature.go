package currency

import (
	"coinpurse/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the currency registry commands
type Feature struct {
	currencyService service.CurrencyService
}

// New creates a new currency feature instance
func New(currencyService service.CurrencyService) *Feature {
	return &Feature{
		currencyService: currencyService,
	}
}

// HandleCommand routes currency subcommands to the appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "create":
		f.handleCreate(s, i)
	case "destroy":
		f.handleDestroy(s, i)
	}
}
