package bank

import (
	"context"

	"coinpurse/bot/common"
	"coinpurse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles mint, burn, give and balance commands
type Feature struct {
	bankService     service.BankService
	currencyService service.CurrencyService
}

// New creates a new bank feature instance
func New(bankService service.BankService, currencyService service.CurrencyService) *Feature {
	return &Feature{
		bankService:     bankService,
		currencyService: currencyService,
	}
}

// HandleCommand routes bank commands to the appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "mint":
		f.handleMint(s, i)
	case "burn":
		f.handleBurn(s, i)
	case "give":
		f.handleGive(s, i)
	case "balance":
		f.handleBalance(s, i)
	}
}

// HandleAutocomplete completes the currency argument on bank commands
func (f *Feature) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	focused := common.FocusedOption(i.ApplicationCommandData().Options)
	if focused == nil || focused.Name != "currency" {
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return
	}

	names, err := f.currencyService.ListCurrencyNames(context.Background(), guildID, focused.StringValue(), 25)
	if err != nil {
		log.Errorf("Failed to autocomplete currency names in guild %d: %v", guildID, err)
		return
	}

	common.RespondWithChoices(s, i, common.NameChoices(names))
}
