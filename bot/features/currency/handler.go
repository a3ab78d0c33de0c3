package currency

import (
	"context"
	"errors"
	"fmt"

	"coinpurse/bot/common"
	"coinpurse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to create currencies")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	name := i.ApplicationCommandData().Options[0].Options[0].StringValue()

	ctx := context.Background()
	created, err := f.currencyService.CreateCurrency(ctx, guildID, name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCurrencyExists):
			common.RespondWithError(s, i, fmt.Sprintf("A currency named **%s** already exists in this server", name))
		default:
			log.Errorf("Failed to create currency %q in guild %d: %v", name, guildID, err)
			common.RespondWithError(s, i, "Unable to create currency. Please try again.")
		}
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Created currency **%s**", created.Name), false)
}

func (f *Feature) handleDestroy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to destroy currencies")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	var (
		name    string
		confirm bool
	)
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "confirm":
			confirm = opt.BoolValue()
		}
	}

	// Destroying wipes every balance of the currency, so require an
	// explicit confirmation flag
	if !confirm {
		common.RespondWithError(s, i, fmt.Sprintf("Destroying **%s** deletes every balance of it. Re-run with `confirm: True` to proceed.", name))
		return
	}

	ctx := context.Background()
	if err := f.currencyService.DestroyCurrency(ctx, guildID, name); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCurrency):
			common.RespondWithError(s, i, fmt.Sprintf("No currency named **%s** exists in this server", name))
		default:
			log.Errorf("Failed to destroy currency %q in guild %d: %v", name, guildID, err)
			common.RespondWithError(s, i, "Unable to destroy currency. Please try again.")
		}
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Destroyed currency **%s** and all balances of it", name), false)
}

// HandleAutocomplete completes the currency name argument on destroy
func (f *Feature) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	focused := common.FocusedOption(i.ApplicationCommandData().Options)
	if focused == nil || focused.Name != "name" {
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
