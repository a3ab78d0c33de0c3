package dice

import (
	"context"
	"fmt"

	"coinpurse/bot/common"
	"coinpurse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the dice wager and the free d100 roll
type Feature struct {
	diceService     service.DiceService
	settingsService service.SettingsService
	currencyService service.CurrencyService
}

// New creates a new dice feature instance
func New(diceService service.DiceService, settingsService service.SettingsService, currencyService service.CurrencyService) *Feature {
	return &Feature{
		diceService:     diceService,
		settingsService: settingsService,
		currencyService: currencyService,
	}
}

// HandleCommand routes dice commands to the appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "dice":
		f.handleDice(s, i)
	case "roll":
		f.handleRoll(s, i)
	}
}

// HandleAutocomplete completes the currency and amount arguments on /dice.
// The amount completion surfaces the guild's configured bet bounds.
func (f *Feature) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	focused := common.FocusedOption(i.ApplicationCommandData().Options)
	if focused == nil {
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return
	}
	ctx := context.Background()

	switch focused.Name {
	case "currency":
		names, err := f.currencyService.ListCurrencyNames(ctx, guildID, focused.StringValue(), 25)
		if err != nil {
			log.Errorf("Failed to autocomplete currency names in guild %d: %v", guildID, err)
			return
		}
		common.RespondWithChoices(s, i, common.NameChoices(names))

	case "amount":
		settings, err := f.settingsService.GetSettings(ctx, guildID)
		if err != nil {
			log.Errorf("Failed to get settings for guild %d: %v", guildID, err)
			return
		}
		common.RespondWithChoices(s, i, []*discordgo.ApplicationCommandOptionChoice{
			{Name: fmt.Sprintf("minimum (%s)", common.FormatAmount(settings.MinBet)), Value: settings.MinBet},
			{Name: fmt.Sprintf("maximum (%s)", common.FormatAmount(settings.MaxBet)), Value: settings.MaxBet},
		})
	}
}
