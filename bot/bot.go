package bot

import (
	"fmt"

	"coinpurse/bot/features/bank"
	"coinpurse/bot/features/currency"
	"coinpurse/bot/features/dice"
	"coinpurse/bot/features/leaderboard"
	"coinpurse/bot/features/settings"
	"coinpurse/events"
	"coinpurse/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token string

	// GuildID scopes command registration to one guild when set; empty
	// registers commands globally
	GuildID string
}

type Bot struct {
	config  Config
	session *discordgo.Session

	currencyFeature    *currency.Feature
	bankFeature        *bank.Feature
	diceFeature        *dice.Feature
	leaderboardFeature *leaderboard.Feature
	settingsFeature    *settings.Feature

	eventBus *events.Bus
}

func New(
	config Config,
	currencyService service.CurrencyService,
	bankService service.BankService,
	settingsService service.SettingsService,
	diceService service.DiceService,
	eventBus *events.Bus,
) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	bot := &Bot{
		config:             config,
		session:            dg,
		currencyFeature:    currency.New(currencyService),
		bankFeature:        bank.New(bankService, currencyService),
		diceFeature:        dice.New(diceService, settingsService, currencyService),
		leaderboardFeature: leaderboard.New(bankService, currencyService),
		settingsFeature:    settings.New(settingsService),
		eventBus:           eventBus,
	}

	dg.AddHandler(bot.handleInteraction)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// handleInteraction dispatches slash commands and autocomplete requests to
// the owning feature
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "currency":
			b.currencyFeature.HandleCommand(s, i)
		case "mint", "burn", "give", "balance":
			b.bankFeature.HandleCommand(s, i)
		case "leaderboard":
			b.leaderboardFeature.HandleCommand(s, i)
		case "dice", "roll":
			b.diceFeature.HandleCommand(s, i)
		case "settings":
			b.settingsFeature.HandleCommand(s, i)
		}

	case discordgo.InteractionApplicationCommandAutocomplete:
		switch i.ApplicationCommandData().Name {
		case "currency":
			b.currencyFeature.HandleAutocomplete(s, i)
		case "mint", "burn", "give":
			b.bankFeature.HandleAutocomplete(s, i)
		case "leaderboard":
			b.leaderboardFeature.HandleAutocomplete(s, i)
		case "dice":
			b.diceFeature.HandleAutocomplete(s, i)
		}
	}
}
