package dice

import (
	"context"
	"errors"
	"fmt"

	"coinpurse/bot/common"
	"coinpurse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleDice(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	userID, err := common.ParseID(i.Member.User.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	var (
		currencyName string
		amount       int64
	)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "currency":
			currencyName = opt.StringValue()
		case "amount":
			amount = opt.IntValue()
		}
	}

	ctx := context.Background()
	result, err := f.diceService.PlayDice(ctx, guildID, currencyName, userID, amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			common.RespondWithError(s, i, "Bet amount must be positive")
		case errors.Is(err, service.ErrNotConfigured):
			common.RespondWithError(s, i, "The dice game is not configured for this server. An admin must run `/settings set_dice` first.")
		case errors.Is(err, service.ErrBetOutOfBounds):
			settings, settingsErr := f.settingsService.GetSettings(ctx, guildID)
			if settingsErr != nil {
				common.RespondWithError(s, i, "Bet is outside this server's limits")
				return
			}
			common.RespondWithError(s, i, fmt.Sprintf("Bet must be between %s and %s",
				common.FormatAmount(settings.MinBet), common.FormatAmount(settings.MaxBet)))
		case errors.Is(err, service.ErrUnknownCurrency):
			common.RespondWithError(s, i, fmt.Sprintf("No currency named **%s** exists in this server", currencyName))
		case errors.Is(err, service.ErrNoBalance):
			common.RespondWithError(s, i, fmt.Sprintf("You hold no **%s** to wager", currencyName))
		case errors.Is(err, service.ErrInsufficientFunds):
			common.RespondWithError(s, i, fmt.Sprintf("You don't have enough **%s** to cover that bet", currencyName))
		default:
			log.Errorf("Dice wager failed for user %d in guild %d: %v", userID, guildID, err)
			common.RespondWithError(s, i, "Something went wrong. Please try again later.")
		}
		return
	}

	color := common.ColorSuccess
	if !result.Won {
		color = common.ColorFailure
	}

	embed := &discordgo.MessageEmbed{
		Title: "🎲 Dice",
		Description: common.FormatDiceOutcome(
			result.Won, result.Roll, result.WinThreshold,
			result.BetAmount, result.NewBalance, result.Currency.Name),
		Color: color,
	}
	common.RespondWithEmbed(s, i, embed, false)
}

func (f *Feature) handleRoll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	roll := f.diceService.RollD100()
	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	common.RespondWithContent(s, i, fmt.Sprintf("🎲 %s rolled **%d**", displayName, roll))
}
