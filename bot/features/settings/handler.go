package settings

import (
	"context"
	"errors"
	"fmt"

	"coinpurse/bot/common"
	"coinpurse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleSetDice(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to change settings")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	var threshold int64
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "win_chance" {
			threshold = opt.IntValue()
		}
	}

	if err := f.settingsService.SetDiceWin(context.Background(), guildID, threshold); err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			common.RespondWithError(s, i, "Win chance must be a positive number")
			return
		}
		log.Errorf("Failed to set dice threshold for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to update settings. Please try again.")
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Dice wagers now win on rolls of **%d** or lower", threshold), false)
}

func (f *Feature) handleSetLimits(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to change settings")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	var minBet, maxBet *int64
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "min_bet":
			v := opt.IntValue()
			minBet = &v
		case "max_bet":
			v := opt.IntValue()
			maxBet = &v
		}
	}

	ctx := context.Background()
	if err := f.settingsService.SetBetLimits(ctx, guildID, minBet, maxBet); err != nil {
		switch {
		case errors.Is(err, service.ErrNothingToUpdate):
			common.RespondWithError(s, i, "Provide at least one of `min_bet` or `max_bet`")
		case errors.Is(err, service.ErrInvalidRange):
			common.RespondWithError(s, i, "The minimum bet cannot exceed the maximum bet")
		default:
			log.Errorf("Failed to set bet limits for guild %d: %v", guildID, err)
			common.RespondWithError(s, i, "Unable to update settings. Please try again.")
		}
		return
	}

	settings, err := f.settingsService.GetSettings(ctx, guildID)
	if err != nil {
		common.RespondWithSuccess(s, i, "Bet limits updated", false)
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Bets must now be between **%s** and **%s**",
		common.FormatAmount(settings.MinBet), common.FormatAmount(settings.MaxBet)), false)
}
