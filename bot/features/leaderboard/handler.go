package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coinpurse/bot/common"
	"coinpurse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var rankMedals = []string{"🥇", "🥈", "🥉"}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	var currencyName string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "currency" {
			currencyName = opt.StringValue()
		}
	}

	entries, err := f.bankService.Leaderboard(context.Background(), guildID, currencyName, 25)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCurrency) {
			common.RespondWithError(s, i, fmt.Sprintf("No currency named **%s** exists in this server", currencyName))
			return
		}
		log.Errorf("Failed to get leaderboard for %q in guild %d: %v", currencyName, guildID, err)
		common.RespondWithError(s, i, "Unable to retrieve leaderboard. Please try again.")
		return
	}

	if len(entries) == 0 {
		common.RespondWithContent(s, i, fmt.Sprintf("Nobody holds any **%s** yet.", currencyName))
		return
	}

	var lines []string
	for rank, entry := range entries {
		marker := fmt.Sprintf("%d.", rank+1)
		if rank < len(rankMedals) {
			marker = rankMedals[rank]
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s",
			marker, common.GetUserMention(entry.UserID), common.FormatAmount(entry.Amount)))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🏆 Top %s holders", currencyName),
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorNeutral,
	}
	common.RespondWithEmbed(s, i, embed, false)
}
