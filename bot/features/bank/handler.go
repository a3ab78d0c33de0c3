package bank

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

// parsedOptions holds the common option set of bank commands
type parsedOptions struct {
	currency string
	target   *discordgo.User
	amount   int64
}

func parseOptions(s *discordgo.Session, i *discordgo.InteractionCreate) parsedOptions {
	var parsed parsedOptions
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "currency":
			parsed.currency = opt.StringValue()
		case "user":
			parsed.target = opt.UserValue(s)
		case "amount":
			parsed.amount = opt.IntValue()
		}
	}
	return parsed
}

func (f *Feature) handleMint(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to mint currency")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	opts := parseOptions(s, i)
	if opts.target == nil {
		common.RespondWithError(s, i, "Invalid target user")
		return
	}

	userID, err := common.ParseID(opts.target.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", opts.target.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	result, err := f.bankService.Mint(context.Background(), guildID, opts.currency, userID, opts.amount)
	if err != nil {
		f.respondBankError(s, i, err, opts.currency)
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Minted %s for %s. Their balance is now %s.",
		common.FormatHolding(result.Amount, result.Currency.Name),
		common.GetUserMention(userID),
		common.FormatHolding(result.NewBalance, result.Currency.Name)), false)
}

func (f *Feature) handleBurn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to burn currency")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	opts := parseOptions(s, i)
	if opts.target == nil {
		common.RespondWithError(s, i, "Invalid target user")
		return
	}

	userID, err := common.ParseID(opts.target.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", opts.target.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	result, err := f.bankService.Burn(context.Background(), guildID, opts.currency, userID, opts.amount)
	if err != nil {
		f.respondBankError(s, i, err, opts.currency)
		return
	}

	message := fmt.Sprintf("Burned %s from %s. Their balance is now %s.",
		common.FormatHolding(result.Amount, result.Currency.Name),
		common.GetUserMention(userID),
		common.FormatHolding(result.NewBalance, result.Currency.Name))
	if result.Clamped {
		message += " (balance floored at zero)"
	}
	common.RespondWithSuccess(s, i, message, false)
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	opts := parseOptions(s, i)
	if opts.target == nil {
		common.RespondWithError(s, i, "Invalid recipient user")
		return
	}

	fromUserID, err := common.ParseID(i.Member.User.ID)
	if err != nil {
		log.Errorf("Failed to parse sender ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	toUserID, err := common.ParseID(opts.target.ID)
	if err != nil {
		log.Errorf("Failed to parse recipient ID %s: %v", opts.target.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	result, err := f.bankService.Transfer(context.Background(), guildID, opts.currency, fromUserID, toUserID, opts.amount)
	if err != nil {
		f.respondBankError(s, i, err, opts.currency)
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("%s gave %s to %s",
		common.GetUserMention(fromUserID),
		common.FormatHolding(result.Amount, result.Currency.Name),
		common.GetUserMention(toUserID)), false)
}

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	// Defaults to the invoker; an optional user argument checks someone else
	targetID := i.Member.User.ID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			if user := opt.UserValue(s); user != nil {
				targetID = user.ID
			}
		}
	}

	userID, err := common.ParseID(targetID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", targetID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	entries, err := f.bankService.ListBalances(context.Background(), guildID, userID, 25)
	if err != nil {
		log.Errorf("Failed to list balances for user %d in guild %d: %v", userID, guildID, err)
		common.RespondWithError(s, i, "Unable to retrieve balances. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, targetID)
	if len(entries) == 0 {
		common.RespondWithContent(s, i, fmt.Sprintf("%s holds no currency in this server.", displayName))
		return
	}

	var lines []string
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%s %s", common.FormatAmount(entry.Amount), entry.CurrencyName))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("💰 %s's holdings", displayName),
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorNeutral,
	}
	common.RespondWithEmbed(s, i, embed, false)
}

// respondBankError maps service errors to user-facing messages
func (f *Feature) respondBankError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, currencyName string) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		common.RespondWithError(s, i, "Amount must be positive")
	case errors.Is(err, service.ErrUnknownCurrency):
		common.RespondWithError(s, i, fmt.Sprintf("No currency named **%s** exists in this server", currencyName))
	case errors.Is(err, service.ErrSelfTransfer):
		common.RespondWithError(s, i, "You cannot give currency to yourself")
	case errors.Is(err, service.ErrNoBalance):
		common.RespondWithError(s, i, fmt.Sprintf("No **%s** balance exists for that user", currencyName))
	case errors.Is(err, service.ErrInsufficientFunds):
		common.RespondWithError(s, i, fmt.Sprintf("Insufficient **%s** for this operation", currencyName))
	default:
		log.Errorf("Bank command failed: %v", err)
		common.RespondWithError(s, i, "Something went wrong. Please try again later.")
	}
}
