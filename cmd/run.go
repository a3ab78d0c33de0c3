package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"coinpurse/bot"
	"coinpurse/config"
	"coinpurse/database"
	"coinpurse/events"
	"coinpurse/repository"
	"coinpurse/service"

	"github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting coinpurse bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()
	subscribeEventLogging(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	currencyService := service.NewCurrencyService(uowFactory)
	bankService := service.NewBankService(uowFactory)
	settingsService := service.NewSettingsService(uowFactory)
	diceService := service.NewDiceService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}
	discordBot, err := bot.New(botConfig, currencyService, bankService, settingsService, diceService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// subscribeEventLogging logs every committed domain event
func subscribeEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeCurrencyCreated, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.CurrencyCreatedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"guild_id": e.GuildID,
				"currency": e.Name,
			}).Info("currency created")
		}
	})

	bus.Subscribe(events.EventTypeCurrencyDestroyed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.CurrencyDestroyedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"guild_id":         e.GuildID,
				"currency":         e.Name,
				"balances_removed": e.BalancesRemoved,
			}).Info("currency destroyed")
		}
	})

	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			logrus.WithFields(logrus.Fields{
				"user_id":          e.UserID,
				"guild_id":         e.GuildID,
				"currency_id":      e.CurrencyID,
				"change_amount":    e.ChangeAmount,
				"new_balance":      e.NewBalance,
				"transaction_type": e.TransactionType,
			}).Info("balance changed")
		}
	})

	bus.Subscribe(events.EventTypeDiceRolled, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.DiceRolledEvent); ok {
			logrus.WithFields(logrus.Fields{
				"user_id":     e.UserID,
				"guild_id":    e.GuildID,
				"currency_id": e.CurrencyID,
				"roll":        e.Roll,
				"won":         e.Won,
				"bet_amount":  e.BetAmount,
			}).Info("dice rolled")
		}
	})
}
