package service

import "errors"

// Expected, user-facing error conditions. Services return these (possibly
// wrapped) so callers can branch with errors.Is; anything else is a store
// failure and should be treated as fatal for the request.
var (
	// ErrInvalidAmount indicates a zero or negative amount, threshold or bet
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrCurrencyExists indicates a currency with that name already exists
	// in the guild (names are compared case-insensitively)
	ErrCurrencyExists = errors.New("currency already exists")

	// ErrUnknownCurrency indicates no currency with that name exists in the guild
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrNoBalance indicates the user holds none of the currency at all
	ErrNoBalance = errors.New("no balance for currency")

	// ErrInsufficientFunds indicates the user's balance is smaller than the
	// amount being moved
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer indicates sender and recipient are the same user
	ErrSelfTransfer = errors.New("cannot transfer to yourself")

	// ErrInvalidRange indicates min_bet > max_bet in a single update
	ErrInvalidRange = errors.New("minimum bet must not exceed maximum bet")

	// ErrNothingToUpdate indicates a settings update carried no values
	ErrNothingToUpdate = errors.New("nothing to update")

	// ErrNotConfigured indicates the guild has no dice win threshold set
	ErrNotConfigured = errors.New("dice win threshold not configured")

	// ErrBetOutOfBounds indicates a bet outside the guild's configured limits
	ErrBetOutOfBounds = errors.New("bet outside allowed limits")
)
