package common

import (
	"fmt"
	"strings"
)

// Embed colors used across features
const (
	ColorSuccess = 0x2ECC71
	ColorFailure = 0xE74C3C
	ColorNeutral = 0x3498DB
)

// FormatAmount formats an amount with thousand separators
func FormatAmount(amount int64) string {
	str := fmt.Sprintf("%d", amount)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatHolding renders an amount with its currency name
func FormatHolding(amount int64, currencyName string) string {
	return fmt.Sprintf("**%s %s**", FormatAmount(amount), currencyName)
}

// FormatDiceOutcome formats the result of a dice wager
func FormatDiceOutcome(won bool, roll, threshold, betAmount, newBalance int64, currencyName string) string {
	if won {
		return fmt.Sprintf("🎲 Rolled **%d** (needed ≤ %d). **You won!** You gained %s. New balance: %s",
			roll, threshold, FormatHolding(betAmount, currencyName), FormatHolding(newBalance, currencyName))
	}
	return fmt.Sprintf("🎲 Rolled **%d** (needed ≤ %d). **You lost!** You lost %s. New balance: %s",
		roll, threshold, FormatHolding(betAmount, currencyName), FormatHolding(newBalance, currencyName))
}
