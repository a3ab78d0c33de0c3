package common

import (
	"github.com/bwmarrin/discordgo"
)

// NameChoices converts a list of names into autocomplete choices
func NameChoices(names []string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, name := range names {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: name,
		})
	}
	return choices
}

// FocusedOption returns the option currently being typed in an autocomplete
// interaction, searching subcommand options too
func FocusedOption(options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Focused {
			return opt
		}
		if found := FocusedOption(opt.Options); found != nil {
			return found
		}
	}
	return nil
}
