package discordtest

import "github.com/bwmarrin/discordgo"

// SlashCommand builds a guild slash command interaction invoked by userID.
func SlashCommand(id, guildID, userID, name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      id,
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Token:   "token-" + id,
		Member: &discordgo.Member{
			GuildID: guildID,
			User:    &discordgo.User{ID: userID, Username: "user" + userID},
		},
		Data: discordgo.ApplicationCommandInteractionData{
			ID:      "cmd-" + name,
			Name:    name,
			Options: options,
		},
	}}
}

// StringOption is a string command option.
func StringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

// ButtonPress builds a component interaction for customID pressed by userID.
func ButtonPress(id, guildID, userID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      id,
		Type:    discordgo.InteractionMessageComponent,
		GuildID: guildID,
		Token:   "token-" + id,
		Member: &discordgo.Member{
			GuildID: guildID,
			User:    &discordgo.User{ID: userID},
		},
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}}
}

// Buttons flattens the buttons of every actions row in components.
func Buttons(components []discordgo.MessageComponent) []discordgo.Button {
	var out []discordgo.Button
	for _, c := range components {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if b, ok := inner.(discordgo.Button); ok {
				out = append(out, b)
			}
		}
	}
	return out
}
