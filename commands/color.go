package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guildbot/colors"
	"guildbot/interfaces"
	"guildbot/metrics"

	"github.com/bwmarrin/discordgo"
)

const (
	colorOptionName = "color"

	msgMemberNotFound = "There was an issue finding your member data."
	msgColorFailed    = "Something went wrong while updating your color role. Please try again later."
)

// ColorCommand は /color で色ロールを付け替えます。
type ColorCommand struct {
	Assigner *colors.Assigner
	Store    interfaces.DataStore
	Log      interfaces.Logger
	Timeout  time.Duration
}

func NewColorCommand(p *colors.Palette, store interfaces.DataStore, log interfaces.Logger) *ColorCommand {
	return &ColorCommand{
		Assigner: colors.NewAssigner(p),
		Store:    store,
		Log:      log,
		Timeout:  10 * time.Second,
	}
}

func (c *ColorCommand) GetCommandDef() *discordgo.ApplicationCommand {
	dmPermission, contexts := guildOnly()
	return &discordgo.ApplicationCommand{
		Name:         "color",
		Description:  "Select a color to add to your profile.",
		DMPermission: dmPermission,
		Contexts:     contexts,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        colorOptionName,
				Description: "Choose your preferred color.",
				Required:    true,
				Choices:     c.Assigner.Palette.Choices(),
			},
		},
	}
}

func (c *ColorCommand) Handle(s interfaces.Session, i *discordgo.InteractionCreate) {
	choice := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == colorOptionName && opt.Type == discordgo.ApplicationCommandOptionString {
			choice = opt.StringValue()
		}
	}

	userID := actorID(i.Interaction)
	if i.GuildID == "" || userID == "" {
		metrics.ColorAssignments.WithLabelValues(choice, "member_not_found").Inc()
		c.reply(s, i, msgMemberNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	res, err := c.Assigner.Assign(ctx, s, i.GuildID, userID, choice)
	switch {
	case errors.Is(err, colors.ErrMemberNotFound):
		metrics.ColorAssignments.WithLabelValues(choice, "member_not_found").Inc()
		c.Log.Warn("Color requester is not a resolvable member", "error", err, "guild_id", i.GuildID, "user_id", userID)
		c.reply(s, i, msgMemberNotFound)
		return
	case err != nil:
		metrics.ColorAssignments.WithLabelValues(choice, "error").Inc()
		args := []any{"error", err, "guild_id", i.GuildID, "user_id", userID, "color", choice}
		if res != nil {
			args = append(args, "removed", res.Removed)
		}
		c.Log.Error("Failed to update color role", args...)
		c.reply(s, i, msgColorFailed)
		return
	}

	metrics.ColorAssignments.WithLabelValues(choice, "ok").Inc()
	if err := c.Store.RecordColorChange(i.GuildID, userID, choice); err != nil {
		c.Log.Error("Failed to record color change", "error", err, "guild_id", i.GuildID, "user_id", userID)
	}
	c.Log.Info("Color role updated", "guild_id", i.GuildID, "user_id", userID, "color", choice, "removed", len(res.Removed))
	c.reply(s, i, fmt.Sprintf("Your color role has been updated to **%s**!", choice))
}

func (c *ColorCommand) reply(s interfaces.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		c.Log.Error("Failed to respond to color command", "error", err)
	}
}

func (c *ColorCommand) HandleComponent(s interfaces.Session, i *discordgo.InteractionCreate) {}
func (c *ColorCommand) HandleModal(s interfaces.Session, i *discordgo.InteractionCreate)     {}
func (c *ColorCommand) GetComponentIDs() []string                                         { return []string{} }
func (c *ColorCommand) GetCategory() string                                               { return "ロール" }
