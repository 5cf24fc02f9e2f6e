package commands

import (
	"fmt"
	"strings"

	"guildbot/interfaces"
	"guildbot/paginator"
	"guildbot/rules"

	"github.com/bwmarrin/discordgo"
)

const (
	rulesComponentPrefix = "rules_"
	rulesEmbedColor      = 0x5865f2
	noDescription        = "No description found"
)

// RulesCommand は /rules でルールをページ送り表示します。
// 最初のページは一覧、以降は1ページにつき1件のルールです。
type RulesCommand struct {
	Book    *rules.Book
	Viewers *paginator.Manager
	Log     interfaces.Logger
}

func NewRulesCommand(book *rules.Book, opts paginator.Options, log interfaces.Logger) *RulesCommand {
	return &RulesCommand{
		Book:    book,
		Viewers: paginator.NewManager(rulesComponentPrefix, opts, log),
		Log:     log,
	}
}

func (c *RulesCommand) GetCommandDef() *discordgo.ApplicationCommand {
	dmPermission, contexts := guildOnly()
	return &discordgo.ApplicationCommand{
		Name:         "rules",
		Description:  "Displays the server rules.",
		DMPermission: dmPermission,
		Contexts:     contexts,
	}
}

func (c *RulesCommand) Handle(s interfaces.Session, i *discordgo.InteractionCreate) {
	icon := avatarIcon(requester(i.Interaction))
	if err := c.Viewers.Open(s, i.Interaction, c.Book.Len(), c.renderer(icon)); err != nil {
		c.Log.Error("Failed to open rules viewer", "error", err, "interaction_id", i.ID)
	}
}

func (c *RulesCommand) HandleComponent(s interfaces.Session, i *discordgo.InteractionCreate) {
	c.Viewers.HandleComponent(s, i)
}

func (c *RulesCommand) renderer(icon string) paginator.Renderer {
	return paginator.RenderFunc(func(st paginator.State) *discordgo.MessageEmbed {
		if st.IsOverview() {
			return c.overview(icon)
		}
		return c.detail(st.Item(), icon)
	})
}

func (c *RulesCommand) overview(icon string) *discordgo.MessageEmbed {
	var sb strings.Builder
	for n, r := range c.Book.All() {
		if n > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. **%s**", n+1, r.Title)
	}
	return &discordgo.MessageEmbed{
		Title:       "Server Rules",
		Description: sb.String(),
		Color:       rulesEmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Page 1/%d", c.Book.Len()),
			IconURL: icon,
		},
	}
}

func (c *RulesCommand) detail(index int, icon string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Rule %d", index+1),
		Description: "> " + noDescription,
		Color:       rulesEmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Rule %d of %d", index+1, c.Book.Len()),
			IconURL: icon,
		},
	}
	r, ok := c.Book.At(index)
	if !ok {
		c.Log.Warn("Rule index has no backing rule", "index", index, "total", c.Book.Len())
		return embed
	}
	embed.Title = r.Title
	if r.Description != "" {
		embed.Description = "> " + r.Description
	}
	return embed
}

func (c *RulesCommand) HandleModal(s interfaces.Session, i *discordgo.InteractionCreate) {}
func (c *RulesCommand) GetComponentIDs() []string                                     { return []string{rulesComponentPrefix} }
func (c *RulesCommand) GetCategory() string                                           { return "ユーティリティ" }

// Close は開いているビューアをすべて終了させます。
func (c *RulesCommand) Close() {
	c.Viewers.Close()
}
