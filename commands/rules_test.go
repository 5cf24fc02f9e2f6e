package commands

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildbot/discordtest"
	"guildbot/paginator"
	"guildbot/rules"
)

func newRulesCommand(t *testing.T, book *rules.Book, opts paginator.Options) *RulesCommand {
	t.Helper()
	cmd := NewRulesCommand(book, opts, nopLog)
	t.Cleanup(cmd.Close)
	return cmd
}

func lastEmbed(t *testing.T, s *discordtest.Session) *discordgo.MessageEmbed {
	t.Helper()
	resp := s.LastResponse()
	require.NotNil(t, resp)
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Embeds, 1)
	return resp.Data.Embeds[0]
}

func TestRulesCommandDefinition(t *testing.T) {
	def := newRulesCommand(t, rules.Default(), paginator.Options{}).GetCommandDef()
	assert.Equal(t, "rules", def.Name)
	assert.Equal(t, "Displays the server rules.", def.Description)
	require.NotNil(t, def.DMPermission)
	assert.False(t, *def.DMPermission)
	assert.Empty(t, def.Options)
}

func TestRulesOverview(t *testing.T) {
	cmd := newRulesCommand(t, rules.Default(), paginator.Options{})
	s := discordtest.NewSession()

	cmd.Handle(s, discordtest.SlashCommand("500", testGuild, testUser, "rules"))

	resp := s.LastResponse()
	assert.Zero(t, resp.Data.Flags)

	embed := lastEmbed(t, s)
	assert.Equal(t, "Server Rules", embed.Title)
	lines := strings.Split(embed.Description, "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "1. **Do not promote, coordinate, or engage in harassment**", lines[0])
	assert.True(t, strings.HasPrefix(lines[9], "10. **Do not share content that glorifies"))
	assert.Equal(t, "Page 1/10", embed.Footer.Text)
	assert.Empty(t, embed.Footer.IconURL)

	buttons := discordtest.Buttons(resp.Data.Components)
	require.Len(t, buttons, 2)
	assert.True(t, buttons[0].Disabled)
	assert.False(t, buttons[1].Disabled)
}

func TestRulesEphemeralOption(t *testing.T) {
	cmd := newRulesCommand(t, rules.Default(), paginator.Options{Ephemeral: true})
	s := discordtest.NewSession()
	cmd.Handle(s, discordtest.SlashCommand("500", testGuild, testUser, "rules"))
	assert.Equal(t, discordgo.MessageFlagsEphemeral, s.LastResponse().Data.Flags)
}

func TestRulesDetailPages(t *testing.T) {
	cmd := newRulesCommand(t, rules.Default(), paginator.Options{})
	s := discordtest.NewSession()

	invoke := discordtest.SlashCommand("500", testGuild, testUser, "rules")
	invoke.Member.User.Avatar = "a1b2c3"
	cmd.Handle(s, invoke)
	assert.Contains(t, lastEmbed(t, s).Footer.IconURL, "avatars/200/a1b2c3")

	next := rulesComponentPrefix + "next:500"
	cmd.HandleComponent(s, discordtest.ButtonPress("501", testGuild, testUser, next))
	cmd.HandleComponent(s, discordtest.ButtonPress("502", testGuild, testUser, next))

	embed := lastEmbed(t, s)
	assert.Equal(t, "Do not threaten to harm another individual or group of people.", embed.Title)
	assert.Equal(t, "> This includes direct, indirect, and suggestive threats.", embed.Description)
	assert.Equal(t, "Rule 2 of 10", embed.Footer.Text)
	assert.Contains(t, embed.Footer.IconURL, "avatars/200/a1b2c3")

	cmd.HandleComponent(s, discordtest.ButtonPress("503", testGuild, "999", next))
	assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, s.LastResponse().Type)

	cmd.HandleComponent(s, discordtest.ButtonPress("504", testGuild, testUser, rulesComponentPrefix+"previous:500"))
	assert.Equal(t, "Rule 1 of 10", lastEmbed(t, s).Footer.Text)
}

func TestRulesMissingDescription(t *testing.T) {
	book, err := rules.New([]rules.Rule{
		{Name: "be-kind", Title: "Be kind"},
	})
	require.NoError(t, err)
	cmd := newRulesCommand(t, book, paginator.Options{})

	embed := cmd.detail(0, "")
	assert.Equal(t, "Be kind", embed.Title)
	assert.Equal(t, "> "+noDescription, embed.Description)

	embed = cmd.detail(5, "")
	assert.Equal(t, "> "+noDescription, embed.Description)
	assert.Equal(t, "Rule 6 of 1", embed.Footer.Text)
}
