package bot

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildbot/config"
	"guildbot/discordtest"
	"guildbot/interfaces"
)

type entry struct {
	level, msg string
	args       []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []entry
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{level, msg, args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.add("error", msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.add("fatal", msg, args) }

func (l *recordingLogger) find(msg string) (entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return entry{}, false
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Discord.Token = "test-token"
	cfg.Client.Version = "1.0.0"
	cfg.Colors = map[string]string{
		"blue":   "1287055082004680818",
		"green":  "1287059217513189478",
		"yellow": "1287059286635057152",
		"purple": "1287059475290914994",
	}
	cfg.Rules.Timeout = time.Minute
	cfg.Storage.Path = filepath.Join(t.TempDir(), "bot.db")
	cfg.Usage.ReportSchedule = "@hourly"
	return cfg
}

func newTestBot(t *testing.T) (*Bot, *recordingLogger) {
	t.Helper()
	log := &recordingLogger{}
	b, err := New(testConfig(t), log)
	require.NoError(t, err)
	t.Cleanup(func() {
		b.rulesCmd.Close()
		b.dbStore.Close()
	})
	return b, log
}

func TestNewRegistersCommands(t *testing.T) {
	b, _ := newTestBot(t)

	names := make([]string, 0, len(b.registeredCommands))
	for _, c := range b.registeredCommands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"color", "rules"}, names)
	assert.Contains(t, b.componentHandlers, "rules_")
	assert.Equal(t, discordgo.IntentsGuilds, b.Session.Identify.Intents)
}

func TestNewFailsFast(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Discord.Token = ""
		_, err := New(cfg, &recordingLogger{})
		assert.ErrorIs(t, err, config.ErrInvalid)
	})

	t.Run("missing rules file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Rules.Path = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := New(cfg, &recordingLogger{})
		assert.Error(t, err)
	})
}

func TestDispatchRoutesInteractions(t *testing.T) {
	b, _ := newTestBot(t)
	s := discordtest.NewSession()
	s.AddMember("100", "200")

	b.dispatch(s, discordtest.SlashCommand("1", "100", "200", "rules"))
	resp := s.LastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, "Server Rules", resp.Data.Embeds[0].Title)

	b.dispatch(s, discordtest.ButtonPress("2", "100", "200", "rules_next:1"))
	resp = s.LastResponse()
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	assert.Equal(t, "Rule 1 of 10", resp.Data.Embeds[0].Footer.Text)

	b.dispatch(s, discordtest.SlashCommand("3", "100", "200", "color", discordtest.StringOption("color", "blue")))
	assert.Equal(t, []string{"1287055082004680818"}, s.Roles("100", "200"))
	assert.Len(t, s.Responses(), 3)
}

func TestDispatchIgnoresUnknown(t *testing.T) {
	b, log := newTestBot(t)
	s := discordtest.NewSession()

	b.dispatch(s, discordtest.SlashCommand("1", "100", "200", "nope"))
	b.dispatch(s, discordtest.ButtonPress("2", "100", "200", "other_thing"))
	assert.Empty(t, s.Responses())

	_, ok := log.find("Unknown command")
	assert.True(t, ok)
}

func TestDispatchRecoversFromPanics(t *testing.T) {
	b, log := newTestBot(t)
	s := discordtest.NewSession()

	// Component data on a command interaction makes discordgo panic.
	i := discordtest.SlashCommand("1", "100", "200", "rules")
	i.Data = discordgo.MessageComponentInteractionData{CustomID: "rules_next:1"}
	assert.NotPanics(t, func() { b.dispatch(s, i) })

	_, ok := log.find("Interaction handler panicked")
	assert.True(t, ok)
}

func TestReportUsage(t *testing.T) {
	b, log := newTestBot(t)
	s := discordtest.NewSession()

	b.dispatch(s, discordtest.SlashCommand("1", "100", "200", "rules"))
	b.dispatch(s, discordtest.SlashCommand("2", "100", "200", "rules"))
	b.reportUsage()

	e, ok := log.find("Command usage")
	require.True(t, ok)
	assert.Equal(t, []any{"ユーティリティ", 2}, e.args)

	usage, err := b.dbStore.GetAndResetCommandUsage()
	require.NoError(t, err)
	assert.Empty(t, usage)
}
