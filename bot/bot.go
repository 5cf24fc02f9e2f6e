package bot

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"guildbot/commands"
	"guildbot/config"
	"guildbot/handlers"
	"guildbot/interfaces"
	"guildbot/paginator"
	"guildbot/rules"
	"guildbot/servers"
	"guildbot/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
)

// Bot はDiscordボットのコアな状態とロジックを管理します。
type Bot struct {
	Session            *discordgo.Session
	cfg                *config.Config
	log                interfaces.Logger
	dbStore            interfaces.DataStore
	scheduler          interfaces.Scheduler
	servers            *servers.Manager
	events             *handlers.EventHandler
	commandHandlers    map[string]interfaces.CommandHandler
	componentHandlers  map[string]interfaces.CommandHandler
	registeredCommands []*discordgo.ApplicationCommand
	rulesCmd           *commands.RulesCommand
	startTime          time.Time
}

// New は新しいBotインスタンスを作成します。
// ルールブックや色パレットに問題がある場合は起動前にエラーを返します。
func New(cfg *config.Config, log interfaces.Logger) (*Bot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	book, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, err
	}

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	dbStore, err := storage.NewDBStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage %s: %w", cfg.Storage.Path, err)
	}

	b := &Bot{
		Session:   dg,
		cfg:       cfg,
		log:       log,
		dbStore:   dbStore,
		scheduler: cron.New(),
		servers:   servers.NewManager(log),
		events:    handlers.NewEventHandler(palette, cfg.Discord.GuildID, log),
		startTime: time.Now(),
	}

	b.commandHandlers, b.componentHandlers, b.registeredCommands, b.rulesCmd = commands.RegisterCommands(&commands.AppContext{
		Log:     log,
		Store:   dbStore,
		Palette: palette,
		Rules:   book,
		Viewer: paginator.Options{
			Timeout:   cfg.Rules.Timeout,
			Ephemeral: cfg.Rules.Ephemeral,
		},
	})

	if cfg.Status.Addr != "" {
		b.servers.AddServer(servers.NewWebServer(cfg.Status.Addr, log, dbStore, book))
	}
	log.Info("Loaded rule book", "rules", book.Len(), "path", cfg.Rules.Path)
	return b, nil
}

// Start はBotを起動し、終了シグナルを受け取るまでブロックします。
func (b *Bot) Start() error {
	b.events.RegisterAllHandlers(b.Session)
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return err
	}
	defer b.shutdown()

	if b.cfg.Usage.ReportSchedule != "" {
		if _, err := b.scheduler.AddFunc(b.cfg.Usage.ReportSchedule, b.reportUsage); err != nil {
			return fmt.Errorf("schedule usage report: %w", err)
		}
	}
	b.scheduler.Start()

	if err := b.servers.StartAll(); err != nil {
		return err
	}

	b.log.Info("Discord Botが起動しました。コマンドを登録します...", "version", b.cfg.Client.Version)
	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, b.cfg.Discord.GuildID, b.registeredCommands); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	b.log.Info("コマンドの登録が完了しました。Ctrl+Cで終了します。", "commands", len(b.registeredCommands), "guild_id", b.cfg.Discord.GuildID)

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	b.log.Info("Botをシャットダウンします...")
	return nil
}

func (b *Bot) shutdown() {
	b.rulesCmd.Close()
	<-b.scheduler.Stop().Done()
	b.servers.StopAll()
	if err := b.Session.Close(); err != nil {
		b.log.Warn("Failed to close Discord session", "error", err)
	}
	b.reportUsage()
	b.dbStore.Close()
	b.log.Info("Shutdown complete", "uptime", time.Since(b.startTime).Round(time.Second).String())
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("Connected to Discord", "user", r.User.Username, "guilds", len(r.Guilds))
	if err := s.UpdateGameStatus(0, "v"+b.cfg.Client.Version); err != nil {
		b.log.Warn("Failed to set presence", "error", err)
	}
}

// reportUsage drains the per-category usage counters into the log.
func (b *Bot) reportUsage() {
	usage, err := b.dbStore.GetAndResetCommandUsage()
	if err != nil {
		b.log.Error("Failed to read command usage", "error", err)
		return
	}
	if len(usage) == 0 {
		return
	}
	args := make([]any, 0, len(usage)*2)
	for category, count := range usage {
		args = append(args, category, count)
	}
	b.log.Info("Command usage", args...)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.dispatch(s, i)
}

func (b *Bot) dispatch(s interfaces.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Interaction handler panicked", "panic", r, "interaction_id", i.ID, "type", i.Type.String())
		}
	}()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		if h, ok := b.commandHandlers[name]; ok {
			h.Handle(s, i)
			return
		}
		b.log.Warn("Unknown command", "name", name)
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		for id, h := range b.componentHandlers {
			if strings.HasPrefix(customID, id) {
				h.HandleComponent(s, i)
				return
			}
		}
		b.log.Debug("No handler for component", "custom_id", customID)
	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		for id, h := range b.componentHandlers {
			if strings.HasPrefix(customID, id) {
				h.HandleModal(s, i)
				return
			}
		}
	}
}
