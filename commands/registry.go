package commands

import (
	"guildbot/colors"
	"guildbot/interfaces"
	"guildbot/metrics"
	"guildbot/paginator"
	"guildbot/rules"

	"github.com/bwmarrin/discordgo"
)

// AppContext provides dependencies to commands.
type AppContext struct {
	Log     interfaces.Logger
	Store   interfaces.DataStore
	Palette *colors.Palette
	Rules   *rules.Book
	Viewer  paginator.Options
}

// RegisterCommands initializes and returns all command handlers.
func RegisterCommands(appCtx *AppContext) (map[string]interfaces.CommandHandler, map[string]interfaces.CommandHandler, []*discordgo.ApplicationCommand, *RulesCommand) {
	commandHandlers := make(map[string]interfaces.CommandHandler)
	componentHandlers := make(map[string]interfaces.CommandHandler)
	registeredCommands := make([]*discordgo.ApplicationCommand, 0)

	rulesCmd := NewRulesCommand(appCtx.Rules, appCtx.Viewer, appCtx.Log)

	// To add a new command, simply add it to this list.
	commands := []interfaces.CommandHandler{
		NewColorCommand(appCtx.Palette, appCtx.Store, appCtx.Log),
		rulesCmd,
	}

	for _, cmd := range commands {
		cmdHandler := cmd
		commandDef := cmdHandler.GetCommandDef()
		commandHandlers[commandDef.Name] = cmdHandler
		registeredCommands = append(registeredCommands, commandDef)

		for _, id := range cmdHandler.GetComponentIDs() {
			componentHandlers[id] = cmdHandler
		}
	}

	// ラッパーハンドラーを作成して、元のハンドラーをラップする
	for name, handler := range commandHandlers {
		commandHandlers[name] = &CommandUsageWrapper{
			CommandHandler: handler,
			Store:          appCtx.Store,
			Log:            appCtx.Log,
		}
	}

	return commandHandlers, componentHandlers, registeredCommands, rulesCmd
}

// CommandUsageWrapper は、コマンドの実行をラップして使用状況を記録します。
type CommandUsageWrapper struct {
	interfaces.CommandHandler
	Store interfaces.DataStore
	Log   interfaces.Logger
}

// Handle は、元のハンドラを呼び出す前に使用状況を記録します。
func (w *CommandUsageWrapper) Handle(s interfaces.Session, i *discordgo.InteractionCreate) {
	metrics.CommandsTotal.WithLabelValues(w.GetCommandDef().Name).Inc()
	if category := w.GetCategory(); category != "" {
		if err := w.Store.IncrementCommandUsage(category); err != nil {
			w.Log.Warn("Failed to record command usage", "error", err, "category", category)
		}
	}
	w.CommandHandler.Handle(s, i)
}
