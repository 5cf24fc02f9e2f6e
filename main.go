package main

import (
	"os"

	"guildbot/bot"
	"guildbot/config"
	"guildbot/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("BOT_CONFIG"))
	if err != nil {
		logger.New(logger.Options{}).Fatal("設定ファイルの読み込みに失敗しました", "error", err)
	}

	log := logger.New(logger.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Debug:      cfg.Debug,
	})
	defer log.Close()
	log.Info("Starting bot", "version", cfg.Client.Version, "debug", cfg.Debug)

	b, err := bot.New(cfg, log)
	if err != nil {
		log.Fatal("Botの初期化に失敗しました", "error", err)
	}
	if err := b.Start(); err != nil {
		log.Fatal("Botの起動に失敗しました", "error", err)
	}
}
