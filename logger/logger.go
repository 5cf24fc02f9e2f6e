package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options はロガーの出力先とローテーション設定です。
type Options struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

// Logger は slog をラップし、interfaces.Logger を満たします。
type Logger struct {
	log  *slog.Logger
	file *lumberjack.Logger
}

// New はコンソールとローテーションファイルの両方に出力するロガーを作成します。
// File が空の場合はコンソールのみに出力します。
func New(opts Options) *Logger {
	var w io.Writer = os.Stdout
	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stdout, file)
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	return &Logger{
		log: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		})),
		file: file,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{log: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

// With returns a child logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), file: l.file}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log.Error(msg, args...)
}

// Fatal はエラーログを出力した後、プログラムを終了します。
func (l *Logger) Fatal(msg string, args ...any) {
	l.log.Error(msg, args...)
	l.Close()
	os.Exit(1)
}

// Close flushes and closes the rotating log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
