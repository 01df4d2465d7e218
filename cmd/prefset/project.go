package main

import (
	"log/slog"
	"os"
	"strings"

	"prefset/internal/config"
	"prefset/internal/merge"
	"prefset/internal/parser"
	"prefset/internal/prefs"
	"prefset/internal/share"
	"prefset/internal/starter"
)

func loadConfig() (*config.ProjectConfig, error) {
	return config.LoadOrDefault(configPath)
}

// newLogger writes text logs to stderr at the configured level. --verbose
// forces debug.
func newLogger(cfg *config.ProjectConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadReference(cfg *config.ProjectConfig) (starter.Reference, error) {
	if cfg.Pack.Path == "" {
		return starter.DefaultReference()
	}
	return starter.LoadReference(cfg.Pack.Path)
}

func loadCodec(cfg *config.ProjectConfig) (*share.Codec, error) {
	ref, err := loadReference(cfg)
	if err != nil {
		return nil, err
	}
	index, err := starter.Build(cfg.Pack.ID, ref)
	if err != nil {
		return nil, err
	}
	return share.NewCodec(index), nil
}

func mergeOptions(cfg *config.ProjectConfig) []merge.Option {
	return []merge.Option{merge.WithNotesSeparator(cfg.NotesSeparator())}
}

func readSet(path string) (prefs.PreferenceSet, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return prefs.PreferenceSet{}, err
	}
	return doc.Set, nil
}
