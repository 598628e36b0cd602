package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

var logLevel = new(slog.LevelVar)

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.Kitchen,
		}),
	))

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("canlog failed", "error", err)
		os.Exit(1)
	}
}
