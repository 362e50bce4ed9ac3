package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"jar_backend/internal/app/di"
	"jar_backend/internal/platform/config"
	infradb "jar_backend/internal/platform/db"
)

var CLI struct {
	Send      SendCmd      `cmd:"" help:"Send a daily or weekly reminder to one family."`
	Scheduled ScheduledCmd `cmd:"" help:"Send a reminder to every family whose preferences allow it."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("notify"),
		kong.Description("Operator tool for jar reminder emails"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv(), di.Models()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	app := di.NewApp(cfg, db, nil, di.NewMailSender(ctx, cfg))
	err = kctx.Run(&runContext{ctx: ctx, notifier: app.Notifier, out: os.Stdout})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
