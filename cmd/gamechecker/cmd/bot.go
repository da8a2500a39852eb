package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"game-checker-bot/internal/bot"
	"game-checker-bot/internal/db"
	"game-checker-bot/internal/i18n"
	"game-checker-bot/internal/steam"

	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, fetcher, err := newSteam()
	if err != nil {
		return err
	}
	b, closeStore, err := newBot(resolver, fetcher)
	if err != nil {
		return err
	}
	defer closeStore()

	slog.Info("starting bot", "region", cfg.DefaultRegion, "store", cfg.StoreBackend)
	b.Start(ctx)
	slog.Info("bot stopped")
	return nil
}

// newBot assembles the bot and its user store. The returned func closes the store.
func newBot(resolver *steam.Resolver, fetcher *steam.Fetcher) (*bot.Bot, func(), error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, nil, err
	}

	localizer, err := i18n.New(os.DirFS(cfg.LocalesDir))
	if err != nil {
		return nil, nil, err
	}

	store, err := db.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open user store: %w", err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close user store", "error", err)
		}
	}

	b, err := bot.New(cfg, localizer, store, resolver, fetcher)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return b, closeStore, nil
}

