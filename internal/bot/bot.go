package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"game-checker-bot/internal/config"
	"game-checker-bot/internal/conversation"
	"game-checker-bot/internal/db"
	"game-checker-bot/internal/i18n"
	"game-checker-bot/internal/steam"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botAPI is the part of *tgbotapi.BotAPI the bot talks to.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api         botAPI
	cfg         *config.Config
	localizer   *i18n.Localizer
	store       db.Store
	resolver    *steam.Resolver
	fetcher     *steam.Fetcher
	states      *conversation.Manager
	logger      *slog.Logger
	botUsername string

	wg sync.WaitGroup
}

func New(cfg *config.Config, localizer *i18n.Localizer, store db.Store, resolver *steam.Resolver, fetcher *steam.Fetcher) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	slog.Info("authorized on account", "username", api.Self.UserName)

	b := newBot(api, cfg, localizer, store, resolver, fetcher)
	b.botUsername = api.Self.UserName
	return b, nil
}

func newBot(api botAPI, cfg *config.Config, localizer *i18n.Localizer, store db.Store, resolver *steam.Resolver, fetcher *steam.Fetcher) *Bot {
	return &Bot{
		api:       api,
		cfg:       cfg,
		localizer: localizer,
		store:     store,
		resolver:  resolver,
		fetcher:   fetcher,
		states:    conversation.NewManager(),
		logger:    slog.Default().With("component", "bot"),
	}
}

// Start long-polls for updates until ctx is cancelled, then waits for
// in-flight handlers to finish.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("stopped receiving updates")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.safeHandleUpdate(ctx, update)
			}()
		}
	}
}

// safeHandleUpdate runs handleUpdate and logs a panic instead of crashing.
func (b *Bot) safeHandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling update", "update_id", update.UpdateID, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	b.handleUpdate(ctx, update)
}
