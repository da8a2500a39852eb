package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"game-checker-bot/internal/api"
	"game-checker-bot/internal/bot"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var (
	serveAddr    string
	serveWithBot bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP lookup API",
	Long:  "Serves /health, /api/search and /api/apps/:id. With --bot the Telegram bot runs in the same process.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveWithBot, "bot", false, "also run the Telegram bot")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	resolver, fetcher, err := newSteam()
	if err != nil {
		return err
	}

	if cfg.SlogLevel() > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(resolver, fetcher, cfg.DefaultRegion), slog.Default().With("component", "http"))
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var b *bot.Bot
	if serveWithBot {
		var closeStore func()
		b, closeStore, err = newBot(resolver, fetcher)
		if err != nil {
			return err
		}
		defer closeStore()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if b != nil {
		g.Go(func() error {
			b.Start(gctx)
			return nil
		})
	}

	return g.Wait()
}
