package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"game-checker-bot/internal/config"
	"game-checker-bot/internal/steam"

	"github.com/spf13/cobra"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "gamechecker",
	Short:         "GameChecker: Steam game lookup bot",
	Long:          "Looks up Steam games by Russian or English name, with prices for a chosen store region.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		setupLogging(cmd.ErrOrStderr(), cfg.SlogLevel())
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(reportCmd)
}

func setupLogging(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// newSteam builds the resolver and fetcher shared by every frontend.
func newSteam() (*steam.Resolver, *steam.Fetcher, error) {
	aliases := steam.DefaultAliases()
	if cfg.AliasesFile != "" {
		loaded, err := steam.LoadAliasTable(cfg.AliasesFile)
		if err != nil {
			return nil, nil, err
		}
		aliases = loaded
		slog.Info("loaded alias table", "path", cfg.AliasesFile, "entries", len(aliases.Entries()))
	}

	logger := slog.Default().With("component", "steam")
	client := steam.NewClient(cfg.SteamAPIURL, cfg.HTTPTimeout, steam.WithLogger(logger))
	regions := steam.DefaultRegions()
	return steam.NewResolver(client, aliases, regions, logger), steam.NewFetcher(client, regions, logger), nil
}
