package cmd

import (
	"fmt"
	"strings"

	"game-checker-bot/internal/present"
	"game-checker-bot/internal/steam"

	"github.com/spf13/cobra"
)

var (
	lookupRegion string
	lookupPick   int
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <query>",
	Short: "Search Steam and print the game card",
	Long: `Resolves the query the same way the bot does. A single hit is printed
right away; with several hits the candidates are listed and --pick N selects one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringVarP(&lookupRegion, "region", "r", "", "store region code (default DEFAULT_REGION)")
	lookupCmd.Flags().IntVarP(&lookupPick, "pick", "p", 0, "show the Nth candidate (1-based)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	region := cfg.DefaultRegion
	if lookupRegion != "" {
		region = strings.ToUpper(lookupRegion)
	}

	resolver, fetcher, err := newSteam()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	candidates, err := resolver.Resolve(cmd.Context(), query, region)
	if err != nil {
		fmt.Fprintf(out, "%q не найдена (%v)\n\n%s\n\n%s\n", query, err, resolver.Suggestion(query), steam.RegionNotice(region))
		return err
	}

	pick := lookupPick
	if len(candidates) == 1 {
		pick = 1
	}
	if pick == 0 {
		for i, c := range candidates {
			fmt.Fprintf(out, "%d. %s (%d)\n", i+1, c.Name, c.ID)
		}
		fmt.Fprintln(out, "\nre-run with --pick N to show a game")
		return nil
	}
	if pick < 1 || pick > len(candidates) {
		return fmt.Errorf("--pick %d out of range 1..%d", pick, len(candidates))
	}

	detail, err := fetcher.Fetch(cmd.Context(), candidates[pick-1].ID, region)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", candidates[pick-1].Name, err)
	}
	fmt.Fprintln(out, present.Render(detail, region))
	return nil
}
