package cmd

import (
	"fmt"

	"game-checker-bot/internal/analytics"

	"github.com/spf13/cobra"
)

var reportDataset string

var reportCmd = &cobra.Command{
	Use:       "report <stats|top|playtime|genres|correlation|skewness>",
	Short:     "Print a report over the friends' games dataset",
	ValidArgs: analytics.Kinds,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportDataset, "dataset", "d", "", "CSV dataset path (default DATASET_PATH)")
}

func runReport(cmd *cobra.Command, args []string) error {
	path := cfg.DatasetPath
	if reportDataset != "" {
		path = reportDataset
	}

	ds, err := analytics.Load(path)
	if err != nil {
		return err
	}
	report, err := analytics.Build(ds, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Plain())
	return nil
}
