package cmd

import (
	"context"
	"fmt"

	"github.com/ethpandaops/nichefy/pkg/store"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var outliersLimit int

//nolint:gochecknoglobals // Cobra commands are typically global
var outliersCmd = &cobra.Command{
	Use:   "outliers",
	Short: "List the highest scoring stored outliers",
	RunE:  runOutliers,
}

func init() {
	rootCmd.AddCommand(outliersCmd)
	outliersCmd.Flags().IntVar(&outliersLimit, "limit", 20, "number of outliers to list")
}

func runOutliers(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	config, err := loadEngineConfigFromFile(cfgFile)
	if err != nil {
		return err
	}

	if err := config.Store.Validate(); err != nil {
		return err
	}

	ctx := context.Background()

	sink, err := store.Open(ctx, logger, &config.Store)
	if err != nil {
		return err
	}
	defer sink.Close()

	records, err := sink.ListOutliers(ctx, outliersLimit)
	if err != nil {
		return err
	}

	for _, r := range records {
		faceless := ""
		if r.IsFaceless {
			faceless = " [faceless]"
		}

		fmt.Printf("%-5s %8.2fx  %-11s  %s%s\n    %s\n", r.Type, r.OutlierScore, r.VideoID, r.Title, faceless, r.AIAnalysis)
	}

	return nil
}
