package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethpandaops/nichefy/pkg/engine"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run a single discovery cycle and exit",
	Long:  `Runs exactly one search, classify, enrich and store cycle. Useful for debugging.`,
	RunE:  runCycle,
}

func init() {
	rootCmd.AddCommand(cycleCmd)
}

func runCycle(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	config, err := loadEngineConfigFromFile(cfgFile)
	if err != nil {
		return err
	}

	if err := applyLogLevel(config); err != nil {
		return err
	}

	config.MetricsAddr = ""

	app, err := engine.NewService(logger, config)
	if err != nil {
		return err
	}
	defer func() { _ = app.Stop() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.RunOnce(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Cycle %s: %d candidates, %d evaluated, %d outliers in %s\n",
		result.CycleID, result.Candidates, result.Evaluated, len(result.Outliers), result.Duration.Round(time.Millisecond))

	for _, o := range result.Outliers {
		fmt.Printf("  %-5s %8.2fx  %s  %s\n", o.Type, o.OutlierScore, o.VideoID, o.Title)
	}

	for _, u := range app.Usage() {
		fmt.Printf("  %s %s: %d/%d units\n", u.Label, u.Key, u.Consumed, u.Capacity)
	}

	return nil
}
