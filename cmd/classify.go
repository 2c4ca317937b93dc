package cmd

import (
	"fmt"

	"github.com/ethpandaops/nichefy/pkg/classifier"
	"github.com/ethpandaops/nichefy/pkg/models"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	classifyDuration    string
	classifyViews       int64
	classifySubscribers int64
	classifyTitle       string
)

//nolint:gochecknoglobals // Cobra commands are typically global
var classifyCmd = &cobra.Command{
	Use:     "classify",
	Short:   "Evaluate the outlier rules for a single video offline",
	Example: `  nichefy classify --duration PT4M0S --views 200000 --subscribers 10000 --title "A deep dive into salt"`,
	RunE:    runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&classifyDuration, "duration", "", "ISO-8601 duration, e.g. PT4M0S")
	classifyCmd.Flags().Int64Var(&classifyViews, "views", 0, "view count")
	classifyCmd.Flags().Int64Var(&classifySubscribers, "subscribers", 0, "channel subscriber count")
	classifyCmd.Flags().StringVar(&classifyTitle, "title", "", "video title")
}

func runClassify(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	cfg := classifier.DefaultConfig()

	if config, err := loadEngineConfigFromFile(cfgFile); err == nil {
		config.Classifier.SetDefaults()
		if err := config.Classifier.Validate(); err != nil {
			return err
		}

		cfg = config.Classifier
	}

	c := classifier.New(cfg)

	video := models.VideoStats{
		Title:           classifyTitle,
		ViewCount:       classifyViews,
		DurationSeconds: classifier.ParseDuration(classifyDuration),
	}
	decision := c.Classify(video, models.ChannelStats{SubscriberCount: classifySubscribers})

	fmt.Printf("Duration: %ds\nBand: %s\nRatio: %.4f\nFaceless: %t\nOutlier: %t\nReason: %s\n",
		video.DurationSeconds, decision.Band, decision.Ratio, decision.IsFaceless, decision.Outlier, decision.Reason)

	return nil
}
