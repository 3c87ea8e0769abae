package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/agent"
)

var (
	researchPrompt     string
	researchURLs       []string
	researchCategory   string
	researchNumResults int
	researchWindow     string
	researchDuration   string
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Run a full research pipeline and print the generated script",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initAgent(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		numResults := researchNumResults
		if numResults == 0 {
			numResults = cfg.Research.NumResults
		}
		window := researchWindow
		if window == "" {
			window = cfg.Research.TimeWindow
		}

		result, err := env.Agent.Run(ctx, agent.ResearchParams{
			Prompt:        researchPrompt,
			TargetURLs:    researchURLs,
			Category:      researchCategory,
			NumResults:    numResults,
			TimeWindow:    window,
			VideoDuration: researchDuration,
		})
		if err != nil {
			return eris.Wrap(err, "research run")
		}

		zap.L().Info("research complete",
			zap.String("record_id", result.StoredRecordID),
			zap.Int("results", len(result.Results)),
			zap.Int("total_scraped", result.TotalScraped),
			zap.Int("scrape_errors", len(result.Errors)),
		)

		fmt.Fprintln(os.Stdout, result.ReportMarkdown)
		return nil
	},
}

func init() {
	researchCmd.Flags().StringVar(&researchPrompt, "prompt", "", "research prompt (required)")
	researchCmd.Flags().StringSliceVar(&researchURLs, "url", nil, "target URL to scrape (repeatable; omit for keyword search)")
	researchCmd.Flags().StringVar(&researchCategory, "category", "", "content category for tone guidance")
	researchCmd.Flags().IntVar(&researchNumResults, "num-results", 0, "number of ranked results to keep (default from config)")
	researchCmd.Flags().StringVar(&researchWindow, "time-window", "", "recency window, e.g. 7d (default from config)")
	researchCmd.Flags().StringVar(&researchDuration, "duration", "", "target video duration, e.g. \"5-7 min\"")
	_ = researchCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(researchCmd)
}
