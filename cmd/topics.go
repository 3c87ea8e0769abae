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
	topicsPrompt    string
	topicsURLs      []string
	topicsCategory  string
	topicsNumTitles int
	topicsWindow    string
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Generate topic titles grounded on fresh research",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if topicsPrompt == "" && topicsCategory == "" {
			return eris.New("provide --prompt or --category")
		}

		env, err := initAgent(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Agent.RunTopics(ctx, agent.TopicsParams{
			Prompt:     topicsPrompt,
			TargetURLs: topicsURLs,
			Category:   topicsCategory,
			NumTitles:  topicsNumTitles,
			TimeWindow: topicsWindow,
		})
		if err != nil {
			return eris.Wrap(err, "topics run")
		}

		zap.L().Info("topics generated", zap.Strings("keywords", result.Keywords))

		fmt.Fprintln(os.Stdout, result.Topics)
		return nil
	},
}

func init() {
	topicsCmd.Flags().StringVar(&topicsPrompt, "prompt", "", "research prompt")
	topicsCmd.Flags().StringSliceVar(&topicsURLs, "url", nil, "target URL to scrape (repeatable)")
	topicsCmd.Flags().StringVar(&topicsCategory, "category", "", "content category (used when no prompt is given)")
	topicsCmd.Flags().IntVar(&topicsNumTitles, "num-titles", 3, "number of titles to generate (1-5)")
	topicsCmd.Flags().StringVar(&topicsWindow, "time-window", "", "recency window, e.g. 7d")
	rootCmd.AddCommand(topicsCmd)
}
