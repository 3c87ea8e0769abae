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
	scriptTopic    string
	scriptCategory string
	scriptDuration string
	scriptBRoll    bool
	scriptOnScreen bool
	scriptPrompt   string
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Generate a video script for a chosen topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initAgent(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Agent.RunScript(ctx, agent.ScriptParams{
			Topic:               scriptTopic,
			Category:            scriptCategory,
			VideoDuration:       scriptDuration,
			BRollEnabled:        scriptBRoll,
			OnScreenTextEnabled: scriptOnScreen,
			OriginalPrompt:      scriptPrompt,
		})
		if err != nil {
			return eris.Wrap(err, "script run")
		}

		zap.L().Info("script generated", zap.String("record_id", result.StoredRecordID))

		fmt.Fprintln(os.Stdout, result.Script)
		return nil
	},
}

func init() {
	scriptCmd.Flags().StringVar(&scriptTopic, "topic", "", "video topic title (required)")
	scriptCmd.Flags().StringVar(&scriptCategory, "category", "", "content category for tone guidance")
	scriptCmd.Flags().StringVar(&scriptDuration, "duration", "", "target video duration (default \"5 min\")")
	scriptCmd.Flags().BoolVar(&scriptBRoll, "broll", false, "include B-roll suggestions")
	scriptCmd.Flags().BoolVar(&scriptOnScreen, "onscreen-text", false, "include on-screen text callouts")
	scriptCmd.Flags().StringVar(&scriptPrompt, "original-prompt", "", "original research prompt for tone signals")
	_ = scriptCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(scriptCmd)
}
