package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tabletalk-ai/tabletalk/internal/config"
	"github.com/tabletalk-ai/tabletalk/internal/dataframe"
	"github.com/tabletalk-ai/tabletalk/internal/llm"
	"github.com/tabletalk-ai/tabletalk/internal/logger"
	"github.com/tabletalk-ai/tabletalk/internal/session"
)

var (
	askFiles          []string
	askShowCode       bool
	askNoCorrection   bool
	askMaxAttempts    int
	askConversational bool
	askPrivacy        bool
	askModel          string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about one or more CSV datasets",
	Long: `Ask a natural-language question about CSV data. The question is turned
into a script, executed against the data in a restricted environment,
and the computed answer is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := args[0]

		cfg, err := config.New()
		if err != nil {
			return err
		}
		if askModel != "" {
			cfg.LLM.Model = askModel
		}
		if cmd.Flags().Changed("max-attempts") {
			cfg.Run.MaxAttempts = askMaxAttempts
		}

		log, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		frames := make([]*dataframe.Frame, 0, len(askFiles))
		for _, path := range askFiles {
			f, err := dataframe.LoadCSVFile(path)
			if err != nil {
				return err
			}
			formatFrameInfo(cmd.OutOrStdout(), f.Name(), f.NumRows(), f.NumColumns())
			frames = append(frames, f)
		}
		if len(frames) == 0 {
			return fmt.Errorf("at least one --file is required")
		}

		gen := &llm.Anthropic{
			Model:     cfg.LLM.Model,
			APIKey:    cfg.LLM.APIKey,
			APIBase:   cfg.LLM.APIBase,
			MaxTokens: cfg.LLM.MaxTokens,
			Timeout:   time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		}

		opts := session.Options{
			MaxAttempts:       cfg.Run.MaxAttempts,
			ErrorCorrection:   cfg.Run.ErrorCorrection && !askNoCorrection,
			Conversational:    cfg.Run.Conversational || askConversational,
			EnforcePrivacy:    cfg.Run.EnforcePrivacy || askPrivacy,
			AnonymizePreviews: cfg.Run.AnonymizePreviews,
			PreviewRows:       cfg.Run.PreviewRows,
			CacheEnabled:      cfg.Run.CacheEnabled,
			CustomLibraries:   cfg.Sandbox.CustomLibraries,
		}
		sess := session.New(gen, opts, log)

		answer, err := sess.Ask(cmd.Context(), frames, question)
		if err != nil {
			return err
		}

		if askShowCode && sess.LastCodeGenerated() != "" {
			formatCode(cmd.OutOrStdout(), sess.LastCodeGenerated())
		}
		if sess.LastError() != "" {
			formatError(cmd.OutOrStdout(), answer)
			return nil
		}
		formatAnswer(cmd.OutOrStdout(), answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringSliceVarP(&askFiles, "file", "f", nil, "CSV file to query (repeatable)")
	askCmd.Flags().BoolVar(&askShowCode, "show-code", false, "Print the generated script")
	askCmd.Flags().BoolVar(&askNoCorrection, "no-correction", false, "Disable the self-correction cycle")
	askCmd.Flags().IntVar(&askMaxAttempts, "max-attempts", 3, "Maximum correction requests per question")
	askCmd.Flags().BoolVar(&askConversational, "conversational", false, "Rephrase the answer conversationally")
	askCmd.Flags().BoolVar(&askPrivacy, "privacy", false, "Do not send data previews to the model")
	askCmd.Flags().StringVar(&askModel, "model", "", "Override the configured model")

	rootCmd.AddCommand(askCmd)
}
