package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"patternstudy/app"
	"patternstudy/internal/config"
	"patternstudy/internal/report"
)

func main() {
	// Optional .env alongside the working directory; env vars win.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Dark-pattern release study analysis pipeline",
		Long: `Reproducibility pipeline for the dark-pattern release study:
reshapes the wide survey export into long-format observations, applies
pre-registered exclusions, and runs the condition comparisons
(one-way ANOVA with Tukey HSD post-hoc) and interface ranking.`,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newReshapeCmd(),
		newSummarizeCmd(),
		newRankCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addInputFlags(cmd *cobra.Command, surveyFile, exclusionsFile, resultsDir *string) {
	cmd.Flags().StringVar(surveyFile, "survey", "", "survey export file (overrides SURVEY_FILE)")
	cmd.Flags().StringVar(exclusionsFile, "exclusions", "", "exclusion list CSV (overrides EXCLUSIONS_FILE)")
	cmd.Flags().StringVar(resultsDir, "results", "", "results directory (overrides RESULTS_DIR)")
}

// loadConfig applies flag overrides through the environment so the derived
// path defaults stay consistent with the overridden results directory.
func loadConfig(surveyFile, exclusionsFile, resultsDir string) (*config.Config, error) {
	if surveyFile != "" {
		os.Setenv("SURVEY_FILE", surveyFile)
	}
	if exclusionsFile != "" {
		os.Setenv("EXCLUSIONS_FILE", exclusionsFile)
	}
	if resultsDir != "" {
		os.Setenv("RESULTS_DIR", resultsDir)
	}
	return config.Load()
}

func newRunCmd() *cobra.Command {
	var surveyFile, exclusionsFile, resultsDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: reshape, summarize, rank, report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(surveyFile, exclusionsFile, resultsDir)
			if err != nil {
				return err
			}

			result, err := app.NewPipeline(cfg).Run(cmd.Context())
			if err != nil {
				return err
			}
			report.PrintSummary(os.Stdout, result)
			return nil
		},
	}

	addInputFlags(cmd, &surveyFile, &exclusionsFile, &resultsDir)
	return cmd
}

func newReshapeCmd() *cobra.Command {
	var surveyFile, exclusionsFile, resultsDir string

	cmd := &cobra.Command{
		Use:   "reshape",
		Short: "Reshape the wide export into the long-format artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(surveyFile, exclusionsFile, resultsDir)
			if err != nil {
				return err
			}

			manifest, err := app.NewPipeline(cfg).Reshape(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("run %s: %d respondents, %d observations -> %s\n",
				manifest.RunID.String(), manifest.Counts.Respondents,
				manifest.Counts.Observations, cfg.Paths.ArtifactFile)
			return nil
		},
	}

	addInputFlags(cmd, &surveyFile, &exclusionsFile, &resultsDir)
	return cmd
}

func newSummarizeCmd() *cobra.Command {
	var resultsDir string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Run condition comparisons over an existing artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("", "", resultsDir)
			if err != nil {
				return err
			}

			pipeline := app.NewPipeline(cfg)
			comparisons, contingency, err := pipeline.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			report.PrintSummary(os.Stdout, &report.Report{
				Contingency: contingency,
				Comparisons: comparisons,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "", "results directory (overrides RESULTS_DIR)")
	return cmd
}

func newRankCmd() *cobra.Command {
	var resultsDir string

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank interfaces by condition effect over an existing artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("", "", resultsDir)
			if err != nil {
				return err
			}

			_, ranked, err := app.NewPipeline(cfg).Rank(cmd.Context())
			if err != nil {
				return err
			}
			report.PrintSummary(os.Stdout, &report.Report{Ranked: ranked})
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "", "results directory (overrides RESULTS_DIR)")
	return cmd
}

func newReportCmd() *cobra.Command {
	var resultsDir string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the Markdown/HTML report and Excel workbook from an existing artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("", "", resultsDir)
			if err != nil {
				return err
			}

			pipeline := app.NewPipeline(cfg)
			comparisons, contingency, err := pipeline.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			aggregates, ranked, err := pipeline.Rank(cmd.Context())
			if err != nil {
				return err
			}

			result := &report.Report{
				Contingency: contingency,
				Comparisons: comparisons,
				Interfaces:  aggregates,
				Ranked:      ranked,
			}
			if err := pipeline.WriteOutputs(result); err != nil {
				return err
			}
			fmt.Printf("report written to %s\n", cfg.Paths.ReportFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "", "results directory (overrides RESULTS_DIR)")
	return cmd
}
