// Package main provides an offline command line for the risk models and the
// recommendation rules.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/athlete-guard/internal/config"
	"github.com/yourusername/athlete-guard/internal/logger"
	"github.com/yourusername/athlete-guard/internal/ml"
	"github.com/yourusername/athlete-guard/internal/models"
	"github.com/yourusername/athlete-guard/internal/recommendation"
)

var (
	configFile string
	modelDir   string
	inputFile  string
	full       bool
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&modelDir, "models", "m", "", "Model artifact directory (overrides model.dir)")

	predictCmd.Flags().StringVarP(&inputFile, "input", "i", "-", "Athlete profile JSON file, - for stdin")
	recommendCmd.Flags().StringVarP(&inputFile, "input", "i", "-", "Athlete profile JSON file, - for stdin")
	recommendCmd.Flags().BoolVar(&full, "full", false, "Print full recommendation records")

	rootCmd.AddCommand(predictCmd, recommendCmd, artifactsCmd)
}

var rootCmd = &cobra.Command{
	Use:          "risk-cli",
	Short:        "Run injury risk predictions offline",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if modelDir != "" {
			cfg.Model.Dir = modelDir
		}
		appLog = logger.New("warn", cfg.App.Environment, cmd.ErrOrStderr())
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the injury risk of one athlete profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := readProfile(cmd.InOrStdin())
		if err != nil {
			return err
		}

		artifacts, err := ml.LoadArtifacts(cfg.Model.Dir)
		if err != nil {
			return err
		}

		predictor := ml.NewPredictor(artifacts, recommendation.NewEngine(), nil, appLog)
		result, err := predictor.Predict(context.Background(), profile)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "List the recommendations for one athlete profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := readProfile(cmd.InOrStdin())
		if err != nil {
			return err
		}

		engine := recommendation.NewEngine()
		if full {
			return printJSON(cmd.OutOrStdout(), engine.Evaluate(profile))
		}
		for _, text := range engine.Generate(profile) {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", text)
		}
		return nil
	},
}

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Load and verify the model artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		artifacts, err := ml.LoadArtifacts(cfg.Model.Dir)
		if err != nil {
			return err
		}

		summary := artifacts.Summary()
		keys := make([]string, 0, len(summary))
		for k := range summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Model artifacts OK")
		for _, k := range keys {
			fmt.Fprintf(out, "  %-22s %v\n", k+":", summary[k])
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func readProfile(stdin io.Reader) (*models.AthleteProfile, error) {
	r := stdin
	if inputFile != "-" {
		f, err := os.Open(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open profile: %w", err)
		}
		defer f.Close()
		r = f
	}

	var profile models.AthleteProfile
	if err := json.NewDecoder(r).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
