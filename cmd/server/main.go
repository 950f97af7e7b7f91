// Package main provides the entry point for the AthleteGuard HTTP service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/athlete-guard/internal/api"
	"github.com/yourusername/athlete-guard/internal/chat"
	"github.com/yourusername/athlete-guard/internal/config"
	"github.com/yourusername/athlete-guard/internal/health"
	"github.com/yourusername/athlete-guard/internal/httpclient"
	"github.com/yourusername/athlete-guard/internal/logger"
	"github.com/yourusername/athlete-guard/internal/metrics"
	"github.com/yourusername/athlete-guard/internal/ml"
	"github.com/yourusername/athlete-guard/internal/recommendation"
	"github.com/yourusername/athlete-guard/internal/scheduler"
	"github.com/yourusername/athlete-guard/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "athlete-guard",
	Short: "Serve injury risk predictions and the AthleteGuard chatbot",
	Long: `Loads the trained ensemble artifacts and serves /predict, /chat, the chat
websocket and the static frontend.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(parent context.Context) error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ReloadFromEnv(cfg); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	if cfg.Secrets.AWSEnabled {
		if err := config.LoadSecretsFromAWS(parent, cfg); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.New(cfg.App.LogLevel, cfg.App.Environment, os.Stdout)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("AthleteGuard starting")

	metrics.InitRegistry()

	if err := tracing.Initialize(tracing.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
		Enabled:        cfg.Tracing.Enabled,
		SamplingRate:   cfg.Tracing.SamplingRate,
		DaemonAddr:     cfg.Tracing.DaemonAddr,
	}, appLog); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	artifacts, err := ml.LoadArtifacts(cfg.Model.Dir)
	if err != nil {
		metrics.SetModelsLoaded(false)
		appLog.WithError(err).Error("Failed to load model artifacts")
		return err
	}
	metrics.SetModelsLoaded(true)
	appLog.WithFields(logrus.Fields(artifacts.Summary())).Info("Model artifacts loaded")

	var cache *ml.PredictionCache
	if cfg.Model.CacheTTLSeconds > 0 {
		cache = ml.NewPredictionCache(cfg.CacheTTL(), cfg.Model.CacheMaxSize)
	}

	engine := recommendation.NewEngine()
	predictor := ml.NewPredictor(artifacts, engine, cache, appLog)

	if cfg.Chat.APIToken == "" {
		appLog.Warn("chat.api_token is empty; text generation requests will be rejected upstream")
	}
	outbound := httpclient.DefaultConfig()
	outbound.Timeout = cfg.ChatTimeout()
	outbound.MaxRetries = cfg.Chat.RetryAttempts
	outbound.RateLimit = cfg.Chat.RateLimit
	httpClient := httpclient.New(outbound, appLog)
	defer httpClient.Close()

	generator := chat.NewCohereClient(chat.ClientConfig{
		URL:         cfg.Chat.APIURL,
		Token:       cfg.Chat.APIToken,
		Model:       cfg.Chat.Model,
		MaxTokens:   cfg.Chat.MaxTokens,
		Temperature: cfg.Chat.Temperature,
	}, httpClient, appLog)
	chatService := chat.NewService(chat.NewIntentClassifier(), predictor, engine, generator, appLog)

	apiCfg := &api.Config{
		Address:        cfg.Server.Address,
		FrontendDir:    cfg.Server.FrontendDir,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		ReadTimeout:    cfg.ReadTimeout(),
		WriteTimeout:   cfg.WriteTimeout(),
	}
	if cfg.Metrics.Enabled {
		apiCfg.MetricsPath = cfg.Metrics.Path
	}
	if cfg.Tracing.Enabled {
		apiCfg.TraceName = cfg.App.Name
	}
	server := api.NewServer(apiCfg, predictor, chatService, appLog)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var healthServer *health.Server
	if cfg.Health.Port != 0 {
		grpcPort := ""
		if cfg.Health.GRPCPort != 0 {
			grpcPort = strconv.Itoa(cfg.Health.GRPCPort)
		}
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        strconv.Itoa(cfg.Health.Port),
			GRPCPort:    grpcPort,
			Logger:      appLog,
			Checks: map[string]health.Checker{
				"models": health.CheckFunc(predictor.Check),
			},
		})
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
	}

	jobs, err := scheduleMaintenance(cfg, predictor, cache, healthServer, appLog)
	if err != nil {
		return err
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	if healthServer != nil {
		healthServer.SetReady(true)
	}

	<-ctx.Done()
	appLog.Info("Shutdown signal received")

	if jobs != nil {
		jobs.Stop()
	}

	if healthServer != nil {
		healthServer.SetReady(false)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("API server shutdown failed")
	}
	if healthServer != nil {
		if err := healthServer.Shutdown(); err != nil {
			appLog.WithError(err).Error("Health server shutdown failed")
		}
	}

	if cache != nil {
		hits, misses, ratio := cache.Stats()
		appLog.WithFields(logrus.Fields{
			"cache_hits":      hits,
			"cache_misses":    misses,
			"cache_hit_ratio": ratio,
		}).Info("Prediction cache statistics")
	}

	appLog.Info("AthleteGuard stopped")
	return nil
}

// scheduleMaintenance starts the cache report and model check jobs. It
// returns nil when no job is configured.
func scheduleMaintenance(cfg *config.Config, predictor *ml.Predictor, cache *ml.PredictionCache, healthServer *health.Server, appLog *logrus.Logger) (*scheduler.Scheduler, error) {
	jobs := scheduler.NewScheduler(appLog)
	scheduled := 0

	if spec := cfg.Maintenance.CacheReportSchedule; spec != "" && cache != nil {
		if err := jobs.Schedule("cache_report", spec, scheduler.CacheReportJob(cache, appLog)); err != nil {
			return nil, err
		}
		scheduled++
	}

	if spec := cfg.Maintenance.ModelCheckSchedule; spec != "" {
		onResult := func(healthy bool) {
			metrics.SetModelsLoaded(healthy)
			if healthServer != nil {
				healthServer.SetReady(healthy)
			}
		}
		if err := jobs.Schedule("model_check", spec, scheduler.ModelCheckJob(predictor, onResult)); err != nil {
			return nil, err
		}
		scheduled++
	}

	if scheduled == 0 {
		return nil, nil
	}
	if err := jobs.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}
	return jobs, nil
}
