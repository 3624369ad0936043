package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dike950121/upwork-radar/internal/ai"
	"github.com/dike950121/upwork-radar/internal/ai/gemini"
	"github.com/dike950121/upwork-radar/internal/cache"
	"github.com/dike950121/upwork-radar/internal/distribution"
	"github.com/dike950121/upwork-radar/internal/logger"
	"github.com/dike950121/upwork-radar/internal/monitor"
	"github.com/dike950121/upwork-radar/internal/scoring"
	"github.com/dike950121/upwork-radar/internal/secrets"
	"github.com/dike950121/upwork-radar/internal/store"
	"github.com/dike950121/upwork-radar/internal/upwork"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultIntervalMinutes = 10

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the upwork-radar monitoring loop",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("once", "o", false, "run a single fetch cycle and exit")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the upwork-radar", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Search == nil {
		logger.Fatal("search parameters are required under the search section")
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading marketplace token",
			zap.Error(err),
			zap.String("hint", "set UPWORK_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}

	up := upwork.New(ctx, logger, token)

	if config.UserAgent != "" {
		up.UserAgent = config.UserAgent
	}

	st, err := buildStore(ctx, config, logger)
	if err != nil {
		logger.Fatal("connecting to the store", zap.Error(err))
	}
	defer st.Close()

	scorer, err := buildScorer(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("remote scoring unavailable, relying on heuristics", zap.Error(err))
		scorer = nil
	}

	deps := monitor.Deps{
		Fetcher:      up,
		Params:       config.Search,
		Seen:         cache.New(),
		Orchestrator: scoring.NewOrchestrator(scorer, logger),
		Store:        st,
		Logger:       logger,
	}

	if config.Webhooks != nil {
		deps.Deliverer = distribution.NewWebhooks(config.Webhooks.Destinations, config.Webhooks.DefaultURL, logger)
	} else {
		logger.Info("no webhooks configured, scored jobs are persisted only")
	}

	mon, err := monitor.New(monitorInterval(config), deps)
	if err != nil {
		logger.Fatal("building the monitor", zap.Error(err))
	}

	if cmd.Flag("once").Value.String() == "true" {
		mon.RunCycle(ctx)
		reportCycle(ctx, st, logger)
		return
	}

	if err := mon.Start(ctx); err != nil {
		logger.Fatal("starting the monitor", zap.Error(err))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig

	logger.Info("shutting down", zap.String("signal", received.String()))

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mon.Stop(stopCtx); err != nil {
		logger.Warn("monitor did not stop cleanly", zap.Error(err))
	}
}

// reportCycle summarizes the stored jobs after a single-shot cycle: a
// category report on the log and a JSON dump for further inspection.
func reportCycle(ctx context.Context, st store.Store, logger *zap.Logger) {
	jobs, err := st.Jobs(ctx, store.JobFilters{})
	if err != nil {
		logger.Error("listing stored jobs", zap.Error(err))
		return
	}

	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs stored"))
		return
	}

	pretty, _ := json.MarshalIndent(jobs.ReportByCategory(), "", "  ")
	logger.Info(string(pretty), zap.Int("jobs count", jobs.Len()))

	filename, err := jobs.DumpToTmpFile()
	if err != nil {
		logger.Warn("dump results to file", zap.Error(err))
		return
	}

	logger.Info("dumping result to file", zap.String("filename", filename))
}

func monitorInterval(config *Config) time.Duration {
	minutes := defaultIntervalMinutes
	if config.Monitor != nil && config.Monitor.IntervalMinutes > 0 {
		minutes = config.Monitor.IntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("marketplace token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "marketplace token",
		File: tokenFile,
	})
}

func buildStore(ctx context.Context, config *Config, logger *zap.Logger) (store.Store, error) {
	if config.Database != nil && strings.TrimSpace(config.Database.URL) != "" {
		return store.NewPostgres(ctx, config.Database.URL)
	}

	logger.Warn("no database configured, using the in-memory store",
		zap.String("hint", "set database.url to keep jobs across restarts"),
	)
	return store.NewMemory(), nil
}

func buildScorer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Scorer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai scoring is not enabled")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai scoring is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAdapter(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}
