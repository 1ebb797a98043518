// Package cmd provides the command-line interface for WebSpider.
// It handles command parsing, configuration loading, and crawl
// execution.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"webspider/internal/config"
	"webspider/internal/crawler"
	"webspider/internal/logging"
	"webspider/internal/storage"
)

var (
	cfgFile   string
	version   string
	buildTime string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "webspider <ROOT_URL>",
	Short: "A bounded breadth-first web crawler",
	Long: `WebSpider crawls a web graph breadth-first from a root URL.

It fetches pages concurrently up to a configurable number of in-flight
requests, never visits the same normalized URL twice, stops exactly at
the page budget, and persists fetched pages to SQLite.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCrawl,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Configuration file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./webspider.yml)")

	// Configuration management flags
	rootCmd.Flags().Bool("show-config", false, "Display current configuration in YAML format and exit")

	// Crawl flags
	rootCmd.Flags().Int("max-tasks", 5, "Max number of simultaneously outstanding fetches")
	rootCmd.Flags().Int("max-pages", 100, "Max number of pages to admit for fetching")
	rootCmd.Flags().IntP("n-workers", "w", config.DefaultConfig().Workers, "Number of worker goroutines")

	// HTTP flags
	rootCmd.Flags().DurationP("timeout", "t", 30*time.Second, "HTTP request timeout")
	rootCmd.Flags().StringP("user-agent", "u", "WebSpider/1.0", "HTTP User-Agent header")
	rootCmd.Flags().Float64("rate", 0, "Global request rate limit in requests per second (0 = unlimited)")

	// Storage flags
	rootCmd.Flags().StringP("database", "d", "./webspider.db", "Path to SQLite database file")
	rootCmd.Flags().Bool("no-store", false, "Do not persist fetched pages")

	// Logging flags
	rootCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().String("log-file", "", "Log file path (console only when empty)")

	bindFlags := []struct {
		viperKey string
		flagName string
	}{
		{"max_tasks", "max-tasks"},
		{"max_pages", "max-pages"},
		{"n_workers", "n-workers"},
		{"request_timeout", "timeout"},
		{"user_agent", "user-agent"},
		{"request_rate", "rate"},
		{"database_path", "database"},
		{"no_store", "no-store"},
		{"log_level", "log-level"},
		{"log_file", "log-file"},
	}

	for _, bind := range bindFlags {
		if err := viper.BindPFlag(bind.viperKey, rootCmd.Flags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("webspider")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("WS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func showCurrentConfig(cfg *config.CrawlConfig) error {
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	fmt.Printf("# Current WebSpider Configuration\n")
	fmt.Printf("# Generated at: %s\n", time.Now().Format(time.RFC3339))
	fmt.Printf("# Configuration file search paths: ./webspider.yml\n")
	fmt.Printf("# Environment variables prefix: WS_\n\n")
	fmt.Print(string(yamlData))

	return nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	showConfig, _ := cmd.Flags().GetBool("show-config")

	cfg := config.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(args) > 0 {
		cfg.RootURL = args[0]
	}

	if showConfig {
		return showCurrentConfig(cfg)
	}

	// Fatal configuration errors abort before any crawl work begins.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logOpts := logging.DefaultOptions()
	logOpts.Level = logging.ParseLevel(viper.GetString("log_level"))
	logOpts.FilePath = viper.GetString("log_file")
	if err := logging.SetDefault(logOpts); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	store, err := initializeStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	session, err := crawler.NewCrawler(cfg, store)
	if err != nil {
		return fmt.Errorf("failed to initialize crawler: %w", err)
	}
	defer session.Stop()
	session.SetEventSink(crawler.NewLogSink(nil))

	result, err := session.Run(cmd.Context())
	if err != nil {
		return err
	}

	printSummary(cfg, result)
	return nil
}

// initializeStore opens the configured page store
func initializeStore(cfg *config.CrawlConfig) (crawler.PageStore, error) {
	if cfg.NoStore {
		return crawler.NopStore{}, nil
	}

	dbDir := filepath.Dir(cfg.DatabasePath)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

// printSummary writes the session result to stdout
func printSummary(cfg *config.CrawlConfig, result *crawler.CrawlResult) {
	fmt.Printf("Crawl finished.\n")
	fmt.Printf("  Pages fetched: %d\n", result.PagesFetched)
	fmt.Printf("  Errors:        %d\n", len(result.Errors))
	if !cfg.NoStore {
		fmt.Printf("  Database:      %s\n", cfg.DatabasePath)
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %s (%s): %s\n", e.URL, e.ErrorType, e.ErrorMessage)
	}
}
