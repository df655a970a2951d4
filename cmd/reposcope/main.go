package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reposcope/reposcope/internal/analyzer"
	"github.com/reposcope/reposcope/internal/config"
	gh "github.com/reposcope/reposcope/internal/github"
	"github.com/reposcope/reposcope/internal/rules"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile   string
	rulesFile string
	verbose   bool
	logger    *logrus.Logger
	cfg       *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reposcope",
	Short: "RepoScope - classify a remote repository's contents and project type",
	Long: `RepoScope inspects a GitHub repository, tallies its file types against
an extensible rule table, detects web frameworks, and reports a best-guess
project type. Run with no arguments for an interactive prompt, or use
'reposcope analyze <url>' for a one-shot analysis.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
		if rulesFile != "" {
			cfg.Rules.Path = rulesFile
		}
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: reposcope.yaml)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "rule table file (default: rules.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`RepoScope {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(analyzeCmd)
}

// newAnalyzer wires the rule table and GitHub client into an Analyzer.
// A missing or malformed rule table is fatal: nothing can run without it.
func newAnalyzer() (*analyzer.Analyzer, error) {
	table, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.GitHub.RequestTimeout}
	client, err := gh.NewClient(httpClient, gh.Options{
		Token:         cfg.GitHub.Token,
		BaseURL:       cfg.GitHub.APIBaseURL,
		RatePerSec:    cfg.GitHub.RateLimit,
		MaxConcurrent: cfg.GitHub.MaxConcurrent,
		MaxFileBytes:  cfg.GitHub.MaxFileBytes,
	}, logger)
	if err != nil {
		return nil, err
	}

	return analyzer.New(client, table, logger), nil
}
