package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clintrovert/jts/internal/config"
	"github.com/clintrovert/jts/internal/credential"
	"github.com/clintrovert/jts/internal/jira"
	"github.com/clintrovert/jts/internal/manager"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jts",
	Short: "Clone Jira issues into Jira Service Management projects",
	Long: `jts copies a Jira issue, attachments included, into a Jira Service
Management project as a new request.

Credentials are read from the configuration file, from JTS_JIRA_BASE_URL,
JTS_JIRA_EMAIL and JTS_JIRA_API_KEY, or from the OS keyring (see 'jts auth set').

Run without arguments to start the interactive shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Development = true
			cfg.Log.Level = "debug"
		}

		logger, err = config.NewLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runShell,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authDeleteCmd)

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(authCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newManager builds a manager from the loaded configuration and verifies
// the Jira connection
func newManager(ctx context.Context) (*manager.Manager, error) {
	if cfg.Jira.APIKey == "" {
		store, err := credential.Open(config.DefaultCredentialDir())
		if err != nil {
			logger.Debug("keyring unavailable", zap.Error(err))
		} else if err := cfg.ResolveAPIKey(store, credential.APIKeyItem); err != nil {
			logger.Debug("no api key in keyring", zap.Error(err))
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	jiraClient, err := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIKey, logger)
	if err != nil {
		return nil, err
	}

	mgr := manager.NewManager(jiraClient, manager.Options{
		ScratchDir:  cfg.Migration.ScratchDir,
		RequestType: cfg.Migration.RequestType,
		PageSize:    cfg.Migration.PageSize,
	}, logger)

	if !mgr.CheckConnection(ctx) {
		return nil, fmt.Errorf("cannot connect to %s, check your credentials", cfg.Jira.BaseURL)
	}

	return mgr, nil
}
