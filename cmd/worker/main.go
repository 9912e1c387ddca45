package main

import (
	"flag"
	"fmt"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/clintrovert/jts/internal/activities"
	"github.com/clintrovert/jts/internal/config"
	"github.com/clintrovert/jts/internal/credential"
	"github.com/clintrovert/jts/internal/jira"
	"github.com/clintrovert/jts/internal/manager"
	"github.com/clintrovert/jts/internal/temporal/workflows"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// Initialize logger
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Jira.APIKey == "" {
		store, err := credential.Open(config.DefaultCredentialDir())
		if err != nil {
			logger.Warn("keyring unavailable", zap.Error(err))
		} else if err := cfg.ResolveAPIKey(store, credential.APIKeyItem); err != nil {
			logger.Warn("no api key in keyring", zap.Error(err))
		}
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// Create Temporal client
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.Address,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		logger.Fatal("failed to create temporal client", zap.Error(err))
	}
	defer c.Close()

	jiraClient, err := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIKey, logger)
	if err != nil {
		logger.Fatal("failed to create jira client", zap.Error(err))
	}

	mgr := manager.NewManager(jiraClient, manager.Options{
		ScratchDir:  cfg.Migration.ScratchDir,
		RequestType: cfg.Migration.RequestType,
		PageSize:    cfg.Migration.PageSize,
	}, logger)

	// Initialize activities
	activities.SetMigrationActivities(activities.NewMigrationActivities(mgr))

	// Create worker
	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow
	w.RegisterWorkflow(workflows.CloneIssueWorkflow)

	// Register activities
	w.RegisterActivity(activities.CheckConnectionActivity)
	w.RegisterActivity(activities.CloneIssueActivity)

	logger.Info("starting worker",
		zap.String("task_queue", cfg.Temporal.TaskQueue),
		zap.String("namespace", cfg.Temporal.Namespace),
	)

	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}

	logger.Info("worker stopped")
}
