package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	grpcapi "github.com/clintrovert/jts/internal/api/grpc"
	"github.com/clintrovert/jts/internal/api/rest"
	"github.com/clintrovert/jts/internal/config"
	"github.com/clintrovert/jts/internal/credential"
	"github.com/clintrovert/jts/internal/jira"
	"github.com/clintrovert/jts/internal/manager"
	"github.com/clintrovert/jts/internal/temporal"
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

	// Create Jira client
	jiraClient, err := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIKey, logger)
	if err != nil {
		logger.Fatal("failed to create jira client", zap.Error(err))
	}

	mgr := manager.NewManager(jiraClient, manager.Options{
		ScratchDir:  cfg.Migration.ScratchDir,
		RequestType: cfg.Migration.RequestType,
		PageSize:    cfg.Migration.PageSize,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !mgr.CheckConnection(ctx) {
		logger.Warn("jira connection check failed, serving anyway")
	}

	// Temporal is optional; without it the workflow routes answer 503
	var workflows rest.Workflows
	if cfg.Temporal.Enabled {
		temporalClient, err := temporal.NewClient(cfg.Temporal.Address, cfg.Temporal.Namespace, cfg.Temporal.TaskQueue, logger)
		if err != nil {
			logger.Fatal("failed to create temporal client", zap.Error(err))
		}
		defer temporalClient.Close()
		workflows = temporalClient
	}

	restServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.RESTPort),
		Handler:           rest.NewRouter(rest.NewHandler(mgr, workflows, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCPort))
	if err != nil {
		logger.Fatal("failed to listen on gRPC port", zap.Error(err))
	}
	grpcSrv := grpc.NewServer()
	grpcapi.NewServer(mgr, logger).Register(grpcSrv)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting REST API server", zap.String("address", restServer.Addr))
		if err := restServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("rest server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("starting gRPC server", zap.String("address", grpcListener.Addr().String()))
		if err := grpcSrv.Serve(grpcListener); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		grpcSrv.GracefulStop()
		return restServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
