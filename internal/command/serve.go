package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/botforge/botgate/internal/config"
	"github.com/botforge/botgate/internal/db"
	"github.com/botforge/botgate/internal/llmclient"
	"github.com/botforge/botgate/internal/patchnotes"
	"github.com/botforge/botgate/internal/server"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	port    int
	logFile string
	debug   bool
	native  bool
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listening port (overrides PORT)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "log file path (rotation enabled)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&opts.native, "native-system-turn", false,
		"deliver the system message on the model's system channel instead of a leading user turn")

	return cmd
}

func setupLogging(opts *serveOptions) {
	if opts.debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if opts.logFile != "" {
		logWriter := &lumberjack.Logger{
			Filename:   opts.logFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		logrus.SetOutput(io.MultiWriter(os.Stdout, logWriter))
		logrus.Infof("Logging to file: %s (with rotation)", opts.logFile)
	}
}

func runServe(opts *serveOptions) error {
	setupLogging(opts)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.port != 0 {
		cfg.Port = opts.port
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open bot store: %w", err)
	}

	clientOpts := []llmclient.GoogleOption{}
	if opts.native {
		clientOpts = append(clientOpts, llmclient.WithSystemTurnStrategy(llmclient.SystemTurnNative))
	}
	generator, err := llmclient.NewGoogleClient(context.Background(), cfg.GeminiAPIKey, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	serverOpts := []server.ServerOption{
		server.WithGenerator(generator),
		server.WithPort(cfg.Port),
	}
	if cfg.PatchEndpoint != "" {
		serverOpts = append(serverOpts, server.WithSummarizer(
			patchnotes.NewSummarizer(cfg.PatchEndpoint, generator)))
	}

	srv := server.NewServer(store, serverOpts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logrus.Infof("Received %s. Shutting down gracefully...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		logrus.Info("HTTP server closed.")
		return nil
	}
}
