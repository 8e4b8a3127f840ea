// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rfpdesk/rfpmail/config"
	"github.com/rfpdesk/rfpmail/display"
	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/extraction"
	"github.com/rfpdesk/rfpmail/imapconnection"
	"github.com/rfpdesk/rfpmail/ingest"
	"github.com/rfpdesk/rfpmail/log"
	"github.com/rfpdesk/rfpmail/persistence"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	configPath string
	loglevel   string
	dryRun     bool

	conf  *config.Config
	store *persistence.Persistence
)

var rootCmd = &cobra.Command{
	Use:           "rfpmail",
	Short:         "Turn vendor replies to RFPs into structured proposals",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "version":
			return nil
		}

		log.InitLogging("info")

		var err error
		conf, err = config.ReadConfig(configPath)
		if err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}

		switch {
		case len(loglevel) > 0:
			log.SetLogLevel(loglevel)
		case conf.Loglevel != nil:
			log.SetLogLevel(*conf.Loglevel)
		}

		store, err = persistence.NewPersistence(conf.DatabaseDriver, conf.Database)
		if err != nil {
			return fmt.Errorf("could not connect to database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rfpmail version %s\n", Version)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		// migrations already ran when the database was opened
		display.SuccessMsg(cmd.OutOrStdout(), "Database %s is up to date", conf.DatabaseDriver)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ingestion worker until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.Logger(log.LOG_MAIN)
		if !conf.WorkerEnabled() {
			logger.Warn("No imap host configured, ingestion worker disabled")
			return nil
		}

		ingestor, err := newIngestor()
		if err != nil {
			return err
		}

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(signals)

		err = runUntilSignal(cmd.Context(), signals, ingestor.Run)
		if errors.Is(err, domain.ErrMailboxDisabled) {
			return nil
		}
		return err
	},
}

// runUntilSignal runs the worker until it fails or a signal arrives. On a signal the
// worker is cancelled and waited for, so the poll in flight can finish.
func runUntilSignal(ctx context.Context, signals <-chan os.Signal, run func(ctx context.Context) error) error {
	logger := log.Logger(log.LOG_MAIN)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return run(gctx)
	})
	g.Go(func() error {
		select {
		case sig := <-signals:
			logger.WithField("signal", sig).Info("Shutting down, waiting for the running poll")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	return g.Wait()
}

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll the mailbox once and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !conf.WorkerEnabled() {
			return errors.New("no imap host configured")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mailbox := newMailbox()
		defer mailbox.Close()

		ingestor, err := ingest.NewIngestor(store, mailbox, newExtractor(), ingestConfig()...)
		if err != nil {
			return err
		}

		result, err := ingestor.PollOnce(ctx)
		if err != nil {
			return err
		}

		display.PollResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func newMailbox() *imapconnection.Manager {
	return imapconnection.NewManager(imapconnection.Options{
		Host:           conf.ImapHost,
		Port:           conf.ImapPort,
		TLS:            conf.ImapTLS,
		TLSVerify:      conf.ImapTLSVerify,
		User:           conf.User,
		Password:       conf.Password,
		Mailbox:        conf.Mailbox,
		ArchiveFolder:  conf.ArchiveFolder,
		Compress:       conf.Compress,
		BackoffInitial: conf.BackoffInitial(),
		BackoffMax:     conf.BackoffMax(),
	})
}

// newExtractor uses the language model when an api key is configured and the local
// heuristic otherwise.
func newExtractor() domain.Extractor {
	logger := log.Logger(log.LOG_MAIN)
	if len(conf.Extractor.APIKey) == 0 {
		logger.Warn("No extractor api key configured, using heuristic extraction")
		return extraction.NewHeuristic()
	}

	client, err := extraction.NewClient(conf.Extractor.BaseURL, conf.Extractor.APIKey, conf.Extractor.Model)
	if err != nil {
		logger.WithField("error", err).Warn("Could not create extraction client, using heuristic extraction")
		return extraction.NewHeuristic()
	}

	logger.WithFields(logrus.Fields{"model": conf.Extractor.Model, "baseurl": conf.Extractor.BaseURL}).Info("Using model extraction")
	return client
}

func ingestConfig() []ingest.ConfigFunc {
	configs := []ingest.ConfigFunc{
		ingest.PollInterval(conf.PollInterval()),
		ingest.Concurrency(conf.Concurrency),
		ingest.ExtractionTimeout(conf.ExtractionTimeout()),
		ingest.StartedAt(time.Now()),
	}
	if conf.DryRun || dryRun {
		configs = append(configs, ingest.DryRun())
	}
	return configs
}

func newIngestor() (*ingest.Ingestor, error) {
	logger := log.Logger(log.LOG_MAIN)

	ingestor, err := ingest.NewIngestor(store, newMailbox(), newExtractor(), ingestConfig()...)
	if err != nil {
		return nil, fmt.Errorf("could not create ingestor: %w", err)
	}

	logger.WithFields(logrus.Fields{"server": conf.ImapAddress(), "mailbox": conf.Mailbox, "dryrun": conf.DryRun || dryRun}).Info("Watching mailbox for vendor replies")
	if conf.DryRun || dryRun {
		logger.Warn("Not marking messages seen due to dry-run")
	}
	return ingestor, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "Config file, environment variables override its values")
	rootCmd.PersistentFlags().StringVar(&loglevel, "loglevel", "", "Log level (trace, debug, info, warn, error)")

	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Never mark messages seen")
	pollCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Never mark messages seen")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pollCmd)
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		display.ErrorMsg(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
