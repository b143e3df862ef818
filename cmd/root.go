// Package cmd defines the CLI commands for the seedwatch executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calebmartin/seedwatch/internal/config"
	"github.com/calebmartin/seedwatch/internal/extract"
	"github.com/calebmartin/seedwatch/internal/logging"
	"github.com/calebmartin/seedwatch/internal/metrics"
	"github.com/calebmartin/seedwatch/internal/notify"
	"github.com/calebmartin/seedwatch/internal/renderer"
	"github.com/calebmartin/seedwatch/internal/watch"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seedwatch",
		Short: "Watches a storefront page and emails when target seeds come in stock.",
		Long: `seedwatch polls a JavaScript-rendered stock page on a fixed interval,
extracts per-item stock counts, and sends a single email the first time a
watched item becomes available. A liveness endpoint reports process health.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; SEEDWATCH_* env vars override)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger, and initializes
// metrics collectors.
func bootstrap() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	metrics.Init()
	return cfg, logger, nil
}

// buildChecker wires the poll cycle from configuration. The returned
// closer tears down the browser when rendering is enabled.
func buildChecker(cfg config.Config, logger *zap.Logger) (*watch.Checker, func() error, error) {
	policy, err := watch.ParseNotifyPolicy(cfg.Watch.NotifyPolicy)
	if err != nil {
		return nil, nil, err
	}

	rcfg := renderer.Config{
		UserAgent:    cfg.Render.UserAgent,
		WaitSelector: cfg.Render.WaitSelector,
	}

	var (
		pageSource watch.Renderer
		closer     = func() error { return nil }
	)
	if cfg.Render.Enabled {
		r, err := renderer.NewChromedpRenderer(rcfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init renderer: %w", err)
		}
		pageSource = r
		closer = r.Close
	} else {
		logger.Info("rendering disabled, fetching over plain HTTP")
		pageSource = renderer.NewStaticFetcher(rcfg, cfg.NavTimeout(), logger)
	}

	extractor := extract.New(extract.Config{
		ContainerSelector: cfg.Extract.ContainerSelector,
		NameSelector:      cfg.Extract.NameSelector,
		StatusSelector:    cfg.Extract.StatusSelector,
	}, logger)

	normalizer := watch.NewNormalizer(
		watch.NewWatchSet(cfg.Watch.Items),
		cfg.Watch.NameSuffix,
		watch.NewQuantityParser(cfg.Watch.QuantityMarker),
	)

	tracker := watch.NewTracker(policy)

	var notifier watch.Notifier
	if cfg.Email.Enabled {
		mailer, merr := notify.NewMailNotifier(notify.Config{
			Host:      cfg.Email.Host,
			Port:      cfg.Email.Port,
			Sender:    cfg.Email.Sender,
			Password:  cfg.Email.Password,
			Recipient: cfg.Email.Recipient,
		})
		if merr != nil {
			if cerr := closer(); cerr != nil {
				logger.Warn("close renderer", zap.Error(cerr))
			}
			return nil, nil, fmt.Errorf("init mail notifier: %w", merr)
		}
		notifier = mailer
	} else {
		notifier = notify.NewNoOpNotifier(logger)
	}

	checker := watch.NewChecker(
		pageSource,
		extractor,
		normalizer,
		tracker,
		notifier,
		watch.CycleConfig{
			URL:           cfg.Watch.URL,
			RenderTimeout: cfg.NavTimeout(),
			Subject:       cfg.Email.Subject,
		},
		logger,
	)
	return checker, closer, nil
}
