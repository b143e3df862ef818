package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calebmartin/seedwatch/internal/watch"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single poll cycle and exit",
		Long: `Runs one fetch-extract-compare-notify cycle and exits. Intended for
host-supervised schedules (cron) where the supervisor owns the interval.
Exits non-zero when the cycle fails.`,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	checker, closeRenderer, err := buildChecker(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeRenderer(); cerr != nil {
			logger.Warn("close renderer", zap.Error(cerr))
		}
	}()

	res := checker.RunCycle(cmd.Context())
	switch res.Outcome {
	case watch.OutcomeFailed:
		return fmt.Errorf("check cycle failed: %w", res.Err)
	case watch.OutcomeNotified:
		logger.Info("check cycle complete", zap.Int("notified", res.Notified))
	default:
		logger.Info("check cycle complete, no new availability")
	}
	return nil
}
