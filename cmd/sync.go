package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/childcare-sync/internal/pipeline"
)

// runSync runs the full fetch, transform, publish pass. Individual publish
// failures are logged and do not affect the exit status.
func runSync(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.ValidateSync(); err != nil {
		return err
	}

	p := pipeline.New(pipeline.NewConfig(cfg))
	summary, err := p.Run(ctx)
	if err != nil {
		return eris.Wrap(err, "sync")
	}

	if summary.Failed > 0 {
		zap.L().Warn("some groups could not be created",
			zap.String("run_id", summary.RunID),
			zap.Int("failed", summary.Failed),
		)
	}
	return nil
}
