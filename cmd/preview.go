package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/childcare-sync/internal/pipeline"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the group descriptor of every facility without publishing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.ValidatePreview(); err != nil {
			return err
		}

		p := pipeline.New(pipeline.NewConfig(cfg))
		summary, err := p.Preview(ctx, cmd.OutOrStdout())
		if err != nil {
			return eris.Wrap(err, "preview")
		}

		zap.L().Info("preview complete",
			zap.Int("fetched", summary.Fetched),
			zap.Int("skipped", summary.Skipped),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
