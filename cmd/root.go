package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/childcare-sync/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "childcare-sync",
	Short: "Sync licensed child-care facilities into forum groups",
	Long:  "Fetches the Erie county child-care facility dataset from the state open-data portal and creates one Discourse group per facility.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSync,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
