package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets redacted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close() //nolint:errcheck

		if err := enc.Encode(cfg.Redacted()); err != nil {
			return eris.Wrap(err, "config: encode yaml")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
