package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/openalpha/supercluster/config"
)

const flagOverwrite = "overwrite"

// InitCmd returns the command that writes a default config file
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(flagConfig)
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			if _, err := os.Stat(path); err == nil && !overwrite {
				return fmt.Errorf("%s already exists; use --%s to replace it", path, flagOverwrite)
			}

			bz, err := yaml.Marshal(config.Default())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, bz, 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().String(flagConfig, DefaultConfigPath, "config file to write")
	cmd.Flags().Bool(flagOverwrite, false, "replace an existing file")
	return cmd
}
