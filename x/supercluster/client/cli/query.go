package cli

import (
	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/sdk"
)

// QueryCommands returns the supercluster query commands
func QueryCommands() []*cobra.Command {
	return []*cobra.Command{
		CmdQueryVault(),
		CmdQueryParams(),
		CmdQueryRegisteredPilots(),
	}
}

// CmdQueryVault returns the command to query the vault snapshot
func CmdQueryVault() *cobra.Command {
	return &cobra.Command{
		Use:   "vault",
		Short: "Query total shares, managed value, live value and per-pilot holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			vault, err := c.Vault(cmd.Context())
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, vault)
		},
	}
}

// CmdQueryParams returns the command to query orchestrator parameters
func CmdQueryParams() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Query the vault parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			params, err := c.Params(cmd.Context())
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, params)
		},
	}
}

// CmdQueryRegisteredPilots returns the command to list registered pilots
func CmdQueryRegisteredPilots() *cobra.Command {
	return &cobra.Command{
		Use:   "registered-pilots",
		Short: "List the pilots registered with the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			ids, err := c.RegisteredPilots(cmd.Context())
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, map[string][]string{"pilots": ids})
		},
	}
}
