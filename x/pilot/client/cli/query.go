package cli

import (
	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/sdk"
)

// QueryCommands returns the pilot query commands
func QueryCommands() []*cobra.Command {
	return []*cobra.Command{
		CmdQueryPilot(),
		CmdQueryPilots(),
		CmdQueryAdapters(),
	}
}

// CmdQueryPilot returns the command to query one pilot with its holdings
func CmdQueryPilot() *cobra.Command {
	return &cobra.Command{
		Use:   "pilot [pilot-id]",
		Short: "Query a pilot's allocation, idle funds and adapter balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			pilot, err := c.Pilot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, pilot)
		},
	}
}

// CmdQueryPilots returns the command to list pilots
func CmdQueryPilots() *cobra.Command {
	return &cobra.Command{
		Use:   "pilots",
		Short: "List every pilot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			pilots, err := c.Pilots(cmd.Context())
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, pilots)
		},
	}
}

// CmdQueryAdapters returns the command to list adapters
func CmdQueryAdapters() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List every adapter with its current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			adapters, err := c.Adapters(cmd.Context())
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, adapters)
		},
	}
}
