package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/sdk"
	accesscli "github.com/openalpha/supercluster/x/access/client/cli"
	assetscli "github.com/openalpha/supercluster/x/assets/client/cli"
	pilotcli "github.com/openalpha/supercluster/x/pilot/client/cli"
	stokencli "github.com/openalpha/supercluster/x/stoken/client/cli"
	superclustercli "github.com/openalpha/supercluster/x/supercluster/client/cli"
	withdrawcli "github.com/openalpha/supercluster/x/withdraw/client/cli"
)

const flagConfig = "config"

// DefaultConfigPath is where init writes and start reads the config
const DefaultConfigPath = "config.yaml"

// NewRootCmd creates the superclusterd root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "superclusterd",
		Short:         "Rebasing yield vault node and client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		InitCmd(),
		StartCmd(),
		QueryCmd(),
		TxCmd(),
	)
	return rootCmd
}

// QueryCmd groups the read-only commands
func QueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	cmd.PersistentFlags().String(sdk.FlagAPI, sdk.DefaultAddress, "API address of a running node")

	for _, cmds := range [][]*cobra.Command{
		superclustercli.QueryCommands(),
		stokencli.QueryCommands(),
		pilotcli.QueryCommands(),
		withdrawcli.QueryCommands(),
		accesscli.QueryCommands(),
		assetscli.QueryCommands(),
		{CmdQueryEvents()},
	} {
		cmd.AddCommand(cmds...)
	}
	return cmd
}

// TxCmd groups the state-changing commands
func TxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Operation subcommands",
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	cmd.PersistentFlags().String(sdk.FlagAPI, sdk.DefaultAddress, "API address of a running node")

	for _, cmds := range [][]*cobra.Command{
		superclustercli.TxCommands(),
		stokencli.TxCommands(),
		pilotcli.TxCommands(),
		withdrawcli.TxCommands(),
		accesscli.TxCommands(),
		assetscli.TxCommands(),
	} {
		cmd.AddCommand(cmds...)
	}
	return cmd
}

// CmdQueryEvents returns the command to list recorded events
func CmdQueryEvents() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recorded events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			eventType, _ := cmd.Flags().GetString("type")
			events, err := c.Events(cmd.Context(), limit, eventType)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, events)
		},
	}

	cmd.Flags().Int("limit", 50, "maximum number of events")
	cmd.Flags().String("type", "", "only events of this type")
	return cmd
}

// validateCmd prints help for a bare group and rejects unknown subcommands
func validateCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		msg += "\n\nDid you mean this?\n\t" + strings.Join(suggestions, "\n\t")
	}
	return errors.New(msg)
}
