package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/sdk"
	"github.com/openalpha/supercluster/x/access/types"
)

// QueryCommands returns the access query commands
func QueryCommands() []*cobra.Command {
	return []*cobra.Command{CmdQueryRoles()}
}

// TxCommands returns the access administration commands
func TxCommands() []*cobra.Command {
	return []*cobra.Command{
		CmdGrantRole(),
		CmdRevokeRole(),
		CmdSetPaused(),
	}
}

// CmdQueryRoles returns the command to list an address's roles
func CmdQueryRoles() *cobra.Command {
	return &cobra.Command{
		Use:   "roles [address]",
		Short: "List the roles held by an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			roles, err := c.Roles(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, roles)
		},
	}
}

// CmdGrantRole returns the command to grant a role
func CmdGrantRole() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant [role] [address]",
		Short: "Grant a role (admin, minter, controller, operator, orchestrator)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, from, err := clientAndSigner(cmd)
			if err != nil {
				return err
			}
			msg := types.MsgGrantRole{Authority: from, Role: args[0], Address: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			if err := c.GrantRole(cmd.Context(), msg); err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, msg)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdRevokeRole returns the command to revoke a role
func CmdRevokeRole() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke [role] [address]",
		Short: "Revoke a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, from, err := clientAndSigner(cmd)
			if err != nil {
				return err
			}
			msg := types.MsgRevokeRole{Authority: from, Role: args[0], Address: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			if err := c.RevokeRole(cmd.Context(), msg); err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, msg)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdSetPaused returns the command to pause or resume a module
func CmdSetPaused() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause [module] [true|false]",
		Short: "Pause or resume a module's state-changing operations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paused, err := strconv.ParseBool(args[1])
			if err != nil {
				return err
			}
			c, from, err := clientAndSigner(cmd)
			if err != nil {
				return err
			}
			msg := types.MsgSetPaused{Authority: from, Module: args[0], Paused: paused}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			if err := c.SetPaused(cmd.Context(), msg); err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, msg)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

func clientAndSigner(cmd *cobra.Command) (*sdk.Client, string, error) {
	c, err := sdk.ClientFromCmd(cmd)
	if err != nil {
		return nil, "", err
	}
	from, err := sdk.FromAddress(cmd)
	if err != nil {
		return nil, "", err
	}
	return c, from, nil
}
