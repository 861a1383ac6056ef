package cli

import (
	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/sdk"
	"github.com/openalpha/supercluster/x/assets/types"
)

// QueryCommands returns the base-asset query commands
func QueryCommands() []*cobra.Command {
	return []*cobra.Command{CmdQueryAssetBalance()}
}

// TxCommands returns the base-asset commands
func TxCommands() []*cobra.Command {
	return []*cobra.Command{CmdSend(), CmdMint()}
}

// CmdQueryAssetBalance returns the command to query a base-asset balance
func CmdQueryAssetBalance() *cobra.Command {
	return &cobra.Command{
		Use:   "asset-balance [address]",
		Short: "Query the base-asset balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			bal, err := c.Balance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, bal)
		},
	}
}

// CmdSend returns the command to send base asset
func CmdSend() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [to] [amount]",
		Short: "Send base asset to another account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			from, err := sdk.FromAddress(cmd)
			if err != nil {
				return err
			}
			msg := types.MsgSend{From: from, To: args[0], Amount: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.Send(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdMint returns the command to mint base asset
func CmdMint() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint [to] [amount]",
		Short: "Mint base asset to an account (minter role)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			from, err := sdk.FromAddress(cmd)
			if err != nil {
				return err
			}
			msg := types.MsgMint{Authority: from, To: args[0], Amount: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.Mint(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}
