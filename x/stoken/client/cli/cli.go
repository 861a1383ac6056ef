package cli

import (
	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/sdk"
	"github.com/openalpha/supercluster/x/stoken/types"
)

// QueryCommands returns the ledger query commands
func QueryCommands() []*cobra.Command {
	return []*cobra.Command{
		CmdQueryBalance(),
		CmdQueryLedger(),
		CmdQueryHistory(),
		CmdQueryAllowance(),
	}
}

// TxCommands returns the ledger operation commands
func TxCommands() []*cobra.Command {
	return []*cobra.Command{
		CmdTransfer(),
		CmdApprove(),
		CmdTransferFrom(),
	}
}

// CmdQueryBalance returns the command to query a holder's ledger balance
func CmdQueryBalance() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Query the ledger balance and shares of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			account, err := c.Account(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, account)
		},
	}
}

// CmdQueryLedger returns the command to query ledger totals
func CmdQueryLedger() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Query total shares, managed value and rebase counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			ledger, err := c.Ledger(cmd.Context())
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, ledger)
		},
	}
}

// CmdQueryHistory returns the command to list recent rebases
func CmdQueryHistory() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent rebase records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			records, err := c.RebaseHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, records)
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of records")
	return cmd
}

// CmdQueryAllowance returns the command to query a spender allowance
func CmdQueryAllowance() *cobra.Command {
	return &cobra.Command{
		Use:   "allowance [owner] [spender]",
		Short: "Query how much ledger value spender may move for owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			allowance, err := c.Allowance(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, map[string]string{
				"owner":     args[0],
				"spender":   args[1],
				"allowance": allowance,
			})
		},
	}
}

// CmdTransfer returns the command to transfer ledger value
func CmdTransfer() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer [to] [value]",
		Short: "Transfer ledger value to another holder",
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

			msg := types.MsgTransfer{From: from, To: args[0], Value: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.Transfer(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdApprove returns the command to set a spender allowance
func CmdApprove() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [spender] [value]",
		Short: "Allow spender to move up to value of your ledger balance",
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

			msg := types.MsgApprove{Owner: from, Spender: args[0], Value: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			if err := c.Approve(cmd.Context(), msg); err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, msg)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdTransferFrom returns the command to spend an allowance
func CmdTransferFrom() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer-from [owner] [to] [value]",
		Short: "Transfer ledger value out of owner using an allowance",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			from, err := sdk.FromAddress(cmd)
			if err != nil {
				return err
			}

			msg := types.MsgTransferFrom{Spender: from, From: args[0], To: args[1], Value: args[2]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.TransferFrom(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}
