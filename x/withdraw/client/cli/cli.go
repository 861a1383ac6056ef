package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/sdk"
	"github.com/openalpha/supercluster/x/withdraw/types"
)

// QueryCommands returns the withdrawal queue query commands
func QueryCommands() []*cobra.Command {
	return []*cobra.Command{
		CmdQueryWithdrawal(),
		CmdQueryUserWithdrawals(),
		CmdQueryPending(),
		CmdQueryQueue(),
	}
}

// TxCommands returns the withdrawal queue operation commands
func TxCommands() []*cobra.Command {
	return []*cobra.Command{
		CmdRequest(),
		CmdFinalize(),
		CmdClaim(),
		CmdCancel(),
		CmdFund(),
	}
}

// CmdQueryWithdrawal returns the command to query one request
func CmdQueryWithdrawal() *cobra.Command {
	return &cobra.Command{
		Use:   "withdrawal [request-id]",
		Short: "Query a withdrawal request and its status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			id, err := parseRequestID(args[0])
			if err != nil {
				return err
			}
			req, err := c.Withdrawal(cmd.Context(), id)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, req)
		},
	}
}

// CmdQueryUserWithdrawals returns the command to list a requester's requests
func CmdQueryUserWithdrawals() *cobra.Command {
	return &cobra.Command{
		Use:   "user-withdrawals [address]",
		Short: "List the withdrawal requests of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			reqs, err := c.UserWithdrawals(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, reqs)
		},
	}
}

// CmdQueryPending returns the command to list pending requests
func CmdQueryPending() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List every pending withdrawal request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			reqs, err := c.PendingWithdrawals(cmd.Context())
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, reqs)
		},
	}
}

// CmdQueryQueue returns the command to query queue funds
func CmdQueryQueue() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Query the queue balance, reserved and free funds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			queue, err := c.Queue(cmd.Context())
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, queue)
		},
	}
}

// CmdRequest returns the command to queue a custodial withdrawal
func CmdRequest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request [value]",
		Short: "Queue a withdrawal of value for later settlement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestOp(cmd, func(c *sdk.Client, from string) (*types.MsgRequestResponse, error) {
				m := types.MsgRequestWithdraw{Requester: from, Value: args[0]}
				if err := m.ValidateBasic(); err != nil {
					return nil, err
				}
				return c.RequestWithdraw(cmd.Context(), m)
			})
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdFinalize returns the command to fix a request's settlement
func CmdFinalize() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize [request-id] [settlement]",
		Short: "Finalize a pending request at the given settlement amount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRequestID(args[0])
			if err != nil {
				return err
			}
			return runRequestOp(cmd, func(c *sdk.Client, from string) (*types.MsgRequestResponse, error) {
				m := types.MsgFinalizeWithdraw{Operator: from, RequestID: id, Settlement: args[1]}
				if err := m.ValidateBasic(); err != nil {
					return nil, err
				}
				return c.FinalizeWithdraw(cmd.Context(), m)
			})
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdClaim returns the command to claim a finalized request
func CmdClaim() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [request-id]",
		Short: "Pay out a finalized request once its delay has passed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRequestID(args[0])
			if err != nil {
				return err
			}
			return runRequestOp(cmd, func(c *sdk.Client, from string) (*types.MsgRequestResponse, error) {
				m := types.MsgClaim{Caller: from, RequestID: id}
				if err := m.ValidateBasic(); err != nil {
					return nil, err
				}
				return c.Claim(cmd.Context(), m)
			})
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdCancel returns the command to cancel a pending request
func CmdCancel() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel [request-id]",
		Short: "Cancel a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRequestID(args[0])
			if err != nil {
				return err
			}
			return runRequestOp(cmd, func(c *sdk.Client, from string) (*types.MsgRequestResponse, error) {
				m := types.MsgCancelRequest{Operator: from, RequestID: id}
				if err := m.ValidateBasic(); err != nil {
					return nil, err
				}
				return c.CancelRequest(cmd.Context(), m)
			})
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdFund returns the command to add settlement liquidity
func CmdFund() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund [amount]",
		Short: "Move base asset into the withdrawal queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestOp(cmd, func(c *sdk.Client, from string) (*types.MsgRequestResponse, error) {
				m := types.MsgFundQueue{Funder: from, Amount: args[0]}
				if err := m.ValidateBasic(); err != nil {
					return nil, err
				}
				return c.FundQueue(cmd.Context(), m)
			})
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

func runRequestOp(cmd *cobra.Command, op func(c *sdk.Client, from string) (*types.MsgRequestResponse, error)) error {
	c, err := sdk.ClientFromCmd(cmd)
	if err != nil {
		return err
	}
	from, err := sdk.FromAddress(cmd)
	if err != nil {
		return err
	}
	resp, err := op(c, from)
	if err != nil {
		return err
	}
	return sdk.PrintJSON(cmd, resp)
}

func parseRequestID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid request id %q: %w", s, err)
	}
	return id, nil
}
