package cli

import (
	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/sdk"
	"github.com/openalpha/supercluster/x/supercluster/types"
)

const flagPilot = "pilot"

// TxCommands returns the supercluster operation commands
func TxCommands() []*cobra.Command {
	return []*cobra.Command{
		CmdDeposit(),
		CmdWithdraw(),
		CmdRebase(),
		CmdSetManagedValue(),
		CmdRegisterPilot(),
		CmdDeregisterPilot(),
	}
}

// CmdDeposit returns the command to deposit base asset into the vault
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [amount]",
		Short: "Deposit base asset and receive ledger value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			from, err := sdk.FromAddress(cmd)
			if err != nil {
				return err
			}
			pilot, _ := cmd.Flags().GetString(flagPilot)

			msg := types.MsgDeposit{Depositor: from, Amount: args[0], PilotID: pilot}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.Deposit(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	cmd.Flags().String(flagPilot, "", "pilot to route the deposit through (default pilot when empty)")
	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdWithdraw returns the command to redeem ledger value
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [value]",
		Short: "Burn ledger value and queue its payout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			from, err := sdk.FromAddress(cmd)
			if err != nil {
				return err
			}

			msg := types.MsgWithdraw{Owner: from, Value: args[0]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.Withdraw(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdRebase returns the command to rebase the ledger onto live value
func CmdRebase() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebase",
		Short: "Set managed value to the live value across pilots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			from, err := sdk.FromAddress(cmd)
			if err != nil {
				return err
			}

			resp, err := c.Rebase(cmd.Context(), types.MsgRebase{Controller: from})
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdSetManagedValue returns the command to report managed value directly
func CmdSetManagedValue() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-managed-value [value]",
		Short: "Set managed value to a reported figure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			from, err := sdk.FromAddress(cmd)
			if err != nil {
				return err
			}

			msg := types.MsgUpdateManagedValue{Controller: from, Value: args[0]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.UpdateManagedValue(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdRegisterPilot returns the command to register a pilot with the vault
func CmdRegisterPilot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-pilot [pilot-id]",
		Short: "Register a pilot with the vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pilotRegistration(cmd, args[0], true)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdDeregisterPilot returns the command to remove an empty pilot
func CmdDeregisterPilot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deregister-pilot [pilot-id]",
		Short: "Remove an empty pilot from the vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pilotRegistration(cmd, args[0], false)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

func pilotRegistration(cmd *cobra.Command, pilotID string, register bool) error {
	c, err := sdk.ClientFromCmd(cmd)
	if err != nil {
		return err
	}
	from, err := sdk.FromAddress(cmd)
	if err != nil {
		return err
	}

	msg := types.MsgRegisterPilot{Authority: from, PilotID: pilotID}
	if register {
		err = c.RegisterPilot(cmd.Context(), msg)
	} else {
		err = c.DeregisterPilot(cmd.Context(), msg)
	}
	if err != nil {
		return err
	}
	return sdk.PrintJSON(cmd, msg)
}
