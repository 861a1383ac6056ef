package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openalpha/supercluster/sdk"
	"github.com/openalpha/supercluster/x/pilot/types"
)

// TxCommands returns the pilot operation commands
func TxCommands() []*cobra.Command {
	return []*cobra.Command{
		CmdCreatePilot(),
		CmdAllocate(),
		CmdInvest(),
		CmdDivest(),
		CmdDrain(),
	}
}

// CmdCreatePilot returns the command to create a pilot
func CmdCreatePilot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pilot [pilot-id] [owner]",
		Short: "Create a pilot owned by owner",
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

			msg := types.MsgCreatePilot{Authority: from, PilotID: args[0], Owner: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			pilot, err := c.CreatePilot(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, pilot)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdAllocate returns the command to replace a pilot's allocation
func CmdAllocate() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "allocate [pilot-id] [adapter=bps,...]",
		Short:   "Replace a pilot's allocation table",
		Example: "superclusterd tx allocate main lending-vault=7000,reserve=3000 --from admin",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := sdk.ClientFromCmd(cmd)
			if err != nil {
				return err
			}
			from, err := sdk.FromAddress(cmd)
			if err != nil {
				return err
			}
			adapters, bps, err := ParseAllocation(args[1])
			if err != nil {
				return err
			}

			msg := types.MsgSetAllocation{Owner: from, PilotID: args[0], Adapters: adapters, Bps: bps}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.SetAllocation(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdInvest returns the command to invest a pilot's idle funds
func CmdInvest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invest [pilot-id] [amount]",
		Short: "Split idle funds across the pilot's allocation",
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

			msg := types.MsgInvest{Caller: from, PilotID: args[0], Amount: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.Invest(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdDivest returns the command to pull funds out of a pilot
func CmdDivest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "divest [pilot-id] [destination] [amount]",
		Short: "Pay amount out of a pilot to destination",
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

			msg := types.MsgDivest{Caller: from, PilotID: args[0], Destination: args[1], Amount: args[2]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.Divest(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// CmdDrain returns the command to empty an inactive adapter
func CmdDrain() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drain [pilot-id] [adapter-id]",
		Short: "Return an inactive adapter's funds to the pilot",
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

			msg := types.MsgDrainAdapter{Owner: from, PilotID: args[0], AdapterID: args[1]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			resp, err := c.DrainAdapter(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return sdk.PrintJSON(cmd, resp)
		},
	}

	sdk.AddTxFlags(cmd)
	return cmd
}

// ParseAllocation parses "adapter=bps,adapter=bps" into parallel lists
func ParseAllocation(s string) ([]string, []uint32, error) {
	var (
		adapters []string
		bps      []uint32
	)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, weight, ok := strings.Cut(pair, "=")
		if !ok || id == "" {
			return nil, nil, fmt.Errorf("invalid allocation entry %q, want adapter=bps", pair)
		}
		w, err := strconv.ParseUint(weight, 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid bps for %s: %w", id, err)
		}
		adapters = append(adapters, id)
		bps = append(bps, uint32(w))
	}
	return adapters, bps, nil
}
