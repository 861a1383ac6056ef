package sdk

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// FlagAPI is the persistent flag carrying the API address
	FlagAPI = "api"
	// FlagFrom is the signer address on tx commands
	FlagFrom = "from"
)

// ClientFromCmd builds a Client from the command's --api flag
func ClientFromCmd(cmd *cobra.Command) (*Client, error) {
	addr, err := cmd.Flags().GetString(FlagAPI)
	if err != nil {
		return nil, err
	}
	return NewClient(addr), nil
}

// FromAddress returns the required --from flag value
func FromAddress(cmd *cobra.Command) (string, error) {
	from, err := cmd.Flags().GetString(FlagFrom)
	if err != nil {
		return "", err
	}
	if from == "" {
		return "", fmt.Errorf("--%s is required", FlagFrom)
	}
	return from, nil
}

// AddTxFlags registers the flags shared by tx commands
func AddTxFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagFrom, "", "address submitting the operation")
}

// PrintJSON writes v as indented JSON to the command output
func PrintJSON(cmd *cobra.Command, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
