package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/openalpha/supercluster/cmd/superclusterd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.NewLogger(os.Stderr).Error("failure when running superclusterd", "err", err)
		os.Exit(1)
	}
}
