package main

import (
	"os"

	"github.com/paw-chain/crosslend/cmd/crosslendcli/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
