package main

import (
	"os"

	"github.com/congo-pay/solo_wallet/cmd/walletctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
