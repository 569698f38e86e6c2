package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/congo-pay/solo_wallet/internal/client"
)

var (
	serverURL    string
	caller       string
	callerHeader string
	timeout      time.Duration

	api *client.Client
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "walletctl",
		Short:        "Operate an owner-gated wallet server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = os.Getenv("WALLET_SERVER")
			}
			if serverURL == "" {
				serverURL = "http://127.0.0.1:8080"
			}
			if caller == "" {
				caller = os.Getenv("WALLET_CALLER")
			}
			api = client.New(serverURL, caller)
			api.CallerHeader = callerHeader
			return nil
		},
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "", "wallet server base URL (default $WALLET_SERVER or http://127.0.0.1:8080)")
	root.PersistentFlags().StringVarP(&caller, "caller", "c", "", "caller identity asserted to the server (default $WALLET_CALLER)")
	root.PersistentFlags().StringVar(&callerHeader, "caller-header", "X-Caller-ID", "header carrying the caller identity")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	root.AddCommand(
		balanceCmd(),
		ownerCmd(),
		setBalanceCmd(),
		sendCmd(),
		receiveCmd(),
		setOwnerCmd(),
	)
	return root
}
