package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: must be a non-negative integer", s)
	}
	return v, nil
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// balance: print the current balance.
func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the wallet balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			bal, err := api.Balance(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bal)
			return nil
		},
	}
}

// owner: print the current owner.
func ownerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owner",
		Short: "Print the wallet owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			o, err := api.Owner(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), o)
			return nil
		},
	}
}

// set-balance <amount>: overwrite the balance.
func setBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <amount>",
		Short: "Overwrite the wallet balance (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			if err := api.SetBalance(ctx, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

// send <amount> [--to recipient]: debit the balance.
func sendCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "send <amount>",
		Short: "Send tokens, optionally to a recipient (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			var recipient *string
			if cmd.Flags().Changed("to") {
				recipient = &to
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			if err := api.SendTokens(ctx, amount, recipient); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient identifier forwarded to the transfer service")
	return cmd
}

// receive <amount>: credit the balance.
func receiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receive <amount>",
		Short: "Record received tokens (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			if err := api.ReceiveTokens(ctx, amount); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "received")
			return nil
		},
	}
}

// set-owner <identity>: hand the wallet to a new owner.
func setOwnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-owner <identity>",
		Short: "Transfer wallet ownership (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			if err := api.SetOwner(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "owner set")
			return nil
		},
	}
}
