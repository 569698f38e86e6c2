// Package commands implements the walletctl CLI.
//
// Every subcommand talks to a running wallet server over HTTP and asserts the
// caller identity given by --caller through the configured header, the same
// way a trusted gateway in front of the server would.
//
//	walletctl --caller owner balance
//	walletctl --caller owner set-balance 100
//	walletctl --caller owner send 50 --to recipient
//	walletctl --caller owner receive 25
//	walletctl --caller owner set-owner alice
//	walletctl owner
package commands
