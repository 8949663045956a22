// Command ledgertools inspects keys, addresses and transactions and runs
// web authentication against configured servers.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/anyswap/Stellar-SDK/cmd/utils"
	"github.com/urfave/cli/v2"
)

var (
	clientIdentifier = "ledgertools"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the ledger client command line tools")
)

func initApp() {
	app.Commands = []*cli.Command{
		keypairCommand,
		addressCommand,
		decodeTxCommand,
		hashTxCommand,
		accountCommand,
		authCommand,
		utils.VersionCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		_, _ = failStyle.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func invalidArgs(ctx *cli.Context) error {
	_ = cli.ShowCommandHelp(ctx, ctx.Command.Name)
	return fmt.Errorf("invalid arguments: %q", ctx.Args().Slice())
}
