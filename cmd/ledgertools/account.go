package main

import (
	"errors"
	"time"

	"github.com/anyswap/Stellar-SDK/amount"
	"github.com/anyswap/Stellar-SDK/cmd/utils"
	"github.com/anyswap/Stellar-SDK/horizon"
	"github.com/anyswap/Stellar-SDK/params"
	"github.com/urfave/cli/v2"
)

var (
	horizonFlag = &cli.StringFlag{
		Name:  "horizon",
		Usage: "horizon url, overrides HorizonURL of the config file",
	}

	accountCommand = &cli.Command{
		Action:    showAccount,
		Name:      "account",
		Usage:     "show sequence number and balances of an account",
		ArgsUsage: "<G... address>",
		Flags: []cli.Flag{
			utils.ConfigFileFlag,
			horizonFlag,
		},
	}
)

func horizonClient(ctx *cli.Context) (*horizon.Client, error) {
	url := ctx.String(horizonFlag.Name)
	timeout := params.DefaultRequestTimeout
	if url == "" {
		config, err := params.LoadConfig(utils.GetConfigFilePath(ctx))
		if err != nil {
			return nil, err
		}
		url = config.HorizonURL
		timeout = config.GetRequestTimeout()
	}
	if url == "" {
		return nil, errors.New("no horizon url, use --horizon or set HorizonURL")
	}
	return horizon.NewClient(url, timeout), nil
}

func showAccount(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return invalidArgs(ctx)
	}
	client, err := horizonClient(ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	account, err := client.LoadAccount(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}
	w := ctx.App.Writer
	printField(w, "account", account.ID)
	printField(w, "sequence", account.Sequence)
	for i := range account.Balances {
		b := &account.Balances[i]
		stroops, err := amount.Parse(b.Balance)
		if err != nil {
			return err
		}
		printField(w, b.Asset(), amount.String(stroops))
	}
	printVerdict(w, true, "loaded in "+time.Since(start).Round(time.Millisecond).String())
	return nil
}
