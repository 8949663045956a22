package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/anyswap/Stellar-SDK/amount"
	"github.com/anyswap/Stellar-SDK/cmd/utils"
	"github.com/anyswap/Stellar-SDK/txnbuild"
	"github.com/anyswap/Stellar-SDK/xdr"
	"github.com/urfave/cli/v2"
)

var (
	decodeTxCommand = &cli.Command{
		Action:    decodeTx,
		Name:      "decodetx",
		Usage:     "summarize a base64 transaction envelope",
		ArgsUsage: "<envelope>",
		Flags: []cli.Flag{
			utils.NetworkFlag,
		},
	}

	hashTxCommand = &cli.Command{
		Action:    hashTx,
		Name:      "hashtx",
		Usage:     "print the hash signed for a base64 transaction envelope",
		ArgsUsage: "<envelope>",
		Flags: []cli.Flag{
			utils.NetworkFlag,
		},
	}
)

func parseEnvelope(ctx *cli.Context) (*txnbuild.GenericTransaction, error) {
	if ctx.NArg() != 1 {
		return nil, invalidArgs(ctx)
	}
	return txnbuild.TransactionFromXDR(ctx.Args().First())
}

func decodeTx(ctx *cli.Context) error {
	gtx, err := parseEnvelope(ctx)
	if err != nil {
		return err
	}
	return printTransaction(ctx.App.Writer, gtx, utils.GetNetworkPassphrase(ctx))
}

func hashTx(ctx *cli.Context) error {
	gtx, err := parseEnvelope(ctx)
	if err != nil {
		return err
	}
	var hash string
	if fb, ok := gtx.FeeBump(); ok {
		hash, err = fb.HashHex(utils.GetNetworkPassphrase(ctx))
	} else {
		tx, _ := gtx.Transaction()
		hash, err = tx.HashHex(utils.GetNetworkPassphrase(ctx))
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hash)
	return nil
}

func printTransaction(w io.Writer, gtx *txnbuild.GenericTransaction, passphrase string) error {
	fb, ok := gtx.FeeBump()
	if !ok {
		tx, _ := gtx.Transaction()
		return printInner(w, tx, passphrase)
	}
	hash, err := fb.HashHex(passphrase)
	if err != nil {
		return err
	}
	printField(w, "envelope", "fee bump")
	printField(w, "hash", hash)
	printField(w, "fee account", fb.FeeAccount().Address())
	printField(w, "max fee", feeString(fb.MaxFee()))
	printField(w, "signatures", len(fb.Signatures()))
	fmt.Fprintln(w, "inner transaction:")
	return printInner(w, fb.InnerTransaction(), passphrase)
}

func printInner(w io.Writer, tx *txnbuild.Transaction, passphrase string) error {
	hash, err := tx.HashHex(passphrase)
	if err != nil {
		return err
	}
	envelope := "v1"
	if tx.IsV0() {
		envelope = "v0"
	}
	printField(w, "envelope", envelope)
	printField(w, "hash", hash)
	printField(w, "source", tx.SourceAccount().Address())
	printField(w, "sequence", tx.SequenceNumber())
	printField(w, "max fee", feeString(tx.MaxFee()))
	printField(w, "memo", memoString(tx.Memo()))
	if tb := tx.TimeBounds(); tb != nil {
		printField(w, "time bounds", fmt.Sprintf("%d - %d", tb.MinTime, tb.MaxTime))
	}
	ops := tx.Operations()
	printField(w, "operations", len(ops))
	for i := range ops {
		line := fmt.Sprintf("  %d %v", i, ops[i].Body.Type)
		if ops[i].SourceAccount != nil {
			line += " source " + ops[i].SourceAccount.Address()
		}
		fmt.Fprintln(w, line)
	}
	printField(w, "signatures", len(tx.Signatures()))
	return nil
}

func feeString(stroops int64) string {
	return fmt.Sprintf("%d (%s)", stroops, amount.String(stroops))
}

func memoString(m xdr.Memo) string {
	switch m.Type {
	case xdr.MemoTypeText:
		return "text " + strconv.Quote(*m.Text)
	case xdr.MemoTypeID:
		return fmt.Sprintf("id %d", *m.ID)
	case xdr.MemoTypeHash:
		return "hash " + hex.EncodeToString(m.Hash[:])
	case xdr.MemoTypeReturn:
		return "return " + hex.EncodeToString(m.RetHash[:])
	}
	return "none"
}
