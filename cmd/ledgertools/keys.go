package main

import (
	"encoding/hex"

	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/strkey"
	"github.com/urfave/cli/v2"
)

var (
	keypairCommand = &cli.Command{
		Action:    showKeypair,
		Name:      "keypair",
		Usage:     "generate a random keypair, or show the address of a seed",
		ArgsUsage: "[seed]",
	}

	muxedIDFlag = &cli.Uint64Flag{
		Name:  "muxed",
		Usage: "also print the M... address of a G... account with this id",
	}

	addressCommand = &cli.Command{
		Action:    showAddress,
		Name:      "address",
		Usage:     "decode and check a strkey address",
		ArgsUsage: "<address>",
		Flags: []cli.Flag{
			muxedIDFlag,
		},
	}
)

func showKeypair(ctx *cli.Context) (err error) {
	var kp *keypair.KP
	switch ctx.NArg() {
	case 0:
		kp, err = keypair.Random()
	case 1:
		kp, err = keypair.FromSeed(ctx.Args().First())
	default:
		return invalidArgs(ctx)
	}
	if err != nil {
		return err
	}
	seed, err := kp.Seed()
	if err != nil {
		return err
	}
	w := ctx.App.Writer
	printField(w, "address", kp.Address())
	printField(w, "seed", seed)
	return nil
}

func showAddress(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return invalidArgs(ctx)
	}
	w := ctx.App.Writer
	address := ctx.Args().First()
	version, payload, err := strkey.DecodeAny(address)
	if err != nil {
		printVerdict(w, false, address)
		return err
	}
	printField(w, "version", version)
	printField(w, "payload", hex.EncodeToString(payload))

	switch version {
	case strkey.VersionByteMuxedAccount:
		key, id, err := strkey.DecodeMuxed(address)
		if err != nil {
			return err
		}
		printField(w, "account", strkey.MustEncode(strkey.VersionByteAccountID, key[:]))
		printField(w, "muxed id", id)
	case strkey.VersionByteSignedPayload:
		sp, err := strkey.DecodeSignedPayload(address)
		if err != nil {
			return err
		}
		printField(w, "signer", strkey.MustEncode(strkey.VersionByteAccountID, sp.Signer[:]))
		printField(w, "signed data", hex.EncodeToString(sp.Payload))
	case strkey.VersionByteAccountID:
		if ctx.IsSet(muxedIDFlag.Name) {
			var key [32]byte
			copy(key[:], payload)
			printField(w, "muxed", strkey.EncodeMuxed(key, ctx.Uint64(muxedIDFlag.Name)))
		}
	}
	printVerdict(w, true, address)
	return nil
}
