package main

import (
	"errors"

	"github.com/anyswap/Stellar-SDK/auth/sep10"
	"github.com/anyswap/Stellar-SDK/auth/sep45"
	"github.com/anyswap/Stellar-SDK/cmd/utils"
	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/log"
	"github.com/anyswap/Stellar-SDK/params"
	"github.com/anyswap/Stellar-SDK/sorobanrpc"
	"github.com/urfave/cli/v2"
)

var (
	signerFlag = &cli.StringSliceFlag{
		Name:  "signer",
		Usage: "seed of a signer, may be repeated",
	}
	accountFlag = &cli.StringFlag{
		Name:  "account",
		Usage: "account to authenticate, defaults to the first signer",
	}
	memoFlag = &cli.Uint64Flag{
		Name:  "memo",
		Usage: "memo id of a shared account",
	}
	contractFlag = &cli.BoolFlag{
		Name:  "contract",
		Usage: "authenticate a contract account using [ContractAuth]",
	}
	expirationFlag = &cli.Uint64Flag{
		Name:  "expiration",
		Usage: "signature expiration ledger of contract auth (default latest+10 from RPCURL)",
	}
	clientDomainSignerFlag = &cli.StringFlag{
		Name:  "client-domain-signer",
		Usage: "seed signing for the configured client domain",
	}

	authCommand = &cli.Command{
		Action: runAuth,
		Name:   "auth",
		Usage:  "get a token from the web auth server of the config file",
		Flags: []cli.Flag{
			utils.ConfigFileFlag,
			signerFlag,
			accountFlag,
			memoFlag,
			contractFlag,
			expirationFlag,
			clientDomainSignerFlag,
		},
	}
)

func loadSigners(seeds []string) ([]*keypair.KP, error) {
	signers := make([]*keypair.KP, 0, len(seeds))
	for _, seed := range seeds {
		kp, err := keypair.FromSeed(seed)
		if err != nil {
			return nil, err
		}
		signers = append(signers, kp)
	}
	return signers, nil
}

func clientDomainSigner(ctx *cli.Context) (*keypair.KP, error) {
	seed := ctx.String(clientDomainSignerFlag.Name)
	if seed == "" {
		return nil, nil
	}
	return keypair.FromSeed(seed)
}

func runAuth(ctx *cli.Context) error {
	if ctx.NArg() != 0 {
		return invalidArgs(ctx)
	}
	config, err := params.LoadConfig(utils.GetConfigFilePath(ctx))
	if err != nil {
		return err
	}
	signers, err := loadSigners(ctx.StringSlice(signerFlag.Name))
	if err != nil {
		return err
	}
	var token string
	if ctx.Bool(contractFlag.Name) {
		token, err = contractAuth(ctx, config, signers)
	} else {
		token, err = accountAuth(ctx, config, signers)
	}
	w := ctx.App.Writer
	if err != nil {
		printVerdict(w, false, "authentication failed")
		return err
	}
	printVerdict(w, true, "authenticated")
	printField(w, "token", token)
	return nil
}

func accountAuth(ctx *cli.Context, config *params.LedgerConfig, signers []*keypair.KP) (string, error) {
	c := config.WebAuth
	if c == nil {
		return "", errors.New("config has no [WebAuth] section")
	}
	webAuth, err := sep10.New(sep10.Config{
		AuthEndpoint:      c.AuthEndpoint,
		NetworkPassphrase: config.NetworkPassphrase,
		ServerSigningKey:  c.ServerSigningKey,
		HomeDomain:        c.HomeDomain,
		WebAuthDomain:     c.WebAuthDomain,
		GracePeriod:       c.GetGracePeriod(),
		Timeout:           config.GetRequestTimeout(),
	})
	if err != nil {
		return "", err
	}
	req := &sep10.Request{
		AccountID: ctx.String(accountFlag.Name),
		Signers:   signers,
	}
	if req.AccountID == "" && len(signers) > 0 {
		req.AccountID = signers[0].Address()
	}
	if ctx.IsSet(memoFlag.Name) {
		memo := ctx.Uint64(memoFlag.Name)
		req.Memo = &memo
	}
	if c.ClientDomain != "" {
		req.ClientDomain = c.ClientDomain
		req.ClientDomainAccount = c.ClientDomainAccount
		if req.ClientDomainSigner, err = clientDomainSigner(ctx); err != nil {
			return "", err
		}
	}
	log.Info("account auth", "endpoint", c.AuthEndpoint, "account", req.AccountID, "signers", len(signers))
	return webAuth.JWTToken(ctx.Context, req)
}

func contractAuth(ctx *cli.Context, config *params.LedgerConfig, signers []*keypair.KP) (string, error) {
	c := config.ContractAuth
	if c == nil {
		return "", errors.New("config has no [ContractAuth] section")
	}
	var ledgers sep45.LedgerSource
	if config.RPCURL != "" {
		ledgers = sorobanrpc.NewClient(config.RPCURL, config.GetRequestTimeout())
	}
	webAuth, err := sep45.New(sep45.Config{
		AuthEndpoint:      c.AuthEndpoint,
		NetworkPassphrase: config.NetworkPassphrase,
		ServerSigningKey:  c.ServerSigningKey,
		WebAuthContractID: c.WebAuthContractID,
		HomeDomain:        c.HomeDomain,
		WebAuthDomain:     c.WebAuthDomain,
		Timeout:           config.GetRequestTimeout(),
	}, ledgers)
	if err != nil {
		return "", err
	}
	req := &sep45.Request{
		AccountID: ctx.String(accountFlag.Name),
		Signers:   signers,
	}
	if ctx.IsSet(expirationFlag.Name) {
		expiration := uint32(ctx.Uint64(expirationFlag.Name))
		req.SignatureExpirationLedger = &expiration
	}
	if c.ClientDomain != "" {
		req.ClientDomain = c.ClientDomain
		req.ClientDomainAccount = c.ClientDomainAccount
		if req.ClientDomainSigner, err = clientDomainSigner(ctx); err != nil {
			return "", err
		}
	}
	log.Info("contract auth", "endpoint", c.AuthEndpoint, "account", req.AccountID, "signers", len(signers))
	return webAuth.JWTToken(ctx.Context, req)
}
