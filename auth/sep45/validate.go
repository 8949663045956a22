package sep45

import (
	"bytes"

	"github.com/anyswap/Stellar-SDK/auth"
	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/network"
	"github.com/anyswap/Stellar-SDK/xdr"
)

// argument keys of web_auth_verify
const (
	argAccount              = "account"
	argHomeDomain           = "home_domain"
	argWebAuthDomain        = "web_auth_domain"
	argWebAuthDomainAccount = "web_auth_domain_account"
	argClientDomain         = "client_domain"
	argClientDomainAccount  = "client_domain_account"
	argNonce                = "nonce"
)

// signature map keys
const (
	signatureKeyPublicKey = "public_key"
	signatureKeySignature = "signature"
)

type argCheck struct {
	key  string
	want string
	code auth.ErrorCode
}

// argsMap requires the arguments to be a single map of symbol (or string)
// keys to string values
func argsMap(args []xdr.SCVal) (map[string]string, bool) {
	if len(args) != 1 {
		return nil, false
	}
	m, ok := args[0].GetMap()
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for _, entry := range m {
		var key string
		switch entry.Key.Type {
		case xdr.SCValTypeSymbol:
			key = entry.Key.Sym
		case xdr.SCValTypeString:
			key = entry.Key.Str
		default:
			return nil, false
		}
		if entry.Val.Type != xdr.SCValTypeString {
			return nil, false
		}
		out[key] = entry.Val.Str
	}
	return out, true
}

// ValidateChallenge checks the entries before anything is signed. The
// first failed check is returned as *auth.ChallengeValidationError.
func (w *WebAuth) ValidateChallenge(entries xdr.SorobanAuthorizationEntries, req *Request) error {
	if err := req.check(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return auth.Errorf(CodeNoEntries, "no authorization entries")
	}
	clientAddr, err := xdr.ParseSCAddress(req.AccountID)
	if err != nil {
		return err
	}
	serverAddr := xdr.SCAddress{Type: xdr.SCAddressTypeAccount, AccountID: w.serverKey.AccountID()}
	var domainAddr xdr.SCAddress
	if req.ClientDomain != "" {
		if domainAddr, err = xdr.ParseSCAddress(req.ClientDomainAccount); err != nil {
			return err
		}
	}

	var serverEntry, clientEntry, domainEntry *xdr.SorobanAuthorizationEntry
	var nonce string
	for i := range entries {
		entry := &entries[i]
		if err := w.checkEntry(i, entry, req); err != nil {
			return err
		}
		args, _ := argsMap(entry.RootInvocation.Function.ContractFn.Args)
		if i == 0 {
			nonce = args[argNonce]
		} else if args[argNonce] != nonce {
			return auth.Errorf(CodeInvalidNonce, "entry %d nonce %q differs from %q", i, args[argNonce], nonce)
		}

		switch addr := entry.Credentials.Address.Address; {
		case addr == serverAddr:
			serverEntry = entry
		case addr == clientAddr:
			clientEntry = entry
		case req.ClientDomain != "" && addr == domainAddr:
			domainEntry = entry
		default:
			return auth.Errorf(CodeUnexpectedEntry, "entry %d is for %v", i, addr)
		}
	}

	if serverEntry == nil {
		return auth.Errorf(CodeMissingServerEntry, "no entry for server %v", w.serverKey.Address())
	}
	if !verifyEntry(serverEntry, w.serverKey, w.cfg.NetworkPassphrase) {
		return auth.Errorf(CodeInvalidServerSignature, "server entry is not signed by %v", w.serverKey.Address())
	}
	if clientEntry == nil {
		return auth.Errorf(CodeMissingClientEntry, "no entry for %v", req.AccountID)
	}
	if req.ClientDomain != "" && domainEntry == nil {
		return auth.Errorf(CodeMissingClientDomainEntry, "no entry for %v", req.ClientDomainAccount)
	}
	return nil
}

func (w *WebAuth) checkEntry(i int, entry *xdr.SorobanAuthorizationEntry, req *Request) error {
	if entry.Credentials.Type != xdr.SorobanCredentialsTypeAddress || entry.Credentials.Address == nil {
		return auth.Errorf(CodeInvalidCredentials, "entry %d does not use address credentials", i)
	}
	fn := entry.RootInvocation.Function.ContractFn
	if fn == nil || fn.ContractAddress != w.contract {
		return auth.Errorf(CodeInvalidContractAddress, "entry %d does not call %v", i, w.cfg.WebAuthContractID)
	}
	if n := len(entry.RootInvocation.SubInvocations); n > 0 {
		return auth.Errorf(CodeSubInvocations, "entry %d has %d sub-invocations", i, n)
	}
	if fn.FunctionName != WebAuthVerifyFunction {
		return auth.Errorf(CodeInvalidFunctionName, "entry %d calls %q", i, fn.FunctionName)
	}
	args, ok := argsMap(fn.Args)
	if !ok {
		return auth.Errorf(CodeInvalidArgs, "entry %d arguments are not a map of strings", i)
	}

	checks := []argCheck{
		{argAccount, req.AccountID, CodeInvalidAccount},
		{argHomeDomain, req.homeDomain(&w.cfg), CodeInvalidHomeDomain},
		{argWebAuthDomain, w.endpointHost, CodeInvalidWebAuthDomain},
		{argWebAuthDomainAccount, w.serverKey.Address(), CodeInvalidWebAuthAccount},
	}
	if req.ClientDomain != "" {
		checks = append(checks,
			argCheck{argClientDomain, req.ClientDomain, CodeInvalidClientDomain},
			argCheck{argClientDomainAccount, req.ClientDomainAccount, CodeInvalidClientDomainAccount},
		)
	}
	for _, c := range checks {
		if got := args[c.key]; got != c.want {
			return auth.Errorf(c.code, "entry %d %s is %q, want %q", i, c.key, got, c.want)
		}
	}
	if args[argNonce] == "" {
		return auth.Errorf(CodeInvalidNonce, "entry %d has no nonce", i)
	}
	return nil
}

// signatureParts returns the public key and signature of one signature map
func signatureParts(v xdr.SCVal) (pub, sig []byte, ok bool) {
	m, ok := v.GetMap()
	if !ok {
		return nil, nil, false
	}
	for _, entry := range m {
		if entry.Key.Type != xdr.SCValTypeSymbol || entry.Val.Type != xdr.SCValTypeBytes {
			continue
		}
		switch entry.Key.Sym {
		case signatureKeyPublicKey:
			pub = entry.Val.Bytes
		case signatureKeySignature:
			sig = entry.Val.Bytes
		}
	}
	return pub, sig, pub != nil && sig != nil
}

// verifyEntry reports whether the entry carries a valid signature by kp
func verifyEntry(entry *xdr.SorobanAuthorizationEntry, kp *keypair.KP, passphrase string) bool {
	creds := entry.Credentials.Address
	if creds == nil {
		return false
	}
	sigs, ok := creds.Signature.GetVec()
	if !ok {
		return false
	}
	hash, err := network.HashSorobanAuthorization(passphrase, creds.Nonce, creds.SignatureExpirationLedger, entry.RootInvocation)
	if err != nil {
		return false
	}
	want := kp.RawPublicKey()
	for _, s := range sigs {
		pub, sig, ok := signatureParts(s)
		if ok && bytes.Equal(pub, want[:]) && kp.Verify(hash[:], sig) {
			return true
		}
	}
	return false
}
