package sep45

import (
	"errors"

	"github.com/anyswap/Stellar-SDK/auth"
)

// validation codes
const (
	CodeNoEntries                  auth.ErrorCode = "SEP45_NO_ENTRIES"
	CodeInvalidCredentials         auth.ErrorCode = "SEP45_INVALID_CREDENTIALS"
	CodeInvalidContractAddress     auth.ErrorCode = "SEP45_INVALID_CONTRACT_ADDRESS"
	CodeSubInvocations             auth.ErrorCode = "SEP45_SUB_INVOCATIONS"
	CodeInvalidFunctionName        auth.ErrorCode = "SEP45_INVALID_FUNCTION_NAME"
	CodeInvalidArgs                auth.ErrorCode = "SEP45_INVALID_ARGS"
	CodeInvalidAccount             auth.ErrorCode = "SEP45_INVALID_ACCOUNT"
	CodeInvalidHomeDomain          auth.ErrorCode = "SEP45_INVALID_HOME_DOMAIN"
	CodeInvalidWebAuthDomain       auth.ErrorCode = "SEP45_INVALID_WEB_AUTH_DOMAIN"
	CodeInvalidWebAuthAccount      auth.ErrorCode = "SEP45_INVALID_WEB_AUTH_DOMAIN_ACCOUNT"
	CodeInvalidClientDomain        auth.ErrorCode = "SEP45_INVALID_CLIENT_DOMAIN"
	CodeInvalidClientDomainAccount auth.ErrorCode = "SEP45_INVALID_CLIENT_DOMAIN_ACCOUNT"
	CodeInvalidNonce               auth.ErrorCode = "SEP45_INVALID_NONCE"
	CodeMissingServerEntry         auth.ErrorCode = "SEP45_MISSING_SERVER_ENTRY"
	CodeInvalidServerSignature     auth.ErrorCode = "SEP45_INVALID_SERVER_SIGNATURE"
	CodeMissingClientEntry         auth.ErrorCode = "SEP45_MISSING_CLIENT_ENTRY"
	CodeMissingClientDomainEntry   auth.ErrorCode = "SEP45_MISSING_CLIENT_DOMAIN_ENTRY"
	CodeUnexpectedEntry            auth.ErrorCode = "SEP45_UNEXPECTED_ENTRY"
	CodeInvalidNetwork             auth.ErrorCode = "SEP45_INVALID_NETWORK_PASSPHRASE"
	CodeInvalidEncoding            auth.ErrorCode = "SEP45_INVALID_ENCODING"
)

// sentinels for errors.Is
var (
	ErrNoEntries                  = auth.NewCode(CodeNoEntries)
	ErrInvalidCredentials         = auth.NewCode(CodeInvalidCredentials)
	ErrInvalidContractAddress     = auth.NewCode(CodeInvalidContractAddress)
	ErrSubInvocations             = auth.NewCode(CodeSubInvocations)
	ErrInvalidFunctionName        = auth.NewCode(CodeInvalidFunctionName)
	ErrInvalidArgs                = auth.NewCode(CodeInvalidArgs)
	ErrInvalidAccount             = auth.NewCode(CodeInvalidAccount)
	ErrInvalidHomeDomain          = auth.NewCode(CodeInvalidHomeDomain)
	ErrInvalidWebAuthDomain       = auth.NewCode(CodeInvalidWebAuthDomain)
	ErrInvalidWebAuthAccount      = auth.NewCode(CodeInvalidWebAuthAccount)
	ErrInvalidClientDomain        = auth.NewCode(CodeInvalidClientDomain)
	ErrInvalidClientDomainAccount = auth.NewCode(CodeInvalidClientDomainAccount)
	ErrInvalidNonce               = auth.NewCode(CodeInvalidNonce)
	ErrMissingServerEntry         = auth.NewCode(CodeMissingServerEntry)
	ErrInvalidServerSignature     = auth.NewCode(CodeInvalidServerSignature)
	ErrMissingClientEntry         = auth.NewCode(CodeMissingClientEntry)
	ErrMissingClientDomainEntry   = auth.NewCode(CodeMissingClientDomainEntry)
	ErrUnexpectedEntry            = auth.NewCode(CodeUnexpectedEntry)
	ErrInvalidNetwork             = auth.NewCode(CodeInvalidNetwork)
	ErrInvalidEncoding            = auth.NewCode(CodeInvalidEncoding)
)

// errors outside validation
var (
	ErrNoLedgerSource        = errors.New("sep45: no ledger source to compute signature expiration")
	ErrInvalidCallbackResult = errors.New("client domain callback must only add a signature")
)
