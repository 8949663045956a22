package sep10

import (
	"errors"

	"github.com/anyswap/Stellar-SDK/auth"
)

// validation codes
const (
	CodeInvalidEnvelope        auth.ErrorCode = "SEP10_INVALID_ENVELOPE"
	CodeNotV1Transaction       auth.ErrorCode = "SEP10_NOT_V1_TRANSACTION"
	CodeInvalidSeqNumber       auth.ErrorCode = "SEP10_INVALID_SEQ_NUMBER"
	CodeInvalidMemoType        auth.ErrorCode = "SEP10_INVALID_MEMO_TYPE"
	CodeMemoMismatch           auth.ErrorCode = "SEP10_MEMO_MISMATCH"
	CodeMemoAndMuxedAccount    auth.ErrorCode = "SEP10_MEMO_AND_MUXED_ACCOUNT"
	CodeNoOperations           auth.ErrorCode = "SEP10_NO_OPERATIONS"
	CodeInvalidOperationType   auth.ErrorCode = "SEP10_INVALID_OPERATION_TYPE"
	CodeMissingSourceAccount   auth.ErrorCode = "SEP10_MISSING_SOURCE_ACCOUNT"
	CodeInvalidSourceAccount   auth.ErrorCode = "SEP10_INVALID_SOURCE_ACCOUNT"
	CodeInvalidHomeDomain      auth.ErrorCode = "SEP10_INVALID_HOME_DOMAIN"
	CodeInvalidNonce           auth.ErrorCode = "SEP10_INVALID_NONCE"
	CodeInvalidWebAuthDomain   auth.ErrorCode = "SEP10_INVALID_WEB_AUTH_DOMAIN"
	CodeInvalidClientDomain    auth.ErrorCode = "SEP10_INVALID_CLIENT_DOMAIN_SOURCE"
	CodeMissingClientDomain    auth.ErrorCode = "SEP10_MISSING_CLIENT_DOMAIN"
	CodeInvalidTimeBounds      auth.ErrorCode = "SEP10_INVALID_TIME_BOUNDS"
	CodeInvalidNetwork         auth.ErrorCode = "SEP10_INVALID_NETWORK_PASSPHRASE"
	CodeMissingSignature       auth.ErrorCode = "SEP10_MISSING_SIGNATURE"
	CodeInvalidSignatureHint   auth.ErrorCode = "SEP10_INVALID_SIGNATURE_HINT"
	CodeInvalidSignature       auth.ErrorCode = "SEP10_INVALID_SIGNATURE"
)

// sentinels for errors.Is
var (
	ErrInvalidEnvelope      = auth.NewCode(CodeInvalidEnvelope)
	ErrNotV1Transaction     = auth.NewCode(CodeNotV1Transaction)
	ErrInvalidSeqNumber     = auth.NewCode(CodeInvalidSeqNumber)
	ErrInvalidMemoType      = auth.NewCode(CodeInvalidMemoType)
	ErrMemoMismatch         = auth.NewCode(CodeMemoMismatch)
	ErrMemoAndMuxedAccount  = auth.NewCode(CodeMemoAndMuxedAccount)
	ErrNoOperations         = auth.NewCode(CodeNoOperations)
	ErrInvalidOperationType = auth.NewCode(CodeInvalidOperationType)
	ErrMissingSourceAccount = auth.NewCode(CodeMissingSourceAccount)
	ErrInvalidSourceAccount = auth.NewCode(CodeInvalidSourceAccount)
	ErrInvalidHomeDomain    = auth.NewCode(CodeInvalidHomeDomain)
	ErrInvalidNonce         = auth.NewCode(CodeInvalidNonce)
	ErrInvalidWebAuthDomain = auth.NewCode(CodeInvalidWebAuthDomain)
	ErrInvalidClientDomain  = auth.NewCode(CodeInvalidClientDomain)
	ErrMissingClientDomain  = auth.NewCode(CodeMissingClientDomain)
	ErrInvalidTimeBounds    = auth.NewCode(CodeInvalidTimeBounds)
	ErrInvalidNetwork       = auth.NewCode(CodeInvalidNetwork)
	ErrMissingSignature     = auth.NewCode(CodeMissingSignature)
	ErrInvalidSignatureHint = auth.NewCode(CodeInvalidSignatureHint)
	ErrInvalidSignature     = auth.NewCode(CodeInvalidSignature)
)

// ErrInvalidCallbackResult is returned when a client domain signing
// callback changed anything besides appending one signature
var ErrInvalidCallbackResult = errors.New("client domain callback must append exactly one signature")
