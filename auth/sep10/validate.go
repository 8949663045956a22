package sep10

import (
	"encoding/base64"
	"time"

	"github.com/anyswap/Stellar-SDK/auth"
	"github.com/anyswap/Stellar-SDK/txnbuild"
	"github.com/anyswap/Stellar-SDK/xdr"
)

// data entry keys
const (
	webAuthDomainKey = "web_auth_domain"
	clientDomainKey  = "client_domain"

	nonceLength        = 48
	encodedNonceLength = 64
)

func parseChallenge(challenge string) (*txnbuild.Transaction, error) {
	parsed, err := txnbuild.TransactionFromXDR(challenge)
	if err != nil {
		return nil, auth.Errorf(CodeInvalidEnvelope, "%v", err)
	}
	tx, ok := parsed.Transaction()
	if !ok || tx.IsV0() {
		return nil, auth.Errorf(CodeNotV1Transaction, "challenge must be a v1 transaction")
	}
	return tx, nil
}

// ValidateChallenge checks a challenge before anything is signed. The
// first failed check is returned as *auth.ChallengeValidationError.
func (w *WebAuth) ValidateChallenge(challenge string, req *Request) error {
	if err := req.check(); err != nil {
		return err
	}
	tx, err := parseChallenge(challenge)
	if err != nil {
		return err
	}
	if seq := tx.SequenceNumber(); seq != 0 {
		return auth.Errorf(CodeInvalidSeqNumber, "sequence number is %d", seq)
	}
	if err = checkMemo(tx.Memo(), req); err != nil {
		return err
	}
	if err = w.checkTimeBounds(tx.TimeBounds()); err != nil {
		return err
	}
	if err = w.checkOperations(tx.Operations(), req); err != nil {
		return err
	}
	return w.checkServerSignature(tx)
}

func checkMemo(memo xdr.Memo, req *Request) error {
	switch memo.Type {
	case xdr.MemoTypeNone:
		if req.Memo != nil {
			return auth.Errorf(CodeMemoMismatch, "challenge has no memo, want %d", *req.Memo)
		}
	case xdr.MemoTypeID:
		if req.AccountID[0] == 'M' {
			return auth.Errorf(CodeMemoAndMuxedAccount, "memo in challenge for muxed account")
		}
		if req.Memo == nil || *req.Memo != *memo.ID {
			return auth.Errorf(CodeMemoMismatch, "challenge memo %d", *memo.ID)
		}
	default:
		return auth.Errorf(CodeInvalidMemoType, "memo type %d", memo.Type)
	}
	return nil
}

func (w *WebAuth) checkTimeBounds(tb *xdr.TimeBounds) error {
	if tb == nil {
		return auth.Errorf(CodeInvalidTimeBounds, "time bounds missing")
	}
	if tb.MaxTime == 0 {
		return auth.Errorf(CodeInvalidTimeBounds, "time bounds unbounded")
	}
	if tb.MinTime > tb.MaxTime {
		return auth.Errorf(CodeInvalidTimeBounds, "min time %d after max time %d", tb.MinTime, tb.MaxTime)
	}
	now := w.now()
	grace := w.cfg.GracePeriod
	minTime := time.Unix(int64(tb.MinTime), 0)
	maxTime := time.Unix(int64(tb.MaxTime), 0)
	if now.Add(grace).Before(minTime) || now.Add(-grace).After(maxTime) {
		return auth.Errorf(CodeInvalidTimeBounds, "now %d outside [%d, %d]", now.Unix(), tb.MinTime, tb.MaxTime)
	}
	return nil
}

func dataValue(op *xdr.ManageDataOp) string {
	if op.DataValue == nil {
		return ""
	}
	return string(*op.DataValue)
}

func (w *WebAuth) checkOperations(ops []xdr.Operation, req *Request) error {
	if len(ops) == 0 {
		return auth.Errorf(CodeNoOperations, "challenge has no operations")
	}
	serverAddress := w.serverKey.Address()
	seenClientDomain := false
	for i, op := range ops {
		if op.Body.Type != xdr.OperationTypeManageData {
			return auth.Errorf(CodeInvalidOperationType, "operation %d is %v", i, op.Body.Type)
		}
		if op.SourceAccount == nil {
			return auth.Errorf(CodeMissingSourceAccount, "operation %d", i)
		}
		source := op.SourceAccount.Address()
		data := op.Body.ManageDataOp

		if i == 0 {
			if source != req.AccountID {
				return auth.Errorf(CodeInvalidSourceAccount, "first operation source %v, want %v", source, req.AccountID)
			}
			if want := req.homeDomain(&w.cfg) + " auth"; data.DataName != want {
				return auth.Errorf(CodeInvalidHomeDomain, "key %q, want %q", data.DataName, want)
			}
			if err := checkNonce(data); err != nil {
				return err
			}
			continue
		}

		switch data.DataName {
		case clientDomainKey:
			seenClientDomain = true
			if source != req.ClientDomainAccount {
				return auth.Errorf(CodeInvalidClientDomain, "client domain source %v, want %v", source, req.ClientDomainAccount)
			}
			continue
		case webAuthDomainKey:
			if v := dataValue(data); v != w.endpointHost {
				return auth.Errorf(CodeInvalidWebAuthDomain, "web auth domain %q, want %q", v, w.endpointHost)
			}
		}
		if source != serverAddress {
			return auth.Errorf(CodeInvalidSourceAccount, "operation %d source %v is not the server", i, source)
		}
	}
	if req.ClientDomain != "" && !seenClientDomain {
		return auth.Errorf(CodeMissingClientDomain, "no %s operation for %v", clientDomainKey, req.ClientDomain)
	}
	return nil
}

func checkNonce(data *xdr.ManageDataOp) error {
	if data.DataValue == nil {
		return auth.Errorf(CodeInvalidNonce, "nonce missing")
	}
	encoded := string(*data.DataValue)
	if len(encoded) != encodedNonceLength {
		return auth.Errorf(CodeInvalidNonce, "nonce is %d bytes, want %d", len(encoded), encodedNonceLength)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) != nonceLength {
		return auth.Errorf(CodeInvalidNonce, "nonce is not base64 of %d bytes", nonceLength)
	}
	return nil
}

func (w *WebAuth) checkServerSignature(tx *txnbuild.Transaction) error {
	sigs := tx.Signatures()
	if len(sigs) == 0 {
		return auth.Errorf(CodeMissingSignature, "challenge is not signed")
	}
	last := sigs[len(sigs)-1]
	if last.Hint != w.serverKey.Hint() {
		return auth.Errorf(CodeInvalidSignatureHint, "signature hint %x does not match server key", last.Hint[:])
	}
	hash, err := tx.Hash(w.cfg.NetworkPassphrase)
	if err != nil {
		return err
	}
	if !w.serverKey.Verify(hash[:], last.Signature) {
		return auth.Errorf(CodeInvalidSignature, "server signature does not verify")
	}
	return nil
}
