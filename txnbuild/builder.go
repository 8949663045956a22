package txnbuild

import (
	"fmt"
	"math"
	"time"

	"github.com/anyswap/Stellar-SDK/xdr"
)

// network limits
const (
	MinBaseFee    = 100
	MaxOperations = xdr.MaxOperationCount
)

// TimeoutInfinite leaves the upper time bound open
const TimeoutInfinite time.Duration = 0

// TransactionBuilder accumulates the parts of a transaction. Setter errors
// are kept and reported by Build. The account snapshot is only read.
type TransactionBuilder struct {
	account  Account
	baseFee  int64
	totalFee int64

	ops             []xdr.Operation
	memo            xdr.Memo
	timeBounds      *xdr.TimeBounds
	ledgerBounds    *xdr.LedgerBounds
	minSeqNum       *int64
	minSeqAge       uint64
	minSeqLedgerGap uint32
	extraSigners    []xdr.SignerKey

	err error
}

// NewTransactionBuilder starts a transaction from account paying baseFee
// stroops per operation
func NewTransactionBuilder(account Account, baseFee int64) *TransactionBuilder {
	return &TransactionBuilder{account: account, baseFee: baseFee}
}

func (b *TransactionBuilder) fail(err error) *TransactionBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddOperations appends operations; order is kept
func (b *TransactionBuilder) AddOperations(ops ...xdr.Operation) *TransactionBuilder {
	b.ops = append(b.ops, ops...)
	return b
}

// SetMemo replaces the memo
func (b *TransactionBuilder) SetMemo(memo xdr.Memo) *TransactionBuilder {
	b.memo = memo
	return b
}

// SetTimeBounds sets unix-second close time bounds; maxTime 0 is unbounded
func (b *TransactionBuilder) SetTimeBounds(minTime, maxTime int64) *TransactionBuilder {
	if minTime < 0 || maxTime < 0 || (maxTime != 0 && maxTime < minTime) {
		return b.fail(fmt.Errorf("%w: [%d, %d]", ErrInvalidTimeBounds, minTime, maxTime))
	}
	b.timeBounds = &xdr.TimeBounds{MinTime: uint64(minTime), MaxTime: uint64(maxTime)}
	return b
}

// SetTimeout bounds the close time to now+timeout; TimeoutInfinite leaves
// it open
func (b *TransactionBuilder) SetTimeout(timeout time.Duration) *TransactionBuilder {
	if timeout < 0 {
		return b.fail(fmt.Errorf("%w: negative timeout", ErrInvalidTimeBounds))
	}
	if timeout == TimeoutInfinite {
		return b.SetTimeBounds(0, 0)
	}
	return b.SetTimeBounds(0, time.Now().Add(timeout).Unix())
}

// SetLedgerBounds limits the ledgers the transaction may close in; max 0
// is unbounded
func (b *TransactionBuilder) SetLedgerBounds(minLedger, maxLedger uint32) *TransactionBuilder {
	if maxLedger != 0 && maxLedger < minLedger {
		return b.fail(fmt.Errorf("%w: ledger bounds [%d, %d]", ErrInvalidTimeBounds, minLedger, maxLedger))
	}
	b.ledgerBounds = &xdr.LedgerBounds{MinLedger: minLedger, MaxLedger: maxLedger}
	return b
}

// SetMinSequenceNumber allows the transaction when the source sequence is
// in [seq, txSeq)
func (b *TransactionBuilder) SetMinSequenceNumber(seq int64) *TransactionBuilder {
	b.minSeqNum = &seq
	return b
}

// SetMinSequenceAge requires the source sequence to be at least age old
func (b *TransactionBuilder) SetMinSequenceAge(age time.Duration) *TransactionBuilder {
	b.minSeqAge = uint64(age / time.Second)
	return b
}

// SetMinSequenceLedgerGap requires gap ledgers since the source sequence changed
func (b *TransactionBuilder) SetMinSequenceLedgerGap(gap uint32) *TransactionBuilder {
	b.minSeqLedgerGap = gap
	return b
}

// AddExtraSigner requires an additional signature by a G..., T..., X... or
// P... signer
func (b *TransactionBuilder) AddExtraSigner(address string) *TransactionBuilder {
	key, err := xdr.AddressToSignerKey(address)
	if err != nil {
		return b.fail(fmt.Errorf("extra signer: %w", err))
	}
	b.extraSigners = append(b.extraSigners, key)
	return b
}

// SetTotalFee sets the fee for the whole transaction, replacing base fee
// times operation count
func (b *TransactionBuilder) SetTotalFee(fee int64) *TransactionBuilder {
	b.totalFee = fee
	return b
}

func (b *TransactionBuilder) preconditions() xdr.Preconditions {
	v2 := b.ledgerBounds != nil || b.minSeqNum != nil || b.minSeqAge != 0 ||
		b.minSeqLedgerGap != 0 || len(b.extraSigners) > 0
	switch {
	case v2:
		return xdr.Preconditions{Type: xdr.PreconditionTypeV2, V2: &xdr.PreconditionsV2{
			TimeBounds:      b.timeBounds,
			LedgerBounds:    b.ledgerBounds,
			MinSeqNum:       b.minSeqNum,
			MinSeqAge:       b.minSeqAge,
			MinSeqLedgerGap: b.minSeqLedgerGap,
			ExtraSigners:    append([]xdr.SignerKey{}, b.extraSigners...),
		}}
	case b.timeBounds != nil:
		return xdr.Preconditions{Type: xdr.PreconditionTypeTime, TimeBounds: b.timeBounds}
	}
	return xdr.Preconditions{Type: xdr.PreconditionTypeNone}
}

func (b *TransactionBuilder) fee() (uint32, error) {
	n := int64(len(b.ops))
	fee := b.totalFee
	if fee == 0 {
		if b.baseFee < MinBaseFee {
			return 0, fmt.Errorf("%w: %d < %d", ErrBaseFeeTooLow, b.baseFee, MinBaseFee)
		}
		if b.baseFee > math.MaxUint32/n {
			return 0, fmt.Errorf("%w: %d x %d operations", ErrFeeOverflow, b.baseFee, n)
		}
		fee = b.baseFee * n
	}
	if fee < MinBaseFee*n {
		return 0, fmt.Errorf("%w: total %d for %d operations", ErrBaseFeeTooLow, fee, n)
	}
	if fee > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d", ErrFeeOverflow, fee)
	}
	return uint32(fee), nil
}

// Build returns the unsigned transaction. Its sequence number is the
// snapshot's sequence plus one.
func (b *TransactionBuilder) Build() (*Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.account == nil {
		return nil, ErrNoSourceAccount
	}
	source, err := xdr.AddressToMuxedAccount(b.account.GetAccountID())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSourceAccount, err)
	}
	switch {
	case len(b.ops) == 0:
		return nil, ErrNoOperations
	case len(b.ops) > MaxOperations:
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyOperations, len(b.ops), MaxOperations)
	}
	fee, err := b.fee()
	if err != nil {
		return nil, err
	}
	seq := b.account.GetSequenceNumber()
	if seq == math.MaxInt64 {
		return nil, fmt.Errorf("sequence number %d cannot be incremented", seq)
	}
	if len(b.extraSigners) > xdr.MaxExtraSigners {
		return nil, fmt.Errorf("%d extra signers, limit %d", len(b.extraSigners), xdr.MaxExtraSigners)
	}

	env := xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeTx,
		V1: &xdr.TransactionV1Envelope{
			Tx: xdr.Transaction{
				SourceAccount: source,
				Fee:           fee,
				SeqNum:        seq + 1,
				Cond:          b.preconditions(),
				Memo:          b.memo,
				Operations:    append([]xdr.Operation{}, b.ops...),
			},
			Signatures: []xdr.DecoratedSignature{},
		},
	}
	// rejects ill-typed operations and memos before anything is signed
	if _, err := xdr.Marshal(&env); err != nil {
		return nil, err
	}
	return &Transaction{envelope: env}, nil
}
