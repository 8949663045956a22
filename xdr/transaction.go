package xdr

// MemoType discriminates Memo
type MemoType int32

// memo types
const (
	MemoTypeNone   MemoType = 0
	MemoTypeText   MemoType = 1
	MemoTypeID     MemoType = 2
	MemoTypeHash   MemoType = 3
	MemoTypeReturn MemoType = 4
)

// MaxMemoTextLength bounds a text memo in bytes
const MaxMemoTextLength = 28

// Memo is attached to a transaction; at most one kind at a time
type Memo struct {
	Type    MemoType
	Text    *string
	ID      *uint64
	Hash    *Hash
	RetHash *Hash
}

func (m *Memo) EncodeTo(e *Encoder) error {
	switch m.Type {
	case MemoTypeNone:
		e.WriteInt32(int32(m.Type))
	case MemoTypeText:
		if m.Text == nil {
			return errNilArm("Memo", int32(m.Type))
		}
		if err := checkLen("Memo text", len(*m.Text), MaxMemoTextLength); err != nil {
			return err
		}
		e.WriteInt32(int32(m.Type))
		e.WriteString(*m.Text)
	case MemoTypeID:
		if m.ID == nil {
			return errNilArm("Memo", int32(m.Type))
		}
		e.WriteInt32(int32(m.Type))
		e.WriteUint64(*m.ID)
	case MemoTypeHash, MemoTypeReturn:
		h := m.Hash
		if m.Type == MemoTypeReturn {
			h = m.RetHash
		}
		if h == nil {
			return errNilArm("Memo", int32(m.Type))
		}
		e.WriteInt32(int32(m.Type))
		e.WriteFixedOpaque(h[:])
	default:
		return errUnknownArm("Memo", int32(m.Type))
	}
	return nil
}

func (m *Memo) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*m = Memo{Type: MemoType(disc)}
	switch m.Type {
	case MemoTypeNone:
		return nil
	case MemoTypeText:
		text, err := d.ReadString(MaxMemoTextLength)
		if err != nil {
			return err
		}
		m.Text = &text
	case MemoTypeID:
		id, err := d.ReadUint64()
		if err != nil {
			return err
		}
		m.ID = &id
	case MemoTypeHash:
		m.Hash = new(Hash)
		return m.Hash.DecodeFrom(d)
	case MemoTypeReturn:
		m.RetHash = new(Hash)
		return m.RetHash.DecodeFrom(d)
	default:
		return d.unknownArm("Memo", disc)
	}
	return nil
}

// TimeBounds limits the close time of the ledger including the
// transaction. MaxTime 0 means unbounded.
type TimeBounds struct {
	MinTime uint64
	MaxTime uint64
}

func (t *TimeBounds) EncodeTo(e *Encoder) error {
	e.WriteUint64(t.MinTime)
	e.WriteUint64(t.MaxTime)
	return nil
}

func (t *TimeBounds) DecodeFrom(d *Decoder) (err error) {
	if t.MinTime, err = d.ReadUint64(); err != nil {
		return err
	}
	t.MaxTime, err = d.ReadUint64()
	return err
}

// LedgerBounds limits the ledger sequence. MaxLedger 0 means unbounded.
type LedgerBounds struct {
	MinLedger uint32
	MaxLedger uint32
}

func (l *LedgerBounds) EncodeTo(e *Encoder) error {
	e.WriteUint32(l.MinLedger)
	e.WriteUint32(l.MaxLedger)
	return nil
}

func (l *LedgerBounds) DecodeFrom(d *Decoder) (err error) {
	if l.MinLedger, err = d.ReadUint32(); err != nil {
		return err
	}
	l.MaxLedger, err = d.ReadUint32()
	return err
}

// MaxExtraSigners bounds PreconditionsV2.ExtraSigners
const MaxExtraSigners = 2

// PreconditionsV2 extends time bounds with ledger and sequence constraints
type PreconditionsV2 struct {
	TimeBounds      *TimeBounds
	LedgerBounds    *LedgerBounds
	MinSeqNum       *int64
	MinSeqAge       uint64
	MinSeqLedgerGap uint32
	ExtraSigners    []SignerKey
}

func (p *PreconditionsV2) EncodeTo(e *Encoder) error {
	e.WriteOptional(p.TimeBounds != nil)
	if p.TimeBounds != nil {
		if err := p.TimeBounds.EncodeTo(e); err != nil {
			return err
		}
	}
	e.WriteOptional(p.LedgerBounds != nil)
	if p.LedgerBounds != nil {
		if err := p.LedgerBounds.EncodeTo(e); err != nil {
			return err
		}
	}
	e.WriteOptional(p.MinSeqNum != nil)
	if p.MinSeqNum != nil {
		e.WriteInt64(*p.MinSeqNum)
	}
	e.WriteUint64(p.MinSeqAge)
	e.WriteUint32(p.MinSeqLedgerGap)
	if err := checkLen("ExtraSigners", len(p.ExtraSigners), MaxExtraSigners); err != nil {
		return err
	}
	e.WriteArrayLen(len(p.ExtraSigners))
	for i := range p.ExtraSigners {
		if err := p.ExtraSigners[i].EncodeTo(e); err != nil {
			return err
		}
	}
	return nil
}

func (p *PreconditionsV2) DecodeFrom(d *Decoder) error {
	*p = PreconditionsV2{}
	present, err := d.ReadOptional()
	if err != nil {
		return err
	}
	if present {
		p.TimeBounds = new(TimeBounds)
		if err = p.TimeBounds.DecodeFrom(d); err != nil {
			return err
		}
	}
	if present, err = d.ReadOptional(); err != nil {
		return err
	}
	if present {
		p.LedgerBounds = new(LedgerBounds)
		if err = p.LedgerBounds.DecodeFrom(d); err != nil {
			return err
		}
	}
	if present, err = d.ReadOptional(); err != nil {
		return err
	}
	if present {
		seq, err := d.ReadInt64()
		if err != nil {
			return err
		}
		p.MinSeqNum = &seq
	}
	if p.MinSeqAge, err = d.ReadUint64(); err != nil {
		return err
	}
	if p.MinSeqLedgerGap, err = d.ReadUint32(); err != nil {
		return err
	}
	n, err := d.ReadArrayLen(MaxExtraSigners)
	if err != nil {
		return err
	}
	p.ExtraSigners = make([]SignerKey, n)
	for i := range p.ExtraSigners {
		if err := p.ExtraSigners[i].DecodeFrom(d); err != nil {
			return err
		}
	}
	return nil
}

// PreconditionType discriminates Preconditions
type PreconditionType int32

// precondition types
const (
	PreconditionTypeNone PreconditionType = 0
	PreconditionTypeTime PreconditionType = 1
	PreconditionTypeV2   PreconditionType = 2
)

// Preconditions restricts when a transaction is valid
type Preconditions struct {
	Type       PreconditionType
	TimeBounds *TimeBounds
	V2         *PreconditionsV2
}

// GetTimeBounds returns the time bounds of either arm, or nil
func (p Preconditions) GetTimeBounds() *TimeBounds {
	switch p.Type {
	case PreconditionTypeTime:
		return p.TimeBounds
	case PreconditionTypeV2:
		if p.V2 != nil {
			return p.V2.TimeBounds
		}
	}
	return nil
}

func (p *Preconditions) EncodeTo(e *Encoder) error {
	switch p.Type {
	case PreconditionTypeNone:
		e.WriteInt32(int32(p.Type))
		return nil
	case PreconditionTypeTime:
		if p.TimeBounds == nil {
			return errNilArm("Preconditions", int32(p.Type))
		}
		e.WriteInt32(int32(p.Type))
		return p.TimeBounds.EncodeTo(e)
	case PreconditionTypeV2:
		if p.V2 == nil {
			return errNilArm("Preconditions", int32(p.Type))
		}
		e.WriteInt32(int32(p.Type))
		return p.V2.EncodeTo(e)
	}
	return errUnknownArm("Preconditions", int32(p.Type))
}

func (p *Preconditions) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*p = Preconditions{Type: PreconditionType(disc)}
	switch p.Type {
	case PreconditionTypeNone:
		return nil
	case PreconditionTypeTime:
		p.TimeBounds = new(TimeBounds)
		return p.TimeBounds.DecodeFrom(d)
	case PreconditionTypeV2:
		p.V2 = new(PreconditionsV2)
		return p.V2.DecodeFrom(d)
	}
	return d.unknownArm("Preconditions", disc)
}

// Transaction is the v1 transaction body
type Transaction struct {
	SourceAccount MuxedAccount
	Fee           uint32
	SeqNum        int64
	Cond          Preconditions
	Memo          Memo
	Operations    []Operation
}

func (tx *Transaction) EncodeTo(e *Encoder) error {
	if err := tx.SourceAccount.EncodeTo(e); err != nil {
		return err
	}
	e.WriteUint32(tx.Fee)
	e.WriteInt64(tx.SeqNum)
	if err := tx.Cond.EncodeTo(e); err != nil {
		return err
	}
	if err := tx.Memo.EncodeTo(e); err != nil {
		return err
	}
	if err := encodeOperations(e, tx.Operations); err != nil {
		return err
	}
	encodeVoidExt(e)
	return nil
}

func (tx *Transaction) DecodeFrom(d *Decoder) (err error) {
	if err = tx.SourceAccount.DecodeFrom(d); err != nil {
		return err
	}
	if tx.Fee, err = d.ReadUint32(); err != nil {
		return err
	}
	if tx.SeqNum, err = d.ReadInt64(); err != nil {
		return err
	}
	if err = tx.Cond.DecodeFrom(d); err != nil {
		return err
	}
	if err = tx.Memo.DecodeFrom(d); err != nil {
		return err
	}
	if tx.Operations, err = decodeOperations(d); err != nil {
		return err
	}
	// ext v1 carries contract resource data, which is not supported
	return decodeVoidExt(d, "TransactionExt")
}

// TransactionV0 is the legacy transaction body with a bare ed25519 source
type TransactionV0 struct {
	SourceAccountEd25519 Uint256
	Fee                  uint32
	SeqNum               int64
	TimeBounds           *TimeBounds
	Memo                 Memo
	Operations           []Operation
}

func (tx *TransactionV0) EncodeTo(e *Encoder) error {
	e.WriteFixedOpaque(tx.SourceAccountEd25519[:])
	e.WriteUint32(tx.Fee)
	e.WriteInt64(tx.SeqNum)
	e.WriteOptional(tx.TimeBounds != nil)
	if tx.TimeBounds != nil {
		if err := tx.TimeBounds.EncodeTo(e); err != nil {
			return err
		}
	}
	if err := tx.Memo.EncodeTo(e); err != nil {
		return err
	}
	if err := encodeOperations(e, tx.Operations); err != nil {
		return err
	}
	encodeVoidExt(e)
	return nil
}

func (tx *TransactionV0) DecodeFrom(d *Decoder) (err error) {
	if err = d.ReadFixedOpaque(tx.SourceAccountEd25519[:]); err != nil {
		return err
	}
	if tx.Fee, err = d.ReadUint32(); err != nil {
		return err
	}
	if tx.SeqNum, err = d.ReadInt64(); err != nil {
		return err
	}
	present, err := d.ReadOptional()
	if err != nil {
		return err
	}
	tx.TimeBounds = nil
	if present {
		tx.TimeBounds = new(TimeBounds)
		if err = tx.TimeBounds.DecodeFrom(d); err != nil {
			return err
		}
	}
	if err = tx.Memo.DecodeFrom(d); err != nil {
		return err
	}
	if tx.Operations, err = decodeOperations(d); err != nil {
		return err
	}
	return decodeVoidExt(d, "TransactionV0Ext")
}

// ToV1 converts a legacy body into the equivalent v1 body
func (tx *TransactionV0) ToV1() Transaction {
	v1 := Transaction{
		SourceAccount: MuxedAccount{Type: KeyTypeEd25519, Ed25519: tx.SourceAccountEd25519},
		Fee:           tx.Fee,
		SeqNum:        tx.SeqNum,
		Memo:          tx.Memo,
		Operations:    tx.Operations,
	}
	if tx.TimeBounds != nil {
		tb := *tx.TimeBounds
		v1.Cond = Preconditions{Type: PreconditionTypeTime, TimeBounds: &tb}
	}
	return v1
}

type TransactionV0Envelope struct {
	Tx         TransactionV0
	Signatures []DecoratedSignature
}

func (env *TransactionV0Envelope) EncodeTo(e *Encoder) error {
	if err := env.Tx.EncodeTo(e); err != nil {
		return err
	}
	return encodeSignatures(e, env.Signatures)
}

func (env *TransactionV0Envelope) DecodeFrom(d *Decoder) (err error) {
	if err = env.Tx.DecodeFrom(d); err != nil {
		return err
	}
	env.Signatures, err = decodeSignatures(d)
	return err
}

type TransactionV1Envelope struct {
	Tx         Transaction
	Signatures []DecoratedSignature
}

func (env *TransactionV1Envelope) EncodeTo(e *Encoder) error {
	if err := env.Tx.EncodeTo(e); err != nil {
		return err
	}
	return encodeSignatures(e, env.Signatures)
}

func (env *TransactionV1Envelope) DecodeFrom(d *Decoder) (err error) {
	if err = env.Tx.DecodeFrom(d); err != nil {
		return err
	}
	env.Signatures, err = decodeSignatures(d)
	return err
}

// FeeBumpTransaction pays the fee of an already signed v1 envelope
type FeeBumpTransaction struct {
	FeeSource MuxedAccount
	Fee       int64
	InnerTx   TransactionV1Envelope
}

func (tx *FeeBumpTransaction) EncodeTo(e *Encoder) error {
	if err := tx.FeeSource.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(tx.Fee)
	e.WriteInt32(int32(EnvelopeTypeTx))
	if err := tx.InnerTx.EncodeTo(e); err != nil {
		return err
	}
	encodeVoidExt(e)
	return nil
}

func (tx *FeeBumpTransaction) DecodeFrom(d *Decoder) (err error) {
	if err = tx.FeeSource.DecodeFrom(d); err != nil {
		return err
	}
	if tx.Fee, err = d.ReadInt64(); err != nil {
		return err
	}
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	if EnvelopeType(disc) != EnvelopeTypeTx {
		return d.unknownArm("FeeBumpTransactionInnerTx", disc)
	}
	if err = tx.InnerTx.DecodeFrom(d); err != nil {
		return err
	}
	return decodeVoidExt(d, "FeeBumpTransactionExt")
}

type FeeBumpTransactionEnvelope struct {
	Tx         FeeBumpTransaction
	Signatures []DecoratedSignature
}

func (env *FeeBumpTransactionEnvelope) EncodeTo(e *Encoder) error {
	if err := env.Tx.EncodeTo(e); err != nil {
		return err
	}
	return encodeSignatures(e, env.Signatures)
}

func (env *FeeBumpTransactionEnvelope) DecodeFrom(d *Decoder) (err error) {
	if err = env.Tx.DecodeFrom(d); err != nil {
		return err
	}
	env.Signatures, err = decodeSignatures(d)
	return err
}

// TransactionEnvelope is the signed, submittable form of any transaction
type TransactionEnvelope struct {
	Type    EnvelopeType
	V0      *TransactionV0Envelope
	V1      *TransactionV1Envelope
	FeeBump *FeeBumpTransactionEnvelope
}

// IsFeeBump reports whether the envelope wraps a fee-bump transaction
func (env *TransactionEnvelope) IsFeeBump() bool {
	return env.Type == EnvelopeTypeTxFeeBump
}

// Signatures returns the outer signature list
func (env *TransactionEnvelope) Signatures() []DecoratedSignature {
	switch env.Type {
	case EnvelopeTypeTxV0:
		return env.V0.Signatures
	case EnvelopeTypeTx:
		return env.V1.Signatures
	case EnvelopeTypeTxFeeBump:
		return env.FeeBump.Signatures
	}
	return nil
}

func (env *TransactionEnvelope) EncodeTo(e *Encoder) error {
	var arm Encodable
	switch env.Type {
	case EnvelopeTypeTxV0:
		if env.V0 != nil {
			arm = env.V0
		}
	case EnvelopeTypeTx:
		if env.V1 != nil {
			arm = env.V1
		}
	case EnvelopeTypeTxFeeBump:
		if env.FeeBump != nil {
			arm = env.FeeBump
		}
	default:
		return errUnknownArm("TransactionEnvelope", int32(env.Type))
	}
	if arm == nil {
		return errNilArm("TransactionEnvelope", int32(env.Type))
	}
	e.WriteInt32(int32(env.Type))
	return arm.EncodeTo(e)
}

func (env *TransactionEnvelope) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*env = TransactionEnvelope{Type: EnvelopeType(disc)}
	switch env.Type {
	case EnvelopeTypeTxV0:
		env.V0 = new(TransactionV0Envelope)
		return env.V0.DecodeFrom(d)
	case EnvelopeTypeTx:
		env.V1 = new(TransactionV1Envelope)
		return env.V1.DecodeFrom(d)
	case EnvelopeTypeTxFeeBump:
		env.FeeBump = new(FeeBumpTransactionEnvelope)
		return env.FeeBump.DecodeFrom(d)
	}
	return d.unknownArm("TransactionEnvelope", disc)
}

// TransactionSignaturePayload is hashed to produce the bytes every
// transaction signature covers
type TransactionSignaturePayload struct {
	NetworkID Hash
	Type      EnvelopeType
	Tx        *Transaction
	FeeBump   *FeeBumpTransaction
}

func (p *TransactionSignaturePayload) EncodeTo(e *Encoder) error {
	var arm Encodable
	switch p.Type {
	case EnvelopeTypeTx:
		if p.Tx != nil {
			arm = p.Tx
		}
	case EnvelopeTypeTxFeeBump:
		if p.FeeBump != nil {
			arm = p.FeeBump
		}
	default:
		return errUnknownArm("TaggedTransaction", int32(p.Type))
	}
	if arm == nil {
		return errNilArm("TaggedTransaction", int32(p.Type))
	}
	e.WriteFixedOpaque(p.NetworkID[:])
	e.WriteInt32(int32(p.Type))
	return arm.EncodeTo(e)
}
