package xdr

import "fmt"

// OperationType discriminates OperationBody
type OperationType int32

// operation types. Arms without a Go representation (claimable balances,
// sponsorship revocation, liquidity pool deposits, contract invocation) are
// rejected by the decoder.
const (
	OperationTypeCreateAccount                 OperationType = 0
	OperationTypePayment                       OperationType = 1
	OperationTypePathPaymentStrictReceive      OperationType = 2
	OperationTypeManageSellOffer               OperationType = 3
	OperationTypeCreatePassiveSellOffer        OperationType = 4
	OperationTypeSetOptions                    OperationType = 5
	OperationTypeChangeTrust                   OperationType = 6
	OperationTypeAllowTrust                    OperationType = 7
	OperationTypeAccountMerge                  OperationType = 8
	OperationTypeInflation                     OperationType = 9
	OperationTypeManageData                    OperationType = 10
	OperationTypeBumpSequence                  OperationType = 11
	OperationTypeManageBuyOffer                OperationType = 12
	OperationTypePathPaymentStrictSend         OperationType = 13
	OperationTypeBeginSponsoringFutureReserves OperationType = 16
	OperationTypeEndSponsoringFutureReserves   OperationType = 17
	OperationTypeClawback                      OperationType = 19
	OperationTypeSetTrustLineFlags             OperationType = 21
)

var operationTypeNames = map[OperationType]string{
	OperationTypeCreateAccount:                 "create_account",
	OperationTypePayment:                       "payment",
	OperationTypePathPaymentStrictReceive:      "path_payment_strict_receive",
	OperationTypeManageSellOffer:               "manage_sell_offer",
	OperationTypeCreatePassiveSellOffer:        "create_passive_sell_offer",
	OperationTypeSetOptions:                    "set_options",
	OperationTypeChangeTrust:                   "change_trust",
	OperationTypeAllowTrust:                    "allow_trust",
	OperationTypeAccountMerge:                  "account_merge",
	OperationTypeInflation:                     "inflation",
	OperationTypeManageData:                    "manage_data",
	OperationTypeBumpSequence:                  "bump_sequence",
	OperationTypeManageBuyOffer:                "manage_buy_offer",
	OperationTypePathPaymentStrictSend:         "path_payment_strict_send",
	OperationTypeBeginSponsoringFutureReserves: "begin_sponsoring_future_reserves",
	OperationTypeEndSponsoringFutureReserves:   "end_sponsoring_future_reserves",
	OperationTypeClawback:                      "clawback",
	OperationTypeSetTrustLineFlags:             "set_trust_line_flags",
}

func (t OperationType) String() string {
	if name, ok := operationTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("OperationType(%d)", int32(t))
}

// limits on operation fields
const (
	MaxPathLength     = 5
	MaxHomeDomainLen  = 32
	MaxDataNameLen    = 64
	MaxDataValueLen   = 64
	MaxOperationCount = 100
)

type CreateAccountOp struct {
	Destination     AccountID
	StartingBalance int64
}

func (op *CreateAccountOp) EncodeTo(e *Encoder) error {
	if err := op.Destination.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.StartingBalance)
	return nil
}

func (op *CreateAccountOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.Destination.DecodeFrom(d); err != nil {
		return err
	}
	op.StartingBalance, err = d.ReadInt64()
	return err
}

type PaymentOp struct {
	Destination MuxedAccount
	Asset       Asset
	Amount      int64
}

func (op *PaymentOp) EncodeTo(e *Encoder) error {
	if err := op.Destination.EncodeTo(e); err != nil {
		return err
	}
	if err := op.Asset.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.Amount)
	return nil
}

func (op *PaymentOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.Destination.DecodeFrom(d); err != nil {
		return err
	}
	if err = op.Asset.DecodeFrom(d); err != nil {
		return err
	}
	op.Amount, err = d.ReadInt64()
	return err
}

func encodePath(e *Encoder, path []Asset) error {
	if err := checkLen("Path", len(path), MaxPathLength); err != nil {
		return err
	}
	e.WriteArrayLen(len(path))
	for i := range path {
		if err := path[i].EncodeTo(e); err != nil {
			return err
		}
	}
	return nil
}

func decodePath(d *Decoder) ([]Asset, error) {
	n, err := d.ReadArrayLen(MaxPathLength)
	if err != nil {
		return nil, err
	}
	path := make([]Asset, n)
	for i := range path {
		if err := path[i].DecodeFrom(d); err != nil {
			return nil, err
		}
	}
	return path, nil
}

type PathPaymentStrictReceiveOp struct {
	SendAsset   Asset
	SendMax     int64
	Destination MuxedAccount
	DestAsset   Asset
	DestAmount  int64
	Path        []Asset
}

func (op *PathPaymentStrictReceiveOp) EncodeTo(e *Encoder) error {
	if err := op.SendAsset.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.SendMax)
	if err := op.Destination.EncodeTo(e); err != nil {
		return err
	}
	if err := op.DestAsset.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.DestAmount)
	return encodePath(e, op.Path)
}

func (op *PathPaymentStrictReceiveOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.SendAsset.DecodeFrom(d); err != nil {
		return err
	}
	if op.SendMax, err = d.ReadInt64(); err != nil {
		return err
	}
	if err = op.Destination.DecodeFrom(d); err != nil {
		return err
	}
	if err = op.DestAsset.DecodeFrom(d); err != nil {
		return err
	}
	if op.DestAmount, err = d.ReadInt64(); err != nil {
		return err
	}
	op.Path, err = decodePath(d)
	return err
}

type PathPaymentStrictSendOp struct {
	SendAsset   Asset
	SendAmount  int64
	Destination MuxedAccount
	DestAsset   Asset
	DestMin     int64
	Path        []Asset
}

func (op *PathPaymentStrictSendOp) EncodeTo(e *Encoder) error {
	if err := op.SendAsset.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.SendAmount)
	if err := op.Destination.EncodeTo(e); err != nil {
		return err
	}
	if err := op.DestAsset.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.DestMin)
	return encodePath(e, op.Path)
}

func (op *PathPaymentStrictSendOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.SendAsset.DecodeFrom(d); err != nil {
		return err
	}
	if op.SendAmount, err = d.ReadInt64(); err != nil {
		return err
	}
	if err = op.Destination.DecodeFrom(d); err != nil {
		return err
	}
	if err = op.DestAsset.DecodeFrom(d); err != nil {
		return err
	}
	if op.DestMin, err = d.ReadInt64(); err != nil {
		return err
	}
	op.Path, err = decodePath(d)
	return err
}

// ManageSellOfferOp creates, updates (OfferID != 0) or deletes (Amount == 0)
// an offer selling a fixed amount
type ManageSellOfferOp struct {
	Selling Asset
	Buying  Asset
	Amount  int64
	Price   Price
	OfferID int64
}

func (op *ManageSellOfferOp) EncodeTo(e *Encoder) error {
	if err := op.Selling.EncodeTo(e); err != nil {
		return err
	}
	if err := op.Buying.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.Amount)
	if err := op.Price.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.OfferID)
	return nil
}

func (op *ManageSellOfferOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.Selling.DecodeFrom(d); err != nil {
		return err
	}
	if err = op.Buying.DecodeFrom(d); err != nil {
		return err
	}
	if op.Amount, err = d.ReadInt64(); err != nil {
		return err
	}
	if err = op.Price.DecodeFrom(d); err != nil {
		return err
	}
	op.OfferID, err = d.ReadInt64()
	return err
}

// ManageBuyOfferOp is ManageSellOfferOp with the amount fixed on the buying side
type ManageBuyOfferOp struct {
	Selling   Asset
	Buying    Asset
	BuyAmount int64
	Price     Price
	OfferID   int64
}

func (op *ManageBuyOfferOp) EncodeTo(e *Encoder) error {
	if err := op.Selling.EncodeTo(e); err != nil {
		return err
	}
	if err := op.Buying.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.BuyAmount)
	if err := op.Price.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.OfferID)
	return nil
}

func (op *ManageBuyOfferOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.Selling.DecodeFrom(d); err != nil {
		return err
	}
	if err = op.Buying.DecodeFrom(d); err != nil {
		return err
	}
	if op.BuyAmount, err = d.ReadInt64(); err != nil {
		return err
	}
	if err = op.Price.DecodeFrom(d); err != nil {
		return err
	}
	op.OfferID, err = d.ReadInt64()
	return err
}

type CreatePassiveSellOfferOp struct {
	Selling Asset
	Buying  Asset
	Amount  int64
	Price   Price
}

func (op *CreatePassiveSellOfferOp) EncodeTo(e *Encoder) error {
	if err := op.Selling.EncodeTo(e); err != nil {
		return err
	}
	if err := op.Buying.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.Amount)
	return op.Price.EncodeTo(e)
}

func (op *CreatePassiveSellOfferOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.Selling.DecodeFrom(d); err != nil {
		return err
	}
	if err = op.Buying.DecodeFrom(d); err != nil {
		return err
	}
	if op.Amount, err = d.ReadInt64(); err != nil {
		return err
	}
	return op.Price.DecodeFrom(d)
}

// SetOptionsOp changes account settings. Nil fields are left unchanged.
type SetOptionsOp struct {
	InflationDest *AccountID
	ClearFlags    *uint32
	SetFlags      *uint32
	MasterWeight  *uint32
	LowThreshold  *uint32
	MedThreshold  *uint32
	HighThreshold *uint32
	HomeDomain    *string
	Signer        *Signer
}

func encodeOptionalUint32(e *Encoder, v *uint32) {
	e.WriteOptional(v != nil)
	if v != nil {
		e.WriteUint32(*v)
	}
}

func decodeOptionalUint32(d *Decoder) (*uint32, error) {
	present, err := d.ReadOptional()
	if err != nil || !present {
		return nil, err
	}
	v, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (op *SetOptionsOp) EncodeTo(e *Encoder) error {
	e.WriteOptional(op.InflationDest != nil)
	if op.InflationDest != nil {
		if err := op.InflationDest.EncodeTo(e); err != nil {
			return err
		}
	}
	for _, v := range []*uint32{op.ClearFlags, op.SetFlags, op.MasterWeight,
		op.LowThreshold, op.MedThreshold, op.HighThreshold} {
		encodeOptionalUint32(e, v)
	}
	e.WriteOptional(op.HomeDomain != nil)
	if op.HomeDomain != nil {
		if err := checkLen("HomeDomain", len(*op.HomeDomain), MaxHomeDomainLen); err != nil {
			return err
		}
		e.WriteString(*op.HomeDomain)
	}
	e.WriteOptional(op.Signer != nil)
	if op.Signer != nil {
		return op.Signer.EncodeTo(e)
	}
	return nil
}

func (op *SetOptionsOp) DecodeFrom(d *Decoder) error {
	*op = SetOptionsOp{}
	present, err := d.ReadOptional()
	if err != nil {
		return err
	}
	if present {
		op.InflationDest = new(AccountID)
		if err = op.InflationDest.DecodeFrom(d); err != nil {
			return err
		}
	}
	for _, dst := range []**uint32{&op.ClearFlags, &op.SetFlags, &op.MasterWeight,
		&op.LowThreshold, &op.MedThreshold, &op.HighThreshold} {
		if *dst, err = decodeOptionalUint32(d); err != nil {
			return err
		}
	}
	if present, err = d.ReadOptional(); err != nil {
		return err
	}
	if present {
		domain, err := d.ReadString(MaxHomeDomainLen)
		if err != nil {
			return err
		}
		op.HomeDomain = &domain
	}
	if present, err = d.ReadOptional(); err != nil {
		return err
	}
	if present {
		op.Signer = new(Signer)
		return op.Signer.DecodeFrom(d)
	}
	return nil
}

type ChangeTrustOp struct {
	Line  ChangeTrustAsset
	Limit int64
}

func (op *ChangeTrustOp) EncodeTo(e *Encoder) error {
	if err := op.Line.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.Limit)
	return nil
}

func (op *ChangeTrustOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.Line.DecodeFrom(d); err != nil {
		return err
	}
	op.Limit, err = d.ReadInt64()
	return err
}

// trust line flags
const (
	TrustLineAuthorized                      uint32 = 1
	TrustLineAuthorizedToMaintainLiabilities uint32 = 2
	TrustLineClawbackEnabled                 uint32 = 4
)

// AllowTrustOp sets the authorization flags of a trust line. Authorize is
// 0, TrustLineAuthorized or TrustLineAuthorizedToMaintainLiabilities.
type AllowTrustOp struct {
	Trustor   AccountID
	Asset     AssetCode
	Authorize uint32
}

func (op *AllowTrustOp) EncodeTo(e *Encoder) error {
	if err := op.Trustor.EncodeTo(e); err != nil {
		return err
	}
	if err := op.Asset.EncodeTo(e); err != nil {
		return err
	}
	e.WriteUint32(op.Authorize)
	return nil
}

func (op *AllowTrustOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.Trustor.DecodeFrom(d); err != nil {
		return err
	}
	if err = op.Asset.DecodeFrom(d); err != nil {
		return err
	}
	op.Authorize, err = d.ReadUint32()
	return err
}

// DataValue is the value of a manage data entry
type DataValue []byte

type ManageDataOp struct {
	DataName  string
	DataValue *DataValue
}

func (op *ManageDataOp) EncodeTo(e *Encoder) error {
	if err := checkLen("DataName", len(op.DataName), MaxDataNameLen); err != nil {
		return err
	}
	e.WriteString(op.DataName)
	e.WriteOptional(op.DataValue != nil)
	if op.DataValue != nil {
		if err := checkLen("DataValue", len(*op.DataValue), MaxDataValueLen); err != nil {
			return err
		}
		e.WriteOpaque(*op.DataValue)
	}
	return nil
}

func (op *ManageDataOp) DecodeFrom(d *Decoder) (err error) {
	if op.DataName, err = d.ReadString(MaxDataNameLen); err != nil {
		return err
	}
	present, err := d.ReadOptional()
	if err != nil {
		return err
	}
	op.DataValue = nil
	if present {
		v, err := d.ReadOpaque(MaxDataValueLen)
		if err != nil {
			return err
		}
		dv := DataValue(v)
		op.DataValue = &dv
	}
	return nil
}

type BumpSequenceOp struct {
	BumpTo int64
}

type BeginSponsoringFutureReservesOp struct {
	SponsoredID AccountID
}

type ClawbackOp struct {
	Asset  Asset
	From   MuxedAccount
	Amount int64
}

func (op *ClawbackOp) EncodeTo(e *Encoder) error {
	if err := op.Asset.EncodeTo(e); err != nil {
		return err
	}
	if err := op.From.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(op.Amount)
	return nil
}

func (op *ClawbackOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.Asset.DecodeFrom(d); err != nil {
		return err
	}
	if err = op.From.DecodeFrom(d); err != nil {
		return err
	}
	op.Amount, err = d.ReadInt64()
	return err
}

type SetTrustLineFlagsOp struct {
	Trustor    AccountID
	Asset      Asset
	ClearFlags uint32
	SetFlags   uint32
}

func (op *SetTrustLineFlagsOp) EncodeTo(e *Encoder) error {
	if err := op.Trustor.EncodeTo(e); err != nil {
		return err
	}
	if err := op.Asset.EncodeTo(e); err != nil {
		return err
	}
	e.WriteUint32(op.ClearFlags)
	e.WriteUint32(op.SetFlags)
	return nil
}

func (op *SetTrustLineFlagsOp) DecodeFrom(d *Decoder) (err error) {
	if err = op.Trustor.DecodeFrom(d); err != nil {
		return err
	}
	if err = op.Asset.DecodeFrom(d); err != nil {
		return err
	}
	if op.ClearFlags, err = d.ReadUint32(); err != nil {
		return err
	}
	op.SetFlags, err = d.ReadUint32()
	return err
}

// OperationBody is the closed union of supported operations. Exactly the
// field matching Type is set; Inflation and EndSponsoringFutureReserves
// carry no body.
type OperationBody struct {
	Type                            OperationType
	CreateAccountOp                 *CreateAccountOp
	PaymentOp                       *PaymentOp
	PathPaymentStrictReceiveOp      *PathPaymentStrictReceiveOp
	ManageSellOfferOp               *ManageSellOfferOp
	CreatePassiveSellOfferOp        *CreatePassiveSellOfferOp
	SetOptionsOp                    *SetOptionsOp
	ChangeTrustOp                   *ChangeTrustOp
	AllowTrustOp                    *AllowTrustOp
	Destination                     *MuxedAccount
	ManageDataOp                    *ManageDataOp
	BumpSequenceOp                  *BumpSequenceOp
	ManageBuyOfferOp                *ManageBuyOfferOp
	PathPaymentStrictSendOp         *PathPaymentStrictSendOp
	BeginSponsoringFutureReservesOp *BeginSponsoringFutureReservesOp
	ClawbackOp                      *ClawbackOp
	SetTrustLineFlagsOp             *SetTrustLineFlagsOp
}

// arm returns the encodable arm selected by Type, nil for void arms
func (b *OperationBody) arm() (Encodable, bool, error) {
	switch b.Type {
	case OperationTypeInflation, OperationTypeEndSponsoringFutureReserves:
		return nil, true, nil
	case OperationTypeCreateAccount:
		return b.CreateAccountOp, b.CreateAccountOp != nil, nil
	case OperationTypePayment:
		return b.PaymentOp, b.PaymentOp != nil, nil
	case OperationTypePathPaymentStrictReceive:
		return b.PathPaymentStrictReceiveOp, b.PathPaymentStrictReceiveOp != nil, nil
	case OperationTypeManageSellOffer:
		return b.ManageSellOfferOp, b.ManageSellOfferOp != nil, nil
	case OperationTypeCreatePassiveSellOffer:
		return b.CreatePassiveSellOfferOp, b.CreatePassiveSellOfferOp != nil, nil
	case OperationTypeSetOptions:
		return b.SetOptionsOp, b.SetOptionsOp != nil, nil
	case OperationTypeChangeTrust:
		return b.ChangeTrustOp, b.ChangeTrustOp != nil, nil
	case OperationTypeAllowTrust:
		return b.AllowTrustOp, b.AllowTrustOp != nil, nil
	case OperationTypeAccountMerge:
		return b.Destination, b.Destination != nil, nil
	case OperationTypeManageData:
		return b.ManageDataOp, b.ManageDataOp != nil, nil
	case OperationTypeBumpSequence:
		return b.BumpSequenceOp, b.BumpSequenceOp != nil, nil
	case OperationTypeManageBuyOffer:
		return b.ManageBuyOfferOp, b.ManageBuyOfferOp != nil, nil
	case OperationTypePathPaymentStrictSend:
		return b.PathPaymentStrictSendOp, b.PathPaymentStrictSendOp != nil, nil
	case OperationTypeBeginSponsoringFutureReserves:
		return b.BeginSponsoringFutureReservesOp, b.BeginSponsoringFutureReservesOp != nil, nil
	case OperationTypeClawback:
		return b.ClawbackOp, b.ClawbackOp != nil, nil
	case OperationTypeSetTrustLineFlags:
		return b.SetTrustLineFlagsOp, b.SetTrustLineFlagsOp != nil, nil
	}
	return nil, false, errUnknownArm("OperationBody", int32(b.Type))
}

func (b *OperationBody) EncodeTo(e *Encoder) error {
	arm, ok, err := b.arm()
	if err != nil {
		return err
	}
	if !ok {
		return errNilArm("OperationBody", int32(b.Type))
	}
	e.WriteInt32(int32(b.Type))
	if arm == nil {
		return nil
	}
	return arm.EncodeTo(e)
}

func (b *OperationBody) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*b = OperationBody{Type: OperationType(disc)}
	var arm Decodable
	switch b.Type {
	case OperationTypeInflation, OperationTypeEndSponsoringFutureReserves:
		return nil
	case OperationTypeCreateAccount:
		b.CreateAccountOp = new(CreateAccountOp)
		arm = b.CreateAccountOp
	case OperationTypePayment:
		b.PaymentOp = new(PaymentOp)
		arm = b.PaymentOp
	case OperationTypePathPaymentStrictReceive:
		b.PathPaymentStrictReceiveOp = new(PathPaymentStrictReceiveOp)
		arm = b.PathPaymentStrictReceiveOp
	case OperationTypeManageSellOffer:
		b.ManageSellOfferOp = new(ManageSellOfferOp)
		arm = b.ManageSellOfferOp
	case OperationTypeCreatePassiveSellOffer:
		b.CreatePassiveSellOfferOp = new(CreatePassiveSellOfferOp)
		arm = b.CreatePassiveSellOfferOp
	case OperationTypeSetOptions:
		b.SetOptionsOp = new(SetOptionsOp)
		arm = b.SetOptionsOp
	case OperationTypeChangeTrust:
		b.ChangeTrustOp = new(ChangeTrustOp)
		arm = b.ChangeTrustOp
	case OperationTypeAllowTrust:
		b.AllowTrustOp = new(AllowTrustOp)
		arm = b.AllowTrustOp
	case OperationTypeAccountMerge:
		b.Destination = new(MuxedAccount)
		arm = b.Destination
	case OperationTypeManageData:
		b.ManageDataOp = new(ManageDataOp)
		arm = b.ManageDataOp
	case OperationTypeBumpSequence:
		b.BumpSequenceOp = new(BumpSequenceOp)
		arm = b.BumpSequenceOp
	case OperationTypeManageBuyOffer:
		b.ManageBuyOfferOp = new(ManageBuyOfferOp)
		arm = b.ManageBuyOfferOp
	case OperationTypePathPaymentStrictSend:
		b.PathPaymentStrictSendOp = new(PathPaymentStrictSendOp)
		arm = b.PathPaymentStrictSendOp
	case OperationTypeBeginSponsoringFutureReserves:
		b.BeginSponsoringFutureReservesOp = new(BeginSponsoringFutureReservesOp)
		arm = b.BeginSponsoringFutureReservesOp
	case OperationTypeClawback:
		b.ClawbackOp = new(ClawbackOp)
		arm = b.ClawbackOp
	case OperationTypeSetTrustLineFlags:
		b.SetTrustLineFlagsOp = new(SetTrustLineFlagsOp)
		arm = b.SetTrustLineFlagsOp
	default:
		return d.unknownArm("OperationBody", disc)
	}
	return arm.DecodeFrom(d)
}

func (op *BumpSequenceOp) EncodeTo(e *Encoder) error {
	e.WriteInt64(op.BumpTo)
	return nil
}

func (op *BumpSequenceOp) DecodeFrom(d *Decoder) (err error) {
	op.BumpTo, err = d.ReadInt64()
	return err
}

func (op *BeginSponsoringFutureReservesOp) EncodeTo(e *Encoder) error {
	return op.SponsoredID.EncodeTo(e)
}

func (op *BeginSponsoringFutureReservesOp) DecodeFrom(d *Decoder) error {
	return op.SponsoredID.DecodeFrom(d)
}

// Operation is one step of a transaction with an optional source override
type Operation struct {
	SourceAccount *MuxedAccount
	Body          OperationBody
}

func (op *Operation) EncodeTo(e *Encoder) error {
	e.WriteOptional(op.SourceAccount != nil)
	if op.SourceAccount != nil {
		if err := op.SourceAccount.EncodeTo(e); err != nil {
			return err
		}
	}
	return op.Body.EncodeTo(e)
}

func (op *Operation) DecodeFrom(d *Decoder) error {
	present, err := d.ReadOptional()
	if err != nil {
		return err
	}
	op.SourceAccount = nil
	if present {
		op.SourceAccount = new(MuxedAccount)
		if err = op.SourceAccount.DecodeFrom(d); err != nil {
			return err
		}
	}
	return op.Body.DecodeFrom(d)
}

func encodeOperations(e *Encoder, ops []Operation) error {
	if err := checkLen("Operation<100>", len(ops), MaxOperationCount); err != nil {
		return err
	}
	e.WriteArrayLen(len(ops))
	for i := range ops {
		if err := ops[i].EncodeTo(e); err != nil {
			return err
		}
	}
	return nil
}

func decodeOperations(d *Decoder) ([]Operation, error) {
	n, err := d.ReadArrayLen(MaxOperationCount)
	if err != nil {
		return nil, err
	}
	ops := make([]Operation, n)
	for i := range ops {
		if err := ops[i].DecodeFrom(d); err != nil {
			return nil, err
		}
	}
	return ops, nil
}
