package txnbuild

import (
	"fmt"

	"github.com/anyswap/Stellar-SDK/amount"
	"github.com/anyswap/Stellar-SDK/xdr"
)

// OperationOption customizes an operation after its body is built
type OperationOption func(op *xdr.Operation) error

// WithSourceAccount overrides the transaction source for one operation.
// Both G... and M... addresses are accepted.
func WithSourceAccount(address string) OperationOption {
	return func(op *xdr.Operation) error {
		source, err := xdr.AddressToMuxedAccount(address)
		if err != nil {
			return fmt.Errorf("source account: %v", err)
		}
		op.SourceAccount = &source
		return nil
	}
}

func newOperation(body xdr.OperationBody, opts []OperationOption) (xdr.Operation, error) {
	op := xdr.Operation{Body: body}
	for _, opt := range opts {
		if err := opt(&op); err != nil {
			return xdr.Operation{}, invalidOp(body.Type, "%v", err)
		}
	}
	return op, nil
}

func invalidOp(typ xdr.OperationType, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v: %s", ErrInvalidOperation, typ, fmt.Sprintf(format, args...))
}

func parseAmount(typ xdr.OperationType, field, v string) (int64, error) {
	n, err := amount.ParsePositive(v)
	if err != nil {
		return 0, invalidOp(typ, "%s: %v", field, err)
	}
	return n, nil
}

func parseAccount(typ xdr.OperationType, field, address string) (xdr.AccountID, error) {
	id, err := xdr.AddressToAccountID(address)
	if err != nil {
		return id, invalidOp(typ, "%s: %v", field, err)
	}
	return id, nil
}

func parseMuxed(typ xdr.OperationType, field, address string) (xdr.MuxedAccount, error) {
	m, err := xdr.AddressToMuxedAccount(address)
	if err != nil {
		return m, invalidOp(typ, "%s: %v", field, err)
	}
	return m, nil
}

// NewCreateAccount funds a new account
func NewCreateAccount(destination, startingBalance string, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeCreateAccount
	dest, err := parseAccount(typ, "destination", destination)
	if err != nil {
		return xdr.Operation{}, err
	}
	balance, err := parseAmount(typ, "starting balance", startingBalance)
	if err != nil {
		return xdr.Operation{}, err
	}
	return newOperation(xdr.OperationBody{Type: typ, CreateAccountOp: &xdr.CreateAccountOp{
		Destination:     dest,
		StartingBalance: balance,
	}}, opts)
}

// NewPayment sends amount of asset to destination
func NewPayment(destination string, asset xdr.Asset, amt string, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypePayment
	dest, err := parseMuxed(typ, "destination", destination)
	if err != nil {
		return xdr.Operation{}, err
	}
	n, err := parseAmount(typ, "amount", amt)
	if err != nil {
		return xdr.Operation{}, err
	}
	return newOperation(xdr.OperationBody{Type: typ, PaymentOp: &xdr.PaymentOp{
		Destination: dest,
		Asset:       asset,
		Amount:      n,
	}}, opts)
}

func checkPath(typ xdr.OperationType, path []xdr.Asset) ([]xdr.Asset, error) {
	if len(path) > xdr.MaxPathLength {
		return nil, invalidOp(typ, "path has %d assets, limit %d", len(path), xdr.MaxPathLength)
	}
	return append([]xdr.Asset{}, path...), nil
}

// NewPathPaymentStrictReceive delivers exactly destAmount, spending at most sendMax
func NewPathPaymentStrictReceive(sendAsset xdr.Asset, sendMax, destination string, destAsset xdr.Asset,
	destAmount string, path []xdr.Asset, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypePathPaymentStrictReceive
	op := &xdr.PathPaymentStrictReceiveOp{SendAsset: sendAsset, DestAsset: destAsset}
	var err error
	if op.SendMax, err = parseAmount(typ, "send max", sendMax); err != nil {
		return xdr.Operation{}, err
	}
	if op.Destination, err = parseMuxed(typ, "destination", destination); err != nil {
		return xdr.Operation{}, err
	}
	if op.DestAmount, err = parseAmount(typ, "destination amount", destAmount); err != nil {
		return xdr.Operation{}, err
	}
	if op.Path, err = checkPath(typ, path); err != nil {
		return xdr.Operation{}, err
	}
	return newOperation(xdr.OperationBody{Type: typ, PathPaymentStrictReceiveOp: op}, opts)
}

// NewPathPaymentStrictSend spends exactly sendAmount, delivering at least destMin
func NewPathPaymentStrictSend(sendAsset xdr.Asset, sendAmount, destination string, destAsset xdr.Asset,
	destMin string, path []xdr.Asset, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypePathPaymentStrictSend
	op := &xdr.PathPaymentStrictSendOp{SendAsset: sendAsset, DestAsset: destAsset}
	var err error
	if op.SendAmount, err = parseAmount(typ, "send amount", sendAmount); err != nil {
		return xdr.Operation{}, err
	}
	if op.Destination, err = parseMuxed(typ, "destination", destination); err != nil {
		return xdr.Operation{}, err
	}
	if op.DestMin, err = parseAmount(typ, "destination min", destMin); err != nil {
		return xdr.Operation{}, err
	}
	if op.Path, err = checkPath(typ, path); err != nil {
		return xdr.Operation{}, err
	}
	return newOperation(xdr.OperationBody{Type: typ, PathPaymentStrictSendOp: op}, opts)
}

func parseOffer(typ xdr.OperationType, amt, price string, allowZero bool) (int64, xdr.Price, error) {
	n, err := amount.Parse(amt)
	if err != nil {
		return 0, xdr.Price{}, invalidOp(typ, "amount: %v", err)
	}
	if n == 0 && !allowZero {
		return 0, xdr.Price{}, invalidOp(typ, "amount must be positive")
	}
	p, err := ParsePrice(price)
	if err != nil {
		return 0, xdr.Price{}, invalidOp(typ, "%v", err)
	}
	return n, p, nil
}

// NewManageSellOffer creates (offerID 0), updates or deletes (amount "0")
// an offer selling a fixed amount of selling
func NewManageSellOffer(selling, buying xdr.Asset, amt, price string, offerID int64, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeManageSellOffer
	n, p, err := parseOffer(typ, amt, price, true)
	if err != nil {
		return xdr.Operation{}, err
	}
	if offerID < 0 {
		return xdr.Operation{}, invalidOp(typ, "negative offer id")
	}
	return newOperation(xdr.OperationBody{Type: typ, ManageSellOfferOp: &xdr.ManageSellOfferOp{
		Selling: selling, Buying: buying, Amount: n, Price: p, OfferID: offerID,
	}}, opts)
}

// NewManageBuyOffer is NewManageSellOffer with the amount fixed on the buying side
func NewManageBuyOffer(selling, buying xdr.Asset, buyAmount, price string, offerID int64, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeManageBuyOffer
	n, p, err := parseOffer(typ, buyAmount, price, true)
	if err != nil {
		return xdr.Operation{}, err
	}
	if offerID < 0 {
		return xdr.Operation{}, invalidOp(typ, "negative offer id")
	}
	return newOperation(xdr.OperationBody{Type: typ, ManageBuyOfferOp: &xdr.ManageBuyOfferOp{
		Selling: selling, Buying: buying, BuyAmount: n, Price: p, OfferID: offerID,
	}}, opts)
}

// NewCreatePassiveSellOffer creates an offer that does not cross offers at the same price
func NewCreatePassiveSellOffer(selling, buying xdr.Asset, amt, price string, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeCreatePassiveSellOffer
	n, p, err := parseOffer(typ, amt, price, false)
	if err != nil {
		return xdr.Operation{}, err
	}
	return newOperation(xdr.OperationBody{Type: typ, CreatePassiveSellOfferOp: &xdr.CreatePassiveSellOfferOp{
		Selling: selling, Buying: buying, Amount: n, Price: p,
	}}, opts)
}

// account flags
const (
	AuthRequired        uint32 = 1
	AuthRevocable       uint32 = 2
	AuthImmutable       uint32 = 4
	AuthClawbackEnabled uint32 = 8
)

// SignerParams adds, updates or (weight 0) removes a signer
type SignerParams struct {
	Address string
	Weight  uint32
}

// SetOptionsParams lists the account settings to change; nil leaves a
// setting as it is
type SetOptionsParams struct {
	InflationDestination *string
	ClearFlags           *uint32
	SetFlags             *uint32
	MasterWeight         *uint32
	LowThreshold         *uint32
	MedThreshold         *uint32
	HighThreshold        *uint32
	HomeDomain           *string
	Signer               *SignerParams
}

// NewSetOptions changes account settings
func NewSetOptions(params SetOptionsParams, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeSetOptions
	op := &xdr.SetOptionsOp{
		ClearFlags:    copyUint32(params.ClearFlags),
		SetFlags:      copyUint32(params.SetFlags),
		MasterWeight:  copyUint32(params.MasterWeight),
		LowThreshold:  copyUint32(params.LowThreshold),
		MedThreshold:  copyUint32(params.MedThreshold),
		HighThreshold: copyUint32(params.HighThreshold),
	}
	for _, w := range []*uint32{op.MasterWeight, op.LowThreshold, op.MedThreshold, op.HighThreshold} {
		if w != nil && *w > 255 {
			return xdr.Operation{}, invalidOp(typ, "weight %d exceeds 255", *w)
		}
	}
	if params.InflationDestination != nil {
		dest, err := parseAccount(typ, "inflation destination", *params.InflationDestination)
		if err != nil {
			return xdr.Operation{}, err
		}
		op.InflationDest = &dest
	}
	if params.HomeDomain != nil {
		if len(*params.HomeDomain) > xdr.MaxHomeDomainLen {
			return xdr.Operation{}, invalidOp(typ, "home domain longer than %d bytes", xdr.MaxHomeDomainLen)
		}
		domain := *params.HomeDomain
		op.HomeDomain = &domain
	}
	if params.Signer != nil {
		key, err := xdr.AddressToSignerKey(params.Signer.Address)
		if err != nil {
			return xdr.Operation{}, invalidOp(typ, "signer: %v", err)
		}
		if params.Signer.Weight > 255 {
			return xdr.Operation{}, invalidOp(typ, "signer weight %d exceeds 255", params.Signer.Weight)
		}
		op.Signer = &xdr.Signer{Key: key, Weight: params.Signer.Weight}
	}
	return newOperation(xdr.OperationBody{Type: typ, SetOptionsOp: op}, opts)
}

func copyUint32(v *uint32) *uint32 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// MaxTrustLineLimit is the limit used when none is given
const MaxTrustLineLimit = "922337203685.4775807"

// NewChangeTrust creates, updates or (limit "0") removes a trust line.
// An empty limit means the maximum.
func NewChangeTrust(line xdr.ChangeTrustAsset, limit string, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeChangeTrust
	if line.Type == xdr.AssetTypeNative {
		return xdr.Operation{}, invalidOp(typ, "cannot trust the native asset")
	}
	if limit == "" {
		limit = MaxTrustLineLimit
	}
	n, err := amount.Parse(limit)
	if err != nil {
		return xdr.Operation{}, invalidOp(typ, "limit: %v", err)
	}
	if line.LiquidityPool != nil {
		pool := *line.LiquidityPool
		line.LiquidityPool = &pool
	}
	return newOperation(xdr.OperationBody{Type: typ, ChangeTrustOp: &xdr.ChangeTrustOp{Line: line, Limit: n}}, opts)
}

// NewAllowTrust sets the authorization of trustor's trust line for an
// asset issued by the source account. authorize is 0,
// xdr.TrustLineAuthorized or xdr.TrustLineAuthorizedToMaintainLiabilities.
func NewAllowTrust(trustor, code string, authorize uint32, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeAllowTrust
	id, err := parseAccount(typ, "trustor", trustor)
	if err != nil {
		return xdr.Operation{}, err
	}
	if !validCode(code) {
		return xdr.Operation{}, invalidOp(typ, "asset code %q", code)
	}
	switch authorize {
	case 0, xdr.TrustLineAuthorized, xdr.TrustLineAuthorizedToMaintainLiabilities:
	default:
		return xdr.Operation{}, invalidOp(typ, "authorize flag %d", authorize)
	}
	var ac xdr.AssetCode
	if len(code) <= 4 {
		ac.Type = xdr.AssetTypeCreditAlphanum4
		copy(ac.AssetCode4[:], code)
	} else {
		ac.Type = xdr.AssetTypeCreditAlphanum12
		copy(ac.AssetCode12[:], code)
	}
	return newOperation(xdr.OperationBody{Type: typ, AllowTrustOp: &xdr.AllowTrustOp{
		Trustor: id, Asset: ac, Authorize: authorize,
	}}, opts)
}

// NewAccountMerge transfers the source balance to destination and removes the source
func NewAccountMerge(destination string, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeAccountMerge
	dest, err := parseMuxed(typ, "destination", destination)
	if err != nil {
		return xdr.Operation{}, err
	}
	return newOperation(xdr.OperationBody{Type: typ, Destination: &dest}, opts)
}

// NewInflation runs the legacy inflation operation
func NewInflation(opts ...OperationOption) (xdr.Operation, error) {
	return newOperation(xdr.OperationBody{Type: xdr.OperationTypeInflation}, opts)
}

// NewManageData sets, or with a nil value deletes, an account data entry
func NewManageData(name string, value []byte, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeManageData
	if len(name) == 0 || len(name) > xdr.MaxDataNameLen {
		return xdr.Operation{}, invalidOp(typ, "name must be 1-%d bytes", xdr.MaxDataNameLen)
	}
	if len(value) > xdr.MaxDataValueLen {
		return xdr.Operation{}, invalidOp(typ, "value longer than %d bytes", xdr.MaxDataValueLen)
	}
	op := &xdr.ManageDataOp{DataName: name}
	if value != nil {
		v := xdr.DataValue(append([]byte{}, value...))
		op.DataValue = &v
	}
	return newOperation(xdr.OperationBody{Type: typ, ManageDataOp: op}, opts)
}

// NewBumpSequence raises the source sequence number to bumpTo
func NewBumpSequence(bumpTo int64, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeBumpSequence
	if bumpTo < 0 {
		return xdr.Operation{}, invalidOp(typ, "negative sequence %d", bumpTo)
	}
	return newOperation(xdr.OperationBody{Type: typ, BumpSequenceOp: &xdr.BumpSequenceOp{BumpTo: bumpTo}}, opts)
}

// NewBeginSponsoringFutureReserves starts paying reserves for sponsored
func NewBeginSponsoringFutureReserves(sponsored string, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeBeginSponsoringFutureReserves
	id, err := parseAccount(typ, "sponsored", sponsored)
	if err != nil {
		return xdr.Operation{}, err
	}
	return newOperation(xdr.OperationBody{Type: typ,
		BeginSponsoringFutureReservesOp: &xdr.BeginSponsoringFutureReservesOp{SponsoredID: id}}, opts)
}

// NewEndSponsoringFutureReserves closes the sponsorship opened for the source
func NewEndSponsoringFutureReserves(opts ...OperationOption) (xdr.Operation, error) {
	return newOperation(xdr.OperationBody{Type: xdr.OperationTypeEndSponsoringFutureReserves}, opts)
}

// NewClawback burns amount of asset held by from
func NewClawback(asset xdr.Asset, from, amt string, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeClawback
	if asset.Type == xdr.AssetTypeNative {
		return xdr.Operation{}, invalidOp(typ, "cannot claw back the native asset")
	}
	src, err := parseMuxed(typ, "from", from)
	if err != nil {
		return xdr.Operation{}, err
	}
	n, err := parseAmount(typ, "amount", amt)
	if err != nil {
		return xdr.Operation{}, err
	}
	return newOperation(xdr.OperationBody{Type: typ, ClawbackOp: &xdr.ClawbackOp{Asset: asset, From: src, Amount: n}}, opts)
}

// NewSetTrustLineFlags sets and clears trust line flags of trustor
func NewSetTrustLineFlags(trustor string, asset xdr.Asset, setFlags, clearFlags uint32, opts ...OperationOption) (xdr.Operation, error) {
	typ := xdr.OperationTypeSetTrustLineFlags
	id, err := parseAccount(typ, "trustor", trustor)
	if err != nil {
		return xdr.Operation{}, err
	}
	if asset.Type == xdr.AssetTypeNative {
		return xdr.Operation{}, invalidOp(typ, "native asset has no trust lines")
	}
	if setFlags&clearFlags != 0 {
		return xdr.Operation{}, invalidOp(typ, "flags %d both set and cleared", setFlags&clearFlags)
	}
	return newOperation(xdr.OperationBody{Type: typ, SetTrustLineFlagsOp: &xdr.SetTrustLineFlagsOp{
		Trustor: id, Asset: asset, SetFlags: setFlags, ClearFlags: clearFlags,
	}}, opts)
}
