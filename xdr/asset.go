package xdr

// AssetType discriminates Asset, ChangeTrustAsset and AssetCode
type AssetType int32

// asset types
const (
	AssetTypeNative           AssetType = 0
	AssetTypeCreditAlphanum4  AssetType = 1
	AssetTypeCreditAlphanum12 AssetType = 2
	AssetTypePoolShare        AssetType = 3
)

// AssetCode4 is a 1-4 character code padded with trailing zero bytes
type AssetCode4 [4]byte

// AssetCode12 is a 5-12 character code padded with trailing zero bytes
type AssetCode12 [12]byte

// AlphaNum4 is an issued asset with a short code
type AlphaNum4 struct {
	AssetCode AssetCode4
	Issuer    AccountID
}

func (a *AlphaNum4) EncodeTo(e *Encoder) error {
	e.WriteFixedOpaque(a.AssetCode[:])
	return a.Issuer.EncodeTo(e)
}

func (a *AlphaNum4) DecodeFrom(d *Decoder) error {
	if err := d.ReadFixedOpaque(a.AssetCode[:]); err != nil {
		return err
	}
	return a.Issuer.DecodeFrom(d)
}

// AlphaNum12 is an issued asset with a long code
type AlphaNum12 struct {
	AssetCode AssetCode12
	Issuer    AccountID
}

func (a *AlphaNum12) EncodeTo(e *Encoder) error {
	e.WriteFixedOpaque(a.AssetCode[:])
	return a.Issuer.EncodeTo(e)
}

func (a *AlphaNum12) DecodeFrom(d *Decoder) error {
	if err := d.ReadFixedOpaque(a.AssetCode[:]); err != nil {
		return err
	}
	return a.Issuer.DecodeFrom(d)
}

// Asset is native or an issued credit. Only the arm selected by Type is
// encoded.
type Asset struct {
	Type       AssetType
	AlphaNum4  AlphaNum4
	AlphaNum12 AlphaNum12
}

func (a *Asset) EncodeTo(e *Encoder) error {
	switch a.Type {
	case AssetTypeNative:
		e.WriteInt32(int32(a.Type))
		return nil
	case AssetTypeCreditAlphanum4:
		e.WriteInt32(int32(a.Type))
		return a.AlphaNum4.EncodeTo(e)
	case AssetTypeCreditAlphanum12:
		e.WriteInt32(int32(a.Type))
		return a.AlphaNum12.EncodeTo(e)
	}
	return errUnknownArm("Asset", int32(a.Type))
}

func (a *Asset) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*a = Asset{Type: AssetType(disc)}
	switch a.Type {
	case AssetTypeNative:
		return nil
	case AssetTypeCreditAlphanum4:
		return a.AlphaNum4.DecodeFrom(d)
	case AssetTypeCreditAlphanum12:
		return a.AlphaNum12.DecodeFrom(d)
	}
	return d.unknownArm("Asset", disc)
}

// LiquidityPoolFeeV18 is the only fee accepted for constant product pools
const LiquidityPoolFeeV18 = 30

// LiquidityPoolParameters describes a constant product pool. AssetA must
// sort before AssetB.
type LiquidityPoolParameters struct {
	AssetA Asset
	AssetB Asset
	Fee    int32
}

// liquidity pool types
const liquidityPoolConstantProduct = 0

func (p *LiquidityPoolParameters) EncodeTo(e *Encoder) error {
	e.WriteInt32(liquidityPoolConstantProduct)
	if err := p.AssetA.EncodeTo(e); err != nil {
		return err
	}
	if err := p.AssetB.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt32(p.Fee)
	return nil
}

func (p *LiquidityPoolParameters) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	if disc != liquidityPoolConstantProduct {
		return d.unknownArm("LiquidityPoolParameters", disc)
	}
	if err := p.AssetA.DecodeFrom(d); err != nil {
		return err
	}
	if err := p.AssetB.DecodeFrom(d); err != nil {
		return err
	}
	p.Fee, err = d.ReadInt32()
	return err
}

// ChangeTrustAsset is an Asset that may also name a liquidity pool share
type ChangeTrustAsset struct {
	Type          AssetType
	AlphaNum4     AlphaNum4
	AlphaNum12    AlphaNum12
	LiquidityPool *LiquidityPoolParameters
}

// ToChangeTrustAsset widens an Asset
func (a Asset) ToChangeTrustAsset() ChangeTrustAsset {
	return ChangeTrustAsset{Type: a.Type, AlphaNum4: a.AlphaNum4, AlphaNum12: a.AlphaNum12}
}

func (a *ChangeTrustAsset) EncodeTo(e *Encoder) error {
	if a.Type != AssetTypePoolShare {
		asset := Asset{Type: a.Type, AlphaNum4: a.AlphaNum4, AlphaNum12: a.AlphaNum12}
		return asset.EncodeTo(e)
	}
	if a.LiquidityPool == nil {
		return errNilArm("ChangeTrustAsset", int32(a.Type))
	}
	e.WriteInt32(int32(a.Type))
	return a.LiquidityPool.EncodeTo(e)
}

func (a *ChangeTrustAsset) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*a = ChangeTrustAsset{Type: AssetType(disc)}
	switch a.Type {
	case AssetTypeNative:
		return nil
	case AssetTypeCreditAlphanum4:
		return a.AlphaNum4.DecodeFrom(d)
	case AssetTypeCreditAlphanum12:
		return a.AlphaNum12.DecodeFrom(d)
	case AssetTypePoolShare:
		a.LiquidityPool = new(LiquidityPoolParameters)
		return a.LiquidityPool.DecodeFrom(d)
	}
	return d.unknownArm("ChangeTrustAsset", disc)
}

// AssetCode is the code-only union used by allow trust
type AssetCode struct {
	Type        AssetType
	AssetCode4  AssetCode4
	AssetCode12 AssetCode12
}

func (c *AssetCode) EncodeTo(e *Encoder) error {
	switch c.Type {
	case AssetTypeCreditAlphanum4:
		e.WriteInt32(int32(c.Type))
		e.WriteFixedOpaque(c.AssetCode4[:])
	case AssetTypeCreditAlphanum12:
		e.WriteInt32(int32(c.Type))
		e.WriteFixedOpaque(c.AssetCode12[:])
	default:
		return errUnknownArm("AssetCode", int32(c.Type))
	}
	return nil
}

func (c *AssetCode) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*c = AssetCode{Type: AssetType(disc)}
	switch c.Type {
	case AssetTypeCreditAlphanum4:
		return d.ReadFixedOpaque(c.AssetCode4[:])
	case AssetTypeCreditAlphanum12:
		return d.ReadFixedOpaque(c.AssetCode12[:])
	}
	return d.unknownArm("AssetCode", disc)
}

// Price is a rational N/D
type Price struct {
	N int32
	D int32
}

func (p *Price) EncodeTo(e *Encoder) error {
	e.WriteInt32(p.N)
	e.WriteInt32(p.D)
	return nil
}

func (p *Price) DecodeFrom(d *Decoder) (err error) {
	if p.N, err = d.ReadInt32(); err != nil {
		return err
	}
	p.D, err = d.ReadInt32()
	return err
}

// SignerKeyType discriminates SignerKey
type SignerKeyType int32

// signer key types
const (
	SignerKeyTypeEd25519              SignerKeyType = 0
	SignerKeyTypePreAuthTx            SignerKeyType = 1
	SignerKeyTypeHashX                SignerKeyType = 2
	SignerKeyTypeEd25519SignedPayload SignerKeyType = 3
)

// MaxSignedPayloadLength bounds the payload of a signed payload signer
const MaxSignedPayloadLength = 64

// SignerKey names an account signer. Key holds the ed25519 key, the
// pre-auth transaction hash or the hash-x preimage hash; Payload is set
// only for signed payload signers.
type SignerKey struct {
	Type    SignerKeyType
	Key     Uint256
	Payload []byte
}

func (k *SignerKey) EncodeTo(e *Encoder) error {
	switch k.Type {
	case SignerKeyTypeEd25519, SignerKeyTypePreAuthTx, SignerKeyTypeHashX:
		e.WriteInt32(int32(k.Type))
		e.WriteFixedOpaque(k.Key[:])
	case SignerKeyTypeEd25519SignedPayload:
		if err := checkLen("SignerKey payload", len(k.Payload), MaxSignedPayloadLength); err != nil {
			return err
		}
		e.WriteInt32(int32(k.Type))
		e.WriteFixedOpaque(k.Key[:])
		e.WriteOpaque(k.Payload)
	default:
		return errUnknownArm("SignerKey", int32(k.Type))
	}
	return nil
}

func (k *SignerKey) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*k = SignerKey{Type: SignerKeyType(disc)}
	switch k.Type {
	case SignerKeyTypeEd25519, SignerKeyTypePreAuthTx, SignerKeyTypeHashX:
		return d.ReadFixedOpaque(k.Key[:])
	case SignerKeyTypeEd25519SignedPayload:
		if err := d.ReadFixedOpaque(k.Key[:]); err != nil {
			return err
		}
		k.Payload, err = d.ReadOpaque(MaxSignedPayloadLength)
		return err
	}
	return d.unknownArm("SignerKey", disc)
}

// Signer is a signer key with its threshold weight
type Signer struct {
	Key    SignerKey
	Weight uint32
}

func (s *Signer) EncodeTo(e *Encoder) error {
	if err := s.Key.EncodeTo(e); err != nil {
		return err
	}
	e.WriteUint32(s.Weight)
	return nil
}

func (s *Signer) DecodeFrom(d *Decoder) (err error) {
	if err = s.Key.DecodeFrom(d); err != nil {
		return err
	}
	s.Weight, err = d.ReadUint32()
	return err
}
