package xdr

// SCValType discriminates SCVal. Only the arms used by authorization
// entries are supported.
type SCValType int32

// contract value types
const (
	SCValTypeBool      SCValType = 0
	SCValTypeVoid      SCValType = 1
	SCValTypeU32       SCValType = 3
	SCValTypeI32       SCValType = 4
	SCValTypeU64       SCValType = 5
	SCValTypeI64       SCValType = 6
	SCValTypeTimepoint SCValType = 7
	SCValTypeDuration  SCValType = 8
	SCValTypeU128      SCValType = 9
	SCValTypeI128      SCValType = 10
	SCValTypeBytes     SCValType = 13
	SCValTypeString    SCValType = 14
	SCValTypeSymbol    SCValType = 15
	SCValTypeVec       SCValType = 16
	SCValTypeMap       SCValType = 17
	SCValTypeAddress   SCValType = 18
)

// MaxSymbolLength bounds SCSymbol
const MaxSymbolLength = 32

// UInt128Parts is an unsigned 128-bit integer
type UInt128Parts struct {
	Hi uint64
	Lo uint64
}

// Int128Parts is a signed 128-bit integer
type Int128Parts struct {
	Hi int64
	Lo uint64
}

// SCVec is a list of contract values
type SCVec []SCVal

// SCMap is an ordered list of contract key/value pairs
type SCMap []SCMapEntry

// SCVal is a contract value. Scalar arms are held by value and only the
// one selected by Type is encoded; Vec and Map are optional on the wire and
// may be nil.
type SCVal struct {
	Type      SCValType
	B         bool
	U32       uint32
	I32       int32
	U64       uint64
	I64       int64
	Timepoint uint64
	Duration  uint64
	U128      UInt128Parts
	I128      Int128Parts
	Bytes     []byte
	Str       string
	Sym       string
	Vec       *SCVec
	Map       *SCMap
	Address   *SCAddress
}

// SCSymbol returns a symbol value
func SCSymbol(s string) SCVal {
	return SCVal{Type: SCValTypeSymbol, Sym: s}
}

// SCString returns a string value
func SCString(s string) SCVal {
	return SCVal{Type: SCValTypeString, Str: s}
}

// SCBytes returns a bytes value
func SCBytes(b []byte) SCVal {
	return SCVal{Type: SCValTypeBytes, Bytes: b}
}

// GetMap returns the map arm, or false for any other value
func (v SCVal) GetMap() (SCMap, bool) {
	if v.Type != SCValTypeMap || v.Map == nil {
		return nil, false
	}
	return *v.Map, true
}

// GetVec returns the vector arm, or false for any other value
func (v SCVal) GetVec() (SCVec, bool) {
	if v.Type != SCValTypeVec || v.Vec == nil {
		return nil, false
	}
	return *v.Vec, true
}

func (v *SCVal) EncodeTo(e *Encoder) error {
	switch v.Type {
	case SCValTypeBool:
		e.WriteInt32(int32(v.Type))
		e.WriteBool(v.B)
	case SCValTypeVoid:
		e.WriteInt32(int32(v.Type))
	case SCValTypeU32:
		e.WriteInt32(int32(v.Type))
		e.WriteUint32(v.U32)
	case SCValTypeI32:
		e.WriteInt32(int32(v.Type))
		e.WriteInt32(v.I32)
	case SCValTypeU64:
		e.WriteInt32(int32(v.Type))
		e.WriteUint64(v.U64)
	case SCValTypeI64:
		e.WriteInt32(int32(v.Type))
		e.WriteInt64(v.I64)
	case SCValTypeTimepoint:
		e.WriteInt32(int32(v.Type))
		e.WriteUint64(v.Timepoint)
	case SCValTypeDuration:
		e.WriteInt32(int32(v.Type))
		e.WriteUint64(v.Duration)
	case SCValTypeU128:
		e.WriteInt32(int32(v.Type))
		e.WriteUint64(v.U128.Hi)
		e.WriteUint64(v.U128.Lo)
	case SCValTypeI128:
		e.WriteInt32(int32(v.Type))
		e.WriteInt64(v.I128.Hi)
		e.WriteUint64(v.I128.Lo)
	case SCValTypeBytes:
		e.WriteInt32(int32(v.Type))
		e.WriteOpaque(v.Bytes)
	case SCValTypeString:
		e.WriteInt32(int32(v.Type))
		e.WriteString(v.Str)
	case SCValTypeSymbol:
		if err := checkLen("SCSymbol", len(v.Sym), MaxSymbolLength); err != nil {
			return err
		}
		e.WriteInt32(int32(v.Type))
		e.WriteString(v.Sym)
	case SCValTypeVec:
		e.WriteInt32(int32(v.Type))
		e.WriteOptional(v.Vec != nil)
		if v.Vec != nil {
			e.WriteArrayLen(len(*v.Vec))
			for i := range *v.Vec {
				if err := (*v.Vec)[i].EncodeTo(e); err != nil {
					return err
				}
			}
		}
	case SCValTypeMap:
		e.WriteInt32(int32(v.Type))
		e.WriteOptional(v.Map != nil)
		if v.Map != nil {
			e.WriteArrayLen(len(*v.Map))
			for i := range *v.Map {
				if err := (*v.Map)[i].EncodeTo(e); err != nil {
					return err
				}
			}
		}
	case SCValTypeAddress:
		if v.Address == nil {
			return errNilArm("SCVal", int32(v.Type))
		}
		e.WriteInt32(int32(v.Type))
		return v.Address.EncodeTo(e)
	default:
		return errUnknownArm("SCVal", int32(v.Type))
	}
	return nil
}

func (v *SCVal) DecodeFrom(d *Decoder) error {
	if err := d.enter("SCVal"); err != nil {
		return err
	}
	defer d.leave()

	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*v = SCVal{Type: SCValType(disc)}
	switch v.Type {
	case SCValTypeBool:
		v.B, err = d.ReadBool()
	case SCValTypeVoid:
	case SCValTypeU32:
		v.U32, err = d.ReadUint32()
	case SCValTypeI32:
		v.I32, err = d.ReadInt32()
	case SCValTypeU64:
		v.U64, err = d.ReadUint64()
	case SCValTypeI64:
		v.I64, err = d.ReadInt64()
	case SCValTypeTimepoint:
		v.Timepoint, err = d.ReadUint64()
	case SCValTypeDuration:
		v.Duration, err = d.ReadUint64()
	case SCValTypeU128:
		if v.U128.Hi, err = d.ReadUint64(); err == nil {
			v.U128.Lo, err = d.ReadUint64()
		}
	case SCValTypeI128:
		if v.I128.Hi, err = d.ReadInt64(); err == nil {
			v.I128.Lo, err = d.ReadUint64()
		}
	case SCValTypeBytes:
		v.Bytes, err = d.ReadOpaque(0)
	case SCValTypeString:
		v.Str, err = d.ReadString(0)
	case SCValTypeSymbol:
		v.Sym, err = d.ReadString(MaxSymbolLength)
	case SCValTypeVec:
		var present bool
		if present, err = d.ReadOptional(); err != nil || !present {
			return err
		}
		n, err := d.ReadArrayLen(0)
		if err != nil {
			return err
		}
		vec := make(SCVec, n)
		for i := range vec {
			if err := vec[i].DecodeFrom(d); err != nil {
				return err
			}
		}
		v.Vec = &vec
	case SCValTypeMap:
		var present bool
		if present, err = d.ReadOptional(); err != nil || !present {
			return err
		}
		n, err := d.ReadArrayLen(0)
		if err != nil {
			return err
		}
		m := make(SCMap, n)
		for i := range m {
			if err := m[i].DecodeFrom(d); err != nil {
				return err
			}
		}
		v.Map = &m
	case SCValTypeAddress:
		v.Address = new(SCAddress)
		err = v.Address.DecodeFrom(d)
	default:
		return d.unknownArm("SCVal", disc)
	}
	return err
}

// SCMapEntry is one key/value pair of an SCMap
type SCMapEntry struct {
	Key SCVal
	Val SCVal
}

func (m *SCMapEntry) EncodeTo(e *Encoder) error {
	if err := m.Key.EncodeTo(e); err != nil {
		return err
	}
	return m.Val.EncodeTo(e)
}

func (m *SCMapEntry) DecodeFrom(d *Decoder) error {
	if err := m.Key.DecodeFrom(d); err != nil {
		return err
	}
	return m.Val.DecodeFrom(d)
}

// SCAddressType discriminates SCAddress
type SCAddressType int32

// contract address types
const (
	SCAddressTypeAccount  SCAddressType = 0
	SCAddressTypeContract SCAddressType = 1
)

// SCAddress is an account or a contract
type SCAddress struct {
	Type       SCAddressType
	AccountID  AccountID
	ContractID Hash
}

func (a *SCAddress) EncodeTo(e *Encoder) error {
	switch a.Type {
	case SCAddressTypeAccount:
		e.WriteInt32(int32(a.Type))
		return a.AccountID.EncodeTo(e)
	case SCAddressTypeContract:
		e.WriteInt32(int32(a.Type))
		e.WriteFixedOpaque(a.ContractID[:])
		return nil
	}
	return errUnknownArm("SCAddress", int32(a.Type))
}

func (a *SCAddress) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*a = SCAddress{Type: SCAddressType(disc)}
	switch a.Type {
	case SCAddressTypeAccount:
		return a.AccountID.DecodeFrom(d)
	case SCAddressTypeContract:
		return a.ContractID.DecodeFrom(d)
	}
	return d.unknownArm("SCAddress", disc)
}

// InvokeContractArgs names a contract function call
type InvokeContractArgs struct {
	ContractAddress SCAddress
	FunctionName    string
	Args            []SCVal
}

func (a *InvokeContractArgs) EncodeTo(e *Encoder) error {
	if err := a.ContractAddress.EncodeTo(e); err != nil {
		return err
	}
	if err := checkLen("SCSymbol", len(a.FunctionName), MaxSymbolLength); err != nil {
		return err
	}
	e.WriteString(a.FunctionName)
	e.WriteArrayLen(len(a.Args))
	for i := range a.Args {
		if err := a.Args[i].EncodeTo(e); err != nil {
			return err
		}
	}
	return nil
}

func (a *InvokeContractArgs) DecodeFrom(d *Decoder) (err error) {
	if err = a.ContractAddress.DecodeFrom(d); err != nil {
		return err
	}
	if a.FunctionName, err = d.ReadString(MaxSymbolLength); err != nil {
		return err
	}
	n, err := d.ReadArrayLen(0)
	if err != nil {
		return err
	}
	a.Args = make([]SCVal, n)
	for i := range a.Args {
		if err := a.Args[i].DecodeFrom(d); err != nil {
			return err
		}
	}
	return nil
}

// SorobanAuthorizedFunctionType discriminates SorobanAuthorizedFunction.
// Contract creation arms are not supported.
type SorobanAuthorizedFunctionType int32

const SorobanAuthorizedFunctionTypeContractFn SorobanAuthorizedFunctionType = 0

// SorobanAuthorizedFunction is the function an authorization entry covers
type SorobanAuthorizedFunction struct {
	Type       SorobanAuthorizedFunctionType
	ContractFn *InvokeContractArgs
}

func (f *SorobanAuthorizedFunction) EncodeTo(e *Encoder) error {
	if f.Type != SorobanAuthorizedFunctionTypeContractFn {
		return errUnknownArm("SorobanAuthorizedFunction", int32(f.Type))
	}
	if f.ContractFn == nil {
		return errNilArm("SorobanAuthorizedFunction", int32(f.Type))
	}
	e.WriteInt32(int32(f.Type))
	return f.ContractFn.EncodeTo(e)
}

func (f *SorobanAuthorizedFunction) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*f = SorobanAuthorizedFunction{Type: SorobanAuthorizedFunctionType(disc)}
	if f.Type != SorobanAuthorizedFunctionTypeContractFn {
		return d.unknownArm("SorobanAuthorizedFunction", disc)
	}
	f.ContractFn = new(InvokeContractArgs)
	return f.ContractFn.DecodeFrom(d)
}

// SorobanAuthorizedInvocation is a tree of authorized calls
type SorobanAuthorizedInvocation struct {
	Function       SorobanAuthorizedFunction
	SubInvocations []SorobanAuthorizedInvocation
}

func (inv *SorobanAuthorizedInvocation) EncodeTo(e *Encoder) error {
	if err := inv.Function.EncodeTo(e); err != nil {
		return err
	}
	e.WriteArrayLen(len(inv.SubInvocations))
	for i := range inv.SubInvocations {
		if err := inv.SubInvocations[i].EncodeTo(e); err != nil {
			return err
		}
	}
	return nil
}

func (inv *SorobanAuthorizedInvocation) DecodeFrom(d *Decoder) error {
	if err := d.enter("SorobanAuthorizedInvocation"); err != nil {
		return err
	}
	defer d.leave()

	if err := inv.Function.DecodeFrom(d); err != nil {
		return err
	}
	n, err := d.ReadArrayLen(0)
	if err != nil {
		return err
	}
	inv.SubInvocations = make([]SorobanAuthorizedInvocation, n)
	for i := range inv.SubInvocations {
		if err := inv.SubInvocations[i].DecodeFrom(d); err != nil {
			return err
		}
	}
	return nil
}

// SorobanAddressCredentials authorize an invocation on behalf of Address
type SorobanAddressCredentials struct {
	Address                   SCAddress
	Nonce                     int64
	SignatureExpirationLedger uint32
	Signature                 SCVal
}

func (c *SorobanAddressCredentials) EncodeTo(e *Encoder) error {
	if err := c.Address.EncodeTo(e); err != nil {
		return err
	}
	e.WriteInt64(c.Nonce)
	e.WriteUint32(c.SignatureExpirationLedger)
	return c.Signature.EncodeTo(e)
}

func (c *SorobanAddressCredentials) DecodeFrom(d *Decoder) (err error) {
	if err = c.Address.DecodeFrom(d); err != nil {
		return err
	}
	if c.Nonce, err = d.ReadInt64(); err != nil {
		return err
	}
	if c.SignatureExpirationLedger, err = d.ReadUint32(); err != nil {
		return err
	}
	return c.Signature.DecodeFrom(d)
}

// SorobanCredentialsType discriminates SorobanCredentials
type SorobanCredentialsType int32

// credential types
const (
	SorobanCredentialsTypeSourceAccount SorobanCredentialsType = 0
	SorobanCredentialsTypeAddress       SorobanCredentialsType = 1
)

// SorobanCredentials are the transaction source or explicit address credentials
type SorobanCredentials struct {
	Type    SorobanCredentialsType
	Address *SorobanAddressCredentials
}

func (c *SorobanCredentials) EncodeTo(e *Encoder) error {
	switch c.Type {
	case SorobanCredentialsTypeSourceAccount:
		e.WriteInt32(int32(c.Type))
		return nil
	case SorobanCredentialsTypeAddress:
		if c.Address == nil {
			return errNilArm("SorobanCredentials", int32(c.Type))
		}
		e.WriteInt32(int32(c.Type))
		return c.Address.EncodeTo(e)
	}
	return errUnknownArm("SorobanCredentials", int32(c.Type))
}

func (c *SorobanCredentials) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*c = SorobanCredentials{Type: SorobanCredentialsType(disc)}
	switch c.Type {
	case SorobanCredentialsTypeSourceAccount:
		return nil
	case SorobanCredentialsTypeAddress:
		c.Address = new(SorobanAddressCredentials)
		return c.Address.DecodeFrom(d)
	}
	return d.unknownArm("SorobanCredentials", disc)
}

// SorobanAuthorizationEntry pairs credentials with the invocation they authorize
type SorobanAuthorizationEntry struct {
	Credentials    SorobanCredentials
	RootInvocation SorobanAuthorizedInvocation
}

func (a *SorobanAuthorizationEntry) EncodeTo(e *Encoder) error {
	if err := a.Credentials.EncodeTo(e); err != nil {
		return err
	}
	return a.RootInvocation.EncodeTo(e)
}

func (a *SorobanAuthorizationEntry) DecodeFrom(d *Decoder) error {
	if err := a.Credentials.DecodeFrom(d); err != nil {
		return err
	}
	return a.RootInvocation.DecodeFrom(d)
}

// SorobanAuthorizationEntries is the wire form of a list of entries
type SorobanAuthorizationEntries []SorobanAuthorizationEntry

func (s *SorobanAuthorizationEntries) EncodeTo(e *Encoder) error {
	e.WriteArrayLen(len(*s))
	for i := range *s {
		if err := (*s)[i].EncodeTo(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *SorobanAuthorizationEntries) DecodeFrom(d *Decoder) error {
	n, err := d.ReadArrayLen(0)
	if err != nil {
		return err
	}
	entries := make(SorobanAuthorizationEntries, n)
	for i := range entries {
		if err := entries[i].DecodeFrom(d); err != nil {
			return err
		}
	}
	*s = entries
	return nil
}

// HashIDPreimageSorobanAuthorization is the preimage hashed and signed by
// address credentials
type HashIDPreimageSorobanAuthorization struct {
	NetworkID                 Hash
	Nonce                     int64
	SignatureExpirationLedger uint32
	Invocation                SorobanAuthorizedInvocation
}

// HashIDPreimage is the domain-separated preimage of a signed contract
// authorization. Only the soroban authorization arm is supported.
type HashIDPreimage struct {
	Type                 EnvelopeType
	SorobanAuthorization *HashIDPreimageSorobanAuthorization
}

func (p *HashIDPreimage) EncodeTo(e *Encoder) error {
	if p.Type != EnvelopeTypeSorobanAuthorization {
		return errUnknownArm("HashIDPreimage", int32(p.Type))
	}
	a := p.SorobanAuthorization
	if a == nil {
		return errNilArm("HashIDPreimage", int32(p.Type))
	}
	e.WriteInt32(int32(p.Type))
	e.WriteFixedOpaque(a.NetworkID[:])
	e.WriteInt64(a.Nonce)
	e.WriteUint32(a.SignatureExpirationLedger)
	return a.Invocation.EncodeTo(e)
}

func (p *HashIDPreimage) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*p = HashIDPreimage{Type: EnvelopeType(disc)}
	if p.Type != EnvelopeTypeSorobanAuthorization {
		return d.unknownArm("HashIDPreimage", disc)
	}
	a := new(HashIDPreimageSorobanAuthorization)
	if err = a.NetworkID.DecodeFrom(d); err != nil {
		return err
	}
	if a.Nonce, err = d.ReadInt64(); err != nil {
		return err
	}
	if a.SignatureExpirationLedger, err = d.ReadUint32(); err != nil {
		return err
	}
	if err = a.Invocation.DecodeFrom(d); err != nil {
		return err
	}
	p.SorobanAuthorization = a
	return nil
}
