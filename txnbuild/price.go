package txnbuild

import (
	"fmt"
	"math"
	"math/big"

	"github.com/anyswap/Stellar-SDK/xdr"
	"github.com/shopspring/decimal"
)

// ParsePrice converts a decimal price such as "1.25" into the closest
// fraction whose numerator and denominator fit in an int32
func ParsePrice(p string) (xdr.Price, error) {
	d, err := decimal.NewFromString(p)
	if err != nil {
		return xdr.Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, p)
	}
	if !d.IsPositive() {
		return xdr.Price{}, fmt.Errorf("%w: %q must be positive", ErrInvalidPrice, p)
	}
	n, den, ok := continuedFraction(d.Rat())
	if !ok {
		return xdr.Price{}, fmt.Errorf("%w: %q cannot be approximated", ErrInvalidPrice, p)
	}
	return xdr.Price{N: n, D: den}, nil
}

// continuedFraction walks the convergents of number while both terms fit
// in an int32 and returns the last one
func continuedFraction(number *big.Rat) (int32, int32, bool) {
	max := big.NewInt(math.MaxInt32)
	maxRat := new(big.Rat).SetInt(max)
	// h[i-2], h[i-1], k[i-2], k[i-1]
	h0, h1 := big.NewInt(0), big.NewInt(1)
	k0, k1 := big.NewInt(1), big.NewInt(0)
	x := new(big.Rat).Set(number)
	found := false
	for x.Cmp(maxRat) <= 0 {
		a := new(big.Int).Quo(x.Num(), x.Denom())
		h := new(big.Int).Add(new(big.Int).Mul(a, h1), h0)
		k := new(big.Int).Add(new(big.Int).Mul(a, k1), k0)
		if h.Cmp(max) > 0 || k.Cmp(max) > 0 {
			break
		}
		h0, h1 = h1, h
		k0, k1 = k1, k
		found = true

		f := new(big.Rat).Sub(x, new(big.Rat).SetInt(a))
		if f.Sign() == 0 {
			break
		}
		x = f.Inv(f)
	}
	if !found || h1.Sign() == 0 || k1.Sign() == 0 {
		return 0, 0, false
	}
	return int32(h1.Int64()), int32(k1.Int64()), true
}

// PriceString formats a price as a decimal with seven places
func PriceString(p xdr.Price) string {
	if p.D == 0 {
		return "0"
	}
	return decimal.NewFromInt32(p.N).DivRound(decimal.NewFromInt32(p.D), 7).StringFixed(7)
}
