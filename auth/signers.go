package auth

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/anyswap/Stellar-SDK/keypair"
)

// UniqueSigners drops nil keypairs and keypairs whose address was already
// seen, keeping the order of first appearance
func UniqueSigners(signers ...*keypair.KP) []*keypair.KP {
	seen := mapset.NewSet()
	out := make([]*keypair.KP, 0, len(signers))
	for _, kp := range signers {
		if kp == nil || !seen.Add(kp.Address()) {
			continue
		}
		out = append(out, kp)
	}
	return out
}
