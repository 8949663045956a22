package txnbuild

import (
	"fmt"

	"github.com/anyswap/Stellar-SDK/xdr"
)

// MemoNone returns the empty memo
func MemoNone() xdr.Memo {
	return xdr.Memo{Type: xdr.MemoTypeNone}
}

// MemoText returns a text memo of at most 28 bytes
func MemoText(text string) (xdr.Memo, error) {
	if len(text) > xdr.MaxMemoTextLength {
		return xdr.Memo{}, fmt.Errorf("%w: text is %d bytes, limit %d", ErrInvalidMemo, len(text), xdr.MaxMemoTextLength)
	}
	return xdr.Memo{Type: xdr.MemoTypeText, Text: &text}, nil
}

// MemoID returns an id memo
func MemoID(id uint64) xdr.Memo {
	return xdr.Memo{Type: xdr.MemoTypeID, ID: &id}
}

// MemoHash returns a hash memo
func MemoHash(hash [32]byte) xdr.Memo {
	h := xdr.Hash(hash)
	return xdr.Memo{Type: xdr.MemoTypeHash, Hash: &h}
}

// MemoReturn returns a return-hash memo
func MemoReturn(hash [32]byte) xdr.Memo {
	h := xdr.Hash(hash)
	return xdr.Memo{Type: xdr.MemoTypeReturn, RetHash: &h}
}
