package txnbuild

import "errors"

// builder and signing errors
var (
	ErrNoOperations         = errors.New("transaction has no operations")
	ErrTooManyOperations    = errors.New("transaction has too many operations")
	ErrNoSourceAccount      = errors.New("transaction has no source account")
	ErrBaseFeeTooLow        = errors.New("base fee is lower than network minimum")
	ErrFeeOverflow          = errors.New("fee overflows")
	ErrFeeBumpBaseFeeTooLow = errors.New("fee-bump base fee must exceed the inner transaction base fee")
	ErrInnerNotSigned       = errors.New("inner transaction must be signed before fee-bump")
	ErrInvalidOperation     = errors.New("invalid operation")
	ErrInvalidAsset         = errors.New("invalid asset")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInvalidMemo          = errors.New("invalid memo")
	ErrInvalidTimeBounds    = errors.New("invalid time bounds")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrNotTransaction       = errors.New("envelope is a fee-bump transaction")
	ErrNotFeeBump           = errors.New("envelope is not a fee-bump transaction")
)
