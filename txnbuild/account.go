package txnbuild

// Account is a snapshot of a source account: its address and the sequence
// number of the last transaction it submitted.
type Account interface {
	GetAccountID() string
	GetSequenceNumber() int64
}

// SimpleAccount is an Account held in memory
type SimpleAccount struct {
	AccountID string
	Sequence  int64
}

// NewSimpleAccount returns an account snapshot
func NewSimpleAccount(accountID string, sequence int64) SimpleAccount {
	return SimpleAccount{AccountID: accountID, Sequence: sequence}
}

func (sa SimpleAccount) GetAccountID() string {
	return sa.AccountID
}

func (sa SimpleAccount) GetSequenceNumber() int64 {
	return sa.Sequence
}

// Next returns the snapshot after a transaction from this account has
// been applied
func (sa SimpleAccount) Next() SimpleAccount {
	return SimpleAccount{AccountID: sa.AccountID, Sequence: sa.Sequence + 1}
}
