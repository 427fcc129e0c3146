package token

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"math"

	"github.com/mr-tron/base58/base58"
	"github.com/sirupsen/logrus"
)

var (
	ErrAccountNotFound     = errors.New("token account not found")
	ErrInvalidAccount      = errors.New("invalid token account data")
	ErrOwnerMismatch       = errors.New("authority does not own source account")
	ErrMintMismatch        = errors.New("source and destination mints differ")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrBalanceOverflow     = errors.New("destination balance overflow")
)

// Ledger is an in-memory token-transfer capability operating directly on SPL
// token account byte images. Account data slices are aliased, not copied, so
// balance changes are observable through the original buffers.
//
// Both balances for a transfer are validated before either account image is
// rewritten, so a failed transfer leaves every account byte-identical.
type Ledger struct {
	log      *logrus.Entry
	accounts map[string][]byte
}

func NewLedger() *Ledger {
	return &Ledger{
		log:      logrus.StandardLogger().WithField("type", "token/ledger"),
		accounts: make(map[string][]byte),
	}
}

// AddAccount registers an account byte image under its address. The slice is
// retained as-is.
func (l *Ledger) AddAccount(key ed25519.PublicKey, data []byte) {
	l.accounts[string(key)] = data
}

// GetAccount unmarshals the current image of the account, if it exists.
func (l *Ledger) GetAccount(key ed25519.PublicKey) (*Account, bool) {
	data, ok := l.accounts[string(key)]
	if !ok {
		return nil, false
	}

	var account Account
	if !account.Unmarshal(data) {
		return nil, false
	}
	return &account, true
}

// Balance returns the token balance of the account, or zero if it doesn't exist.
func (l *Ledger) Balance(key ed25519.PublicKey) uint64 {
	account, ok := l.GetAccount(key)
	if !ok {
		return 0
	}
	return account.Amount
}

// Transfer moves amount from source to destination, provided authority owns
// the source account and both accounts share a mint.
func (l *Ledger) Transfer(source, destination, authority ed25519.PublicKey, amount uint64) error {
	log := l.log.WithFields(logrus.Fields{
		"method": "Transfer",
		"source": base58.Encode(source),
		"amount": amount,
	})

	sourceData, ok := l.accounts[string(source)]
	if !ok {
		return ErrAccountNotFound
	}
	destinationData, ok := l.accounts[string(destination)]
	if !ok {
		return ErrAccountNotFound
	}

	var sourceAccount, destinationAccount Account
	if !sourceAccount.Unmarshal(sourceData) || !destinationAccount.Unmarshal(destinationData) {
		return ErrInvalidAccount
	}

	if !bytes.Equal(sourceAccount.Owner, authority) {
		return ErrOwnerMismatch
	}
	if !bytes.Equal(sourceAccount.Mint, destinationAccount.Mint) {
		return ErrMintMismatch
	}
	if sourceAccount.Amount < amount {
		return ErrInsufficientBalance
	}
	if destinationAccount.Amount > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}

	sourceAccount.Amount -= amount
	destinationAccount.Amount += amount

	copy(sourceData, sourceAccount.Marshal())
	copy(destinationData, destinationAccount.Marshal())

	log.WithField("destination", base58.Encode(destination)).Debug("transferred tokens")
	return nil
}

// VerifyOwner reports whether the account exists and is owned by expectedOwner.
func (l *Ledger) VerifyOwner(account, expectedOwner ed25519.PublicKey) bool {
	unmarshalled, ok := l.GetAccount(account)
	if !ok {
		return false
	}
	return bytes.Equal(unmarshalled.Owner, expectedOwner)
}
