package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub
}

func TestLedger_Transfer(t *testing.T) {
	mint := generateKey(t)
	alice := generateKey(t)
	bob := generateKey(t)
	aliceToken := generateKey(t)
	bobToken := generateKey(t)

	ledger := NewLedger()
	ledger.AddAccount(aliceToken, NewAccountData(mint, alice, 100))
	ledger.AddAccount(bobToken, NewAccountData(mint, bob, 0))

	require.NoError(t, ledger.Transfer(aliceToken, bobToken, alice, 60))
	assert.EqualValues(t, 40, ledger.Balance(aliceToken))
	assert.EqualValues(t, 60, ledger.Balance(bobToken))

	// Balance changes are visible through the originally registered buffers.
	account, ok := ledger.GetAccount(aliceToken)
	require.True(t, ok)
	assert.EqualValues(t, 40, account.Amount)
}

func TestLedger_TransferFailuresLeaveStateUntouched(t *testing.T) {
	mint := generateKey(t)
	otherMint := generateKey(t)
	alice := generateKey(t)
	bob := generateKey(t)
	aliceToken := generateKey(t)
	bobToken := generateKey(t)
	otherToken := generateKey(t)

	ledger := NewLedger()
	ledger.AddAccount(aliceToken, NewAccountData(mint, alice, 100))
	ledger.AddAccount(bobToken, NewAccountData(mint, bob, math.MaxUint64))
	ledger.AddAccount(otherToken, NewAccountData(otherMint, bob, 0))

	assert.Equal(t, ErrAccountNotFound, ledger.Transfer(generateKey(t), bobToken, alice, 1))
	assert.Equal(t, ErrAccountNotFound, ledger.Transfer(aliceToken, generateKey(t), alice, 1))
	assert.Equal(t, ErrOwnerMismatch, ledger.Transfer(aliceToken, bobToken, bob, 1))
	assert.Equal(t, ErrMintMismatch, ledger.Transfer(aliceToken, otherToken, alice, 1))
	assert.Equal(t, ErrInsufficientBalance, ledger.Transfer(aliceToken, bobToken, alice, 101))
	assert.Equal(t, ErrBalanceOverflow, ledger.Transfer(aliceToken, bobToken, alice, 1))

	assert.EqualValues(t, 100, ledger.Balance(aliceToken))
	assert.EqualValues(t, uint64(math.MaxUint64), ledger.Balance(bobToken))
}

func TestLedger_VerifyOwner(t *testing.T) {
	mint := generateKey(t)
	alice := generateKey(t)
	aliceToken := generateKey(t)

	ledger := NewLedger()
	ledger.AddAccount(aliceToken, NewAccountData(mint, alice, 1))

	assert.True(t, ledger.VerifyOwner(aliceToken, alice))
	assert.False(t, ledger.VerifyOwner(aliceToken, generateKey(t)))
	assert.False(t, ledger.VerifyOwner(generateKey(t), alice))
}
