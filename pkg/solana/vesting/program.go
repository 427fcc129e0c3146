// Package token_vesting implements the token vesting program: an escrowed pool
// of fungible tokens released to a destination according to a schedule of
// (release time, amount) pairs, with the current destination able to redirect
// future releases.
//
// The vesting contract account is a program-derived address computed from an
// opaque seed, and the paired escrow token account is owned by that derived
// address, so only program logic can move funds out of escrow.
package token_vesting

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("SoLi39YzAM2zEXcecy77VGbxLB5yHryNckY9Jx7yBKM")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

// AccountMeta represents the account information required
// for building transactions.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsWritable bool
	IsSigner   bool
}

// Instruction represents a transaction instruction.
type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

// AccountInfo is the processor's view of one account in an invocation: its
// address, the program that owns it, its data region, and whether the
// transaction was signed for it.
type AccountInfo struct {
	Key      ed25519.PublicKey
	Owner    ed25519.PublicKey
	Data     []byte
	IsSigner bool
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
