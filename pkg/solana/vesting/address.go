package token_vesting

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/token-vesting/pkg/solana"
)

// MinSeedLength is the minimum contract seed length, enforced so a derivation
// always carries at least 256 bits of caller-chosen entropy.
const MinSeedLength = 32

// DeriveVestingAccount computes the vesting contract address (which is also
// the escrow token account's authority) for a seed, along with the bump that
// pushed it off the ed25519 curve. The derivation is a pure function of the
// program id and seed; no private key is involved.
func DeriveVestingAccount(program ed25519.PublicKey, seed []byte) (ed25519.PublicKey, uint8, error) {
	if len(seed) < MinSeedLength {
		return nil, 0, ErrInvalidDerivation
	}

	address, bump, err := solana.FindProgramAddressAndBump(program, chunkSeed(seed)...)
	if err != nil {
		return nil, 0, err
	}
	if address == nil {
		return nil, 0, ErrInvalidDerivation
	}
	return address, bump, nil
}

// VerifyVestingAccount recomputes the derivation for seed and compares it to
// the supplied address. This check gates every capability-sensitive operation.
func VerifyVestingAccount(program, address ed25519.PublicKey, seed []byte) error {
	derived, _, err := DeriveVestingAccount(program, seed)
	if err != nil {
		return err
	}
	if !bytes.Equal(derived, address) {
		return ErrInvalidDerivation
	}
	return nil
}

// chunkSeed splits an opaque seed into the 32-byte-max seed list accepted by
// the program-address derivation. A u8-length seed splits into at most 8
// chunks, comfortably below the derivation's seed-count limit.
func chunkSeed(seed []byte) [][]byte {
	var chunks [][]byte
	for len(seed) > 0 {
		n := len(seed)
		if n > 32 {
			n = 32
		}
		chunks = append(chunks, seed[:n])
		seed = seed[n:]
	}
	return chunks
}
