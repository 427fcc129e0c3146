package token_vesting

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/token-vesting/pkg/solana/token"
)

func fuzzSeedCorpus() [][]byte {
	seed := bytes.Repeat([]byte{7}, 32)
	mint := bytes.Repeat([]byte{8}, 32)
	destination := bytes.Repeat([]byte{9}, 32)

	return [][]byte{
		(&InitInstruction{Seed: seed, NumberOfSchedules: 2}).Marshal(),
		(&CreateInstruction{
			Seed:        seed,
			Mint:        mint,
			Destination: destination,
			Schedules:   []Schedule{{ReleaseTime: 10, Amount: 100}, {ReleaseTime: 20, Amount: 200}},
		}).Marshal(),
		(&UnlockInstruction{Seed: seed}).Marshal(),
		(&ChangeDestinationInstruction{Seed: seed}).Marshal(),
		(&EmptyInstruction{}).Marshal(),
		{0xff, 0x00, 0x01},
		{},
	}
}

// FuzzUnpackInstruction asserts decoder totality: for any byte buffer the
// decoder either produces a variant or returns ErrMalformedInstruction, and
// every successful decode survives a re-encode round trip.
func FuzzUnpackInstruction(f *testing.F) {
	for _, corpus := range fuzzSeedCorpus() {
		f.Add(corpus)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		unpacked, err := UnpackInstruction(data)
		if err != nil {
			assert.ErrorIs(t, err, ErrMalformedInstruction)
			return
		}

		repacked := unpacked.Marshal()
		again, err := UnpackInstruction(repacked)
		require.NoError(t, err)
		assert.Equal(t, unpacked, again)
	})
}

// FuzzProcess drives arbitrary instruction buffers through the full processor
// against a live contract. The processor must never panic, an error return
// must leave the vesting account image untouched, and token supply must be
// conserved by every outcome.
func FuzzProcess(f *testing.F) {
	for _, corpus := range fuzzSeedCorpus() {
		f.Add(corpus, uint64(15), true)
	}
	f.Add((&UnlockInstruction{Seed: bytes.Repeat([]byte{7}, 32)}).Marshal(), uint64(25), false)

	f.Fuzz(func(t *testing.T, data []byte, now uint64, withContract bool) {
		program := ed25519.PublicKey(bytes.Repeat([]byte{3}, 32))
		mint := ed25519.PublicKey(bytes.Repeat([]byte{8}, 32))
		seed := bytes.Repeat([]byte{7}, 32)

		vestingKey, _, err := DeriveVestingAccount(program, seed)
		require.NoError(t, err)

		vesting := &AccountInfo{
			Key:   vestingKey,
			Owner: program,
			Data:  make([]byte, StateSize(2)),
		}
		if withContract {
			destinationKey := ed25519.PublicKey(bytes.Repeat([]byte{9}, 32))
			header := VestingHeader{Destination: destinationKey, Mint: mint, IsInitialized: true}
			copy(vesting.Data[:HeaderSize], header.Marshal())
			require.NoError(t, PackSchedulesInto([]Schedule{
				{ReleaseTime: 10, Amount: 100},
				{ReleaseTime: 20, Amount: 200},
			}, vesting.Data[HeaderSize:]))
		}

		sourceOwnerKey := ed25519.PublicKey(bytes.Repeat([]byte{4}, 32))
		escrow := &AccountInfo{
			Key:  ed25519.PublicKey(bytes.Repeat([]byte{5}, 32)),
			Data: token.NewAccountData(mint, vestingKey, 300),
		}
		source := &AccountInfo{
			Key:  ed25519.PublicKey(bytes.Repeat([]byte{6}, 32)),
			Data: token.NewAccountData(mint, sourceOwnerKey, 1000),
		}
		sourceOwner := &AccountInfo{Key: sourceOwnerKey, IsSigner: true}
		destination := &AccountInfo{
			Key:  ed25519.PublicKey(bytes.Repeat([]byte{9}, 32)),
			Data: token.NewAccountData(mint, sourceOwnerKey, 0),
		}

		ledger := token.NewLedger()
		ledger.AddAccount(escrow.Key, escrow.Data)
		ledger.AddAccount(source.Key, source.Data)
		ledger.AddAccount(destination.Key, destination.Data)

		supply := func() uint64 {
			return ledger.Balance(escrow.Key) + ledger.Balance(source.Key) + ledger.Balance(destination.Key)
		}

		processor := NewProcessor(ledger, ClockFunc(func() (uint64, error) {
			return now, nil
		}))

		// The account list covers every instruction's expectations; extra
		// trailing accounts are ignored by each handler.
		accounts := []*AccountInfo{vesting, escrow, sourceOwner, source, destination}
		if decoded, err := UnpackInstruction(data); err == nil {
			switch decoded.Command() {
			case CommandInit:
				accounts = []*AccountInfo{sourceOwner, vesting}
			case CommandUnlock:
				accounts = []*AccountInfo{vesting, escrow, destination}
			case CommandChangeDestination:
				accounts = []*AccountInfo{vesting, destination, sourceOwner, source}
			}
		}

		supplyBefore := supply()
		vestingBefore := make([]byte, len(vesting.Data))
		copy(vestingBefore, vesting.Data)

		err = processor.Process(program, accounts, data)

		assert.Equal(t, supplyBefore, supply())
		if err != nil {
			assert.Equal(t, vestingBefore, vesting.Data)
		}
	})
}
