package token_vesting

import (
	"crypto/ed25519"
)

type InitInstructionAccounts struct {
	Payer          ed25519.PublicKey
	VestingAccount ed25519.PublicKey
}

// NewInitInstruction builds the transaction instruction claiming a vesting
// account sized for the given number of schedules.
func NewInitInstruction(
	accounts *InitInstructionAccounts,
	args *InitInstruction,
) Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[signer]` The fee payer account
	//   1. `[writable]` The vesting account
	return Instruction{
		Program: PROGRAM_ID,
		Data:    args.Marshal(),
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.Payer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.VestingAccount,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

type CreateInstructionAccounts struct {
	VestingAccount     ed25519.PublicKey
	EscrowTokenAccount ed25519.PublicKey
	SourceOwner        ed25519.PublicKey
	SourceTokenAccount ed25519.PublicKey
}

// NewCreateInstruction builds the transaction instruction writing the
// contract schedules and funding the escrow token account.
func NewCreateInstruction(
	accounts *CreateInstructionAccounts,
	args *CreateInstruction,
) Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The vesting account
	//   1. `[writable]` The escrow token account
	//   2. `[signer]` The source token account owner
	//   3. `[writable]` The source token account
	return Instruction{
		Program: PROGRAM_ID,
		Data:    args.Marshal(),
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.VestingAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.EscrowTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SourceOwner,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.SourceTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

type UnlockInstructionAccounts struct {
	VestingAccount          ed25519.PublicKey
	EscrowTokenAccount      ed25519.PublicKey
	DestinationTokenAccount ed25519.PublicKey
}

// NewUnlockInstruction builds the transaction instruction releasing every
// schedule whose release time has passed.
func NewUnlockInstruction(
	accounts *UnlockInstructionAccounts,
	args *UnlockInstruction,
) Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The vesting account
	//   1. `[writable]` The escrow token account
	//   2. `[writable]` The destination token account
	return Instruction{
		Program: PROGRAM_ID,
		Data:    args.Marshal(),
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.VestingAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.EscrowTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DestinationTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

type ChangeDestinationInstructionAccounts struct {
	VestingAccount                 ed25519.PublicKey
	CurrentDestinationTokenAccount ed25519.PublicKey
	CurrentDestinationOwner        ed25519.PublicKey
	NewDestinationTokenAccount     ed25519.PublicKey
}

// NewChangeDestinationInstruction builds the transaction instruction
// redirecting future releases, signed by the current destination's owner.
func NewChangeDestinationInstruction(
	accounts *ChangeDestinationInstructionAccounts,
	args *ChangeDestinationInstruction,
) Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The vesting account
	//   1. `[]` The current destination token account
	//   2. `[signer]` The current destination token account owner
	//   3. `[]` The new destination token account
	return Instruction{
		Program: PROGRAM_ID,
		Data:    args.Marshal(),
		Accounts: []AccountMeta{
			{
				PublicKey:  accounts.VestingAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CurrentDestinationTokenAccount,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CurrentDestinationOwner,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.NewDestinationTokenAccount,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
