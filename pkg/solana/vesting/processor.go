package token_vesting

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/token-vesting/pkg/solana/token"
)

// TokenTransferGateway is the external capability for moving token balances
// and checking token account ownership. The program never moves funds itself;
// it proves control of the escrow via the seed derivation and delegates the
// balance change here.
type TokenTransferGateway interface {
	Transfer(source, destination, authority ed25519.PublicKey, amount uint64) error
	VerifyOwner(account, expectedOwner ed25519.PublicKey) bool
}

// Clock is the trusted time source. Release times are always compared against
// this value, never against anything in the instruction payload.
type Clock interface {
	Unix() (uint64, error)
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() (uint64, error)

func (f ClockFunc) Unix() (uint64, error) { return f() }

// Processor executes decoded instructions against account state. Every
// invocation validates all preconditions, including the gateway transfer,
// before writing a single account byte, so an error return always leaves the
// account images untouched.
type Processor struct {
	log     *logrus.Entry
	gateway TokenTransferGateway
	clock   Clock
}

func NewProcessor(gateway TokenTransferGateway, clock Clock) *Processor {
	return &Processor{
		log:     logrus.StandardLogger().WithField("type", "vesting/processor"),
		gateway: gateway,
		clock:   clock,
	}
}

// Process decodes and executes one instruction.
func (p *Processor) Process(program ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	instruction, err := UnpackInstruction(data)
	if err != nil {
		return err
	}

	log := p.log.WithField("command", instruction.Command().String())
	log.Debug("processing instruction")

	switch typed := instruction.(type) {
	case *EmptyInstruction:
		return nil
	case *InitInstruction:
		return p.processInit(program, accounts, typed)
	case *CreateInstruction:
		return p.processCreate(program, accounts, typed)
	case *UnlockInstruction:
		return p.processUnlock(program, accounts, typed)
	case *ChangeDestinationInstruction:
		return p.processChangeDestination(program, accounts, typed)
	}

	return ErrMalformedInstruction
}

func (p *Processor) processInit(program ed25519.PublicKey, accounts []*AccountInfo, args *InitInstruction) error {
	log := p.log.WithField("method", "processInit")

	if len(accounts) < 2 {
		return ErrNotEnoughAccounts
	}
	payer, vesting := accounts[0], accounts[1]

	if !payer.IsSigner {
		return errors.Wrap(ErrUnauthorized, "payer must sign")
	}
	if err := VerifyVestingAccount(program, vesting.Key, args.Seed); err != nil {
		return err
	}
	if !bytes.Equal(vesting.Owner, program) {
		return errors.Wrap(ErrInvalidAccountData, "vesting account not owned by program")
	}

	if len(vesting.Data) != StateSize(args.NumberOfSchedules) {
		return ErrAccountSizeMismatch
	}
	if initialized(vesting.Data) {
		return ErrAlreadyInitialized
	}

	// Claim the account: the whole region starts zeroed so Create observes a
	// clean, uninitialized image.
	for i := range vesting.Data {
		vesting.Data[i] = 0
	}

	log.WithField("schedules", args.NumberOfSchedules).Debug("claimed vesting account")
	return nil
}

func (p *Processor) processCreate(program ed25519.PublicKey, accounts []*AccountInfo, args *CreateInstruction) error {
	log := p.log.WithField("method", "processCreate")

	if len(accounts) < 4 {
		return ErrNotEnoughAccounts
	}
	vesting, escrow, sourceOwner, source := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := VerifyVestingAccount(program, vesting.Key, args.Seed); err != nil {
		return err
	}
	if !sourceOwner.IsSigner {
		return errors.Wrap(ErrUnauthorized, "source token account owner must sign")
	}
	if !bytes.Equal(vesting.Owner, program) {
		return errors.Wrap(ErrInvalidAccountData, "vesting account not owned by program")
	}

	if len(vesting.Data) < HeaderSize {
		return ErrInvalidAccountData
	}
	if initialized(vesting.Data) {
		return ErrAlreadyInitialized
	}
	if len(vesting.Data) != HeaderSize+len(args.Schedules)*ScheduleSize {
		return ErrAccountSizeMismatch
	}

	var escrowAccount token.Account
	if !escrowAccount.Unmarshal(escrow.Data) {
		return errors.Wrap(ErrInvalidAccountData, "escrow token account")
	}

	// Escrow custody: the escrow token account's spending authority must be
	// the derived vesting address, and nothing else may be able to move or
	// close it.
	if !bytes.Equal(escrowAccount.Owner, vesting.Key) {
		return errors.Wrap(ErrInvalidDerivation, "escrow authority is not the vesting account")
	}
	if len(escrowAccount.Delegate) > 0 {
		return errors.Wrap(ErrInvalidAccountData, "escrow token account has a delegate")
	}
	if len(escrowAccount.CloseAuthority) > 0 {
		return errors.Wrap(ErrInvalidAccountData, "escrow token account has a close authority")
	}
	if !bytes.Equal(escrowAccount.Mint, args.Mint) {
		return ErrInvalidMint
	}

	var sourceAccount token.Account
	if !sourceAccount.Unmarshal(source.Data) {
		return errors.Wrap(ErrInvalidAccountData, "source token account")
	}
	if !bytes.Equal(sourceAccount.Mint, args.Mint) {
		return ErrInvalidMint
	}
	if !p.gateway.VerifyOwner(source.Key, sourceOwner.Key) {
		return errors.Wrap(ErrUnauthorized, "signer does not own source token account")
	}

	var total uint64
	for _, s := range args.Schedules {
		var ok bool
		if total, ok = checkedAdd(total, s.Amount); !ok {
			return ErrAmountOverflow
		}
	}
	if sourceAccount.Amount < total {
		return ErrInsufficientFunds
	}

	if err := p.gateway.Transfer(source.Key, escrow.Key, sourceOwner.Key, total); err != nil {
		return errors.Wrap(err, "failed to fund escrow")
	}

	header := VestingHeader{
		Destination:   args.Destination,
		Mint:          args.Mint,
		IsInitialized: true,
	}
	copy(vesting.Data[:HeaderSize], header.Marshal())
	if err := PackSchedulesInto(args.Schedules, vesting.Data[HeaderSize:]); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"schedules": len(args.Schedules),
		"total":     total,
	}).Debug("created vesting contract")
	return nil
}

func (p *Processor) processUnlock(program ed25519.PublicKey, accounts []*AccountInfo, args *UnlockInstruction) error {
	log := p.log.WithField("method", "processUnlock")

	if len(accounts) < 3 {
		return ErrNotEnoughAccounts
	}
	vesting, escrow, destination := accounts[0], accounts[1], accounts[2]

	if err := VerifyVestingAccount(program, vesting.Key, args.Seed); err != nil {
		return err
	}
	if !bytes.Equal(vesting.Owner, program) {
		return errors.Wrap(ErrInvalidAccountData, "vesting account not owned by program")
	}

	var header VestingHeader
	if err := header.Unmarshal(vesting.Data); err != nil {
		return err
	}
	if !header.IsInitialized {
		return errors.Wrap(ErrInvalidAccountData, "vesting contract not initialized")
	}
	if !bytes.Equal(header.Destination, destination.Key) {
		return errors.Wrap(ErrUnauthorized, "destination does not match contract")
	}

	var escrowAccount token.Account
	if !escrowAccount.Unmarshal(escrow.Data) {
		return errors.Wrap(ErrInvalidAccountData, "escrow token account")
	}
	if !bytes.Equal(escrowAccount.Owner, vesting.Key) {
		return errors.Wrap(ErrInvalidDerivation, "escrow authority is not the vesting account")
	}

	now, err := p.clock.Unix()
	if err != nil {
		return errors.Wrap(ErrClockUnavailable, err.Error())
	}

	schedules, err := UnpackSchedules(vesting.Data[HeaderSize:])
	if err != nil {
		return err
	}

	// Every slot is evaluated on every call; due amounts are summed into a
	// single transfer and then zeroed in place. A release time equal to now
	// is due (inclusive boundary).
	var total uint64
	for i := range schedules {
		if schedules[i].ReleaseTime <= now {
			var ok bool
			if total, ok = checkedAdd(total, schedules[i].Amount); !ok {
				return ErrAmountOverflow
			}
			schedules[i].Amount = 0
		}
	}
	if total == 0 {
		return ErrNothingToUnlock
	}
	if escrowAccount.Amount < total {
		return ErrInsufficientFunds
	}

	if err := p.gateway.Transfer(escrow.Key, destination.Key, vesting.Key, total); err != nil {
		return errors.Wrap(err, "failed to release escrow")
	}

	if err := PackSchedulesInto(schedules, vesting.Data[HeaderSize:]); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"now":    now,
		"amount": total,
	}).Debug("released vested tokens")
	return nil
}

func (p *Processor) processChangeDestination(program ed25519.PublicKey, accounts []*AccountInfo, args *ChangeDestinationInstruction) error {
	log := p.log.WithField("method", "processChangeDestination")

	if len(accounts) < 4 {
		return ErrNotEnoughAccounts
	}
	vesting, currentDestination, currentOwner, newDestination := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := VerifyVestingAccount(program, vesting.Key, args.Seed); err != nil {
		return err
	}
	if !bytes.Equal(vesting.Owner, program) {
		return errors.Wrap(ErrInvalidAccountData, "vesting account not owned by program")
	}

	var header VestingHeader
	if err := header.Unmarshal(vesting.Data); err != nil {
		return err
	}
	if !header.IsInitialized {
		return errors.Wrap(ErrInvalidAccountData, "vesting contract not initialized")
	}

	// The capability is ownership of the current destination: the supplied
	// account must be the contract's destination, and the signer must own it.
	if !bytes.Equal(header.Destination, currentDestination.Key) {
		return errors.Wrap(ErrUnauthorized, "current destination does not match contract")
	}
	if !currentOwner.IsSigner {
		return errors.Wrap(ErrUnauthorized, "current destination owner must sign")
	}
	if !p.gateway.VerifyOwner(currentDestination.Key, currentOwner.Key) {
		return errors.Wrap(ErrUnauthorized, "signer does not own current destination")
	}

	header.Destination = newDestination.Key
	copy(vesting.Data[:HeaderSize], header.Marshal())

	log.Debug("changed contract destination")
	return nil
}

func initialized(data []byte) bool {
	return len(data) >= HeaderSize && data[HeaderSize-1] != 0
}
