package token_vesting

import "errors"

var (
	// ErrMalformedInstruction is returned by the instruction decoder for any
	// buffer that isn't a well-formed encoding: short buffers, unknown
	// discriminants, or declared lengths that read past the end.
	ErrMalformedInstruction = errors.New("malformed instruction")

	// ErrInvalidAccountData is returned when a persisted account image doesn't
	// match its expected layout, or an account isn't controlled by the program.
	ErrInvalidAccountData = errors.New("invalid account data")

	// ErrNotEnoughAccounts is returned when an instruction is invoked with
	// fewer accounts than it documents.
	ErrNotEnoughAccounts = errors.New("not enough accounts")

	ErrInvalidDerivation   = errors.New("address does not match seed derivation")
	ErrAlreadyInitialized  = errors.New("vesting contract already initialized")
	ErrAccountSizeMismatch = errors.New("vesting account size mismatch")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidMint         = errors.New("invalid mint")
	ErrAmountOverflow      = errors.New("schedule amount overflow")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrClockUnavailable    = errors.New("clock unavailable")

	// ErrNothingToUnlock is returned by Unlock when no schedule has reached
	// its release time. The contract state is left untouched; callers may
	// treat it as a benign no-op.
	ErrNothingToUnlock = errors.New("nothing to unlock")
)

// VestingErrorCode is the numeric form of a program failure, for surfacing
// typed errors through the runtime's custom-error channel.
type VestingErrorCode uint32

const (
	ErrorMalformedInstruction VestingErrorCode = iota
	ErrorInvalidAccountData
	ErrorNotEnoughAccounts
	ErrorInvalidDerivation
	ErrorAlreadyInitialized
	ErrorAccountSizeMismatch
	ErrorInsufficientFunds
	ErrorInvalidMint
	ErrorAmountOverflow
	ErrorUnauthorized
	ErrorClockUnavailable
	ErrorNothingToUnlock

	ErrorUnknown = VestingErrorCode(^uint32(0))
)

var errorCodes = map[error]VestingErrorCode{
	ErrMalformedInstruction: ErrorMalformedInstruction,
	ErrInvalidAccountData:   ErrorInvalidAccountData,
	ErrNotEnoughAccounts:    ErrorNotEnoughAccounts,
	ErrInvalidDerivation:    ErrorInvalidDerivation,
	ErrAlreadyInitialized:   ErrorAlreadyInitialized,
	ErrAccountSizeMismatch:  ErrorAccountSizeMismatch,
	ErrInsufficientFunds:    ErrorInsufficientFunds,
	ErrInvalidMint:          ErrorInvalidMint,
	ErrAmountOverflow:       ErrorAmountOverflow,
	ErrUnauthorized:         ErrorUnauthorized,
	ErrClockUnavailable:     ErrorClockUnavailable,
	ErrNothingToUnlock:      ErrorNothingToUnlock,
}

// ErrorCode maps a processor or decoder error to its wire-level code.
func ErrorCode(err error) VestingErrorCode {
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ErrorUnknown
}
