package token_vesting

import (
	"crypto/ed25519"
)

const (
	// HeaderSize is the byte length of the vesting contract header:
	// destination (32) | mint (32) | is_initialized (1).
	HeaderSize = 65

	// ScheduleSize is the byte length of one schedule slot:
	// release_time (8) | amount (8), both little-endian.
	ScheduleSize = 16
)

// Schedule is one release slot: at ReleaseTime (unix seconds, inclusive),
// Amount becomes claimable. Unlock zeroes Amount once it has been released;
// ReleaseTime is retained so the account image stays bit-identical across
// repeated no-op unlocks.
type Schedule struct {
	ReleaseTime uint64
	Amount      uint64
}

// VestingHeader is the fixed-size prefix of the vesting contract account.
type VestingHeader struct {
	Destination   ed25519.PublicKey
	Mint          ed25519.PublicKey
	IsInitialized bool
}

func (h *VestingHeader) Marshal() []byte {
	data := make([]byte, HeaderSize)

	var offset int
	putKey(data, h.Destination, &offset)
	putKey(data, h.Mint, &offset)
	if h.IsInitialized {
		putUint8(data, 1, &offset)
	} else {
		putUint8(data, 0, &offset)
	}

	return data
}

func (h *VestingHeader) Unmarshal(data []byte) error {
	if len(data) < HeaderSize {
		return ErrInvalidAccountData
	}

	var offset int
	getKey(data, &h.Destination, &offset)
	getKey(data, &h.Mint, &offset)

	switch data[offset] {
	case 0:
		h.IsInitialized = false
	case 1:
		h.IsInitialized = true
	default:
		return ErrInvalidAccountData
	}

	return nil
}

// StateSize returns the account data length needed to hold the header plus
// numberOfSchedules slots. Capacity is fixed at Init time and never resized.
func StateSize(numberOfSchedules uint32) int {
	return HeaderSize + int(numberOfSchedules)*ScheduleSize
}

// UnpackSchedules reads the schedule region of a vesting account, which must
// be an exact multiple of ScheduleSize.
func UnpackSchedules(data []byte) ([]Schedule, error) {
	if len(data)%ScheduleSize != 0 {
		return nil, ErrInvalidAccountData
	}

	schedules := make([]Schedule, 0, len(data)/ScheduleSize)
	var offset int
	for offset < len(data) {
		var s Schedule
		getUint64(data, &s.ReleaseTime, &offset)
		getUint64(data, &s.Amount, &offset)
		schedules = append(schedules, s)
	}
	return schedules, nil
}

// PackSchedulesInto writes the schedule slots over dst, which must be exactly
// the schedule region of a vesting account.
func PackSchedulesInto(schedules []Schedule, dst []byte) error {
	if len(dst) != len(schedules)*ScheduleSize {
		return ErrAccountSizeMismatch
	}

	var offset int
	for _, s := range schedules {
		putUint64(dst, s.ReleaseTime, &offset)
		putUint64(dst, s.Amount, &offset)
	}
	return nil
}

// VestingState is the fully decoded vesting contract account.
type VestingState struct {
	VestingHeader
	Schedules []Schedule
}

func UnpackState(data []byte) (*VestingState, error) {
	var state VestingState
	if err := state.VestingHeader.Unmarshal(data); err != nil {
		return nil, err
	}

	schedules, err := UnpackSchedules(data[HeaderSize:])
	if err != nil {
		return nil, err
	}
	state.Schedules = schedules

	return &state, nil
}
