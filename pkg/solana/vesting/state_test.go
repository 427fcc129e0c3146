package token_vesting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePacking(t *testing.T) {
	header := VestingHeader{
		Destination:   generateKey(t),
		Mint:          generateKey(t),
		IsInitialized: true,
	}
	schedule1 := Schedule{ReleaseTime: 1, Amount: 333}
	schedule2 := Schedule{ReleaseTime: 99999, Amount: 111}

	data := make([]byte, StateSize(2))
	copy(data[:HeaderSize], header.Marshal())
	require.NoError(t, PackSchedulesInto([]Schedule{schedule1, schedule2}, data[HeaderSize:]))

	// Pin the exact layout: destination | mint | init flag | slots, all
	// integers little-endian.
	var expected []byte
	expected = append(expected, header.Destination...)
	expected = append(expected, header.Mint...)
	expected = append(expected, 1)
	expected = append(expected, 1, 0, 0, 0, 0, 0, 0, 0)
	expected = append(expected, 0x4d, 0x01, 0, 0, 0, 0, 0, 0)
	expected = append(expected, 0x9f, 0x86, 0x01, 0, 0, 0, 0, 0)
	expected = append(expected, 0x6f, 0, 0, 0, 0, 0, 0, 0)
	assert.Equal(t, expected, data)

	var unpackedHeader VestingHeader
	require.NoError(t, unpackedHeader.Unmarshal(data))
	assert.Equal(t, header, unpackedHeader)

	schedules, err := UnpackSchedules(data[HeaderSize:])
	require.NoError(t, err)
	assert.Equal(t, []Schedule{schedule1, schedule2}, schedules)

	state, err := UnpackState(data)
	require.NoError(t, err)
	assert.Equal(t, header, state.VestingHeader)
	assert.Equal(t, schedules, state.Schedules)
}

func TestHeaderUnmarshal_Invalid(t *testing.T) {
	var header VestingHeader

	assert.ErrorIs(t, header.Unmarshal(nil), ErrInvalidAccountData)
	assert.ErrorIs(t, header.Unmarshal(make([]byte, HeaderSize-1)), ErrInvalidAccountData)

	// The initialized flag is strictly 0 or 1.
	data := make([]byte, HeaderSize)
	data[HeaderSize-1] = 2
	assert.ErrorIs(t, header.Unmarshal(data), ErrInvalidAccountData)
}

func TestUnpackSchedules_Invalid(t *testing.T) {
	_, err := UnpackSchedules(make([]byte, ScheduleSize+1))
	assert.ErrorIs(t, err, ErrInvalidAccountData)

	schedules, err := UnpackSchedules(nil)
	require.NoError(t, err)
	assert.Empty(t, schedules)
}

func TestPackSchedulesInto_SizeMismatch(t *testing.T) {
	err := PackSchedulesInto([]Schedule{{ReleaseTime: 1, Amount: 1}}, make([]byte, ScheduleSize-1))
	assert.ErrorIs(t, err, ErrAccountSizeMismatch)
}

func TestStateSize(t *testing.T) {
	assert.Equal(t, HeaderSize, StateSize(0))
	assert.Equal(t, HeaderSize+3*ScheduleSize, StateSize(3))
}
