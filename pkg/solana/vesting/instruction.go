package token_vesting

import (
	"crypto/ed25519"
	"encoding/binary"
)

// Command is the leading discriminant byte of an instruction buffer. The
// numbering is part of the wire format and must never be reordered.
type Command byte

const (
	CommandInit Command = iota
	CommandCreate
	CommandUnlock
	CommandChangeDestination
	CommandEmpty
)

func (c Command) String() string {
	switch c {
	case CommandInit:
		return "init"
	case CommandCreate:
		return "create"
	case CommandUnlock:
		return "unlock"
	case CommandChangeDestination:
		return "change_destination"
	case CommandEmpty:
		return "empty"
	}

	return "unknown"
}

// VestingInstruction is one decoded instruction variant. The set is closed:
// UnpackInstruction only ever produces the types below.
type VestingInstruction interface {
	Command() Command

	// Marshal is the exact inverse of UnpackInstruction:
	// UnpackInstruction(x.Marshal()) decodes back to x.
	Marshal() []byte
}

// InitInstruction claims a pre-allocated vesting account sized for
// NumberOfSchedules slots.
//
// Layout: 0x00 | seed_len:u8 | seed | schedule_count:u32
type InitInstruction struct {
	Seed              []byte
	NumberOfSchedules uint32
}

// CreateInstruction writes the contract header and schedules and funds the
// escrow with the schedule total.
//
// Layout: 0x01 | seed_len:u8 | seed | mint:32 | destination:32 |
//         schedule_count:u32 | schedule_count * (release_time:u64 | amount:u64)
type CreateInstruction struct {
	Seed        []byte
	Mint        ed25519.PublicKey
	Destination ed25519.PublicKey
	Schedules   []Schedule
}

// UnlockInstruction releases every schedule whose release time has passed.
//
// Layout: 0x02 | seed_len:u8 | seed
type UnlockInstruction struct {
	Seed []byte
}

// ChangeDestinationInstruction rewrites the contract destination, authorized
// by the owner of the current destination token account.
//
// Layout: 0x03 | seed_len:u8 | seed
type ChangeDestinationInstruction struct {
	Seed []byte
}

// EmptyInstruction carries no fields and has no effect. It exists as a stable
// discriminant for measuring baseline decode cost; trailing bytes are ignored.
//
// Layout: 0x04
type EmptyInstruction struct{}

func (i *InitInstruction) Command() Command              { return CommandInit }
func (i *CreateInstruction) Command() Command            { return CommandCreate }
func (i *UnlockInstruction) Command() Command            { return CommandUnlock }
func (i *ChangeDestinationInstruction) Command() Command { return CommandChangeDestination }
func (i *EmptyInstruction) Command() Command             { return CommandEmpty }

func (i *InitInstruction) Marshal() []byte {
	data := make([]byte, 1+1+len(i.Seed)+4)

	var offset int
	putUint8(data, uint8(CommandInit), &offset)
	putSeed(data, i.Seed, &offset)
	putUint32(data, i.NumberOfSchedules, &offset)

	return data
}

func (i *CreateInstruction) Marshal() []byte {
	data := make([]byte, 1+1+len(i.Seed)+2*ed25519.PublicKeySize+4+len(i.Schedules)*ScheduleSize)

	var offset int
	putUint8(data, uint8(CommandCreate), &offset)
	putSeed(data, i.Seed, &offset)
	putKey(data, i.Mint, &offset)
	putKey(data, i.Destination, &offset)
	putUint32(data, uint32(len(i.Schedules)), &offset)
	for _, s := range i.Schedules {
		putUint64(data, s.ReleaseTime, &offset)
		putUint64(data, s.Amount, &offset)
	}

	return data
}

func (i *UnlockInstruction) Marshal() []byte {
	data := make([]byte, 1+1+len(i.Seed))

	var offset int
	putUint8(data, uint8(CommandUnlock), &offset)
	putSeed(data, i.Seed, &offset)

	return data
}

func (i *ChangeDestinationInstruction) Marshal() []byte {
	data := make([]byte, 1+1+len(i.Seed))

	var offset int
	putUint8(data, uint8(CommandChangeDestination), &offset)
	putSeed(data, i.Seed, &offset)

	return data
}

func (i *EmptyInstruction) Marshal() []byte {
	return []byte{byte(CommandEmpty)}
}

func putSeed(dst []byte, seed []byte, offset *int) {
	putUint8(dst, uint8(len(seed)), offset)
	copy(dst[*offset:], seed)
	*offset += len(seed)
}

// UnpackInstruction decodes an instruction buffer into exactly one variant.
// It is total over arbitrary input: any truncation, unknown discriminant, or
// declared length that would read past the buffer end yields
// ErrMalformedInstruction, never a panic. Trailing bytes after a complete
// payload are rejected except for CommandEmpty, which ignores them.
func UnpackInstruction(data []byte) (VestingInstruction, error) {
	if len(data) == 0 {
		return nil, ErrMalformedInstruction
	}

	tag, rest := Command(data[0]), data[1:]
	switch tag {
	case CommandInit:
		seed, rest, err := unpackSeed(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) != 4 {
			return nil, ErrMalformedInstruction
		}
		return &InitInstruction{
			Seed:              seed,
			NumberOfSchedules: binary.LittleEndian.Uint32(rest),
		}, nil

	case CommandCreate:
		seed, rest, err := unpackSeed(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) < 2*ed25519.PublicKeySize+4 {
			return nil, ErrMalformedInstruction
		}

		instruction := &CreateInstruction{Seed: seed}

		var offset int
		getKey(rest, &instruction.Mint, &offset)
		getKey(rest, &instruction.Destination, &offset)

		var count uint32
		getUint32(rest, &count, &offset)

		// The declared count must exactly cover the remaining bytes. Widths
		// are computed in uint64 so a hostile count can't overflow.
		if uint64(len(rest)-offset) != uint64(count)*ScheduleSize {
			return nil, ErrMalformedInstruction
		}

		if count > 0 {
			instruction.Schedules = make([]Schedule, 0, count)
			for i := uint32(0); i < count; i++ {
				var s Schedule
				getUint64(rest, &s.ReleaseTime, &offset)
				getUint64(rest, &s.Amount, &offset)
				instruction.Schedules = append(instruction.Schedules, s)
			}
		}
		return instruction, nil

	case CommandUnlock:
		seed, rest, err := unpackSeed(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, ErrMalformedInstruction
		}
		return &UnlockInstruction{Seed: seed}, nil

	case CommandChangeDestination:
		seed, rest, err := unpackSeed(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, ErrMalformedInstruction
		}
		return &ChangeDestinationInstruction{Seed: seed}, nil

	case CommandEmpty:
		return &EmptyInstruction{}, nil
	}

	return nil, ErrMalformedInstruction
}

func unpackSeed(data []byte) (seed []byte, rest []byte, err error) {
	if len(data) < 1 {
		return nil, nil, ErrMalformedInstruction
	}

	n := int(data[0])
	if len(data) < 1+n {
		return nil, nil, ErrMalformedInstruction
	}

	seed = make([]byte, n)
	copy(seed, data[1:1+n])
	return seed, data[1+n:], nil
}
