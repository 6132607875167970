package regblock

import (
	"math/bits"
)

// Top level register file. Owns its registers; register order is the
// declaration order, not necessarily address order.
type Block struct {
	ID          string
	Name        string
	Description string
	// Bus data width in bits, 32 or 64
	DataWidth int
	// Byte granular base address of the block in the system address map
	BaseAddress uint64
	Registers   []*Register

	// field -> owning register, built once at construction
	owner map[*Field]*Register
}

// Validates and builds a block. Fails with ErrBitRangeOverflow if a field
// exceeds the data width and with ErrAddressCollision if two registers claim
// the same word address after interrupt expansion.
func NewBlock(block Block) (*Block, error) {
	if block.DataWidth == 0 {
		block.DataWidth = 32
	}

	if block.DataWidth != 32 && block.DataWidth != 64 {
		return nil, makeValidationError(ErrUnsupportedDataWidth, block.ID, "", "",
			"%v bits, only 32 and 64 are supported", block.DataWidth)
	}

	for _, register := range block.Registers {
		for _, field := range register.Fields {
			if field.PastTopBit() > block.DataWidth {
				return nil, makeValidationError(ErrBitRangeOverflow, block.ID, register.ID, field.ID,
					"bits [%v:%v] exceed the %v bit data width",
					field.PastTopBit()-1, field.BitOffset, block.DataWidth)
			}
		}
	}

	for i, register := range block.Registers {
		for _, previous := range block.Registers[:i] {
			if register.OverlapsAddress(previous) {
				return nil, makeValidationError(ErrAddressCollision, block.ID, register.ID, "",
					"addresses [%v:%v] overlap register '%v' addresses [%v:%v]",
					register.AddressOffset, register.PastTopAddress()-1,
					previous.ID, previous.AddressOffset, previous.PastTopAddress()-1)
			}
		}
	}

	block.owner = make(map[*Field]*Register)

	for _, register := range block.Registers {
		for _, field := range register.Fields {
			block.owner[field] = register
		}
	}

	return &block, nil
}

// Returns the register that owns the given field, nil if the field does not
// belong to this block
func (b *Block) Owner(field *Field) *Register {
	return b.owner[field]
}

// Address step between consecutive word addresses, in bytes
func (b *Block) AddressStep() int {
	return b.DataWidth / 8
}

// Highest word address occupied by the block after interrupt expansion
func (b *Block) TopAddress() uint64 {
	var top uint64

	for _, register := range b.Registers {
		if last := register.PastTopAddress() - 1; last > top {
			top = last
		}
	}

	return top
}

// Minimum byte address width covering the highest post-expansion word
// address. Interrupt registers occupy six consecutive words, so sizing from
// the declared offsets alone would under-size the address bus.
func (b *Block) AddressWidth() int {
	wordBits := bits.Len64(b.TopAddress())
	if wordBits == 0 {
		wordBits = 1
	}

	return wordBits + bits.TrailingZeros(uint(b.AddressStep()))
}

// True if any register of the block drives an irq output
func (b *Block) HasIrqOutput() bool {
	for _, register := range b.Registers {
		if register.HasIrqOutput() {
			return true
		}
	}

	return false
}

// True if any field of the block has a data port
func (b *Block) HasDataPort() bool {
	for _, register := range b.Registers {
		for _, field := range register.Fields {
			if field.HasDataPort() {
				return true
			}
		}
	}

	return false
}

// Returns the module ports of the block, in declaration order: one input per
// RO field, RW2 input side and interrupt source, one output per RW field,
// RW2 output side and per-register irq line
func (b *Block) Ports() []Port {
	var ports []Port

	for _, register := range b.Registers {
		for _, field := range register.Fields {
			symbol := register.Symbol(field)

			for _, signal := range field.Signals() {
				if signal.Direction == SignalDirection_Internal {
					continue
				}

				name := symbol
				if signal.Suffix != "" {
					name += "_" + signal.Suffix
				}

				ports = append(ports, Port{
					Name:      name,
					BitWidth:  signal.BitWidth,
					Direction: signal.Direction,
				})
			}
		}

		if register.HasIrqOutput() {
			ports = append(ports, Port{
				Name:      register.IrqSymbol(),
				BitWidth:  1,
				Direction: SignalDirection_Output,
			})
		}
	}

	return ports
}
