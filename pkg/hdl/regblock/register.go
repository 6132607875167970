package regblock

// Number of word addresses an interrupt register occupies, one per
// sub-register role (see the irq package)
const InterruptWordCount = 6

// Register inside a register block. Owns its fields; field order is the
// declaration order.
type Register struct {
	ID          string
	Name        string
	Description string
	Type        RegisterType
	// Word granular address, relative to the block base address
	AddressOffset uint64
	Fields        []*Field
}

// Validates and builds a register. Fails with ErrBitRangeOverlap if two
// fields of the register collide in bit range.
func NewRegister(register Register) (*Register, error) {
	if register.Type == RegisterType_Memory {
		return nil, makeValidationError(ErrUnknownRegisterType, "", register.ID, "",
			"MEMORY registers are reserved and not implemented")
	}

	for i, field := range register.Fields {
		if register.Type != RegisterType_Interrupt && field.Access == FieldAccess_INT {
			return nil, makeValidationError(ErrUnknownAccessKind, "", register.ID, field.ID,
				"INT fields are only allowed in INTERRUPT registers")
		}

		for _, previous := range register.Fields[:i] {
			if field.Overlaps(previous) {
				return nil, makeValidationError(ErrBitRangeOverlap, "", register.ID, field.ID,
					"bits [%v:%v] overlap field '%v' bits [%v:%v]",
					field.PastTopBit()-1, field.BitOffset,
					previous.ID, previous.PastTopBit()-1, previous.BitOffset)
			}
		}
	}

	return &register, nil
}

// Number of consecutive word addresses the register occupies
func (r *Register) WordCount() int {
	if r.Type == RegisterType_Interrupt {
		return InterruptWordCount
	}

	return 1
}

// The word address just past the register's occupied range
func (r *Register) PastTopAddress() uint64 {
	return r.AddressOffset + uint64(r.WordCount())
}

// Returns true if the occupied address ranges of the two registers intersect
func (r *Register) OverlapsAddress(other *Register) bool {
	return r.AddressOffset < other.PastTopAddress() && other.AddressOffset < r.PastTopAddress()
}

// True if any field of the register is an interrupt source
func (r *Register) HasIrqOutput() bool {
	for _, field := range r.Fields {
		if field.Access == FieldAccess_INT {
			return true
		}
	}

	return false
}

// Reset value of the register word, assembled from the field reset values
func (r *Register) Reset() uint64 {
	var value uint64

	for _, field := range r.Fields {
		value |= (field.Reset << field.BitOffset) & field.BitMask()
	}

	return value
}

// Signal name base for a field of this register
func (r *Register) Symbol(field *Field) string {
	return r.ID + "_" + field.ID
}

// Name of the per-register irq output port
func (r *Register) IrqSymbol() string {
	return r.ID + "_irq"
}
