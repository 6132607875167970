package regblock

// Register field, the atom of the generated register logic
type Field struct {
	ID          string
	Description string
	Access      FieldAccess
	BitOffset   int
	BitWidth    int
	// Reset value of any storage element generated for this field
	Reset uint64
}

// Validates and builds a field. Bit range checks against the block data
// width happen later, in NewBlock, since the field does not know the width.
func NewField(field Field) (*Field, error) {
	switch field.Access {
	case FieldAccess_RO, FieldAccess_RW, FieldAccess_RW2, FieldAccess_INT:
	default:
		return nil, makeValidationError(ErrUnknownAccessKind, "", "", field.ID, "access kind %v", uint(field.Access))
	}

	if field.BitWidth < 1 {
		field.BitWidth = 1
	}

	return &field, nil
}

// Returns the mask selecting this field's bit range inside its register word
func (f *Field) BitMask() uint64 {
	return ((uint64(1) << f.BitWidth) - 1) << f.BitOffset
}

// The bit just past the top of the field's range
func (f *Field) PastTopBit() int {
	return f.BitOffset + f.BitWidth
}

// Returns true if the two fields overlap in bit range
func (f *Field) Overlaps(other *Field) bool {
	return f.BitOffset < other.PastTopBit() && other.BitOffset < f.PastTopBit()
}

// True for every access kind with a data port. INT fields have no data port,
// they contribute an interrupt source input and an irq output bit instead.
func (f *Field) HasDataPort() bool {
	return f.Access != FieldAccess_INT
}

// Returns the signals this field expands to
func (f *Field) Signals() []Signal {
	return SignalsOfAccess(f.Access, f.BitWidth)
}
