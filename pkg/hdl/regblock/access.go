package regblock

import (
	"encoding/json"
)

// Access kind of a field, it controls the storage elements and ports generated
type FieldAccess uint

const (
	// Input, write has no effect
	FieldAccess_RO FieldAccess = iota
	// Output, read returns the written value
	FieldAccess_RW
	// Output and input two way: read returns the input side, write drives the output side
	FieldAccess_RW2
	// Interrupt source, only valid inside a register of interrupt type
	FieldAccess_INT
)

func (a FieldAccess) String() string {
	switch a {
	case FieldAccess_RO:
		return "RO"
	case FieldAccess_RW:
		return "RW"
	case FieldAccess_RW2:
		return "RW2"
	case FieldAccess_INT:
		return "INT"
	}

	panic("unreachable")
}

// Serializes to the canonical string form
func (a FieldAccess) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// Parses a field access kind from its canonical string form
func ParseFieldAccess(s string) (FieldAccess, error) {
	switch s {
	case "RO":
		return FieldAccess_RO, nil
	case "RW":
		return FieldAccess_RW, nil
	case "RW2":
		return FieldAccess_RW2, nil
	case "INT":
		return FieldAccess_INT, nil
	}

	return FieldAccess_RO, makeValidationError(ErrUnknownAccessKind, "", "", "", "'%v'", s)
}

// Type of a register
type RegisterType uint

const (
	// Plain register occupying one word address
	RegisterType_Normal RegisterType = iota
	// Interrupt register, expands to six word addresses (see the irq package)
	RegisterType_Interrupt
	// Memory mapped region, reserved and not implemented
	RegisterType_Memory
)

func (t RegisterType) String() string {
	switch t {
	case RegisterType_Normal:
		return "NORMAL"
	case RegisterType_Interrupt:
		return "INTERRUPT"
	case RegisterType_Memory:
		return "MEMORY"
	}

	panic("unreachable")
}

// Serializes to the canonical string form
func (t RegisterType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Parses a register type from its canonical string form
func ParseRegisterType(s string) (RegisterType, error) {
	switch s {
	case "NORMAL":
		return RegisterType_Normal, nil
	case "INTERRUPT":
		return RegisterType_Interrupt, nil
	case "MEMORY":
		return RegisterType_Memory, nil
	}

	return RegisterType_Normal, makeValidationError(ErrUnknownRegisterType, "", "", "", "'%v'", s)
}
