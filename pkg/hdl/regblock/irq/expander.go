// Package irq lowers interrupt registers into their six sub-register views.
//
// A field declared with INT access is not a single storage element: it is a
// slice shared by six sub-registers, each at its own word address. The raw
// interrupt input is double synchronized (ireg, then d) before it reaches the
// capture logic, which every cycle without a clearing write evaluates
//
//	TRAP' = TRAP | FORCE | (ireg & (~d | ~TRIG))
//
// so TRAP sticks on a software force, on a rising edge in edge mode, or
// continuously while the input is high in level mode. A bus write to the TRAP
// address clears the written bits and suppresses capture for that field that
// cycle. INT is TRAP & MASK registered one cycle, and the register's irq
// output is the OR of all its INT bits registered one more cycle.
package irq

import (
	"github.com/fpgatools/regen/pkg/hdl/regblock"
	"github.com/fpgatools/regen/pkg/utils"
)

// One word-addressable view of a register: a normal register as-is, or one
// role of an interrupt register
type SubRegister struct {
	Register *regblock.Register
	Role     Role
	// Word address relative to the block base
	WordOffset uint64
}

// Name of the sub-register, the register id plus the role suffix
func (s *SubRegister) Name() string {
	if s.Role == Role_None {
		return s.Register.ID
	}

	return s.Register.ID + "_" + s.Role.String()
}

// Fields contributing to this view at their declared bit slices. For an
// interrupt role these are the register's INT fields, whose slices are
// shared across all six roles.
func (s *SubRegister) Fields() []*regblock.Field {
	if s.Role == Role_None {
		return s.Register.Fields
	}

	return utils.Filter(s.Register.Fields, func(field *regblock.Field) bool {
		return field.Access == regblock.FieldAccess_INT
	})
}

// True if bus writes to this view have no effect
func (s *SubRegister) ReadOnly() bool {
	if s.Role == Role_None {
		return !utils.Any(s.Register.Fields, writable)
	}

	return s.Role.ReadOnly()
}

// Reset value of the view. Interrupt sub-registers always reset to zero.
func (s *SubRegister) Reset() uint64 {
	if s.Role == Role_None {
		return s.Register.Reset()
	}

	return 0
}

// Expands a register into its word-addressable views. Pure and idempotent:
// the input register is never mutated and re-running the expansion yields
// the same views. A normal register yields itself as a single view, an
// interrupt register yields the six role views at consecutive addresses.
func Expand(register *regblock.Register) []SubRegister {
	if register.Type != regblock.RegisterType_Interrupt {
		return []SubRegister{{
			Register:   register,
			Role:       Role_None,
			WordOffset: register.AddressOffset,
		}}
	}

	views := make([]SubRegister, 0, len(Roles))

	for _, role := range Roles {
		views = append(views, SubRegister{
			Register:   register,
			Role:       role,
			WordOffset: register.AddressOffset + role.AddressOffset(),
		})
	}

	return views
}

func writable(field *regblock.Field) bool {
	return field.Access == regblock.FieldAccess_RW || field.Access == regblock.FieldAccess_RW2
}
