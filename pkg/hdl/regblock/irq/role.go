package irq

// Sub-register role of an interrupt register. An interrupt register expands
// to six word addresses, one per role, in this fixed order.
type Role uint

const (
	// Registered TRAP & MASK, read only
	Role_Int Role = iota
	// Sticky trapped status, write 1 to clear
	Role_Trap
	// Interrupt enable mask, direct write
	Role_Mask
	// Software debug force, direct write, auto-clears every non-written cycle
	Role_Force
	// Read only mirror of TRAP
	Role_Dbg
	// Edge(1)/level(0) sensitivity select, direct write
	Role_Trig

	// Not a role: the single view of a normal register
	Role_None
)

// The six roles in address order
var Roles = [...]Role{Role_Int, Role_Trap, Role_Mask, Role_Force, Role_Dbg, Role_Trig}

func (r Role) String() string {
	switch r {
	case Role_Int:
		return "INT"
	case Role_Trap:
		return "TRAP"
	case Role_Mask:
		return "MASK"
	case Role_Force:
		return "FORCE"
	case Role_Dbg:
		return "DBG"
	case Role_Trig:
		return "TRIG"
	case Role_None:
		return ""
	}

	panic("unreachable")
}

// Word address offset of the role relative to the interrupt register's
// declared address offset
func (r Role) AddressOffset() uint64 {
	switch r {
	case Role_Int:
		return 0
	case Role_Trap:
		return 1
	case Role_Mask:
		return 2
	case Role_Force:
		return 3
	case Role_Dbg:
		return 4
	case Role_Trig:
		return 5
	}

	panic("unreachable")
}

// True if bus writes to the role have no effect
func (r Role) ReadOnly() bool {
	return r == Role_Int || r == Role_Dbg
}

// True if a bus write clears the written bits instead of storing them
func (r Role) WriteOneToClear() bool {
	return r == Role_Trap
}

// True if the role's storage clears itself every cycle it is not written
func (r Role) AutoClear() bool {
	return r == Role_Force
}

// True if the role has its own storage element. INT is registered
// combinational state, DBG aliases TRAP and has none.
func (r Role) HasStorage() bool {
	return r == Role_Trap || r == Role_Mask || r == Role_Force || r == Role_Trig || r == Role_Int
}
