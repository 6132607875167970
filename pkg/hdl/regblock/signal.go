package regblock

// Direction of a signal generated from a field, seen from the slave module
type SignalDirection uint

const (
	SignalDirection_Output SignalDirection = iota
	SignalDirection_Input
	SignalDirection_Internal
)

func (d SignalDirection) String() string {
	switch d {
	case SignalDirection_Output:
		return "output"
	case SignalDirection_Input:
		return "input"
	case SignalDirection_Internal:
		return "internal"
	}

	panic("unreachable")
}

// Signal generated from a field. Input and output signals become module
// ports, internal signals become storage registers inside the module.
type Signal struct {
	// Name suffix appended to the field symbol, empty for the main signal
	Suffix    string
	BitWidth  int
	Direction SignalDirection
}

// Returns the signals a field of the given access kind and width expands to
func SignalsOfAccess(access FieldAccess, bitWidth int) []Signal {
	switch access {
	case FieldAccess_RW:
		return []Signal{
			{Suffix: "", BitWidth: bitWidth, Direction: SignalDirection_Output},
			{Suffix: "oreg", BitWidth: bitWidth, Direction: SignalDirection_Internal},
		}

	case FieldAccess_RO:
		return []Signal{
			{Suffix: "", BitWidth: bitWidth, Direction: SignalDirection_Input},
			{Suffix: "ireg", BitWidth: bitWidth, Direction: SignalDirection_Internal},
		}

	case FieldAccess_RW2:
		return []Signal{
			{Suffix: "out", BitWidth: bitWidth, Direction: SignalDirection_Output},
			{Suffix: "oreg", BitWidth: bitWidth, Direction: SignalDirection_Internal},
			{Suffix: "in", BitWidth: bitWidth, Direction: SignalDirection_Input},
			{Suffix: "ireg", BitWidth: bitWidth, Direction: SignalDirection_Internal},
		}

	case FieldAccess_INT:
		return []Signal{
			{Suffix: "", BitWidth: bitWidth, Direction: SignalDirection_Input},
			{Suffix: "ireg", BitWidth: bitWidth, Direction: SignalDirection_Internal},
			{Suffix: "d", BitWidth: bitWidth, Direction: SignalDirection_Internal},
			{Suffix: "trap", BitWidth: bitWidth, Direction: SignalDirection_Internal},
			{Suffix: "mask", BitWidth: bitWidth, Direction: SignalDirection_Internal},
			{Suffix: "force", BitWidth: bitWidth, Direction: SignalDirection_Internal},
			{Suffix: "trig", BitWidth: bitWidth, Direction: SignalDirection_Internal},
			{Suffix: "int", BitWidth: bitWidth, Direction: SignalDirection_Internal},
		}
	}

	panic("unreachable")
}

// Module port derived from a field signal or a register irq line
type Port struct {
	Name      string
	BitWidth  int
	Direction SignalDirection
}
