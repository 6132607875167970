// Package sim is a clocked software model of the generated slave module. It
// composes the two bus machines with per-field storage following the same
// update rules the emitted RTL implements, so the end to end behavior of a
// block can be tested without a hardware simulator.
package sim

import (
	"errors"

	"github.com/fpgatools/regen/pkg/hdl/regblock"
	"github.com/fpgatools/regen/pkg/hdl/regblock/addrmap"
	"github.com/fpgatools/regen/pkg/hdl/regblock/bus"
	"github.com/fpgatools/regen/pkg/hdl/regblock/irq"
	"github.com/fpgatools/regen/pkg/utils"
)

// A bus transaction did not complete within the cycle budget
var ErrBusTimeout = errors.New("bus transaction timeout")

// Cycle budget for the Write/Read transaction drivers. A non-pipelined
// transaction needs 3 cycles plus the idle handshake, so this is generous.
const maxTransactionCycles = 16

// Bus-side inputs of one clock cycle
type Inputs struct {
	AwValid bool
	AwAddr  uint64
	WValid  bool
	WData   uint64
	WStrb   uint64
	BReady  bool
	ArValid bool
	ArAddr  uint64
	RReady  bool
}

// Bus and hardware-side outputs of one clock cycle
type Outputs struct {
	AwReady bool
	WReady  bool
	BValid  bool
	BResp   bus.Resp
	ArReady bool
	RValid  bool
	RData   uint64
	RResp   bus.Resp
	// Output port values keyed by port name
	FieldOut map[string]uint64
	// Per-register irq outputs keyed by irq port name
	Irq map[string]bool
}

// Storage elements of one field, values right-aligned to the field width
type fieldState struct {
	field    *regblock.Field
	register *regblock.Register
	symbol   string

	oreg uint64 // RW, RW2: output register
	ireg uint64 // RO, RW2: input sample; INT: first synchronizer stage
	d    uint64 // INT: second synchronizer stage
	trap uint64 // INT: sticky trapped status
	mask uint64 // INT: interrupt enable
	frc  uint64 // INT: software force, auto-clearing
	trig uint64 // INT: edge(1)/level(0) select
	intr uint64 // INT: registered trap & mask
}

func (f *fieldState) widthMask() uint64 {
	return utils.AllOnes[uint64](f.field.BitWidth)
}

// Name of the hardware-side input port feeding this field, empty if the
// field has none
func (f *fieldState) inputPortName() string {
	switch f.field.Access {
	case regblock.FieldAccess_RO, regblock.FieldAccess_INT:
		return f.symbol
	case regblock.FieldAccess_RW2:
		return f.symbol + "_in"
	}

	return ""
}

// Cycle accurate model of the slave generated for a block
type Slave struct {
	block *regblock.Block
	amap  *addrmap.AddressMap

	write bus.WriteMachine
	read  bus.ReadMachine

	fields []*fieldState
	// raw hardware input levels keyed by field symbol, held between ticks
	inputs map[string]uint64
	// registered per-register irq outputs keyed by register id
	irqOut map[string]bool
}

// Builds a slave model in its post-reset state
func New(block *regblock.Block, amap *addrmap.AddressMap) *Slave {
	s := &Slave{
		block:  block,
		amap:   amap,
		write:  bus.MakeWriteMachine(),
		read:   bus.MakeReadMachine(),
		inputs: make(map[string]uint64),
		irqOut: make(map[string]bool),
	}

	for _, register := range block.Registers {
		for _, field := range register.Fields {
			s.fields = append(s.fields, &fieldState{
				field:    field,
				register: register,
				symbol:   register.Symbol(field),
			})
		}
	}

	s.Reset()
	return s
}

// Applies the synchronous reset: both bus machines restart through their
// RESET state and every storage element returns to its reset value
func (s *Slave) Reset() {
	s.write.Reset()
	s.read.Reset()

	for _, f := range s.fields {
		*f = fieldState{
			field:    f.field,
			register: f.register,
			symbol:   f.symbol,
			oreg:     f.field.Reset & f.widthMask(),
		}
	}

	for _, register := range s.block.Registers {
		if register.HasIrqOutput() {
			s.irqOut[register.ID] = false
		}
	}
}

// Sets the level of a raw hardware input port (RO, RW2 input side or
// interrupt source). The level holds until changed.
func (s *Slave) SetInput(symbol string, value uint64) {
	s.inputs[symbol] = value
}

// Advances the model one clock cycle
func (s *Slave) Tick(in Inputs) Outputs {
	var out Outputs

	// Bus machines sample the registered values of this cycle, before the
	// synchronous update below
	writeOut := s.write.Step(bus.WriteInputs{
		AddrValid: in.AwValid,
		Addr:      in.AwAddr,
		DataValid: in.WValid,
		Data:      in.WData,
		Strobe:    in.WStrb,
		RespReady: in.BReady,
	}, s.amap.WriteAck)

	readOut := s.read.Step(bus.ReadInputs{
		AddrValid: in.ArValid,
		Addr:      in.ArAddr,
		DataReady: in.RReady,
	}, s.decodeRead)

	// Synchronous storage update. The irq outputs register the INT bits of
	// this cycle, so they are sampled before the field update.
	s.updateIrq()

	for _, f := range s.fields {
		s.updateField(f, writeOut)
	}

	out.AwReady = writeOut.AddrReady
	out.WReady = writeOut.DataReady
	out.BValid = writeOut.RespValid
	out.BResp = writeOut.Resp
	out.ArReady = readOut.AddrReady
	out.RValid = readOut.DataValid
	out.RData = readOut.Data
	out.RResp = readOut.Resp
	out.FieldOut = s.outputPorts()
	out.Irq = s.irqPorts()

	return out
}

// Read decode, evaluated by the read machine during its DECODE cycle against
// the latched read address
func (s *Slave) decodeRead(addr uint64) (uint64, bool) {
	entry, ok := s.amap.Lookup(addr)
	if !ok {
		return s.amap.DecodeErrorValue(), false
	}

	var value uint64
	word := utils.CreateBitView(&value)

	for _, f := range s.fields {
		if f.register != entry.Sub.Register {
			continue
		}

		var slice uint64

		switch entry.Sub.Role {
		case irq.Role_None:
			switch f.field.Access {
			case regblock.FieldAccess_RW:
				slice = f.oreg
			case regblock.FieldAccess_RO, regblock.FieldAccess_RW2:
				slice = f.ireg
			}

		case irq.Role_Int:
			slice = f.intr
		case irq.Role_Trap, irq.Role_Dbg:
			// DBG is a read-only alias of TRAP
			slice = f.trap
		case irq.Role_Mask:
			slice = f.mask
		case irq.Role_Force:
			slice = f.frc
		case irq.Role_Trig:
			slice = f.trig
		}

		word.Replace(slice, f.field.BitOffset, f.field.BitWidth)
	}

	return value, true
}

func (s *Slave) updateField(f *fieldState, write bus.WriteOutputs) {
	mask := f.widthMask()
	raw := s.inputs[f.inputPortName()] & mask

	hits := func(wordAddr uint64) bool {
		return write.WriteEnable && write.Addr == wordAddr
	}

	// Slices of the latched write data and of the expanded byte strobes
	// covering this field's bit range
	writeBits := utils.CreateBitView(&write.Data).Read(f.field.BitOffset, f.field.BitWidth)

	laneMask := strobeBits(write.Strobe, s.block.DataWidth)
	writeMask := utils.CreateBitView(&laneMask).Read(f.field.BitOffset, f.field.BitWidth)

	// Storage write: strobed lanes take the data, the rest hold
	merge := func(current uint64) uint64 {
		return (writeBits & writeMask) | (current &^ writeMask)
	}

	switch f.field.Access {
	case regblock.FieldAccess_RO:
		f.ireg = raw

	case regblock.FieldAccess_RW:
		if hits(f.register.AddressOffset) {
			f.oreg = merge(f.oreg)
		}

	case regblock.FieldAccess_RW2:
		f.ireg = raw
		if hits(f.register.AddressOffset) {
			f.oreg = merge(f.oreg)
		}

	case regblock.FieldAccess_INT:
		base := f.register.AddressOffset

		// Registered trap & mask, one cycle behind trap
		f.intr = f.trap & f.mask

		// Write-1-to-clear takes precedence over capture for the whole
		// field in the written cycle; only strobed lanes clear
		if hits(base + irq.Role_Trap.AddressOffset()) {
			f.trap &^= writeBits & writeMask
		} else {
			f.trap = (f.trap | f.frc | (f.ireg & (^f.d | ^f.trig))) & mask
		}

		if hits(base + irq.Role_Mask.AddressOffset()) {
			f.mask = merge(f.mask)
		}

		// Force auto-clears every cycle it is not written, including the
		// lanes a partial write leaves unstrobed
		if hits(base + irq.Role_Force.AddressOffset()) {
			f.frc = writeBits & writeMask
		} else {
			f.frc = 0
		}

		if hits(base + irq.Role_Trig.AddressOffset()) {
			f.trig = merge(f.trig)
		}

		// Double synchronizer: ireg samples the raw input, d samples ireg
		f.d = f.ireg
		f.ireg = raw
	}
}

// Expands the per byte write strobes into a per bit mask across the data bus
func strobeBits(strobe uint64, dataWidth int) uint64 {
	var mask uint64

	for lane := 0; lane < dataWidth/8; lane++ {
		if strobe&(uint64(1)<<lane) != 0 {
			mask |= uint64(0xFF) << (8 * lane)
		}
	}

	return mask
}

// Registers the per-register irq outputs from the current INT bits, one
// cycle behind them
func (s *Slave) updateIrq() {
	for _, register := range s.block.Registers {
		if !register.HasIrqOutput() {
			continue
		}

		irqBit := false

		for _, f := range s.fields {
			if f.register == register && f.field.Access == regblock.FieldAccess_INT && f.intr != 0 {
				irqBit = true
			}
		}

		s.irqOut[register.ID] = irqBit
	}
}

func (s *Slave) outputPorts() map[string]uint64 {
	ports := make(map[string]uint64)

	for _, f := range s.fields {
		switch f.field.Access {
		case regblock.FieldAccess_RW:
			ports[f.symbol] = f.oreg
		case regblock.FieldAccess_RW2:
			ports[f.symbol+"_out"] = f.oreg
		}
	}

	return ports
}

func (s *Slave) irqPorts() map[string]bool {
	ports := make(map[string]bool)

	for _, register := range s.block.Registers {
		if register.HasIrqOutput() {
			ports[register.IrqSymbol()] = s.irqOut[register.ID]
		}
	}

	return ports
}

// Runs a whole write transaction with all byte lanes strobed: presents
// address and data in the same cycle and holds the response ready until the
// response arrives
func (s *Slave) Write(addr, data uint64) (bus.Resp, error) {
	return s.WriteStrobe(addr, data, utils.AllOnes[uint64](s.block.AddressStep()))
}

// Runs a whole write transaction with an explicit byte strobe: only strobed
// lanes reach the storage elements
func (s *Slave) WriteStrobe(addr, data, strobe uint64) (bus.Resp, error) {
	in := Inputs{
		AwValid: true,
		AwAddr:  addr,
		WValid:  true,
		WData:   data,
		WStrb:   strobe,
		BReady:  true,
	}

	for i := 0; i < maxTransactionCycles; i++ {
		out := s.Tick(in)

		if out.AwReady {
			in.AwValid = false
		}
		if out.WReady {
			in.WValid = false
		}

		if out.BValid {
			return out.BResp, nil
		}
	}

	return bus.Resp_SlvErr, ErrBusTimeout
}

// Runs a whole read transaction
func (s *Slave) Read(addr uint64) (uint64, bus.Resp, error) {
	in := Inputs{
		ArValid: true,
		ArAddr:  addr,
		RReady:  true,
	}

	for i := 0; i < maxTransactionCycles; i++ {
		out := s.Tick(in)

		if out.ArReady {
			in.ArValid = false
		}

		if out.RValid {
			return out.RData, out.RResp, nil
		}
	}

	return 0, bus.Resp_SlvErr, ErrBusTimeout
}

// Advances the model n cycles with no bus activity
func (s *Slave) Idle(n int) {
	for i := 0; i < n; i++ {
		s.Tick(Inputs{})
	}
}

// Returns the current irq output of a register
func (s *Slave) Irq(registerID string) bool {
	return s.irqOut[registerID]
}
