package sim

import (
	"testing"

	"github.com/fpgatools/regen/pkg/hdl/regblock"
	"github.com/fpgatools/regen/pkg/hdl/regblock/addrmap"
	"github.com/fpgatools/regen/pkg/hdl/regblock/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSlave(t *testing.T, registers ...*regblock.Register) *Slave {
	block, err := regblock.NewBlock(regblock.Block{
		ID:        "gpio",
		DataWidth: 32,
		Registers: registers,
	})
	require.NoError(t, err)

	amap, err := addrmap.Build(block)
	require.NoError(t, err)

	return New(block, amap)
}

func field(t *testing.T, id string, access regblock.FieldAccess, bitOffset, bitWidth int, reset uint64) *regblock.Field {
	f, err := regblock.NewField(regblock.Field{
		ID:        id,
		Access:    access,
		BitOffset: bitOffset,
		BitWidth:  bitWidth,
		Reset:     reset,
	})
	require.NoError(t, err)
	return f
}

func register(t *testing.T, id string, regType regblock.RegisterType, offset uint64, fields ...*regblock.Field) *regblock.Register {
	r, err := regblock.NewRegister(regblock.Register{
		ID:            id,
		Type:          regType,
		AddressOffset: offset,
		Fields:        fields,
	})
	require.NoError(t, err)
	return r
}

func mustWrite(t *testing.T, s *Slave, addr, data uint64) bus.Resp {
	resp, err := s.Write(addr, data)
	require.NoError(t, err)
	return resp
}

func mustRead(t *testing.T, s *Slave, addr uint64) (uint64, bus.Resp) {
	value, resp, err := s.Read(addr)
	require.NoError(t, err)
	return value, resp
}

func (s *Slave) fieldState(symbol string) *fieldState {
	for _, f := range s.fields {
		if f.symbol == symbol {
			return f
		}
	}

	return nil
}

// Spec scenario: one normal RW register at offset 0
func TestSlave_WriteReadRoundTrip(t *testing.T) {
	s := makeSlave(t, register(t, "ctrl",
		regblock.RegisterType_Normal, 0,
		field(t, "data", regblock.FieldAccess_RW, 0, 32, 0)))

	resp := mustWrite(t, s, 0, 0xDEADBEEF)
	assert.Equal(t, bus.Resp_Okay, resp)

	value, resp := mustRead(t, s, 0)
	assert.Equal(t, uint64(0xDEADBEEF), value)
	assert.Equal(t, bus.Resp_Okay, resp)
}

func TestSlave_UnmappedReadReturnsDecodeErrorMarker(t *testing.T) {
	s := makeSlave(t, register(t, "ctrl",
		regblock.RegisterType_Normal, 0,
		field(t, "data", regblock.FieldAccess_RW, 0, 32, 0)))

	value, resp := mustRead(t, s, 99)
	assert.Equal(t, uint64(0xFFFFFFFF), value)
	assert.Equal(t, bus.Resp_SlvErr, resp)
}

func TestSlave_UnmappedWriteRespondsSlaveError(t *testing.T) {
	s := makeSlave(t, register(t, "ctrl",
		regblock.RegisterType_Normal, 0,
		field(t, "data", regblock.FieldAccess_RW, 0, 32, 0)))

	resp := mustWrite(t, s, 99, 1)
	assert.Equal(t, bus.Resp_SlvErr, resp)
}

func TestSlave_RWFieldDrivesOutputPortAndResetValue(t *testing.T) {
	s := makeSlave(t, register(t, "ctrl",
		regblock.RegisterType_Normal, 0,
		field(t, "speed", regblock.FieldAccess_RW, 4, 8, 0x3C)))

	value, _ := mustRead(t, s, 0)
	assert.Equal(t, uint64(0x3C0), value)

	out := s.Tick(Inputs{})
	assert.Equal(t, uint64(0x3C), out.FieldOut["ctrl_speed"])

	mustWrite(t, s, 0, 0xAB0)
	out = s.Tick(Inputs{})
	assert.Equal(t, uint64(0xAB), out.FieldOut["ctrl_speed"])
}

func TestSlave_ROFieldSamplesInputAndIgnoresWrites(t *testing.T) {
	s := makeSlave(t, register(t, "stat",
		regblock.RegisterType_Normal, 0,
		field(t, "level", regblock.FieldAccess_RO, 0, 4, 0)))

	s.SetInput("stat_level", 0x9)
	s.Idle(1)

	value, resp := mustRead(t, s, 0)
	assert.Equal(t, uint64(0x9), value)
	assert.Equal(t, bus.Resp_Okay, resp)

	// Mapped address, so the write is acknowledged, but has no effect
	resp = mustWrite(t, s, 0, 0x5)
	assert.Equal(t, bus.Resp_Okay, resp)

	value, _ = mustRead(t, s, 0)
	assert.Equal(t, uint64(0x9), value)
}

func TestSlave_RW2FieldReadsInputSideNotWrittenValue(t *testing.T) {
	s := makeSlave(t, register(t, "pad",
		regblock.RegisterType_Normal, 0,
		field(t, "dir", regblock.FieldAccess_RW2, 0, 8, 0)))

	s.SetInput("pad_dir_in", 0x11)
	s.Idle(1)

	mustWrite(t, s, 0, 0x22)

	value, _ := mustRead(t, s, 0)
	assert.Equal(t, uint64(0x11), value)

	out := s.Tick(Inputs{})
	assert.Equal(t, uint64(0x22), out.FieldOut["pad_dir_out"])
}

func TestSlave_WriteStrobeMasksByteLanes(t *testing.T) {
	s := makeSlave(t, register(t, "ctrl",
		regblock.RegisterType_Normal, 0,
		field(t, "data", regblock.FieldAccess_RW, 0, 32, 0x11223344)))

	// Only the two low byte lanes are strobed, the high half must hold
	resp, err := s.WriteStrobe(0, 0xAABBCCDD, 0b0011)
	require.NoError(t, err)
	assert.Equal(t, bus.Resp_Okay, resp)

	value, _ := mustRead(t, s, 0)
	assert.Equal(t, uint64(0x1122CCDD), value)
}

func interruptSlave(t *testing.T, bitWidth int) *Slave {
	return makeSlave(t, register(t, "evt",
		regblock.RegisterType_Interrupt, 71,
		field(t, "src", regblock.FieldAccess_INT, 0, bitWidth, 0)))
}

const (
	intAddr   = 71
	trapAddr  = 72
	maskAddr  = 73
	forceAddr = 74
	dbgAddr   = 75
	trigAddr  = 76
)

func TestSlave_LevelModeTrapSticksWhileInputHigh(t *testing.T) {
	s := interruptSlave(t, 1)

	s.SetInput("evt_src", 1)
	s.Idle(3) // synchronizer delay plus capture

	value, resp := mustRead(t, s, trapAddr)
	assert.Equal(t, uint64(1), value)
	assert.Equal(t, bus.Resp_Okay, resp)

	// Sticky: dropping the input does not clear the trap
	s.SetInput("evt_src", 0)
	s.Idle(3)

	value, _ = mustRead(t, s, trapAddr)
	assert.Equal(t, uint64(1), value)
}

func TestSlave_LevelModeTrapRecapturesAfterClearWhileHigh(t *testing.T) {
	s := interruptSlave(t, 1)

	s.SetInput("evt_src", 1)
	s.Idle(3)

	mustWrite(t, s, trapAddr, 1)
	s.Idle(2)

	// Level mode continuously re-asserts while the raw input is high
	value, _ := mustRead(t, s, trapAddr)
	assert.Equal(t, uint64(1), value)
}

func TestSlave_EdgeModeTrapCapturesOnlyTheRisingTransition(t *testing.T) {
	s := interruptSlave(t, 1)

	mustWrite(t, s, trigAddr, 1) // edge mode

	s.SetInput("evt_src", 1)
	s.Idle(3)

	value, _ := mustRead(t, s, trapAddr)
	assert.Equal(t, uint64(1), value)

	// Clear while the input is still high: edge mode must not re-capture
	mustWrite(t, s, trapAddr, 1)
	s.Idle(3)

	value, _ = mustRead(t, s, trapAddr)
	assert.Equal(t, uint64(0), value)
}

func TestSlave_WriteOneToClearClearsOnlyWrittenBits(t *testing.T) {
	s := interruptSlave(t, 2)

	mustWrite(t, s, trigAddr, 0b11) // edge mode on both bits

	s.SetInput("evt_src", 0b11)
	s.Idle(3)

	value, _ := mustRead(t, s, trapAddr)
	require.Equal(t, uint64(0b11), value)

	mustWrite(t, s, trapAddr, 0b01)

	value, _ = mustRead(t, s, trapAddr)
	assert.Equal(t, uint64(0b10), value)
}

func TestSlave_WriteStrobeGatesTrapClear(t *testing.T) {
	s := interruptSlave(t, 2)

	mustWrite(t, s, trigAddr, 0b11) // edge mode on both bits

	s.SetInput("evt_src", 0b11)
	s.Idle(3)

	value, _ := mustRead(t, s, trapAddr)
	require.Equal(t, uint64(0b11), value)

	// The written ones sit in byte lane 0, which the strobe excludes, so the
	// clear must not land
	resp, err := s.WriteStrobe(trapAddr, 0b11, 0b1110)
	require.NoError(t, err)
	assert.Equal(t, bus.Resp_Okay, resp)

	value, _ = mustRead(t, s, trapAddr)
	assert.Equal(t, uint64(0b11), value)
}

func TestSlave_WriteClearTakesPrecedenceOverCaptureInTheSameCycle(t *testing.T) {
	s := interruptSlave(t, 1)
	f := s.fieldState("evt_src")

	// Level mode with the input held high, so the capture condition is true
	// on every cycle including the write-decode cycle
	s.SetInput("evt_src", 1)
	s.Idle(3)
	require.Equal(t, uint64(1), f.trap)

	// Drive the write cycle by cycle to observe the decode cycle itself
	s.Tick(Inputs{AwValid: true, AwAddr: trapAddr, WValid: true, WData: 1, BReady: true})
	s.Tick(Inputs{BReady: true}) // REQUEST
	s.Tick(Inputs{BReady: true}) // DECODE: clear wins over capture

	assert.Equal(t, uint64(0), f.trap)

	// The cycle after the write the capture takes over again
	s.Tick(Inputs{BReady: true})
	assert.Equal(t, uint64(1), f.trap)
}

func TestSlave_ForceAutoClearsAndSetsTrap(t *testing.T) {
	s := interruptSlave(t, 1)

	mustWrite(t, s, forceAddr, 1)

	// Force reads back 0 on the cycle after the written one
	value, _ := mustRead(t, s, forceAddr)
	assert.Equal(t, uint64(0), value)

	// But the forced cycle trapped the interrupt
	value, _ = mustRead(t, s, trapAddr)
	assert.Equal(t, uint64(1), value)
}

func TestSlave_DbgMirrorsTrap(t *testing.T) {
	s := interruptSlave(t, 1)

	s.SetInput("evt_src", 1)
	s.Idle(3)

	trap, _ := mustRead(t, s, trapAddr)
	dbg, _ := mustRead(t, s, dbgAddr)
	assert.Equal(t, trap, dbg)

	// Writes to the debug mirror are acknowledged and ignored
	resp := mustWrite(t, s, dbgAddr, 0)
	assert.Equal(t, bus.Resp_Okay, resp)

	dbg, _ = mustRead(t, s, dbgAddr)
	assert.Equal(t, uint64(1), dbg)
}

func TestSlave_MaskGatesInt(t *testing.T) {
	s := interruptSlave(t, 1)

	s.SetInput("evt_src", 1)
	s.Idle(4)

	// Trap is pending but INT stays 0 until the mask opens
	value, _ := mustRead(t, s, intAddr)
	assert.Equal(t, uint64(0), value)
	assert.False(t, s.Irq("evt"))

	mustWrite(t, s, maskAddr, 1)
	s.Idle(2)

	value, _ = mustRead(t, s, intAddr)
	assert.Equal(t, uint64(1), value)
}

// Spec scenario: interrupt register at offset 71, raw input raised, trap at
// 72, mask opened at 73, INT at 71, irq output one cycle behind INT
func TestSlave_InterruptEndToEnd(t *testing.T) {
	s := interruptSlave(t, 1)
	f := s.fieldState("evt_src")

	s.SetInput("evt_src", 1)
	s.Idle(3)

	value, resp := mustRead(t, s, trapAddr)
	assert.Equal(t, uint64(1), value)
	assert.Equal(t, bus.Resp_Okay, resp)

	mustWrite(t, s, maskAddr, 1)
	s.Idle(2)

	value, _ = mustRead(t, s, intAddr)
	assert.Equal(t, uint64(1), value)
	assert.True(t, s.Irq("evt"))

	// The irq output registers the INT bits: drop the source, drain the
	// synchronizer, then clear the trap and watch the disassert ripple
	// through INT first, irq one cycle later
	s.SetInput("evt_src", 0)
	s.Idle(3)
	mustWrite(t, s, trapAddr, 1)

	for cycle := 0; cycle < 8; cycle++ {
		intBefore := f.intr
		s.Tick(Inputs{})
		assert.Equal(t, intBefore != 0, s.Irq("evt"), "cycle %v", cycle)
	}

	assert.False(t, s.Irq("evt"))
}

func TestSlave_ResetRestoresResetValuesAndRestartsBusMachines(t *testing.T) {
	s := makeSlave(t, register(t, "ctrl",
		regblock.RegisterType_Normal, 0,
		field(t, "data", regblock.FieldAccess_RW, 0, 32, 0x1234)))

	mustWrite(t, s, 0, 0xDEADBEEF)
	s.Reset()

	value, resp := mustRead(t, s, 0)
	assert.Equal(t, uint64(0x1234), value)
	assert.Equal(t, bus.Resp_Okay, resp)
}
