package addrmap

import (
	"testing"

	"github.com/fpgatools/regen/pkg/hdl/regblock"
	"github.com/fpgatools/regen/pkg/hdl/regblock/irq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBlock(t *testing.T, registers ...*regblock.Register) *regblock.Block {
	block, err := regblock.NewBlock(regblock.Block{
		ID:        "gpio",
		DataWidth: 32,
		Registers: registers,
	})
	require.NoError(t, err)
	return block
}

func makeNormal(t *testing.T, id string, offset uint64) *regblock.Register {
	data, err := regblock.NewField(regblock.Field{
		ID:       "data",
		Access:   regblock.FieldAccess_RW,
		BitWidth: 32,
	})
	require.NoError(t, err)

	register, err := regblock.NewRegister(regblock.Register{
		ID:            id,
		Type:          regblock.RegisterType_Normal,
		AddressOffset: offset,
		Fields:        []*regblock.Field{data},
	})
	require.NoError(t, err)
	return register
}

func makeInterrupt(t *testing.T, id string, offset uint64) *regblock.Register {
	src, err := regblock.NewField(regblock.Field{
		ID:       "src",
		Access:   regblock.FieldAccess_INT,
		BitWidth: 1,
	})
	require.NoError(t, err)

	register, err := regblock.NewRegister(regblock.Register{
		ID:            id,
		Type:          regblock.RegisterType_Interrupt,
		AddressOffset: offset,
		Fields:        []*regblock.Field{src},
	})
	require.NoError(t, err)
	return register
}

func TestBuild_NormalRegisterOwnsOneAddress(t *testing.T) {
	m, err := Build(makeBlock(t, makeNormal(t, "ctrl", 2)))
	require.NoError(t, err)

	require.Len(t, m.Entries, 1)
	assert.Equal(t, uint64(2), m.Entries[0].WordAddr)

	entry, ok := m.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "ctrl", entry.Sub.Name())
}

func TestBuild_InterruptRegisterOwnsSixAddresses(t *testing.T) {
	m, err := Build(makeBlock(t, makeInterrupt(t, "evt", 8)))
	require.NoError(t, err)

	require.Len(t, m.Entries, 6)

	for i, entry := range m.Entries {
		assert.Equal(t, uint64(8+i), entry.WordAddr)
		assert.True(t, m.ReadAck(entry.WordAddr))
		assert.True(t, m.WriteAck(entry.WordAddr))
	}

	assert.False(t, m.ReadAck(7))
	assert.False(t, m.ReadAck(14))
	assert.False(t, m.WriteAck(14))
}

func TestBuild_EntriesAreSortedByAddressNotDeclarationOrder(t *testing.T) {
	m, err := Build(makeBlock(t, makeNormal(t, "late", 9), makeNormal(t, "early", 1)))
	require.NoError(t, err)

	require.Len(t, m.Entries, 2)
	assert.Equal(t, uint64(1), m.Entries[0].WordAddr)
	assert.Equal(t, "early", m.Entries[0].Sub.Name())
	assert.Equal(t, uint64(9), m.Entries[1].WordAddr)
}

func TestBuild_DetectsCollisionInsideInterruptRange(t *testing.T) {
	// NewBlock already rejects overlapping registers, so drive Build with a
	// hand-assembled block to prove the map itself refuses ambiguous owners
	src, err := regblock.NewField(regblock.Field{ID: "src", Access: regblock.FieldAccess_INT, BitWidth: 1})
	require.NoError(t, err)
	data, err := regblock.NewField(regblock.Field{ID: "data", Access: regblock.FieldAccess_RW, BitWidth: 32})
	require.NoError(t, err)

	block := &regblock.Block{
		ID:        "gpio",
		DataWidth: 32,
		Registers: []*regblock.Register{
			{ID: "evt", Type: regblock.RegisterType_Interrupt, AddressOffset: 4, Fields: []*regblock.Field{src}},
			{ID: "data", Type: regblock.RegisterType_Normal, AddressOffset: 7, Fields: []*regblock.Field{data}},
		},
	}

	_, err = Build(block)
	require.Error(t, err)
	assert.ErrorIs(t, err, regblock.ErrAddressCollision)

	var verr *regblock.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "data", verr.Register)

	// Word address 7 is FORCE of the interrupt register at offset 4
	assert.Contains(t, err.Error(), "evt_FORCE")
}

func TestBuild_IsIdempotent(t *testing.T) {
	block := makeBlock(t, makeInterrupt(t, "evt", 8), makeNormal(t, "ctrl", 0))

	first, err := Build(block)
	require.NoError(t, err)
	second, err := Build(block)
	require.NoError(t, err)

	assert.Equal(t, first.Entries, second.Entries)
}

func TestAddressMap_DecodeErrorValueIsAllOnes(t *testing.T) {
	m, err := Build(makeBlock(t, makeNormal(t, "ctrl", 0)))
	require.NoError(t, err)

	assert.Equal(t, uint64(0xFFFFFFFF), m.DecodeErrorValue())

	wide, err := regblock.NewBlock(regblock.Block{
		ID:        "gpio64",
		DataWidth: 64,
		Registers: []*regblock.Register{makeNormal(t, "ctrl", 0)},
	})
	require.NoError(t, err)

	m64, err := Build(wide)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), m64.DecodeErrorValue())
}

func TestAddressMap_AddressWidthCoversExpandedRange(t *testing.T) {
	m, err := Build(makeBlock(t, makeInterrupt(t, "evt", 60)))
	require.NoError(t, err)

	// Expansion reaches word address 65: 7 word bits plus 2 byte lane bits
	assert.Equal(t, 9, m.AddressWidth())
}

func TestAddressMap_InterruptEntryRolesMatchOffsets(t *testing.T) {
	m, err := Build(makeBlock(t, makeInterrupt(t, "evt", 8)))
	require.NoError(t, err)

	expected := []irq.Role{irq.Role_Int, irq.Role_Trap, irq.Role_Mask, irq.Role_Force, irq.Role_Dbg, irq.Role_Trig}

	for i, entry := range m.Entries {
		assert.Equal(t, expected[i], entry.Sub.Role)
	}
}
