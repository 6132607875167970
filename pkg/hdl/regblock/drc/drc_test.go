package drc

import (
	"testing"

	"github.com/fpgatools/regen/pkg/hdl/regblock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBlock(t *testing.T, blockID, registerID, fieldID string) *regblock.Block {
	field, err := regblock.NewField(regblock.Field{ID: fieldID, Access: regblock.FieldAccess_RW, BitWidth: 1})
	require.NoError(t, err)

	register, err := regblock.NewRegister(regblock.Register{
		ID:     registerID,
		Fields: []*regblock.Field{field},
	})
	require.NoError(t, err)

	block, err := regblock.NewBlock(regblock.Block{
		ID:        blockID,
		Registers: []*regblock.Register{register},
	})
	require.NoError(t, err)
	return block
}

func TestCheck_CleanBlockHasNoViolations(t *testing.T) {
	assert.Empty(t, Check(makeBlock(t, "gpio", "ctrl_0", "MODE")))
}

func TestCheck_FlagsInvalidCharacters(t *testing.T) {
	violations := Check(makeBlock(t, "gpio", "ctrl-reg", "mode"))

	require.Len(t, violations, 1)
	assert.Equal(t, Rule_IdentifierCharset, violations[0].Rule)
	assert.Equal(t, "gpio.ctrl-reg", violations[0].Path)
}

func TestCheck_FlagsEmptyIdentifiers(t *testing.T) {
	violations := Check(makeBlock(t, "gpio", "ctrl", ""))

	require.Len(t, violations, 1)
	assert.Equal(t, Rule_IdentifierEmpty, violations[0].Rule)
}

func TestCheck_FlagsLeadingDigit(t *testing.T) {
	violations := Check(makeBlock(t, "gpio", "0ctrl", "mode"))

	require.Len(t, violations, 1)
	assert.Equal(t, Rule_IdentifierDigit, violations[0].Rule)
}

func TestCheck_ReportsEveryOffender(t *testing.T) {
	violations := Check(makeBlock(t, "gpio block", "ctrl reg", "mo de"))

	assert.Len(t, violations, 3)
}
