package addrmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocString_ListsEveryExpandedAddress(t *testing.T) {
	m, err := Build(makeBlock(t, makeNormal(t, "ctrl", 0), makeInterrupt(t, "evt", 1)))
	require.NoError(t, err)

	docs := m.DocString()

	assert.Contains(t, docs, "# gpio address map")
	assert.Contains(t, docs, "| 0 | ctrl | RW |")
	assert.Contains(t, docs, "| 1 | evt_INT | RO |")
	assert.Contains(t, docs, "| 2 | evt_TRAP | RW |")
	assert.Contains(t, docs, "| 3 | evt_MASK | RW |")
	assert.Contains(t, docs, "| 4 | evt_FORCE | RW |")
	assert.Contains(t, docs, "| 5 | evt_DBG | RO |")
	assert.Contains(t, docs, "| 6 | evt_TRIG | RW |")
}

func TestDocString_DrawsFieldBitLayout(t *testing.T) {
	m, err := Build(makeBlock(t, makeNormal(t, "ctrl", 0)))
	require.NoError(t, err)

	docs := m.DocString()

	assert.Contains(t, docs, "## ctrl @ 0")
	assert.Contains(t, docs, "data")
	assert.Contains(t, docs, "32 bits")
}
