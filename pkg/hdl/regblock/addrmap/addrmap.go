// Package addrmap synthesizes the authoritative word address map of a block:
// which register view owns each address, the read/write acknowledge
// predicates and the decode error behavior for unmapped addresses.
package addrmap

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/fpgatools/regen/pkg/hdl/regblock"
	"github.com/fpgatools/regen/pkg/hdl/regblock/irq"
)

// One owned word address of the block
type Entry struct {
	WordAddr uint64
	Sub      irq.SubRegister
}

// Word address map of a block. Immutable once built.
type AddressMap struct {
	Block *regblock.Block
	// Owned addresses in increasing address order
	Entries []Entry

	byAddr map[uint64]*Entry
}

// Builds the address map of a block by expanding every register into its
// word-addressable views. Fails with ErrAddressCollision if two views claim
// the same address; a colliding map is never returned, so decode ambiguity
// cannot reach the emitter.
func Build(block *regblock.Block) (*AddressMap, error) {
	m := &AddressMap{
		Block:  block,
		byAddr: make(map[uint64]*Entry),
	}

	for _, register := range block.Registers {
		for _, view := range irq.Expand(register) {
			// The index fills as the entries are produced, so every view sees
			// the owners claimed before it
			if previous, taken := m.byAddr[view.WordOffset]; taken {
				return nil, &regblock.ValidationError{
					Kind:     regblock.ErrAddressCollision,
					Block:    block.ID,
					Register: register.ID,
					Details: fmt.Sprintf("word address %v already owned by '%v'",
						view.WordOffset, previous.Sub.Name()),
				}
			}

			entry := Entry{
				WordAddr: view.WordOffset,
				Sub:      view,
			}

			m.Entries = append(m.Entries, entry)
			m.byAddr[view.WordOffset] = &entry
		}
	}

	sort.Slice(m.Entries, func(i, j int) bool {
		return m.Entries[i].WordAddr < m.Entries[j].WordAddr
	})

	// Rebind the index to the sorted slice
	for i := range m.Entries {
		m.byAddr[m.Entries[i].WordAddr] = &m.Entries[i]
	}

	slog.Debug("address map built",
		"block", block.ID,
		"entries", len(m.Entries),
		"address_width", m.AddressWidth())

	return m, nil
}

// Returns the entry owning a word address
func (m *AddressMap) Lookup(addr uint64) (*Entry, bool) {
	entry, ok := m.byAddr[addr]
	return entry, ok
}

// True iff a write to the word address is acknowledged: the address is owned
// by a normal register or falls in the six-address range of an interrupt
// register. Writes to read-only views are acknowledged and have no effect.
func (m *AddressMap) WriteAck(addr uint64) bool {
	_, ok := m.byAddr[addr]
	return ok
}

// True iff a read of the word address is acknowledged. Evaluated against the
// read address, never the latched write address.
func (m *AddressMap) ReadAck(addr uint64) bool {
	_, ok := m.byAddr[addr]
	return ok
}

// Read value returned for an unmapped address: all ones across the data
// width, a deterministic decode error marker
func (m *AddressMap) DecodeErrorValue() uint64 {
	if m.Block.DataWidth == 64 {
		return ^uint64(0)
	}

	return (uint64(1) << m.Block.DataWidth) - 1
}

// Byte address width covering the highest owned word address
func (m *AddressMap) AddressWidth() int {
	return m.Block.AddressWidth()
}
