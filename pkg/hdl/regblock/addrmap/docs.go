package addrmap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fpgatools/regen/pkg/hdl/regblock"
	"github.com/fpgatools/regen/pkg/hdl/regblock/irq"
	"github.com/fpgatools/regen/pkg/utils"
)

// Renders the address map as a markdown document: one summary table plus a
// bit layout diagram per word address
func (m *AddressMap) DocString() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("# %v address map\n\n", m.Block.ID))

	if m.Block.Name != "" {
		builder.WriteString(m.Block.Name + "\n\n")
	}

	builder.WriteString(fmt.Sprintf(
		"Data width %v bits, address width %v bits, base address %v.\n\n",
		m.Block.DataWidth,
		m.AddressWidth(),
		utils.FormatUintHex(m.Block.BaseAddress, 8)))

	builder.WriteString("| word addr | name | access | reset |\n")
	builder.WriteString("|-----------|------|--------|-------|\n")

	for _, entry := range m.Entries {
		builder.WriteString(fmt.Sprintf("| %v | %v | %v | %v |\n",
			entry.WordAddr,
			entry.Sub.Name(),
			entryAccess(&entry),
			utils.FormatUintHex(entry.Sub.Reset(), 8)))
	}

	for _, entry := range m.Entries {
		builder.WriteString(fmt.Sprintf("\n## %v @ %v\n\n", entry.Sub.Name(), entry.WordAddr))

		if description := entry.Sub.Register.Description; description != "" && entry.Sub.Role == irq.Role_None {
			builder.WriteString(description + "\n\n")
		}

		builder.WriteString("```\n")
		builder.WriteString(bitLayout(m.Block, &entry))
		builder.WriteString("```\n")
	}

	return builder.String()
}

func entryAccess(entry *Entry) string {
	if entry.Sub.Role == irq.Role_None {
		accesses := utils.Map(entry.Sub.Fields(), func(field *regblock.Field) string {
			return field.Access.String()
		})

		return utils.FormatSlice(accesses, "/")
	}

	if entry.Sub.Role.ReadOnly() {
		return "RO"
	}

	return "RW"
}

func bitLayout(block *regblock.Block, entry *Entry) string {
	fields := append([]*regblock.Field{}, entry.Sub.Fields()...)

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].BitOffset < fields[j].BitOffset
	})

	frame := utils.Map(fields, func(field *regblock.Field) utils.AsciiFrameField {
		return utils.AsciiFrameField{
			Name:  field.ID,
			Begin: field.BitOffset,
			Width: field.BitWidth,
		}
	})

	return utils.AsciiFrame(frame, block.DataWidth, "bits", utils.AsciiFrameUnitLayout_RightToLeft, 0)
}
