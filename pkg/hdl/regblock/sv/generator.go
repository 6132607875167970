// Package sv emits the synthesizable SystemVerilog slave module of a block.
// The bus shell (signal names, state encodings, response codes) is a fixed
// external contract reproduced bit-exactly; the register logic is rendered
// from the expanded address map.
package sv

import (
	"embed"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"text/template"

	"github.com/fpgatools/regen/pkg/hdl/regblock"
	"github.com/fpgatools/regen/pkg/hdl/regblock/addrmap"
	"github.com/fpgatools/regen/pkg/hdl/regblock/irq"
	"github.com/fpgatools/regen/pkg/utils"
)

//go:embed templates
var Templates embed.FS

// The builtin template
const DefaultTemplate = "axi4l.sv.tmpl"

type Generator struct {
	template *template.Template
}

// Builds a generator from the builtin templates, or from the given template
// file when templateFile is not empty
func NewGenerator(templateFile string) (*Generator, error) {
	funcs := template.FuncMap{
		"ToUpper": strings.ToUpper,
		"ToLower": strings.ToLower,
		"String":  fmt.Sprint,
		"Binary": func(bits int, value uint64) string {
			return fmt.Sprintf("%v'b%v", bits, utils.FormatUintBinary(value, bits))
		},
		"Hex": func(bits int, value uint64) string {
			return fmt.Sprintf("%v'h%X", bits, value)
		},
		"Dec": func(bits int, value uint64) string {
			return fmt.Sprintf("%v'd%v", bits, value)
		},
		"Join": strings.Join,
		"Sub": func(a, b int) int {
			return a - b
		},
		"MapMember": func(member string, items any) ([]any, error) {
			v := reflect.ValueOf(items)
			if v.Kind() != reflect.Array && v.Kind() != reflect.Slice {
				return nil, fmt.Errorf("expected array, got %v", v.Kind())
			}

			arr := make([]any, v.Len())

			for i := 0; i < v.Len(); i++ {
				arr[i] = v.Index(i).Interface()
			}

			return utils.MapMember(member, arr)
		},
	}

	var t *template.Template
	var err error

	if templateFile == "" {
		t, err = template.New(DefaultTemplate).Funcs(funcs).
			ParseFS(Templates, "templates/*.tmpl")
	} else {
		t, err = template.New(templateFile).Funcs(funcs).
			ParseFiles(templateFile)
	}

	if err != nil {
		return nil, err
	}

	return &Generator{
		template: t,
	}, nil
}

// Renders the slave module of a block to a writer
func (g *Generator) GenerateTo(writer io.Writer, block *regblock.Block, amap *addrmap.AddressMap) error {
	return g.template.Execute(writer, makeView(block, amap))
}

// Renders the slave module of a block to a file
func (g *Generator) Generate(outputFile string, block *regblock.Block, amap *addrmap.AddressMap) error {
	f, err := os.Create(outputFile)

	if err != nil {
		return err
	}

	defer f.Close()
	return g.GenerateTo(f, block, amap)
}

// Everything the template needs, precomputed so the template stays
// declarative
type view struct {
	ID           string
	Name         string
	Description  string
	DataWidth    int
	AddressWidth int
	StrobeWidth  int
	// Low address bits selecting the byte lane, dropped by the word decode
	LaneBits     int
	WordAddrBits int
	// All-ones read value returned for unmapped addresses
	DecodeError uint64
	HasIrq      bool

	Ports   []portView
	Fields  []fieldView
	Entries []entryView
	Irqs    []irqView
}

type portView struct {
	Name      string
	Direction string
	Width     int
	// True for the last port in the list, which takes no trailing comma
	Last bool
}

type fieldView struct {
	Symbol string
	Access string
	Offset int
	Width  int
	// Top bit of the field slice inside the register word
	Hi    int
	Reset uint64
	// Word address of the owning register (the base address for interrupt
	// registers)
	Base uint64
	// Role addresses, meaningful for INT fields only
	TrapAddr  uint64
	MaskAddr  uint64
	ForceAddr uint64
	TrigAddr  uint64
}

type entryView struct {
	Name string
	Addr uint64
	// Right hand side of the read data mux arm
	ReadExpr string
}

type irqView struct {
	Port string
	// INT signal terms OR-ed into the irq output
	Terms []string
}

func makeView(block *regblock.Block, amap *addrmap.AddressMap) *view {
	laneBits := 2
	if block.DataWidth == 64 {
		laneBits = 3
	}

	v := &view{
		ID:           block.ID,
		Name:         block.Name,
		Description:  block.Description,
		DataWidth:    block.DataWidth,
		AddressWidth: amap.AddressWidth(),
		StrobeWidth:  block.DataWidth / 8,
		LaneBits:     laneBits,
		WordAddrBits: amap.AddressWidth() - laneBits,
		DecodeError:  amap.DecodeErrorValue(),
		HasIrq:       block.HasIrqOutput(),
	}

	for _, port := range block.Ports() {
		v.Ports = append(v.Ports, portView{
			Name:      port.Name,
			Direction: port.Direction.String(),
			Width:     port.BitWidth,
		})
	}

	if len(v.Ports) > 0 {
		v.Ports[len(v.Ports)-1].Last = true
	}

	for _, register := range block.Registers {
		for _, field := range register.Fields {
			fv := fieldView{
				Symbol: register.Symbol(field),
				Access: field.Access.String(),
				Offset: field.BitOffset,
				Width:  field.BitWidth,
				Hi:     field.PastTopBit() - 1,
				Reset:  field.Reset,
				Base:   register.AddressOffset,
			}

			if field.Access == regblock.FieldAccess_INT {
				fv.TrapAddr = register.AddressOffset + irq.Role_Trap.AddressOffset()
				fv.MaskAddr = register.AddressOffset + irq.Role_Mask.AddressOffset()
				fv.ForceAddr = register.AddressOffset + irq.Role_Force.AddressOffset()
				fv.TrigAddr = register.AddressOffset + irq.Role_Trig.AddressOffset()
			}

			v.Fields = append(v.Fields, fv)
		}

		if register.HasIrqOutput() {
			iv := irqView{Port: register.IrqSymbol()}

			for _, field := range register.Fields {
				if field.Access == regblock.FieldAccess_INT {
					iv.Terms = append(iv.Terms, "|"+register.Symbol(field)+"_int")
				}
			}

			v.Irqs = append(v.Irqs, iv)
		}
	}

	for _, entry := range amap.Entries {
		v.Entries = append(v.Entries, entryView{
			Name:     entry.Sub.Name(),
			Addr:     entry.WordAddr,
			ReadExpr: readExpr(block, entry),
		})
	}

	return v
}

// Builds the read mux arm of one address map entry: the OR of every
// contributing field's read source shifted to its bit slice
func readExpr(block *regblock.Block, entry addrmap.Entry) string {
	var terms []string

	for _, field := range entry.Sub.Fields() {
		symbol := entry.Sub.Register.Symbol(field)

		var source string

		switch entry.Sub.Role {
		case irq.Role_None:
			switch field.Access {
			case regblock.FieldAccess_RW:
				source = symbol + "_oreg"
			case regblock.FieldAccess_RO, regblock.FieldAccess_RW2:
				source = symbol + "_ireg"
			}

		case irq.Role_Int:
			source = symbol + "_int"
		case irq.Role_Trap, irq.Role_Dbg:
			source = symbol + "_trap"
		case irq.Role_Mask:
			source = symbol + "_mask"
		case irq.Role_Force:
			source = symbol + "_force"
		case irq.Role_Trig:
			source = symbol + "_trig"
		}

		if source == "" {
			continue
		}

		term := fmt.Sprintf("%v'(%v)", block.DataWidth, source)
		if field.BitOffset > 0 {
			term = fmt.Sprintf("(%v << %v)", term, field.BitOffset)
		}

		terms = append(terms, term)
	}

	if len(terms) == 0 {
		return fmt.Sprintf("%v'd0", block.DataWidth)
	}

	return strings.Join(terms, " | ")
}
