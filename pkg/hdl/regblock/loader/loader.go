// Package loader reads register block descriptors from JSON or YAML
// documents into validated structural models. Missing descriptor attributes
// take the conventional defaults: access RW, bit_width 1, bit_offset 0,
// reset 0, data_width 32.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fpgatools/regen/pkg/hdl/regblock"
	"github.com/fpgatools/regen/pkg/utils"
	"gopkg.in/yaml.v3"
)

// The descriptor document could not be decoded at all
var ErrMalformedDescriptor = errors.New("malformed descriptor")

// Descriptor input format
type Format uint

const (
	Format_JSON Format = iota
	Format_YAML
)

func (f Format) String() string {
	switch f {
	case Format_JSON:
		return "json"
	case Format_YAML:
		return "yaml"
	}

	panic("unreachable")
}

// Parses an input format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return Format_JSON, nil
	case "yaml", "yml":
		return Format_YAML, nil
	}

	return Format_JSON, fmt.Errorf("unsupported input format '%v'", s)
}

// Guesses the input format from a file extension
func GuessFormat(path string) (Format, error) {
	switch filepath.Ext(path) {
	case ".json":
		return Format_JSON, nil
	case ".yaml", ".yml":
		return Format_YAML, nil
	}

	return Format_JSON, fmt.Errorf("cannot guess input format of '%v', use -f/--from", path)
}

// Plain descriptor shapes, converted to the validated model after decoding

type fieldDescriptor struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Access      string `json:"access" yaml:"access"`
	BitOffset   int    `json:"bit_offset" yaml:"bit_offset"`
	BitWidth    int    `json:"bit_width" yaml:"bit_width"`
	Reset       uint64 `json:"reset" yaml:"reset"`
}

type registerDescriptor struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	Description   string            `json:"description" yaml:"description"`
	Type          string            `json:"type" yaml:"type"`
	AddressOffset uint64            `json:"address_offset" yaml:"address_offset"`
	Fields        []fieldDescriptor `json:"fields" yaml:"fields"`
}

type blockDescriptor struct {
	ID          string               `json:"id" yaml:"id"`
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description" yaml:"description"`
	DataWidth   int                  `json:"data_width" yaml:"data_width"`
	BaseAddress uint64               `json:"base_address" yaml:"base_address"`
	Registers   []registerDescriptor `json:"registers" yaml:"registers"`
}

// Reads a block descriptor in the given format
func Read(reader io.Reader, format Format) (*regblock.Block, error) {
	var descriptor blockDescriptor

	switch format {
	case Format_JSON:
		if err := json.NewDecoder(reader).Decode(&descriptor); err != nil {
			return nil, utils.MakeError(ErrMalformedDescriptor, "error parsing json descriptor: %v", err)
		}

	case Format_YAML:
		if err := yaml.NewDecoder(reader).Decode(&descriptor); err != nil {
			return nil, utils.MakeError(ErrMalformedDescriptor, "error parsing yaml descriptor: %v", err)
		}
	}

	return makeBlock(&descriptor)
}

// Reads a block descriptor from a file, guessing the format from the
// extension
func ReadFile(path string) (*regblock.Block, error) {
	format, err := GuessFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	block, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}

	return block, nil
}

func makeBlock(descriptor *blockDescriptor) (*regblock.Block, error) {
	registers := make([]*regblock.Register, 0, len(descriptor.Registers))

	for _, r := range descriptor.Registers {
		register, err := makeRegister(&r)
		if err != nil {
			return nil, err
		}

		registers = append(registers, register)
	}

	if descriptor.DataWidth == 0 {
		descriptor.DataWidth = 32
	}

	block, err := regblock.NewBlock(regblock.Block{
		ID:          descriptor.ID,
		Name:        descriptor.Name,
		Description: descriptor.Description,
		DataWidth:   descriptor.DataWidth,
		BaseAddress: descriptor.BaseAddress,
		Registers:   registers,
	})

	if err != nil {
		return nil, err
	}

	slog.Debug("descriptor loaded",
		"block", block.ID,
		"registers", len(block.Registers),
		"data_width", block.DataWidth)

	return block, nil
}

func makeRegister(descriptor *registerDescriptor) (*regblock.Register, error) {
	if descriptor.Type == "" {
		descriptor.Type = "NORMAL"
	}

	registerType, err := regblock.ParseRegisterType(descriptor.Type)
	if err != nil {
		return nil, err
	}

	fields := make([]*regblock.Field, 0, len(descriptor.Fields))

	for _, f := range descriptor.Fields {
		field, err := makeField(&f)
		if err != nil {
			return nil, err
		}

		fields = append(fields, field)
	}

	return regblock.NewRegister(regblock.Register{
		ID:            descriptor.ID,
		Name:          descriptor.Name,
		Description:   descriptor.Description,
		Type:          registerType,
		AddressOffset: descriptor.AddressOffset,
		Fields:        fields,
	})
}

func makeField(descriptor *fieldDescriptor) (*regblock.Field, error) {
	if descriptor.Access == "" {
		descriptor.Access = "RW"
	}

	access, err := regblock.ParseFieldAccess(descriptor.Access)
	if err != nil {
		return nil, err
	}

	if descriptor.BitWidth == 0 {
		descriptor.BitWidth = 1
	}

	return regblock.NewField(regblock.Field{
		ID:          descriptor.ID,
		Description: descriptor.Description,
		Access:      access,
		BitOffset:   descriptor.BitOffset,
		BitWidth:    descriptor.BitWidth,
		Reset:       descriptor.Reset,
	})
}
