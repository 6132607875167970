// Package drc implements the design rule checks that go beyond structural
// validation: rules a descriptor can violate while still producing a well
// formed model, like identifiers that are not legal HDL names.
package drc

import (
	"fmt"

	"github.com/fpgatools/regen/pkg/hdl/regblock"
)

// One design rule violation
type Violation struct {
	// Dotted path to the offending entity, e.g. "gpio.ctrl.mode"
	Path string
	Rule string
	// Human readable explanation
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%v] %v: %v", v.Rule, v.Path, v.Message)
}

const (
	Rule_IdentifierCharset = "id-charset"
	Rule_IdentifierEmpty   = "id-empty"
	Rule_IdentifierDigit   = "id-leading-digit"
)

func identifierViolations(path, id string) []Violation {
	if id == "" {
		return []Violation{{
			Path:    path,
			Rule:    Rule_IdentifierEmpty,
			Message: "identifier is empty",
		}}
	}

	var violations []Violation

	if id[0] >= '0' && id[0] <= '9' {
		violations = append(violations, Violation{
			Path:    path,
			Rule:    Rule_IdentifierDigit,
			Message: fmt.Sprintf("identifier '%v' starts with a digit", id),
		})
	}

	for _, c := range id {
		legal := c == '_' ||
			(c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9')

		if !legal {
			violations = append(violations, Violation{
				Path:    path,
				Rule:    Rule_IdentifierCharset,
				Message: fmt.Sprintf("identifier '%v' contains invalid char '%c'", id, c),
			})
			break
		}
	}

	return violations
}

// Checks every identifier of the block against the design rules. Returns
// nil when the block is clean.
func Check(block *regblock.Block) []Violation {
	violations := identifierViolations(block.ID, block.ID)

	for _, register := range block.Registers {
		registerPath := block.ID + "." + register.ID
		violations = append(violations, identifierViolations(registerPath, register.ID)...)

		for _, field := range register.Fields {
			fieldPath := registerPath + "." + field.ID
			violations = append(violations, identifierViolations(fieldPath, field.ID)...)
		}
	}

	return violations
}
