package drc

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/fpgatools/regen/pkg/hdl/regblock/addrmap"
	"github.com/fpgatools/regen/pkg/hdl/regblock/drc"
	"github.com/fpgatools/regen/pkg/hdl/regblock/loader"
	"github.com/spf13/cobra"
)

var (
	colorRule = color.New(color.FgYellow)
	colorPath = color.New(color.FgCyan)
	colorFail = color.New(color.FgRed, color.Bold)
	colorPass = color.New(color.FgGreen, color.Bold)
)

// DrcCmd design-rule checks a descriptor without emitting anything
var DrcCmd = &cobra.Command{
	Use:   "drc INPUT",
	Short: "Design rule check a block descriptor",
	Long: `Loads a register block descriptor, validates the structural model (bit
ranges, address collisions after interrupt expansion) and checks the design
rules the model itself does not enforce, like identifier naming. Exits with a
non zero status if any rule is violated.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		block, err := loader.ReadFile(args[0])
		if err != nil {
			colorFail.Fprint(os.Stderr, "FAIL ")
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Address map construction re-checks collision freedom on the
		// expanded address space
		if _, err := addrmap.Build(block); err != nil {
			colorFail.Fprint(os.Stderr, "FAIL ")
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		violations := drc.Check(block)

		for _, violation := range violations {
			colorRule.Fprintf(os.Stderr, "[%v] ", violation.Rule)
			colorPath.Fprintf(os.Stderr, "%v", violation.Path)
			fmt.Fprintf(os.Stderr, ": %v\n", violation.Message)
		}

		if len(violations) > 0 {
			colorFail.Fprintf(os.Stderr, "FAIL")
			fmt.Fprintf(os.Stderr, " %v violation(s) in block '%v'\n", len(violations), block.ID)
			os.Exit(1)
		}

		colorPass.Fprint(os.Stderr, "PASS")
		fmt.Fprintf(os.Stderr, " block '%v' is clean\n", block.ID)
	},
}
