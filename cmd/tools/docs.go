package tools

import (
	"fmt"
	"os"

	"github.com/fpgatools/regen/pkg/hdl/regblock/addrmap"
	"github.com/fpgatools/regen/pkg/hdl/regblock/loader"
	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs INPUT",
	Short: "Dump the address map documentation of a block descriptor",
	Long: `Loads a register block descriptor and dumps its expanded address map as a
markdown document: one row per word address (interrupt registers contribute
six) plus a bit layout diagram per address.

By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		block, err := loader.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error reading descriptor:", err)
			os.Exit(1)
		}

		amap, err := addrmap.Build(block)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error building address map:", err)
			os.Exit(1)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			file, err := os.Create(outputFile)
			if err != nil {
				fmt.Println("Error creating file:", err)
				os.Exit(1)
			}
			defer file.Close()
			fmt.Fprintln(file, amap.DocString())
		} else {
			fmt.Println(amap.DocString())
		}
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
