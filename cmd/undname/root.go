package main

import (
	"fmt"
	"io"
	"os"

	"github.com/skdltmxn/undname-go/demangle"
	"github.com/spf13/cobra"
)

var (
	outputFile string
	output     io.Writer
)

var rootCmd = &cobra.Command{
	Use:   "undname <symbol>",
	Short: "MSVC C++ symbol demangler",
	Long: `undname converts symbol names produced by the Microsoft Visual C++
name-mangling scheme back into human-readable C++ declarations.

Example:
  undname "?x@@3HA"       -> int x
  undname "?g@@YAHH@Z"    -> int g(int)`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
	RunE: runDemangle,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")

	rootCmd.AddCommand(batchCmd)
}

func runDemangle(cmd *cobra.Command, args []string) error {
	result, err := demangle.Demangle(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(output, result)
	return nil
}
