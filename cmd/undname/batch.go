package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/skdltmxn/undname-go/demangle"
	"github.com/spf13/cobra"
)

var (
	batchFormat string
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Demangle a list of symbols",
	Long: `Demangle a newline-separated list of symbols read from a file,
or from standard input when no file is given.

Supported formats:
  - text: One demangled name per line (default)
  - json: JSON array with mangled and demangled forms`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "text", "output format (text, json)")
}

type BatchEntry struct {
	Mangled   string `json:"mangled"`
	Demangled string `json:"demangled,omitempty"`
	Error     string `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var entries []BatchEntry
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}

		entry := BatchEntry{Mangled: name}
		if result, err := demangle.Demangle(name); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Demangled = result
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	switch batchFormat {
	case "json":
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "text":
		for _, entry := range entries {
			if entry.Error != "" {
				fmt.Fprintf(os.Stderr, "%s: %s\n", entry.Mangled, entry.Error)
				continue
			}
			fmt.Fprintln(output, entry.Demangled)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", batchFormat)
	}
}
