package main

import (
	"errors"
	"fmt"

	"github.com/nihei9/clr/grammar"
	"github.com/nihei9/clr/tester"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar definition path> <test file path>|<test directory path>",
		Short:   "Test a grammar",
		Example: `  clr test grammar.yaml test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	g, err := readGrammarFromArgs(args[:1], false, "")
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}
	cg, _, err := grammar.Compile(g)
	if err != nil {
		return fmt.Errorf("Cannot compile the grammar: %w", err)
	}

	cs := tester.ListTestCases(args[1])
	for _, c := range cs {
		if c.Error != nil {
			return fmt.Errorf("Cannot read test cases from %v: %w", c.FilePath, c.Error)
		}
	}

	t := &tester.Tester{
		Grammar: cg,
		Cases:   cs,
	}
	var failed int
	for _, r := range t.Run() {
		if r.Error != nil {
			failed++
			pterm.Error.Println(r)
			continue
		}
		pterm.Success.Println(r)
	}

	pterm.Info.Printfln("%v passed, %v failed", len(cs)-failed, failed)
	if failed > 0 {
		return errors.New("Test failed")
	}
	return nil
}
