package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	verr "github.com/nihei9/clr/error"
	"github.com/nihei9/clr/grammar"
	spec "github.com/nihei9/clr/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output      *string
	report      *string
	format      *string
	kernelMatch *string
	example     *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "compile [<grammar definition path>]",
		Short: "Compile a grammar definition into a parsing table",
		Example: `  clr compile grammar.yaml -o grammar.json
  clr compile --example -o calibration.json -r calibration-report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = cmd.Flags().StringP("report", "r", "", "write a report to this path for the show command")
	compileFlags.format = cmd.Flags().String("format", "json", "format of a definition read from stdin [json|yaml]")
	compileFlags.kernelMatch = cmd.Flags().String("kernel-match", "subset", "how a kernel is matched against existing states [subset|exact]")
	compileFlags.example = cmd.Flags().Bool("example", false, "compile the built-in example grammar (S → C C, C → c C | d)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	m, err := grammar.ParseKernelMatch(*compileFlags.kernelMatch)
	if err != nil {
		return err
	}

	gram, err := readGrammarFromArgs(args, *compileFlags.example, *compileFlags.format)
	if err != nil {
		return err
	}
	for _, d := range gram.Diagnostics() {
		pterm.Warning.Println(d.Error())
	}

	cgram, report, err := grammar.Compile(gram, grammar.EnableReporting(), grammar.KernelMatching(m))
	if err != nil {
		var rr *grammar.ReduceReduceConflict
		if errors.As(err, &rr) {
			return fmt.Errorf("The grammar is not CLR(1): %w", err)
		}
		return err
	}

	err = writeJSON(os.Stdout, *compileFlags.output, cgram)
	if err != nil {
		return fmt.Errorf("Cannot write the compiled grammar: %w", err)
	}
	if *compileFlags.report != "" {
		err = writeJSON(nil, *compileFlags.report, report)
		if err != nil {
			return fmt.Errorf("Cannot write the report: %w", err)
		}
	}

	var srCount int
	for _, s := range report.States {
		srCount += len(s.SRConflict)
	}
	if srCount > 0 {
		pterm.Warning.Printfln("%v shift/reduce conflicts (resolved in favor of reductions)", srCount)
	}

	return nil
}

// readGrammarFromArgs reads the definition named by args, stdin when args is empty, or the
// built-in example.
func readGrammarFromArgs(args []string, example bool, stdinFormat string) (*grammar.Grammar, error) {
	if example {
		if len(args) > 0 {
			return nil, fmt.Errorf("--example and a grammar definition path are mutually exclusive")
		}
		b := grammar.GrammarBuilder{
			Definition: exampleDefinition(),
			SourceName: "example",
		}
		return b.Build()
	}

	if len(args) == 0 {
		return readGrammar(os.Stdin, "stdin", spec.Format(stdinFormat))
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", args[0], err)
	}
	defer f.Close()
	return readGrammar(f, args[0], spec.FormatFromPath(args[0]))
}

func readGrammar(r io.Reader, sourceName string, format spec.Format) (*grammar.Grammar, error) {
	def, err := spec.ParseDefinition(r, format)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", sourceName, err)
	}

	b := grammar.GrammarBuilder{
		Definition: def,
		SourceName: sourceName,
	}
	g, err := b.Build()
	if err != nil {
		var specErrs verr.SpecErrors
		if errors.As(err, &specErrs) {
			return nil, specErrs
		}
		return nil, fmt.Errorf("%v: %w", sourceName, err)
	}
	return g, nil
}

// writeJSON writes v to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v interface{}) error {
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}
