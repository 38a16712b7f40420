package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/clr/driver"
	spec "github.com/nihei9/clr/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var parseFlags = struct {
	source *string
	chars  *bool
	quiet  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <compiled grammar path>",
		Short: "Parse sequences of terminal symbols",
		Long: `parse reads one input per line. Symbols of a line are separated by white spaces,
or each character of a line is a symbol when --chars is set.`,
		Example: `  echo 'c d d' | clr parse grammar.json
  printf 'cdd\ndd\n' | clr parse grammar.json --chars`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.chars = cmd.Flags().Bool("chars", false, "treat each character of a line as a symbol")
	parseFlags.quiet = cmd.Flags().BoolP("quiet", "q", false, "print only verdicts")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	src := os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}
	inputs, err := readInputs(src, *parseFlags.chars)
	if err != nil {
		return err
	}

	gram := driver.NewGrammar(cgram)
	results := make([]*driver.Result, len(inputs))
	var g errgroup.Group
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			r, err := driver.Parse(gram, input)
			if err != nil {
				return fmt.Errorf("line %v: %w", i+1, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, r := range results {
		if !*parseFlags.quiet {
			pterm.DefaultSection.Printfln("line %v: %v", i+1, strings.Join(inputs[i], " "))
			driver.PrintTrace(os.Stdout, r.Trace)
		}
		if r.Accepted {
			pterm.Success.Printfln("line %v: accepted", i+1)
		} else {
			pterm.Error.Printfln("line %v: rejected", i+1)
		}
	}

	return nil
}

// readInputs reads one input per line. Empty lines are empty inputs.
func readInputs(r io.Reader, chars bool) ([][]string, error) {
	var inputs [][]string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if chars {
			input := []string{}
			for _, c := range line {
				input = append(input, string(c))
			}
			inputs = append(inputs, input)
			continue
		}
		inputs = append(inputs, strings.Fields(line))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(data, cgram)
	if err != nil {
		return nil, err
	}
	if cgram.ParsingTable == nil {
		return nil, fmt.Errorf("%v doesn't contain a parsing table", path)
	}
	return cgram, nil
}
