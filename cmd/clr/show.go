package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	spec "github.com/nihei9/clr/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <report path>",
		Short:   "Print a report in a readable format",
		Example: `  clr show calibration-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	err = writeReport(os.Stdout, report)
	if err != nil {
		return err
	}

	return nil
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

const reportTemplate = `# Conflicts

{{ printConflictSummary . }}
{{ range .Dropped -}}
dropped: {{ . }}
{{ end }}
# Productions

{{ range slice .Productions 1 -}}
{{ printProduction . }}
{{ end }}
# Parsing Table

{{ printTable . }}
# States
{{ range .States }}
## State {{ .Name }}

{{ range .Closure -}}
{{ printItem . }}
{{ end }}
{{ if .Accept -}}
accept on $
{{ end -}}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *spec.Report) error {
	findProduction := func(num int) (*spec.Production, bool) {
		if num <= 0 || num >= len(report.Productions) || report.Productions[num] == nil {
			return nil, false
		}
		return report.Productions[num], true
	}
	prodText := func(num int) string {
		prod, ok := findProduction(num)
		if !ok {
			return fmt.Sprintf("#%v", num)
		}
		return fmt.Sprintf("%v -> %v", prod.LHS, strings.Join(prod.RHS, " "))
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			var count int
			for _, s := range report.States {
				count += len(s.SRConflict)
			}
			switch count {
			case 0:
				return "No conflict"
			case 1:
				return "1 shift/reduce conflict occurred and was resolved in favor of the reduction."
			}
			return fmt.Sprintf("%v shift/reduce conflicts occurred and were resolved in favor of the reductions.", count)
		},
		"printProduction": func(prod *spec.Production) string {
			return fmt.Sprintf("%4v %v", prod.Number, prodText(prod.Number))
		},
		"printItem": func(item *spec.Item) string {
			prod, ok := findProduction(item.Production)
			if !ok {
				return fmt.Sprintf("%4v #%v (unknown production), %v", item.Production, item.Production, strings.Join(item.LookAhead, " | "))
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%v ->", prod.LHS)
			if prod.Epsilon {
				fmt.Fprintf(&b, " . %v", strings.Join(prod.RHS, " "))
			} else {
				for i, sym := range prod.RHS {
					if i == item.Dot {
						fmt.Fprintf(&b, " .")
					}
					fmt.Fprintf(&b, " %v", sym)
				}
				if item.Dot >= len(prod.RHS) {
					fmt.Fprintf(&b, " .")
				}
			}
			fmt.Fprintf(&b, ", %v", strings.Join(item.LookAhead, " | "))

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, tran.Symbol)
		},
		"printReduce": func(reduce *spec.Reduce) string {
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, strings.Join(reduce.LookAhead, ", "))
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, tran.Symbol)
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v: reduce %v adopted", sr.State, sr.Production, sr.Symbol, sr.AdoptedProduction)
		},
		"printTable": func(report *spec.Report) (string, error) {
			return renderTable(report)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, report)
	if err != nil {
		return err
	}

	return nil
}

// renderTable renders the ACTION and GOTO tables side by side, one row per state.
func renderTable(report *spec.Report) (string, error) {
	header := []string{"STATE"}
	for _, t := range report.Terminals {
		header = append(header, t.Name)
	}
	for _, n := range report.NonTerminals {
		header = append(header, n.Name)
	}
	data := pterm.TableData{header}

	for _, s := range report.States {
		cells := map[string]string{}
		if s.Accept {
			cells["$"] = "acc"
		}
		for _, sh := range s.Shift {
			cells[sh.Symbol] = "s " + sh.State
		}
		for _, r := range s.Reduce {
			for _, a := range r.LookAhead {
				cells[a] = fmt.Sprintf("r %v", r.Production)
			}
		}
		for _, g := range s.GoTo {
			cells[g.Symbol] = g.State
		}

		row := make([]string, len(header))
		row[0] = s.Name
		for i, sym := range header[1:] {
			row[i+1] = cells[sym]
		}
		data = append(data, row)
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
