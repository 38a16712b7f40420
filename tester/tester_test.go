package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/clr/grammar"
	gspec "github.com/nihei9/clr/spec/grammar"
	tspec "github.com/nihei9/clr/spec/test"
)

const calibrationSrc = `
name: calibration
terminals: [c, d]
nonTerminals: [S, C]
startSymbol: S
productions:
  - symbol: S
    produces: [C, C]
  - symbol: C
    produces: [c, C]
  - symbol: C
    produces: [d]
`

func compile(t *testing.T, src string) *gspec.CompiledGrammar {
	t.Helper()

	def, err := gspec.ParseDefinition(strings.NewReader(src), gspec.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	b := grammar.GrammarBuilder{
		Definition: def,
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	cg, _, err := grammar.Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	return cg
}

func TestTester_Run(t *testing.T) {
	cg := compile(t, calibrationSrc)

	tests := []struct {
		caption string
		testSrc string
		format  gspec.Format
		error   bool
	}{
		{
			caption: "accepted sentences",
			testSrc: `
- name: two d
  input: [d, d]
  accept: true
- name: cdcd
  input: [c, d, c, d]
  accept: true
`,
			format: gspec.FormatYAML,
		},
		{
			caption: "rejected sentences",
			testSrc: `[
    {"name": "one d", "input": ["d"], "accept": false},
    {"name": "empty", "input": [], "accept": false}
]`,
			format: gspec.FormatJSON,
		},
		{
			caption: "a sentence expected to be accepted is rejected",
			testSrc: `
- name: three d
  input: [d, d, d]
  accept: true
`,
			format: gspec.FormatYAML,
			error:  true,
		},
		{
			caption: "a sentence expected to be rejected is accepted",
			testSrc: `
- name: dcd
  input: [d, c, d]
  accept: false
`,
			format: gspec.FormatYAML,
			error:  true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			cs, err := tspec.ParseTestCases(strings.NewReader(tt.testSrc), tt.format)
			if err != nil {
				t.Fatal(err)
			}
			var cases []*TestCaseWithMetadata
			for _, c := range cs {
				cases = append(cases, &TestCaseWithMetadata{
					TestCase: c,
					FilePath: "test",
				})
			}
			tester := &Tester{
				Grammar: cg,
				Cases:   cases,
			}
			rs := tester.Run()
			if len(rs) != len(cases) {
				t.Fatalf("unexpected number of results: %v", len(rs))
			}
			for j, r := range rs {
				if r.TestCaseName != cases[j].TestCase.Name {
					t.Errorf("results must be in the order of the cases: %v", r.TestCaseName)
				}
				if tt.error {
					if r.Error == nil {
						t.Errorf("an error must be reported: %v", r)
					}
					if len(r.Trace) == 0 {
						t.Errorf("a failed result must carry its trace")
					}
					if !strings.HasPrefix(r.String(), "Failed") {
						t.Errorf("unexpected result text: %v", r)
					}
				} else {
					if r.Error != nil {
						t.Errorf("unexpected error: %v", r.Error)
					}
					if !strings.HasPrefix(r.String(), "Passed") {
						t.Errorf("unexpected result text: %v", r)
					}
				}
			}
		})
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "accept.yaml"), []byte(`
- name: two d
  input: [d, d]
  accept: true
- name: cdd
  input: [c, d, d]
  accept: true
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(sub, "reject.json"), []byte(`[{"name": "one d", "input": ["d"], "accept": false}]`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(sub, "broken.json"), []byte(`[{"name": `), 0644)
	if err != nil {
		t.Fatal(err)
	}

	cases := ListTestCases(dir)
	if len(cases) != 4 {
		t.Fatalf("unexpected number of cases: %v", len(cases))
	}
	var broken int
	for _, c := range cases {
		if c.Error != nil {
			broken++
			if !strings.HasSuffix(c.FilePath, "broken.json") {
				t.Errorf("unexpected error: %v: %v", c.FilePath, c.Error)
			}
		}
	}
	if broken != 1 {
		t.Errorf("a broken file must yield one erroneous entry: %v", broken)
	}

	rs := (&Tester{
		Grammar: compile(t, calibrationSrc),
		Cases:   cases,
	}).Run()
	var failed int
	for _, r := range rs {
		if r.Error != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("only the broken file must fail: %v", rs)
	}

	missing := ListTestCases(filepath.Join(dir, "missing.yaml"))
	if len(missing) != 1 || missing[0].Error == nil {
		t.Errorf("a missing file must yield an erroneous entry: %v", missing)
	}
}
