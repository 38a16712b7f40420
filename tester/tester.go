package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/clr/driver"
	gspec "github.com/nihei9/clr/spec/grammar"
	tspec "github.com/nihei9/clr/spec/test"
	"golang.org/x/sync/errgroup"
)

type TestResult struct {
	TestCasePath string
	TestCaseName string
	Error        error
	Trace        []*driver.Step
}

func (r *TestResult) String() string {
	name := r.TestCasePath
	if r.TestCaseName != "" {
		name = fmt.Sprintf("%v: %v", r.TestCasePath, r.TestCaseName)
	}
	if r.Error != nil {
		const indent1 = "    "

		msgLines := strings.Split(r.Error.Error(), "\n")
		return fmt.Sprintf("Failed %v:\n%v%v", name, indent1, strings.Join(msgLines, "\n"+indent1))
	}
	return fmt.Sprintf("Passed %v", name)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

// ListTestCases collects test cases from a file or, recursively, from a directory. A file that
// cannot be read yields a single entry carrying the error.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		cs, err := parseTestCases(testPath)
		if err != nil {
			return []*TestCaseWithMetadata{
				{
					FilePath: testPath,
					Error:    err,
				},
			}
		}
		cases := make([]*TestCaseWithMetadata, len(cs))
		for i, c := range cs {
			cases[i] = &TestCaseWithMetadata{
				TestCase: c,
				FilePath: testPath,
			}
		}
		return cases
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCases(testCasePath string) ([]*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCases(f, gspec.FormatFromPath(testCasePath))
}

type Tester struct {
	Grammar *gspec.CompiledGrammar
	Cases   []*TestCaseWithMetadata
}

// Run runs all test cases concurrently. The results are in the same order as the cases.
func (t *Tester) Run() []*TestResult {
	gram := driver.NewGrammar(t.Grammar)
	rs := make([]*TestResult, len(t.Cases))
	var g errgroup.Group
	for i, c := range t.Cases {
		i, c := i, c
		g.Go(func() error {
			rs[i] = runTest(gram, c)
			return nil
		})
	}
	g.Wait()
	return rs
}

func runTest(gram driver.Grammar, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	r, err := driver.Parse(gram, c.TestCase.Input)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			TestCaseName: c.TestCase.Name,
			Error:        err,
		}
	}

	if r.Accepted != c.TestCase.Accept {
		return &TestResult{
			TestCasePath: c.FilePath,
			TestCaseName: c.TestCase.Name,
			Error:        fmt.Errorf("verdict mismatch; expected: %v, actual: %v\ninput: %v", verdict(c.TestCase.Accept), verdict(r.Accepted), strings.Join(c.TestCase.Input, " ")),
			Trace:        r.Trace,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
		TestCaseName: c.TestCase.Name,
	}
}

func verdict(accepted bool) string {
	if accepted {
		return "accept"
	}
	return "reject"
}
