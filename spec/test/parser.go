package test

import (
	"encoding/json"
	"fmt"
	"io"

	spec "github.com/nihei9/clr/spec/grammar"
	"gopkg.in/yaml.v3"
)

// TestCase is a sequence of terminal symbols and the verdict a parser is expected to reach.
type TestCase struct {
	Name   string   `json:"name" yaml:"name"`
	Input  []string `json:"input" yaml:"input"`
	Accept bool     `json:"accept" yaml:"accept"`
}

func (c *TestCase) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("a test case needs a name")
	}
	for i, sym := range c.Input {
		if sym == "" {
			return fmt.Errorf("%v: input symbol #%v is empty", c.Name, i)
		}
	}
	return nil
}

// ParseTestCases parses a file containing a list of test cases.
func ParseTestCases(r io.Reader, format spec.Format) ([]*TestCase, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var cs []*TestCase
	switch format {
	case spec.FormatJSON:
		err = json.Unmarshal(src, &cs)
	case spec.FormatYAML:
		err = yaml.Unmarshal(src, &cs)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse test cases: %w", err)
	}

	for _, c := range cs {
		if c == nil {
			return nil, fmt.Errorf("a test case must not be null")
		}
		err := c.Validate()
		if err != nil {
			return nil, err
		}
	}

	return cs, nil
}
