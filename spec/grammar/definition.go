package grammar

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format represents an encoding of a grammar definition or a test case file.
type Format string

const (
	FormatJSON = Format("json")
	FormatYAML = Format("yaml")
)

// Definition is a context-free grammar as a user writes it.
//
//	{
//	  "terminals": ["c", "d"],
//	  "nonTerminals": ["S", "C"],
//	  "startSymbol": "S",
//	  "productions": [
//	    {"symbol": "S", "produces": ["C", "C"]},
//	    {"symbol": "C", "produces": ["c", "C"]},
//	    {"symbol": "C", "produces": ["d"]}
//	  ]
//	}
type Definition struct {
	Name         string                  `json:"name,omitempty" yaml:"name,omitempty"`
	Terminals    []string                `json:"terminals" yaml:"terminals"`
	NonTerminals []string                `json:"nonTerminals" yaml:"nonTerminals"`
	StartSymbol  string                  `json:"startSymbol" yaml:"startSymbol"`
	Productions  []*ProductionDefinition `json:"productions" yaml:"productions"`
}

// ProductionDefinition is a production `Symbol → Produces`. A production whose Produces is `[ε]`
// (or empty) derives the empty string.
type ProductionDefinition struct {
	Symbol   string   `json:"symbol" yaml:"symbol"`
	Produces []string `json:"produces" yaml:"produces"`
}

func ParseDefinition(r io.Reader, format Format) (*Definition, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	def := &Definition{}
	switch format {
	case FormatJSON:
		err = json.Unmarshal(src, def)
	case FormatYAML:
		err = yaml.Unmarshal(src, def)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse a grammar definition: %w", err)
	}

	return def, nil
}
