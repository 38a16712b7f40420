package grammar

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDefinition(t *testing.T) {
	expected := &Definition{
		Terminals:    []string{"c", "d"},
		NonTerminals: []string{"S", "C"},
		StartSymbol:  "S",
		Productions: []*ProductionDefinition{
			{Symbol: "S", Produces: []string{"C", "C"}},
			{Symbol: "C", Produces: []string{"c", "C"}},
			{Symbol: "C", Produces: []string{"d"}},
		},
	}

	tests := []struct {
		caption string
		src     string
		format  Format
	}{
		{
			caption: "JSON",
			src: `{
  "terminals": ["c", "d"],
  "nonTerminals": ["S", "C"],
  "startSymbol": "S",
  "productions": [
    {"symbol": "S", "produces": ["C", "C"]},
    {"symbol": "C", "produces": ["c", "C"]},
    {"symbol": "C", "produces": ["d"]}
  ]
}`,
			format: FormatJSON,
		},
		{
			caption: "YAML",
			src: `
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
`,
			format: FormatYAML,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			def, err := ParseDefinition(strings.NewReader(tt.src), tt.format)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(expected, def); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDefinition_Malformed(t *testing.T) {
	_, err := ParseDefinition(strings.NewReader(`{"terminals": [`), FormatJSON)
	if err == nil {
		t.Fatal("an error must occur")
	}
	_, err = ParseDefinition(strings.NewReader(`{}`), Format("toml"))
	if err == nil {
		t.Fatal("an error must occur for an unknown format")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"expr.json":    FormatJSON,
		"expr.yaml":    FormatYAML,
		"dir/expr.YML": FormatYAML,
		"expr":         FormatJSON,
	}
	for path, format := range tests {
		if f := FormatFromPath(path); f != format {
			t.Errorf("%v: unexpected format; want: %v, got: %v", path, format, f)
		}
	}
}
