package driver

import (
	"fmt"
	"io"
	"strings"

	spec "github.com/nihei9/clr/spec/grammar"
	"github.com/olekukonko/tablewriter"
)

type StepAction struct {
	Type           spec.ActionType `json:"type"`
	State          string          `json:"state,omitempty"`
	Production     int             `json:"production,omitempty"`
	ProductionText string          `json:"production_text,omitempty"`
}

func (a *StepAction) String() string {
	switch a.Type {
	case spec.ActionTypeShift:
		return fmt.Sprintf("shift %v", a.State)
	case spec.ActionTypeReduce:
		return fmt.Sprintf("reduce %v", a.ProductionText)
	}
	return string(a.Type)
}

// Step is a snapshot taken right before a parser performs an action. StackStates has one more
// element than StackSymbols because the initial state has no symbol. RemainingInput ends with
// the end-of-input symbol.
type Step struct {
	StackSymbols   []string    `json:"stack_symbols"`
	StackStates    []string    `json:"stack_states"`
	TopOfStack     string      `json:"top_of_stack"`
	Action         *StepAction `json:"action"`
	RemainingInput []string    `json:"remaining_input"`
}

func (s *Step) String() string {
	return fmt.Sprintf("stack: %v, input: %v, action: %v", s.stackText(), strings.Join(s.RemainingInput, " "), s.Action)
}

// stackText returns a stack like `I0 C I2 c I3`.
func (s *Step) stackText() string {
	var b strings.Builder
	for i, state := range s.StackStates {
		if i > 0 {
			fmt.Fprintf(&b, " %v ", s.StackSymbols[i-1])
		}
		fmt.Fprint(&b, state)
	}
	return b.String()
}

// PrintTrace writes a trace as a table having the columns of a classic parse log.
func PrintTrace(w io.Writer, trace []*Step) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"STEP", "PARSING STACK", "TOP OF STACK", "INPUT BUFFER", "ACTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	for i, s := range trace {
		tos := s.TopOfStack
		if tos == "" {
			tos = "-"
		}
		table.Append([]string{
			fmt.Sprint(i + 1),
			s.stackText(),
			tos,
			strings.Join(s.RemainingInput, " "),
			s.Action.String(),
		})
	}
	table.Render()
}
