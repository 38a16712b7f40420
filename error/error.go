package error

import (
	"fmt"
	"strings"
)

type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}

	return b.String()
}

// SpecError is a problem found in a grammar definition. Production is the 1-based position of
// the offending production in the definition, or 0 when the problem is not about a production.
type SpecError struct {
	Cause      error
	Detail     string
	SourceName string
	Production int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Production != 0 {
		fmt.Fprintf(&b, "production #%v: ", e.Production)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}
