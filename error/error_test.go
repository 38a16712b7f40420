package error

import (
	"errors"
	"testing"
)

func TestSpecError_Error(t *testing.T) {
	cause := errors.New("undefined symbol")
	tests := []struct {
		err *SpecError
		msg string
	}{
		{
			err: &SpecError{
				Cause: cause,
			},
			msg: "error: undefined symbol",
		},
		{
			err: &SpecError{
				Cause:      cause,
				Detail:     "x",
				SourceName: "expr.json",
				Production: 3,
			},
			msg: "expr.json: production #3: error: undefined symbol: x",
		},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.msg {
			t.Errorf("unexpected message; want: %v, got: %v", tt.msg, tt.err.Error())
		}
		if !errors.Is(tt.err, cause) {
			t.Errorf("a spec error must unwrap to its cause")
		}
	}

	errs := SpecErrors{tests[0].err, tests[1].err}
	want := tests[0].msg + "\n" + tests[1].msg
	if errs.Error() != want {
		t.Errorf("unexpected message; want: %v, got: %v", want, errs.Error())
	}
}
