package grammar

import "errors"

var (
	// ErrInvalidGrammar reports a symbol that is neither a terminal nor a non-terminal of a grammar.
	ErrInvalidGrammar = errors.New("invalid grammar")

	// ErrNonTerminatingGrammar reports that FIRST sets didn't converge within the iteration limit.
	ErrNonTerminatingGrammar = errors.New("non-terminating grammar")
)

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoStartSym          = newSemanticError("a start symbol must be specified")
	semErrStartNotNonTerminal = newSemanticError("a start symbol must be a non-terminal")
	semErrEmptyName           = newSemanticError("a symbol name must not be empty")
	semErrReservedSym         = newSemanticError("ε and $ are reserved and cannot be declared")
	semErrDuplicateTerminal   = newSemanticError("duplicate terminal")
	semErrDuplicateNonTerm    = newSemanticError("duplicate non-terminal")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrMisplacedEpsilon    = newSemanticError("ε must be the only symbol of a production body")
	semErrNilProduction       = newSemanticError("a production must not be null")

	// The following errors don't abort building a grammar. A production causing them is dropped.
	semErrLHSNotNonTerminal   = newSemanticError("the LHS of a production must be a declared non-terminal")
	semErrDuplicateProduction = newSemanticError("duplicate production")
)
