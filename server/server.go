package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nihei9/clr/driver"
	verr "github.com/nihei9/clr/error"
	"github.com/nihei9/clr/grammar"
	spec "github.com/nihei9/clr/spec/grammar"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/errgroup"
)

// tracer traces with key 'clr.server'.
func tracer() tracing.Trace {
	return tracing.Select("clr.server")
}

type CompileRequest struct {
	Definition  *spec.Definition `json:"definition"`
	KernelMatch string           `json:"kernel_match,omitempty"`
	Report      bool             `json:"report,omitempty"`
}

type CompileResponse struct {
	Grammar              *spec.CompiledGrammar `json:"grammar"`
	Report               *spec.Report          `json:"report,omitempty"`
	Diagnostics          []string              `json:"diagnostics,omitempty"`
	ShiftReduceConflicts int                   `json:"shift_reduce_conflicts"`
}

// ParseRequest needs either a definition or a compiled grammar. A definition is compiled on
// every request.
type ParseRequest struct {
	Definition *spec.Definition      `json:"definition,omitempty"`
	Grammar    *spec.CompiledGrammar `json:"grammar,omitempty"`
	Inputs     [][]string            `json:"inputs"`
	Trace      bool                  `json:"trace,omitempty"`
}

type ParseResult struct {
	Input    []string       `json:"input"`
	Accepted bool           `json:"accepted"`
	Trace    []*driver.Step `json:"trace,omitempty"`
}

type ParseResponse struct {
	Results []*ParseResult `json:"results"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// ConflictResponse describes a reduce/reduce conflict preventing a parsing table from being built.
type ConflictResponse struct {
	Error     string   `json:"error"`
	Kind      string   `json:"kind"`
	State     string   `json:"state"`
	LookAhead string   `json:"look_ahead"`
	Items     []string `json:"items"`
}

func compileDefinition(def *spec.Definition, kernelMatch string) (*spec.CompiledGrammar, *spec.Report, verr.SpecErrors, error) {
	m, err := grammar.ParseKernelMatch(kernelMatch)
	if err != nil {
		return nil, nil, nil, err
	}
	b := grammar.GrammarBuilder{
		Definition: def,
		SourceName: def.Name,
	}
	g, err := b.Build()
	if err != nil {
		return nil, nil, nil, err
	}
	cg, report, err := grammar.Compile(g, grammar.EnableReporting(), grammar.KernelMatching(m))
	if err != nil {
		return nil, nil, nil, err
	}
	return cg, report, g.Diagnostics(), nil
}

// abortWithError maps an error of the compilation pipeline to a response. Conflicts are 422,
// and every other problem of a definition is 400.
func abortWithError(c *gin.Context, err error) {
	var rr *grammar.ReduceReduceConflict
	if errors.As(err, &rr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ConflictResponse{
			Error:     err.Error(),
			Kind:      string(rr.Kind()),
			State:     rr.State,
			LookAhead: rr.LookAhead.String(),
			Items:     []string{rr.Item1.String(), rr.Item2.String()},
		})
		return
	}

	var specErrs verr.SpecErrors
	if errors.As(err, &specErrs) {
		details := make([]string, len(specErrs))
		for i, e := range specErrs {
			details[i] = e.Error()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid grammar definition",
			Details: details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error: err.Error(),
	})
}

func CompileHandler(c *gin.Context) {
	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if req.Definition == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "definition is required"})
		return
	}

	cg, report, diags, err := compileDefinition(req.Definition, req.KernelMatch)
	if err != nil {
		tracer().Infof("compilation failed: %v", err)
		abortWithError(c, err)
		return
	}

	resp := CompileResponse{
		Grammar: cg,
	}
	for _, s := range report.States {
		resp.ShiftReduceConflicts += len(s.SRConflict)
	}
	for _, d := range diags {
		resp.Diagnostics = append(resp.Diagnostics, d.Error())
	}
	if req.Report {
		resp.Report = report
	}
	c.JSON(http.StatusOK, resp)
}

func ParseHandler(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	cg := req.Grammar
	switch {
	case req.Definition != nil && req.Grammar != nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "definition and grammar are mutually exclusive"})
		return
	case req.Definition != nil:
		var err error
		cg, _, _, err = compileDefinition(req.Definition, "")
		if err != nil {
			abortWithError(c, err)
			return
		}
	case req.Grammar == nil || req.Grammar.ParsingTable == nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "either definition or grammar is required"})
		return
	}

	gram := driver.NewGrammar(cg)
	results := make([]*ParseResult, len(req.Inputs))
	g, ctx := errgroup.WithContext(c.Request.Context())
	for i, input := range req.Inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := driver.Parse(gram, input, driver.MaxSteps(maxSteps(cg, input)))
			if err != nil {
				return fmt.Errorf("input #%v: %w", i, err)
			}
			results[i] = &ParseResult{
				Input:    input,
				Accepted: r.Accepted,
			}
			if req.Trace {
				results[i].Trace = r.Trace
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracer().Errorf("parse failed: %v", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ParseResponse{Results: results})
}

// maxSteps bounds a parse over a grammar sent by a client, which may be corrupted.
func maxSteps(cg *spec.CompiledGrammar, input []string) int {
	ptab := cg.ParsingTable
	return (len(input) + 1) * (len(ptab.States) + len(ptab.Productions) + 1)
}

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func GenerateRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", HealthHandler)
	r.POST("/api/compile", CompileHandler)
	r.POST("/api/parse", ParseHandler)

	return r
}

func Serve(ln net.Listener) error {
	tracer().Infof("listening on %v", ln.Addr())
	srvr := &http.Server{
		Handler: GenerateRoutes(),
	}
	return srvr.Serve(ln)
}
