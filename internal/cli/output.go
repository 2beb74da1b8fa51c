package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes of the deconj binary.
const (
	ExitOK    = 0
	ExitRules = 1 // the rule corpus is malformed
	ExitSetup = 2 // a file could not be read, the config is invalid, or the server failed
)

// Codes carried in the "code" field of a JSON error.
const (
	ErrCodeMalformed = "E001"
	ErrCodeNotFound  = "E002"
	ErrCodeGeneric   = "E099"
)

// ExitError ties a failed step to the exit code the process ends with.
type ExitError struct {
	Code int
	Op   string
	Err  error
}

func (e *ExitError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func exitError(code int, op string, err error) error {
	return &ExitError{Code: code, Op: op, Err: err}
}

// ExitCode maps the error returned by Execute to a process exit code.
// Errors that carry no code (flag parsing, argument checks) are setup
// errors.
func ExitCode(err error) int {
	var ee *ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ee):
		return ee.Code
	}
	return ExitSetup
}

// Envelope wraps every JSON document the commands print.
type Envelope struct {
	Status string   `json:"status"`
	Data   any      `json:"data,omitempty"`
	Error  *Problem `json:"error,omitempty"`
}

// Problem describes a failure in JSON output. Details holds the entry
// index and line of a malformed rule.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Printer writes command results as text or as an Envelope.
type Printer struct {
	JSON    bool
	Out     io.Writer
	Log     io.Writer // --verbose notes; kept off Out so JSON stays parseable
	Verbose bool
}

func newPrinter(opts *RootOptions, out, log io.Writer) *Printer {
	return &Printer{JSON: opts.Format == "json", Out: out, Log: log, Verbose: opts.Verbose}
}

// Result prints data, through text unless JSON output was asked for.
func (p *Printer) Result(data any, text func(io.Writer)) error {
	if p.JSON {
		return json.NewEncoder(p.Out).Encode(Envelope{Status: "ok", Data: data})
	}
	text(p.Out)
	return nil
}

// Problem prints a failure.
func (p *Printer) Problem(code, message string, details any) error {
	if p.JSON {
		return json.NewEncoder(p.Out).Encode(Envelope{
			Status: "error",
			Error:  &Problem{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(p.Out, "Error [%s]: %s\n", code, message)
	return nil
}

// Notef prints a diagnostic line when --verbose is set.
func (p *Printer) Notef(format string, args ...any) {
	if p.Verbose {
		fmt.Fprintf(p.Log, format+"\n", args...)
	}
}
