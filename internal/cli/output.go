package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// formctl exit statuses. Scripts can tell a form with problems apart from
// a command that never got to look at the form.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // form has problems, or the walk could not submit
	ExitCommandError = 2 // unreadable file, malformed YAML, bad arguments
)

// ExitError carries the status formctl exits with alongside the message.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError reports a failure that has no underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit status to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps a command result to the process exit status. Errors that
// carry no status count as ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse wraps every --format json result.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type outputFormatter struct {
	format string
	w      io.Writer
}

func (f *outputFormatter) json() bool {
	return f.format == "json"
}

func (f *outputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func (f *outputFormatter) printf(format string, args ...interface{}) {
	fmt.Fprintf(f.w, format, args...)
}
