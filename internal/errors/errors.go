package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Kind represents one of the four error categories the analysis pipeline
// distinguishes.
type Kind int

const (
	// Input covers missing or malformed request arguments: a relative path,
	// a path that does not exist, an invalid line range.
	Input Kind = iota
	// Environment covers a target that is not inside a version-controlled
	// repository.
	Environment
	// Engine covers a failure absorbed inside a single coupling/volatility/
	// drift/importer engine; the engine returns an empty result and the
	// pipeline continues.
	Engine
	// Configuration covers an invalid configuration document; it is treated
	// as absent rather than aborting the request.
	Configuration
)

// Severity mirrors the teacher's four-level severity scale, trimmed to the
// levels this pipeline actually produces.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Error is a structured error carrying a Kind, a Severity, optional
// structured Context, and a captured stack trace.
type Error struct {
	Kind       Kind
	Severity   Severity
	Message    string
	Cause      error
	Context    map[string]any
	StackTrace string
	Timestamp  time.Time
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error of the same Kind. This lets callers
// write errors.Is(err, errors.New(Environment, SeverityCritical, "")) to
// branch on kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithContext attaches a structured field and returns the receiver for
// chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsFatal reports whether this error should stop the current request rather
// than being absorbed: true for SeverityHigh and SeverityCritical, which the
// Input and Environment constructors use. Configuration errors
// (SeverityMedium) and Engine errors (SeverityLow) are not fatal.
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityCritical || e.Severity == SeverityHigh
}

// DetailedString renders kind, severity, message, cause, and context —
// intended for logs, never for the tool-protocol responses in §8 of
// SPEC_FULL.md, which use Message alone.
func (e *Error) DetailedString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] [%s] %s\n", severityString(e.Severity), kindString(e.Kind), e.Message))
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("Caused by: %v\n", e.Cause))
	}
	for k, v := range e.Context {
		sb.WriteString(fmt.Sprintf("  %s: %v\n", k, v))
	}
	if e.StackTrace != "" {
		sb.WriteString(e.StackTrace)
	}
	return sb.String()
}

func kindString(k Kind) string {
	switch k {
	case Input:
		return "INPUT"
	case Environment:
		return "ENVIRONMENT"
	case Engine:
		return "ENGINE"
	case Configuration:
		return "CONFIGURATION"
	default:
		return "UNKNOWN"
	}
}

func severityString(s Severity) string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

func captureStackTrace(skip int) string {
	var sb strings.Builder
	for i := skip; i < skip+8; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			break
		}
		sb.WriteString(fmt.Sprintf("  %s:%d %s\n", file, line, fn.Name()))
	}
	return sb.String()
}

func New(kind Kind, severity Severity, message string) *Error {
	return &Error{
		Kind:       kind,
		Severity:   severity,
		Message:    message,
		StackTrace: captureStackTrace(2),
		Timestamp:  time.Now(),
	}
}

func Wrap(err error, kind Kind, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:       kind,
		Severity:   severity,
		Message:    message,
		Cause:      err,
		StackTrace: captureStackTrace(2),
		Timestamp:  time.Now(),
	}
}

// NewInputError reports missing/malformed request arguments (§9 Input error).
func NewInputError(message string) *Error {
	return New(Input, SeverityHigh, message)
}

func NewInputErrorf(format string, args ...any) *Error {
	return New(Input, SeverityHigh, fmt.Sprintf(format, args...))
}

// NewEnvironmentError reports a target that is not inside a repository
// (§9 Environment error) — per spec this must not carry a cause or stack.
func NewEnvironmentError(message string) *Error {
	return &Error{Kind: Environment, Severity: SeverityCritical, Message: message, Timestamp: time.Now()}
}

// NewEngineError wraps a swallowed engine failure (§9 Engine error). Engine
// errors are never fatal — the engine returns an empty result instead of
// propagating this.
func NewEngineError(err error, message string) *Error {
	return Wrap(err, Engine, SeverityLow, message)
}

func NewEngineErrorf(err error, format string, args ...any) *Error {
	return Wrap(err, Engine, SeverityLow, fmt.Sprintf(format, args...))
}

// NewConfigurationError reports an invalid configuration document (§9
// Configuration error); the loader treats the configuration as absent.
func NewConfigurationError(err error, message string) *Error {
	return Wrap(err, Configuration, SeverityMedium, message)
}

// IsFatal reports whether err (if it is an *Error) should abort the request.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok {
		return e.IsFatal()
	}
	return false
}

// KindOf returns the Kind of err, or Engine if err is not a structured
// *Error (the conservative default: treat unknown errors as absorbable).
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return Engine
}
