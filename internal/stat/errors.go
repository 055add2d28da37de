package stat

import (
	"errors"
	"fmt"
)

// ErrMaxSizeExceeded reports that the body sink refused further bytes
// because the configured response-size ceiling was crossed. It is
// distinguished from generic transport failures so the presentation
// layer can name the condition.
var ErrMaxSizeExceeded = errors.New("maximum response size exceeded")

// ConfigError is a setup failure: invalid URL, unusable option, bad
// header line. It is detected before any I/O and is fatal to the
// request.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuring %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError wraps any failure the performer reported for the
// transfer, surfaced with the transport's original description.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a malformed wire-format line. A bad status line is
// a transport contract violation, not a recoverable condition; the
// offending line is carried for diagnostics.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q: %s", e.Line, e.Reason)
}
