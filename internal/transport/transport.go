// Package transport defines the boundary between the transfer engine and
// the component that performs network I/O. The engine configures a Handle,
// registers byte callbacks, then drives it through the poll/wake protocol
// until the transfer completes. Cumulative phase timers are read back from
// the handle once completion has been confirmed.
package transport

import (
	"context"
	"time"
)

// BodyFunc receives response body bytes as they arrive and reports how
// many of them it accepted. Accepting fewer bytes than offered aborts
// the transfer with a write-callback failure.
type BodyFunc func(chunk []byte) int

// ReadFunc fills buf with outgoing request body bytes and returns the
// number written. A zero return means the body is exhausted.
type ReadFunc func(buf []byte) int

// HeaderFunc receives one raw response header line, line terminators
// included. Returning false aborts the transfer.
type HeaderFunc func(line []byte) bool

// Timings holds the five cumulative clock readings a completed transfer
// reports, each measured from the start of the transfer. The transport
// guarantees they are monotonically non-decreasing in field order.
type Timings struct {
	NameLookup    time.Duration
	Connect       time.Duration
	PreTransfer   time.Duration
	StartTransfer time.Duration
	Total         time.Duration
}

// ErrorKind classifies the failure carried by a finished transfer.
type ErrorKind int

const (
	// KindTransport covers DNS, connect, TLS, timeout and protocol
	// failures reported by the underlying transport.
	KindTransport ErrorKind = iota

	// KindWrite reports that the registered body sink refused bytes.
	KindWrite
)

// CompletionError is the completion message of a transfer that finished
// without succeeding.
type CompletionError struct {
	Kind ErrorKind
	Err  error
}

func (e *CompletionError) Error() string { return e.Err.Error() }

func (e *CompletionError) Unwrap() error { return e.Err }

// Handle is one transfer's view of the transport. Setters and callback
// registration happen before Start; after Start the handle is driven
// exclusively through Perform/Wake until Perform reports zero transfers
// running. Result and Timings are only meaningful after that point, and
// Timings must be read before Close releases the handle.
//
// A Handle serves exactly one transfer and is not safe for concurrent
// use; the owning engine is the only caller.
type Handle interface {
	SetURL(url string) error
	SetFollowRedirects(follow bool) error
	SetVerbose(verbose bool) error
	SetInsecure(insecure bool) error
	SetConnectTimeout(d time.Duration) error

	// Verb selection. SelectUpload arms upload mode and advertises the
	// expected input size; a non-positive size means unknown.
	SelectGet() error
	SelectHead() error
	SelectPost() error
	SelectUpload(size int64) error
	SelectCustom(method string) error

	// SetPostFieldSize advertises the outgoing body length for verbs
	// that did not arm upload mode.
	SetPostFieldSize(size int64) error

	// AppendHeader attaches one literal "name: value" request header.
	AppendHeader(line string) error

	OnHeader(fn HeaderFunc)
	OnBody(fn BodyFunc)
	OnRead(fn ReadFunc)

	// Start registers the transfer with the performer. Failures here are
	// setup failures (invalid URL, unusable option combination).
	Start(ctx context.Context) error

	// Perform advances the transfer without blocking and reports how
	// many transfers are still running (0 or 1 for a single handle).
	Perform() (running int, err error)

	// Wake returns a channel that receives whenever the transfer may
	// have made progress. It is the caller's suspension point.
	Wake() <-chan struct{}

	// Result returns the completion message for this transfer: nil on
	// success, a *CompletionError otherwise.
	Result() error

	// Timings reports the cumulative phase timers. It fails if the
	// transfer has not completed.
	Timings() (Timings, error)

	// Close tears the handle down. Safe to call mid-flight; the
	// transfer is abandoned without the caller observing completion.
	Close() error
}

// Factory produces a fresh Handle for one transfer.
type Factory func() Handle
