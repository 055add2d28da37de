package stat

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/wesleyorama2/httpspan/internal/transport"
)

type state int

const (
	stateConfigured state = iota
	statePolling
	stateCompleted
)

// Engine drives single transfers over handles produced by a transport
// factory. It holds no per-request state; each Run call owns one handle
// and one transfer context for its whole duration.
type Engine struct {
	newHandle transport.Factory
}

// NewEngine creates an engine that obtains a fresh transport handle per
// request from factory.
func NewEngine(factory transport.Factory) *Engine {
	return &Engine{newHandle: factory}
}

// transfer owns the buffers mutated by the transport callbacks for one
// request. The callbacks are methods rather than closures so the buffers
// have exactly one owner; on completion their contents move into the
// Result and the transfer is discarded.
type transfer struct {
	cfg   RequestConfig
	body  []byte
	hdr   []byte
	sent  int
	state state
}

// sink accepts response body bytes. The whole chunk is appended first;
// once the configured ceiling is noticed to be exceeded, zero accepted
// bytes are reported and the transport aborts the transfer. This is the
// engine's sole backpressure mechanism.
func (t *transfer) sink(chunk []byte) int {
	if t.state != statePolling {
		return 0
	}
	t.body = append(t.body, chunk...)
	if t.cfg.MaxResponseSize > 0 && int64(len(t.body)) > t.cfg.MaxResponseSize {
		return 0
	}
	return len(chunk)
}

// source feeds the configured request body to the transport, returning
// zero once exhausted.
func (t *transfer) source(buf []byte) int {
	if t.sent >= len(t.cfg.Body) {
		return 0
	}
	n := copy(buf, t.cfg.Body[t.sent:])
	t.sent += n
	return n
}

// headerLine collects raw header bytes verbatim. The size ceiling never
// applies to headers.
func (t *transfer) headerLine(line []byte) bool {
	if t.state != statePolling {
		return false
	}
	t.hdr = append(t.hdr, line...)
	return true
}

// Run performs one transfer described by cfg and returns its structured
// result. Exactly one attempt is made; any failure is final for this
// invocation.
func (e *Engine) Run(ctx context.Context, cfg RequestConfig) (*Result, error) {
	h := e.newHandle()
	defer h.Close()

	t := &transfer{cfg: cfg, state: stateConfigured}
	if err := configure(h, t); err != nil {
		return nil, err
	}

	t.state = statePolling
	if err := h.Start(ctx); err != nil {
		return nil, &ConfigError{Op: "transfer", Err: err}
	}

	for {
		running, err := h.Perform()
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		if running == 0 {
			break
		}
		// The single suspension point: yield until the transport makes
		// progress or the caller gives up. Dropping out here abandons
		// the transfer without observing completion; the transfer stays
		// in the polling state and is discarded with its buffers.
		select {
		case <-ctx.Done():
			return nil, &TransportError{Err: ctx.Err()}
		case <-h.Wake():
		}
	}
	// Zero running transfers: the transport has quiesced and the
	// buffers are exclusively ours again.
	t.state = stateCompleted

	if err := h.Result(); err != nil {
		var completion *transport.CompletionError
		if errors.As(err, &completion) && completion.Kind == transport.KindWrite {
			// The sink's abort signal travels through the transport as
			// a write failure; translate it back for the caller.
			return nil, ErrMaxSizeExceeded
		}
		return nil, &TransportError{Err: err}
	}

	// The handle may hold the only live reference behind the timers, so
	// read them before anything releases it.
	cum, err := h.Timings()
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	timing, err := DeriveTiming(cum.NameLookup, cum.Connect, cum.PreTransfer, cum.StartTransfer, cum.Total)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	block, err := ParseHeaderBlock(t.hdr)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		for _, line := range block.Skipped {
			fmt.Fprintf(os.Stderr, "httpspan: skipping malformed header line %q\n", line)
		}
	}

	return &Result{
		HTTPVersion: block.Status.HTTPVersion,
		Code:        block.Status.Code,
		Reason:      block.Status.Reason,
		Headers:     block.Headers,
		Body:        t.body,
		Timing:      timing,
	}, nil
}

// configure applies the request configuration to a fresh handle and
// registers the transfer's callbacks. No I/O happens here.
func configure(h transport.Handle, t *transfer) error {
	cfg := t.cfg

	if err := h.SetURL(cfg.URL); err != nil {
		return &ConfigError{Op: "url", Err: err}
	}
	if err := h.SetFollowRedirects(cfg.FollowRedirects); err != nil {
		return &ConfigError{Op: "redirect policy", Err: err}
	}
	if err := h.SetVerbose(cfg.Verbose); err != nil {
		return &ConfigError{Op: "verbosity", Err: err}
	}
	if cfg.Insecure {
		if err := h.SetInsecure(true); err != nil {
			return &ConfigError{Op: "TLS verification", Err: err}
		}
	}
	if cfg.ConnectTimeout > 0 {
		if err := h.SetConnectTimeout(cfg.ConnectTimeout); err != nil {
			return &ConfigError{Op: "connect timeout", Err: err}
		}
	}

	method := cfg.method()
	var err error
	switch method {
	case MethodPut:
		// Upload mode advertises the expected input size itself; PUT
		// never announces a post-field size, even with a body.
		err = h.SelectUpload(int64(len(cfg.Body)))
	case MethodGet:
		err = h.SelectGet()
	case MethodHead:
		err = h.SelectHead()
	case MethodPost:
		err = h.SelectPost()
	default:
		err = h.SelectCustom(string(method))
	}
	if err != nil {
		return &ConfigError{Op: "method", Err: err}
	}

	// Any non-PUT verb carrying a body announces its length, so that
	// bodies on GET, DELETE or custom methods still arrive with a
	// content length.
	if len(cfg.Body) > 0 && method != MethodPut {
		if err := h.SetPostFieldSize(int64(len(cfg.Body))); err != nil {
			return &ConfigError{Op: "post field size", Err: err}
		}
	}

	for _, header := range cfg.Headers {
		if err := h.AppendHeader(header.String()); err != nil {
			return &ConfigError{Op: "header", Err: err}
		}
	}

	h.OnHeader(t.headerLine)
	h.OnBody(t.sink)
	h.OnRead(t.source)
	return nil
}
