package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const bodyChunkSize = 32 * 1024

// netHandle drives a single request over net/http. The transfer runs on
// its own goroutine; progress is exposed through the poll/wake protocol
// and cumulative phase timers are captured with httptrace.
type netHandle struct {
	url             string
	method          string
	upload          bool
	uploadSize      int64
	postFieldSize   int64
	followRedirects bool
	insecure        bool
	verbose         bool
	connectTimeout  time.Duration
	headerLines     []string

	onHeader HeaderFunc
	onBody   BodyFunc
	onRead   ReadFunc

	wake   chan struct{}
	done   atomic.Bool
	cancel context.CancelFunc

	mu      sync.Mutex
	started time.Time
	times   Timings
	result  error
}

// NewNetHandle returns a Handle backed by a dedicated net/http client.
// Keep-alives are disabled so every invocation performs a full DNS,
// connect and handshake sequence, which is what the phase timers measure.
func NewNetHandle() Handle {
	return &netHandle{
		method: http.MethodGet,
		wake:   make(chan struct{}, 1),
	}
}

func (h *netHandle) SetURL(url string) error {
	h.url = url
	return nil
}

func (h *netHandle) SetFollowRedirects(follow bool) error {
	h.followRedirects = follow
	return nil
}

func (h *netHandle) SetVerbose(verbose bool) error {
	h.verbose = verbose
	return nil
}

func (h *netHandle) SetInsecure(insecure bool) error {
	h.insecure = insecure
	return nil
}

func (h *netHandle) SetConnectTimeout(d time.Duration) error {
	h.connectTimeout = d
	return nil
}

func (h *netHandle) SelectGet() error {
	h.method = http.MethodGet
	return nil
}

func (h *netHandle) SelectHead() error {
	h.method = http.MethodHead
	return nil
}

func (h *netHandle) SelectPost() error {
	h.method = http.MethodPost
	return nil
}

func (h *netHandle) SelectUpload(size int64) error {
	h.method = http.MethodPut
	h.upload = true
	h.uploadSize = size
	return nil
}

func (h *netHandle) SelectCustom(method string) error {
	if method == "" {
		return errors.New("empty custom method")
	}
	h.method = method
	return nil
}

func (h *netHandle) SetPostFieldSize(size int64) error {
	if size < 0 {
		return fmt.Errorf("negative post field size %d", size)
	}
	h.postFieldSize = size
	return nil
}

func (h *netHandle) AppendHeader(line string) error {
	if _, _, ok := strings.Cut(line, ":"); !ok {
		return fmt.Errorf("invalid header line %q", line)
	}
	h.headerLines = append(h.headerLines, line)
	return nil
}

func (h *netHandle) OnHeader(fn HeaderFunc) { h.onHeader = fn }

func (h *netHandle) OnBody(fn BodyFunc) { h.onBody = fn }

func (h *netHandle) OnRead(fn ReadFunc) { h.onRead = fn }

func (h *netHandle) Start(ctx context.Context) error {
	var body io.Reader
	if h.onRead != nil && (h.upload && h.uploadSize > 0 || h.postFieldSize > 0) {
		body = &callbackReader{fn: h.onRead}
	}

	req, err := http.NewRequest(h.method, h.url, body)
	if err != nil {
		return err
	}
	if h.upload && h.uploadSize > 0 {
		req.ContentLength = h.uploadSize
	} else if h.postFieldSize > 0 {
		req.ContentLength = h.postFieldSize
	}
	for _, line := range h.headerLines {
		name, value, _ := strings.Cut(line, ":")
		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
		DialContext:       (&net.Dialer{Timeout: h.connectTimeout}).DialContext,
	}
	if h.insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := &http.Client{Transport: tr}
	if !h.followRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel

	trace := &httptrace.ClientTrace{
		DNSDone: func(httptrace.DNSDoneInfo) {
			h.stamp(&h.times.NameLookup)
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				h.stamp(&h.times.Connect)
			}
		},
		// GotConn fires once the connection is fully ready, TLS
		// handshake included, so it covers both schemes.
		GotConn: func(httptrace.GotConnInfo) {
			h.stamp(&h.times.PreTransfer)
		},
		GotFirstResponseByte: func() {
			h.stamp(&h.times.StartTransfer)
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(runCtx, trace))

	h.mu.Lock()
	h.started = time.Now()
	h.mu.Unlock()

	go h.run(client, req)
	return nil
}

func (h *netHandle) run(client *http.Client, req *http.Request) {
	defer func() {
		h.mu.Lock()
		h.times.Total = time.Since(h.started)
		h.mu.Unlock()
		h.done.Store(true)
		h.notify()
	}()

	if h.verbose {
		fmt.Fprintf(os.Stderr, "> %s %s\n", req.Method, req.URL)
	}

	resp, err := client.Do(req)
	if err != nil {
		h.fail(&CompletionError{Kind: KindTransport, Err: err})
		return
	}
	defer resp.Body.Close()

	if !h.emitHeaders(resp) {
		h.fail(&CompletionError{Kind: KindTransport, Err: errors.New("header callback aborted transfer")})
		return
	}

	buf := make([]byte, bodyChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 && h.onBody != nil {
			if accepted := h.onBody(buf[:n]); accepted < n {
				h.fail(&CompletionError{
					Kind: KindWrite,
					Err:  fmt.Errorf("body sink accepted %d of %d bytes", accepted, n),
				})
				return
			}
			h.notify()
		}
		if err == io.EOF {
			if h.verbose {
				fmt.Fprintf(os.Stderr, "< %s %s, %d header fields\n", resp.Proto, resp.Status, len(resp.Header))
			}
			return
		}
		if err != nil {
			h.fail(&CompletionError{Kind: KindTransport, Err: err})
			return
		}
	}
}

// emitHeaders replays the response status line and header fields through
// the header callback as raw CRLF-terminated lines. net/http does not
// preserve wire order, so fields are emitted in a stable sorted order.
func (h *netHandle) emitHeaders(resp *http.Response) bool {
	if h.onHeader == nil {
		return true
	}
	emit := func(line string) bool {
		return h.onHeader([]byte(line + "\r\n"))
	}

	if !emit(resp.Proto + " " + resp.Status) {
		return false
	}
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range resp.Header[name] {
			if !emit(name + ": " + value) {
				return false
			}
		}
	}
	if !emit("") {
		return false
	}
	h.notify()
	return true
}

func (h *netHandle) stamp(d *time.Duration) {
	h.mu.Lock()
	*d = time.Since(h.started)
	h.mu.Unlock()
	h.notify()
}

func (h *netHandle) fail(err error) {
	h.mu.Lock()
	if h.result == nil {
		h.result = err
	}
	h.mu.Unlock()
}

func (h *netHandle) notify() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *netHandle) Perform() (int, error) {
	if h.done.Load() {
		return 0, nil
	}
	return 1, nil
}

func (h *netHandle) Wake() <-chan struct{} { return h.wake }

func (h *netHandle) Result() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

func (h *netHandle) Timings() (Timings, error) {
	if !h.done.Load() {
		return Timings{}, errors.New("transfer still running")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.times, nil
}

func (h *netHandle) Close() error {
	if h.cancel != nil {
		h.cancel()
	}
	return nil
}

// callbackReader adapts a ReadFunc to io.Reader for the request body.
type callbackReader struct {
	fn ReadFunc
}

func (r *callbackReader) Read(p []byte) (int, error) {
	n := r.fn(p)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
