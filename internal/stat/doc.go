// Package stat is the transfer engine at the heart of httpspan. It
// configures a single HTTP(S) request on a transport handle, drives it to
// completion under a cooperative polling model, enforces an optional
// response-size ceiling, and turns the raw status line and header block
// into a structured Result with derived phase timings.
//
// Basic Usage:
//
//	engine := stat.NewEngine(transport.NewNetHandle)
//
//	cfg := stat.RequestConfig{
//	    URL:    "https://example.com",
//	    Method: stat.MethodGet,
//	}
//
//	res, err := engine.Run(context.Background(), cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP/%s %d\n", res.HTTPVersion, res.Code)
//	fmt.Printf("DNS: %v, TLS: %v\n", res.Timing.DNSResolution, res.Timing.TLSConnection)
//
// The engine performs exactly one transfer per Run call and never
// retries; retry policy belongs to the caller, one fresh invocation per
// attempt. Cancelling the context stops the poll loop and abandons the
// transfer mid-flight.
package stat
