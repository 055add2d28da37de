package stat

import "strings"

// Result is the structured outcome of one completed transfer.
type Result struct {
	// HTTPVersion is "Unknown" and Code -1 when no status line was
	// observed in the response.
	HTTPVersion string
	Code        int
	Reason      string

	// Headers preserve the order in which the transport delivered them.
	Headers []Header

	Body []byte

	Timing Timing
}

// GetHeader returns the first header value matching name,
// case-insensitively, or "" when absent.
func (r *Result) GetHeader(name string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Result) IsSuccess() bool {
	return r.Code >= 200 && r.Code < 300
}

// IsRedirect reports whether the status code is in the 3xx range.
func (r *Result) IsRedirect() bool {
	return r.Code >= 300 && r.Code < 400
}

// IsClientError reports whether the status code is in the 4xx range.
func (r *Result) IsClientError() bool {
	return r.Code >= 400 && r.Code < 500
}

// IsServerError reports whether the status code is in the 5xx range.
func (r *Result) IsServerError() bool {
	return r.Code >= 500 && r.Code < 600
}
