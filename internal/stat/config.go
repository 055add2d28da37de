package stat

import (
	"strings"
	"time"
)

// Method is an HTTP request method. Anything outside the fixed set of
// known verbs is treated as a custom method and sent literally.
type Method string

const (
	MethodDelete  Method = "DELETE"
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodPatch   Method = "PATCH"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodTrace   Method = "TRACE"
)

// ParseMethod maps a user-supplied token onto a Method. Known verbs
// match case-insensitively; unknown tokens become upper-cased custom
// methods.
func ParseMethod(s string) Method {
	return Method(strings.ToUpper(strings.TrimSpace(s)))
}

// IsKnown reports whether m is one of the fixed verb set.
func (m Method) IsKnown() bool {
	switch m {
	case MethodDelete, MethodGet, MethodHead, MethodOptions,
		MethodPatch, MethodPost, MethodPut, MethodTrace:
		return true
	}
	return false
}

// RequestConfig describes one request. It is constructed once from user
// input and read-only for the engine's lifetime.
type RequestConfig struct {
	// URL is the target URI.
	URL string

	// Method selects the transport verb. Zero value means GET.
	Method Method

	// Body is the optional outgoing payload.
	Body []byte

	// Headers are attached to the request in insertion order;
	// duplicates are permitted.
	Headers []Header

	// FollowRedirects enables transparent redirect following.
	FollowRedirects bool

	// Insecure disables TLS peer and host verification.
	Insecure bool

	// Verbose enables transport and parser diagnostics on stderr.
	Verbose bool

	// ConnectTimeout bounds connection establishment when positive.
	ConnectTimeout time.Duration

	// MaxResponseSize caps the response body in bytes when positive;
	// crossing it aborts the transfer.
	MaxResponseSize int64
}

func (c RequestConfig) method() Method {
	if c.Method == "" {
		return MethodGet
	}
	return c.Method
}
