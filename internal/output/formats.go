package output

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/httpspan/internal/stat"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatResult(res *stat.Result, tlsUsed bool) string
}

// HeaderData is one response header in a structured rendition.
type HeaderData struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// TimingData carries the phase breakdown in whole milliseconds.
type TimingData struct {
	DNSLookup        int64 `json:"dnsLookupMs" yaml:"dnsLookupMs"`
	TCPConnection    int64 `json:"tcpConnectionMs" yaml:"tcpConnectionMs"`
	TLSHandshake     int64 `json:"tlsHandshakeMs" yaml:"tlsHandshakeMs"`
	ServerProcessing int64 `json:"serverProcessingMs" yaml:"serverProcessingMs"`
	ContentTransfer  int64 `json:"contentTransferMs" yaml:"contentTransferMs"`
	Total            int64 `json:"totalMs" yaml:"totalMs"`
}

// ResultData represents the structured data of a completed transfer
type ResultData struct {
	HTTPVersion string       `json:"httpVersion" yaml:"httpVersion"`
	StatusCode  int          `json:"statusCode" yaml:"statusCode"`
	Reason      string       `json:"reason,omitempty" yaml:"reason,omitempty"`
	Headers     []HeaderData `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        interface{}  `json:"body,omitempty" yaml:"body,omitempty"`
	BodyBytes   int          `json:"bodyBytes" yaml:"bodyBytes"`
	Timing      TimingData   `json:"timing" yaml:"timing"`
	Timestamp   string       `json:"timestamp" yaml:"timestamp"`
}

// NewResultData converts an engine result into its structured rendition.
// JSON bodies are embedded as structured values, everything else as a
// string.
func NewResultData(res *stat.Result) ResultData {
	headers := make([]HeaderData, 0, len(res.Headers))
	for _, h := range res.Headers {
		headers = append(headers, HeaderData{Name: h.Name, Value: h.Value})
	}

	var body interface{}
	if len(res.Body) > 0 {
		if err := json.Unmarshal(res.Body, &body); err != nil {
			body = string(res.Body)
		}
	}

	return ResultData{
		HTTPVersion: res.HTTPVersion,
		StatusCode:  res.Code,
		Reason:      res.Reason,
		Headers:     headers,
		Body:        body,
		BodyBytes:   len(res.Body),
		Timing: TimingData{
			DNSLookup:        res.Timing.DNSResolution.Milliseconds(),
			TCPConnection:    res.Timing.TCPConnection.Milliseconds(),
			TLSHandshake:     res.Timing.TLSConnection.Milliseconds(),
			ServerProcessing: res.Timing.ServerProcessing.Milliseconds(),
			ContentTransfer:  res.Timing.ContentTransfer.Milliseconds(),
			Total:            res.Timing.Total.Milliseconds(),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// FormatResult formats a result as JSON
func (f *JSONFormatter) FormatResult(res *stat.Result, _ bool) string {
	data := NewResultData(res)

	var out []byte
	var err error
	if f.Pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal result: %s"}`, err)
	}
	return string(out) + "\n"
}

// YAMLFormatter formats results as YAML
type YAMLFormatter struct{}

// FormatResult formats a result as YAML
func (f *YAMLFormatter) FormatResult(res *stat.Result, _ bool) string {
	out, err := yaml.Marshal(NewResultData(res))
	if err != nil {
		return fmt.Sprintf("error: failed to marshal result: %s\n", err)
	}
	return string(out)
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return NewFormatter(verbose, noColor)
	}
}
