package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wesleyorama2/httpspan/internal/stat"
)

// Formatter renders transfer results as colored text, including the
// phase timing diagram.
type Formatter struct {
	Verbose bool
	scheme  *ColorScheme
}

// NewFormatter creates a text formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		scheme:  SchemeFor(noColor),
	}
}

// FormatResult formats the status line, header list and timing diagram
// for display. The TLS column is omitted when the transfer had no TLS
// leg.
func (f *Formatter) FormatResult(res *stat.Result, tlsUsed bool) string {
	var buf strings.Builder

	statusColor := f.scheme.StatusOK
	if res.IsRedirect() || res.Code < 0 {
		statusColor = f.scheme.StatusWarn
	} else if res.IsClientError() || res.IsServerError() {
		statusColor = f.scheme.StatusError
	}

	status := fmt.Sprintf("%s %d", res.HTTPVersion, res.Code)
	if res.Reason != "" {
		status += " " + res.Reason
	}
	buf.WriteString(f.scheme.Proto.Sprint("HTTP"))
	buf.WriteString(f.scheme.Separator.Sprint("/"))
	buf.WriteString(statusColor.Sprint(status))
	buf.WriteString("\n")

	for _, header := range res.Headers {
		buf.WriteString(f.scheme.HeaderKey.Sprintf("%s: ", header.Name))
		buf.WriteString(f.scheme.HeaderValue.Sprint(header.Value))
		buf.WriteString("\n")
	}

	buf.WriteString(f.FormatTiming(res.Timing, tlsUsed))
	return buf.String()
}

// FormatTiming renders the phase diagram: one row of interval widths and
// a waterfall of cumulative milestones.
func (f *Formatter) FormatTiming(timing stat.Timing, tlsUsed bool) string {
	// a-cells are centered interval durations, b-cells left-aligned
	// cumulative ones, both 7 wide to line up with the template rows.
	a := func(d time.Duration) string { return f.scheme.Timing.Sprint(center(millis(d), 7)) }
	b := func(d time.Duration) string { return f.scheme.Timing.Sprintf("%-7s", millis(d)) }

	if tlsUsed {
		return fmt.Sprintf(`
  DNS Lookup   TCP Connection   TLS Handshake   Server Processing   Content Transfer
[   %s  |     %s    |    %s    |      %s      |      %s     ]
             |                |               |                   |                  |
    namelookup:%s        |               |                   |                  |
                        connect:%s       |                   |                  |
                                    pretransfer:%s           |                  |
                                                      starttransfer:%s          |
                                                                                 total:%s
`,
			a(timing.DNSResolution), a(timing.TCPConnection), a(timing.TLSConnection),
			a(timing.ServerProcessing), a(timing.ContentTransfer),
			b(timing.NameLookup), b(timing.Connect), b(timing.PreTransfer),
			b(timing.StartTransfer), b(timing.Total))
	}

	return fmt.Sprintf(`
  DNS Lookup   TCP Connection   Server Processing   Content Transfer
[   %s  |     %s    |      %s      |      %s     ]
             |                |                   |                  |
    namelookup:%s        |                   |                  |
                        connect:%s           |                  |
                                      starttransfer:%s          |
                                                             total:%s
`,
		a(timing.DNSResolution), a(timing.TCPConnection),
		a(timing.ServerProcessing), a(timing.ContentTransfer),
		b(timing.NameLookup), b(timing.Connect),
		b(timing.StartTransfer), b(timing.Total))
}

// FormatError renders a failure message for the terminal.
func (f *Formatter) FormatError(err error) string {
	return f.scheme.Error.Sprint(err.Error())
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
