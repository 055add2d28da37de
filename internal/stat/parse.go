package stat

import (
	"strconv"
	"strings"
)

// Header is one response or request header field. Names are preserved
// verbatim; values are trimmed of surrounding whitespace.
type Header struct {
	Name  string
	Value string
}

// String renders the header as a literal "name: value" line.
func (h Header) String() string {
	return h.Name + ": " + h.Value
}

// StatusLine is the parsed first line of an HTTP response.
type StatusLine struct {
	HTTPVersion string
	Code        int
	Reason      string
}

// ParseHeader parses a "name: value" line. Trailing CR/LF sequences are
// tolerated. A line without a ':' separator is an error; block-level
// policy for such lines lives in ParseHeaderBlock.
func ParseHeader(line string) (Header, error) {
	line = strings.Trim(line, "\r\n")
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return Header{}, &ParseError{Line: line, Reason: "missing ':' separator"}
	}
	return Header{Name: name, Value: strings.TrimSpace(value)}, nil
}

// ParseStatusLine parses a response status line such as
// "HTTP/1.1 200 OK". The "HTTP/" prefix matches case-insensitively; the
// remainder splits into version, numeric code and an optional reason
// phrase. A non-numeric code is a hard error since the protocol
// guarantees well-formed status lines.
func ParseStatusLine(line string) (StatusLine, error) {
	cleaned := strings.TrimSpace(strings.Trim(line, "\r\n"))
	if !hasStatusPrefix(cleaned) {
		return StatusLine{}, &ParseError{Line: cleaned, Reason: `missing "HTTP/" prefix`}
	}

	parts := strings.SplitN(cleaned[len("HTTP/"):], " ", 3)
	sl := StatusLine{HTTPVersion: parts[0]}
	if len(parts) < 2 {
		return StatusLine{}, &ParseError{Line: cleaned, Reason: "missing status code"}
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return StatusLine{}, &ParseError{Line: cleaned, Reason: "non-numeric status code"}
	}
	sl.Code = code
	if len(parts) == 3 {
		sl.Reason = parts[2]
	}
	return sl, nil
}

func hasStatusPrefix(line string) bool {
	return len(line) >= 5 && strings.EqualFold(line[:5], "HTTP/")
}

// HeaderBlock is the classification of a raw header buffer: the status
// line (with defaults when none was observed), the ordered header list,
// and any lines that were dropped for lacking a separator.
type HeaderBlock struct {
	Status  StatusLine
	Headers []Header
	Skipped []string
}

// ParseHeaderBlock splits raw header bytes on line terminators, strips
// CR/LF, drops empty lines, and classifies what remains. The first line
// with the "HTTP/" prefix becomes the status line; every other line is
// parsed as a header. Lines without a ':' separator are skipped rather
// than failing the block, and reported in Skipped.
//
// When no status line is present the block still yields the collected
// headers, with Code -1 and HTTPVersion "Unknown".
func ParseHeaderBlock(raw []byte) (HeaderBlock, error) {
	block := HeaderBlock{
		Status: StatusLine{HTTPVersion: "Unknown", Code: -1},
	}

	seenStatus := false
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.Trim(line, "\r\n")
		if line == "" {
			continue
		}
		if !seenStatus && hasStatusPrefix(line) {
			status, err := ParseStatusLine(line)
			if err != nil {
				return block, err
			}
			block.Status = status
			seenStatus = true
			continue
		}
		header, err := ParseHeader(line)
		if err != nil {
			block.Skipped = append(block.Skipped, line)
			continue
		}
		block.Headers = append(block.Headers, header)
	}
	return block, nil
}
