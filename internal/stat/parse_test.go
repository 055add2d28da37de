package stat

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseStatusLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want StatusLine
	}{
		{
			name: "with reason phrase",
			line: "HTTP/1.1 200 OK\r\n",
			want: StatusLine{HTTPVersion: "1.1", Code: 200, Reason: "OK"},
		},
		{
			name: "without reason phrase",
			line: "HTTP/2 404",
			want: StatusLine{HTTPVersion: "2", Code: 404},
		},
		{
			name: "multi-word reason phrase",
			line: "HTTP/1.0 503 Service Unavailable",
			want: StatusLine{HTTPVersion: "1.0", Code: 503, Reason: "Service Unavailable"},
		},
		{
			name: "lowercase prefix",
			line: "http/1.1 301 Moved Permanently\r\n",
			want: StatusLine{HTTPVersion: "1.1", Code: 301, Reason: "Moved Permanently"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatusLine(tt.line)
			if err != nil {
				t.Fatalf("ParseStatusLine(%q) returned error: %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatusLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseStatusLineErrors(t *testing.T) {
	for _, line := range []string{
		"HTTP/1.1 abc OK",
		"HTTP/1.1",
		"ICY 200 OK",
		"",
	} {
		_, err := ParseStatusLine(line)
		if err == nil {
			t.Errorf("ParseStatusLine(%q) should have failed", line)
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("ParseStatusLine(%q) error should be a *ParseError, got %T", line, err)
		}
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		line string
		want Header
	}{
		{"Content-Type: application/json", Header{Name: "Content-Type", Value: "application/json"}},
		{"X-Trace:   padded value  \r\n", Header{Name: "X-Trace", Value: "padded value"}},
		{"Empty-Value:", Header{Name: "Empty-Value", Value: ""}},
		{"Date: Sat, 23 Aug 2025 12:00:00 GMT", Header{Name: "Date", Value: "Sat, 23 Aug 2025 12:00:00 GMT"}},
	}

	for _, tt := range tests {
		got, err := ParseHeader(tt.line)
		if err != nil {
			t.Fatalf("ParseHeader(%q) returned error: %v", tt.line, err)
		}
		if got != tt.want {
			t.Errorf("ParseHeader(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}

	if _, err := ParseHeader("no separator here"); err == nil {
		t.Error("ParseHeader should fail on a line without ':'")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	original := Header{Name: "X-Request-Id", Value: "abc-123"}
	parsed, err := ParseHeader(original.String())
	if err != nil {
		t.Fatalf("round-trip parse failed: %v", err)
	}
	if parsed != original {
		t.Errorf("round-trip changed header: got %+v, want %+v", parsed, original)
	}
}

func TestParseHeaderBlock(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\n" +
		"Content-Type: text/html\r\n" +
		"Set-Cookie: a=1\r\n" +
		"Set-Cookie: b=2\r\n" +
		"\r\n")

	block, err := ParseHeaderBlock(raw)
	if err != nil {
		t.Fatalf("ParseHeaderBlock returned error: %v", err)
	}

	wantStatus := StatusLine{HTTPVersion: "1.1", Code: 200, Reason: "OK"}
	if block.Status != wantStatus {
		t.Errorf("status = %+v, want %+v", block.Status, wantStatus)
	}

	wantHeaders := []Header{
		{Name: "Content-Type", Value: "text/html"},
		{Name: "Set-Cookie", Value: "a=1"},
		{Name: "Set-Cookie", Value: "b=2"},
	}
	if !reflect.DeepEqual(block.Headers, wantHeaders) {
		t.Errorf("headers = %+v, want %+v", block.Headers, wantHeaders)
	}
}

func TestParseHeaderBlockIdempotent(t *testing.T) {
	raw := []byte("HTTP/2 204 No Content\r\nServer: test\r\nVary: Accept\r\n\r\n")

	first, err := ParseHeaderBlock(raw)
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	second, err := ParseHeaderBlock(raw)
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("parsing the same block twice differed: %+v vs %+v", first, second)
	}
}

func TestParseHeaderBlockNoStatus(t *testing.T) {
	raw := []byte("Content-Length: 4\r\nServer: test\r\n\r\n")

	block, err := ParseHeaderBlock(raw)
	if err != nil {
		t.Fatalf("ParseHeaderBlock returned error: %v", err)
	}

	if block.Status.Code != -1 {
		t.Errorf("code = %d, want -1", block.Status.Code)
	}
	if block.Status.HTTPVersion != "Unknown" {
		t.Errorf("version = %q, want \"Unknown\"", block.Status.HTTPVersion)
	}
	if block.Status.Reason != "" {
		t.Errorf("reason = %q, want empty", block.Status.Reason)
	}
	if len(block.Headers) != 2 {
		t.Errorf("headers should still be collected, got %d", len(block.Headers))
	}
}

func TestParseHeaderBlockSkipsMalformedLines(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nGood: yes\r\nthis line has no separator\r\n\r\n")

	block, err := ParseHeaderBlock(raw)
	if err != nil {
		t.Fatalf("malformed header line should not fail the block: %v", err)
	}
	if len(block.Headers) != 1 || block.Headers[0].Name != "Good" {
		t.Errorf("headers = %+v, want only the well-formed line", block.Headers)
	}
	if len(block.Skipped) != 1 || block.Skipped[0] != "this line has no separator" {
		t.Errorf("skipped = %+v, want the colon-less line", block.Skipped)
	}
}

func TestParseHeaderBlockMalformedStatus(t *testing.T) {
	raw := []byte("HTTP/1.1 notanumber OK\r\nServer: test\r\n\r\n")

	if _, err := ParseHeaderBlock(raw); err == nil {
		t.Error("a status line with a non-numeric code should fail the parse")
	}
}
