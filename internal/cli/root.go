// Package cli wires the transfer engine to the command line: flag
// parsing, output format selection, body persistence and exit-code
// mapping.
package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/httpspan/internal/output"
	"github.com/wesleyorama2/httpspan/internal/stat"
	"github.com/wesleyorama2/httpspan/internal/transport"
	"github.com/wesleyorama2/httpspan/pkg/jsonpath"
	"github.com/wesleyorama2/httpspan/pkg/jsonschema"
)

var version = "0.1.0"

// NewRootCmd builds the httpspan command. A fresh instance is created
// per invocation so tests can run commands independently.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "httpspan [flags] URL",
		Short:   "Measure where a single HTTP(S) request spends its time",
		Version: version,
		Long: `Httpspan issues one HTTP(S) request and prints the response status,
headers and a phase-by-phase timing breakdown: DNS lookup, TCP
connection, TLS handshake, server processing and content transfer.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	cmd.Flags().BoolP("location", "L", false, "Follow redirects")
	cmd.Flags().Duration("connect-timeout", 0, "Maximum time allowed for connection")
	cmd.Flags().StringP("request", "X", "GET", "Specify request command to use")
	cmd.Flags().StringP("data", "d", "", "HTTP request data")
	cmd.Flags().StringArrayP("header", "H", []string{}, "Pass custom header(s) to server (can be used multiple times)")
	cmd.Flags().BoolP("insecure", "k", false, "Allow insecure server connections when using SSL")
	cmd.Flags().BoolP("save-body", "o", false, "Save response body to a temporary file")
	cmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	cmd.Flags().Int64P("max-response-size", "s", 0, "Maximum response size in bytes")
	cmd.Flags().DurationP("timeout", "t", 0, "Overall request deadline")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().StringP("extract", "e", "", "Print one value from a JSON body by JSONPath")
	cmd.Flags().String("schema", "", "Validate a JSON body against a JSON Schema file")

	return cmd
}

// Execute runs the command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	location, _ := flags.GetBool("location")
	connectTimeout, _ := flags.GetDuration("connect-timeout")
	request, _ := flags.GetString("request")
	data, _ := flags.GetString("data")
	headers, _ := flags.GetStringArray("header")
	insecure, _ := flags.GetBool("insecure")
	saveBody, _ := flags.GetBool("save-body")
	verbose, _ := flags.GetBool("verbose")
	maxSize, _ := flags.GetInt64("max-response-size")
	timeout, _ := flags.GetDuration("timeout")
	noColor, _ := flags.GetBool("no-color")
	formatName, _ := flags.GetString("format")
	extract, _ := flags.GetString("extract")
	schemaPath, _ := flags.GetString("schema")

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(args[0], request, data, headers)
	if err != nil {
		return err
	}
	cfg.FollowRedirects = location
	cfg.Insecure = insecure
	cfg.Verbose = verbose
	cfg.ConnectTimeout = connectTimeout
	cfg.MaxResponseSize = maxSize

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	engine := stat.NewEngine(transport.NewNetHandle)
	res, err := engine.Run(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	formatter := output.GetFormatter(format, verbose, noColor)
	fmt.Fprint(out, formatter.FormatResult(res, strings.HasPrefix(cfg.URL, "https://")))

	if saveBody {
		path, err := persistBody(res.Body)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nBody stored in %s\n", path)
	}

	if extract != "" {
		value, err := jsonpath.Extract(string(res.Body), extract)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, value)
	}

	if schemaPath != "" {
		schema, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("reading schema: %w", err)
		}
		if err := jsonschema.Validate(string(res.Body), string(schema)); err != nil {
			return err
		}
	}

	return nil
}

// buildConfig assembles the immutable request configuration from flag
// values. Header lines come from user input, so a malformed one is a
// plain usage error rather than a parser defect.
func buildConfig(rawURL, method, data string, headerFlags []string) (stat.RequestConfig, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return stat.RequestConfig{}, err
	}

	headers, err := parseHeaderFlags(headerFlags)
	if err != nil {
		return stat.RequestConfig{}, err
	}

	cfg := stat.RequestConfig{
		URL:     target,
		Method:  stat.ParseMethod(method),
		Headers: headers,
	}
	if data != "" {
		cfg.Body = []byte(data)
	}
	return cfg, nil
}

// normalizeURL defaults scheme-less input to http://.
func normalizeURL(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return rawURL, nil
}

func parseHeaderFlags(headerFlags []string) ([]stat.Header, error) {
	var headers []stat.Header
	for _, line := range headerFlags {
		header, err := stat.ParseHeader(line)
		if err != nil {
			return nil, fmt.Errorf("invalid header %q", line)
		}
		headers = append(headers, header)
	}
	return headers, nil
}

// persistBody writes the response body to a uniquely named file under
// the system temp directory.
func persistBody(body []byte) (string, error) {
	name := fmt.Sprintf("httpspan-%s", uuid.NewString())
	path := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return "", fmt.Errorf("saving body: %w", err)
	}
	return path, nil
}
