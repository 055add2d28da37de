package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Proto       *color.Color
	Separator   *color.Color
	StatusOK    *color.Color
	StatusWarn  *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
	HeaderValue *color.Color
	Timing      *color.Color
	Success     *color.Color
	Error       *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Proto:       color.New(color.FgGreen),
		Separator:   color.New(color.FgHiBlack),
		StatusOK:    color.New(color.FgCyan),
		StatusWarn:  color.New(color.FgYellow, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgHiBlack),
		HeaderValue: color.New(color.FgCyan),
		Timing:      color.New(color.FgCyan),
		Success:     color.New(color.FgGreen),
		Error:       color.New(color.FgYellow),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Proto.DisableColor()
	scheme.Separator.DisableColor()
	scheme.StatusOK.DisableColor()
	scheme.StatusWarn.DisableColor()
	scheme.StatusError.DisableColor()
	scheme.HeaderKey.DisableColor()
	scheme.HeaderValue.DisableColor()
	scheme.Timing.DisableColor()
	scheme.Success.DisableColor()
	scheme.Error.DisableColor()

	return scheme
}

// SchemeFor picks a scheme honoring an explicit no-color request and
// falling back to plain output when stdout is not a terminal.
func SchemeFor(noColor bool) *ColorScheme {
	if noColor || !stdoutIsTerminal() {
		return NoColorScheme()
	}
	return DefaultColorScheme()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
