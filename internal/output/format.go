// Package output renders vitrine's CLI surface: a text mode for humans
// and a JSON mode for scripts, chosen from the terminal when the user
// does not pick one.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format names an output mode.
type Format string

// Output modes. FormatAuto resolves to text on a terminal and JSON
// everywhere else.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// ParseFormat maps a user-supplied format name to a Format. Unknown names
// fall back to auto detection.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatAuto
	}
}

// Formatter writes values to one destination in a fixed, already resolved
// format.
type Formatter struct {
	format Format
	w      io.Writer
}

// NewFormatter resolves format against w and returns a formatter locked to
// the result. FormatAuto becomes text when w is a terminal, JSON otherwise,
// so piped and redirected output stays machine-readable.
func NewFormatter(format Format, w io.Writer) *Formatter {
	if format != FormatText && format != FormatJSON {
		format = FormatJSON
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = FormatText
		}
	}
	return &Formatter{format: format, w: w}
}

// Format returns the resolved output format.
func (f *Formatter) Format() Format {
	return f.format
}

// Writer returns the underlying destination.
func (f *Formatter) Writer() io.Writer {
	return f.w
}

// IsJSON reports whether output renders as JSON.
func (f *Formatter) IsJSON() bool {
	return f.format == FormatJSON
}

// Print writes v as indented JSON in JSON mode and as a plain line
// otherwise.
func (f *Formatter) Print(v any) error {
	if f.format == FormatJSON {
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	if s, ok := v.(fmt.Stringer); ok {
		v = s.String()
	}
	_, err := fmt.Fprintln(f.w, v)
	return err
}

// Printf writes formatted text output.
func (f *Formatter) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(f.w, format, args...)
	return err
}

// Println writes a line of text output.
func (f *Formatter) Println(args ...any) error {
	_, err := fmt.Fprintln(f.w, args...)
	return err
}
