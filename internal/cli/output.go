package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Printer writes command results in the selected format.
type Printer struct {
	w      io.Writer
	format string
	out    *termenv.Output
}

// NewPrinter returns a Printer for format ("text", "json" or "yaml").
// Colours are used only when w is a terminal.
func NewPrinter(w io.Writer, format string) *Printer {
	profile := termenv.Ascii
	if IsTerminal(w) {
		profile = termenv.EnvColorProfile()
	}
	return &Printer{
		w:      w,
		format: format,
		out:    termenv.NewOutput(w, termenv.WithProfile(profile)),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Termenv returns the colour-aware output the Printer writes through.
func (p *Printer) Termenv() *termenv.Output {
	return p.out
}

// Value prints an arbitrary value: JSON or YAML when asked, indented JSON
// for text.
func (p *Printer) Value(v any) error {
	switch p.format {
	case "yaml":
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// responseView is the structured form of a response.
type responseView struct {
	URI        string              `json:"uri,omitempty" yaml:"uri,omitempty"`
	StatusCode int                 `json:"status_code" yaml:"status_code"`
	Synthetic  bool                `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
	Header     map[string][]string `json:"header,omitempty" yaml:"header,omitempty"`
	Body       any                 `json:"body,omitempty" yaml:"body,omitempty"`
}

// Response prints a terminal response. In text mode a coloured status line
// goes first and the body follows verbatim.
func (p *Printer) Response(resp *domain.Response, uri string) error {
	if resp == nil {
		return nil
	}
	if p.format == "json" || p.format == "yaml" {
		return p.Value(responseView{
			URI:        uri,
			StatusCode: resp.StatusCode,
			Synthetic:  resp.Synthetic,
			Header:     resp.Header,
			Body:       decodeBody(resp.Body),
		})
	}
	fmt.Fprintln(p.w, p.StatusLine(resp, uri))
	if resp.Body != "" {
		fmt.Fprintln(p.w, resp.Body)
	}
	return nil
}

// StatusLine renders "<code> <text> <uri>" coloured by status class.
func (p *Printer) StatusLine(resp *domain.Response, uri string) string {
	line := fmt.Sprintf("%d %s", resp.StatusCode, statusText(resp.StatusCode))
	if uri != "" {
		line += " " + uri
	}
	if resp.Synthetic {
		line += " (embedded, no request made)"
	}

	var color termenv.Color
	switch {
	case resp.StatusCode >= 500:
		color = p.out.Color("1")
	case resp.StatusCode >= 400:
		color = p.out.Color("3")
	case resp.StatusCode >= 300:
		color = p.out.Color("6")
	default:
		color = p.out.Color("2")
	}
	return p.out.String(line).Foreground(color).Bold().String()
}

// Error prints err with whatever traversal context it carries.
func (p *Printer) Error(w io.Writer, err error) {
	fmt.Fprintln(w, p.out.String("Error: "+err.Error()).Foreground(p.out.Color("1")).String())

	var te *domain.TraversalError
	if errors.As(err, &te) && te.URI != "" {
		fmt.Fprintf(w, "  last reached: %s", te.URI)
		if te.Response != nil {
			fmt.Fprintf(w, " (%d)", te.Response.StatusCode)
		}
		fmt.Fprintln(w)
	}
	if doc, ok := domain.DocumentOf(err); ok {
		data, mErr := json.MarshalIndent(doc, "  ", "  ")
		if mErr == nil {
			fmt.Fprintf(w, "  document: %s\n", data)
		}
	}
}

func decodeBody(body string) any {
	if body == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return body
	}
	return v
}

func statusText(code int) string {
	if t := http.StatusText(code); t != "" {
		return t
	}
	return "Status"
}
