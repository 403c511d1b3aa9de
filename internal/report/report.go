// Package report renders an aggregate.Report as text or JSON.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ddddddO/gtree"
	"github.com/goccy/go-json"
	"github.com/rodoufu/work-dep/internal/aggregate"
)

// Format selects the report rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ErrInvalidFormat is returned for an unknown output format.
var ErrInvalidFormat = errors.New("invalid output format")

// InvalidFormatError carries the rejected format value.
type InvalidFormatError struct {
	Value string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %s (must be text or json)", e.Value)
}

func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// ParseFormat parses a format name case-insensitively, defaulting to text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", &InvalidFormatError{Value: s}
	}
}

// Options controls text rendering.
type Options struct {
	// Styled enables terminal styling of headings.
	Styled bool
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	depStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	noteStyle    = lipgloss.NewStyle().Faint(true)
)

// Render writes r to w in the given format.
func Render(w io.Writer, r *aggregate.Report, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, r)
	case FormatText:
		return renderText(w, r, opts)
	default:
		return &InvalidFormatError{Value: string(format)}
	}
}

func renderJSON(w io.Writer, r *aggregate.Report) error {
	if err := json.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

func renderText(w io.Writer, r *aggregate.Report, opts Options) error {
	style := func(s lipgloss.Style, text string) string {
		if !opts.Styled {
			return text
		}
		return s.Render(text)
	}

	if _, err := fmt.Fprintf(w, "%s %s\n", style(headingStyle, "checking dependencies for:"), r.WorkspacePath); err != nil {
		return err
	}

	names := r.Names()
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "no shared dependencies found")
		return err
	}

	for _, dep := range names {
		heading := style(depStyle, dep) + " could be in the workspace, it is used by"
		if r.InWorkspace(dep) {
			heading += " " + style(noteStyle, "(already in [workspace.dependencies])")
		}
		root := gtree.NewRoot(heading)

		versions := r.Dependencies[dep]
		members := make([]string, 0, len(versions))
		for member := range versions {
			members = append(members, member)
		}
		sort.Strings(members)
		for _, member := range members {
			root.Add(fmt.Sprintf("%s: %s", member, versions[member]))
		}

		if err := gtree.OutputProgrammably(w, root); err != nil {
			return fmt.Errorf("rendering %s: %w", dep, err)
		}
	}
	return nil
}
