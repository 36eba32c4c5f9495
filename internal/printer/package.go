package printer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/oborchers/mcp-server-pacman/internal/cmd/output"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

var (
	_ output.Printer[packages.Summary] = (*SummaryPrinter)(nil)
	_ output.Printer[packages.Details] = (*DetailsPrinter)(nil)
)

// maxListed bounds how many versions or releases are printed.
const maxListed = 10

// SummaryPrinter prints package search hits.
type SummaryPrinter struct {
	frame[packages.Summary]
}

// NewSummaryPrinter returns a printer framing the hits as results from the supplied index.
func NewSummaryPrinter(idx packages.Index) *SummaryPrinter {
	p := &SummaryPrinter{}
	p.SetHeader(ResultsHeader[packages.Summary](idx.DisplayName()))
	p.SetFooter(ResultsFooter[packages.Summary]("package"))
	return p
}

func (p *SummaryPrinter) Item(w io.Writer, s packages.Summary) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", s.Name, s.Version); err != nil {
		return err
	}
	field(w, "Description", s.Description)
	field(w, "Publisher", s.Publisher)
	field(w, "Date", s.Date)
	if s.Downloads != nil {
		field(w, "Downloads", strconv.FormatInt(*s.Downloads, 10))
	}
	field(w, "Updated", s.UpdatedAt)
	for _, k := range slices.Sorted(maps.Keys(s.Links)) {
		field(w, "Link ("+k+")", s.Links[k])
	}
	_, err := fmt.Fprintln(w)
	return err
}

// DetailsPrinter prints package details.
type DetailsPrinter struct {
	frame[packages.Details]
}

func NewDetailsPrinter() *DetailsPrinter {
	return &DetailsPrinter{}
}

func (p *DetailsPrinter) Item(w io.Writer, d packages.Details) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", d.Name, d.Version); err != nil {
		return err
	}
	field(w, "Description", d.Description)
	field(w, "Author", d.Author)
	field(w, "License", d.License)
	field(w, "Homepage", d.Homepage)
	field(w, "Repository", d.Repository)
	field(w, "Documentation", d.Documentation)
	if d.Downloads != nil {
		field(w, "Downloads", strconv.FormatInt(*d.Downloads, 10))
	}
	if d.Yanked != nil && *d.Yanked {
		field(w, "Yanked", "yes")
	}
	field(w, "Keywords", strings.Join(d.Keywords, ", "))
	field(w, "Categories", strings.Join(d.Categories, ", "))
	field(w, "Versions", truncated(d.Versions, maxListed))
	field(w, "Releases", truncated(d.Releases, maxListed))
	if len(d.Dependencies) > 0 {
		_, _ = fmt.Fprintln(w, "  Dependencies:")
		for _, k := range slices.Sorted(maps.Keys(d.Dependencies)) {
			_, _ = fmt.Fprintf(w, "    %s %s\n", k, d.Dependencies[k])
		}
	}
	return nil
}

// truncated joins at most n values, noting how many were left out.
func truncated(values []string, n int) string {
	if len(values) <= n {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(values[:n], ", "), len(values)-n)
}
