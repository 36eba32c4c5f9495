// Package printer renders registry results as human-readable text.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/oborchers/mcp-server-pacman/internal/cmd/output"
)

const separator = "────────────────────────────────────────────"

// frame holds the optional header and footer shared by every printer.
type frame[T any] struct {
	headerFunc output.WriteFunc[T]
	footerFunc output.WriteFunc[T]
}

func (f *frame[T]) Header(w io.Writer, count int) {
	if f.headerFunc != nil {
		f.headerFunc(w, count)
	}
}

func (f *frame[T]) SetHeader(fn output.WriteFunc[T]) {
	f.headerFunc = fn
}

func (f *frame[T]) Footer(w io.Writer, count int) {
	if f.footerFunc != nil {
		f.footerFunc(w, count)
	}
}

func (f *frame[T]) SetFooter(fn output.WriteFunc[T]) {
	f.footerFunc = fn
}

// ResultsHeader introduces a list of search results from the named source.
func ResultsHeader[T any](source string) output.WriteFunc[T] {
	return func(w io.Writer, _ int) {
		_, _ = fmt.Fprintf(w, "\n🔎 %s search results...\n\n%s\n\n", source, separator)
	}
}

// ResultsFooter summarises how many results were printed, using the supplied noun.
func ResultsFooter[T any](noun string) output.WriteFunc[T] {
	return func(w io.Writer, count int) {
		plural := ""
		if count != 1 {
			plural = "s"
		}
		_, _ = fmt.Fprintf(w, "📦 Found %d %s%s\n\n", count, noun, plural)
	}
}

// field writes an indented "label: value" line, skipping empty values.
func field(w io.Writer, label string, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "  %s: %s\n", label, value)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
