package printer

import (
	"fmt"
	"io"

	"github.com/oborchers/mcp-server-pacman/internal/cmd/output"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

var (
	_ output.Printer[packages.Image]        = (*ImagePrinter)(nil)
	_ output.Printer[packages.ImageTags]    = (*ImageTagsPrinter)(nil)
	_ output.Printer[packages.ImageTagInfo] = (*ImageTagInfoPrinter)(nil)
)

// ImagePrinter prints Docker Hub search hits.
type ImagePrinter struct {
	frame[packages.Image]
}

func NewImagePrinter() *ImagePrinter {
	p := &ImagePrinter{}
	p.SetHeader(ResultsHeader[packages.Image](packages.IndexDocker.DisplayName()))
	p.SetFooter(ResultsFooter[packages.Image]("image"))
	return p
}

func (p *ImagePrinter) Item(w io.Writer, img packages.Image) error {
	badge := ""
	if img.IsOfficial {
		badge = " [official]"
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", img.Name, badge); err != nil {
		return err
	}
	field(w, "Description", img.Description)
	field(w, "Stars", fmt.Sprintf("%d", img.StarCount))
	field(w, "Pulls", fmt.Sprintf("%d", img.PullCount))
	_, err := fmt.Fprintln(w)
	return err
}

// ImageTagsPrinter prints the tag listing of a repository.
type ImageTagsPrinter struct {
	frame[packages.ImageTags]
}

func NewImageTagsPrinter() *ImageTagsPrinter {
	return &ImageTagsPrinter{}
}

func (p *ImageTagsPrinter) Item(w io.Writer, tags packages.ImageTags) error {
	if _, err := fmt.Fprintf(w, "%s (%d tags)\n", tags.Name, tags.TagCount); err != nil {
		return err
	}
	field(w, "Repository", tags.Repository)
	for _, t := range tags.Tags {
		_, _ = fmt.Fprintf(w, "  %-24s %10s  %s\n", t.Name, humanBytes(t.FullSize), t.LastUpdated)
	}
	return nil
}

// ImageTagInfoPrinter prints a single tag and the platforms it was built for.
type ImageTagInfoPrinter struct {
	frame[packages.ImageTagInfo]
}

func NewImageTagInfoPrinter() *ImageTagInfoPrinter {
	return &ImageTagInfoPrinter{}
}

func (p *ImageTagInfoPrinter) Item(w io.Writer, info packages.ImageTagInfo) error {
	if _, err := fmt.Fprintf(w, "%s:%s\n", info.Name, info.Tag); err != nil {
		return err
	}
	field(w, "Digest", info.Digest)
	field(w, "Size", humanBytes(info.FullSize))
	field(w, "Last updated", info.LastUpdated)
	for _, pl := range info.Images {
		platform := pl.OS + "/" + pl.Architecture
		if pl.Variant != "" {
			platform += "/" + pl.Variant
		}
		_, _ = fmt.Fprintf(w, "  %-20s %10s\n", platform, humanBytes(pl.Size))
	}
	return nil
}
