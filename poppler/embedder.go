// Package poppler embeds the scanned pages of McCarthy's original LISP
// paper as images, using the external ps2pdf and pdftoppm tools.
package poppler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/goc9000/pgbook"
)

// PaperURL is where the PostScript of the paper lives.
const PaperURL = "http://lib.store.yahoo.net/lib/paulgraham/jmc.ps"

// pageCount is the number of pages extracted from the paper.
const pageCount = 13

// Page raster geometry. The paper is cropped to its text area and
// rendered at a resolution chosen for an 800-pixel-wide page.
const (
	pageWidth  = 800
	pageHeight = 940 * pageWidth / 600
	cropX      = 176 * pageWidth / 600
	cropY      = 170 * pageWidth / 600
	renderDPI  = 112 * pageWidth / 600
)

// Ensure Embedder implements pgbook.PaperEmbedder at compile time.
var _ pgbook.PaperEmbedder = (*Embedder)(nil)

// Embedder converts the paper to page images and deposits them in the
// fetch cache under synthetic references, so that downstream image
// resolution picks them up like any other fetched image.
type Embedder struct {
	Fetcher pgbook.PageFetcher

	// TempDir is the scratch directory for the conversion. It is
	// removed when EmbedPages returns, on success or failure.
	TempDir string
}

// NewEmbedder creates an Embedder backed by the given fetcher's cache.
func NewEmbedder(fetcher pgbook.PageFetcher) *Embedder {
	return &Embedder{
		Fetcher: fetcher,
		TempDir: "temp_rootsoflisp",
	}
}

// EmbedPages downloads the paper, renders its pages to images, stores
// them in the fetch cache and returns their references in page order.
// Returns EUNAVAILABLE when ps2pdf or pdftoppm is not installed.
func (e *Embedder) EmbedPages(ctx context.Context) ([]pgbook.EmbeddedPage, error) {
	if err := os.MkdirAll(e.TempDir, 0o755); err != nil {
		return nil, err
	}
	defer os.RemoveAll(e.TempDir)

	data, err := e.Fetcher.Fetch(ctx, PaperURL)
	if err != nil {
		return nil, err
	}
	psPath := filepath.Join(e.TempDir, "jmc.ps")
	if err := os.WriteFile(psPath, data, 0o644); err != nil {
		return nil, err
	}

	if err := checkInstalled(ctx, "ps2pdf", []string{"ps2pdf"}, "Usage: ps2pdf"); err != nil {
		return nil, err
	}
	if err := checkInstalled(ctx, "pdftoppm", []string{"pdftoppm", "-h"}, "pdftoppm version "); err != nil {
		return nil, err
	}

	pdfPath := filepath.Join(e.TempDir, "jmc.pdf")
	if out, err := exec.CommandContext(ctx, "ps2pdf", psPath, pdfPath).CombinedOutput(); err != nil {
		return nil, pgbook.Errorf(pgbook.EINTERNAL, "ps2pdf failed: %v: %s", err, out)
	}

	pagePrefix := filepath.Join(e.TempDir, "jmc_page")
	args := []string{
		"-q", "-png",
		"-r", strconv.Itoa(renderDPI),
		"-x", strconv.Itoa(cropX),
		"-y", strconv.Itoa(cropY),
		"-W", strconv.Itoa(pageWidth),
		"-H", strconv.Itoa(pageHeight),
		pdfPath, pagePrefix,
	}
	if out, err := exec.CommandContext(ctx, "pdftoppm", args...).CombinedOutput(); err != nil {
		return nil, pgbook.Errorf(pgbook.EINTERNAL, "pdftoppm failed: %v: %s", err, out)
	}

	pages := make([]pgbook.EmbeddedPage, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		src := fmt.Sprintf("%s-%02d.png", pagePrefix, i)
		ref := fmt.Sprintf("jmc_paper/page%d.png", i)

		img, err := os.ReadFile(src)
		if err != nil {
			return nil, pgbook.Errorf(pgbook.EINTERNAL, "page image missing: %v", err)
		}
		if err := os.WriteFile(e.Fetcher.CachePath(ref), img, 0o644); err != nil {
			return nil, err
		}

		pages = append(pages, pgbook.EmbeddedPage{
			Ref:    ref,
			Width:  pageWidth,
			Height: pageHeight,
		})
	}

	return pages, nil
}

// checkInstalled probes an external tool by running it and matching the
// expected prefix of its combined output.
func checkInstalled(ctx context.Context, name string, cmdline []string, expected string) error {
	out, err := exec.CommandContext(ctx, cmdline[0], cmdline[1:]...).CombinedOutput()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); !isExit {
			return pgbook.Errorf(pgbook.EUNAVAILABLE, "%s does not appear to be installed", name)
		}
	}
	if !bytes.HasPrefix(bytes.TrimSpace(out), []byte(expected)) {
		return pgbook.Errorf(pgbook.EUNAVAILABLE, "%s does not appear to be installed", name)
	}
	return nil
}
