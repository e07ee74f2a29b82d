package main

import (
	"fmt"
	"log/slog"

	"github.com/goc9000/pgbook"
	"github.com/goc9000/pgbook/crawl"
	"github.com/goc9000/pgbook/epub"
	"github.com/goc9000/pgbook/epubcheck"
	"github.com/goc9000/pgbook/goquery"
	pghttp "github.com/goc9000/pgbook/http"
	"github.com/goc9000/pgbook/poppler"
	"github.com/goc9000/pgbook/postprocess"
	"github.com/goc9000/pgbook/preprocess"
	pgslog "github.com/goc9000/pgbook/slog"
	"github.com/goc9000/pgbook/xxhash"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	opts := pgbook.Options{
		OmitTranslations:       !c.Translations,
		RemoveDeprecatedLinks:  !c.DeprecatedLinks,
		IncludeComments:        c.Comments,
		IncludeLinks:           c.Links,
		IncludeAppendices:      c.Appendices,
		IncludeImageAppendices: c.ImageAppendices,
		IncludeRootsOfLisp:     c.RootsOfLisp,
	}

	var fetcher pgbook.PageFetcher = pghttp.NewCachingFetcher(c.CacheDir,
		pghttp.WithRateLimit(c.RateLimit))
	if c.Verbose {
		logger := slog.New(slog.NewTextHandler(deps.Stderr, nil))
		fetcher = pgslog.NewLoggingFetcher(fetcher, logger)
	}

	extractor := goquery.NewExtractor(xxhash.NewDeduplicator(fetcher), opts)
	if opts.IncludeRootsOfLisp {
		extractor.Paper = poppler.NewEmbedder(fetcher)
	}

	renderer := postprocess.NewRenderer()

	builder := &crawl.Builder{
		Fetcher:  fetcher,
		Index:    goquery.IndexParser{},
		Pre:      preprocess.NewPreprocessor(fetcher, opts),
		Extract:  extractor,
		Post:     postprocess.NewPostprocessor(),
		Renderer: renderer,
		Opts:     opts,
	}

	book, err := builder.Build(deps.Ctx, func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressPhase:
			fmt.Fprintf(deps.Stdout, "%s...\n", e.Phase)
		case crawl.ProgressArticle:
			fmt.Fprintf(deps.Stdout, "  %s (%s)\n", e.Title, e.Link)
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Writing %s...\n", c.Output)
	writer := epub.NewWriter(renderer)
	writer.KeepDir = c.KeepDir
	if err := writer.Assemble(deps.Ctx, book, c.Output); err != nil {
		return err
	}

	if c.Check {
		fmt.Fprintln(deps.Stdout, "Checking...")
		if err := epubcheck.NewChecker(".").Check(deps.Ctx, c.Output); err != nil {
			return err
		}
	}

	return nil
}

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	return epubcheck.NewChecker(c.Dir).Check(deps.Ctx, c.Path)
}
