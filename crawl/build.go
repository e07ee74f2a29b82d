// Package crawl provides book-building orchestration. It coordinates
// seeding from the essay index, running each article through the
// processing pipeline, and draining the unresolved-reference worklist
// to a fixed point.
package crawl

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/goc9000/pgbook"
)

// Builder orchestrates the construction of a complete book.
type Builder struct {
	Fetcher  pgbook.PageFetcher
	Index    pgbook.IndexParser
	Pre      pgbook.Preprocessor
	Extract  pgbook.Extractor
	Post     pgbook.Postprocessor
	Renderer pgbook.PageRenderer
	Opts     pgbook.Options
}

// ProgressEvent reports progress during a build.
type ProgressEvent struct {
	Type      ProgressType
	Phase     string
	Link      string
	Title     string
	Remaining int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressPhase ProgressType = iota
	ProgressArticle
	ProgressFinished
)

// ProgressFunc is a callback for reporting build progress.
type ProgressFunc func(event ProgressEvent)

var titleRe = regexp.MustCompile(`<title>([^<]*)</title>`)

// Build processes the main articles in index order, then drains the
// worklist of locally referenced articles until no unresolved reference
// remains. The progress callback, if provided, receives events as the
// build proceeds.
func (b *Builder) Build(ctx context.Context, progress ProgressFunc) (*pgbook.Book, error) {
	book := pgbook.NewBook()

	notify := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}

	notify(ProgressEvent{Type: ProgressPhase, Phase: "Processing essays"})

	indexPage, err := b.Fetcher.Fetch(ctx, pgbook.EssayIndex)
	if err != nil {
		return nil, err
	}
	links, err := b.Index.EssayLinks(decodeLatin1(indexPage))
	if err != nil {
		return nil, err
	}

	for _, link := range links {
		book.MainArticles[link] = struct{}{}
	}
	for _, link := range links {
		title, err := b.loadArticle(ctx, book, link, pgbook.CategoryMain)
		if err != nil {
			return nil, err
		}
		book.MainTOC = append(book.MainTOC, pgbook.TOCEntry{Link: link, Title: title})
		notify(ProgressEvent{Type: ProgressArticle, Link: link, Title: title, Remaining: book.UnresolvedCount()})
	}

	if b.Opts.IncludeAppendices {
		notify(ProgressEvent{Type: ProgressPhase, Phase: "Processing appendices"})

		for {
			link, ok := book.PopUnresolved()
			if !ok {
				break
			}

			category := pgbook.CategoryAppendix
			if pgbook.IsImageAppendix(link) {
				category = pgbook.CategoryImageAppendix
			}
			title, err := b.loadArticle(ctx, book, link, category)
			if err != nil {
				return nil, err
			}

			entry := pgbook.TOCEntry{Link: link, Title: title}
			if category == pgbook.CategoryImageAppendix {
				book.ImageTOC = append(book.ImageTOC, entry)
			} else {
				book.AppendixTOC = append(book.AppendixTOC, entry)
			}
			notify(ProgressEvent{Type: ProgressArticle, Link: link, Title: title, Remaining: book.UnresolvedCount()})
		}

		sortTOC(book.AppendixTOC)
		sortTOC(book.ImageTOC)
	}

	notify(ProgressEvent{Type: ProgressFinished})

	return book, nil
}

// loadArticle runs one article through the pipeline and records it in
// the book. HTML articles go through the full pipeline; plain-text
// articles are entity-escaped and wrapped in a preformatted block.
// Loading an already-processed article is a no-op.
func (b *Builder) loadArticle(ctx context.Context, book *pgbook.Book, link string, category pgbook.Category) (string, error) {
	if a, ok := book.Articles[link]; ok {
		return a.Title, nil
	}

	data, err := b.Fetcher.Fetch(ctx, link)
	if err != nil {
		return "", err
	}
	page := decodeLatin1(data)

	var title, content string
	if strings.Contains(link, ".html") {
		title, err = extractTitle(page)
		if err != nil {
			return "", err
		}
		prepared, err := b.Pre.Preprocess(ctx, page)
		if err != nil {
			return "", err
		}
		fragment, err := b.Extract.Extract(ctx, book, prepared)
		if err != nil {
			return "", err
		}
		content = b.Post.Postprocess("<p>" + fragment + "</p>")
	} else {
		title, err = pgbook.GuessTitle(page)
		if err != nil {
			return "", err
		}
		content = "<pre>" + pgbook.HTMLEntities(page) + "</pre>"
	}

	rendered, err := b.Renderer.RenderPage(title, "", content)
	if err != nil {
		return "", err
	}

	article := &pgbook.Article{
		Link:     link,
		Title:    title,
		Content:  rendered,
		Category: category,
	}
	if err := book.AddArticle(article); err != nil {
		return "", err
	}

	return title, nil
}

// extractTitle pulls the article title out of the raw page's title tag.
func extractTitle(page string) (string, error) {
	m := titleRe.FindStringSubmatch(page)
	if m == nil {
		return "", pgbook.Errorf(pgbook.ESTRUCTURE, "page has no title tag")
	}
	return strings.TrimSpace(m[1]), nil
}

// sortTOC orders entries by title.
func sortTOC(toc []pgbook.TOCEntry) {
	sort.Slice(toc, func(i, j int) bool {
		return toc[i].Title < toc[j].Title
	})
}

// decodeLatin1 interprets fetched page bytes as ISO-8859-1, mapping
// each byte to the code point of the same value.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
