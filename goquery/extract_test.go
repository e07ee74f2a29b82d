package goquery_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/goc9000/pgbook"
	"github.com/goc9000/pgbook/goquery"
	"github.com/goc9000/pgbook/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialResolver resolves every image to a fixed name and counts
// calls.
func sequentialResolver(name string, calls *int) *mock.ImageResolver {
	return &mock.ImageResolver{
		ResolveImageFn: func(_ context.Context, _ *pgbook.Book, src string) (string, error) {
			*calls++
			return name, nil
		},
	}
}

const mainTableOpen = `<table width="435"><tr><td>` +
	`<img src="http://www.paulgraham.com/title.gif" alt="Test Essay" width="200" height="50"><br><br>`

func TestExtract_FullPage(t *testing.T) {
	t.Parallel()

	page := `<body>` +
		mainTableOpen +
		`Essay text &amp; more, see <a href="http://www.paulgraham.com/avg.html">this essay</a> ` +
		`and <a href="onlisp.html">the book</a>.<br><br>` +
		`<img src="pic.gif"><img src="pic.gif">` +
		`</td></tr></table>` +
		`<br>` +
		`<table><tr><td><font size="2" face="verdana">` +
		`If you liked this, you may also like Hackers &amp; Painters.</font></td></tr></table>` +
		`<table width="100%"><tr>` +
		`<td><img src="http://www.virtumundo.com/images/trans_1x1.gif" width="15" height="1"></td>` +
		`<td><font size="2" face="verdana"><a href="https://example.com/ja">Japanese Translation</a></font></td>` +
		`<td><font size="2" face="verdana"><a href="http://www.amazon.com/book">The Book</a></font></td>` +
		`<td><font size="2" face="verdana"><a href="https://example.com/talk">The Talk</a></font></td>` +
		`</tr></table>` +
		`<table><tr><td><hr></td></tr></table>` +
		`</body>`

	calls := 0
	e := goquery.NewExtractor(sequentialResolver("img1.gif", &calls), pgbook.DefaultOptions())
	book := pgbook.NewBook()

	got, err := e.Extract(context.Background(), book, page)
	require.NoError(t, err)

	// The title image became the heading and its spacing breaks are gone.
	assert.Contains(t, got, "<h1>Test Essay</h1>Essay text")

	// Link classification is total: in-book links are tagged local, the
	// forced-external article is re-qualified and tagged external.
	assert.Contains(t, got, `<a href="avg.html" class="_local_link">this essay</a>`)
	assert.Contains(t, got, `<a href="http://www.paulgraham.com/onlisp.html" class="_external_link">the book</a>`)

	// Only the in-book link was queued for the closure driver.
	require.Equal(t, 1, book.UnresolvedCount())
	link, _ := book.PopUnresolved()
	assert.Equal(t, "avg.html", link)

	// Both copies of the image resolved through the registry.
	assert.Equal(t, 2, calls)
	assert.Contains(t, got, `<img src="img1.gif" alt="" />`)

	// The ad block disappeared; the links block became a plain list with
	// the translation dropped.
	assert.NotContains(t, got, "you may also like")
	assert.Contains(t, got, "<b>Links</b>")
	assert.Contains(t, got, `<li><a href="http://www.amazon.com/book" class="_external_link">The Book</a></li>`)
	assert.Contains(t, got, `<li><a href="https://example.com/talk" class="_external_link">The Talk</a></li>`)
	assert.NotContains(t, got, "Japanese Translation")

	// The end marker contributed nothing.
	assert.NotContains(t, got, "<hr")

	// Entity escaping survived the round trip.
	assert.Contains(t, got, "Essay text &amp; more")
}

func TestExtract_EndMarkerOnlySibling(t *testing.T) {
	t.Parallel()

	page := `<body>` + mainTableOpen + `Just text.</td></tr></table>` +
		`<table><tr><td><hr></td></tr></table></body>`

	calls := 0
	e := goquery.NewExtractor(sequentialResolver("img1.gif", &calls), pgbook.DefaultOptions())

	got, err := e.Extract(context.Background(), pgbook.NewBook(), page)
	require.NoError(t, err)

	assert.Contains(t, got, "<h1>Test Essay</h1>Just text.")
	assert.Zero(t, calls)
}

func TestExtract_UnexpectedSiblingText(t *testing.T) {
	t.Parallel()

	page := `<body>` + mainTableOpen + `Text.</td></tr></table>` +
		`stray text outside any table</body>`

	e := goquery.NewExtractor(nil, pgbook.DefaultOptions())

	_, err := e.Extract(context.Background(), pgbook.NewBook(), page)
	assert.Equal(t, pgbook.ESTRUCTURE, pgbook.ErrorCode(err))
}

func TestExtract_UnexpectedSiblingElement(t *testing.T) {
	t.Parallel()

	page := `<body>` + mainTableOpen + `Text.</td></tr></table>` +
		`<div>unclassifiable</div></body>`

	e := goquery.NewExtractor(nil, pgbook.DefaultOptions())

	_, err := e.Extract(context.Background(), pgbook.NewBook(), page)
	assert.Equal(t, pgbook.ESTRUCTURE, pgbook.ErrorCode(err))
}

func TestExtract_NoTitleImage(t *testing.T) {
	t.Parallel()

	page := `<body><table><tr><td>No title here.</td></tr></table></body>`

	e := goquery.NewExtractor(nil, pgbook.DefaultOptions())

	_, err := e.Extract(context.Background(), pgbook.NewBook(), page)
	assert.Equal(t, pgbook.ESTRUCTURE, pgbook.ErrorCode(err))
}

func TestExtract_CustomSectionSpliced(t *testing.T) {
	t.Parallel()

	page := `<body>` + mainTableOpen + `Text.</td></tr></table>` +
		`<table><tr>` +
		`<td width="5">filler</td>` +
		`<td>Extra material worth keeping.</td>` +
		`</tr></table></body>`

	calls := 0
	e := goquery.NewExtractor(sequentialResolver("img1.gif", &calls), pgbook.DefaultOptions())

	got, err := e.Extract(context.Background(), pgbook.NewBook(), page)
	require.NoError(t, err)

	assert.Contains(t, got, "Extra material worth keeping.")
	assert.NotContains(t, got, "filler")
}

func TestExtract_DeprecatedLinksUnwrapped(t *testing.T) {
	t.Parallel()

	page := `<body>` + mainTableOpen +
		`See <a class="_deprecated_link" href="gone.html">old page</a>.</td></tr></table></body>`

	e := goquery.NewExtractor(nil, pgbook.DefaultOptions())
	book := pgbook.NewBook()

	got, err := e.Extract(context.Background(), book, page)
	require.NoError(t, err)

	assert.Contains(t, got, "See old page.")
	assert.NotContains(t, got, "<a")
	assert.Zero(t, book.UnresolvedCount())
}

func TestExtract_CommentsBlockRetrieved(t *testing.T) {
	t.Parallel()

	page := `<body>` + mainTableOpen +
		`Noted<sup><a href="#_comment1">(1)</a></sup>.</td></tr></table>` +
		`<div id="__comments"><br /><b>Comments and Edits</b>` +
		`<br/><br /><a name="_comment1">(1)</a> it was 1995</div></body>`

	e := goquery.NewExtractor(nil, pgbook.DefaultOptions())

	got, err := e.Extract(context.Background(), pgbook.NewBook(), page)
	require.NoError(t, err)

	assert.Contains(t, got, "<b>Comments and Edits</b>")
	assert.Contains(t, got, `<a id="_comment1">(1)</a> it was 1995`)
}

func TestExtract_NormalizesLegacyMarkup(t *testing.T) {
	t.Parallel()

	page := `<body>` + mainTableOpen +
		`<font color="#ff0000" size="2" face="courier">red</font>` +
		`<font size="1">plain</font>` +
		`<s>withdrawn</s>` +
		`caf&#233; <img src="pic.gif" align="left" hspace="5" border="0">` +
		`</td></tr></table></body>`

	calls := 0
	e := goquery.NewExtractor(sequentialResolver("img1.gif", &calls), pgbook.DefaultOptions())

	got, err := e.Extract(context.Background(), pgbook.NewBook(), page)
	require.NoError(t, err)

	// Colored font survives as a styled span; a styleless font collapses.
	assert.Contains(t, got, `<span style="color:#ff0000;">red</span>`)
	assert.Contains(t, got, ">plain<")
	assert.NotContains(t, got, "<font")

	assert.Contains(t, got, `<span style="text-decoration: line-through;">withdrawn</span>`)

	// Non-ASCII text renders as a numeric character reference.
	assert.Contains(t, got, "caf&#233; ")

	// Presentational image attributes become inline style.
	assert.Contains(t, got,
		`<img src="img1.gif" alt="" style="float:left;border:0;margin-left:5;margin-right:5;" />`)
}

func TestExtract_EmbeddedPaperPages(t *testing.T) {
	t.Parallel()

	const paperTableOpen = `<table width="435"><tr><td>` +
		`<img src="http://www.paulgraham.com/rootsoflisp.gif" alt="The Roots of Lisp"><br><br>`

	pages := []pgbook.EmbeddedPage{
		{Ref: "jmc_paper/page1.png", Width: 800, Height: 1253},
		{Ref: "jmc_paper/page2.png", Width: 800, Height: 1253},
	}

	t.Run("pages are appended as a centered run", func(t *testing.T) {
		t.Parallel()

		var resolved []string
		resolver := &mock.ImageResolver{
			ResolveImageFn: func(_ context.Context, _ *pgbook.Book, src string) (string, error) {
				resolved = append(resolved, src)
				return fmt.Sprintf("img%d.png", len(resolved)), nil
			},
		}
		embedder := &mock.PaperEmbedder{
			EmbedPagesFn: func(context.Context) ([]pgbook.EmbeddedPage, error) {
				return pages, nil
			},
		}

		opts := pgbook.DefaultOptions()
		opts.IncludeRootsOfLisp = true
		e := goquery.NewExtractor(resolver, opts)
		e.Paper = embedder

		page := `<body>` + paperTableOpen + `Essay text.</td></tr></table></body>`
		got, err := e.Extract(context.Background(), pgbook.NewBook(), page)
		require.NoError(t, err)

		// Each page image passed through the registry under its cache
		// reference.
		assert.Equal(t, []string{"jmc_paper/page1.png", "jmc_paper/page2.png"}, resolved)

		assert.Contains(t, got,
			`<center>`+
				`<br /><img src="img1.png" width="800" height="1253" class="_embedded_page" alt="" /><br />`+
				`<br /><img src="img2.png" width="800" height="1253" class="_embedded_page" alt="" /><br />`+
				`</center>`)
		// The essay body still precedes the embedded run.
		assert.Contains(t, got, "<h1>The Roots of Lisp</h1>Essay text.<center>")
	})

	t.Run("disabled option leaves the page untouched", func(t *testing.T) {
		t.Parallel()

		called := false
		embedder := &mock.PaperEmbedder{
			EmbedPagesFn: func(context.Context) ([]pgbook.EmbeddedPage, error) {
				called = true
				return pages, nil
			},
		}

		opts := pgbook.DefaultOptions()
		e := goquery.NewExtractor(nil, opts)
		e.Paper = embedder

		page := `<body>` + paperTableOpen + `Essay text.</td></tr></table></body>`
		got, err := e.Extract(context.Background(), pgbook.NewBook(), page)
		require.NoError(t, err)

		assert.False(t, called)
		assert.NotContains(t, got, "_embedded_page")
	})

	t.Run("other titles do not trigger embedding", func(t *testing.T) {
		t.Parallel()

		called := false
		embedder := &mock.PaperEmbedder{
			EmbedPagesFn: func(context.Context) ([]pgbook.EmbeddedPage, error) {
				called = true
				return pages, nil
			},
		}

		opts := pgbook.DefaultOptions()
		opts.IncludeRootsOfLisp = true
		e := goquery.NewExtractor(nil, opts)
		e.Paper = embedder

		page := `<body>` + mainTableOpen + `Just text.</td></tr></table></body>`
		_, err := e.Extract(context.Background(), pgbook.NewBook(), page)
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("embedder failure aborts extraction", func(t *testing.T) {
		t.Parallel()

		embedder := &mock.PaperEmbedder{
			EmbedPagesFn: func(context.Context) ([]pgbook.EmbeddedPage, error) {
				return nil, pgbook.Errorf(pgbook.EUNAVAILABLE, "ps2pdf does not appear to be installed")
			},
		}

		opts := pgbook.DefaultOptions()
		opts.IncludeRootsOfLisp = true
		e := goquery.NewExtractor(nil, opts)
		e.Paper = embedder

		page := `<body>` + paperTableOpen + `Essay text.</td></tr></table></body>`
		_, err := e.Extract(context.Background(), pgbook.NewBook(), page)
		assert.Equal(t, pgbook.EUNAVAILABLE, pgbook.ErrorCode(err))
	})
}

func TestEssayLinks(t *testing.T) {
	t.Parallel()

	t.Run("links come from the second fixed-width table", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>` +
			`<table width="455"><tr><td><a href="ignored.html">nav</a></td></tr></table>` +
			`<table width="455"><tr><td>` +
			`<a href="avg.html">Beating the Averages</a>` +
			`<a href="icad.html">Revenge of the Nerds</a>` +
			`</td></tr></table>` +
			`</body></html>`

		links, err := goquery.EssayLinks(page)
		require.NoError(t, err)
		assert.Equal(t, []string{"avg.html", "icad.html"}, links)
	})

	t.Run("missing layout table is a structure error", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.EssayLinks(`<html><body><table width="455"></table></body></html>`)
		assert.Equal(t, pgbook.ESTRUCTURE, pgbook.ErrorCode(err))
	})
}
