package postprocess_test

import (
	"testing"

	"github.com/goc9000/pgbook/postprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixBlockquotes(t *testing.T) {
	t.Parallel()

	got := postprocess.FixBlockquotes("<p>a<blockquote>q</blockquote>b</p>")
	assert.Equal(t, "<p>a</p><blockquote><p>q</p></blockquote><p>b</p>", got)
}

func TestFixCenterTags(t *testing.T) {
	t.Parallel()

	t.Run("center becomes centered paragraph", func(t *testing.T) {
		t.Parallel()

		got := postprocess.FixCenterTags("<p>a<center>mid</center>b</p>")
		assert.Equal(t, `<p>a</p><p style="text-align:center">mid</p><p>b</p>`, got)
	})

	t.Run("line breaks at center boundaries collapse", func(t *testing.T) {
		t.Parallel()

		got := postprocess.FixCenterTags("<p>a<br /><center><br />mid<br /></center><br />b</p>")
		assert.Equal(t, `<p>a</p><p style="text-align:center">mid</p><p>b</p>`, got)
	})

	t.Run("adjacent centers merge into one paragraph", func(t *testing.T) {
		t.Parallel()

		got := postprocess.FixCenterTags("<center>one</center><center>two</center>")
		assert.Equal(t, `</p><p style="text-align:center">one<br />two</p><p>`, got)
	})
}

func TestFixBlockTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"<p>a</p><hr /><p>b</p>",
		postprocess.FixBlockTags("<p>a<hr />b</p>"))
	assert.Equal(t,
		"<p>a</p><ul><li>one</li></ul><p>b</p>",
		postprocess.FixBlockTags("<p>a<ul><li>one</li></ul>b</p>"))
	assert.Equal(t,
		"<p>a</p><h2>Heading</h2><p>b</p>",
		postprocess.FixBlockTags("<p>a<h2>Heading</h2>b</p>"))
}

func TestApplyFinalCorrections(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<td>cellmore", postprocess.ApplyFinalCorrections("<td>cell</p>more"))
	assert.Equal(t, "text</li>", postprocess.ApplyFinalCorrections("<p>text</li>"))
	assert.Equal(t, "ab", postprocess.ApplyFinalCorrections("a<p>  </p>b"))
}

func TestAddCoda(t *testing.T) {
	t.Parallel()

	t.Run("replaces trailing breaks", func(t *testing.T) {
		t.Parallel()

		got := postprocess.AddCoda("<p>text<br /> <br /></p>")
		assert.Equal(t, "<p>text<br /><br /><br /><br /></p><hr />", got)
	})

	t.Run("plain paragraph end", func(t *testing.T) {
		t.Parallel()

		got := postprocess.AddCoda("<p>text</p>")
		assert.Equal(t, "<p>text<br /><br /><br /><br /></p><hr />", got)
	})
}

func TestPostprocess(t *testing.T) {
	t.Parallel()

	p := postprocess.NewPostprocessor()

	got := p.Postprocess("<p>Intro<blockquote>Quoted</blockquote>After</p>")
	assert.Equal(t,
		"<p>Intro</p><blockquote><p>Quoted</p></blockquote><p>After"+
			"<br /><br /><br /><br /></p><hr />",
		got)
}

func TestPostprocess_Idempotent(t *testing.T) {
	t.Parallel()

	p := postprocess.NewPostprocessor()

	fragments := []string{
		"<p>Intro<blockquote>Quoted</blockquote>After</p>",
		"<p>a<center>mid</center>b</p>",
		"<p>a<ul><li>one</li><li>two</li></ul>b</p>",
		"<p>a<hr />b</p>",
		"<p>text ending in rule<hr /></p>",
		"<p>a<pre>x &lt; y</pre>b<br /><br /></p>",
		"<p>a<table><tr><td>cell</td></tr></table>b</p>",
	}

	for _, fragment := range fragments {
		once := p.Postprocess(fragment)
		twice := p.Postprocess(once)
		require.Equal(t, once, twice, "not a fixed point for %q", fragment)
	}
}

func TestRenderPage(t *testing.T) {
	t.Parallel()

	r := postprocess.NewRenderer()

	got, err := r.RenderPage("Beating the Averages & More", "", "<p>body text</p>")
	require.NoError(t, err)

	assert.Contains(t, got, `<?xml version="1.0" encoding="utf-8"?>`)
	assert.Contains(t, got, `-//W3C//DTD XHTML 1.1//EN`)
	assert.Contains(t, got, "<title>Beating the Averages &amp; More</title>")
	assert.Contains(t, got, "a._local_link { background-color: #e0e0e0; }")
	assert.Contains(t, got, "<p>body text</p>")
}
