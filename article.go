package pgbook

import "path"

// Category classifies an article's place in the book.
type Category string

// Category values for Article.
const (
	CategoryMain          Category = "main"
	CategoryAppendix      Category = "appendix"
	CategoryImageAppendix Category = "image-appendix"
)

// Article is the unit of output: one fully processed, normalized page
// destined for inclusion in the book. Immutable once created.
type Article struct {
	// Link is the canonical identifier: the article's link as it
	// appears in the essay index (e.g. "avg.html"), or an absolute URL
	// for externally hosted plain-text articles.
	Link string

	// Title is the human-readable title.
	Title string

	// Content is the normalized, self-contained XHTML page.
	Content string

	// Category records which table of contents the article belongs to.
	Category Category
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Link == "" {
		return Errorf(EINVALID, "article link required")
	}
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	if a.Content == "" {
		return Errorf(EINVALID, "article content required")
	}
	return nil
}

// Filename returns the file name the article is stored under in the
// book container. Cross-references rely on internal articles keeping
// their original link as their file name.
func (a *Article) Filename() string {
	return ArticleFilename(a.Link)
}

// ArticleFilename returns the container file name for an article link.
func ArticleFilename(link string) string {
	if IsExternalURL(link) {
		return path.Base(link)
	}
	return link
}

// TOCEntry is one ordered table-of-contents entry.
type TOCEntry struct {
	Link  string
	Title string
}
