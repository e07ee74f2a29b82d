package pgbook

// Site-specific constants. The pipeline's heuristics are tuned to one
// corpus; these tables are the corpus-specific knowledge they key on.

// RootURL is the canonical site root. Links are stored relative to it.
const RootURL = "http://www.paulgraham.com/"

// BookTitle is the title of the assembled book.
const BookTitle = "Paul Graham's Essays"

// BookAuthor is the creator credited in the book metadata.
const BookAuthor = "Paul Graham"

// EssayIndex is the page listing the main articles, relative to RootURL.
const EssayIndex = "articles.html"

// PlaceholderImageURL substitutes for images that fail to download.
const PlaceholderImageURL = "http://upload.wikimedia.org/wikipedia/commons/c/ce/Transparent.gif"

// ForceExternalArticles are never downloaded as appendices (usually
// because they are ads, downloads, or extensive theory pages).
var ForceExternalArticles = []string{
	"hackpaint.html", "piraha.html", "arc.html", "onlisp.html", "acl.html",
	"onlisptext.html", "filters.html", "bbf.html", "accgensub.html",
}

// ImageAppendices are articles that represent images, a separate
// category of appendices that may be treated differently.
var ImageAppendices = []string{
	"04magnum.html", "1974-911s.html", "59eldorado.html", "75eldorado.html",
	"amcars.html", "americangothic.html", "baptism.html", "bluebox.html",
	"creationofadam.html", "denver.html", "designedforwindows.html",
	"garage.html", "ginevra.html", "guggen.html", "hunters.html", "isetta.html",
	"largilliere-chardin.html", "leonardo.html", "matador.html",
	"montefeltro.html", "nerdad.html", "pantheon.html", "pierced.html",
	"pilate.html", "porsche695.html", "sr71.html", "symptg.html", "tlbmac.html",
	"vwfront.html", "womb.html", "zero.html",
}

// TitleImages maps image file names (sans extension) to the heading text
// they represent. Only the main title image carries an ALT attribute;
// so far these sub-headings are needed only for one article.
var TitleImages = map[string]string{
	"paulgraham_2202_12135763": "Guiding Philosophy",
	"paulgraham_2202_12136436": "Open Problems",
	"paulgraham_2202_12137035": "Little-Known Secrets",
	"paulgraham_2202_12137782": "Ideas Whose Time Has Returned",
	"paulgraham_2202_12138764": "Pitfalls and Gotchas",
}

// BannerAds identify banner blocks appearing right under the title.
var BannerAds = []string{
	"Want to start a startup?", "Watch how this essay was",
	"Like to build things?", "The Suit is Back",
}

// SectionAds identify sibling blocks that are ads and will be discarded.
var SectionAds = []string{
	"There can't be more than a couple thousand",
	"If you liked this, you may also like Hackers & Painters",
	"You'll find this essay and 14 others in Hackers & Painters",
}

// CommentAds identify HTML comments that are ads and will be discarded.
var CommentAds = []string{
	"Leave a tip", "Winter Founders Program",
	"If you liked this", "redditino.png",
}

// titlePrefixes maps the leading text of plain-text articles to their
// titles. Plain-text pages have no markup to extract a title from, so
// unknown prefixes are a fatal error: extend this table, never guess.
var titlePrefixes = map[string]string{
	"(This is the first chapter of ANSI Common Lisp": "Chapter 1 of Ansi Common Lisp",
	"(This is Chapter 2 of ANSI Common Lisp":         "Chapter 2 of Ansi Common Lisp",
}

// GuessTitle determines the title of a plain-text article from a fixed
// table of literal text prefixes. Returns ETITLE, with the surrounding
// content included to aid extending the table, when no prefix matches.
func GuessTitle(text string) (string, error) {
	for prefix, title := range titlePrefixes {
		if len(text) >= len(prefix) && text[:len(prefix)] == prefix {
			return title, nil
		}
	}
	head := text
	if len(head) > 400 {
		head = head[:400] + " [...]"
	}
	return "", Errorf(ETITLE, "cannot guess the title for this text: %s", head)
}

// IsImageAppendix reports whether link is one of the image articles.
func IsImageAppendix(link string) bool {
	for _, l := range ImageAppendices {
		if l == link {
			return true
		}
	}
	return false
}
