package pgbook

// Book is the process-wide aggregate for one run: every processed
// article, the deduplicated image registry, the unresolved-reference
// worklist, and the three ordered tables of contents. It is mutated
// only by the closure driver and the stages it invokes during a single
// article's processing; it is never accessed concurrently.
type Book struct {
	// Articles maps canonical article link to its processed article.
	Articles map[string]*Article

	// Images maps content hash to its deduplicated asset.
	Images map[uint64]*ImageAsset

	// MainArticles is the set of links seeded from the essay index.
	MainArticles map[string]struct{}

	// MainTOC, AppendixTOC and ImageTOC are the ordered tables of
	// contents for the three article categories.
	MainTOC     []TOCEntry
	AppendixTOC []TOCEntry
	ImageTOC    []TOCEntry

	unresolved map[string]struct{}
}

// NewBook returns an empty Book.
func NewBook() *Book {
	return &Book{
		Articles:     make(map[string]*Article),
		Images:       make(map[uint64]*ImageAsset),
		MainArticles: make(map[string]struct{}),
		unresolved:   make(map[string]struct{}),
	}
}

// AddUnresolved queues a link for later processing. Adding a link that
// is already queued or already processed is a no-op, which is what
// guarantees closure termination.
func (b *Book) AddUnresolved(link string) {
	if _, ok := b.Articles[link]; ok {
		return
	}
	b.unresolved[link] = struct{}{}
}

// PopUnresolved removes and returns an arbitrary queued link. Reports
// false when the worklist is empty. Completion is order-independent:
// articles are processed to a fixed point.
func (b *Book) PopUnresolved() (string, bool) {
	for link := range b.unresolved {
		delete(b.unresolved, link)
		return link, true
	}
	return "", false
}

// UnresolvedCount returns the number of queued links.
func (b *Book) UnresolvedCount() int {
	return len(b.unresolved)
}

// AddArticle records a finished article and discards it from the
// worklist.
func (b *Book) AddArticle(a *Article) error {
	if err := a.Validate(); err != nil {
		return err
	}
	b.Articles[a.Link] = a
	delete(b.unresolved, a.Link)
	return nil
}

// IsMainArticle reports whether link was seeded from the essay index.
func (b *Book) IsMainArticle(link string) bool {
	_, ok := b.MainArticles[link]
	return ok
}
