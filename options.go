package pgbook

// Options controls which optional content survives processing. The
// zero value disables everything; use DefaultOptions for the standard
// book configuration.
type Options struct {
	// OmitTranslations drops links-block entries whose caption ends in
	// "Translation".
	OmitTranslations bool

	// RemoveDeprecatedLinks unwraps legacy link markers (xa/ax/nota
	// tags) to their inner content instead of keeping them as links.
	RemoveDeprecatedLinks bool

	// IncludeComments keeps HTML comments as numbered footnotes in a
	// "Comments and Edits" block at the end of each article.
	IncludeComments bool

	// IncludeLinks keeps the rewritten links block of each article.
	IncludeLinks bool

	// IncludeAppendices processes articles reachable from the essays
	// but not part of the main index.
	IncludeAppendices bool

	// IncludeImageAppendices processes the image-article appendices.
	// Ignored unless IncludeAppendices is also set.
	IncludeImageAppendices bool

	// IncludeRootsOfLisp embeds the "Roots of Lisp" paper as page
	// images. Requires ps2pdf and pdftoppm to be installed.
	IncludeRootsOfLisp bool
}

// DefaultOptions returns the standard book configuration.
func DefaultOptions() Options {
	return Options{
		OmitTranslations:       true,
		RemoveDeprecatedLinks:  true,
		IncludeComments:        true,
		IncludeLinks:           true,
		IncludeAppendices:      true,
		IncludeImageAppendices: true,
		IncludeRootsOfLisp:     false,
	}
}
