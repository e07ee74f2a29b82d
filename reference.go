package pgbook

import (
	"regexp"
	"strings"
)

// RefKind is the classification assigned to a resolved reference.
// Resolution is total: every reference ends up exactly one of local,
// external, or dropped — never zero, never more than one.
type RefKind int

// RefKind values.
const (
	// RefLocal targets an article inside the book.
	RefLocal RefKind = iota

	// RefExternal targets an absolute URL outside the book.
	RefExternal

	// RefDropped marks a deprecated link unwrapped to its content.
	RefDropped
)

// Reference is a fully classified link or image target.
type Reference struct {
	Kind        RefKind
	Target      string
	Fragment    string
	HasFragment bool
}

// HRef returns the reference in href form, with the fragment
// re-attached.
func (r Reference) HRef() string {
	if r.HasFragment {
		return r.Target + "#" + r.Fragment
	}
	return r.Target
}

var schemeRe = regexp.MustCompile(`^\w+:`)

// IsExternalURL reports whether url is absolute (carries a scheme).
func IsExternalURL(url string) bool {
	return schemeRe.MatchString(url)
}

// StripRootURL removes the site-root prefix, in either its www or bare
// form, turning same-origin absolute URLs into canonical relative links.
func StripRootURL(url string) string {
	if strings.HasPrefix(url, RootURL) {
		return url[len(RootURL):]
	}
	bare := strings.Replace(RootURL, "http://www.", "http://", 1)
	if strings.HasPrefix(url, bare) {
		return url[len(bare):]
	}
	return url
}

// mustExternalize reports whether a canonical relative link must be
// re-qualified as an absolute external URL instead of being pulled into
// the book.
func (b *Book) mustExternalize(link string, opts Options) bool {
	for _, l := range ForceExternalArticles {
		if l == link {
			return true
		}
	}
	if b.IsMainArticle(link) {
		return false
	}
	if !opts.IncludeAppendices {
		return true
	}
	if !opts.IncludeImageAppendices && IsImageAppendix(link) {
		return true
	}
	return false
}

// ResolveReference classifies a raw href into its canonical form. The
// site-root prefix is stripped; links that must stay outside the book
// are re-qualified as absolute URLs; anything still relative and not yet
// processed is queued on the unresolved worklist for the closure driver.
func (b *Book) ResolveReference(rawURL string, opts Options) Reference {
	link, fragment, hasFragment := strings.Cut(rawURL, "#")

	if link != "" {
		link = StripRootURL(link)

		if !IsExternalURL(link) && b.mustExternalize(link, opts) {
			link = RootURL + link
		}

		if !IsExternalURL(link) {
			b.AddUnresolved(link)
		}
	}

	kind := RefLocal
	if IsExternalURL(link) {
		kind = RefExternal
	}

	return Reference{
		Kind:        kind,
		Target:      link,
		Fragment:    fragment,
		HasFragment: hasFragment,
	}
}
