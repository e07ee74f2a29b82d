package preprocess

import (
	"regexp"
	"strings"

	"github.com/goc9000/pgbook"
)

// bannerStart is the literal opening of the banner block some pages
// carry right under the title.
const bannerStart = `<font size=2 face="verdana"><table width=100%`

// bannerEndRe bounds banner removal: the ad region ends at the
// paragraph break (optionally followed by a comment) that precedes the
// essay's "Month Year" date stamp. The boundary is a fixture-driven
// heuristic tuned to the corpus; its exact looseness is deliberate.
var bannerEndRe = regexp.MustCompile(`(?s)((<p>|<br><br>)\s*(<!--.*?-->)?\s*)\w+\s+\d{4}`)

// RemoveBanners excises the banner block following the title when its
// text matches a known ad phrase.
func RemoveBanners(page string) string {
	idx1 := strings.Index(page, bannerStart)
	if idx1 == -1 {
		return page
	}
	idx2 := strings.Index(page[idx1:], "</table>")
	if idx2 == -1 {
		return page
	}
	idx2 += idx1 + len("</table>")

	isAd := false
	for _, ad := range pgbook.BannerAds {
		if strings.Contains(page[idx1:idx2], ad) {
			isAd = true
			break
		}
	}
	if !isAd {
		return page
	}

	m := bannerEndRe.FindStringSubmatchIndex(page[idx2:])
	if m == nil {
		return page
	}
	// Cut from the banner start to the end of the break prefix, leaving
	// the date stamp itself in place.
	return page[:idx1] + page[idx2+m[3]:]
}
