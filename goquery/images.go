package goquery

import (
	"context"

	"github.com/goc9000/pgbook"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// resolveImages rewrites every image reference in the retained content
// to its canonical deduplicated output name and normalizes its
// presentational attributes.
func (e *Extractor) resolveImages(ctx context.Context, mainCell *html.Node, book *pgbook.Book) error {
	for _, img := range findAll(mainCell, atom.Img) {
		name, err := e.Images.ResolveImage(ctx, book, attrVal(img, "src"))
		if err != nil {
			return err
		}
		setAttr(img, "src", name)
		fixImageStyle(img)
	}
	return nil
}
