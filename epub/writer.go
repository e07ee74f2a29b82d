// Package epub assembles a finished book into an EPUB 2 container.
//
// Articles are stored under their original site file names, which is
// what keeps cross-article links working without rewriting: a reference
// to "avg.html" resolves inside the container exactly as it did on the
// site.
package epub

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/goc9000/pgbook"
	"github.com/google/uuid"
)

// contentDir is the directory inside the container holding all content
// documents.
const contentDir = "OEBPS"

// Ensure Writer implements pgbook.Assembler at compile time.
var _ pgbook.Assembler = (*Writer)(nil)

// Writer assembles books into EPUB files. The container is first laid
// out as a directory tree next to the output file, then zipped.
type Writer struct {
	// Renderer renders the generated section-heading pages.
	Renderer pgbook.PageRenderer

	// KeepDir leaves the intermediate directory tree in place after
	// archiving, for inspection.
	KeepDir bool
}

// NewWriter creates a Writer.
func NewWriter(renderer pgbook.PageRenderer) *Writer {
	return &Writer{Renderer: renderer}
}

// spineItem is one content document in reading order.
type spineItem struct {
	id        string
	filename  string
	title     string
	depth     int
	mediaType string
}

// Assemble writes the book to outputPath as an EPUB file. The
// intermediate directory tree is created at outputPath + "_files.d" and
// removed afterwards unless KeepDir is set.
func (w *Writer) Assemble(ctx context.Context, book *pgbook.Book, outputPath string) error {
	outputDir := outputPath + "_files.d"
	if err := os.RemoveAll(outputDir); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(outputDir, "META-INF"), 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(outputDir, contentDir), 0o755); err != nil {
		return err
	}

	spine, err := w.layOutContent(book, outputDir)
	if err != nil {
		return err
	}

	bookID := "urn:uuid:" + uuid.NewString()

	if err := os.WriteFile(filepath.Join(outputDir, "mimetype"), []byte("application/epub+zip"), 0o644); err != nil {
		return err
	}
	if err := writeContainerXML(filepath.Join(outputDir, "META-INF", "container.xml")); err != nil {
		return err
	}
	if err := writeOPF(filepath.Join(outputDir, contentDir, "content.opf"), book, spine, bookID); err != nil {
		return err
	}
	if err := writeNCX(filepath.Join(outputDir, contentDir, "toc.ncx"), spine, bookID); err != nil {
		return err
	}

	if err := archive(outputDir, outputPath); err != nil {
		return err
	}

	if !w.KeepDir {
		return os.RemoveAll(outputDir)
	}
	return nil
}

// layOutContent writes every content document and image into the
// directory tree and returns the spine in reading order.
func (w *Writer) layOutContent(book *pgbook.Book, outputDir string) ([]spineItem, error) {
	var spine []spineItem

	addPage := func(filename, title, content string, depth int) error {
		path := filepath.Join(outputDir, contentDir, filename)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		spine = append(spine, spineItem{
			id:        fmt.Sprintf("html%d", len(spine)+1),
			filename:  filename,
			title:     title,
			depth:     depth,
			mediaType: "application/xhtml+xml",
		})
		return nil
	}

	titlePage, err := w.Renderer.RenderPage(pgbook.BookTitle, "",
		"<h1>"+pgbook.HTMLEntities(pgbook.BookTitle)+"</h1><p>"+pgbook.HTMLEntities(pgbook.BookAuthor)+"</p>")
	if err != nil {
		return nil, err
	}
	if err := addPage("title_page.html", "Title Page", titlePage, 0); err != nil {
		return nil, err
	}

	tocPage, err := w.Renderer.RenderPage("Table of Contents", "", tocPageContent(book))
	if err != nil {
		return nil, err
	}
	if err := addPage("toc.html", "Table of Contents", tocPage, 0); err != nil {
		return nil, err
	}

	for _, entry := range book.MainTOC {
		a := book.Articles[entry.Link]
		if err := addPage(a.Filename(), a.Title, a.Content, 1); err != nil {
			return nil, err
		}
	}

	sections := []struct {
		filename string
		heading  string
		toc      []pgbook.TOCEntry
	}{
		{"_appendices.html", "Appendices", book.AppendixTOC},
		{"_images.html", "Images", book.ImageTOC},
	}
	for _, s := range sections {
		if len(s.toc) == 0 {
			continue
		}
		page, err := w.Renderer.RenderPage(s.heading, "", "<h1>"+s.heading+"</h1>")
		if err != nil {
			return nil, err
		}
		if err := addPage(s.filename, s.heading, page, 1); err != nil {
			return nil, err
		}
		for _, entry := range s.toc {
			a := book.Articles[entry.Link]
			if err := addPage(a.Filename(), a.Title, a.Content, 2); err != nil {
				return nil, err
			}
		}
	}

	for _, asset := range sortedImages(book) {
		if err := copyFile(asset.CachePath, filepath.Join(outputDir, contentDir, asset.Name)); err != nil {
			return nil, err
		}
	}

	return spine, nil
}

// sortedImages returns the image assets in name order. The registry is
// a map; identical input must still produce an identical container.
func sortedImages(book *pgbook.Book) []*pgbook.ImageAsset {
	assets := make([]*pgbook.ImageAsset, 0, len(book.Images))
	for _, a := range book.Images {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets
}

// tocPageContent builds the human-readable table-of-contents page.
func tocPageContent(book *pgbook.Book) string {
	var b strings.Builder
	b.WriteString("<h1>Table of Contents</h1>")

	writeList := func(toc []pgbook.TOCEntry) {
		b.WriteString("<ul>")
		for _, entry := range toc {
			fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`,
				pgbook.ArticleFilename(entry.Link), pgbook.HTMLEntities(entry.Title))
		}
		b.WriteString("</ul>")
	}

	writeList(book.MainTOC)
	if len(book.AppendixTOC) > 0 {
		b.WriteString(`<h2><a href="_appendices.html">Appendices</a></h2>`)
		writeList(book.AppendixTOC)
	}
	if len(book.ImageTOC) > 0 {
		b.WriteString(`<h2><a href="_images.html">Images</a></h2>`)
		writeList(book.ImageTOC)
	}

	return b.String()
}

// writeContainerXML writes the fixed container descriptor pointing at
// the package document.
func writeContainerXML(path string) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	container := doc.CreateElement("container")
	container.CreateAttr("version", "1.0")
	container.CreateAttr("xmlns", "urn:oasis:names:tc:opendocument:xmlns:container")

	rootfiles := container.CreateElement("rootfiles")
	rootfile := rootfiles.CreateElement("rootfile")
	rootfile.CreateAttr("full-path", contentDir+"/content.opf")
	rootfile.CreateAttr("media-type", "application/oebps-package+xml")

	doc.Indent(2)
	return writeDocument(doc, path)
}

// writeOPF writes the package document: metadata, manifest, spine and
// guide.
func writeOPF(path string, book *pgbook.Book, spine []spineItem, bookID string) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	pkg := doc.CreateElement("package")
	pkg.CreateAttr("xmlns", "http://www.idpf.org/2007/opf")
	pkg.CreateAttr("unique-identifier", "BookId")
	pkg.CreateAttr("version", "2.0")

	metadata := pkg.CreateElement("metadata")
	metadata.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	metadata.CreateAttr("xmlns:opf", "http://www.idpf.org/2007/opf")
	metadata.CreateElement("dc:title").SetText(pgbook.BookTitle)
	metadata.CreateElement("dc:language").SetText("en-US")
	creator := metadata.CreateElement("dc:creator")
	creator.CreateAttr("opf:role", "aut")
	creator.SetText(pgbook.BookAuthor)
	identifier := metadata.CreateElement("dc:identifier")
	identifier.CreateAttr("id", "BookId")
	identifier.SetText(bookID)

	manifest := pkg.CreateElement("manifest")
	ncx := manifest.CreateElement("item")
	ncx.CreateAttr("id", "ncx")
	ncx.CreateAttr("href", "toc.ncx")
	ncx.CreateAttr("media-type", "application/x-dtbncx+xml")
	for _, it := range spine {
		item := manifest.CreateElement("item")
		item.CreateAttr("id", it.id)
		item.CreateAttr("href", it.filename)
		item.CreateAttr("media-type", it.mediaType)
	}
	imgNum := 0
	for _, asset := range sortedImages(book) {
		imgNum++
		item := manifest.CreateElement("item")
		item.CreateAttr("id", fmt.Sprintf("image%d", imgNum))
		item.CreateAttr("href", asset.Name)
		item.CreateAttr("media-type", imageMediaType(asset.Name))
	}

	spineEl := pkg.CreateElement("spine")
	spineEl.CreateAttr("toc", "ncx")
	for _, it := range spine {
		ref := spineEl.CreateElement("itemref")
		ref.CreateAttr("idref", it.id)
	}

	guide := pkg.CreateElement("guide")
	title := guide.CreateElement("reference")
	title.CreateAttr("type", "title-page")
	title.CreateAttr("title", "Title Page")
	title.CreateAttr("href", "title_page.html")
	toc := guide.CreateElement("reference")
	toc.CreateAttr("type", "toc")
	toc.CreateAttr("title", "Table of Contents")
	toc.CreateAttr("href", "toc.html")

	doc.Indent(2)
	return writeDocument(doc, path)
}

// writeNCX writes the navigation map. Items of depth 1 are top-level
// navigation points; items of depth 2 nest under the preceding depth-1
// item. Depth-0 items (title and contents pages) are not navigable.
func writeNCX(path string, spine []spineItem, bookID string) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(`DOCTYPE ncx PUBLIC "-//NISO//DTD ncx 2005-1//EN" "http://www.daisy.org/z3986/2005/ncx-2005-1.dtd"`)

	ncx := doc.CreateElement("ncx")
	ncx.CreateAttr("xmlns", "http://www.daisy.org/z3986/2005/ncx/")
	ncx.CreateAttr("version", "2005-1")

	head := ncx.CreateElement("head")
	for _, meta := range []struct{ name, content string }{
		{"dtb:uid", bookID},
		{"dtb:depth", "2"},
		{"dtb:totalPageCount", "0"},
		{"dtb:maxPageNumber", "0"},
	} {
		m := head.CreateElement("meta")
		m.CreateAttr("name", meta.name)
		m.CreateAttr("content", meta.content)
	}

	docTitle := ncx.CreateElement("docTitle")
	docTitle.CreateElement("text").SetText(pgbook.BookTitle)

	navMap := ncx.CreateElement("navMap")
	playOrder := 0
	var level1 *etree.Element
	for _, it := range spine {
		if it.depth == 0 {
			continue
		}
		parent := navMap
		if it.depth == 2 && level1 != nil {
			parent = level1
		}

		playOrder++
		navPoint := parent.CreateElement("navPoint")
		navPoint.CreateAttr("id", fmt.Sprintf("navPoint-%d", playOrder))
		navPoint.CreateAttr("playOrder", fmt.Sprintf("%d", playOrder))
		navPoint.CreateElement("navLabel").CreateElement("text").SetText(it.title)
		content := navPoint.CreateElement("content")
		content.CreateAttr("src", it.filename)

		if it.depth == 1 {
			level1 = navPoint
		}
	}

	doc.Indent(2)
	return writeDocument(doc, path)
}

// archive zips the directory tree into an EPUB file. The mimetype entry
// comes first and is stored uncompressed, as the format requires.
func archive(outputDir, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	mimetype, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	if _, err := mimetype.Write([]byte("application/epub+zip")); err != nil {
		return err
	}

	err = filepath.Walk(outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "mimetype" {
			return nil
		}

		entry, err := zw.Create(rel)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}

// imageMediaType maps an image file name to its MIME type by extension.
func imageMediaType(name string) string {
	switch strings.TrimPrefix(filepath.Ext(name), ".") {
	case "gif":
		return "image/gif"
	case "png":
		return "image/png"
	case "jpeg", "jpg":
		return "image/jpeg"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// writeDocument serializes an XML document to a file.
func writeDocument(doc *etree.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// copyFile copies a file's contents.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
