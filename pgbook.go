// Package pgbook builds an offline ebook out of Paul Graham's essays
// (http://www.paulgraham.com/articles.html). It crawls the essay index,
// normalizes each page's decades-old HTML into clean XHTML, resolves
// every cross-reference and image to a canonical identity, and hands the
// result to an EPUB assembler.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// xxhash/, epub/).
package pgbook
