package pgbook

import "strings"

var entityReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// HTMLEntities escapes ampersands and angle brackets for literal
// inclusion in markup.
func HTMLEntities(text string) string {
	return entityReplacer.Replace(text)
}
