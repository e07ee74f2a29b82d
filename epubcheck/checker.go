// Package epubcheck validates produced EPUB files with the external
// epubcheck tool.
package epubcheck

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/goc9000/pgbook"
)

var jarRe = regexp.MustCompile(`^epubcheck.*\.jar$`)

// Ensure Checker implements pgbook.Validator at compile time.
var _ pgbook.Validator = (*Checker)(nil)

// Checker runs epubcheck over a produced file. The checker jar is
// looked up in Dir; when several versions are present the newest (last
// in sort order) wins.
type Checker struct {
	// Dir is the directory searched for epubcheck jars.
	Dir string

	// Output receives the tool's combined output. Defaults to stderr.
	Output io.Writer
}

// NewChecker creates a Checker searching dir for epubcheck jars.
func NewChecker(dir string) *Checker {
	return &Checker{Dir: dir}
}

// Check validates the file at path. Returns EUNAVAILABLE when no
// epubcheck jar can be found.
func (c *Checker) Check(ctx context.Context, path string) error {
	jar, err := c.findJar()
	if err != nil {
		return err
	}

	out := c.Output
	if out == nil {
		out = os.Stderr
	}

	cmd := exec.CommandContext(ctx, "java", "-jar", jar, path)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return pgbook.Errorf(pgbook.EINVALID, "epubcheck failed for %s: %v", path, err)
	}
	return nil
}

// findJar locates the newest epubcheck jar in the search directory.
func (c *Checker) findJar() (string, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return "", pgbook.Errorf(pgbook.EUNAVAILABLE, "cannot search for epubcheck jar: %v", err)
	}

	var jars []string
	for _, e := range entries {
		if !e.IsDir() && jarRe.MatchString(e.Name()) {
			jars = append(jars, e.Name())
		}
	}
	if len(jars) == 0 {
		return "", pgbook.Errorf(pgbook.EUNAVAILABLE, "no epubcheck jar found in %s", c.Dir)
	}

	sort.Strings(jars)
	return filepath.Join(c.Dir, jars[len(jars)-1]), nil
}
