package pgbook

import "context"

// Assembler packages a finished book into its final container: every
// article, the three ordered tables of contents, and the deduplicated
// image registry.
type Assembler interface {
	Assemble(ctx context.Context, book *Book, outputPath string) error
}

// Validator checks a produced container with an external tool. Purely
// diagnostic; it has no effect on pipeline state.
type Validator interface {
	// Check returns EUNAVAILABLE when the tool cannot be found, or a
	// descriptive error when validation itself fails.
	Check(ctx context.Context, path string) error
}
