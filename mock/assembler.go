package mock

import (
	"context"

	"github.com/goc9000/pgbook"
)

var _ pgbook.Assembler = (*Assembler)(nil)

// Assembler is a mock implementation of pgbook.Assembler.
type Assembler struct {
	AssembleFn func(ctx context.Context, book *pgbook.Book, outputPath string) error
}

func (a *Assembler) Assemble(ctx context.Context, book *pgbook.Book, outputPath string) error {
	return a.AssembleFn(ctx, book, outputPath)
}

var _ pgbook.Validator = (*Validator)(nil)

// Validator is a mock implementation of pgbook.Validator.
type Validator struct {
	CheckFn func(ctx context.Context, path string) error
}

func (v *Validator) Check(ctx context.Context, path string) error {
	return v.CheckFn(ctx, path)
}
