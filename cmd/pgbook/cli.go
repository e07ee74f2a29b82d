package main

import (
	"context"
	"io"
)

// Dependencies holds shared configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Build BuildCmd `cmd:"" default:"withargs" help:"Build the essay book"`
	Check CheckCmd `cmd:"" help:"Validate an existing book with epubcheck"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Output   string `short:"o" default:"Paul Graham's Essays.epub" help:"Output file path"`
	CacheDir string `default:"cache" help:"Download cache directory"`
	KeepDir  bool   `help:"Keep the intermediate output directory"`
	Check    bool   `help:"Run epubcheck on the result"`
	Verbose  bool   `short:"v" help:"Log every fetch"`

	RateLimit float64 `default:"2" help:"Download rate limit in requests per second"`

	Translations    bool `help:"Keep links to translated versions"`
	DeprecatedLinks bool `help:"Keep links marked as deprecated"`
	Comments        bool `negatable:"" default:"true" help:"Include author footnotes"`
	Links           bool `negatable:"" default:"true" help:"Include per-essay related links"`
	Appendices      bool `negatable:"" default:"true" help:"Include referenced articles as appendices"`
	ImageAppendices bool `negatable:"" default:"true" help:"Include referenced image articles"`
	RootsOfLisp     bool `help:"Embed the scanned Roots of Lisp paper (requires ps2pdf and pdftoppm)"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Path string `arg:"" help:"Path of the book to validate"`
	Dir  string `default:"." help:"Directory searched for epubcheck jars"`
}
