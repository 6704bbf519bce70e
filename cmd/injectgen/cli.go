package main

import (
	"flag"
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"github.com/kbukum/inject/version"
)

// ExitError is an error that carries a process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// options holds the parsed command line.
type options struct {
	Root    string
	Out     string
	Package string
	Func    string
	Dir     string
	Verbose bool
}

// parseArgs processes command-line arguments. It returns the options, a
// boolean reporting whether the program should exit cleanly, or an
// ExitError.
func parseArgs(args []string, output io.Writer) (*options, bool, error) {
	flagSet := flag.NewFlagSet("injectgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
injectgen - generates a di.Catalog from //inject:injectable directives.

Usage:
  injectgen -root <import path> [options]

Typical use from the wiring package:
  //go:generate go run github.com/kbukum/inject/cmd/injectgen -root example.com/app

Options:
`)
		flagSet.PrintDefaults()
	}

	defaultPkg := os.Getenv("GOPACKAGE")
	if defaultPkg == "" {
		defaultPkg = "wiring"
	}

	root := flagSet.String("root", "", "Import-path root to scan, e.g. example.com/app (required).")
	out := flagSet.String("out", "injectables_gen.go", "Output file.")
	pkg := flagSet.String("pkg", defaultPkg, "Package name of the generated file.")
	fn := flagSet.String("func", "Catalog", "Name of the generated function.")
	dir := flagSet.String("dir", ".", "Directory the packages are loaded from.")
	verbose := flagSet.Bool("v", false, "Log every injectable found.")
	showVersion := flagSet.Bool("version", false, "Print the version and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if *showVersion {
		fmt.Fprintf(output, "injectgen %s\n", version.Get())
		return nil, true, nil
	}

	opts := &options{
		Root:    strings.TrimSuffix(strings.TrimSpace(*root), "/..."),
		Out:     *out,
		Package: *pkg,
		Func:    *fn,
		Dir:     *dir,
		Verbose: *verbose,
	}
	opts.Root = strings.TrimSuffix(opts.Root, "/")

	if opts.Root == "" {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "missing required -root"}
	}
	if !token.IsIdentifier(opts.Package) {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid -pkg %q: must be a Go identifier", opts.Package)}
	}
	if !token.IsIdentifier(opts.Func) {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid -func %q: must be a Go identifier", opts.Func)}
	}
	if opts.Out == "" {
		return nil, false, &ExitError{Code: 2, Message: "invalid -out: must not be empty"}
	}
	return opts, false, nil
}
