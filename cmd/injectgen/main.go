// Command injectgen generates the registration table consumed by
// di.Registry.Init. It loads every package under an import-path root,
// collects the type declarations carrying an //inject:injectable
// directive and writes a Go file whose function returns them as a
// *di.Catalog keyed by package path.
//
//	//inject:injectable
//	type MemoryStore struct{ ... }
//
//	//inject:injectable resolveIfc=false implements=store.Reader
//	type Reporter struct{ ... }
//
// An implements= entry is a Name declared in the same package, a
// qualifier.Name where qualifier is the name the file imports the package
// under, or an import/path.Name for packages the file does not import.
// Without implements=, the exported non-empty interfaces of the package
// that the type satisfies are inferred in source order. Unexported ones
// are considered only when the output file lives in that package.
//
// A function named NewT returning T or *T (optionally with an error) is
// used as the constructor of T.
//
// The generated file is constrained with //go:build !injectgen and
// packages are loaded with that tag set, so a stale catalog never blocks
// regeneration.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kbukum/inject/logger"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "injectgen:", err)
		os.Exit(1)
	}
}

// run encapsulates the command for testing.
func run(out io.Writer, args []string) error {
	opts, shouldExit, err := parseArgs(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(&logger.Config{
		Level:   level,
		Format:  "console",
		NoColor: true,
	}, "injectgen", os.Stderr)

	outPath, err := filepath.Abs(opts.Out)
	if err != nil {
		return fmt.Errorf("resolve -out: %w", err)
	}

	s := &scanner{dir: opts.Dir, localDir: filepath.Dir(outPath), log: log}
	m, err := s.Scan(opts.Root)
	if err != nil {
		return err
	}

	src, err := render(m, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Out, err)
	}

	log.Info("catalog generated", logger.Fields(
		logger.FieldRoot, opts.Root,
		logger.FieldCount, m.Count(),
		"file", opts.Out,
	))
	fmt.Fprintf(out, "injectgen: wrote %d injectable(s) under %s to %s\n", m.Count(), opts.Root, opts.Out)
	return nil
}
