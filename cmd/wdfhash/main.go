// wdfhash computes asset identifiers and maintains known-name lists.
//
// With no flags it reads one relative path per line and writes a name
// list ("<path> <uid>" per line) to standard output. With --verify it
// loads an existing name list and reports every entry whose path does not
// hash to its recorded identifier.
//
// Usage:
//
//	wdfhash [--output FILE] [PATHS_FILE]
//	wdfhash --verify NAME_LIST
//	wdfhash --id PATH...
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/meigma/wdf"
	"github.com/meigma/wdf/names"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var verify, ids bool
	var output string

	flagSet := pflag.NewFlagSet("wdfhash", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&verify, "verify", false, "check a name list instead of generating one")
	flagSet.BoolVar(&ids, "id", false, "print the identifier of each argument")
	flagSet.StringVarP(&output, "output", "o", "", "write the generated list to FILE instead of stdout")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  wdfhash [--output FILE] [PATHS_FILE]\n  wdfhash --verify NAME_LIST\n  wdfhash --id PATH...\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	rest := flagSet.Args()

	switch {
	case verify && ids:
		return errors.New("--verify and --id are mutually exclusive")
	case ids:
		for _, p := range rest {
			fmt.Fprintf(stdout, "%s %d\n", p, wdf.StringID([]byte(p)))
		}
		return nil
	case verify:
		if len(rest) != 1 {
			return errors.New("--verify takes exactly one name list")
		}
		return verifyList(rest[0], stdout)
	}

	if len(rest) > 1 {
		return fmt.Errorf("unexpected argument: %s", rest[1])
	}
	in := stdin
	if len(rest) == 1 {
		f, err := os.Open(rest[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	return generate(in, stdout, stderr, output)
}

func generate(in io.Reader, stdout, stderr io.Writer, output string) (err error) {
	out := stdout
	if output != "" {
		f, createErr := os.Create(output) //nolint:gosec // User-provided path is intentional
		if createErr != nil {
			return createErr
		}
		defer func() {
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
		}()
		out = f
	}

	n, err := names.Generate(out, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "%d names\n", n)
	return nil
}

func verifyList(path string, stdout io.Writer) error {
	table, err := names.LoadFile(path)
	if err != nil {
		return err
	}
	mismatches := table.Verify()
	for _, m := range mismatches {
		fmt.Fprintf(stdout, "%s: listed %d, hashes to %d\n", m.Path, m.UID, m.Want)
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d of %d names do not match their identifier", len(mismatches), table.Len())
	}
	return nil
}
