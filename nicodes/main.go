package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/peterbourgon/ff/v3/ffcli"
)

const defaultHeader = "/usr/include/linux/input-event-codes.h"

// Captures the text up through the whitespace after "define", the macro
// name, and the rest of the line.
var definePattern = regexp.MustCompile(`^(\s*#\s*define\s+)(\S+)(.*)$`)

func main() {
	if err := realMain(
		context.Background(),
		os.Stdin,
		os.Stdout,
		os.Args,
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func realMain(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	args []string,
) error {
	exec := args[0]
	fs := flag.NewFlagSet(exec, flag.ExitOnError)
	flagFile := fs.String("f", defaultHeader, "header file to read, - for stdin")
	flagPrefix := fs.String("prefix", "NI_", "prefix for generated aliases")

	rootCmd := &ffcli.Command{
		FlagSet:    fs,
		ShortUsage: fmt.Sprintf("%v [flags]", exec),
		ShortHelp:  "emit prefixed #define aliases for every macro in a header",
		Exec: func(_ context.Context, _ []string) error {
			in := stdin
			if *flagFile != "-" {
				f, err := os.Open(*flagFile)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			return alias(in, stdout, *flagPrefix)
		},
	}

	return rootCmd.ParseAndRun(ctx, args[1:])
}

func alias(in io.Reader, out io.Writer, prefix string) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := scanner.Text()
		m := definePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		fmt.Fprintf(out, "%s%s%s %s\n", m[1], prefix, m[2], m[2])
	}

	return scanner.Err()
}
