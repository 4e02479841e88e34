package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	ansicolor "github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const defaultHeader = "/usr/include/linux/input-event-codes.h"

var definePattern = regexp.MustCompile(`^\s*#\s*define\s+(\S+)(.*)$`)

type code struct {
	Group string `json:"group"`
	Name  string `json:"name"`
	Value uint64 `json:"value"`
	Raw   string `json:"raw"`
}

func main() {
	if err := realMain(
		context.Background(),
		os.Stdin,
		os.Stdout,
		os.Stderr,
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
	stderr io.Writer,
	args []string,
) error {
	exec := args[0]
	fs := flag.NewFlagSet(exec, flag.ExitOnError)
	flagFile := fs.String("f", defaultHeader, "header file to read, - for stdin")
	flagGroups := fs.String("g", "", "comma-separated groups to include (e.g. KEY,BTN)")
	flagJSON := fs.Bool("json", false, "output JSON, one object per code")
	flagIgnoreUnresolved := fs.Bool("ii", false, "ignore defines whose value cannot be resolved")
	flagForceColor := fs.Bool("fc", false, "force color output")

	rootCmd := &ffcli.Command{
		FlagSet:    fs,
		ShortUsage: fmt.Sprintf("%v [flags]", exec),
		ShortHelp:  "list input event codes defined in a header",
		Exec: func(_ context.Context, _ []string) error {
			if *flagForceColor {
				ansicolor.NoColor = false
			}

			in := stdin
			if *flagFile != "-" {
				f, err := os.Open(*flagFile)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			codes, unresolved, err := parse(in)
			if err != nil {
				return err
			}

			if !*flagIgnoreUnresolved {
				for _, name := range unresolved {
					fmt.Fprintf(stderr, "%v: %v\n", colorError.Sprintf("unresolved"), name)
				}
			}

			if *flagGroups != "" {
				codes = filterGroups(codes, strings.Split(*flagGroups, ","))
			}

			if *flagJSON {
				for _, c := range codes {
					v, err := json.Marshal(c)
					if err != nil {
						return err
					}
					fmt.Fprintf(stdout, "%s\n", v)
				}
				return nil
			}

			table := tablewriter.NewWriter(stdout)
			table.SetHeader([]string{"group", "name", "code", "hex"})
			table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
			table.SetCenterSeparator("|")
			for _, c := range codes {
				table.Append([]string{
					c.Group,
					c.Name,
					strconv.FormatUint(c.Value, 10),
					fmt.Sprintf("0x%03x", c.Value),
				})
			}
			table.Render()

			return nil
		},
	}

	return rootCmd.ParseAndRun(ctx, args[1:])
}

// parse collects every resolvable #define in order. A value is resolvable
// if it is a C integer literal or the name of an earlier define; include
// guards and expression values end up in unresolved.
func parse(in io.Reader) ([]code, []string, error) {
	values := map[string]uint64{}

	var codes []code
	var unresolved []string

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		m := definePattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		name := m[1]
		raw := strings.TrimSpace(stripComment(m[2]))
		if raw == "" {
			unresolved = append(unresolved, name)
			continue
		}

		v, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			ref, ok := values[raw]
			if !ok {
				unresolved = append(unresolved, name)
				continue
			}
			v = ref
		}

		values[name] = v
		codes = append(codes, code{
			Group: group(name),
			Name:  name,
			Value: v,
			Raw:   raw,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return codes, unresolved, nil
}

func group(name string) string {
	if i := strings.Index(name, "_"); i > 0 {
		return name[:i]
	}
	return name
}

func stripComment(s string) string {
	if i := strings.Index(s, "/*"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	return s
}

func filterGroups(codes []code, groups []string) []code {
	want := map[string]bool{}
	for _, g := range groups {
		want[strings.ToUpper(strings.TrimSpace(g))] = true
	}

	var r []code
	for _, c := range codes {
		if want[c.Group] {
			r = append(r, c)
		}
	}
	return r
}

var colorError = ansicolor.New(ansicolor.FgRed)
