// Command fatsim is the thin interactive front end over fsengine: a line
// reader that tokenizes commands, dispatches them to a single long-lived
// Engine, and prints diagnostics to stderr / content to stdout. Grounded in
// the teacher repo's cmd/main.go urfave/cli scaffolding, extended with a
// REPL since the specification's command surface is a shell, not a set of
// one-shot subcommands.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	fatsim "github.com/FromCaio/fat16-fs-simulator"
	"github.com/FromCaio/fat16-fs-simulator/dirent"
	"github.com/FromCaio/fat16-fs-simulator/fsengine"
	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"
)

// lsRow is the CSV projection of a directory listing row for `ls --csv`.
type lsRow struct {
	Type string `csv:"type"`
	Size uint32 `csv:"size"`
	Name string `csv:"name"`
}

// shell binds one engine to the streams its commands read from and write to,
// so the dispatch logic below can be driven by tests without touching the
// real os.Stdin/os.Stdout/os.Stderr.
type shell struct {
	engine *fsengine.Engine
	stdout io.Writer
	stderr io.Writer
}

func main() {
	app := &cli.App{
		Name:  "fatsim",
		Usage: "interactive shell over a simulated FAT-style partition image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "image",
				Value: fatsim.PartitionFileName,
				Usage: "partition image file to operate on",
			},
		},
		Action: runShell,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func runShell(c *cli.Context) error {
	imagePath := c.String("image")

	stream, err := openOrCreateImage(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatsim: %s\n", err)
		os.Exit(1)
	}
	defer stream.Close()

	sh := &shell{engine: fsengine.New(stream), stdout: os.Stdout, stderr: os.Stderr}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(sh.stdout, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Fprint(sh.stdout, "> ")
			continue
		}

		if exit := sh.dispatch(line); exit {
			return nil
		}
		fmt.Fprint(sh.stdout, "> ")
	}
	return scanner.Err()
}

// openOrCreateImage opens the partition image for read/write, creating it
// (zero-length, to be sized by a later `init`) if it doesn't exist yet.
func openOrCreateImage(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
}

// dispatch tokenizes and runs one command line, reporting success output to
// stdout and failures to stderr. It returns true only for `exit`.
func (sh *shell) dispatch(line string) bool {
	tokens := tokenize(line)
	if len(tokens) == 0 {
		return false
	}

	cmd, args := tokens[0], tokens[1:]
	switch cmd {
	case "exit":
		return true

	case "init":
		sh.runOp(sh.engine.Format, "init")

	case "load":
		sh.runOp(sh.engine.Mount, "load")

	case "ls":
		sh.runLs(args)

	case "mkdir":
		if sh.requireArgs(args, 1, "mkdir path") {
			sh.runOp(func() error { return sh.engine.Mkdir(args[0]) }, "mkdir")
		}

	case "create":
		if sh.requireArgs(args, 1, "create path") {
			sh.runOp(func() error { return sh.engine.Create(args[0]) }, "create")
		}

	case "unlink":
		if sh.requireArgs(args, 1, "unlink path") {
			sh.runOp(func() error { return sh.engine.Unlink(args[0]) }, "unlink")
		}

	case "read":
		sh.runRead(args)

	case "write":
		if sh.requireArgs(args, 2, "write content path") {
			sh.runOp(func() error { return sh.engine.Write(args[1], []byte(args[0])) }, "write")
		}

	case "append":
		if sh.requireArgs(args, 2, "append content path") {
			sh.runOp(func() error { return sh.engine.Append(args[1], []byte(args[0])) }, "append")
		}

	case "check":
		sh.runOp(sh.engine.Check, "check")

	default:
		fmt.Fprintf(sh.stderr, "fatsim: unknown command %q\n", cmd)
	}
	return false
}

func (sh *shell) requireArgs(args []string, n int, usage string) bool {
	if len(args) < n {
		fmt.Fprintf(sh.stderr, "fatsim: usage: %s\n", usage)
		return false
	}
	return true
}

func (sh *shell) runOp(op func() error, name string) {
	if err := op(); err != nil {
		fmt.Fprintf(sh.stderr, "%s: %s\n", name, err)
		return
	}
}

func (sh *shell) runRead(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(sh.stderr, "fatsim: usage: read path")
		return
	}
	content, err := sh.engine.Read(args[0])
	if err != nil {
		fmt.Fprintf(sh.stderr, "read: %s\n", err)
		return
	}
	sh.stdout.Write(content)
	fmt.Fprintln(sh.stdout)
}

func (sh *shell) runLs(args []string) {
	path := "/"
	asCSV := false
	for _, a := range args {
		if a == "--csv" {
			asCSV = true
			continue
		}
		path = a
	}

	result, err := sh.engine.Ls(path)
	if err != nil {
		fmt.Fprintf(sh.stderr, "ls: %s\n", err)
		return
	}

	// A file path prints just its name, no type/size columns.
	if result.IsFile {
		fmt.Fprintln(sh.stdout, result.Entry.Filename)
		return
	}

	rows := make([]lsRow, 0, len(result.Entries))
	for _, entry := range result.Entries {
		rows = append(rows, entryToRow(entry))
	}
	sh.printLsRows(rows, asCSV)
}

func entryToRow(entry dirent.Entry) lsRow {
	return lsRow{Type: entry.Attribute.String(), Size: entry.Size, Name: entry.Filename}
}

func (sh *shell) printLsRows(rows []lsRow, asCSV bool) {
	if asCSV {
		if err := gocsv.Marshal(rows, sh.stdout); err != nil {
			fmt.Fprintf(sh.stderr, "ls: csv: %s\n", err)
		}
		return
	}
	for _, r := range rows {
		fmt.Fprintf(sh.stdout, "%s  %d  %s\n", r.Type, r.Size, r.Name)
	}
}

// tokenize splits a command line into words, treating a double-quoted span
// as a single token (so `write "hello world" /f` passes one content
// argument), matching the shell's quoting convention for `write`/`append`.
func tokenize(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	hasCurrent := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasCurrent = true
		case r == ' ' && !inQuotes:
			if hasCurrent {
				tokens = append(tokens, current.String())
				current.Reset()
				hasCurrent = false
			}
		default:
			current.WriteRune(r)
			hasCurrent = true
		}
	}
	if hasCurrent {
		tokens = append(tokens, current.String())
	}
	return tokens
}
