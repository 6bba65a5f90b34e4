package main

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
)

var (
	serveFn          = serve
	currentVersionFn = currentVersion
)

const (
	cmdHelp       = "help"
	flagHelpShort = "-h"
	flagHelpLong  = "--help"
)

func writef(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func writeln(w io.Writer, args ...any) {
	_, _ = fmt.Fprintln(w, args...)
}

func runCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return serveFn()
	}

	switch args[0] {
	case "-v", "--version", "version":
		writef(stdout, "activities version %s\n", currentVersionFn())
		return 0
	case "serve":
		return runServeCommand(args[1:], stdout, stderr)
	case cmdHelp, flagHelpShort, flagHelpLong:
		printRootHelp(stdout)
		return 0
	default:
		if strings.HasPrefix(args[0], "-") {
			return runServeCommand(args, stdout, stderr)
		}
		writef(stderr, "unknown command: %s\n\n", args[0])
		printRootHelp(stderr)
		return 2
	}
}

func runServeCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	help := fs.Bool("help", false, "show help")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		printServeHelp(stdout)
		return 0
	}
	if fs.NArg() > 0 {
		writef(stderr, "unexpected argument(s): %s\n", strings.Join(fs.Args(), " "))
		printServeHelp(stderr)
		return 2
	}
	return serveFn()
}

func printRootHelp(w io.Writer) {
	writeln(w, "Mergington High activities server")
	writeln(w, "")
	writeln(w, "Usage:")
	writeln(w, "  activities [serve]")
	writeln(w, "  activities version")
	writeln(w, "")
	writeln(w, "Commands:")
	writeln(w, "  serve      Start the activities HTTP server (default)")
	writeln(w, "  version    Print the build version")
}

func printServeHelp(w io.Writer) {
	writeln(w, "Usage:")
	writeln(w, "  activities serve")
	writeln(w, "")
	writeln(w, "Starts the server using config file/env defaults.")
}

func currentVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		if strings.TrimSpace(bi.Main.Version) != "" && bi.Main.Version != "(devel)" {
			return bi.Main.Version
		}
	}
	return "dev"
}
