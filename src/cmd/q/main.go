package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phroun/qabalah"
)

var version = "dev" // set via -ldflags at build time

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m" // Bright yellow foreground
	colorReset  = "\x1b[0m"  // Reset to default
)

// errorPrintf prints an error message to stderr, using color if supported
func errorPrintf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if qabalah.SupportsColor(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s%s%s", colorYellow, message, colorReset)
	} else {
		fmt.Fprint(os.Stderr, message)
	}
}

func main() {
	flag.Usage = showUsage

	debugFlag := flag.Bool("debug", false, "Execute with debugging")
	flag.BoolVar(debugFlag, "d", false, "Execute with debugging (short)")
	verboseFlag := flag.Bool("verbose", false, "Verbose output")
	versionFlag := flag.Bool("version", false, "Show program version")
	flag.BoolVar(versionFlag, "v", false, "Show program version (short)")
	helpFlag := flag.Bool("help", false, "Show this message")
	flag.BoolVar(helpFlag, "h", false, "Show this message (short)")
	configFlag := flag.String("config", qabalah.DefaultCLIConfigPath(), "Configuration file")
	stackFlag := flag.Int("stack", 0, "Frame stack depth")
	readRootsFlag := flag.String("read-roots", "", "Directories the include operator may read")
	unrestrictedFlag := flag.Bool("unrestricted", false, "Allow includes from anywhere")

	flag.Parse()

	if *helpFlag {
		showUsage()
		os.Exit(0)
	}
	if *versionFlag {
		showVersion()
		os.Exit(0)
	}

	cliConfig, err := qabalah.LoadCLIConfig(*configFlag)
	if err != nil {
		errorPrintf("Error reading configuration: %v\n", err)
		os.Exit(1)
	}

	// Command line flags override the configuration file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug", "d":
			cliConfig.Debug = *debugFlag
		case "verbose":
			cliConfig.Verbose = *verboseFlag
		case "stack":
			cliConfig.StackDepth = *stackFlag
		case "unrestricted":
			cliConfig.Unrestricted = *unrestrictedFlag
		case "read-roots":
			cliConfig.Unrestricted = false
			cliConfig.ReadRoots = append(cliConfig.ReadRoots, parseRoots(*readRootsFlag)...)
		}
	})

	args := flag.Args()
	var scriptFile string
	if len(args) > 0 {
		scriptFile = args[len(args)-1]
	}

	config := cliConfig.Config()
	if config.FileAccess != nil && len(config.FileAccess.ReadRoots) == 0 {
		config.FileAccess.ReadRoots = defaultReadRoots(scriptFile)
	}

	isStdinRedirected := qabalah.IsRedirected(os.Stdin)

	if scriptFile == "" && !isStdinRedirected {
		repl := qabalah.NewREPL(qabalah.REPLConfig{
			Config:      config,
			HistoryFile: cliConfig.HistoryPath(),
			ShowBanner:  true,
			Version:     version,
		}, os.Stdin, os.Stdout)
		if err := repl.Start(); err != nil {
			errorPrintf("Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Piped scripts share stdin with the data that follows them, so the
	// script and its line input read through one buffered reader.
	stdin := bufio.NewReader(os.Stdin)
	script := stdin
	name := "<stdin>"
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			errorPrintf("Could not open input file: %s\n", scriptFile)
			os.Exit(1)
		}
		defer f.Close()
		script = bufio.NewReader(f)
		name = scriptFile
	}

	src, run, err := qabalah.ReadScriptFrom(script)
	if err != nil {
		errorPrintf("Error reading script: %v\n", err)
		os.Exit(1)
	}
	if !run {
		os.Exit(0)
	}

	interp := qabalah.New(config)
	if e := interp.Open(src, 0, stdin, os.Stdout, nil); e != nil {
		e.Name = name
		if err := interp.Execute(e); err != nil {
			errorPrintf("Error writing output: %v\n", err)
			os.Exit(1)
		}
	}
	interp.FinishLine(os.Stdout)
}

// parseRoots splits a comma-separated directory list into absolute paths.
func parseRoots(rootsStr string) []string {
	var roots []string
	for _, root := range strings.Split(rootsStr, ",") {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		if abs, err := filepath.Abs(root); err == nil {
			roots = append(roots, abs)
		}
	}
	return roots
}

// defaultReadRoots is the sandbox used when includes are restricted but no
// roots were configured: the script's directory and the working directory.
func defaultReadRoots(scriptFile string) []string {
	var roots []string
	if scriptFile != "" {
		if abs, err := filepath.Abs(scriptFile); err == nil {
			roots = append(roots, filepath.Dir(abs))
		}
	}
	if cwd, err := os.Getwd(); err == nil && (len(roots) == 0 || roots[0] != cwd) {
		roots = append(roots, cwd)
	}
	return roots
}

func showVersion() {
	fmt.Fprintf(os.Stdout, "Qabalah Language Interpreter %s\n", version)
	fmt.Fprintf(os.Stdout, "License GPLv2+: GNU GPL version 2 or later <http://gnu.org/licenses/gpl.html>\n")
	fmt.Fprintf(os.Stdout, "This is free software: you are free to change and redistribute it.\n")
	fmt.Fprintf(os.Stdout, "There is NO WARRANTY, to the extent permitted by law.\n")
}

func showUsage() {
	usage := `Usage: q [OPTIONS] [FILENAME]
       q [OPTIONS] < input.q
       echo "code" | q [OPTIONS]

Execute Q-code from a file, stdin, or interactively.

Options:
  -d, --debug          Execute with debugging
  --verbose            Verbose output
  -v, --version        Show program version
  -h, --help           Show this message
  --config FILE        Configuration file (default: ~/.q/config.yaml)
  --stack N            Frame stack depth (default: 55)
  --read-roots DIRS    Directories the include operator may read
  --unrestricted       Allow includes from anywhere

Input lines "eof" or "run" end the script; "exit" or "quit" leave
without running it. Interactive mode also knows "show" and "help".
`
	fmt.Fprint(os.Stderr, usage)
}
