package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"caesar/interpreter-go/pkg/ast"
	"caesar/interpreter-go/pkg/diag"
	"caesar/interpreter-go/pkg/driver"
	"caesar/interpreter-go/pkg/interpreter"
	"caesar/interpreter-go/pkg/lexer"
	"caesar/interpreter-go/pkg/parser"
)

const cliToolVersion = "caesar 1.0.0"

var errManifestNotFound = errors.New(driver.ManifestFileName + " not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-v", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run", "--interpret", "-i":
		return runEntry(args[1:])
	case "tokens", "--tokens", "-t":
		return runTokens(args[1:])
	case "parse", "--parse", "-p":
		return runParse(args[1:])
	case "fetch":
		return runFetch(args[1:])
	case "repl":
		return runRepl(args[1:])
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(os.Stderr, "unknown option: %s\n", args[0])
			printUsage()
			return 2
		}
		return runEntry(args)
	}
}

// gitFlags registers the revision selectors shared by run and fetch.
func gitFlags(fs *flag.FlagSet) *driver.FetchSpec {
	spec := &driver.FetchSpec{}
	fs.StringVar(&spec.Rev, "ref", "", "commit or revision to check out")
	fs.StringVar(&spec.Tag, "tag", "", "tag to check out")
	fs.StringVar(&spec.Branch, "branch", "", "branch to check out")
	return spec
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func runEntry(args []string) int {
	fs := newFlagSet("run")
	gitURL := fs.String("git", "", "fetch the project from this git URL before running")
	spec := gitFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	rest := fs.Args()
	if len(rest) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(rest[1:], " "))
		return 1
	}

	if *gitURL != "" {
		spec.URL = *gitURL
		checkout, err := fetchProject(*spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
			return 1
		}
		if checkout.Manifest == nil {
			fmt.Fprintf(os.Stderr, "%s has no %s\n", *gitURL, driver.ManifestFileName)
			return 1
		}
		return runTarget(checkout.Manifest, rest)
	}

	if len(rest) == 0 {
		manifest, err := loadManifestFrom(".")
		if err != nil {
			if errors.Is(err, errManifestNotFound) {
				fmt.Fprintf(os.Stderr, "caesar run requires a target or source file (%s not found)\n", driver.ManifestFileName)
			} else {
				fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			}
			return 1
		}
		return runTarget(manifest, nil)
	}

	candidate := rest[0]
	if !looksLikePathCandidate(candidate) {
		manifest, err := loadManifestFrom(".")
		switch {
		case err == nil:
			if _, ok := manifest.FindTarget(candidate); ok {
				return runTarget(manifest, rest)
			}
		case !errors.Is(err, errManifestNotFound):
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			return 1
		}
	}
	return executeFile(candidate)
}

// runTarget executes the named target of manifest, or its default target when
// names is empty.
func runTarget(manifest *driver.Manifest, names []string) int {
	var target *driver.TargetSpec
	if len(names) > 0 {
		found, ok := manifest.FindTarget(names[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "manifest %s has no target %q\n", manifest.Path, names[0])
			return 1
		}
		target = found
	} else {
		found, err := manifest.DefaultTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
		target = found
	}
	entryPath, err := manifest.MainPath(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve target %q: %v\n", target.OriginalName, err)
		return 1
	}
	return executeFile(entryPath)
}

func executeFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open file '%s': %v\n", path, err)
		return 1
	}
	program, err := parser.ParseSource(string(source))
	if err != nil {
		reportError(os.Stderr, path, string(source), err)
		return 1
	}
	interp := interpreter.New(interpreter.WithOutput(os.Stdout))
	if _, err := interp.Run(program); err != nil {
		reportError(os.Stderr, path, string(source), err)
		return 1
	}
	return 0
}

func runTokens(args []string) int {
	path, source, ok := readSingleFile("tokens", args)
	if !ok {
		return 1
	}
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		reportError(os.Stderr, path, source, err)
		return 1
	}
	for _, tok := range tokens {
		fmt.Fprintln(os.Stdout, tok.String())
	}
	return 0
}

func runParse(args []string) int {
	path, source, ok := readSingleFile("parse", args)
	if !ok {
		return 1
	}
	program, err := parser.ParseSource(source)
	if err != nil {
		reportError(os.Stderr, path, source, err)
		return 1
	}
	if len(program.Body) > 0 {
		fmt.Fprintln(os.Stdout, ast.Dump(program))
	}
	return 0
}

func readSingleFile(command string, args []string) (string, string, bool) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "caesar %s requires exactly one source file\n", command)
		return "", "", false
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open file '%s': %v\n", args[0], err)
		return "", "", false
	}
	return args[0], string(source), true
}

func runFetch(args []string) int {
	fs := newFlagSet("fetch")
	spec := gitFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "caesar fetch requires exactly one git URL")
		return 1
	}
	spec.URL = fs.Arg(0)
	checkout, err := fetchProject(*spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, checkout.Dir)
	return 0
}

func fetchProject(spec driver.FetchSpec) (*driver.Checkout, error) {
	home, err := resolveCaesarHome()
	if err != nil {
		return nil, err
	}
	return driver.NewFetcher(home).Fetch(spec)
}

// reportError prints a diagnostic followed by the offending source line.
func reportError(w io.Writer, name, source string, err error) {
	fmt.Fprintln(w, diag.Render(err))
	pos, ok := diag.PositionOf(err)
	if !ok {
		return
	}
	if snippet := diag.Snippet(source, pos); snippet != "" {
		fmt.Fprintf(w, "  --> %s:%s\n", name, pos)
		fmt.Fprint(w, snippet)
	}
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := findManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.ContainsAny(arg, `/\`) || strings.HasSuffix(arg, ".csr") {
		return true
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return true
	}
	return false
}

func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, driver.ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", driver.ManifestFileName, origin, errManifestNotFound)
		}
		dir = parent
	}
}

func resolveCaesarHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("CAESAR_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve CAESAR_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".caesar"), nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  caesar run [target]")
	fmt.Fprintln(os.Stderr, "  caesar run <file.csr>")
	fmt.Fprintln(os.Stderr, "  caesar run --git <url> [--ref REV | --tag TAG | --branch BRANCH] [target]")
	fmt.Fprintln(os.Stderr, "  caesar <file.csr>")
	fmt.Fprintln(os.Stderr, "  caesar tokens <file.csr>")
	fmt.Fprintln(os.Stderr, "  caesar parse <file.csr>")
	fmt.Fprintln(os.Stderr, "  caesar fetch [--ref REV | --tag TAG | --branch BRANCH] <url>")
	fmt.Fprintln(os.Stderr, "  caesar repl")
	fmt.Fprintln(os.Stderr, "  caesar --version")
}
