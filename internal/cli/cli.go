// Package cli implements the fourengine command-line surface: solve,
// test, generate-book, and an interactive REPL that is the default when
// no subcommand is given. It is intentionally a thin external
// collaborator over engine.Engine — no search or book logic lives here.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/oliverans/fourengine/engine"
	"github.com/oliverans/fourengine/internal/book"
	"github.com/oliverans/fourengine/internal/tt"
)

// ErrIO is the sentinel every *IOError wraps, letting callers identify a
// filesystem failure without parsing the message.
var ErrIO = errors.New("fourengine: I/O failure")

// IOError reports a filesystem failure encountered while opening,
// creating or reading a book or test-set file. Op names the attempted
// action ("open", "create", "read") and Err is the underlying os/bufio
// error, still reachable via Unwrap for errors.Is/As against it.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("fourengine: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// Run dispatches to the requested subcommand and returns the process exit
// code alongside any fatal error (already unwrapped for the caller to
// print). A non-nil error always implies a non-zero code; some non-zero
// codes (test-set mismatches) carry no error, since a mismatch is a
// result, not a failure.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	if len(args) == 0 {
		return runInteractive(nil, stdin, stdout, stderr)
	}

	switch args[0] {
	case "solve":
		return runSolve(args[1:], stdout)
	case "test":
		return runTest(args[1:], stdout)
	case "generate-book":
		return runGenerateBook(args[1:], stdout)
	case "interactive":
		return runInteractive(args[1:], stdin, stdout, stderr)
	default:
		// No recognized subcommand: treat the whole argument list as
		// interactive-mode flags, matching "interactive (default when
		// no subcommand is given)".
		return runInteractive(args, stdin, stdout, stderr)
	}
}

func runSolve(args []string, stdout io.Writer) (int, error) {
	fs := pflag.NewFlagSet("solve", pflag.ContinueOnError)
	ttSize := fs.Int("tt-size", tt.DefaultSize, "transposition table size (entries)")
	if err := fs.Parse(args); err != nil {
		return 2, err
	}
	variation := ""
	if fs.NArg() > 0 {
		variation = fs.Arg(0)
	}

	e := engine.NewWithTableSize(*ttSize)
	sol, err := e.SolveVariation(variation)
	if err != nil {
		return 1, err
	}
	fmt.Fprintf(stdout, "score %d\nwork_count %d\nduration_seconds %.6f\nnps %.0f\n",
		sol.Score, sol.WorkCount, sol.DurationSeconds, sol.NPS())
	return 0, nil
}

func runTest(args []string, stdout io.Writer) (int, error) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	ttSize := fs.Int("tt-size", tt.DefaultSize, "transposition table size (entries)")
	if err := fs.Parse(args); err != nil {
		return 2, err
	}
	if fs.NArg() != 1 {
		return 2, errors.New("fourengine: test requires exactly one path argument")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return 2, &IOError{Op: "open", Path: fs.Arg(0), Err: err}
	}
	defer f.Close()

	e := engine.NewWithTableSize(*ttSize)

	var total, mismatches int
	var totalWork uint64
	start := time.Now()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != 2 {
			return 2, fmt.Errorf("fourengine: test set line %d: malformed line %q", lineNo, line)
		}
		variation := fields[0]
		want, err := strconv.Atoi(fields[1])
		if err != nil {
			return 2, fmt.Errorf("fourengine: test set line %d: bad expected score %q", lineNo, fields[1])
		}

		sol, err := e.SolveVariation(variation)
		if err != nil {
			return 2, fmt.Errorf("fourengine: test set line %d: %w", lineNo, err)
		}
		total++
		totalWork += sol.WorkCount
		if sol.Score != want {
			mismatches++
			fmt.Fprintf(stdout, "MISMATCH line %d: %s got %d want %d\n", lineNo, variation, sol.Score, want)
		}
	}
	if err := scanner.Err(); err != nil {
		return 2, &IOError{Op: "read", Path: fs.Arg(0), Err: err}
	}

	elapsed := time.Since(start).Seconds()
	nps := float64(0)
	if elapsed > 0 {
		nps = float64(totalWork) / elapsed
	}
	fmt.Fprintf(stdout, "%d/%d passed, work_count=%d duration_seconds=%.3f nps=%.0f\n",
		total-mismatches, total, totalWork, elapsed, nps)

	if mismatches > 0 {
		return 1, nil
	}
	return 0, nil
}

func runGenerateBook(args []string, stdout io.Writer) (int, error) {
	fs := pflag.NewFlagSet("generate-book", pflag.ContinueOnError)
	ply := fs.Int("ply", 8, "ply depth to enumerate")
	out := fs.String("out", "", "output path (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return 2, err
	}

	e := engine.New()

	var w io.Writer = stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return 2, &IOError{Op: "create", Path: *out, Err: err}
		}
		defer f.Close()
		w = f
	}

	n, err := book.Generate(w, *ply, e)
	if err != nil {
		return 2, err
	}
	log.Info().Int("entries", n).Int("ply", *ply).Msg("generate-book done")
	return 0, nil
}

func runInteractive(args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	fs := pflag.NewFlagSet("interactive", pflag.ContinueOnError)
	noBook := fs.Bool("no-book", false, "disable automatic book loading")
	bookPath := fs.String("book", "", "opening book path")
	bookDepth := fs.Int("book-depth", 8, "ply depth the book was generated at")
	ttSize := fs.Int("tt-size", tt.DefaultSize, "transposition table size (entries)")
	if err := fs.Parse(args); err != nil {
		return 2, err
	}

	e := engine.NewWithTableSize(*ttSize)

	if !*noBook && *bookPath != "" {
		f, err := os.Open(*bookPath)
		if err != nil {
			// Book load errors in interactive mode degrade to "no book"
			// with a warning rather than aborting the session.
			ioErr := &IOError{Op: "open", Path: *bookPath, Err: err}
			fmt.Fprintf(stderr, "warning: %v (continuing without a book)\n", ioErr)
		} else {
			b, err := book.Load(f)
			f.Close()
			if err != nil {
				fmt.Fprintf(stderr, "warning: could not load book %q: %v (continuing without a book)\n", *bookPath, err)
			} else {
				e.SetBook(b, *bookDepth)
			}
		}
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		variation := strings.TrimSpace(scanner.Text())
		if variation == "" {
			continue
		}
		sol, err := e.SolveVariation(variation)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(stdout, "%s -> score %d work_count %d duration_seconds %.6f\n",
			variation, sol.Score, sol.WorkCount, sol.DurationSeconds)
	}
	if err := scanner.Err(); err != nil {
		return 2, &IOError{Op: "read", Path: "stdin", Err: err}
	}
	return 0, nil
}
