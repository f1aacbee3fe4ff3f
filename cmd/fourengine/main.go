// Command fourengine is the thin external-collaborator CLI over the
// solver core: solve, test, generate-book and the interactive REPL. All
// game-theoretic logic lives in the engine and internal packages; this
// file only parses input and formats output.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/oliverans/fourengine/internal/cli"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	code, err := cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}
