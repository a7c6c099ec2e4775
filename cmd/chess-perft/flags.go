// flags.go - Command-line flag definitions
package main

import (
	"flag"

	"github.com/lgbarn/chess-rules-go/internal/engine"
)

var (
	// Search options
	fen     = flag.String("fen", engine.InitialFEN, "Position to search from")
	depth   = flag.Int("depth", 3, "Search depth in plies")
	workers = flag.Int("workers", 1, "Goroutines used to search the root moves")

	// Output options
	divide   = flag.Bool("divide", false, "Print the node count below each root move")
	distinct = flag.Bool("distinct", false, "Also count distinct positions at the leaves")
	verify   = flag.Bool("verify", false, "Cross-check the node count against dragontoothmg")
	timing   = flag.Bool("time", false, "Print the elapsed time")

	// Informational
	version = flag.Bool("version", false, "Print version and exit")
	help    = flag.Bool("h", false, "Show help")
)

// optionsFromFlags collects the parsed flags into run options.
func optionsFromFlags() runOptions {
	return runOptions{
		fen:      *fen,
		depth:    *depth,
		workers:  *workers,
		divide:   *divide,
		distinct: *distinct,
		verify:   *verify,
		timing:   *timing,
	}
}
