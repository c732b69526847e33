// Command sofcheck-uci runs the engine as a UCI chess engine, speaking the
// protocol over stdin/stdout.
package main

import (
	"flag"
	stdlog "log"
	"os"

	"github.com/go-logr/stdr"

	"github.com/alex65536/sofcheck-sub000/internal/engine"
	"github.com/alex65536/sofcheck-sub000/internal/uci"
)

var debugLog = flag.Bool("debug-log", false, "enable verbose diagnostic logging to stderr")

func main() {
	flag.Parse()

	if *debugLog {
		stdr.SetVerbosity(1)
	}
	log := stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags))

	eng := engine.NewEngine(log)
	protocol := uci.New(eng, log)
	os.Exit(protocol.Run())
}
