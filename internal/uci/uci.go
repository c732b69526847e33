// Package uci implements the Universal Chess Interface protocol: a
// line-oriented text loop over stdin/stdout that drives an engine.Engine.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/alex65536/sofcheck-sub000/internal/board"
	"github.com/alex65536/sofcheck-sub000/internal/engine"
	"github.com/alex65536/sofcheck-sub000/internal/search"
)

// UCI holds the protocol loop's mutable state: the engine it drives, the
// current position, and the position's setup-history hashes used for
// repetition detection and TT-epoch diffing.
type UCI struct {
	eng *engine.Engine
	log logr.Logger

	position       *board.Board
	positionHashes []uint64

	searching  bool
	searchDone chan struct{}
}

// New returns a protocol handler for eng. A nil logger falls back to
// logr.Discard().
func New(eng *engine.Engine, log logr.Logger) *UCI {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	pos := board.NewBoard()
	return &UCI{
		eng:            eng,
		log:            log,
		position:       pos,
		positionHashes: []uint64{pos.Hash},
	}
}

// Run reads commands from stdin until "quit" or EOF, returning the process
// exit code.
func (u *UCI) Run() int {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "debug":
			u.handleDebug(args)
		case "isready":
			fmt.Println("readyok")
		case "setoption":
			u.handleSetOption(args)
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return 0
		default:
			u.log.V(1).Info("ignoring unrecognized command", "line", line)
		}
	}
	u.handleStop()
	return 0
}

func (u *UCI) handleUCI() {
	fmt.Println("id name SoFCheck")
	fmt.Println("id author the SoFCheck authors")
	fmt.Println("option name Hash type spin default 32 min 1 max 131072")
	fmt.Println("option name Threads type spin default 1 min 1 max 512")
	fmt.Println("option name Clear hash type button")
	fmt.Println("uciok")
}

func (u *UCI) handleDebug(args []string) {
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "on":
		u.eng.SetDebugMode(true)
	case "off":
		u.eng.SetDebugMode(false)
	}
}

// handleSetOption parses "setoption name <N> [value <V>]". Option names
// may contain spaces (e.g. "Clear hash"); matching is case-sensitive, per
// the option names as advertised by handleUCI.
func (u *UCI) handleSetOption(args []string) {
	var name, value strings.Builder
	target := &name
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
			name.Reset()
		case "value":
			target = &value
			value.Reset()
		default:
			if target.Len() > 0 {
				target.WriteByte(' ')
			}
			target.WriteString(arg)
		}
	}

	switch name.String() {
	case "Hash":
		mib, err := strconv.Atoi(value.String())
		if err != nil {
			u.log.Info("invalid Hash value", "value", value.String())
			return
		}
		u.eng.SetHashSize(mib)
	case "Threads":
		n, err := strconv.Atoi(value.String())
		if err != nil {
			u.log.Info("invalid Threads value", "value", value.String())
			return
		}
		u.eng.SetNumJobs(n)
	case "Clear hash":
		u.eng.ClearHash()
	default:
		u.log.V(1).Info("unknown option", "name", name.String())
	}
}

func (u *UCI) handleNewGame() {
	u.eng.NewGame()
	u.position = board.NewBoard()
	u.positionHashes = []uint64{u.position.Hash}
}

// handlePosition parses "position (startpos | fen <FEN>) [moves ...]".
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.Board
	var moveStart int

	switch args[0] {
	case "startpos":
		pos = board.NewBoard()
		moveStart = 1
	case "fen":
		end := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				end = i
				break
			}
		}
		fen := strings.Join(args[1:end], " ")
		parsed, err := board.FromFEN(fen)
		if err != nil {
			u.log.Info("rejecting position: bad FEN", "fen", fen, "error", err)
			fmt.Printf("info string invalid FEN: %v\n", err)
			return
		}
		pos = parsed
		moveStart = end
	default:
		return
	}

	if moveStart < len(args) && args[moveStart] == "moves" {
		moveStart++
	}

	hashes := []uint64{pos.Hash}
	for _, tok := range args[moveStart:] {
		m, err := board.ParseMove(tok, pos)
		if err != nil || !pos.IsMoveValid(m) {
			u.log.Info("rejecting position: bad move", "move", tok)
			fmt.Printf("info string invalid move: %s\n", tok)
			return
		}
		pos.MakeMove(m)
		hashes = append(hashes, pos.Hash)
	}

	u.position = pos
	u.positionHashes = hashes
}

// handleGo parses "go [...]" and starts a search.
func (u *UCI) handleGo(args []string) {
	limits := parseGoLimits(args)

	u.eng.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
	}

	pos := u.position.Copy()
	hashes := append([]uint64(nil), u.positionHashes...)

	u.searching = true
	u.searchDone = make(chan struct{})
	u.eng.Start(pos, hashes, limits)

	go func() {
		defer close(u.searchDone)
		result := u.eng.Join(pos)
		u.searching = false
		fmt.Printf("bestmove %s\n", result.Move.String())
	}()
}

func parseGoLimits(args []string) engine.Limits {
	var limits engine.Limits
	next := func(i int) (string, bool) {
		if i+1 < len(args) {
			return args[i+1], true
		}
		return "", false
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if v, ok := next(i); ok {
				limits.Depth, _ = strconv.Atoi(v)
				i++
			}
		case "nodes":
			if v, ok := next(i); ok {
				n, _ := strconv.ParseUint(v, 10, 64)
				limits.Nodes = n
				i++
			}
		case "movetime":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				limits.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			limits.Infinite = true
		case "wtime":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				limits.Time[board.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				limits.Time[board.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				limits.Inc[board.White] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if v, ok := next(i); ok {
				ms, _ := strconv.Atoi(v)
				limits.Inc[board.Black] = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if v, ok := next(i); ok {
				limits.MovesToGo, _ = strconv.Atoi(v)
				i++
			}
		case "searchmoves", "ponder", "mate":
			// Accepted but not acted upon.
		}
	}
	return limits
}

// mateCutoff is how close to search.MateScore a score must be to be
// reported as "mate N" rather than "cp N".
const mateCutoff = search.MateScore - 100

func (u *UCI) sendInfo(info engine.SearchInfo) {
	var b strings.Builder
	fmt.Fprintf(&b, "info depth %d", info.Depth)

	switch {
	case info.Score > mateCutoff:
		fmt.Fprintf(&b, " score mate %d", (search.MateScore-info.Score+1)/2)
	case info.Score < -mateCutoff:
		fmt.Fprintf(&b, " score mate %d", -(search.MateScore+info.Score+1)/2)
	default:
		fmt.Fprintf(&b, " score cp %d", info.Score)
	}

	fmt.Fprintf(&b, " nodes %d time %d", info.Nodes, info.Time.Milliseconds())
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		fmt.Fprintf(&b, " nps %d", nps)
	}
	if info.HashFull > 0 {
		fmt.Fprintf(&b, " hashfull %d", info.HashFull)
	}
	if len(info.PV) > 0 {
		strs := make([]string, len(info.PV))
		for i, m := range info.PV {
			strs[i] = m.String()
		}
		fmt.Fprintf(&b, " pv %s", strings.Join(strs, " "))
	}
	fmt.Println(b.String())
}

func (u *UCI) handleStop() {
	if !u.searching {
		return
	}
	u.eng.Stop()
	<-u.searchDone
}
