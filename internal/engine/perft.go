package engine

import (
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/hashing"
	"github.com/lgbarn/chess-rules-go/internal/worker"
)

// promotionChoices are the archetypes a promoting pawn may become.
var promotionChoices = []chess.Archetype{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

// Perft counts the leaf nodes of the legal move tree to the given depth
// from the game's current position. Each promotion counts once per choice.
// Only the absence of legal moves ends a line; the kings-only rule and
// the game's own terminal state are not consulted.
func Perft(g *Game, depth int) int64 {
	if depth <= 0 {
		return 1
	}
	return perft(g.pos, g.ToMove(), depth)
}

func perft(pos *Position, toMove chess.Colour, depth int) int64 {
	moves := AllLegalMoves(pos, toMove)
	if depth == 1 {
		var n int64
		for _, m := range moves {
			n += int64(len(choicesFor(m)))
		}
		return n
	}

	var nodes int64
	for _, m := range moves {
		for _, kind := range choicesFor(m) {
			nodes += perft(child(pos, m, kind), toMove.Opposite(), depth-1)
		}
	}
	return nodes
}

// choicesFor returns the promotion choices of m, or a single NoArchetype
// entry for an ordinary move.
func choicesFor(m Move) []chess.Archetype {
	if m.Promotion {
		return promotionChoices
	}
	return []chess.Archetype{chess.NoArchetype}
}

// child plays m on a copy of pos, promoting to kind when m promotes.
func child(pos *Position, m Move, kind chess.Archetype) *Position {
	next := pos.Copy()
	next.play(m)
	if m.Promotion {
		next.Board.SetKind(m.Piece, kind)
	}
	return next
}

// DivideEntry is the node count below one root move.
type DivideEntry struct {
	Move  string `json:"move"`
	Nodes int64  `json:"nodes"`
}

// Divide runs Perft separately below each root move, spreading the root
// moves over workers goroutines. Entries are in generator order and
// promotions are written with a lowercase suffix, such as "e7e8q".
func Divide(g *Game, depth, workers int) []DivideEntry {
	if depth <= 0 {
		return nil
	}

	roots := rootMoves(g.pos, g.ToMove())
	pos, toMove := g.pos, g.ToMove()
	return worker.Map(roots, func(r root) DivideEntry {
		name := r.move.String()
		if r.kind != chess.NoArchetype {
			name += strings.ToLower(string(r.kind.Letter()))
		}
		nodes := int64(1)
		if depth > 1 {
			nodes = perft(child(pos, r.move, r.kind), toMove.Opposite(), depth-1)
		}
		return DivideEntry{Move: name, Nodes: nodes}
	}, worker.WithWorkers(workers))
}

// root is one move from the root position with its promotion choice.
type root struct {
	move Move
	kind chess.Archetype
}

func rootMoves(pos *Position, toMove chess.Colour) []root {
	var roots []root
	for _, m := range AllLegalMoves(pos, toMove) {
		for _, kind := range choicesFor(m) {
			roots = append(roots, root{move: m, kind: kind})
		}
	}
	return roots
}

// DistinctPositions adds the key of every position exactly depth plies
// below the game's current position to counter, spreading the root moves
// over workers goroutines. Each root fills its own Counter, which is merged
// into counter once the subtree is done. Keys distinguish the en-passant
// file after any double advance, so transpositions differing only there
// count twice.
func DistinctPositions(g *Game, depth, workers int, counter *hashing.ThreadSafeCounter) {
	pos, toMove := g.pos, g.ToMove()
	if depth <= 0 {
		counter.Add(PositionKey(pos, toMove))
		return
	}
	worker.Map(rootMoves(pos, toMove), func(r root) struct{} {
		local := hashing.NewCounter()
		collectKeys(child(pos, r.move, r.kind), toMove.Opposite(), depth-1, local)
		counter.Merge(local)
		return struct{}{}
	}, worker.WithWorkers(workers))
}

func collectKeys(pos *Position, toMove chess.Colour, depth int, counter *hashing.Counter) {
	if depth == 0 {
		counter.Add(PositionKey(pos, toMove))
		return
	}
	for _, m := range AllLegalMoves(pos, toMove) {
		for _, kind := range choicesFor(m) {
			collectKeys(child(pos, m, kind), toMove.Opposite(), depth-1, counter)
		}
	}
}
