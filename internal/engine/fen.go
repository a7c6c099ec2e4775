package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewGameFromFEN creates a game from a FEN string. Castling letters mark
// which rooks are still unmoved, the en-passant square marks the pawn that
// has just advanced, and the fullmove number sets the ply counter. The
// halfmove clock is accepted and ignored.
func NewGameFromFEN(fen string, opts ...Option) (*Game, error) {
	pos, ply, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return newGame(pos, ply, opts), nil
}

// ParseFEN builds a position from a FEN string and returns it with the ply
// counter the FEN implies.
func ParseFEN(fen string) (*Position, int, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return nil, 0, fmt.Errorf("empty FEN string: %w", errors.ErrInvalidFEN)
	}

	board, err := parsePiecePositions(parts[0])
	if err != nil {
		return nil, 0, err
	}

	toMove, err := parseSideToMove(parts)
	if err != nil {
		return nil, 0, err
	}

	pos := &Position{Board: board, Castling: NewCastlingRights(board), EnPassant: chess.NoPiece}

	if err := parseCastlingRights(pos, parts); err != nil {
		return nil, 0, err
	}
	if err := parseEnPassant(pos, toMove, parts); err != nil {
		return nil, 0, err
	}
	ply, err := parseClocks(toMove, parts)
	if err != nil {
		return nil, 0, err
	}

	if InCheck(pos, toMove.Opposite()) {
		return nil, 0, fmt.Errorf("side not to move is in check: %w", errors.ErrInvalidFEN)
	}
	return pos, ply, nil
}

// parsePiecePositions parses the piece placement field. Pieces are placed
// from rank 1 upwards, a-file first, so the starting position gets the same
// indices as Board.SetupInitialPosition.
func parsePiecePositions(positions string) (*chess.Board, error) {
	rows := strings.Split(positions, "/")
	if len(rows) != chess.BoardSize {
		return nil, fmt.Errorf("want %d ranks, got %d: %w", chess.BoardSize, len(rows), errors.ErrInvalidFEN)
	}

	var grid [chess.BoardSize][chess.BoardSize]byte
	for i, row := range rows {
		rank := chess.BoardSize - 1 - i
		file := 0
		for _, c := range row {
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			default:
				if c > unicode.MaxASCII || chess.ArchetypeFromLetter(byte(c)) == chess.NoArchetype {
					return nil, fmt.Errorf("invalid piece character: %c: %w", c, errors.ErrInvalidFEN)
				}
				if file >= chess.BoardSize {
					return nil, fmt.Errorf("position out of bounds: %w", errors.ErrInvalidFEN)
				}
				grid[rank][file] = byte(c)
				file++
			}
		}
		if file != chess.BoardSize {
			return nil, fmt.Errorf("rank %d has %d files: %w", rank+1, file, errors.ErrInvalidFEN)
		}
	}

	board := chess.NewBoard()
	var kings [2]int
	for rank := 0; rank < chess.BoardSize; rank++ {
		for file := 0; file < chess.BoardSize; file++ {
			c := grid[rank][file]
			if c == 0 {
				continue
			}
			colour := chess.White
			if unicode.IsLower(rune(c)) {
				colour = chess.Black
			}
			kind := chess.ArchetypeFromLetter(c)
			if kind == chess.Pawn && (rank == 0 || rank == chess.BoardSize-1) {
				return nil, fmt.Errorf("pawn on back rank %s: %w", chess.Sq(file, rank), errors.ErrInvalidFEN)
			}
			if kind == chess.King {
				kings[colour]++
			}
			board.Place(colour, kind, chess.Sq(file, rank))
		}
	}
	if kings[chess.White] != 1 || kings[chess.Black] != 1 {
		return nil, fmt.Errorf("want one king per side: %w", errors.ErrInvalidFEN)
	}
	return board, nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(parts []string) (chess.Colour, error) {
	if len(parts) < 2 {
		return chess.White, nil
	}
	switch parts[1] {
	case "w":
		return chess.White, nil
	case "b":
		return chess.Black, nil
	}
	return chess.White, fmt.Errorf("invalid side to move: %s: %w", parts[1], errors.ErrInvalidFEN)
}

// parseCastlingRights revokes every right the castling field leaves out.
// A side with neither right is treated as having moved its king.
func parseCastlingRights(pos *Position, parts []string) error {
	field := "-"
	if len(parts) >= 3 {
		field = parts[2]
	}

	var keep [2][2]bool
	if field != "-" {
		for _, c := range field {
			switch c {
			case 'K':
				keep[chess.White][KingSide] = true
			case 'Q':
				keep[chess.White][QueenSide] = true
			case 'k':
				keep[chess.Black][KingSide] = true
			case 'q':
				keep[chess.Black][QueenSide] = true
			default:
				return fmt.Errorf("invalid castling character: %c: %w", c, errors.ErrInvalidFEN)
			}
		}
	}

	for _, colour := range []chess.Colour{chess.White, chess.Black} {
		for _, wing := range []Wing{QueenSide, KingSide} {
			if !keep[colour][wing] {
				pos.Castling.Revoke(colour, wing)
				continue
			}
			if !pos.Castling.Available(colour, wing) {
				return fmt.Errorf("castling right %s %s without king and rook at home: %w",
					colour, wing, errors.ErrInvalidFEN)
			}
		}
		if !keep[colour][QueenSide] && !keep[colour][KingSide] {
			pos.Castling.KingMoved[colour] = true
		}
	}
	return nil
}

// parseEnPassant parses the en passant target square field and records the
// pawn that made the double advance.
func parseEnPassant(pos *Position, toMove chess.Colour, parts []string) error {
	if len(parts) < 4 || parts[3] == "-" {
		return nil
	}
	sq, err := chess.ParseSquare(parts[3])
	if err != nil {
		return fmt.Errorf("en passant square: %v: %w", err, errors.ErrInvalidFEN)
	}

	mover := toMove.Opposite()
	if sq.Rank != chess.PawnRank(mover)+chess.ColourOffset(mover) {
		return fmt.Errorf("en passant square %s on wrong rank: %w", sq, errors.ErrInvalidFEN)
	}
	pawn, ok := pos.Board.PieceAt(sq.Offset(0, chess.ColourOffset(mover)))
	if !ok || pawn.Kind != chess.Pawn || pawn.Colour != mover {
		return fmt.Errorf("no pawn passed through %s: %w", sq, errors.ErrInvalidFEN)
	}
	pos.EnPassant = pawn.Index
	return nil
}

// parseClocks validates the halfmove clock and turns the fullmove number
// into a ply counter.
func parseClocks(toMove chess.Colour, parts []string) (int, error) {
	if len(parts) >= 5 {
		if n, err := strconv.Atoi(parts[4]); err != nil || n < 0 {
			return 0, fmt.Errorf("invalid halfmove clock: %s: %w", parts[4], errors.ErrInvalidFEN)
		}
	}
	fullmove := 1
	if len(parts) >= 6 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid fullmove number: %s: %w", parts[5], errors.ErrInvalidFEN)
		}
		fullmove = n
	}
	ply := 2 * (fullmove - 1)
	if toMove == chess.Black {
		ply++
	}
	return ply, nil
}

// FEN returns the FEN string of the live position. The halfmove clock is
// always written as 0.
func (g *Game) FEN() string {
	return PositionToFEN(g.pos, g.ToMove(), g.ply/2+1)
}

// PositionToFEN converts a position to a FEN string.
func PositionToFEN(pos *Position, toMove chess.Colour, fullmove int) string {
	var sb strings.Builder

	writePiecePositions(&sb, pos.Board)
	sb.WriteByte(' ')
	writeSideToMove(&sb, toMove)
	sb.WriteByte(' ')
	writeCastlingRights(&sb, pos.Castling)
	sb.WriteByte(' ')
	writeEnPassant(&sb, pos)
	sb.WriteByte(' ')
	fmt.Fprintf(&sb, "0 %d", fullmove)

	return sb.String()
}

// colouredLetter returns the FEN letter of a piece: uppercase for White.
func colouredLetter(p chess.Piece) byte {
	letter := p.Kind.Letter()
	if p.Colour == chess.Black {
		letter = byte(unicode.ToLower(rune(letter)))
	}
	return letter
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, board *chess.Board) {
	for rank := chess.BoardSize - 1; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < chess.BoardSize; file++ {
			p, ok := board.PieceAt(chess.Sq(file, rank))
			if !ok {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(colouredLetter(p))
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
}

// writeSideToMove writes the side to move to the builder.
func writeSideToMove(sb *strings.Builder, toMove chess.Colour) {
	if toMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
}

// writeCastlingRights writes the castling availability to the builder.
func writeCastlingRights(sb *strings.Builder, cr CastlingRights) {
	hasCastling := false
	for _, r := range []struct {
		colour chess.Colour
		wing   Wing
		letter byte
	}{
		{chess.White, KingSide, 'K'},
		{chess.White, QueenSide, 'Q'},
		{chess.Black, KingSide, 'k'},
		{chess.Black, QueenSide, 'q'},
	} {
		if cr.Available(r.colour, r.wing) {
			sb.WriteByte(r.letter)
			hasCastling = true
		}
	}
	if !hasCastling {
		sb.WriteByte('-')
	}
}

// writeEnPassant writes the en passant target square to the builder.
func writeEnPassant(sb *strings.Builder, pos *Position) {
	sq := pos.EnPassantSquare()
	if !sq.Valid() {
		sb.WriteByte('-')
		return
	}
	sb.WriteString(sq.String())
}
