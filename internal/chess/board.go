package chess

import "golang.org/x/exp/slices"

// PieceIndex is the permanent identity of a piece, assigned when it is placed.
// It never changes, even when the piece is captured or promoted.
type PieceIndex int

// NoPiece is the zero identity: no piece.
const NoPiece PieceIndex = -1

// Piece is one entry in the board's arena.
type Piece struct {
	Index  PieceIndex `json:"index"`
	Kind   Archetype  `json:"kind"`
	Colour Colour     `json:"colour"`
	Square Square     `json:"square"`
}

// Alive reports whether the piece is still in play.
func (p Piece) Alive() bool {
	return p.Square.Valid()
}

// Board represents the pieces in play and the squares they occupy.
// The zero value is not usable; call NewBoard.
type Board struct {
	// Every piece ever placed, addressed by PieceIndex. Captured pieces stay
	// here with an Offboard square so their identity persists.
	pieces []Piece

	// grid[file][rank] holds the occupant's index or NoPiece.
	grid [BoardSize][BoardSize]PieceIndex
}

// NewBoard creates a new empty board.
func NewBoard() *Board {
	b := &Board{}
	b.clear()
	return b
}

func (b *Board) clear() {
	b.pieces = b.pieces[:0]
	for f := 0; f < BoardSize; f++ {
		for r := 0; r < BoardSize; r++ {
			b.grid[f][r] = NoPiece
		}
	}
}

// backRank is the fixed starting order from the a-file to the h-file.
var backRank = [BoardSize]Archetype{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// SetupInitialPosition clears the board and places the standard starting
// arrangement. Indices are assigned in a fixed order: White's back rank,
// White's pawns, Black's pawns, Black's back rank, each from the a-file.
func (b *Board) SetupInitialPosition() {
	b.clear()
	for f := 0; f < BoardSize; f++ {
		b.Place(White, backRank[f], Sq(f, HomeRank(White)))
	}
	for f := 0; f < BoardSize; f++ {
		b.Place(White, Pawn, Sq(f, PawnRank(White)))
	}
	for f := 0; f < BoardSize; f++ {
		b.Place(Black, Pawn, Sq(f, PawnRank(Black)))
	}
	for f := 0; f < BoardSize; f++ {
		b.Place(Black, backRank[f], Sq(f, HomeRank(Black)))
	}
}

// Place adds a new piece to the arena and returns its index. It returns
// NoPiece if the square is off the board or already occupied.
func (b *Board) Place(colour Colour, kind Archetype, sq Square) PieceIndex {
	if !sq.Valid() || b.IsOccupied(sq) {
		return NoPiece
	}
	idx := PieceIndex(len(b.pieces))
	b.pieces = append(b.pieces, Piece{Index: idx, Kind: kind, Colour: colour, Square: sq})
	b.grid[sq.File][sq.Rank] = idx
	return idx
}

// Piece returns the piece with the given index, alive or captured.
func (b *Board) Piece(idx PieceIndex) (Piece, bool) {
	if idx < 0 || int(idx) >= len(b.pieces) {
		return Piece{}, false
	}
	return b.pieces[idx], true
}

// PieceAt returns the occupant of sq, if any.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	idx := b.grid[sq.File][sq.Rank]
	if idx == NoPiece {
		return Piece{}, false
	}
	return b.pieces[idx], true
}

// IsOccupied reports whether any piece stands on sq.
func (b *Board) IsOccupied(sq Square) bool {
	return sq.Valid() && b.grid[sq.File][sq.Rank] != NoPiece
}

// PiecesOf lists the live pieces of a colour in index order, optionally
// restricted to the given archetypes.
func (b *Board) PiecesOf(colour Colour, kinds ...Archetype) []Piece {
	var out []Piece
	for _, p := range b.pieces {
		if !p.Alive() || p.Colour != colour {
			continue
		}
		if len(kinds) > 0 && !slices.Contains(kinds, p.Kind) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Live lists every piece still in play in index order.
func (b *Board) Live() []Piece {
	var out []Piece
	for _, p := range b.pieces {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// Pieces returns a copy of the whole arena, including captured pieces.
func (b *Board) Pieces() []Piece {
	return slices.Clone(b.pieces)
}

// King returns the live king of the given colour.
func (b *Board) King(colour Colour) (Piece, bool) {
	for _, p := range b.pieces {
		if p.Alive() && p.Colour == colour && p.Kind == King {
			return p, true
		}
	}
	return Piece{}, false
}

// Move relocates a live piece to sq. If another piece stood on sq it is
// taken off the board and its index is returned; otherwise NoPiece. No
// legality checking is done here.
func (b *Board) Move(idx PieceIndex, to Square) PieceIndex {
	p, ok := b.Piece(idx)
	if !ok || !p.Alive() || !to.Valid() {
		return NoPiece
	}
	captured := b.grid[to.File][to.Rank]
	if captured == idx {
		return NoPiece
	}
	if captured != NoPiece {
		b.pieces[captured].Square = Offboard
	}
	b.grid[p.Square.File][p.Square.Rank] = NoPiece
	b.grid[to.File][to.Rank] = idx
	b.pieces[idx].Square = to
	return captured
}

// Remove takes a live piece off the board.
func (b *Board) Remove(idx PieceIndex) bool {
	p, ok := b.Piece(idx)
	if !ok || !p.Alive() {
		return false
	}
	b.grid[p.Square.File][p.Square.Rank] = NoPiece
	b.pieces[idx].Square = Offboard
	return true
}

// SetKind replaces a piece's archetype in place; index, colour and square
// are preserved.
func (b *Board) SetKind(idx PieceIndex, kind Archetype) bool {
	if idx < 0 || int(idx) >= len(b.pieces) {
		return false
	}
	b.pieces[idx].Kind = kind
	return true
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	return &Board{
		pieces: slices.Clone(b.pieces),
		grid:   b.grid,
	}
}

// Equal reports whether two boards hold the same arena and occupancy.
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	return b.grid == other.grid && slices.Equal(b.pieces, other.pieces)
}
