// Package chess provides the board model: colours, piece archetypes, squares
// and the arena of pieces that make up a position.
package chess

import (
	"fmt"
	"math/bits"
	"strings"
)

// Colour represents the colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// ColourOffset returns +1 for White, -1 for Black (for pawn direction).
func ColourOffset(colour Colour) int {
	if colour == White {
		return 1
	}
	return -1
}

// HomeRank is the back rank on which a side's pieces start.
func HomeRank(colour Colour) int {
	if colour == White {
		return 0
	}
	return BoardSize - 1
}

// PawnRank is the rank a side's pawns start on.
func PawnRank(colour Colour) int {
	return HomeRank(colour) + ColourOffset(colour)
}

// PromotionRank is the far rank on which a side's pawns promote.
func PromotionRank(colour Colour) int {
	return HomeRank(colour.Opposite())
}

// Archetype is one of the six piece kinds.
type Archetype int

const (
	NoArchetype Archetype = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the string representation of an archetype.
func (a Archetype) String() string {
	names := []string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if a >= 0 && int(a) < len(names) {
		return names[a]
	}
	return "Unknown"
}

// Letter returns the single letter representation of an archetype (uppercase).
func (a Archetype) Letter() byte {
	letters := []byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if a >= 0 && int(a) < len(letters) {
		return letters[a]
	}
	return '?'
}

// CanPromoteTo reports whether a pawn may be replaced by this archetype.
func (a Archetype) CanPromoteTo() bool {
	return a == Queen || a == Rook || a == Bishop || a == Knight
}

// ParseArchetype accepts full names ("queen") or letters ("q", "Q").
func ParseArchetype(s string) (Archetype, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pawn", "p":
		return Pawn, true
	case "knight", "n":
		return Knight, true
	case "bishop", "b":
		return Bishop, true
	case "rook", "r":
		return Rook, true
	case "queen", "q":
		return Queen, true
	case "king", "k":
		return King, true
	}
	return NoArchetype, false
}

// ArchetypeFromLetter converts a FEN letter of either case.
func ArchetypeFromLetter(c byte) Archetype {
	switch c {
	case 'K', 'k':
		return King
	case 'Q', 'q':
		return Queen
	case 'R', 'r':
		return Rook
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'P', 'p':
		return Pawn
	}
	return NoArchetype
}

// BoardSize is the number of files and ranks.
const BoardSize = 8

// Square is a (file, rank) pair, both in [0,7]. File 0 is the a-file and
// rank 0 is White's back rank.
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

// Offboard marks a captured piece.
var Offboard = Square{File: -1, Rank: -1}

// Sq is shorthand for Square{file, rank}.
func Sq(file, rank int) Square {
	return Square{File: file, Rank: rank}
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.File >= 0 && s.File < BoardSize && s.Rank >= 0 && s.Rank < BoardSize
}

// Offset returns the square shifted by df files and dr ranks. The result may
// be off the board.
func (s Square) Offset(df, dr int) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

// String returns coordinate notation such as "e4", or "-" when off the board.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File), byte('1' + s.Rank)})
}

// MarshalText encodes the square in coordinate notation, "-" when off the
// board.
func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes coordinate notation. "-" decodes to Offboard.
func (s *Square) UnmarshalText(text []byte) error {
	if string(text) == "-" {
		*s = Offboard
		return nil
	}
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

// ParseSquare parses coordinate notation such as "e4".
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Offboard, fmt.Errorf("square %q: want file letter and rank digit", s)
	}
	sq := Square{File: int(s[0] - 'a'), Rank: int(s[1] - '1')}
	if !sq.Valid() {
		return Offboard, fmt.Errorf("square %q: off the board", s)
	}
	return sq, nil
}

// IsLight reports whether the square is a light square.
func (s Square) IsLight() bool {
	return (s.File+s.Rank)%2 == 1
}

// SquareSet is a set of on-board squares.
type SquareSet uint64

func (s Square) bit() SquareSet {
	return SquareSet(1) << uint(s.Rank*BoardSize+s.File)
}

// Add returns the set with sq included. Off-board squares are ignored.
func (ss SquareSet) Add(sq Square) SquareSet {
	if !sq.Valid() {
		return ss
	}
	return ss | sq.bit()
}

// Has reports whether sq is in the set.
func (ss SquareSet) Has(sq Square) bool {
	return sq.Valid() && ss&sq.bit() != 0
}

// Len returns the number of squares in the set.
func (ss SquareSet) Len() int {
	return bits.OnesCount64(uint64(ss))
}

// Squares lists the set in a1, b1, ..., h8 order.
func (ss SquareSet) Squares() []Square {
	var out []Square
	for i := 0; i < BoardSize*BoardSize; i++ {
		if ss&(SquareSet(1)<<uint(i)) != 0 {
			out = append(out, Square{File: i % BoardSize, Rank: i / BoardSize})
		}
	}
	return out
}
