// Package types contains shared data structures for termtris.
package types

// Board dimensions.
const (
	Width  = 10
	Height = 20

	// ShapeSize is the side of the square box every tetromino shape lives in.
	ShapeSize = 4
)

// Cell is the content of one board square.
// The zero value is an empty cell.
type Cell uint8

const (
	Empty Cell = iota
	CellI
	CellO
	CellT
	CellS
	CellZ
	CellJ
	CellL
	Garbage
)

// Filled returns true if the cell holds a block of any kind.
func (c Cell) Filled() bool {
	return c != Empty
}

// String returns a one-letter representation of the cell.
func (c Cell) String() string {
	switch c {
	case Empty:
		return "."
	case Garbage:
		return "#"
	}
	if c >= CellI && c <= CellL {
		return PieceType(c - CellI).String()
	}
	return "?"
}

// PieceType identifies one of the seven tetrominoes.
type PieceType uint8

const (
	I PieceType = iota
	O
	T
	S
	Z
	J
	L
)

// PieceTypes lists every piece type in table order.
var PieceTypes = [...]PieceType{I, O, T, S, Z, J, L}

var pieceNames = [...]string{"I", "O", "T", "S", "Z", "J", "L"}

func (p PieceType) String() string {
	if int(p) < len(pieceNames) {
		return pieceNames[p]
	}
	return "?"
}

// Cell returns the board marker written when a piece of this type locks.
func (p PieceType) Cell() Cell {
	return CellI + Cell(p)
}

// ParsePieceType converts a one-letter name back to a PieceType.
func ParsePieceType(s string) (PieceType, bool) {
	for i, name := range pieceNames {
		if name == s {
			return PieceType(i), true
		}
	}
	return 0, false
}

// Shape is a 4x4 occupancy matrix indexed as Shape[y][x].
type Shape [ShapeSize][ShapeSize]bool

// Tetromino is a piece type together with its current orientation.
// It is a value type; rotating produces a new Tetromino.
type Tetromino struct {
	Type  PieceType
	Shape Shape
}

// Position is the board offset of a tetromino's 4x4 box top-left corner.
type Position struct {
	X int
	Y int
}

// Add returns the position shifted by dx, dy.
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// SpawnPosition is where every new piece appears.
var SpawnPosition = Position{X: 3, Y: 0}

// Board is the playfield, indexed as Board[y][x] with row 0 at the top.
// Board is an array so assignment copies it.
type Board [Height][Width]Cell

// Row is one board row.
type Row [Width]Cell

// Full returns true if no cell in the row is empty.
func (r Row) Full() bool {
	for _, c := range r {
		if c == Empty {
			return false
		}
	}
	return true
}

// InBounds returns true if x, y lies on the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// String renders the board as Height lines of Width characters.
func (b Board) String() string {
	buf := make([]byte, 0, Height*(Width+1))
	for y := range b {
		for _, c := range b[y] {
			buf = append(buf, c.String()...)
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

// Count returns the number of filled cells on the board.
func (b Board) Count() int {
	n := 0
	for y := range b {
		for _, c := range b[y] {
			if c.Filled() {
				n++
			}
		}
	}
	return n
}
