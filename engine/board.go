package engine

import "termtris/types"

var shapes = [...]types.Shape{
	types.I: {
		{false, false, false, false},
		{true, true, true, true},
		{false, false, false, false},
		{false, false, false, false},
	},
	types.O: {
		{true, true, false, false},
		{true, true, false, false},
		{false, false, false, false},
		{false, false, false, false},
	},
	types.T: {
		{false, true, false, false},
		{true, true, true, false},
		{false, false, false, false},
		{false, false, false, false},
	},
	types.S: {
		{false, true, true, false},
		{true, true, false, false},
		{false, false, false, false},
		{false, false, false, false},
	},
	types.Z: {
		{true, true, false, false},
		{false, true, true, false},
		{false, false, false, false},
		{false, false, false, false},
	},
	types.J: {
		{true, false, false, false},
		{true, true, true, false},
		{false, false, false, false},
		{false, false, false, false},
	},
	types.L: {
		{false, false, true, false},
		{true, true, true, false},
		{false, false, false, false},
		{false, false, false, false},
	},
}

// NewTetromino returns a piece of type p in its canonical orientation.
func NewTetromino(p types.PieceType) types.Tetromino {
	return types.Tetromino{Type: p, Shape: shapes[p]}
}

// Rotate returns t turned 90 degrees clockwise.
// It does not check bounds or collisions.
func Rotate(t types.Tetromino) types.Tetromino {
	const n = types.ShapeSize
	var rotated types.Shape
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			rotated[y][x] = t.Shape[n-1-x][y]
		}
	}
	return types.Tetromino{Type: t.Type, Shape: rotated}
}

// Collides reports whether t at pos leaves the board or overlaps a filled cell.
func Collides(board types.Board, t types.Tetromino, pos types.Position) bool {
	for y, row := range t.Shape {
		for x, occupied := range row {
			if !occupied {
				continue
			}
			bx, by := pos.X+x, pos.Y+y
			if !types.InBounds(bx, by) {
				return true
			}
			if board[by][bx].Filled() {
				return true
			}
		}
	}
	return false
}

// Place stamps t into a copy of board at pos.
// Cells falling outside the board are skipped.
func Place(board types.Board, t types.Tetromino, pos types.Position) types.Board {
	marker := t.Type.Cell()
	for y, row := range t.Shape {
		for x, occupied := range row {
			if !occupied {
				continue
			}
			bx, by := pos.X+x, pos.Y+y
			if types.InBounds(bx, by) {
				board[by][bx] = marker
			}
		}
	}
	return board
}

// ClearFullLines removes every full row and pads the top with empty rows.
// It returns the compacted board and the number of rows removed.
func ClearFullLines(board types.Board) (types.Board, int) {
	var cleared types.Board
	dst := types.Height - 1
	for y := types.Height - 1; y >= 0; y-- {
		if types.Row(board[y]).Full() {
			continue
		}
		cleared[dst] = board[y]
		dst--
	}
	return cleared, dst + 1
}

// DropLanding returns the lowest collision-free position straight below pos.
func DropLanding(board types.Board, t types.Tetromino, pos types.Position) types.Position {
	for !Collides(board, t, pos.Add(0, 1)) {
		pos = pos.Add(0, 1)
	}
	return pos
}

// AddGarbage pushes the board content up by n rows and fills the bottom n
// rows with garbage, each with a single hole in a column chosen by r.
// Content pushed above the top row is lost.
func AddGarbage(board types.Board, n int, r Randomizer) types.Board {
	if n <= 0 {
		return board
	}
	if n > types.Height {
		n = types.Height
	}
	var out types.Board
	copy(out[:], board[n:])
	for y := types.Height - n; y < types.Height; y++ {
		hole := r.IntN(types.Width)
		for x := range out[y] {
			if x != hole {
				out[y][x] = types.Garbage
			}
		}
	}
	return out
}
