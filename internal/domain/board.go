package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MaxTileValue は盤面に置けるタイルの最大値
// 4x4の盤面で作れる最大のタイル（2^17）で、これ同士はマージしない
const MaxTileValue = 1 << 17

// ErrInvalidTile は2の累乗でない、または範囲外のタイル値
var ErrInvalidTile = errors.New("invalid tile value")

// Cell は盤面上の座標
type Cell struct {
	Row int
	Col int
}

// Board は4x4の2048ゲーム盤面と累積スコアを表す（immutable）
type Board struct {
	cells [4][4]int
	score int
}

// NewBoard は空のBoardを生成する
func NewBoard() Board {
	return Board{}
}

// NewBoardFromCells はセルの値を指定してBoardを生成する
// 各セルは0か、2以上MaxTileValue以下の2の累乗でなければならない
func NewBoardFromCells(cells [4][4]int) (Board, error) {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if !validTile(cells[r][c]) {
				return Board{}, fmt.Errorf("cell (%d,%d) = %d: %w", r, c, cells[r][c], ErrInvalidTile)
			}
		}
	}
	return Board{cells: cells}, nil
}

// MustBoard はNewBoardFromCellsと同じだが、不正な値でpanicする
func MustBoard(cells [4][4]int) Board {
	b, err := NewBoardFromCells(cells)
	if err != nil {
		panic(err)
	}
	return b
}

func validTile(v int) bool {
	if v == 0 {
		return true
	}
	return v >= 2 && v <= MaxTileValue && v&(v-1) == 0
}

// WithScore はスコアを差し替えた新しいBoardを返す
func (b Board) WithScore(score int) Board {
	b.score = score
	return b
}

// Score はこの盤面に至るまでのマージで得たスコアを返す
func (b Board) Score() int {
	return b.score
}

// Get は指定した位置のセル値を取得する
func (b Board) Get(row, col int) int {
	return b.cells[row][col]
}

// Set は指定した位置に値を設定した新しいBoardを返す
func (b Board) Set(row, col, value int) Board {
	// 配列は値コピーされるのでレシーバは変更されない
	b.cells[row][col] = value
	return b
}

// EmptyCells は空のセルの座標一覧を行優先順で返す
func (b Board) EmptyCells() []Cell {
	empty := make([]Cell, 0, 16)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b.cells[r][c] == 0 {
				empty = append(empty, Cell{Row: r, Col: c})
			}
		}
	}
	return empty
}

func (b Board) emptyCount() int {
	n := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b.cells[r][c] == 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile は盤面上の最大タイル値を返す（空盤面は0）
func (b Board) MaxTile() int {
	max := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if b.cells[r][c] > max {
				max = b.cells[r][c]
			}
		}
	}
	return max
}

// Equal は2つのBoardのタイル配置が等しいかどうかを返す（スコアは比較しない）
func (b Board) Equal(other Board) bool {
	return b.cells == other.cells
}

// String はBoardをASCIIアートとして表示する
func (b Board) String() string {
	line := "+------+------+------+------+"
	var sb strings.Builder
	sb.WriteString(line + "\n")
	for r := 0; r < 4; r++ {
		sb.WriteString("|")
		for c := 0; c < 4; c++ {
			if b.cells[r][c] == 0 {
				sb.WriteString("      |")
			} else {
				fmt.Fprintf(&sb, "%5d |", b.cells[r][c])
			}
		}
		sb.WriteString("\n" + line + "\n")
	}
	fmt.Fprintf(&sb, "Score: %d\n", b.score)
	return sb.String()
}
