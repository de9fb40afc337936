package domain

import (
	"fmt"
	"math/bits"
)

// BitBoard は2048の盤面を80ビットで表現する（スコアは含まない）
// 各タイルは5ビットの指数（0=空, 1=2, 2=4, ..., 17=131072）
// 下位4ビットをlowに、5ビット目をhighにマスごとに格納する
// 置換表のキーとして使う盤面の正規表現
type BitBoard struct {
	low  uint64
	high uint16
}

// NewBitBoard は通常のBoardからBitBoardを生成
func NewBitBoard(b Board) BitBoard {
	var bb BitBoard
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			val := b.Get(r, c)
			if val > 0 {
				// 2の何乗かを計算（2→1, 4→2, 8→3, ...）
				bb.setTile(r, c, bits.TrailingZeros(uint(val)))
			}
		}
	}
	return bb
}

// ToBoard はBitBoardを通常のBoardに変換（スコアは0）
func (bb BitBoard) ToBoard() Board {
	var b Board
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if exp := bb.getTile(r, c); exp > 0 {
				b.cells[r][c] = 1 << exp
			}
		}
	}
	return b
}

// getTile は指定位置のタイル値（指数）を取得
func (bb BitBoard) getTile(row, col int) int {
	pos := row*4 + col
	exp := int((bb.low >> (pos * 4)) & 0xF)
	if bb.high&(1<<pos) != 0 {
		exp |= 0x10
	}
	return exp
}

// setTile は指定位置にタイル値（指数）を設定
func (bb *BitBoard) setTile(row, col, exp int) {
	pos := row*4 + col
	shift := pos * 4
	bb.low = (bb.low &^ (0xF << shift)) | (uint64(exp&0xF) << shift)
	bb.high &^= 1 << pos
	if exp&0x10 != 0 {
		bb.high |= 1 << pos
	}
}

func (bb BitBoard) String() string {
	return fmt.Sprintf("%04x%016x", bb.high, bb.low)
}
