package domain

import "fmt"

// ApplyMove は指定した方向にスワイプした結果の盤面、獲得スコア、盤面が変化したかを返す
// 返す盤面のスコアは元のスコアに獲得スコアを加えたもの
// 方向が不正な場合はpanicする
func (b Board) ApplyMove(dir Direction) (Board, int, bool) {
	var next Board
	delta := 0

	switch dir {
	case Left:
		for r := 0; r < 4; r++ {
			merged, score := mergeLine(b.getRow(r))
			delta += score
			next.cells[r] = merged
		}
	case Right:
		for r := 0; r < 4; r++ {
			merged, score := mergeLine(reverseLine(b.getRow(r)))
			delta += score
			next.cells[r] = reverseLine(merged)
		}
	case Up:
		for c := 0; c < 4; c++ {
			merged, score := mergeLine(b.getCol(c))
			delta += score
			next.setCol(c, merged)
		}
	case Down:
		for c := 0; c < 4; c++ {
			merged, score := mergeLine(reverseLine(b.getCol(c)))
			delta += score
			next.setCol(c, reverseLine(merged))
		}
	default:
		panic(fmt.Sprintf("domain: ApplyMove with %v", dir))
	}

	next.score = b.score + delta
	return next, delta, next.cells != b.cells
}

// LegalMoves は盤面が変化する方向をDirectionsの順で返す
func (b Board) LegalMoves() []Direction {
	moves := make([]Direction, 0, 4)
	for _, dir := range Directions {
		if _, _, changed := b.ApplyMove(dir); changed {
			moves = append(moves, dir)
		}
	}
	return moves
}

// IsTerminal はどの方向にもスワイプできない（ゲームオーバー）かどうかを返す
func (b Board) IsTerminal() bool {
	for _, dir := range Directions {
		if _, _, changed := b.ApplyMove(dir); changed {
			return false
		}
	}
	return true
}

// getRow は指定した行を配列として返す
func (b Board) getRow(row int) [4]int {
	return b.cells[row]
}

// getCol は指定した列を配列として返す
func (b Board) getCol(col int) [4]int {
	var result [4]int
	for r := 0; r < 4; r++ {
		result[r] = b.cells[r][col]
	}
	return result
}

func (b *Board) setCol(col int, line [4]int) {
	for r := 0; r < 4; r++ {
		b.cells[r][col] = line[r]
	}
}

// mergeLine は1行/1列を左方向に詰めてマージし、結果とスコアを返す
// 一度マージされたタイルは同じスワイプ内で再びマージしない
func mergeLine(line [4]int) ([4]int, int) {
	var result [4]int
	score := 0
	writePos := 0
	mergeable := false // result[writePos-1]がまだマージされていないか

	for _, v := range line {
		if v == 0 {
			continue
		}
		if mergeable && result[writePos-1] == v && v < MaxTileValue {
			result[writePos-1] = v * 2
			score += v * 2
			mergeable = false
			continue
		}
		result[writePos] = v
		writePos++
		mergeable = true
	}

	return result, score
}

// reverseLine は配列を反転する
func reverseLine(line [4]int) [4]int {
	return [4]int{line[3], line[2], line[1], line[0]}
}
