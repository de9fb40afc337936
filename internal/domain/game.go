package domain

import "math/rand"

// NewStartingBoard は空盤面にランダムなタイルを2つ置いた初期盤面を返す
func NewStartingBoard(rng *rand.Rand) Board {
	b := NewBoard()
	b, _ = b.SpawnRandom(rng)
	b, _ = b.SpawnRandom(rng)
	return b
}

// SpawnRandom は空きマスにランダムにタイルを配置した新しいBoardを返す
// 2が90%、4が10%の確率で出現する。空きマスがない場合はfalseを返す
func (b Board) SpawnRandom(rng *rand.Rand) (Board, bool) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return b, false
	}

	pos := empty[rng.Intn(len(empty))]
	val := SpawnValues[0]
	if rng.Float64() >= Spawn2Probability {
		val = SpawnValues[1]
	}
	return b.Set(pos.Row, pos.Col, val), true
}

// Game は2048ゲームの状態を管理する
type Game struct {
	board Board
	moves int
	rng   *rand.Rand
}

// NewGame は新しいゲームを開始する
func NewGame(rng *rand.Rand) *Game {
	return &Game{
		board: NewStartingBoard(rng),
		rng:   rng,
	}
}

// Board は現在の盤面を返す
func (g *Game) Board() Board {
	return g.board
}

// Score は現在のスコアを返す
func (g *Game) Score() int {
	return g.board.Score()
}

// MaxTile は現在の最大タイルを返す
func (g *Game) MaxTile() int {
	return g.board.MaxTile()
}

// Moves はこれまでに成功した手数を返す
func (g *Game) Moves() int {
	return g.moves
}

// IsGameOver はゲームオーバーかどうかを返す
func (g *Game) IsGameOver() bool {
	return g.board.IsTerminal()
}

// Move は指定した方向にスワイプを実行する
// 盤面が変化した場合はtrueを返す
func (g *Game) Move(dir Direction) bool {
	next, _, changed := g.board.ApplyMove(dir)
	if !changed {
		return false
	}

	g.board, _ = next.SpawnRandom(g.rng)
	g.moves++
	return true
}
