package domain

import (
	"math"
	"math/bits"
	"sort"
)

// Evaluator はBoardを評価してスコアを返すインターフェース
type Evaluator interface {
	Evaluate(b Board) float64
}

// GridEvaluator はスコアを参照せず、タイルの配置だけで評価するEvaluator
// 置換表はスコアだけが違う盤面を同じエントリとして扱う
type GridEvaluator interface {
	Evaluator
	IgnoresScore() bool
}

// HeuristicEvaluator は重み付きの特徴量和で評価する
type HeuristicEvaluator struct {
	Weights Weights
}

// NewHeuristicEvaluator は重みを指定してHeuristicEvaluatorを生成する
func NewHeuristicEvaluator(w Weights) *HeuristicEvaluator {
	return &HeuristicEvaluator{Weights: w}
}

func (e *HeuristicEvaluator) Evaluate(b Board) float64 {
	return Evaluate(b, e.Weights)
}

// IgnoresScore は特徴量がすべてタイルの配置から計算されるのでtrue
func (e *HeuristicEvaluator) IgnoresScore() bool {
	return true
}

// Features は盤面から計算される特徴量
type Features struct {
	EmptyTiles     float64
	Monotonicity   float64
	Smoothness     float64
	MaxTile        float64
	CornerBonus    float64
	MergePotential float64
}

// Dot は特徴量と重みの内積を返す
func (f Features) Dot(w Weights) float64 {
	return f.EmptyTiles*w.EmptyTiles +
		f.Monotonicity*w.Monotonicity +
		f.Smoothness*w.Smoothness +
		f.MaxTile*w.MaxTile +
		f.CornerBonus*w.CornerBonus +
		f.MergePotential*w.MergePotential
}

// ExtractFeatures は盤面の全特徴量を計算する
func ExtractFeatures(b Board) Features {
	return Features{
		EmptyTiles:     emptyTiles(b),
		Monotonicity:   monotonicity(b),
		Smoothness:     smoothness(b),
		MaxTile:        maxTileLog(b),
		CornerBonus:    cornerBonus(b),
		MergePotential: mergePotential(b),
	}
}

// Evaluate は盤面の評価値（特徴量と重みの内積）を返す
// 重みが0の特徴量は計算しない
func Evaluate(b Board, w Weights) float64 {
	score := 0.0
	if w.EmptyTiles != 0 {
		score += w.EmptyTiles * emptyTiles(b)
	}
	if w.Monotonicity != 0 {
		score += w.Monotonicity * monotonicity(b)
	}
	if w.Smoothness != 0 {
		score += w.Smoothness * smoothness(b)
	}
	if w.MaxTile != 0 {
		score += w.MaxTile * maxTileLog(b)
	}
	if w.CornerBonus != 0 {
		score += w.CornerBonus * cornerBonus(b)
	}
	if w.MergePotential != 0 {
		score += w.MergePotential * mergePotential(b)
	}
	return score
}

// logTile はタイル値のlog2を返す（空は0）
func logTile(v int) float64 {
	if v == 0 {
		return 0
	}
	return float64(bits.TrailingZeros(uint(v)))
}

// emptyTiles は空きマス数の2乗
// 残り1-2マスの盤面を線形より強く嫌う
func emptyTiles(b Board) float64 {
	n := float64(b.emptyCount())
	return n * n
}

// monotonicity は各行・各列について、降順・昇順に並べ替えた理想形との
// log2差の小さい方をコストとし、その総和の符号を反転したもの
func monotonicity(b Board) float64 {
	cost := 0.0
	for i := 0; i < 4; i++ {
		cost += lineMonotonicityCost(b.getRow(i))
		cost += lineMonotonicityCost(b.getCol(i))
	}
	return -cost
}

func lineMonotonicityCost(line [4]int) float64 {
	var logs, asc [4]float64
	for i, v := range line {
		logs[i] = logTile(v)
	}
	asc = logs
	sort.Float64s(asc[:])

	desc, inc := 0.0, 0.0
	for i := 0; i < 4; i++ {
		desc += math.Abs(logs[i] - asc[3-i])
		inc += math.Abs(logs[i] - asc[i])
	}
	return math.Min(desc, inc)
}

// smoothness は隣接する非空タイルのlog2差の総和の符号を反転したもの
func smoothness(b Board) float64 {
	penalty := 0.0

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v := b.cells[r][c]
			if v == 0 {
				continue
			}
			logV := logTile(v)

			// 右隣
			if c < 3 && b.cells[r][c+1] != 0 {
				penalty += math.Abs(logV - logTile(b.cells[r][c+1]))
			}
			// 下隣
			if r < 3 && b.cells[r+1][c] != 0 {
				penalty += math.Abs(logV - logTile(b.cells[r+1][c]))
			}
		}
	}

	return -penalty
}

// maxTileLog は最大タイルのlog2（空盤面は0）
func maxTileLog(b Board) float64 {
	return logTile(b.MaxTile())
}

// cornerBonus は最大タイルが角にあれば1、そうでなければ0
func cornerBonus(b Board) float64 {
	max := b.MaxTile()
	if max == 0 {
		return 0
	}
	for _, pos := range [4]Cell{{0, 0}, {0, 3}, {3, 0}, {3, 3}} {
		if b.cells[pos.Row][pos.Col] == max {
			return 1
		}
	}
	return 0
}

// mergePotential は隣接する同じ値のペア数
func mergePotential(b Board) float64 {
	count := 0.0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v := b.cells[r][c]
			if v == 0 {
				continue
			}
			if c < 3 && b.cells[r][c+1] == v {
				count++
			}
			if r < 3 && b.cells[r+1][c] == v {
				count++
			}
		}
	}
	return count
}
