package usecase

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

// ParseBoard は16個の数値（行優先、0は空き）から盤面を作る
func ParseBoard(input string) (domain.Board, error) {
	parts := strings.Fields(input)
	if len(parts) != 16 {
		return domain.Board{}, fmt.Errorf("need exactly 16 numbers, got %d", len(parts))
	}

	var cells [4][4]int
	for i, p := range parts {
		val, err := strconv.Atoi(p)
		if err != nil {
			return domain.Board{}, fmt.Errorf("parse number %q: %w", p, err)
		}
		cells[i/4][i%4] = val
	}
	return domain.NewBoardFromCells(cells)
}

// Analysis は盤面の分析結果
type Analysis struct {
	Board    domain.Board
	Result   domain.Result
	Features domain.Features
	Current  float64
}

// Analyze は盤面の特徴量と各方向の期待値を計算する
func Analyze(board domain.Board, solver *domain.Solver, weights domain.Weights) Analysis {
	return Analysis{
		Board:    board,
		Result:   solver.Search(board),
		Features: domain.ExtractFeatures(board),
		Current:  domain.Evaluate(board, weights),
	}
}

// PrintAnalysis は分析結果を表示する
func PrintAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintln(w, "Current board:")
	fmt.Fprint(w, a.Board)

	f := a.Features
	fmt.Fprintf(w, "Evaluation: %.2f (empty=%.0f mono=%.2f smooth=%.2f max=%.0f corner=%.0f merge=%.0f)\n",
		a.Current, f.EmptyTiles, f.Monotonicity, f.Smoothness, f.MaxTile, f.CornerBonus, f.MergePotential)

	if !a.Result.Found {
		fmt.Fprintln(w, "No valid moves available!")
		return
	}

	fmt.Fprintf(w, "\n=== Recommended move: %s ===\n", a.Result.Move)
	fmt.Fprintln(w, "\nMove scores:")
	for _, dir := range domain.Directions {
		score, ok := a.Result.Values[dir]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-5s: %.2f", dir, score)
		if dir == a.Result.Move {
			fmt.Fprint(w, " <- BEST")
		}
		fmt.Fprintln(w)
	}
	st := a.Result.Stats
	fmt.Fprintf(w, "\nNodes: %d, Evaluations: %d, Cache hits: %d, Time: %v\n", st.Nodes, st.Evaluations, st.CacheHits, st.Elapsed)
}
